package store

import (
	"fmt"
	"sort"
	"sync"

	"github.com/preston-bernstein/borga-service/internal/domain"
	"github.com/preston-bernstein/borga-service/internal/domain/games"
	"github.com/preston-bernstein/borga-service/internal/domain/groups"
	"github.com/preston-bernstein/borga-service/internal/domain/users"
)

type groupRecord struct {
	name        string
	description string
	games       []games.Game
	index       map[string]int
}

type userRecord struct {
	groups []int
}

// MemoryStore keeps users, groups and token bindings in memory.
// Every method holds the lock for its whole read-modify-write, and reads return copies.
type MemoryStore struct {
	mu     sync.Mutex
	nextID int
	groups map[int]*groupRecord
	users  map[string]*userRecord
	tokens map[string]string
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{}
	s.reset()
	return s
}

func (s *MemoryStore) reset() {
	s.nextID = 0
	s.groups = make(map[int]*groupRecord)
	s.users = make(map[string]*userRecord)
	s.tokens = make(map[string]string)
}

// ResetAll drops every user, group and token binding and restarts id generation.
func (s *MemoryStore) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// CreateGroup stores a new empty group and returns its id.
func (s *MemoryStore) CreateGroup(name, description string) (int, error) {
	if !groups.ValidName(name) {
		return 0, domain.ErrInvalidGroupName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	s.groups[s.nextID] = &groupRecord{
		name:        name,
		description: description,
		index:       make(map[string]int),
	}
	return s.nextID, nil
}

// Group returns a copy of the group with the given id.
func (s *MemoryStore) Group(id int) (groups.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.group(id)
	if err != nil {
		return groups.Group{}, err
	}
	return g.snapshot(id), nil
}

// Groups returns every live group ordered by id.
func (s *MemoryStore) Groups() []groups.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.groups))
	for id := range s.groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	result := make([]groups.Group, 0, len(ids))
	for _, id := range ids {
		result = append(result, s.groups[id].snapshot(id))
	}
	return result
}

// ChangeGroupName renames a group. Existence is checked before the name.
func (s *MemoryStore) ChangeGroupName(id int, name string) (groups.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.group(id)
	if err != nil {
		return groups.Group{}, err
	}
	if !groups.ValidName(name) {
		return groups.Group{}, domain.ErrInvalidGroupName
	}
	g.name = name
	return g.snapshot(id), nil
}

// ChangeGroupDescription replaces a group's description. An empty description is allowed.
func (s *MemoryStore) ChangeGroupDescription(id int, description string) (groups.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.group(id)
	if err != nil {
		return groups.Group{}, err
	}
	g.description = description
	return g.snapshot(id), nil
}

// DeleteGroup removes a group. User references to it are left in place and pruned on read.
func (s *MemoryStore) DeleteGroup(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.group(id); err != nil {
		return err
	}
	delete(s.groups, id)
	return nil
}

// AddGroupGame caches game inside the group and returns the game id.
func (s *MemoryStore) AddGroupGame(id int, game games.Game) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.group(id)
	if err != nil {
		return "", err
	}
	if !game.Valid() {
		return "", domain.ErrInvalidGame
	}
	if _, ok := g.index[game.ID]; ok {
		return "", domain.ErrGroupAlreadyHasGame
	}
	g.index[game.ID] = len(g.games)
	g.games = append(g.games, game)
	return game.ID, nil
}

// DeleteGameFromGroup removes a cached game, keeping the order of the remaining ones.
func (s *MemoryStore) DeleteGameFromGroup(id int, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.group(id)
	if err != nil {
		return err
	}
	pos, ok := g.index[gameID]
	if !ok {
		return domain.ErrGameDoesNotExistInGroup
	}
	g.games = append(g.games[:pos], g.games[pos+1:]...)
	delete(g.index, gameID)
	for i := pos; i < len(g.games); i++ {
		g.index[g.games[i].ID] = i
	}
	return nil
}

// GroupHasGame reports whether the group caches gameID. A missing group yields false.
func (s *MemoryStore) GroupHasGame(id int, gameID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.groups[id]
	if !ok {
		return false
	}
	_, ok = g.index[gameID]
	return ok
}

// GroupGames returns the cached games in insertion order.
func (s *MemoryStore) GroupGames(id int) ([]games.Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.group(id)
	if err != nil {
		return nil, err
	}
	return g.copyGames(), nil
}

// GroupGameNames returns the cached game names in insertion order.
func (s *MemoryStore) GroupGameNames(id int) ([]string, error) {
	list, err := s.GroupGames(id)
	if err != nil {
		return nil, err
	}
	return games.Names(list), nil
}

// CreateUser registers a new user. Re-creating an existing user is an error.
func (s *MemoryStore) CreateUser(name string) error {
	if !users.ValidName(name) {
		return domain.ErrInvalidUserName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[name]; ok {
		return domain.ErrUserAlreadyExists
	}
	s.users[name] = &userRecord{}
	return nil
}

// User returns the user with its live group references. Stale references are pruned.
func (s *MemoryStore) User(name string) (users.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(name)
	if err != nil {
		return users.User{}, err
	}
	return users.User{Name: name, Groups: s.prune(u)}, nil
}

// DeleteUser removes a user. Groups it referenced are left untouched.
func (s *MemoryStore) DeleteUser(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.user(name); err != nil {
		return err
	}
	delete(s.users, name)
	return nil
}

// AddGroupToUser adds a live group to the user's references. Adding it twice is a no-op.
func (s *MemoryStore) AddGroupToUser(name string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(name)
	if err != nil {
		return err
	}
	if _, err := s.group(id); err != nil {
		return err
	}
	for _, existing := range u.groups {
		if existing == id {
			return nil
		}
	}
	u.groups = append(u.groups, id)
	return nil
}

// DeleteGroupFromUser drops a group reference. Dropping an absent reference is a no-op.
func (s *MemoryStore) DeleteGroupFromUser(name string, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(name)
	if err != nil {
		return err
	}
	for i, existing := range u.groups {
		if existing == id {
			u.groups = append(u.groups[:i], u.groups[i+1:]...)
			break
		}
	}
	return nil
}

// UserHasGroup reports whether the user references a live group with the given id.
func (s *MemoryStore) UserHasGroup(name string, id int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(name)
	if err != nil {
		return false, err
	}
	for _, existing := range s.prune(u) {
		if existing == id {
			return true, nil
		}
	}
	return false, nil
}

// UserGroups returns the user's live group ids and permanently drops references to deleted groups.
func (s *MemoryStore) UserGroups(name string) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.user(name)
	if err != nil {
		return nil, err
	}
	return s.prune(u), nil
}

// BindToken maps token to user, replacing any previous binding for that token.
func (s *MemoryStore) BindToken(token, user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = user
}

// UserForToken resolves a token binding.
func (s *MemoryStore) UserForToken(token string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.tokens[token]
	return user, ok
}

func (s *MemoryStore) group(id int) (*groupRecord, error) {
	g, ok := s.groups[id]
	if !ok {
		return nil, domain.ErrGroupDoesNotExist.WithMessage(fmt.Sprintf("group %d does not exist", id))
	}
	return g, nil
}

func (s *MemoryStore) user(name string) (*userRecord, error) {
	u, ok := s.users[name]
	if !ok {
		return nil, domain.ErrUserDoesNotExist.WithMessage(fmt.Sprintf("user %q does not exist", name))
	}
	return u, nil
}

// prune must be called with the lock held.
func (s *MemoryStore) prune(u *userRecord) []int {
	live := u.groups[:0]
	for _, id := range u.groups {
		if _, ok := s.groups[id]; ok {
			live = append(live, id)
		}
	}
	u.groups = live

	result := make([]int, len(live))
	copy(result, live)
	return result
}

func (g *groupRecord) snapshot(id int) groups.Group {
	return groups.Group{
		ID:          id,
		Name:        g.name,
		Description: g.description,
		Games:       g.copyGames(),
	}
}

func (g *groupRecord) copyGames() []games.Game {
	result := make([]games.Game, len(g.games))
	copy(result, g.games)
	return result
}
