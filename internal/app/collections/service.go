package collections

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/preston-bernstein/borga-service/internal/catalog"
	"github.com/preston-bernstein/borga-service/internal/domain"
	"github.com/preston-bernstein/borga-service/internal/domain/games"
	"github.com/preston-bernstein/borga-service/internal/domain/groups"
	"github.com/preston-bernstein/borga-service/internal/domain/users"
	"github.com/preston-bernstein/borga-service/internal/logging"
	"github.com/preston-bernstein/borga-service/internal/metrics"
)

const tracerName = "github.com/preston-bernstein/borga-service/internal/app/collections"

// Store defines the state operations the service orchestrates.
type Store interface {
	CreateGroup(name, description string) (int, error)
	Group(id int) (groups.Group, error)
	Groups() []groups.Group
	ChangeGroupName(id int, name string) (groups.Group, error)
	ChangeGroupDescription(id int, description string) (groups.Group, error)
	DeleteGroup(id int) error
	AddGroupGame(id int, game games.Game) (string, error)
	DeleteGameFromGroup(id int, gameID string) error
	GroupHasGame(id int, gameID string) bool
	GroupGames(id int) ([]games.Game, error)
	GroupGameNames(id int) ([]string, error)

	CreateUser(name string) error
	User(name string) (users.User, error)
	DeleteUser(name string) error
	AddGroupToUser(name string, id int) error
	DeleteGroupFromUser(name string, id int) error
	UserHasGroup(name string, id int) (bool, error)
	UserGroups(name string) ([]int, error)

	BindToken(token, user string)
	UserForToken(token string) (string, bool)
	ResetAll()
}

// Service adds token authorization and catalog orchestration on top of a Store.
type Service struct {
	store            Store
	catalog          catalog.Resolver
	logger           *slog.Logger
	metrics          *metrics.Recorder
	tracer           trace.Tracer
	enforceOwnership bool
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec *metrics.Recorder) Option {
	return func(s *Service) { s.metrics = rec }
}

// WithOwnershipCheck rejects group mutations by users that do not reference the group.
func WithOwnershipCheck(enabled bool) Option {
	return func(s *Service) { s.enforceOwnership = enabled }
}

// WithTracer overrides the tracer taken from the global otel provider.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

// NewService constructs a Service over store, resolving games through resolver.
func NewService(store Store, resolver catalog.Resolver, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: resolver,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer(tracerName)
	}
	return s
}

// ConnectTokenWithUser binds token to user. The user does not need to exist yet.
func (s *Service) ConnectTokenWithUser(token, user string) {
	s.store.BindToken(token, user)
	logging.Debug(s.logger, "token bound", slog.String(logging.FieldUser, user))
}

// Authorize resolves token to the user it is bound to.
func (s *Service) Authorize(token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return "", s.observe("authorize", domain.ErrInvalidToken)
	}
	user, ok := s.store.UserForToken(token)
	if !ok {
		return "", s.observe("authorize", domain.ErrUnauthorized)
	}
	return user, nil
}

// CreateGroup creates a group and, when user exists, adds it to the user's groups.
func (s *Service) CreateGroup(user, name, description string) (int, error) {
	id, err := s.store.CreateGroup(name, description)
	if err != nil {
		return 0, s.observe("createGroup", err)
	}
	if err := s.store.AddGroupToUser(user, id); err != nil && !errors.Is(err, domain.ErrUserDoesNotExist) {
		return 0, s.observe("createGroup", err)
	}
	logging.Debug(s.logger, "group created",
		slog.String(logging.FieldUser, user),
		slog.Int(logging.FieldGroupID, id),
	)
	return id, s.observe("createGroup", nil)
}

// Group returns a group by id.
func (s *Service) Group(id int) (groups.Group, error) {
	g, err := s.store.Group(id)
	return g, s.observe("getGroup", err)
}

// Groups lists every group in the store.
func (s *Service) Groups() []groups.Group {
	return s.store.Groups()
}

// ChangeGroupName renames a group on behalf of user.
func (s *Service) ChangeGroupName(user string, id int, name string) (groups.Group, error) {
	if err := s.checkOwnership(user, id); err != nil {
		return groups.Group{}, s.observe("changeGroupName", err)
	}
	g, err := s.store.ChangeGroupName(id, name)
	return g, s.observe("changeGroupName", err)
}

// ChangeGroupDescription replaces a group's description on behalf of user.
func (s *Service) ChangeGroupDescription(user string, id int, description string) (groups.Group, error) {
	if err := s.checkOwnership(user, id); err != nil {
		return groups.Group{}, s.observe("changeGroupDescription", err)
	}
	g, err := s.store.ChangeGroupDescription(id, description)
	return g, s.observe("changeGroupDescription", err)
}

// DeleteGroup removes a group on behalf of user.
func (s *Service) DeleteGroup(user string, id int) error {
	if err := s.checkOwnership(user, id); err != nil {
		return s.observe("deleteGroup", err)
	}
	if err := s.store.DeleteGroup(id); err != nil {
		return s.observe("deleteGroup", err)
	}
	logging.Debug(s.logger, "group deleted",
		slog.String(logging.FieldUser, user),
		slog.Int(logging.FieldGroupID, id),
	)
	return s.observe("deleteGroup", nil)
}

// AddGameToGroupByID resolves gameID through the catalog and caches the result in the group.
//
// The catalog lookup happens before the store is touched; the store then re-checks the group
// and duplicates against its state at that moment. A failed lookup caches nothing.
func (s *Service) AddGameToGroupByID(ctx context.Context, user string, groupID int, gameID string) (string, error) {
	const op = "addGameToGroupByID"
	if err := s.checkOwnership(user, groupID); err != nil {
		return "", s.observe(op, err)
	}
	if _, err := s.store.Group(groupID); err != nil {
		return "", s.observe(op, err)
	}
	if s.store.GroupHasGame(groupID, gameID) {
		return "", s.observe(op, domain.ErrGroupAlreadyHasGame)
	}

	game, err := s.resolveGame(ctx, groupID, gameID)
	if err != nil {
		return "", s.observe(op, err)
	}

	id, err := s.store.AddGroupGame(groupID, game)
	if err != nil {
		return "", s.observe(op, err)
	}
	logging.Debug(logging.FromContext(ctx, s.logger), "game added to group",
		slog.String(logging.FieldUser, user),
		slog.Int(logging.FieldGroupID, groupID),
		slog.String(logging.FieldGameID, id),
	)
	return id, s.observe(op, nil)
}

// AddGameToGroup caches an already resolved game in the group.
func (s *Service) AddGameToGroup(user string, groupID int, game games.Game) (string, error) {
	if err := s.checkOwnership(user, groupID); err != nil {
		return "", s.observe("addGameToGroup", err)
	}
	id, err := s.store.AddGroupGame(groupID, game)
	return id, s.observe("addGameToGroup", err)
}

// DeleteGameFromGroup removes a cached game from the group on behalf of user.
func (s *Service) DeleteGameFromGroup(user string, groupID int, gameID string) error {
	if err := s.checkOwnership(user, groupID); err != nil {
		return s.observe("deleteGameFromGroup", err)
	}
	return s.observe("deleteGameFromGroup", s.store.DeleteGameFromGroup(groupID, gameID))
}

// GroupHasGame reports whether the group caches gameID. Missing groups report false.
func (s *Service) GroupHasGame(groupID int, gameID string) bool {
	return s.store.GroupHasGame(groupID, gameID)
}

// GroupGames returns the group's games in insertion order.
func (s *Service) GroupGames(groupID int) ([]games.Game, error) {
	list, err := s.store.GroupGames(groupID)
	return list, s.observe("getGroupGames", err)
}

// GroupGameNames returns the group's game names in insertion order.
func (s *Service) GroupGameNames(groupID int) ([]string, error) {
	names, err := s.store.GroupGameNames(groupID)
	return names, s.observe("getGroupGameNames", err)
}

// CreateUser registers a user.
func (s *Service) CreateUser(name string) error {
	return s.observe("createUser", s.store.CreateUser(name))
}

// User returns a user with its live groups.
func (s *Service) User(name string) (users.User, error) {
	u, err := s.store.User(name)
	return u, s.observe("getUser", err)
}

// DeleteUser removes a user.
func (s *Service) DeleteUser(name string) error {
	return s.observe("deleteUser", s.store.DeleteUser(name))
}

// AddGroupToUser adds a live group to the user's groups.
func (s *Service) AddGroupToUser(user string, groupID int) error {
	return s.observe("addGroupToUser", s.store.AddGroupToUser(user, groupID))
}

// DeleteGroupFromUser drops a group from the user's groups.
func (s *Service) DeleteGroupFromUser(user string, groupID int) error {
	return s.observe("deleteGroupFromUser", s.store.DeleteGroupFromUser(user, groupID))
}

// UserHasGroup reports whether the user references a live group.
func (s *Service) UserHasGroup(user string, groupID int) (bool, error) {
	ok, err := s.store.UserHasGroup(user, groupID)
	return ok, s.observe("userHasGroup", err)
}

// UserGroups returns the user's live group ids, pruning stale references.
func (s *Service) UserGroups(user string) ([]int, error) {
	ids, err := s.store.UserGroups(user)
	return ids, s.observe("getUserGroups", err)
}

// ResetAll clears every user, group and token binding.
func (s *Service) ResetAll() {
	s.store.ResetAll()
	logging.Info(s.logger, "collection store reset")
}

func (s *Service) resolveGame(ctx context.Context, groupID int, gameID string) (games.Game, error) {
	ctx, span := s.tracer.Start(ctx, "collections.resolveGame", trace.WithAttributes(
		attribute.String("game.id", gameID),
		attribute.Int("group.id", groupID),
	))
	defer span.End()

	if s.catalog == nil {
		span.SetStatus(codes.Error, "no catalog configured")
		return games.Game{}, domain.ErrCatalogUnavailable
	}

	game, err := s.catalog.Resolve(ctx, gameID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if errors.Is(err, catalog.ErrGameNotFound) {
			return games.Game{}, domain.ErrGameNotFound.Wrap(err)
		}
		logging.Warn(logging.FromContext(ctx, s.logger), "catalog lookup failed",
			slog.String(logging.FieldGameID, gameID),
			slog.Any("err", err),
		)
		return games.Game{}, domain.ErrCatalogUnavailable.Wrap(err)
	}
	if game.ID == "" {
		game.ID = gameID
	}
	return game, nil
}

// checkOwnership is a no-op unless the ownership check is enabled. Group existence is
// reported before ownership so callers still see GROUP_DOES_NOT_EXIST for unknown ids.
func (s *Service) checkOwnership(user string, groupID int) error {
	if !s.enforceOwnership {
		return nil
	}
	if _, err := s.store.Group(groupID); err != nil {
		return err
	}
	owned, err := s.store.UserHasGroup(user, groupID)
	if err != nil {
		return err
	}
	if !owned {
		return domain.ErrForbidden
	}
	return nil
}

func (s *Service) observe(operation string, err error) error {
	s.metrics.RecordOperation(operation, string(domain.KindOf(err)))
	return err
}
