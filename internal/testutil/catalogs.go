package testutil

import (
	"context"
	"sync/atomic"

	"github.com/preston-bernstein/borga-service/internal/catalog"
	"github.com/preston-bernstein/borga-service/internal/domain/games"
)

// StubCatalog resolves games from a map and counts calls. Unknown ids yield catalog.ErrGameNotFound
// unless Err is set, in which case every call fails with Err.
type StubCatalog struct {
	Games map[string]games.Game
	Err   error
	Calls atomic.Int32

	// BeforeReturn, when set, runs after the lookup and before the result is returned.
	BeforeReturn func()
}

func (s *StubCatalog) Resolve(ctx context.Context, id string) (games.Game, error) {
	_ = ctx
	s.Calls.Add(1)
	if s.BeforeReturn != nil {
		s.BeforeReturn()
	}
	if s.Err != nil {
		return games.Game{}, s.Err
	}
	g, ok := s.Games[id]
	if !ok {
		return games.Game{}, catalog.ErrGameNotFound
	}
	return g, nil
}

// NewStubCatalog builds a StubCatalog from games.
func NewStubCatalog(list ...games.Game) *StubCatalog {
	s := &StubCatalog{Games: make(map[string]games.Game, len(list))}
	for _, g := range list {
		s.Games[g.ID] = g
	}
	return s
}

// SampleGame returns a minimal valid game with the provided id and name.
func SampleGame(id, name string) games.Game {
	return games.Game{ID: id, Name: name}
}
