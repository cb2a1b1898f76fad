package catalog

import (
	"context"

	"github.com/preston-bernstein/borga-service/internal/domain/games"
)

// Resolver turns a catalog game id into game metadata.
// Implementations return ErrGameNotFound when the catalog has no such game.
type Resolver interface {
	Resolve(ctx context.Context, id string) (games.Game, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(ctx context.Context, id string) (games.Game, error)

func (f ResolverFunc) Resolve(ctx context.Context, id string) (games.Game, error) {
	return f(ctx, id)
}
