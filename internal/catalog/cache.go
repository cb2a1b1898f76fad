package catalog

import (
	"context"
	"sync"

	"github.com/preston-bernstein/borga-service/internal/domain/games"
)

// CachingResolver memoizes successful lookups so the same game added to several groups
// only reaches the upstream catalog once. Failures are never cached.
type CachingResolver struct {
	next Resolver

	mu      sync.RWMutex
	entries map[string]games.Game
}

// NewCachingResolver wraps next with an in-process metadata cache.
func NewCachingResolver(next Resolver) *CachingResolver {
	return &CachingResolver{
		next:    next,
		entries: make(map[string]games.Game),
	}
}

func (c *CachingResolver) Resolve(ctx context.Context, id string) (games.Game, error) {
	c.mu.RLock()
	game, ok := c.entries[id]
	c.mu.RUnlock()
	if ok {
		return game, nil
	}

	if c.next == nil {
		return games.Game{}, ErrCatalogUnavailable
	}
	game, err := c.next.Resolve(ctx, id)
	if err != nil {
		return games.Game{}, err
	}

	c.mu.Lock()
	c.entries[id] = game
	c.mu.Unlock()
	return game, nil
}

// Len reports how many games are cached.
func (c *CachingResolver) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Purge drops every cached entry.
func (c *CachingResolver) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]games.Game)
}
