package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/preston-bernstein/borga-service/internal/domain/games"
)

func TestCachingResolverHitsUpstreamOnce(t *testing.T) {
	inner := &countingResolver{}
	c := NewCachingResolver(inner)

	for i := 0; i < 3; i++ {
		game, err := c.Resolve(context.Background(), "5H5JS0KLzK")
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if game.ID != "5H5JS0KLzK" {
			t.Fatalf("unexpected game %+v", game)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", inner.calls)
	}
	if c.Len() != 1 {
		t.Fatalf("expected 1 cached entry, got %d", c.Len())
	}

	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("expected purge to empty the cache")
	}
	_, _ = c.Resolve(context.Background(), "5H5JS0KLzK")
	if inner.calls != 2 {
		t.Fatalf("expected purge to force a refetch, got %d calls", inner.calls)
	}
}

func TestCachingResolverDoesNotCacheFailures(t *testing.T) {
	calls := 0
	c := NewCachingResolver(ResolverFunc(func(ctx context.Context, id string) (games.Game, error) {
		calls++
		return games.Game{}, ErrGameNotFound
	}))

	for i := 0; i < 2; i++ {
		if _, err := c.Resolve(context.Background(), "missing"); !errors.Is(err, ErrGameNotFound) {
			t.Fatalf("expected not found, got %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected failures to be retried upstream, got %d calls", calls)
	}
	if c.Len() != 0 {
		t.Fatalf("expected nothing cached, got %d", c.Len())
	}
}

func TestCachingResolverNilNext(t *testing.T) {
	c := NewCachingResolver(nil)
	if _, err := c.Resolve(context.Background(), "x"); !errors.Is(err, ErrCatalogUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}
