package catalog

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/borga-service/internal/domain/games"
)

// rateLimitedResolver wraps a Resolver and enforces a minimum interval between upstream calls.
type rateLimitedResolver struct {
	next     Resolver
	interval time.Duration
	logger   *slog.Logger

	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

// NewRateLimitedResolver returns a Resolver that spaces calls at least interval apart.
// Calls block until their slot arrives or ctx is done.
func NewRateLimitedResolver(next Resolver, interval time.Duration, logger *slog.Logger) Resolver {
	if interval <= 0 {
		return next
	}
	return &rateLimitedResolver{
		next:     next,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

func (p *rateLimitedResolver) Resolve(ctx context.Context, id string) (games.Game, error) {
	if p.next == nil {
		logWithCatalog(ctx, p.logger, slog.LevelWarn, "rate-limited", "catalog unavailable")
		return games.Game{}, ErrCatalogUnavailable
	}

	wait := p.reserve()
	if wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			logWithCatalog(ctx, p.logger, slog.LevelWarn, "rate-limited", "rate-limited resolve canceled", "game_id", id)
			return games.Game{}, ctx.Err()
		case <-timer.C:
		}
	}
	return p.next.Resolve(ctx, id)
}

// reserve claims the next free slot and returns how long the caller must wait for it.
func (p *rateLimitedResolver) reserve() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	slot := p.last.Add(p.interval)
	if p.last.IsZero() || !slot.After(now) {
		p.last = now
		return 0
	}
	p.last = slot
	return slot.Sub(now)
}
