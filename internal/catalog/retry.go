package catalog

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/preston-bernstein/borga-service/internal/domain/games"
	"github.com/preston-bernstein/borga-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingResolver wraps a Resolver with retry/backoff behavior. Not-found answers are final.
type retryingResolver struct {
	inner       Resolver
	logger      *slog.Logger
	metrics     *metrics.Recorder
	catalogName string
	maxAttempts int
	backoffFn   backoffFunc

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRetryingResolver wraps the given resolver with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingResolver(inner Resolver, logger *slog.Logger, recorder *metrics.Recorder, catalogName string, maxAttempts int, backoff time.Duration) Resolver {
	return NewRetryingResolverWithRNG(inner, logger, recorder, catalogName, nil, maxAttempts, backoff)
}

// NewRetryingResolverWithRNG is NewRetryingResolver with an explicit jitter source.
func NewRetryingResolverWithRNG(inner Resolver, logger *slog.Logger, recorder *metrics.Recorder, catalogName string, rng *rand.Rand, maxAttempts int, backoff time.Duration) Resolver {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if catalogName == "" {
		catalogName = "catalog"
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &retryingResolver{
		inner:       inner,
		logger:      logger,
		metrics:     recorder,
		catalogName: catalogName,
		maxAttempts: maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
		rng: rng,
	}
}

func (r *retryingResolver) Resolve(ctx context.Context, id string) (games.Game, error) {
	if r.inner == nil {
		return games.Game{}, ErrCatalogUnavailable
	}

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		game, err := r.inner.Resolve(ctx, id)
		r.metrics.RecordCatalogAttempt(r.catalogName, time.Since(start), err)
		if err == nil {
			return game, nil
		}
		if errors.Is(err, ErrGameNotFound) {
			return games.Game{}, err
		}
		if rlErr, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.catalogName, rlErr.RetryAfter)
		}
		lastErr = err
		if attempt == r.maxAttempts {
			break
		}
		logWithCatalog(ctx, r.logger, slog.LevelWarn, r.catalogName, "catalog resolve retry",
			"attempt", attempt, "max_attempts", r.maxAttempts, "game_id", id, "err", err)

		select {
		case <-ctx.Done():
			return games.Game{}, ctx.Err()
		case <-time.After(r.computeDelay(err, attempt)):
		}
	}
	logWithCatalog(ctx, r.logger, slog.LevelWarn, r.catalogName, "catalog resolve failed",
		"attempts", r.maxAttempts, "game_id", id, "err", lastErr)
	return games.Game{}, lastErr
}

// computeDelay honors Retry-After on rate limits and otherwise jitters the backoff into [base/2, base].
func (r *retryingResolver) computeDelay(err error, attempt int) time.Duration {
	if rlErr, ok := AsRateLimitError(err); ok && rlErr.RetryAfter > 0 {
		return rlErr.RetryAfter
	}
	base := r.backoffFn(attempt)
	if base <= 0 {
		return 0
	}
	half := base / 2
	r.rngMu.Lock()
	jitter := time.Duration(r.rng.Int63n(int64(half) + 1))
	r.rngMu.Unlock()
	return half + jitter
}
