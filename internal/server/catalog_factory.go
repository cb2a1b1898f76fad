package server

import (
	"log/slog"

	"github.com/preston-bernstein/borga-service/internal/catalog"
	"github.com/preston-bernstein/borga-service/internal/catalog/boardgameatlas"
	"github.com/preston-bernstein/borga-service/internal/catalog/fixture"
	"github.com/preston-bernstein/borga-service/internal/config"
	"github.com/preston-bernstein/borga-service/internal/metrics"
)

const (
	catalogFixture        = "fixture"
	catalogBoardGameAtlas = "boardgameatlas"
)

// catalogFactory assembles the game catalog with shared wrappers (rate limit, retry, cache).
type catalogFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newCatalogFactory(logger *slog.Logger, metrics *metrics.Recorder) catalogFactory {
	return catalogFactory{logger: logger, metrics: metrics}
}

// build returns the configured catalog. Only the remote catalog is throttled; every catalog is
// retried and cached so repeated adds of the same game skip the network.
func (f catalogFactory) build(cfg config.Config) *catalog.CachingResolver {
	base := selectCatalog(cfg, f.logger)
	name := normalizeCatalogName("", base)

	resolver := base
	if name != catalogFixture {
		resolver = catalog.NewRateLimitedResolver(resolver, cfg.Catalog.MinInterval, f.logger)
	}
	resolver = catalog.NewRetryingResolver(resolver, f.logger, f.metrics, name, cfg.Catalog.RetryAttempts, cfg.Catalog.RetryBackoff)
	return catalog.NewCachingResolver(resolver)
}

func selectCatalog(cfg config.Config, logger *slog.Logger) catalog.Resolver {
	switch cfg.Catalog.Provider {
	case catalogFixture, "":
		return fixture.New()
	case catalogBoardGameAtlas:
		if cfg.Catalog.ClientID == "" && logger != nil {
			logger.Warn("boardgameatlas client id not set, requests will likely be rejected")
		}
		return boardgameatlas.NewClient(boardgameatlas.Config{
			BaseURL:  cfg.Catalog.BaseURL,
			ClientID: cfg.Catalog.ClientID,
			Timeout:  cfg.Catalog.Timeout,
		})
	default:
		if logger != nil {
			logger.Warn("unknown catalog, falling back to fixture", slog.String("catalog", cfg.Catalog.Provider))
		}
		return fixture.New()
	}
}
