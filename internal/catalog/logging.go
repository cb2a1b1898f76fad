package catalog

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/borga-service/internal/logging"
)

// logWithCatalog emits a log entry if a logger is available and always includes the catalog name.
func logWithCatalog(ctx context.Context, logger *slog.Logger, level slog.Level, catalog string, msg string, args ...any) {
	logger = logging.FromContext(ctx, logger)
	if logger == nil {
		return
	}
	args = append(args, slog.String(logging.FieldCatalog, catalog))
	logger.Log(ctx, level, msg, args...)
}
