package providers

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
)

// logWithSource emits a log entry if a logger is available and always includes the source name.
func logWithSource(ctx context.Context, logger *slog.Logger, level slog.Level, source string, msg string, args ...any) {
	logger = logging.ForSource(logging.FromContext(ctx, logger), source)
	if logger == nil {
		return
	}
	logger.Log(ctx, level, msg, args...)
}
