package providers

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
)

// rateLimitedFetcher wraps a Fetcher and spaces upstream calls with a token bucket.
type rateLimitedFetcher struct {
	next    Fetcher
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewRateLimitedFetcher returns a Fetcher that allows one call per interval with the given burst.
// Calls block until a token is available or ctx is done.
func NewRateLimitedFetcher(next Fetcher, interval time.Duration, burst int, logger *slog.Logger) Fetcher {
	if interval <= 0 {
		interval = time.Second
	}
	if burst <= 0 {
		burst = 1
	}
	return &rateLimitedFetcher{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(interval), burst),
		logger:  logger,
	}
}

func (p *rateLimitedFetcher) Fetch(ctx context.Context, src schedule.SourceDescriptor) ([]byte, error) {
	if p == nil || p.next == nil {
		return nil, ErrProviderUnavailable
	}
	if err := p.limiter.Wait(ctx); err != nil {
		logWithSource(ctx, p.logger, slog.LevelWarn, src.Name, "rate-limited fetch canceled", "error", err)
		return nil, err
	}
	logWithSource(ctx, p.logger, slog.LevelDebug, src.Name, "rate-limited fetch")
	return p.next.Fetch(ctx, src)
}
