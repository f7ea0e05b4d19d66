package server

import (
	"log/slog"

	"github.com/preston-bernstein/owl-calendar-service/internal/config"
	"github.com/preston-bernstein/owl-calendar-service/internal/metrics"
	"github.com/preston-bernstein/owl-calendar-service/internal/providers"
)

// fetcherFactory assembles the fetcher with shared wrappers (rate limit + retry).
type fetcherFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newFetcherFactory(logger *slog.Logger, metrics *metrics.Recorder) fetcherFactory {
	return fetcherFactory{logger: logger, metrics: metrics}
}

func (f fetcherFactory) build(cfg config.Config) providers.Fetcher {
	base := selectFetcher(cfg, f.logger)
	// One limiter shared by every source keeps the process inside upstream quota.
	limited := providers.NewRateLimitedFetcher(base, cfg.Fetch.RateInterval, cfg.Fetch.Burst, f.logger)
	return providers.NewRetryingFetcher(limited, f.logger, f.metrics, cfg.Fetch.RetryAttempts, cfg.Fetch.RetryBackoff)
}
