package server

import (
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/owl-calendar-service/internal/config"
	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/providers"
	"github.com/preston-bernstein/owl-calendar-service/internal/providers/fixture"
	"github.com/preston-bernstein/owl-calendar-service/internal/providers/httpfeed"
)

func selectFetcher(cfg config.Config, logger *slog.Logger) providers.Fetcher {
	switch normalizeProviderName(cfg.Provider) {
	case config.ProviderFixture:
		return fixture.New()
	case config.ProviderHTTP:
		return httpfeed.NewClient(httpfeed.Config{
			UserAgent:  cfg.Fetch.UserAgent,
			HTTPClient: &http.Client{Timeout: cfg.Fetch.Timeout},
		})
	default:
		logging.Warn(logger, "unknown provider, falling back to fixture", slog.String("provider", cfg.Provider))
		return fixture.New()
	}
}
