package config

import "time"

const (
	envPort            = "PORT"
	envRefreshInterval = "REFRESH_INTERVAL"
	envProvider        = "PROVIDER"
	envSourcesFile     = "SOURCES_FILE"
	envCacheDir        = "CACHE_DIR"
	envFeedName        = "FEED_NAME"
	envFeedDomain      = "FEED_DOMAIN"
	envFetchTimeout    = "FETCH_TIMEOUT"
	envFetchRate       = "FETCH_RATE"
	envFetchBurst      = "FETCH_BURST"
	envFetchRetries    = "FETCH_RETRIES"
	envFetchBackoff    = "FETCH_BACKOFF"
	envMinRefetch      = "MIN_REFETCH_INTERVAL"
	envUserAgent       = "USER_AGENT"
	envAdminToken      = "ADMIN_TOKEN"
	envLogLevel        = "LOG_LEVEL"
	envLogFormat       = "LOG_FORMAT"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"

	ProviderHTTP    = "http"
	ProviderFixture = "fixture"

	defaultPort = "4000"
	// Background warm-up cadence; request-time freshness checks still apply in between.
	defaultRefreshInterval = 5 * time.Minute
	defaultProvider        = ProviderFixture
	defaultSourcesFile     = "sources.yaml"
	defaultCacheDir        = "data/cache"
	defaultFeedName        = "Overwatch League"
	defaultFeedDomain      = "owl-calendar.local"
	defaultFetchTimeout    = 30 * time.Second
	// One upstream request per second across all sources.
	defaultFetchRate     = time.Second
	defaultFetchBurst    = 2
	defaultFetchRetries  = 3
	defaultFetchBackoff  = 500 * time.Millisecond
	defaultMinRefetch    = time.Minute
	defaultUserAgent     = "owl-calendar-service"
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
	defaultMetricsPort   = "9090"
	defaultOtelService   = "owl-calendar-service"
	defaultDotEnvFile    = ".env"
	defaultFixtureDomain = "fixture.invalid"
)
