package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the server.
type Config struct {
	Port            string
	RefreshInterval time.Duration
	Provider        string
	SourcesFile     string
	CacheDir        string
	// AdminToken guards the manual refresh endpoint; empty disables it.
	AdminToken string
	Feed       FeedConfig
	Fetch      FetchConfig
	Log        LogConfig
	Metrics    MetricsConfig
}

// FeedConfig names the rendered calendar.
type FeedConfig struct {
	Name   string
	Domain string
}

// FetchConfig controls how upstream sources are requested.
type FetchConfig struct {
	Timeout            time.Duration
	RateInterval       time.Duration
	Burst              int
	RetryAttempts      int
	RetryBackoff       time.Duration
	MinRefetchInterval time.Duration
	UserAgent          string
}

// LogConfig selects the process log handler.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
// A .env file in the working directory is applied first without overriding the environment.
func Load() Config {
	_ = loadDotEnv(defaultDotEnvFile)
	return Config{
		Port:            portEnvOrDefault(envPort, defaultPort),
		RefreshInterval: durationEnvOrDefault(envRefreshInterval, defaultRefreshInterval),
		Provider:        envOrDefault(envProvider, defaultProvider),
		SourcesFile:     envOrDefault(envSourcesFile, defaultSourcesFile),
		CacheDir:        envOrDefault(envCacheDir, defaultCacheDir),
		AdminToken:      envOrDefault(envAdminToken, ""),
		Feed: FeedConfig{
			Name:   envOrDefault(envFeedName, defaultFeedName),
			Domain: envOrDefault(envFeedDomain, defaultFeedDomain),
		},
		Fetch: FetchConfig{
			Timeout:            durationEnvOrDefault(envFetchTimeout, defaultFetchTimeout),
			RateInterval:       durationEnvOrDefault(envFetchRate, defaultFetchRate),
			Burst:              intEnvOrDefault(envFetchBurst, defaultFetchBurst),
			RetryAttempts:      intEnvOrDefault(envFetchRetries, defaultFetchRetries),
			RetryBackoff:       durationEnvOrDefault(envFetchBackoff, defaultFetchBackoff),
			MinRefetchInterval: durationEnvOrDefault(envMinRefetch, defaultMinRefetch),
			UserAgent:          envOrDefault(envUserAgent, defaultUserAgent),
		},
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, defaultLogLevel),
			Format: envOrDefault(envLogFormat, defaultLogFormat),
		},
		Metrics: loadMetrics(),
	}
}

// loadDotEnv applies path when it exists. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
