package config

// MetricsConfig controls telemetry export: the Prometheus scrape port and an optional
// OTLP HTTP push endpoint.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

func loadMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsOn, true),
		Port:         portEnvOrDefault(envMetricsPort, defaultMetricsPort),
		OtlpEndpoint: envOrDefault(envOtelEndpoint, ""),
		ServiceName:  envOrDefault(envOtelService, defaultOtelService),
		OtlpInsecure: boolEnvOrDefault(envOtelInsecure, true),
	}
}
