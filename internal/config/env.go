package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// lookupEnv returns the trimmed value of key, or "" when unset.
func lookupEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

// parsedEnvOrDefault parses key with parse and falls back when the value is unset,
// unparseable, or rejected by valid.
func parsedEnvOrDefault[T any](key string, defaultValue T, parse func(string) (T, error), valid func(T) bool) T {
	raw := lookupEnv(key)
	if raw == "" {
		return defaultValue
	}
	val, err := parse(raw)
	if err != nil || (valid != nil && !valid(val)) {
		return defaultValue
	}
	return val
}

func envOrDefault(key, defaultValue string) string {
	if val := lookupEnv(key); val != "" {
		return val
	}
	return defaultValue
}

// portEnvOrDefault accepts "8080" or ":8080".
func portEnvOrDefault(key, defaultValue string) string {
	return strings.TrimPrefix(envOrDefault(key, defaultValue), ":")
}

func durationEnvOrDefault(key string, defaultValue time.Duration) time.Duration {
	return parsedEnvOrDefault(key, defaultValue, time.ParseDuration, func(d time.Duration) bool { return d > 0 })
}

func intEnvOrDefault(key string, defaultValue int) int {
	return parsedEnvOrDefault(key, defaultValue, strconv.Atoi, func(n int) bool { return n > 0 })
}

func boolEnvOrDefault(key string, defaultValue bool) bool {
	return parsedEnvOrDefault(key, defaultValue, parseBool, nil)
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	}
	return false, strconv.ErrSyntax
}
