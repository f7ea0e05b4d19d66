package httpfeed

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

func resolveHTTPClient(client *http.Client) httpDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func resolveUserAgent(ua string) string {
	if ua = strings.TrimSpace(ua); ua != "" {
		return ua
	}
	return defaultUserAgent
}

func resolveMaxBody(max int64) int64 {
	if max <= 0 {
		return defaultMaxBodyBytes
	}
	return max
}

// parseRetryAfter accepts delta-seconds or an HTTP date. Unknown values yield zero.
func parseRetryAfter(raw string, now time.Time) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil {
		if d := at.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
