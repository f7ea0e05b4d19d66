package httpfeed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/providers"
)

// Config controls how the client reaches upstream schedule URLs.
type Config struct {
	UserAgent    string
	HTTPClient   *http.Client
	MaxBodyBytes int64
}

// Client downloads raw schedule documents over HTTP.
type Client struct {
	userAgent  string
	httpClient httpDoer
	maxBody    int64
	now        func() time.Time
}

// NewClient constructs a client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		userAgent:  resolveUserAgent(cfg.UserAgent),
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		maxBody:    resolveMaxBody(cfg.MaxBodyBytes),
		now:        time.Now,
	}
}

// Fetch performs a single GET against the source URL and returns the body unparsed.
func (c *Client) Fetch(ctx context.Context, src schedule.SourceDescriptor) ([]byte, error) {
	if src.URL == "" {
		return nil, fmt.Errorf("%s: source url not configured", src.Name)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &providers.RateLimitError{
			Source:     src.Name,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), c.now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
		}
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyPreview))
		return nil, &providers.StatusError{
			Source:     src.Name,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, err
	}
	if int64(len(body)) > c.maxBody {
		return nil, fmt.Errorf("%s: response exceeds %d bytes", src.Name, c.maxBody)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%s: %w", src.Name, providers.ErrEmptyBody)
	}
	return body, nil
}
