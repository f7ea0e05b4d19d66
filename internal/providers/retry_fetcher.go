package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

// retryingFetcher wraps a Fetcher with exponential backoff and records each attempt.
type retryingFetcher struct {
	inner       Fetcher
	logger      *slog.Logger
	recorder    *metrics.Recorder
	maxAttempts int
	newPolicy   func() backoff.BackOff
}

// NewRetryingFetcher wraps the given fetcher with retries. If maxAttempts/initial are <= 0, defaults are used.
func NewRetryingFetcher(inner Fetcher, logger *slog.Logger, recorder *metrics.Recorder, maxAttempts int, initial time.Duration) Fetcher {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if initial <= 0 {
		initial = defaultBackoff
	}
	return &retryingFetcher{
		inner:       inner,
		logger:      logger,
		recorder:    recorder,
		maxAttempts: maxAttempts,
		newPolicy: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = initial
			b.MaxElapsedTime = 0
			b.Reset()
			return b
		},
	}
}

func (r *retryingFetcher) Fetch(ctx context.Context, src schedule.SourceDescriptor) ([]byte, error) {
	if r == nil || r.inner == nil {
		return nil, ErrProviderUnavailable
	}

	var (
		data    []byte
		attempt int
		policy  = &retryAfterBackOff{BackOff: r.newPolicy()}
	)
	op := func() error {
		attempt++
		start := time.Now()
		body, err := r.inner.Fetch(ctx, src)
		r.recorder.RecordFetch(src.Name, time.Since(start), err)
		if err == nil {
			data = body
			return nil
		}
		if rl, ok := AsRateLimitError(err); ok {
			r.recorder.RecordRateLimit(src.Name, rl.RetryAfter)
			policy.hint = rl.RetryAfter
		}
		if IsPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		logWithSource(ctx, r.logger, slog.LevelWarn, src.Name, "source fetch retry",
			logging.FieldAttempt, attempt,
			"max_attempts", r.maxAttempts,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)
	}

	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1)), ctx)
	if err := backoff.RetryNotify(op, b, notify); err != nil {
		logWithSource(ctx, r.logger, slog.LevelWarn, src.Name, "source fetch failed",
			"attempts", attempt,
			"error", err,
		)
		return nil, err
	}
	return data, nil
}

// retryAfterBackOff honors an upstream Retry-After once before falling back to the wrapped policy.
type retryAfterBackOff struct {
	backoff.BackOff
	hint time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	if b.hint > 0 {
		d := b.hint
		b.hint = 0
		return d
	}
	return b.BackOff.NextBackOff()
}
