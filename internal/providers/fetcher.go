package providers

import (
	"context"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
)

// Fetcher retrieves the raw schedule document for one source.
// Implementations must honor ctx cancellation and return a non-empty body on success.
type Fetcher interface {
	Fetch(ctx context.Context, src schedule.SourceDescriptor) ([]byte, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, src schedule.SourceDescriptor) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, src schedule.SourceDescriptor) ([]byte, error) {
	return f(ctx, src)
}
