package server

import (
	"context"

	"github.com/preston-bernstein/owl-calendar-service/internal/poller"
)

// Poller defines the poller behavior needed by the server and the admin refresh route.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
	RefreshNow(ctx context.Context) poller.Status
}
