package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/app/feeds"
	"github.com/preston-bernstein/owl-calendar-service/internal/calendar"
	"github.com/preston-bernstein/owl-calendar-service/internal/ics"
	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/poller"
	"github.com/preston-bernstein/owl-calendar-service/internal/snapshots"
)

type nowFunc func() time.Time

// FeedService renders feeds and reports per-source cache state.
type FeedService interface {
	Feed(ctx context.Context, opts calendar.FilterOptions) (calendar.FeedRecord, error)
	Status() []feeds.SourceStatus
}

// CacheInspector reports on cached documents without loading them.
type CacheInspector interface {
	Stat(path string) (snapshots.Entry, error)
}

// Handler wires HTTP routes to the feed service.
type Handler struct {
	feeds    FeedService
	cache    CacheInspector
	logger   *slog.Logger
	now      nowFunc
	statusFn func() poller.Status
}

// NewHandler constructs a Handler with defaults. cache and statusFn may be nil.
func NewHandler(svc FeedService, cache CacheInspector, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		feeds:    svc,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether background refreshes are succeeding.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Calendar renders the filtered feed as iCalendar. The response may be cached
// until the feed's next expected change.
func (h *Handler) Calendar(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	opts := calendar.OptionsFromQuery(r.URL.Query())

	feed, err := h.feeds.Feed(r.Context(), opts)
	switch {
	case err == nil:
	case errors.Is(err, feeds.ErrFeedUnavailable):
		logging.Warn(logger, "calendar unavailable", "error", err)
		writeError(w, r, nethttp.StatusServiceUnavailable, "calendar unavailable", logger)
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, nethttp.StatusServiceUnavailable, "request cancelled", logger)
		return
	default:
		logging.Error(logger, "calendar build failed", err)
		writeError(w, r, nethttp.StatusInternalServerError, "calendar build failed", logger)
		return
	}

	var buf bytes.Buffer
	if err := ics.Write(&buf, feed, h.now()); err != nil {
		logging.Error(logger, "calendar encode failed", err)
		writeError(w, r, nethttp.StatusInternalServerError, "calendar encode failed", logger)
		return
	}

	header := w.Header()
	header.Set("Content-Type", ics.ContentType)
	header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", feed.TTLSeconds))
	if feed.NextRefresh != nil {
		header.Set("Expires", feed.NextRefresh.UTC().Format(nethttp.TimeFormat))
	}
	if strings.HasSuffix(r.URL.Path, ".ics") {
		header.Set("Content-Disposition", `inline; filename="calendar.ics"`)
	}
	w.WriteHeader(nethttp.StatusOK)
	if r.Method == nethttp.MethodHead {
		return
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Warn(logger, "calendar write failed", "error", err)
	}
}
