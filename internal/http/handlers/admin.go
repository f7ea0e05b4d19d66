package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/owl-calendar-service/internal/http/requestutil"
	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/poller"
)

// Refresher runs a refresh cycle on demand.
type Refresher interface {
	RefreshNow(ctx context.Context) poller.Status
}

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	refresher Refresher
	token     string
	logger    *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token rejects every request.
func NewAdminHandler(refresher Refresher, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		refresher: refresher,
		token:     token,
		logger:    logger,
	}
}

// RefreshSources warms every configured source now and reports the cycle result.
// Guarded by a bearer token; returns 401 if missing or invalid.
func (h *AdminHandler) RefreshSources(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	if !h.authorize(r) {
		logging.Warn(logger, "admin unauthorized",
			slog.String("path", r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", logger)
		return
	}
	if h.refresher == nil {
		writeError(w, r, http.StatusServiceUnavailable, "refresher not configured", logger)
		return
	}

	status := h.refresher.RefreshNow(r.Context())
	code := http.StatusOK
	result := "ok"
	if status.ConsecutiveFailures > 0 {
		code = http.StatusBadGateway
		result = "failed"
	}
	writeJSON(w, code, refreshResponse{
		Status: result,
		Loaded: status.Loaded,
		Failed: status.Failed,
		Error:  status.LastError,
	}, logger)
	logging.Info(logger, "admin refresh complete",
		logging.FieldCount, status.Loaded,
		"failed", status.Failed,
	)
}

type refreshResponse struct {
	Status string `json:"status"`
	Loaded int    `json:"loaded"`
	Failed int    `json:"failed"`
	Error  string `json:"error,omitempty"`
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	want := "Bearer " + h.token
	got := r.Header.Get("Authorization")
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
