package middleware

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/metrics"
	"github.com/preston-bernstein/owl-calendar-service/internal/testutil"
)

func TestLoggingMiddlewareSetsRequestIDAndLogger(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	nextCalled := false

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		if got := RequestIDFromContext(r.Context()); got == "" {
			t.Fatalf("expected request id in context")
		}
		if logging.FromContext(r.Context(), nil) == nil {
			t.Fatalf("expected request logger in context")
		}
		w.WriteHeader(http.StatusTeapot)
	})

	handler := LoggingMiddleware(logger, rec, next)
	rr := testutil.Serve(handler, http.MethodGet, "/calendar", nil)

	if !nextCalled {
		t.Fatalf("expected next handler to be called")
	}
	testutil.AssertStatus(t, rr, http.StatusTeapot)
	if !strings.Contains(buf.String(), "request complete") || !strings.Contains(buf.String(), "status_code=418") {
		t.Fatalf("expected completion log with status, got %s", buf.String())
	}
}

func TestLoggingMiddlewareGeneratesRequestIDWhenMissing(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := testutil.Serve(LoggingMiddleware(logger, nil, next), http.MethodGet, "/calendar?teams=SEO", nil)

	testutil.AssertStatus(t, rr, http.StatusOK)
	if got := rr.Header().Get("X-Request-ID"); got == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
}

func TestLoggingMiddlewareKeepsValidRequestID(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := RequestIDFromContext(r.Context()); got != "client-id-1" {
			t.Fatalf("expected client id in context, got %s", got)
		}
	})
	req := testutil.NewRequest(http.MethodGet, "/health")
	req.Header.Set("X-Request-ID", "client-id-1")

	rr := testutil.ServeRequest(LoggingMiddleware(nil, nil, next), req)
	if got := rr.Header().Get("X-Request-ID"); got != "client-id-1" {
		t.Fatalf("expected request id echoed, got %s", got)
	}
}

func TestLoggingMiddlewareCountsBytesAndFirstStatus(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("hello"))
		w.WriteHeader(http.StatusInternalServerError) // ignored after body
	})

	testutil.Serve(LoggingMiddleware(logger, nil, next), http.MethodGet, "/health", nil)
	if !strings.Contains(buf.String(), "status_code=200") || !strings.Contains(buf.String(), "bytes=5") {
		t.Fatalf("expected implicit 200 and byte count, got %s", buf.String())
	}
}

func TestRouteLabelUsesChiPattern(t *testing.T) {
	var label string
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req)
			label = routeLabel(req)
		})
	})
	r.Get("/sources/{name}", func(w http.ResponseWriter, r *http.Request) {})

	testutil.Serve(r, http.MethodGet, "/sources/owl2024", nil)
	if label != "/sources/{name}" {
		t.Fatalf("expected chi pattern label, got %q", label)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "/calendar", want: "/calendar"},
		{in: "/calendar.ics", want: "/calendar.ics"},
		{in: "/health", want: "/health"},
		{in: "/ready", want: "/ready"},
		{in: "/sources", want: "/sources"},
		{in: "/wp-admin.php", want: unmatchedRoute},
	}

	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Fatalf("normalizePath(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestRequestIDHelpers(t *testing.T) {
	ctx := context.Background()
	if got := RequestIDFromContext(ctx); got != "" {
		t.Fatalf("expected empty id, got %s", got)
	}

	ctx = withRequestID(ctx, "abc123")
	if got := RequestIDFromContext(ctx); got != "abc123" {
		t.Fatalf("expected id from context, got %s", got)
	}
}

func BenchmarkLoggingMiddleware(b *testing.B) {
	logger, _ := testutil.NewBufferLogger()
	rec := metrics.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := Logging(logger, rec)(next)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		testutil.Serve(handler, http.MethodGet, "/calendar", nil)
	}
}
