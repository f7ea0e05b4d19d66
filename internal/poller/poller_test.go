package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/metrics"
)

type stubWarmer struct {
	mu     sync.Mutex
	errs   map[string]error
	calls  atomic.Int32
	notify chan struct{}
	once   sync.Once
}

func (s *stubWarmer) EnsureAll(ctx context.Context, descs []schedule.SourceDescriptor) ([]schedule.LoadedSource, map[string]error) {
	s.calls.Add(1)
	if s.notify != nil {
		s.once.Do(func() { close(s.notify) })
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var loaded []schedule.LoadedSource
	errs := make(map[string]error)
	for _, d := range descs {
		if err, ok := s.errs[d.Name]; ok {
			errs[d.Name] = err
			continue
		}
		loaded = append(loaded, schedule.LoadedSource{Descriptor: d})
	}
	return loaded, errs
}

func (s *stubWarmer) setErrs(errs map[string]error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = errs
}

var testSources = []schedule.SourceDescriptor{{Name: "owl2024"}, {Name: "owl2023"}}

func TestPollerWarmsSourcesOnStart(t *testing.T) {
	warmer := &stubWarmer{notify: make(chan struct{})}
	p := New(warmer, testSources, nil, nil, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	select {
	case <-warmer.notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial refresh")
	}

	time.Sleep(30 * time.Millisecond) // allow at least one ticker fire
	cancel()
	_ = p.Stop(context.Background())

	if warmer.calls.Load() < 1 {
		t.Fatalf("expected at least one refresh call")
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	warmer := &stubWarmer{notify: make(chan struct{})}
	p := New(warmer, testSources, nil, nil, 5*time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx)
	select {
	case <-warmer.notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial refresh")
	}

	cancel()
	_ = p.Stop(context.Background())
	time.Sleep(10 * time.Millisecond) // let an in-flight cycle finish

	callsAfterStop := warmer.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if warmer.calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional refreshes after stop; before=%d after=%d", callsAfterStop, warmer.calls.Load())
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New(&stubWarmer{}, testSources, nil, nil, time.Hour)

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestPollerStartIsIdempotent(t *testing.T) {
	p := New(&stubWarmer{}, testSources, nil, nil, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	p.Start(ctx) // should no-op

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
}

func TestPollerDefaultsInterval(t *testing.T) {
	p := New(&stubWarmer{}, nil, nil, nil, 0)
	if p.interval != defaultInterval {
		t.Fatalf("expected default interval %s, got %s", defaultInterval, p.interval)
	}
}

func TestPollerStartReturnsWhenAlreadyStarted(t *testing.T) {
	p := New(&stubWarmer{}, testSources, nil, nil, time.Hour)
	p.started = true
	p.Start(context.Background())
	if p.ticker != nil {
		t.Fatalf("expected ticker not to be created when already started")
	}
}

func TestPollerStatusTracksFailuresAndSuccess(t *testing.T) {
	warmer := &stubWarmer{errs: map[string]error{
		"owl2024": errors.New("boom"),
		"owl2023": errors.New("bang"),
	}}
	p := New(warmer, testSources, nil, nil, time.Minute)

	p.refreshOnce(context.Background())
	status := p.Status()
	if status.ConsecutiveFailures != 1 || status.Failed != 2 {
		t.Fatalf("expected 1 failure with 2 failed sources, got %+v", status)
	}
	if !strings.Contains(status.LastError, "owl2023: bang") || !strings.Contains(status.LastError, "owl2024: boom") {
		t.Fatalf("expected joined error naming each source, got %q", status.LastError)
	}
	if status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}

	warmer.setErrs(nil)
	status = p.RefreshNow(context.Background())
	if status.ConsecutiveFailures != 0 || status.LastError != "" {
		t.Fatalf("expected failures reset, got %+v", status)
	}
	if status.LastSuccess.IsZero() || status.Loaded != 2 {
		t.Fatalf("expected success with 2 loaded sources, got %+v", status)
	}
	if !status.IsReady() {
		t.Fatalf("expected ready after success")
	}
}

func TestPollerPartialFailureStillSucceeds(t *testing.T) {
	warmer := &stubWarmer{errs: map[string]error{"owl2023": errors.New("upstream down")}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	p := New(warmer, testSources, logger, nil, time.Minute)

	status := p.RefreshNow(context.Background())
	if !status.IsReady() || status.Loaded != 1 || status.Failed != 1 {
		t.Fatalf("expected ready with one failed source, got %+v", status)
	}
}

func TestPollerNotReadyAfterRepeatedFailures(t *testing.T) {
	warmer := &stubWarmer{}
	p := New(warmer, testSources, nil, nil, time.Minute)
	p.RefreshNow(context.Background())

	warmer.setErrs(map[string]error{"owl2024": errors.New("x"), "owl2023": errors.New("y")})
	for i := 0; i < readyFailureLimit; i++ {
		p.RefreshNow(context.Background())
	}
	if p.Status().IsReady() {
		t.Fatalf("expected not ready after %d consecutive failures", readyFailureLimit)
	}
}

func TestPollerNoSourcesIsSuccess(t *testing.T) {
	p := New(&stubWarmer{}, nil, nil, nil, time.Minute)
	if !p.RefreshNow(context.Background()).IsReady() {
		t.Fatalf("expected ready with no configured sources")
	}
}

func TestPollerWithRecorderExposesSources(t *testing.T) {
	recorder := metrics.NewRecorder()
	p := New(&stubWarmer{}, testSources, nil, recorder, time.Minute)
	p.RefreshNow(context.Background())
	if len(p.Sources()) != 2 {
		t.Fatalf("expected sources exposed")
	}
}

func TestCycleErrorWithoutPerSourceErrors(t *testing.T) {
	if err := cycleError(2, 0, nil); err == nil {
		t.Fatalf("expected error when nothing loaded")
	}
	if err := cycleError(2, 1, map[string]error{"a": errors.New("x")}); err != nil {
		t.Fatalf("expected nil error on partial success, got %v", err)
	}
}

func BenchmarkPollerRefreshOnce(b *testing.B) {
	p := New(&stubWarmer{}, testSources, nil, nil, time.Second)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		p.refreshOnce(ctx)
	}
}
