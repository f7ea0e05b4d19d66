package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/metrics"
)

const (
	defaultInterval = 5 * time.Minute
	// readyFailureLimit is how many consecutive failed cycles flip readiness.
	readyFailureLimit = 3
)

// Warmer brings sources up to date. The source cache satisfies it.
type Warmer interface {
	EnsureAll(ctx context.Context, descs []schedule.SourceDescriptor) ([]schedule.LoadedSource, map[string]error)
}

// Poller keeps every configured source warm on an interval so request-time
// freshness checks rarely need the network.
type Poller struct {
	warmer   Warmer
	sources  []schedule.SourceDescriptor
	logger   *slog.Logger
	metrics  *metrics.Recorder
	interval time.Duration
	now      func() time.Time

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	cycleMu  sync.Mutex

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	// Loaded and Failed count sources from the most recent cycle.
	Loaded int
	Failed int
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyFailureLimit
}

// New constructs a Poller with sane defaults.
func New(warmer Warmer, sources []schedule.SourceDescriptor, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Poller{
		warmer:   warmer,
		sources:  sources,
		logger:   logger,
		metrics:  recorder,
		interval: interval,
		now:      time.Now,
		done:     make(chan struct{}),
	}
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		logging.Info(p.logger, "poller started",
			"interval_ms", p.interval.Milliseconds(),
			logging.FieldCount, len(p.sources),
		)
		// Warm every source on boot.
		p.refreshOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.done:
				p.stopTicker()
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.ticker.C:
				p.refreshOnce(ctx)
			}
		}
	}()
}

// Stop halts the polling loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// RefreshNow runs one cycle synchronously and returns the resulting status.
func (p *Poller) RefreshNow(ctx context.Context) Status {
	p.refreshOnce(ctx)
	return p.Status()
}

func (p *Poller) refreshOnce(ctx context.Context) {
	p.cycleMu.Lock()
	defer p.cycleMu.Unlock()

	start := time.Now()
	at := p.now()
	p.recordAttempt(at)

	loaded, errs := p.warmer.EnsureAll(ctx, p.sources)
	err := cycleError(len(p.sources), len(loaded), errs)
	p.metrics.RecordRefreshCycle(time.Since(start), err)

	for _, name := range sortedNames(errs) {
		logging.Warn(p.logger, "poller source refresh failed", logging.FieldSource, name, "error", errs[name])
	}
	if err != nil {
		logging.Error(p.logger, "poller refresh failed", err, logging.FieldDurationMS, time.Since(start).Milliseconds())
		p.recordFailure(err, at, len(loaded), len(errs))
		return
	}

	p.recordSuccess(at, len(loaded), len(errs))
	logging.Info(p.logger, "poller refreshed sources",
		logging.FieldCount, len(loaded),
		"failed", len(errs),
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
}

// cycleError fails a cycle only when sources are configured and none could be loaded.
func cycleError(configured, loaded int, errs map[string]error) error {
	if configured == 0 || loaded > 0 {
		return nil
	}
	joined := make([]error, 0, len(errs))
	for _, name := range sortedNames(errs) {
		joined = append(joined, fmt.Errorf("%s: %w", name, errs[name]))
	}
	if len(joined) == 0 {
		return errors.New("no sources loaded")
	}
	return errors.Join(joined...)
}

func sortedNames(errs map[string]error) []string {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, loaded, failed int) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.Loaded = loaded
	p.status.Failed = failed
}

func (p *Poller) recordFailure(err error, at time.Time, loaded, failed int) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
	p.status.Loaded = loaded
	p.status.Failed = failed
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// Sources exposes the descriptors the poller keeps warm.
func (p *Poller) Sources() []schedule.SourceDescriptor {
	return p.sources
}
