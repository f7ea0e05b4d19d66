package sourcecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/metrics"
	"github.com/preston-bernstein/owl-calendar-service/internal/providers"
	"github.com/preston-bernstein/owl-calendar-service/internal/snapshots"
	"github.com/preston-bernstein/owl-calendar-service/internal/store"
)

const (
	defaultFetchTimeout       = 30 * time.Second
	defaultMinRefetchInterval = time.Minute
	defaultWarmConcurrency    = 4
)

// Config tunes fetch and refresh behavior.
type Config struct {
	FetchTimeout       time.Duration
	MinRefetchInterval time.Duration
	WarmConcurrency    int
}

// Manager owns the loaded-source table and keeps each source fresh.
// At most one fetch per source name is in flight at any time.
type Manager struct {
	fetcher  providers.Fetcher
	files    snapshots.Store
	table    *store.SourceTable
	recorder *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
	group    singleflight.Group

	fetchTimeout    time.Duration
	minRefetch      time.Duration
	warmConcurrency int
}

// NewManager constructs a Manager. A nil table starts empty.
func NewManager(fetcher providers.Fetcher, files snapshots.Store, table *store.SourceTable, recorder *metrics.Recorder, logger *slog.Logger, cfg Config) *Manager {
	if table == nil {
		table = store.NewSourceTable()
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultFetchTimeout
	}
	if cfg.MinRefetchInterval <= 0 {
		cfg.MinRefetchInterval = defaultMinRefetchInterval
	}
	if cfg.WarmConcurrency <= 0 {
		cfg.WarmConcurrency = defaultWarmConcurrency
	}
	return &Manager{
		fetcher:         fetcher,
		files:           files,
		table:           table,
		recorder:        recorder,
		logger:          logger,
		now:             time.Now,
		fetchTimeout:    cfg.FetchTimeout,
		minRefetch:      cfg.MinRefetchInterval,
		warmConcurrency: cfg.WarmConcurrency,
	}
}

// EnsureFresh returns a usable entry for the source, loading or refetching as needed.
// Final sources that are already loaded return without any I/O.
func (m *Manager) EnsureFresh(ctx context.Context, desc schedule.SourceDescriptor) (schedule.LoadedSource, error) {
	if cur, ok := m.table.Get(desc.Name); ok && !m.needsRefresh(cur, m.now()) {
		return cur, nil
	}

	ch := m.group.DoChan(desc.Name, func() (any, error) {
		// Detached so an abandoned request does not abort a fetch other callers share.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.fetchTimeout)
		defer cancel()
		return m.sync(fetchCtx, desc)
	})

	select {
	case <-ctx.Done():
		return schedule.LoadedSource{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return schedule.LoadedSource{}, res.Err
		}
		return res.Val.(schedule.LoadedSource), nil
	}
}

// EnsureAll refreshes every descriptor concurrently. Usable entries come back in descriptor
// order; failures are keyed by source name.
func (m *Manager) EnsureAll(ctx context.Context, descs []schedule.SourceDescriptor) ([]schedule.LoadedSource, map[string]error) {
	var (
		loaded = make([]schedule.LoadedSource, len(descs))
		ok     = make([]bool, len(descs))
		errs   = make(map[string]error)
		mu     sync.Mutex
		g      errgroup.Group
	)
	g.SetLimit(m.warmConcurrency)

	for i, desc := range descs {
		i, desc := i, desc
		g.Go(func() error {
			l, err := m.EnsureFresh(ctx, desc)
			if err != nil {
				mu.Lock()
				errs[desc.Name] = err
				mu.Unlock()
				return nil
			}
			loaded[i] = l
			ok[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make([]schedule.LoadedSource, 0, len(descs))
	for i := range descs {
		if ok[i] {
			out = append(out, loaded[i])
		}
	}
	return out, errs
}

// Snapshot returns every registered entry sorted by name.
func (m *Manager) Snapshot() []schedule.LoadedSource {
	return m.table.List()
}

// sync runs inside the per-source flight.
func (m *Manager) sync(ctx context.Context, desc schedule.SourceDescriptor) (schedule.LoadedSource, error) {
	logger := logging.FromContext(ctx, m.logger)
	now := m.now()

	cur, have := m.table.Get(desc.Name)
	if have && !m.needsRefresh(cur, now) {
		return cur, nil
	}

	if !have {
		if fromDisk, ok := m.loadFromDisk(logger, desc, now); ok {
			m.table.Set(fromDisk)
			if !m.needsRefresh(fromDisk, now) {
				return fromDisk, nil
			}
			cur, have = fromDisk, true
		}
	}

	return m.refetch(ctx, logger, desc, cur, have, now)
}

func (m *Manager) refetch(ctx context.Context, logger *slog.Logger, desc schedule.SourceDescriptor, prior schedule.LoadedSource, havePrior bool, now time.Time) (schedule.LoadedSource, error) {
	if havePrior {
		m.table.Touch(desc.Name, func(s *schedule.LoadedSource) { s.LastAttemptAt = now })
		prior.LastAttemptAt = now
	}
	if m.fetcher == nil {
		return m.fallback(logger, desc, prior, havePrior, providers.ErrProviderUnavailable)
	}

	body, err := m.fetcher.Fetch(ctx, desc)
	if err != nil {
		return m.fallback(logger, desc, prior, havePrior, err)
	}
	payload, err := schedule.Parse(body)
	if err != nil {
		return m.fallback(logger, desc, prior, havePrior, err)
	}

	if m.files != nil {
		if werr := m.files.Save(desc.CachePath, body); werr != nil {
			logging.Error(logger, "cache write failed", werr,
				logging.FieldSource, desc.Name,
			)
		}
	}

	loaded := m.register(logger, desc, payload, now, now)
	loaded.LastAttemptAt = now
	m.table.Set(loaded)
	m.recorder.RecordCacheLoad(desc.Name, metrics.OriginNetwork)
	logging.Info(logger, "source refreshed",
		logging.FieldSource, desc.Name,
		logging.FieldNextAt, loaded.NextRefreshAt,
	)
	return loaded, nil
}

// fallback keeps serving the prior entry when one exists.
func (m *Manager) fallback(logger *slog.Logger, desc schedule.SourceDescriptor, prior schedule.LoadedSource, havePrior bool, err error) (schedule.LoadedSource, error) {
	if havePrior {
		logging.Warn(logger, "source refresh failed, keeping cached data",
			logging.FieldSource, desc.Name,
			"error", err,
		)
		return prior, nil
	}
	if errors.Is(err, schedule.ErrMalformedPayload) {
		return schedule.LoadedSource{}, fmt.Errorf("%s: %w", desc.Name, err)
	}
	return schedule.LoadedSource{}, fmt.Errorf("%w: %s: %w", ErrNoData, desc.Name, err)
}

func (m *Manager) loadFromDisk(logger *slog.Logger, desc schedule.SourceDescriptor, now time.Time) (schedule.LoadedSource, bool) {
	if m.files == nil || desc.CachePath == "" {
		return schedule.LoadedSource{}, false
	}
	snap, err := m.files.Load(desc.CachePath)
	if err != nil {
		if !errors.Is(err, snapshots.ErrNotFound) {
			logging.Warn(logger, "cache read failed", logging.FieldSource, desc.Name, "error", err)
		}
		return schedule.LoadedSource{}, false
	}
	payload, err := schedule.Parse(snap.Data)
	if err == nil {
		_, err = payload.Sections()
	}
	if err != nil {
		logging.Warn(logger, "cache file unusable, refetching", logging.FieldSource, desc.Name, "error", err)
		return schedule.LoadedSource{}, false
	}
	m.recorder.RecordCacheLoad(desc.Name, metrics.OriginDisk)
	logging.Debug(logger, "source loaded from cache", logging.FieldSource, desc.Name, "modified_at", snap.ModTime)
	return m.register(logger, desc, payload, snap.ModTime, now), true
}

func (m *Manager) register(logger *slog.Logger, desc schedule.SourceDescriptor, payload *schedule.Payload, modTime, now time.Time) schedule.LoadedSource {
	next, err := schedule.NextRefresh(payload, modTime)
	if err != nil {
		logging.Error(logger, "source schema unrecognized", err, logging.FieldSource, desc.Name)
	}
	return schedule.LoadedSource{
		Descriptor:    desc,
		Payload:       payload,
		LoadedAt:      now,
		ModifiedAt:    modTime,
		NextRefreshAt: next,
		NoRefresh:     desc.Final,
	}
}

// needsRefresh reports whether a loaded, non-final entry is stale and the refetch floor has passed.
func (m *Manager) needsRefresh(cur schedule.LoadedSource, now time.Time) bool {
	if cur.NoRefresh {
		return false
	}
	stale := now.After(cur.NextRefreshAt) || now.Sub(cur.ModifiedAt) > schedule.MaxCacheAge
	if !stale {
		return false
	}
	return cur.LastAttemptAt.IsZero() || now.Sub(cur.LastAttemptAt) >= m.minRefetch
}
