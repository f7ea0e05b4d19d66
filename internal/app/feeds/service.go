package feeds

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/calendar"
	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/metrics"
)

// ErrFeedUnavailable is returned when no requested source could be loaded.
var ErrFeedUnavailable = errors.New("feed unavailable")

// Cache defines the source cache operations the service relies on.
type Cache interface {
	EnsureAll(ctx context.Context, descs []schedule.SourceDescriptor) ([]schedule.LoadedSource, map[string]error)
	Snapshot() []schedule.LoadedSource
}

// Service renders filtered feeds from the configured sources.
type Service struct {
	cache    Cache
	builder  *calendar.Builder
	sources  []schedule.SourceDescriptor
	recorder *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a Service over the configured sources, in configured order.
func NewService(cache Cache, builder *calendar.Builder, sources []schedule.SourceDescriptor, recorder *metrics.Recorder, logger *slog.Logger) *Service {
	return &Service{
		cache:    cache,
		builder:  builder,
		sources:  sources,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// Feed ensures every requested source is fresh and builds the feed.
// Sources that fail are left out; if none can be used the feed is unavailable.
func (s *Service) Feed(ctx context.Context, opts calendar.FilterOptions) (calendar.FeedRecord, error) {
	start := time.Now()
	logger := logging.FromContext(ctx, s.logger)

	included := make([]schedule.SourceDescriptor, 0, len(s.sources))
	for _, desc := range s.sources {
		if calendar.IncludeSource(opts, desc) {
			included = append(included, desc)
		}
	}

	var loaded []schedule.LoadedSource
	if len(included) > 0 {
		var errs map[string]error
		loaded, errs = s.cache.EnsureAll(ctx, included)
		for name, err := range errs {
			logging.Warn(logger, "source unavailable for feed", logging.FieldSource, name, "error", err)
		}
		if err := ctx.Err(); err != nil {
			return calendar.FeedRecord{}, err
		}
	}

	sources := make([]calendar.Source, 0, len(loaded))
	for _, l := range loaded {
		sources = append(sources, calendar.SourceFromLoaded(l))
	}
	feed, stats := s.builder.Build(opts, sources, s.now())

	var err error
	if len(included) > 0 && stats.SourcesIncluded == 0 {
		err = fmt.Errorf("%w: none of %d sources usable", ErrFeedUnavailable, len(included))
	}
	s.recorder.RecordFeedBuild(time.Since(start), stats.Events, err)
	if err != nil {
		return calendar.FeedRecord{}, err
	}

	logging.Info(logger, "feed built",
		logging.FieldCount, stats.Events,
		"sources", stats.SourcesIncluded,
		"skipped_no_start", stats.SkippedNoStart,
		"skipped_undecodable", stats.SkippedUndecodable,
		"ttl_seconds", feed.TTLSeconds,
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return feed, nil
}

// Sources returns the configured descriptors.
func (s *Service) Sources() []schedule.SourceDescriptor {
	return s.sources
}

// SourceStatus pairs a configured source with its cache state.
type SourceStatus struct {
	Descriptor    schedule.SourceDescriptor
	Loaded        bool
	LoadedAt      time.Time
	ModifiedAt    time.Time
	NextRefreshAt time.Time
	LastAttemptAt time.Time
}

// Status reports cache state for every configured source, in configured order.
func (s *Service) Status() []SourceStatus {
	byName := make(map[string]schedule.LoadedSource)
	for _, l := range s.cache.Snapshot() {
		byName[l.Name()] = l
	}
	out := make([]SourceStatus, 0, len(s.sources))
	for _, desc := range s.sources {
		st := SourceStatus{Descriptor: desc}
		if l, ok := byName[desc.Name]; ok {
			st.Loaded = true
			st.LoadedAt = l.LoadedAt
			st.ModifiedAt = l.ModifiedAt
			st.NextRefreshAt = l.NextRefreshAt
			st.LastAttemptAt = l.LastAttemptAt
		}
		out = append(out, st)
	}
	return out
}
