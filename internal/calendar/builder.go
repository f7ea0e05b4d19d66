package calendar

import (
	"log/slog"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/timeutil"
)

// DefaultTTL is advertised when no refresh hint exists.
const DefaultTTL = schedule.MaxCacheAge

// RenderedEvent is one calendar entry handed to the ICS sink.
type RenderedEvent struct {
	SequenceID  int64
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
	Location    string
}

// FeedRecord is the feed-level result of a build.
type FeedRecord struct {
	Name       string
	Domain     string
	TTLSeconds int64
	Events     []RenderedEvent
	// NextRefresh is the global refresh hint, nil when none exists.
	NextRefresh *time.Time
}

// Source pairs a descriptor with its loaded payload for a build.
type Source struct {
	Descriptor    schedule.SourceDescriptor
	Payload       *schedule.Payload
	NextRefreshAt time.Time
	Final         bool
}

// SourceFromLoaded adapts a cache entry for the builder.
func SourceFromLoaded(l schedule.LoadedSource) Source {
	return Source{
		Descriptor:    l.Descriptor,
		Payload:       l.Payload,
		NextRefreshAt: l.NextRefreshAt,
		Final:         l.NoRefresh,
	}
}

// BuildStats summarizes one build.
type BuildStats struct {
	SourcesIncluded int
	Events          int
	SkippedNoStart  int
	// SkippedUndecodable counts matches dropped because their fields did not decode.
	SkippedUndecodable int
	SchemaErrors       []string
}

// BuilderConfig names the feed.
type BuilderConfig struct {
	Name   string
	Domain string
}

// Builder renders filtered feeds from loaded sources.
type Builder struct {
	name    string
	domain  string
	regions RegionIndex
	logger  *slog.Logger
}

// NewBuilder constructs a Builder. Regions are indexed across all descriptors.
func NewBuilder(cfg BuilderConfig, descs []schedule.SourceDescriptor, logger *slog.Logger) *Builder {
	return &Builder{
		name:    cfg.Name,
		domain:  cfg.Domain,
		regions: NewRegionIndex(descs),
		logger:  logger,
	}
}

// Build walks sources in the given order and returns the feed with its TTL.
// The refresh hint is the earliest of any overdue pending match end and every
// included non-final source's NextRefreshAt. Since each loaded non-final source
// carries a NextRefreshAt, DefaultTTL only applies when all included sources are
// final or none contributed.
func (b *Builder) Build(opts FilterOptions, sources []Source, now time.Time) (FeedRecord, BuildStats) {
	feed := FeedRecord{Name: b.name, Domain: b.domain}
	var (
		stats     BuildStats
		overdue   time.Time
		sourceDue time.Time
	)

	for _, src := range sources {
		if !IncludeSource(opts, src.Descriptor) {
			continue
		}
		sections, err := src.Payload.Sections()
		if err != nil {
			stats.SchemaErrors = append(stats.SchemaErrors, src.Descriptor.Name)
			logging.Error(b.logger, "source schema unrecognized", err, logging.FieldSource, src.Descriptor.Name)
			continue
		}
		stats.SourcesIncluded++
		if !src.Final {
			sourceDue = timeutil.Earliest(sourceDue, src.NextRefreshAt)
		}

		undecodable := 0
		for _, section := range sections {
			undecodable += section.Undecodable
			for _, m := range section.Matches {
				if end, ok := m.End(); ok && m.State == schedule.StatePending && end.Before(now) {
					overdue = timeutil.Earliest(overdue, end)
				}
				if _, ok := m.Start(); !ok {
					stats.SkippedNoStart++
					continue
				}
				if !ShouldInclude(opts, m, b.regions) {
					continue
				}
				feed.Events = append(feed.Events, render(opts, section.Name, m))
			}
		}
		if undecodable > 0 {
			stats.SkippedUndecodable += undecodable
			logging.Warn(b.logger, "skipped undecodable matches", logging.FieldSource, src.Descriptor.Name, logging.FieldCount, undecodable)
		}
	}

	stats.Events = len(feed.Events)
	hint := timeutil.Earliest(overdue, sourceDue)
	if hint.IsZero() {
		feed.TTLSeconds = int64(DefaultTTL / time.Second)
	} else {
		feed.NextRefresh = &hint
		feed.TTLSeconds = timeutil.SecondsUntil(hint, now)
	}
	return feed, stats
}

func render(opts FilterOptions, section string, m schedule.Match) RenderedEvent {
	c1, c2 := m.Competitor(0), m.Competitor(1)
	start, _ := m.Start()
	end, ok := m.End()
	if !ok || end.Before(start) {
		end = start
	}
	return RenderedEvent{
		SequenceID:  SequenceID(m, section, opts),
		Summary:     Summary(opts, section, m, c1, c2),
		Description: Description(opts, section, m, c1, c2),
		Start:       start,
		End:         end,
		Location:    m.Tournament.Location,
	}
}
