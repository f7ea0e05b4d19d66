package metrics

import (
	"sync"
	"time"
)

// Cache load origins.
const (
	OriginDisk    = "disk"
	OriginNetwork = "network"
)

type sourceStats struct {
	fetches          int
	fetchErrors      int
	rateLimitHits    int
	diskLoads        int
	networkLoads     int
	lastRetryAfter   time.Duration
	lastFetchLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about source fetches and feed builds.
// When built by Setup it also forwards to OpenTelemetry instruments.
type Recorder struct {
	mu     sync.Mutex
	stats  map[string]*sourceStats
	builds int
	otel   *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*sourceStats),
		otel:  otel,
	}
}

// RecordFetch counts one upstream fetch attempt for a source and stores its latency.
func (r *Recorder) RecordFetch(source string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.update(source, func(s *sourceStats) {
		s.fetches++
		s.lastFetchLatency = duration
		if err != nil {
			s.fetchErrors++
		}
	})
	if r.otel != nil {
		r.otel.recordFetch(source, duration, err)
	}
}

// RecordRateLimit tracks that a fetch hit a rate limit and stores the last Retry-After.
func (r *Recorder) RecordRateLimit(source string, retryAfter time.Duration) {
	if r == nil {
		return
	}

	r.update(source, func(s *sourceStats) {
		s.rateLimitHits++
		if retryAfter > 0 {
			s.lastRetryAfter = retryAfter
		}
	})
	if r.otel != nil {
		r.otel.recordRateLimit(source, retryAfter)
	}
}

// RecordCacheLoad tracks where a source's payload was (re)loaded from.
func (r *Recorder) RecordCacheLoad(source, origin string) {
	if r == nil {
		return
	}

	r.update(source, func(s *sourceStats) {
		switch origin {
		case OriginDisk:
			s.diskLoads++
		case OriginNetwork:
			s.networkLoads++
		}
	})
	if r.otel != nil {
		r.otel.recordCacheLoad(source, origin)
	}
}

// RecordFeedBuild tracks one rendered feed.
func (r *Recorder) RecordFeedBuild(duration time.Duration, events int, err error) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.builds++
	r.mu.Unlock()
	if r.otel != nil {
		r.otel.recordFeedBuild(duration, events, err)
	}
}

// FeedBuilds returns the number of feeds rendered.
func (r *Recorder) FeedBuilds() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.builds
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// RecordRefreshCycle tracks background refresh cycles and errors.
func (r *Recorder) RecordRefreshCycle(duration time.Duration, err error) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordRefresh(duration, err)
}

// Snapshot is a copy of the current stats for one source.
type Snapshot struct {
	Fetches          int
	FetchErrors      int
	RateLimitHits    int
	DiskLoads        int
	NetworkLoads     int
	LastRetryAfter   time.Duration
	LastFetchLatency time.Duration
}

func (r *Recorder) Snapshot(source string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[source]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Fetches:          stats.fetches,
		FetchErrors:      stats.fetchErrors,
		RateLimitHits:    stats.rateLimitHits,
		DiskLoads:        stats.diskLoads,
		NetworkLoads:     stats.networkLoads,
		LastRetryAfter:   stats.lastRetryAfter,
		LastFetchLatency: stats.lastFetchLatency,
	}
}

func (r *Recorder) update(source string, fn func(*sourceStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.stats[source]
	if !ok {
		stats = &sourceStats{}
		r.stats[source] = stats
	}
	fn(stats)
}
