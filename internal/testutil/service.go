package testutil

import (
	"github.com/preston-bernstein/owl-calendar-service/internal/app/feeds"
	"github.com/preston-bernstein/owl-calendar-service/internal/calendar"
	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/providers"
	"github.com/preston-bernstein/owl-calendar-service/internal/sourcecache"
	"github.com/preston-bernstein/owl-calendar-service/internal/teststubs"
)

// TestFeedDomain is the calendar domain used by NewFeedService.
const TestFeedDomain = "test.owl"

// NewFeedService wires a feeds service over an in-memory cache backed by the fetcher.
func NewFeedService(fetcher providers.Fetcher, sources ...schedule.SourceDescriptor) (*feeds.Service, *sourcecache.Manager) {
	mgr := sourcecache.NewManager(fetcher, &teststubs.StubSnapshotStore{}, nil, nil, nil, sourcecache.Config{})
	builder := calendar.NewBuilder(calendar.BuilderConfig{Name: "Test League", Domain: TestFeedDomain}, sources, nil)
	return feeds.NewService(mgr, builder, sources, nil, nil), mgr
}
