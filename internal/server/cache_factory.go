package server

import (
	"errors"
	"io/fs"
	"log/slog"

	"github.com/preston-bernstein/owl-calendar-service/internal/config"
	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/metrics"
	"github.com/preston-bernstein/owl-calendar-service/internal/providers"
	"github.com/preston-bernstein/owl-calendar-service/internal/snapshots"
	"github.com/preston-bernstein/owl-calendar-service/internal/sourcecache"
	"github.com/preston-bernstein/owl-calendar-service/internal/store"
)

type cacheComponents struct {
	files   *snapshots.FSStore
	manager *sourcecache.Manager
}

func buildCache(cfg config.Config, fetcher providers.Fetcher, recorder *metrics.Recorder, logger *slog.Logger) cacheComponents {
	files := snapshots.NewFSStore(cfg.CacheDir)
	manager := sourcecache.NewManager(fetcher, files, store.NewSourceTable(), recorder, logger, sourcecache.Config{
		FetchTimeout:       cfg.Fetch.Timeout,
		MinRefetchInterval: cfg.Fetch.MinRefetchInterval,
	})
	return cacheComponents{files: files, manager: manager}
}

// loadSources reads the sources file. The fixture provider falls back to built-in
// sources when the file does not exist.
func loadSources(cfg config.Config, logger *slog.Logger) ([]schedule.SourceDescriptor, error) {
	descs, err := config.LoadSources(cfg.SourcesFile)
	if err == nil {
		return descs, nil
	}
	if errors.Is(err, fs.ErrNotExist) && normalizeProviderName(cfg.Provider) == config.ProviderFixture {
		logging.Warn(logger, "sources file missing, using fixture sources", slog.String("path", cfg.SourcesFile))
		return config.FixtureSources(), nil
	}
	return nil, err
}
