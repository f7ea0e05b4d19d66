package handlers

import (
	"errors"
	"log/slog"
	nethttp "net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/preston-bernstein/owl-calendar-service/internal/app/feeds"
	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/logging"
	"github.com/preston-bernstein/owl-calendar-service/internal/snapshots"
)

type sourceView struct {
	Name          string     `json:"name"`
	Tag           string     `json:"tag"`
	Default       bool       `json:"default"`
	Final         bool       `json:"final"`
	Loaded        bool       `json:"loaded"`
	LoadedAt      *time.Time `json:"loaded_at,omitempty"`
	ModifiedAt    *time.Time `json:"modified_at,omitempty"`
	NextRefreshAt *time.Time `json:"next_refresh_at,omitempty"`
	NextRefreshIn string     `json:"next_refresh_in,omitempty"`
	LastAttemptAt *time.Time `json:"last_attempt_at,omitempty"`
	CacheSize     string     `json:"cache_size,omitempty"`
	CachedAt      *time.Time `json:"cached_at,omitempty"`
}

// Sources lists every configured source with its cache state.
func (h *Handler) Sources(w nethttp.ResponseWriter, r *nethttp.Request) {
	logger := loggerFromContext(r, h.logger)
	now := h.now()

	statuses := h.feeds.Status()
	views := make([]sourceView, 0, len(statuses))
	for _, st := range statuses {
		views = append(views, newSourceView(st, h.statCache(logger, st.Descriptor), now))
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"sources": views}, logger)
}

func (h *Handler) statCache(logger *slog.Logger, desc schedule.SourceDescriptor) snapshots.Entry {
	if h.cache == nil || desc.CachePath == "" {
		return snapshots.Entry{}
	}
	entry, err := h.cache.Stat(desc.CachePath)
	if err != nil {
		if !errors.Is(err, snapshots.ErrNotFound) {
			logging.Warn(logger, "cache file unreadable", logging.FieldSource, desc.Name, "error", err)
		}
		return snapshots.Entry{}
	}
	return entry
}

func newSourceView(st feeds.SourceStatus, entry snapshots.Entry, now time.Time) sourceView {
	v := sourceView{
		Name:    st.Descriptor.Name,
		Tag:     st.Descriptor.Tag,
		Default: st.Descriptor.DefaultIncluded,
		Final:   st.Descriptor.Final,
		Loaded:  st.Loaded,
	}
	if st.Loaded {
		v.LoadedAt = timePtr(st.LoadedAt)
		v.ModifiedAt = timePtr(st.ModifiedAt)
		v.LastAttemptAt = timePtr(st.LastAttemptAt)
		if !st.Descriptor.Final {
			v.NextRefreshAt = timePtr(st.NextRefreshAt)
			if v.NextRefreshAt != nil {
				v.NextRefreshIn = humanize.RelTime(st.NextRefreshAt, now, "ago", "from now")
			}
		}
	}
	if entry.Bytes > 0 {
		v.CacheSize = humanize.Bytes(uint64(entry.Bytes))
		v.CachedAt = timePtr(entry.ModTime)
	}
	return v
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	t = t.UTC()
	return &t
}
