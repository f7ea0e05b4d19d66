package store

import (
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
)

func loaded(name string, loadedAt time.Time) schedule.LoadedSource {
	return schedule.LoadedSource{
		Descriptor: schedule.SourceDescriptor{Name: name},
		LoadedAt:   loadedAt,
	}
}

func TestSourceTableSetAndGet(t *testing.T) {
	tbl := NewSourceTable()
	tbl.Set(loaded("owl2024", time.Unix(10, 0)))
	tbl.Set(loaded("owl2019", time.Unix(20, 0)))

	if got := tbl.Len(); got != 2 {
		t.Fatalf("expected 2 sources, got %d", got)
	}
	s, ok := tbl.Get("owl2024")
	if !ok {
		t.Fatalf("expected to find owl2024")
	}
	if !s.LoadedAt.Equal(time.Unix(10, 0)) {
		t.Fatalf("unexpected loadedAt %v", s.LoadedAt)
	}
}

func TestSourceTableGetNotFound(t *testing.T) {
	tbl := NewSourceTable()
	if _, ok := tbl.Get("missing"); ok {
		t.Fatalf("expected missing name to return false")
	}
}

func TestSourceTableSetReplacesEntry(t *testing.T) {
	tbl := NewSourceTable()
	tbl.Set(loaded("owl", time.Unix(1, 0)))
	tbl.Set(loaded("owl", time.Unix(2, 0)))

	s, _ := tbl.Get("owl")
	if tbl.Len() != 1 || !s.LoadedAt.Equal(time.Unix(2, 0)) {
		t.Fatalf("expected replacement, got %+v", s)
	}
}

func TestSourceTableListSortedCopy(t *testing.T) {
	tbl := NewSourceTable()
	tbl.Set(loaded("b", time.Unix(1, 0)))
	tbl.Set(loaded("a", time.Unix(1, 0)))

	list := tbl.List()
	if len(list) != 2 || list[0].Name() != "a" || list[1].Name() != "b" {
		t.Fatalf("unexpected list %+v", list)
	}
	list[0].LoadedAt = time.Unix(99, 0)

	s, _ := tbl.Get("a")
	if s.LoadedAt.Equal(time.Unix(99, 0)) {
		t.Fatalf("expected table to remain unchanged")
	}
}

func TestSourceTableTouch(t *testing.T) {
	tbl := NewSourceTable()
	attempt := time.Unix(50, 0)
	if tbl.Touch("owl", func(s *schedule.LoadedSource) { s.LastAttemptAt = attempt }) {
		t.Fatalf("expected touch on missing entry to report false")
	}

	tbl.Set(loaded("owl", time.Unix(1, 0)))
	if !tbl.Touch("owl", func(s *schedule.LoadedSource) { s.LastAttemptAt = attempt }) {
		t.Fatalf("expected touch to succeed")
	}
	s, _ := tbl.Get("owl")
	if !s.LastAttemptAt.Equal(attempt) || !s.LoadedAt.Equal(time.Unix(1, 0)) {
		t.Fatalf("unexpected entry after touch %+v", s)
	}
}

func TestSourceTableConcurrentAccess(t *testing.T) {
	tbl := NewSourceTable()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			tbl.Set(loaded("owl", time.Now()))
		}()
		go func() {
			defer wg.Done()
			_ = tbl.List()
		}()
	}
	wg.Wait()
	if tbl.Len() != 1 {
		t.Fatalf("expected single entry, got %d", tbl.Len())
	}
}
