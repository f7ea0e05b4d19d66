package store

import (
	"sort"
	"sync"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
)

// SourceTable keeps a thread-safe view of loaded sources keyed by name.
type SourceTable struct {
	mu      sync.RWMutex
	sources map[string]schedule.LoadedSource
}

// NewSourceTable constructs an empty SourceTable.
func NewSourceTable() *SourceTable {
	return &SourceTable{
		sources: make(map[string]schedule.LoadedSource),
	}
}

// Get retrieves a loaded source by name.
func (t *SourceTable) Get(name string) (schedule.LoadedSource, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	s, ok := t.sources[name]
	return s, ok
}

// Set registers or replaces the entry for the source's name.
func (t *SourceTable) Set(s schedule.LoadedSource) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.sources[s.Name()] = s
}

// Touch records a fetch attempt without replacing the payload.
// It reports false when no entry exists yet.
func (t *SourceTable) Touch(name string, at func(*schedule.LoadedSource)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sources[name]
	if !ok {
		return false
	}
	at(&s)
	t.sources[name] = s
	return true
}

// List returns a copy of every entry sorted by name.
func (t *SourceTable) List() []schedule.LoadedSource {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]schedule.LoadedSource, 0, len(t.sources))
	for _, s := range t.sources {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Len returns the number of registered sources.
func (t *SourceTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.sources)
}
