package teststubs

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/snapshots"
)

// StubFetcher is a test double for providers.Fetcher.
// Per-source Bodies/Errs take precedence over Body/Err.
type StubFetcher struct {
	Body   []byte
	Err    error
	Bodies map[string][]byte
	Errs   map[string]error

	Calls atomic.Int32
	// Started is closed on the first call when non-nil.
	Started chan struct{}
	// Block, when non-nil, holds every call until it is closed or ctx ends.
	Block chan struct{}

	mu      sync.Mutex
	byName  map[string]int
	started sync.Once
}

// Fetch returns the configured body and error while tracking calls.
func (s *StubFetcher) Fetch(ctx context.Context, src schedule.SourceDescriptor) ([]byte, error) {
	s.Calls.Add(1)
	s.mu.Lock()
	if s.byName == nil {
		s.byName = make(map[string]int)
	}
	s.byName[src.Name]++
	body, err := s.Body, s.Err
	if b, ok := s.Bodies[src.Name]; ok {
		body = b
	}
	if e, ok := s.Errs[src.Name]; ok {
		err = e
	}
	s.mu.Unlock()

	if s.Started != nil {
		s.started.Do(func() { close(s.Started) })
	}
	if s.Block != nil {
		select {
		case <-s.Block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

// CallsFor returns how many times the named source was fetched.
func (s *StubFetcher) CallsFor(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.byName[name]
}

// SetBody swaps the response for one source.
func (s *StubFetcher) SetBody(name string, body []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Bodies == nil {
		s.Bodies = make(map[string][]byte)
	}
	s.Bodies[name] = body
}

// SetErr swaps the error for one source; nil clears it.
func (s *StubFetcher) SetErr(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Errs == nil {
		s.Errs = make(map[string]error)
	}
	if err == nil {
		delete(s.Errs, name)
		return
	}
	s.Errs[name] = err
}

// StubSnapshotStore is an in-memory test double for snapshots.Store.
type StubSnapshotStore struct {
	Files   map[string]snapshots.Snapshot // keyed by path
	LoadErr error
	SaveErr error
	Now     func() time.Time

	mu    sync.Mutex
	saves int
}

// Load returns the stored snapshot for path.
func (s *StubSnapshotStore) Load(path string) (snapshots.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return snapshots.Snapshot{}, s.LoadErr
	}
	snap, ok := s.Files[path]
	if !ok {
		return snapshots.Snapshot{}, snapshots.ErrNotFound
	}
	return snap, nil
}

// Save records data for path with the stub's clock as modification time.
func (s *StubSnapshotStore) Save(path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	if s.Files == nil {
		s.Files = make(map[string]snapshots.Snapshot)
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	s.Files[path] = snapshots.Snapshot{Data: append([]byte(nil), data...), ModTime: now}
	return nil
}

// Put seeds a cached file.
func (s *StubSnapshotStore) Put(path string, data []byte, mod time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Files == nil {
		s.Files = make(map[string]snapshots.Snapshot)
	}
	s.Files[path] = snapshots.Snapshot{Data: data, ModTime: mod}
}

// Saves returns the number of Save calls.
func (s *StubSnapshotStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
