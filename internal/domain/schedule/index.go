package schedule

import (
	"fmt"
	"time"
)

// MaxCacheAge bounds how long a cache file is trusted regardless of match timing.
const MaxCacheAge = 12 * time.Hour

// EarliestMatchTime returns the smallest completion timestamp (epoch ms).
func EarliestMatchTime(times []int64) (int64, bool) {
	if len(times) == 0 {
		return 0, false
	}
	earliest := times[0]
	for _, t := range times[1:] {
		if t < earliest {
			earliest = t
		}
	}
	return earliest, true
}

// NextMatchCompletion finds the earliest end time among matches that have not concluded.
// Matches without an end date are ignored.
func NextMatchCompletion(sections []Section) (time.Time, bool) {
	var ends []int64
	for _, s := range sections {
		for _, m := range s.Matches {
			if m.IsConcluded() {
				continue
			}
			if end, ok := m.End(); ok {
				ends = append(ends, end.UnixMilli())
			}
		}
	}
	earliest, ok := EarliestMatchTime(ends)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(earliest).UTC(), true
}

// NextRefresh computes when a cached payload should be refreshed: the file-based deadline
// (modTime + MaxCacheAge), pulled forward to the next pending match completion when earlier.
func NextRefresh(p *Payload, modTime time.Time) (time.Time, error) {
	deadline := modTime.Add(MaxCacheAge)
	sections, err := p.Sections()
	if err != nil {
		return deadline, fmt.Errorf("next refresh: %w", err)
	}
	if next, ok := NextMatchCompletion(sections); ok && next.Before(deadline) {
		return next, nil
	}
	return deadline, nil
}
