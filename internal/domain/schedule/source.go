package schedule

import "time"

// SourceDescriptor is the static definition of one configured schedule source.
// It is immutable once loaded.
type SourceDescriptor struct {
	Name            string
	URL             string
	CachePath       string
	Tag             string
	DefaultIncluded bool
	// Final marks sources whose data never changes again.
	Final bool
	// Regions maps a region name or abbreviation to a tournament id.
	Regions map[string]string
}

// LoadedSource is the cached, parsed state of a source.
type LoadedSource struct {
	Descriptor    SourceDescriptor
	Payload       *Payload
	LoadedAt      time.Time
	ModifiedAt    time.Time
	NextRefreshAt time.Time
	LastAttemptAt time.Time
	// NoRefresh mirrors Descriptor.Final; NextRefreshAt is ignored while set.
	NoRefresh bool
}

// Name returns the descriptor name.
func (l LoadedSource) Name() string {
	return l.Descriptor.Name
}
