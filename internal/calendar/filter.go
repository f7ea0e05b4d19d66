package calendar

import (
	"strings"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
)

// RegionIndex resolves region names or abbreviations to tournament ids across every
// configured source. Keys are lower-cased.
type RegionIndex map[string]map[string]struct{}

// NewRegionIndex merges the region mappings of all descriptors.
func NewRegionIndex(descs []schedule.SourceDescriptor) RegionIndex {
	idx := make(RegionIndex)
	for _, d := range descs {
		for region, tournamentID := range d.Regions {
			key := strings.ToLower(strings.TrimSpace(region))
			if key == "" || tournamentID == "" {
				continue
			}
			if idx[key] == nil {
				idx[key] = make(map[string]struct{})
			}
			idx[key][tournamentID] = struct{}{}
		}
	}
	return idx
}

// Matches reports whether the region maps to the tournament id.
func (r RegionIndex) Matches(region, tournamentID string) bool {
	ids, ok := r[strings.ToLower(region)]
	if !ok {
		return false
	}
	_, ok = ids[tournamentID]
	return ok
}

// ShouldInclude decides whether a single match belongs in the feed.
func ShouldInclude(opts FilterOptions, m schedule.Match, regions RegionIndex) bool {
	if _, ok := m.Start(); !ok {
		return false
	}
	return passesTeams(opts, m) && passesRegions(opts, m, regions)
}

// IncludeSource decides league inclusion once per source.
func IncludeSource(opts FilterOptions, desc schedule.SourceDescriptor) bool {
	if opts.Leagues == nil {
		return desc.DefaultIncluded
	}
	return opts.Leagues.Has(strings.ToLower(desc.Tag))
}

func passesTeams(opts FilterOptions, m schedule.Match) bool {
	if opts.ShowAllTeams() {
		return true
	}
	for i := 0; i < 2; i++ {
		if opts.Teams.Has(strings.ToUpper(m.Competitor(i).Abbreviation())) {
			return true
		}
	}
	return false
}

func passesRegions(opts FilterOptions, m schedule.Match, regions RegionIndex) bool {
	if opts.Regions == nil {
		return true
	}
	id := m.Tournament.ID.String()
	if id == "" {
		return false
	}
	for region := range opts.Regions {
		if regions.Matches(region, id) {
			return true
		}
	}
	return false
}
