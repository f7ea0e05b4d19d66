package calendar

import (
	"net/url"
	"strings"
)

// Format selects how event summaries are rendered.
type Format int

const (
	FormatRegular Format = iota
	FormatDetailed
)

func (f Format) String() string {
	if f == FormatDetailed {
		return "detailed"
	}
	return "regular"
}

// Set is a string set. A nil Set means "no restriction".
type Set map[string]struct{}

// NewSet builds a set from the given values, skipping blanks. It returns nil when nothing remains.
func NewSet(values ...string) Set {
	var s Set
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if s == nil {
			s = make(Set, len(values))
		}
		s[v] = struct{}{}
	}
	return s
}

// Has reports membership.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// FilterOptions is the per-request view of what a feed should contain.
// It is built once per request and never mutated.
type FilterOptions struct {
	Format    Format
	ShowScore bool
	Teams     Set
	Leagues   Set
	Regions   Set
}

// ShowAllTeams reports whether no team filter is applied.
func (o FilterOptions) ShowAllTeams() bool {
	return o.Teams == nil
}

// ShowScores reports whether concluded matches render their scores.
func (o FilterOptions) ShowScores() bool {
	return o.ShowScore
}

// ShowDetailedSummary reports whether summaries use full names and stage prefixes.
func (o FilterOptions) ShowDetailedSummary() bool {
	return o.Format == FormatDetailed
}

// OptionsFromQuery builds options from request query parameters:
// teams, leagues, regions (comma separated), format=detailed and scores=show|true.
func OptionsFromQuery(q url.Values) FilterOptions {
	opts := FilterOptions{
		Teams:   NewSet(splitList(q.Get("teams"), strings.ToUpper)...),
		Leagues: NewSet(splitList(q.Get("leagues"), strings.ToLower)...),
		Regions: NewSet(splitList(q.Get("regions"), strings.ToLower)...),
	}
	if strings.EqualFold(strings.TrimSpace(q.Get("format")), "detailed") {
		opts.Format = FormatDetailed
	}
	switch strings.ToLower(strings.TrimSpace(q.Get("scores"))) {
	case "show", "true":
		opts.ShowScore = true
	}
	return opts
}

func splitList(raw string, normalize func(string) string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = normalize(strings.TrimSpace(p))
	}
	return parts
}
