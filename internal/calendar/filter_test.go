package calendar

import (
	"net/url"
	"testing"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
)

func startedMatch(tournamentID string, comps ...*schedule.Competitor) schedule.Match {
	return schedule.Match{
		StartDate:   schedule.NewTimestamp(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).UnixMilli()),
		Tournament:  schedule.Tournament{ID: schedule.FlexString(tournamentID)},
		Competitors: comps,
	}
}

func TestOptionsFromQueryNormalizes(t *testing.T) {
	opts := OptionsFromQuery(url.Values{
		"teams":   {"bos, fla"},
		"leagues": {"OWL,Contenders"},
		"regions": {"NA"},
		"format":  {"Detailed"},
		"scores":  {"true"},
	})
	if !opts.Teams.Has("BOS") || !opts.Teams.Has("FLA") || len(opts.Teams) != 2 {
		t.Fatalf("unexpected teams %+v", opts.Teams)
	}
	if !opts.Leagues.Has("owl") || !opts.Leagues.Has("contenders") {
		t.Fatalf("unexpected leagues %+v", opts.Leagues)
	}
	if !opts.Regions.Has("na") {
		t.Fatalf("unexpected regions %+v", opts.Regions)
	}
	if !opts.ShowDetailedSummary() || !opts.ShowScores() {
		t.Fatalf("expected detailed with scores, got %+v", opts)
	}
	if opts.Format.String() != "detailed" || FormatRegular.String() != "regular" {
		t.Fatalf("unexpected format names")
	}
}

func TestOptionsFromQueryBlankListIsUnrestricted(t *testing.T) {
	opts := OptionsFromQuery(url.Values{"teams": {" , "}, "scores": {"hide"}})
	if !opts.ShowAllTeams() || opts.ShowScores() {
		t.Fatalf("expected unrestricted teams and hidden scores, got %+v", opts)
	}
}

func TestShouldIncludeRequiresStart(t *testing.T) {
	m := startedMatch("1", boston, florida)
	m.StartDate = nil
	if ShouldInclude(FilterOptions{}, m, nil) {
		t.Fatal("expected match without start to be excluded")
	}
}

func TestShouldIncludeTeams(t *testing.T) {
	opts := FilterOptions{Teams: NewSet("LON")}
	if ShouldInclude(opts, startedMatch("1", boston, florida), nil) {
		t.Fatal("expected unrelated teams excluded")
	}
	if !ShouldInclude(opts, startedMatch("1", boston, london), nil) {
		t.Fatal("expected second competitor to match")
	}
	if !ShouldInclude(FilterOptions{Teams: NewSet("TBA")}, startedMatch("1"), nil) {
		t.Fatal("expected TBA to match absent competitors")
	}
}

func TestShouldIncludeRegionsAndTeams(t *testing.T) {
	regions := NewRegionIndex([]schedule.SourceDescriptor{
		{Name: "a", Regions: map[string]string{"NA": "10", "north america": "10"}},
		{Name: "b", Regions: map[string]string{"EU": "20"}},
	})
	opts := FilterOptions{Regions: NewSet("na")}
	if !ShouldInclude(opts, startedMatch("10", boston), regions) {
		t.Fatal("expected NA tournament included")
	}
	if ShouldInclude(opts, startedMatch("20", boston), regions) {
		t.Fatal("expected EU tournament excluded")
	}
	if ShouldInclude(opts, startedMatch("", boston), regions) {
		t.Fatal("expected match without tournament excluded under region filter")
	}

	both := FilterOptions{Regions: NewSet("north america"), Teams: NewSet("LON")}
	if ShouldInclude(both, startedMatch("10", boston, florida), regions) {
		t.Fatal("expected team filter to still apply")
	}
}

func TestIncludeSource(t *testing.T) {
	owl := schedule.SourceDescriptor{Name: "owl", Tag: "OWL", DefaultIncluded: true}
	contenders := schedule.SourceDescriptor{Name: "contenders", Tag: "contenders"}

	if !IncludeSource(FilterOptions{}, owl) || IncludeSource(FilterOptions{}, contenders) {
		t.Fatal("expected defaults without league filter")
	}
	opts := FilterOptions{Leagues: NewSet("contenders")}
	if IncludeSource(opts, owl) || !IncludeSource(opts, contenders) {
		t.Fatal("expected explicit league selection")
	}
}
