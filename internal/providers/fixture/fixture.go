package fixture

import (
	"context"
	"encoding/json"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
)

// Provider serves a deterministic schedule document useful for local testing and bootstrapping.
// Match times are placed around the current hour so the feed always has past and upcoming entries.
type Provider struct {
	now func() time.Time
}

// New creates a fixture provider with a time source.
func New() *Provider {
	return &Provider{
		now: time.Now,
	}
}

type document struct {
	Data struct {
		Stages []stage `json:"stages"`
	} `json:"data"`
}

type stage struct {
	Name    string           `json:"name"`
	Matches []schedule.Match `json:"matches"`
}

var (
	boston  = &schedule.Competitor{Name: "Boston Uprising", AbbreviatedName: "BOS"}
	florida = &schedule.Competitor{Name: "Florida Mayhem", AbbreviatedName: "FLA"}
	london  = &schedule.Competitor{Name: "London Spitfire", AbbreviatedName: "LDN"}
	seoul   = &schedule.Competitor{Name: "Seoul Dynasty", AbbreviatedName: "SEO"}
)

// Fetch returns the fixture document encoded the way upstream serves it.
func (p *Provider) Fetch(ctx context.Context, src schedule.SourceDescriptor) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := p.now().UTC().Truncate(time.Hour)
	tournament := schedule.Tournament{ID: "fixture-regular", Location: "Fixture Arena"}
	if id, ok := firstRegion(src.Regions); ok {
		tournament.ID = schedule.FlexString(id)
	}

	var doc document
	doc.Data.Stages = []stage{
		{
			Name: "Fixture stage",
			Matches: []schedule.Match{
				{
					ID:          "1001",
					StartDate:   ts(start.Add(-26 * time.Hour)),
					EndDate:     ts(start.Add(-24 * time.Hour)),
					Competitors: []*schedule.Competitor{florida, boston},
					Tournament:  tournament,
					State:       schedule.StateConcluded,
					Scores:      []schedule.Score{{Value: "1"}, {Value: "3"}},
					Winner:      boston,
					Games: []schedule.Game{
						{Points: []schedule.FlexString{"1", "2"}},
						{Points: []schedule.FlexString{"0", "2"}},
						{Points: []schedule.FlexString{"3", "2"}},
						{Points: []schedule.FlexString{"1", "3"}},
					},
				},
				{
					ID:          "1002",
					StartDate:   ts(start.Add(2 * time.Hour)),
					EndDate:     ts(start.Add(4 * time.Hour)),
					Competitors: []*schedule.Competitor{london, seoul},
					Tournament:  tournament,
					State:       schedule.StatePending,
				},
			},
		},
		{
			Name: "Fixture stage",
			Matches: []schedule.Match{
				{
					ID:          "1003",
					StartDate:   ts(start.Add(26 * time.Hour)),
					EndDate:     ts(start.Add(28 * time.Hour)),
					Competitors: []*schedule.Competitor{nil, london},
					Tournament:  schedule.Tournament{ID: tournament.ID, Type: schedule.TournamentTypePlayoffs, Location: tournament.Location},
					State:       schedule.StatePending,
				},
			},
		},
	}
	return json.Marshal(doc)
}

func ts(t time.Time) *schedule.Timestamp {
	return &schedule.Timestamp{Time: t}
}

// firstRegion returns the lexically smallest region's tournament id so output stays deterministic.
func firstRegion(regions map[string]string) (string, bool) {
	var (
		key string
		id  string
	)
	for k, v := range regions {
		if key == "" || k < key {
			key, id = k, v
		}
	}
	return id, key != ""
}
