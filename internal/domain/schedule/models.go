package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MatchState mirrors the upstream lifecycle states of a match.
type MatchState string

const (
	StatePending   MatchState = "PENDING"
	StateOpen      MatchState = "OPEN"
	StateConcluded MatchState = "CONCLUDED"
)

// TournamentTypePlayoffs marks matches played as part of a playoff tournament.
const TournamentTypePlayoffs = "PLAYOFFS"

// TBA is rendered in place of a competitor that has not been announced yet.
const TBA = "TBA"

// FlexString decodes a JSON string or number into its textual form.
// Upstream schedules are inconsistent about ids and score values.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("flex string: %w", err)
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Timestamp decodes either epoch milliseconds or an RFC 3339 string.
type Timestamp struct {
	time.Time
}

// NewTimestamp builds a Timestamp from epoch milliseconds.
func NewTimestamp(ms int64) *Timestamp {
	return &Timestamp{Time: time.UnixMilli(ms).UTC()}
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			t.Time = time.UnixMilli(ms).UTC()
			return nil
		}
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("timestamp %q: %w", s, err)
		}
		t.Time = parsed.UTC()
		return nil
	}
	var ms float64
	if err := json.Unmarshal(data, &ms); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	t.Time = time.UnixMilli(int64(ms)).UTC()
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UnixMilli())
}

// CompetitorContent carries the nested team content some payloads use.
type CompetitorContent struct {
	Name            string `json:"name,omitempty"`
	AbbreviatedName string `json:"abbreviatedName,omitempty"`
}

// Competitor is one side of a match. A nil *Competitor means "to be announced".
type Competitor struct {
	Name            string             `json:"name,omitempty"`
	AbbreviatedName string             `json:"abbreviatedName,omitempty"`
	Content         *CompetitorContent `json:"content,omitempty"`
}

// Abbreviation returns the short team code, or TBA when unknown.
func (c *Competitor) Abbreviation() string {
	if c == nil {
		return TBA
	}
	if c.AbbreviatedName != "" {
		return c.AbbreviatedName
	}
	if c.Content != nil && c.Content.AbbreviatedName != "" {
		return c.Content.AbbreviatedName
	}
	return TBA
}

// DisplayName returns the full team name, or TBA when unknown.
func (c *Competitor) DisplayName() string {
	if c == nil {
		return TBA
	}
	if c.Name != "" {
		return c.Name
	}
	if c.Content != nil && c.Content.Name != "" {
		return c.Content.Name
	}
	return c.Abbreviation()
}

// Tournament describes the tournament a match belongs to.
type Tournament struct {
	ID       FlexString `json:"id,omitempty"`
	Type     string     `json:"type,omitempty"`
	Location string     `json:"location,omitempty"`
}

// Score is one competitor's final score.
type Score struct {
	Value FlexString `json:"value"`
}

// Game holds the per-competitor points of a single game within a match.
type Game struct {
	Points []FlexString `json:"points,omitempty"`
}

// Match is a read-only view over one scheduled match in a payload.
type Match struct {
	ID          FlexString    `json:"id,omitempty"`
	StartDate   *Timestamp    `json:"startDate,omitempty"`
	EndDate     *Timestamp    `json:"endDate,omitempty"`
	StartDateTS *int64        `json:"startDateTS,omitempty"`
	EndDateTS   *int64        `json:"endDateTS,omitempty"`
	Competitors []*Competitor `json:"competitors,omitempty"`
	Tournament  Tournament    `json:"tournament"`
	State       MatchState    `json:"state,omitempty"`
	Scores      []Score       `json:"scores,omitempty"`
	Winner      *Competitor   `json:"winner,omitempty"`
	Games       []Game        `json:"games,omitempty"`
}

// Start returns the scheduled start, falling back to startDateTS.
func (m Match) Start() (time.Time, bool) {
	return pickTime(m.StartDate, m.StartDateTS)
}

// End returns the scheduled completion, falling back to endDateTS.
func (m Match) End() (time.Time, bool) {
	return pickTime(m.EndDate, m.EndDateTS)
}

// Competitor returns the competitor at index i, or nil when absent.
func (m Match) Competitor(i int) *Competitor {
	if i < 0 || i >= len(m.Competitors) {
		return nil
	}
	return m.Competitors[i]
}

// ScoreAt returns the score value at index i, or "?" when unknown.
func (m Match) ScoreAt(i int) string {
	if i < 0 || i >= len(m.Scores) || m.Scores[i].Value == "" {
		return "?"
	}
	return m.Scores[i].Value.String()
}

// GamePoints returns the points competitor i scored in each game, in game order.
func (m Match) GamePoints(i int) []string {
	points := make([]string, 0, len(m.Games))
	for _, g := range m.Games {
		if i < len(g.Points) {
			points = append(points, g.Points[i].String())
		}
	}
	return points
}

// WinnerAbbreviation returns the winner's abbreviation, or "" when no winner is recorded.
func (m Match) WinnerAbbreviation() string {
	if m.Winner == nil {
		return ""
	}
	if abbr := m.Winner.Abbreviation(); abbr != TBA {
		return abbr
	}
	return ""
}

// IsConcluded reports whether the match has finished.
func (m Match) IsConcluded() bool {
	return m.State == StateConcluded
}

func pickTime(ts *Timestamp, ms *int64) (time.Time, bool) {
	if ts != nil && !ts.IsZero() {
		return ts.Time, true
	}
	if ms != nil && *ms > 0 {
		return time.UnixMilli(*ms).UTC(), true
	}
	return time.Time{}, false
}
