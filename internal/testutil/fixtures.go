package testutil

import (
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
)

// MatchSpec describes one match for payload fixtures. Zero times are omitted.
type MatchSpec struct {
	ID         string
	State      string
	Start      time.Time
	End        time.Time
	Home, Away string
	Scores     [2]int
	Tournament string
}

// SampleSource returns a default-included descriptor with the given name.
func SampleSource(name string) schedule.SourceDescriptor {
	return schedule.SourceDescriptor{
		Name:            name,
		URL:             "https://example.test/" + name,
		CachePath:       name + ".json",
		Tag:             "owl",
		DefaultIncluded: true,
		Regions:         map[string]string{"NA": "na-" + name},
	}
}

// StagesPayload renders a stages-shaped schedule document with a single stage.
func StagesPayload(stage string, matches ...MatchSpec) []byte {
	parts := make([]string, 0, len(matches))
	for _, m := range matches {
		parts = append(parts, matchJSON(m))
	}
	return []byte(fmt.Sprintf(`{"data":{"stages":[{"name":%q,"matches":[%s]}]}}`, stage, strings.Join(parts, ",")))
}

func matchJSON(m MatchSpec) string {
	state := m.State
	if state == "" {
		state = string(schedule.StatePending)
	}
	fields := []string{fmt.Sprintf(`"state":%q`, state)}
	if m.ID != "" {
		fields = append(fields, fmt.Sprintf(`"id":%q`, m.ID))
	}
	if !m.Start.IsZero() {
		fields = append(fields, fmt.Sprintf(`"startDateTS":%d`, m.Start.UnixMilli()))
	}
	if !m.End.IsZero() {
		fields = append(fields, fmt.Sprintf(`"endDateTS":%d`, m.End.UnixMilli()))
	}
	fields = append(fields, fmt.Sprintf(`"competitors":[%s,%s]`, competitorJSON(m.Home), competitorJSON(m.Away)))
	if state == string(schedule.StateConcluded) {
		fields = append(fields, fmt.Sprintf(`"scores":[{"value":%d},{"value":%d}]`, m.Scores[0], m.Scores[1]))
	}
	if m.Tournament != "" {
		fields = append(fields, fmt.Sprintf(`"tournament":{"id":%q,"type":"OPEN_MATCHES"}`, m.Tournament))
	}
	return "{" + strings.Join(fields, ",") + "}"
}

func competitorJSON(abbr string) string {
	if abbr == "" {
		return "null"
	}
	return fmt.Sprintf(`{"abbreviatedName":%q,"name":%q}`, abbr, abbr+" Team")
}
