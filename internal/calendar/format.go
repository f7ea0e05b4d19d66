package calendar

import (
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/preston-bernstein/owl-calendar-service/internal/domain/schedule"
	"github.com/preston-bernstein/owl-calendar-service/internal/timeutil"
)

const (
	regularPrefix = "OWL "
	playoffSuffix = " Playoffs"
	sepRegular    = " v "
	sepDetailed   = " vs "
	sepDefeated   = " d "
)

// Summary renders the one-line event title for a match.
// With scores shown on a concluded match the winner is listed first.
func Summary(opts FilterOptions, section string, m schedule.Match, c1, c2 *schedule.Competitor) string {
	sep := sepRegular
	if opts.ShowDetailedSummary() {
		sep = sepDetailed
	}

	var score1, score2 string
	if opts.ShowScores() && m.IsConcluded() {
		s1, s2 := m.ScoreAt(0), m.ScoreAt(1)
		if winner := m.WinnerAbbreviation(); winner != "" && c2 != nil && winner == c2.Abbreviation() {
			c1, c2 = c2, c1
			s1, s2 = s2, s1
		}
		score1 = " [" + s1 + "]"
		score2 = " [" + s2 + "]"
		sep = sepDefeated
	}

	if opts.ShowDetailedSummary() {
		return stagePrefix(section, m) + " - " + c1.DisplayName() + score1 + sep + c2.DisplayName() + score2
	}
	return regularPrefix + c1.Abbreviation() + score1 + sep + c2.Abbreviation() + score2
}

// Description renders the event body. Concluded matches with scores shown get one
// line per competitor listing per-game points and the final score.
func Description(opts FilterOptions, section string, m schedule.Match, c1, c2 *schedule.Competitor) string {
	var b strings.Builder
	b.WriteString(stagePrefix(section, m))
	b.WriteString(" - ")
	b.WriteString(c1.DisplayName())
	b.WriteString(sepDetailed)
	b.WriteString(c2.DisplayName())

	if opts.ShowScores() && m.IsConcluded() {
		for i, c := range []*schedule.Competitor{c1, c2} {
			b.WriteString("\n")
			b.WriteString(c.DisplayName())
			b.WriteString(": ")
			b.WriteString(strings.Join(m.GamePoints(i), " "))
			b.WriteString(" [")
			b.WriteString(m.ScoreAt(i))
			b.WriteString("]")
		}
	}
	return b.String()
}

// SequenceID returns a stable numeric id for the match. Upstream ids are used verbatim;
// otherwise the id is derived from the start day and rendered summary.
func SequenceID(m schedule.Match, section string, opts FilterOptions) int64 {
	if m.ID != "" {
		if id, err := strconv.ParseInt(m.ID.String(), 10, 64); err == nil {
			return id
		}
		return hashPrefix(m.ID.String())
	}
	var day string
	if start, ok := m.Start(); ok {
		day = timeutil.FormatDate(start)
	}
	return hashPrefix(day + Summary(opts, section, m, m.Competitor(0), m.Competitor(1)))
}

// hashPrefix takes the leading 8 hex digits (top 32 bits) of the xxhash64 digest.
func hashPrefix(s string) int64 {
	return int64(xxhash.Sum64String(s) >> 32)
}

func stagePrefix(section string, m schedule.Match) string {
	if m.Tournament.Type == schedule.TournamentTypePlayoffs {
		return section + playoffSuffix
	}
	return section
}
