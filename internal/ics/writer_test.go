package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/preston-bernstein/owl-calendar-service/internal/calendar"
)

func TestWriteRendersEvents(t *testing.T) {
	start := time.Date(2024, 4, 20, 19, 0, 0, 0, time.UTC)
	feed := calendar.FeedRecord{
		Name:       "Overwatch League",
		Domain:     "owl.example.test",
		TTLSeconds: 5400,
		Events: []calendar.RenderedEvent{
			{
				SequenceID:  37234,
				Summary:     "OWL BOS v FLA",
				Description: "Stage 1 - Boston Uprising vs Florida Mayhem",
				Start:       start,
				End:         start.Add(2 * time.Hour),
				Location:    "Dallas",
			},
			{SequenceID: 2, Summary: "OWL TBA v TBA", Start: start},
		},
	}

	var buf bytes.Buffer
	if err := Write(&buf, feed, start.Add(-time.Hour)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"METHOD:PUBLISH",
		"X-WR-CALNAME:Overwatch League",
		"X-PUBLISHED-TTL:PT1H30M",
		"UID:37234@owl.example.test",
		"SEQUENCE:37234",
		"SUMMARY:OWL BOS v FLA",
		"DTSTART:20240420T190000Z",
		"DTEND:20240420T210000Z",
		"LOCATION:Dallas",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}

	parsed, err := ical.ParseCalendar(strings.NewReader(out))
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}
	events := parsed.Events()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	second := events[1]
	if p := second.GetProperty(ical.ComponentPropertyDtEnd); p == nil || p.Value != "20240420T190000Z" {
		t.Fatalf("expected end to fall back to start, got %+v", p)
	}
}

func TestWriteEmptyFeed(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, calendar.FeedRecord{Name: "Empty"}, time.Now()); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if !strings.Contains(buf.String(), "BEGIN:VCALENDAR") || strings.Contains(buf.String(), "BEGIN:VEVENT") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestWriteNilWriter(t *testing.T) {
	if err := Write(nil, calendar.FeedRecord{}, time.Now()); err == nil {
		t.Fatalf("expected error for nil writer")
	}
}

func TestDuration(t *testing.T) {
	cases := map[int64]string{
		0:     "PT0S",
		1:     "PT1S",
		90:    "PT1M30S",
		43200: "PT12H",
		3661:  "PT1H1M1S",
	}
	for secs, want := range cases {
		if got := Duration(secs); got != want {
			t.Fatalf("Duration(%d) = %q, want %q", secs, got, want)
		}
	}
}

func TestUID(t *testing.T) {
	if uid("5", "") != "5" || uid("5", "d") != "5@d" {
		t.Fatalf("unexpected uid formatting")
	}
}
