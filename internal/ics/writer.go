package ics

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/preston-bernstein/owl-calendar-service/internal/calendar"
)

// ContentType is served with every rendered feed.
const ContentType = "text/calendar; charset=utf-8"

const productID = "-//owl-calendar-service//EN"

// Write renders the feed as an iCalendar document.
func Write(w io.Writer, feed calendar.FeedRecord, now time.Time) error {
	if w == nil {
		return errors.New("ics: nil writer")
	}
	cal := ical.NewCalendar()
	cal.SetProductId(productID)
	cal.SetMethod(ical.MethodPublish)
	if feed.Name != "" {
		cal.SetName(feed.Name)
		cal.SetXWRCalName(feed.Name)
	}
	if feed.TTLSeconds > 0 {
		ttl := Duration(feed.TTLSeconds)
		cal.SetXPublishedTTL(ttl)
		cal.SetRefreshInterval(ttl)
	}

	stamp := now.UTC()
	for _, ev := range feed.Events {
		seq := strconv.FormatInt(ev.SequenceID, 10)
		event := cal.AddEvent(uid(seq, feed.Domain))
		event.SetProperty(ical.ComponentPropertySequence, seq)
		event.SetDtStampTime(stamp)
		event.SetStartAt(ev.Start.UTC())
		end := ev.End
		if end.IsZero() {
			end = ev.Start
		}
		event.SetEndAt(end.UTC())
		event.SetSummary(ev.Summary)
		if ev.Description != "" {
			event.SetDescription(ev.Description)
		}
		if ev.Location != "" {
			event.SetLocation(ev.Location)
		}
	}
	return cal.SerializeTo(w)
}

func uid(seq, domain string) string {
	if domain == "" {
		return seq
	}
	return seq + "@" + domain
}

// Duration formats whole seconds as an ISO 8601 duration such as PT12H or PT1M30S.
func Duration(seconds int64) string {
	if seconds <= 0 {
		return "PT0S"
	}
	var b strings.Builder
	b.WriteString("PT")
	if h := seconds / 3600; h > 0 {
		b.WriteString(strconv.FormatInt(h, 10))
		b.WriteByte('H')
	}
	if m := seconds % 3600 / 60; m > 0 {
		b.WriteString(strconv.FormatInt(m, 10))
		b.WriteByte('M')
	}
	if s := seconds % 60; s > 0 {
		b.WriteString(strconv.FormatInt(s, 10))
		b.WriteByte('S')
	}
	return b.String()
}
