// Package calendar renders the results table as an iCalendar file.
//
// One event is emitted per (Name, Date) group: a defendant with several
// articles on the same hearing date gets a single entry whose description
// lists every link. Regenerating the file replaces it wholesale, and UIDs
// are stable per (name, date), so re-importing updates events instead of
// duplicating them.
package calendar

import (
	"crypto/sha1"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/docket-watch/internal/docket"
	"github.com/pfrederiksen/docket-watch/internal/logger"
	"github.com/pfrederiksen/docket-watch/internal/results"
)

// Event is one calendar entry, aggregated from the results rows sharing a
// (Name, Date) pair. Scalar fields come from the group's first row; Links
// collects every row's article link in table order.
type Event struct {
	Name        string
	Date        string
	Time        string
	CaseNumber  string
	HearingType string
	Title       string
	Location    string
	Links       []string
}

// ID is a stable identifier derived from the grouping key, so a
// regenerated calendar carries the same UIDs.
func (e Event) ID() string {
	h := sha1.New()
	h.Write([]byte(e.Name + "|" + e.Date))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (e Event) summary() string {
	return fmt.Sprintf("%s - %s", e.Name, e.HearingType)
}

func (e Event) description() string {
	return fmt.Sprintf("Case Number: %s\nTitle: %s\nLinks:\n%s",
		e.CaseNumber, e.Title, formatLinks(e.Links))
}

func (e Event) start(loc *time.Location) (time.Time, error) {
	rec := docket.Record{Date: e.Date, Time: e.Time}
	return rec.HearingStart(loc)
}

// formatLinks renders one "<last path segment>: <url>" line per link.
func formatLinks(links []string) string {
	lines := make([]string, 0, len(links))
	for _, url := range links {
		lines = append(lines, url[strings.LastIndex(url, "/")+1:]+": "+url)
	}
	return strings.Join(lines, "\n")
}

// Group collapses results rows into events keyed by (Name, Date), sorted
// by that key.
func Group(rows []results.Row) []Event {
	index := make(map[string]int)
	events := make([]Event, 0)
	for _, row := range rows {
		key := row.Name + "\x00" + row.Date
		if i, ok := index[key]; ok {
			events[i].Links = append(events[i].Links, row.Link)
			continue
		}
		index[key] = len(events)
		events = append(events, Event{
			Name:        row.Name,
			Date:        row.Date,
			Time:        row.Time,
			CaseNumber:  row.CaseNumber,
			HearingType: row.HearingType,
			Title:       row.Title,
			Location:    row.Location,
			Links:       []string{row.Link},
		})
	}
	sort.Slice(events, func(i, j int) bool {
		if events[i].Name != events[j].Name {
			return events[i].Name < events[j].Name
		}
		return events[i].Date < events[j].Date
	})
	return events
}

// Builder renders hearing events in a configured timezone and duration.
type Builder struct {
	loc      *time.Location
	duration time.Duration
	log      *logger.Logger
}

// NewBuilder creates a Builder. timezone must be an IANA zone name.
func NewBuilder(timezone string, duration time.Duration, log *logger.Logger) (*Builder, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("loading calendar timezone: %w", err)
	}
	return &Builder{loc: loc, duration: duration, log: log}, nil
}

// Render generates the VCALENDAR document for events. Events whose
// hearing start cannot be parsed are logged and skipped.
func (b *Builder) Render(events []Event) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Docket Watch//docket-watch//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatICSTime(time.Now().UTC())
	for _, evt := range events {
		start, err := evt.start(b.loc)
		if err != nil {
			b.log.Warn("skipping unparseable hearing time",
				"name", evt.Name,
				"date", evt.Date,
				"time", evt.Time,
				"error", err,
			)
			continue
		}
		b.writeEvent(&ics, evt, start, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

func (b *Builder) writeEvent(ics *strings.Builder, evt Event, start time.Time, stamp string) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	fmt.Fprintf(ics, "UID:%s@docket-watch\r\n", evt.ID())
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", stamp)
	fmt.Fprintf(ics, "DTSTART:%s\r\n", formatICSTime(start))
	fmt.Fprintf(ics, "DTEND:%s\r\n", formatICSTime(start.Add(b.duration)))
	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS(evt.summary()))
	fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(evt.description()))
	if evt.Location != "" {
		fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(evt.Location))
	}
	fmt.Fprintf(ics, "CATEGORIES:%s\r\n", escapeICS(evt.HearingType))
	fmt.Fprintf(ics, "COLOR:%s\r\n", hearingColor(evt.HearingType))
	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:OPAQUE\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// hearingColor maps hearing types to the CSS color names of RFC 7986's
// COLOR property.
func hearingColor(hearingType string) string {
	switch hearingType {
	case "Motions Hearing":
		return "blue"
	case "First Appearance":
		return "green"
	case "Competency to Proceed Hearing":
		return "purple"
	case "Plea Hearing":
		return "red"
	case "Preliminary Hearing":
		return "yellow"
	case "Status Conference":
		return "black"
	}
	return "red"
}

// formatICSTime formats a time.Time as an iCalendar datetime string.
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters according to RFC 5545.
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
