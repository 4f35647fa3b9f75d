package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/docket-watch/internal/docket"
	"github.com/pfrederiksen/docket-watch/internal/logger"
	"github.com/pfrederiksen/docket-watch/internal/results"
)

func resultRow(name, date, hearingTime, title, link string) results.Row {
	return results.Row{
		Record: docket.Record{
			Date:        date,
			Time:        hearingTime,
			Name:        name,
			CaseNumber:  "23-CR-1045",
			HearingType: "Arraignment",
			Location:    "Courtroom 2B",
		},
		Title:   title,
		Link:    link,
		Year:    2023,
		Snippet: "...",
		Author:  "Jane Reporter",
	}
}

func TestGroup_AggregatesByNameAndDate(t *testing.T) {
	rows := []results.Row{
		resultRow("John Smith", "2023-06-15", "1:30 PM", "First story", "https://example.com/news/2023/first"),
		resultRow("John Smith", "2023-06-15", "3:00 PM", "Second story", "https://example.com/news/2023/second"),
		resultRow("John Smith", "2023-06-20", "9:00 AM", "Later hearing", "https://example.com/news/2023/later"),
		resultRow("Jane Doe", "2023-06-15", "1:30 PM", "Jane story", "https://example.com/news/2023/jane"),
	}

	events := Group(rows)
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}

	// Sorted by name, then date.
	if events[0].Name != "Jane Doe" {
		t.Errorf("events[0].Name = %q, want Jane Doe", events[0].Name)
	}
	if events[1].Date != "2023-06-15" || events[2].Date != "2023-06-20" {
		t.Errorf("John Smith events out of date order: %q, %q", events[1].Date, events[2].Date)
	}

	merged := events[1]
	if merged.Title != "First story" || merged.Time != "1:30 PM" {
		t.Errorf("group did not keep first row's fields: %+v", merged)
	}
	wantLinks := []string{
		"https://example.com/news/2023/first",
		"https://example.com/news/2023/second",
	}
	if len(merged.Links) != 2 || merged.Links[0] != wantLinks[0] || merged.Links[1] != wantLinks[1] {
		t.Errorf("Links = %v, want %v", merged.Links, wantLinks)
	}
}

func TestEventID_StablePerNameAndDate(t *testing.T) {
	a := Event{Name: "John Smith", Date: "2023-06-15"}
	b := Event{Name: "John Smith", Date: "2023-06-15", Title: "different title"}
	c := Event{Name: "John Smith", Date: "2023-06-20"}

	if a.ID() != b.ID() {
		t.Error("ID changed although name and date did not")
	}
	if a.ID() == c.ID() {
		t.Error("ID identical for different dates")
	}
}

func TestFormatLinks(t *testing.T) {
	got := formatLinks([]string{
		"https://example.com/news/2023/story.html",
		"https://example.com/news/2023/arrest",
	})
	want := "story.html: https://example.com/news/2023/story.html\narrest: https://example.com/news/2023/arrest"
	if got != want {
		t.Errorf("formatLinks() = %q, want %q", got, want)
	}
}

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	b, err := NewBuilder("America/Denver", time.Hour, logger.Nop())
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	return b
}

func TestRender_Event(t *testing.T) {
	rows := []results.Row{
		resultRow("John Smith", "2023-06-15", "1:30 PM", "Arrest story", "https://example.com/news/2023/arrest"),
	}
	doc := newTestBuilder(t).Render(Group(rows))

	if !strings.HasPrefix(doc, "BEGIN:VCALENDAR\r\n") || !strings.HasSuffix(doc, "END:VCALENDAR\r\n") {
		t.Error("document not wrapped in VCALENDAR")
	}

	// 1:30 PM Mountain Daylight Time is 19:30 UTC.
	for _, line := range []string{
		"SUMMARY:John Smith - Arraignment\r\n",
		"DTSTART:20230615T193000Z\r\n",
		"DTEND:20230615T203000Z\r\n",
		"DESCRIPTION:Case Number: 23-CR-1045\\nTitle: Arrest story\\nLinks:\\narrest: https://example.com/news/2023/arrest\r\n",
		"LOCATION:Courtroom 2B\r\n",
		"CATEGORIES:Arraignment\r\n",
		"UID:" + Event{Name: "John Smith", Date: "2023-06-15"}.ID() + "@docket-watch\r\n",
		"DTSTAMP:",
		"STATUS:CONFIRMED\r\n",
	} {
		if !strings.Contains(doc, line) {
			t.Errorf("document missing %q:\n%s", line, doc)
		}
	}
}

func TestRender_CorruptedNoonTime(t *testing.T) {
	rows := []results.Row{
		resultRow("John Smith", "2023-06-15", "0:30 PM", "Story", "https://example.com/news/2023/a"),
	}
	doc := newTestBuilder(t).Render(Group(rows))

	// 0:30 PM is the export's mangling of 12:30 PM, 18:30 UTC in June.
	if !strings.Contains(doc, "DTSTART:20230615T183000Z\r\n") {
		t.Errorf("document missing corrected noon start:\n%s", doc)
	}
}

func TestRender_SkipsUnparseableStart(t *testing.T) {
	rows := []results.Row{
		resultRow("John Smith", "2023-06-15", "TBD", "Story", "https://example.com/news/2023/a"),
		resultRow("Jane Doe", "2023-06-15", "1:30 PM", "Story", "https://example.com/news/2023/b"),
	}
	doc := newTestBuilder(t).Render(Group(rows))

	if got := strings.Count(doc, "BEGIN:VEVENT"); got != 1 {
		t.Errorf("got %d events, want 1 (unparseable start skipped)", got)
	}
	if strings.Contains(doc, "John Smith") {
		t.Error("skipped event leaked into the document")
	}
}

func TestRender_OmitsEmptyLocation(t *testing.T) {
	row := resultRow("John Smith", "2023-06-15", "1:30 PM", "Story", "https://example.com/news/2023/a")
	row.Location = ""
	doc := newTestBuilder(t).Render(Group([]results.Row{row}))

	if strings.Contains(doc, "LOCATION:") {
		t.Error("empty location rendered")
	}
}

func TestRender_HearingColors(t *testing.T) {
	tests := []struct {
		hearingType string
		want        string
	}{
		{"Motions Hearing", "COLOR:blue"},
		{"First Appearance", "COLOR:green"},
		{"Status Conference", "COLOR:black"},
		{"Arraignment", "COLOR:red"},
	}

	for _, tt := range tests {
		t.Run(tt.hearingType, func(t *testing.T) {
			row := resultRow("John Smith", "2023-06-15", "1:30 PM", "Story", "https://example.com/news/2023/a")
			row.HearingType = tt.hearingType
			doc := newTestBuilder(t).Render(Group([]results.Row{row}))
			if !strings.Contains(doc, tt.want+"\r\n") {
				t.Errorf("document missing %q", tt.want)
			}
		})
	}
}

func TestRender_EscapesSpecialCharacters(t *testing.T) {
	row := resultRow("Smith, John", "2023-06-15", "1:30 PM", "Arrest; charges filed", "https://example.com/news/2023/a")
	doc := newTestBuilder(t).Render(Group([]results.Row{row}))

	if !strings.Contains(doc, `SUMMARY:Smith\, John - Arraignment`) {
		t.Error("comma in summary not escaped")
	}
	if !strings.Contains(doc, `Title: Arrest\; charges filed`) {
		t.Error("semicolon in description not escaped")
	}
}

func TestNewBuilder_RejectsUnknownTimezone(t *testing.T) {
	if _, err := NewBuilder("Mars/Olympus", time.Hour, logger.Nop()); err == nil {
		t.Error("NewBuilder() accepted an unknown timezone")
	}
}
