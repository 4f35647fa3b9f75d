package main

import (
	"fmt"
	"os"
	"time"

	"github.com/pfrederiksen/docket-watch/internal/calendar"
	"github.com/pfrederiksen/docket-watch/internal/docket"
	"github.com/pfrederiksen/docket-watch/internal/logger"
	"github.com/pfrederiksen/docket-watch/internal/results"
)

func main() {
	// Two articles covering the same hearing plus a second defendant.
	rows := []results.Row{
		{
			Record: docket.Record{
				Date:        "2026-03-14",
				Time:        "1:30 PM",
				Name:        "John Smith",
				CaseNumber:  "26-CR-1045",
				HearingType: "Plea Hearing",
				Location:    "Courtroom 2B",
			},
			Title:  "Local man faces charges after downtown arrest",
			Link:   "https://example.com/news/2026/downtown-arrest",
			Year:   2026,
			Author: "Jane Reporter",
		},
		{
			Record: docket.Record{
				Date:        "2026-03-14",
				Time:        "1:30 PM",
				Name:        "John Smith",
				CaseNumber:  "26-CR-1045",
				HearingType: "Plea Hearing",
				Location:    "Courtroom 2B",
			},
			Title:  "Charges filed in downtown case",
			Link:   "https://example.com/news/2026/charges-filed",
			Year:   2026,
			Author: "Bob Staff",
		},
		{
			Record: docket.Record{
				Date:        "2026-03-16",
				Time:        "9:00 AM",
				Name:        "Jane Doe",
				CaseNumber:  "26-CV-0012",
				HearingType: "Motions Hearing",
				Location:    "Courtroom 4A",
			},
			Title:  "Civil suit heads back to court",
			Link:   "https://example.com/news/2026/civil-suit",
			Year:   2026,
			Author: "Jane Reporter",
		},
	}

	log, err := logger.New("info", "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	builder, err := calendar.NewBuilder("America/Denver", time.Hour, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating builder: %v\n", err)
		os.Exit(1)
	}

	icsContent := builder.Render(calendar.Group(rows))

	filename := "test-hearings.ics"
	if err := os.WriteFile(filename, []byte(icsContent), 0600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing file: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Generated calendar file: %s\n\n", filename)
	fmt.Println("Test it by:")
	fmt.Println("1. Open the .ics file with your calendar app (double-click)")
	fmt.Println("2. Or import it into Google Calendar, Apple Calendar, or Outlook")
	fmt.Println("\nFile contents preview:")
	fmt.Println("---")
	fmt.Println(icsContent)
}
