package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/pfrederiksen/docket-watch/internal/calendar"
	"github.com/pfrederiksen/docket-watch/internal/config"
	"github.com/pfrederiksen/docket-watch/internal/logger"
	"github.com/pfrederiksen/docket-watch/internal/results"
	"github.com/spf13/cobra"
)

func newCalendarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calendar",
		Short: "Publish matched hearings as an iCalendar file",
		Long: `Groups the valid search results by defendant and hearing date and writes
hearings.ics to the results directory, replacing any previous file. Each
event carries the case number, the matched article titles, and one link
per article in its description.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log, err := newLogger(cfg, false)
			if err != nil {
				return err
			}
			defer log.Close()

			return runCalendar(cfg, log)
		},
	}
}

// runCalendar renders the valid results table as hearings.ics. With no
// valid results there is nothing to publish and the previous calendar is
// left alone.
func runCalendar(cfg *config.Config, log *logger.Logger) error {
	rows, err := results.ReadValid(cfg.ResultsPath())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No results to publish.")
		return nil
	}

	builder, err := calendar.NewBuilder(cfg.Calendar.Timezone, cfg.Calendar.EventDuration(), log)
	if err != nil {
		return err
	}

	events := calendar.Group(rows)
	doc := builder.Render(events)
	if err := os.WriteFile(cfg.CalendarPath(), []byte(doc), 0o644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}

	rendered := strings.Count(doc, "BEGIN:VEVENT")
	log.Info("calendar written",
		"events", rendered,
		"groups", len(events),
		"path", cfg.CalendarPath(),
	)
	fmt.Printf("Wrote %d hearing events to %s\n", rendered, cfg.CalendarPath())
	return nil
}
