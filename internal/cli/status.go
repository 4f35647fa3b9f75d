package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/docket-watch/internal/config"
	"github.com/pfrederiksen/docket-watch/internal/docket"
	"github.com/pfrederiksen/docket-watch/internal/ledger"
	"github.com/pfrederiksen/docket-watch/internal/results"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pipeline progress",
		Long: `Reads the consolidated docket, the processed-names ledger, and the
output tables and prints a progress summary. Nothing is modified; files
a stage has not produced yet count as empty.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return runStatus(cfg, os.Stdout)
		},
	}
}

// runStatus renders the progress summary. Every load is read-only and a
// missing file counts as zero rows, so status is safe to run at any point
// between stages.
func runStatus(cfg *config.Config, w io.Writer) error {
	records, err := readConsolidatedIfPresent(cfg.ConsolidatedPath())
	if err != nil {
		return err
	}
	processed, err := ledger.Names(cfg.LedgerPath())
	if err != nil {
		return err
	}
	valid, err := results.ReadValid(cfg.ResultsPath())
	if err != nil {
		return err
	}
	excluded, err := results.ReadExcluded(cfg.ExcludedResultsPath())
	if err != nil {
		return err
	}
	noResults, err := results.ReadNoResults(cfg.NoResultsPath())
	if err != nil {
		return err
	}

	names := make(map[string]struct{})
	pending := 0
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			continue
		}
		if _, seen := names[name]; seen {
			continue
		}
		names[name] = struct{}{}
		if _, done := processed[rec.Name]; !done {
			pending++
		}
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Metric", "Count"})
	t.AppendRows([]table.Row{
		{"Consolidated hearings", len(records)},
		{"Names to search", len(names)},
		{"Names processed", len(processed)},
		{"Names pending", pending},
		{"Valid result rows", len(valid)},
		{"Excluded result rows", len(excluded)},
		{"Names without coverage", len(noResults)},
	})
	t.Render()

	if _, err := os.Stat(cfg.RunLogPath()); err == nil {
		fmt.Fprintf(w, "Run log: %s\n", cfg.RunLogPath())
	}
	return nil
}

// readConsolidatedIfPresent loads the consolidated docket, treating a
// missing table as empty. The consolidate stage may simply not have run
// yet, which is a state status should report, not fail on.
func readConsolidatedIfPresent(path string) ([]docket.Record, error) {
	records, err := docket.ReadConsolidated(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}
