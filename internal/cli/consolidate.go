package cli

import (
	"fmt"
	"path/filepath"

	"github.com/pfrederiksen/docket-watch/internal/config"
	"github.com/pfrederiksen/docket-watch/internal/docket"
	"github.com/pfrederiksen/docket-watch/internal/logger"
	"github.com/spf13/cobra"
)

func newConsolidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "consolidate",
		Short: "Merge district docket exports into one table",
		Long: `Reads the configured district CSV exports, drops hearings whose type is
on the exclusion list, merges duplicate hearings into single rows, and
writes the consolidated table next to the inputs. Excluded rows are
recorded in exclusion_log.txt.`,
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

			return runConsolidate(cfg, log)
		},
	}
}

// runConsolidate reads every district export, consolidates, and writes the
// merged table and exclusion log. A missing or malformed export is fatal;
// nothing is written in that case.
func runConsolidate(cfg *config.Config, log *logger.Logger) error {
	var all []docket.Record
	for _, path := range cfg.DistrictPaths() {
		records, err := docket.ReadDistrictFile(path)
		if err != nil {
			return err
		}
		log.Info("loaded district file", "file", filepath.Base(path), "rows", len(records))
		all = append(all, records...)
	}

	merged, excluded := docket.NewConsolidator(cfg.Dockets.ExcludedHearingTypes).Consolidate(all)

	if err := docket.WriteConsolidated(cfg.ConsolidatedPath(), merged); err != nil {
		return err
	}
	if err := docket.WriteExclusionLog(cfg.ExclusionLogPath(), excluded); err != nil {
		return err
	}

	log.Info("consolidated dockets",
		"source_rows", len(all),
		"hearings", len(merged),
		"excluded", len(excluded),
	)
	fmt.Printf("Consolidated %d source rows into %d hearings (%d excluded)\n", len(all), len(merged), len(excluded))
	fmt.Printf("Wrote %s\n", cfg.ConsolidatedPath())
	return nil
}
