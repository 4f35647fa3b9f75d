package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run consolidate, search, and calendar in sequence",
		Long: `Executes the full pipeline in order: consolidate the district exports,
search news coverage for every docket name, and publish the hearing
calendar. The chain stops at the first stage error. The district CSV
exports must already be present in the dockets directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireCredentials(); err != nil {
				return err
			}
			if flagFresh {
				if err := clearResults(cfg); err != nil {
					return err
				}
			}
			log, err := newLogger(cfg, true)
			if err != nil {
				return err
			}
			defer log.Close()

			// One run ID ties the three stages together in the run log.
			log = log.With("run_id", uuid.NewString())

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Info("stage starting", "stage", "consolidate")
			if err := runConsolidate(cfg, log); err != nil {
				return fmt.Errorf("consolidate stage: %w", err)
			}

			log.Info("stage starting", "stage", "search")
			summary, err := runSearch(ctx, cfg, log)
			if errors.Is(err, context.Canceled) {
				fmt.Println("Interrupted. Recorded names are saved; rerun to resume.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("search stage: %w", err)
			}
			printSummary(summary)

			log.Info("stage starting", "stage", "calendar")
			if err := runCalendar(cfg, log); err != nil {
				return fmt.Errorf("calendar stage: %w", err)
			}

			log.Info("all stages complete")
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagFresh, "fresh", false, "Discard previous results and the ledger before searching")
	return cmd
}
