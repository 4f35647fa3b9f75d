package cli

import (
	"fmt"
	"os"

	"github.com/pfrederiksen/docket-watch/internal/config"
	"github.com/pfrederiksen/docket-watch/internal/logger"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig  string
	flagVerbose bool
	flagFresh   bool
)

// NewRootCmd creates the root command with all stage subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docket-watch",
		Short: "Track news coverage of upcoming court hearings",
		Long: `docket-watch turns court docket exports into a news-annotated hearing
calendar. District CSV exports are consolidated into one docket, each
docket name is searched for news coverage with configurable exclusion
filters, and the matched hearings are published as an iCalendar file.`,
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", "~/docket-watch/config.yaml", "Path to YAML config file")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newConsolidateCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newCalendarCmd())
	cmd.AddCommand(newRunCmd())
	cmd.AddCommand(newStatusCmd())

	return cmd
}

// loadConfig reads the configured YAML file with defaults and environment
// overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	if flagVerbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newLogger builds the console logger, with the JSON run log attached for
// the stages that search.
func newLogger(cfg *config.Config, withRunLog bool) (*logger.Logger, error) {
	logFile := ""
	if withRunLog {
		logFile = cfg.RunLogPath()
	}
	return logger.New(cfg.LogLevel, logFile)
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
