package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/docket-watch/internal/author"
	"github.com/pfrederiksen/docket-watch/internal/classify"
	"github.com/pfrederiksen/docket-watch/internal/config"
	"github.com/pfrederiksen/docket-watch/internal/docket"
	"github.com/pfrederiksen/docket-watch/internal/filter"
	"github.com/pfrederiksen/docket-watch/internal/ledger"
	"github.com/pfrederiksen/docket-watch/internal/logger"
	"github.com/pfrederiksen/docket-watch/internal/pipeline"
	"github.com/pfrederiksen/docket-watch/internal/retry"
	"github.com/pfrederiksen/docket-watch/internal/search"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search news coverage for every consolidated docket name",
		Long: `Walks the consolidated docket and searches each name against the news
search API, classifying hits with the configured exclusion filters.
Names already in the processed ledger are skipped, so an interrupted
run resumes where it stopped. Use --fresh to discard previous results
and start over.`,
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

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			summary, err := runSearch(ctx, cfg, log)
			if errors.Is(err, context.Canceled) {
				fmt.Println("Interrupted. Recorded names are saved; rerun to resume.")
				return nil
			}
			if err != nil {
				return err
			}
			printSummary(summary)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flagFresh, "fresh", false, "Discard previous results and the ledger before searching")
	return cmd
}

// runSearch assembles the search stage and drives it over the
// consolidated docket.
func runSearch(ctx context.Context, cfg *config.Config, log *logger.Logger) (pipeline.Summary, error) {
	records, err := docket.ReadConsolidated(cfg.ConsolidatedPath())
	if err != nil {
		return pipeline.Summary{}, fmt.Errorf("loading consolidated docket (run consolidate first): %w", err)
	}

	led, err := ledger.Open(cfg.LedgerPath())
	if err != nil {
		return pipeline.Summary{}, err
	}
	defer led.Close() // nolint:errcheck

	log.Info("filters configured",
		"url_patterns", len(cfg.Filters.ExcludedURLPatterns),
		"excluded_authors", len(cfg.Filters.ExcludedAuthors),
		"year_matching", cfg.Filters.YearMatching,
	)

	policy := retry.Default()
	policy.MaxAttempts = cfg.Search.MaxAttempts
	searcher := search.NewClient(search.Config{
		Endpoint:    cfg.Search.Endpoint,
		APIKey:      cfg.Search.APIKey,
		EngineID:    cfg.Search.EngineID,
		ResultCount: cfg.Search.ResultCount,
		Timeout:     cfg.Search.RequestTimeout(),
		Retry:       policy,
	}, log)

	resolver := author.NewResolver(cfg.Search.RequestTimeout(), log)
	rules := filter.NewRules(cfg.Filters.ExcludedAuthors, cfg.Filters.ExcludedURLPatterns, cfg.Filters.YearMatching)
	classifier := classify.New(resolver, rules, log)

	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stdout)
	go pw.Render()
	tracker := &progress.Tracker{Message: "Processing names", Total: int64(len(records))}
	pw.AppendTracker(tracker)
	defer func() {
		tracker.MarkAsDone()
		pw.Stop()
	}()

	driver := pipeline.NewDriver(searcher, classifier, led, pipeline.Options{
		ResultsPath:   cfg.ResultsPath(),
		ExcludedPath:  cfg.ExcludedResultsPath(),
		NoResultsPath: cfg.NoResultsPath(),
		QueryDelay:    cfg.Search.QueryDelay(),
	}, log, func(done, total int, name string) {
		tracker.SetValue(int64(done))
	})

	return driver.Run(ctx, records)
}

func printSummary(s pipeline.Summary) {
	fmt.Printf("Searched %d names: %d valid rows, %d excluded rows, %d without coverage, %d errors\n",
		s.Searched, s.Valid, s.Excluded, s.NoResults, s.Errors)
	if s.Skipped > 0 {
		fmt.Printf("Skipped %d rows already processed\n", s.Skipped)
	}
}

// clearResults implements --fresh: the next run starts with no recorded
// results or processed names.
func clearResults(cfg *config.Config) error {
	paths := []string{
		cfg.ResultsPath(),
		cfg.ExcludedResultsPath(),
		cfg.NoResultsPath(),
		cfg.LedgerPath(),
		cfg.RunLogPath(),
	}
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("clearing %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}
