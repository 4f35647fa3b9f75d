// Package pipeline drives the search stage over the consolidated docket.
//
// Each docket row moves through a fixed lifecycle: pending, searched, then
// recorded (results tables) or recorded-no-results. A name lands in the
// processed ledger exactly once, and only after its rows are durably
// written, so an interrupted run resumes cleanly from the ledger.
package pipeline

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/pfrederiksen/docket-watch/internal/classify"
	"github.com/pfrederiksen/docket-watch/internal/docket"
	"github.com/pfrederiksen/docket-watch/internal/ledger"
	"github.com/pfrederiksen/docket-watch/internal/logger"
	"github.com/pfrederiksen/docket-watch/internal/results"
	"github.com/pfrederiksen/docket-watch/internal/search"
)

// Searcher performs one news search.
type Searcher interface {
	Search(ctx context.Context, query string) (*search.Response, error)
}

// Classifier splits a search response into valid and excluded hits.
type Classifier interface {
	Classify(ctx context.Context, resp *search.Response, caseNumber string) ([]classify.Hit, []classify.ExcludedHit)
}

// Progress receives a completion update after each docket row is resolved.
type Progress func(done, total int, name string)

// Options carries the driver's output paths and pacing.
type Options struct {
	ResultsPath   string
	ExcludedPath  string
	NoResultsPath string
	// QueryDelay is enforced between successive search API calls.
	QueryDelay time.Duration
}

// Summary tallies one driver run.
type Summary struct {
	Rows      int // docket rows walked
	Skipped   int // rows with an empty or already-processed name
	Searched  int // names sent to the search API
	NoResults int // searched names with nothing to record
	Valid     int // rows written to the valid table
	Excluded  int // rows written to the excluded table
	Errors    int // names absorbed after a processing error
}

// Driver walks the consolidated docket and records news coverage for each
// name exactly once.
type Driver struct {
	searcher   Searcher
	classifier Classifier
	ledger     ledger.Ledger
	opts       Options
	log        *logger.Logger
	progress   Progress
}

// NewDriver creates a Driver. progress may be nil.
func NewDriver(searcher Searcher, classifier Classifier, led ledger.Ledger, opts Options, log *logger.Logger, progress Progress) *Driver {
	return &Driver{
		searcher:   searcher,
		classifier: classifier,
		ledger:     led,
		opts:       opts,
		log:        log,
		progress:   progress,
	}
}

// Run processes every docket row whose name is not yet in the ledger. It
// stops early when ctx is cancelled, returning the context error; rows
// recorded before the interrupt stay recorded and a rerun resumes from
// the ledger.
func (d *Driver) Run(ctx context.Context, records []docket.Record) (Summary, error) {
	summary := Summary{Rows: len(records)}

	remaining := 0
	for _, rec := range records {
		if name := strings.TrimSpace(rec.Name); name != "" && !d.ledger.Contains(rec.Name) {
			remaining++
		}
	}
	d.log.Info("starting search stage",
		"rows", len(records),
		"remaining", remaining,
		"processed", d.ledger.Len(),
	)

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			d.log.Warn("search stage interrupted", "row", i, "rows", len(records))
			return summary, err
		}

		searched, err := d.processRow(ctx, rec, &summary)
		if err != nil {
			return summary, err
		}
		if d.progress != nil {
			d.progress(i+1, len(records), rec.Name)
		}
		if searched {
			if err := d.wait(ctx); err != nil {
				d.log.Warn("search stage interrupted", "row", i+1, "rows", len(records))
				return summary, err
			}
		}
	}

	d.log.Info("search stage complete",
		"searched", summary.Searched,
		"no_results", summary.NoResults,
		"valid", summary.Valid,
		"excluded", summary.Excluded,
		"errors", summary.Errors,
	)
	return summary, nil
}

// processRow resolves one docket row. The boolean reports whether the
// search API was called, which is what the inter-query delay paces. A
// returned error is always a context error; everything else is absorbed
// into the summary.
func (d *Driver) processRow(ctx context.Context, rec docket.Record, summary *Summary) (bool, error) {
	name := rec.Name
	if strings.TrimSpace(name) == "" {
		d.log.Warn("skipping row with empty name", "case_number", rec.CaseNumber)
		summary.Skipped++
		return false, nil
	}
	if d.ledger.Contains(name) {
		d.log.Debug("skipping processed name", "name", name)
		summary.Skipped++
		return false, nil
	}

	d.log.Info("searching", "name", name, "case_number", rec.CaseNumber)
	summary.Searched++

	resp, err := d.searcher.Search(ctx, `"`+name+`"`)
	if err != nil {
		if ctx.Err() != nil {
			return true, ctx.Err()
		}
		if errors.Is(err, search.ErrNoResponse) {
			// A query that exhausted its retries is recorded the same
			// way as an empty result.
			return true, d.recordNoResults(name, summary)
		}
		d.log.Error("search failed", "name", name, "error", err)
		summary.Errors++
		return true, nil
	}

	if len(resp.Items) == 0 {
		return true, d.recordNoResults(name, summary)
	}

	valid, excluded := d.classifier.Classify(ctx, resp, rec.CaseNumber)
	if err := ctx.Err(); err != nil {
		return true, err
	}

	if err := results.AppendValid(d.opts.ResultsPath, validRows(rec, valid)); err != nil {
		d.log.Error("saving results", "name", name, "error", err)
		summary.Errors++
		return true, nil
	}
	if err := results.AppendExcluded(d.opts.ExcludedPath, excludedRows(rec, excluded)); err != nil {
		d.log.Error("saving excluded results", "name", name, "error", err)
		summary.Errors++
		return true, nil
	}

	// Results are on disk; now the name may be marked processed.
	if err := d.ledger.Append(name); err != nil {
		d.log.Error("marking name processed", "name", name, "error", err)
		summary.Errors++
		return true, nil
	}

	summary.Valid += len(valid)
	summary.Excluded += len(excluded)
	return true, nil
}

func (d *Driver) recordNoResults(name string, summary *Summary) error {
	d.log.Info("no results", "name", name)
	if err := results.AppendNoResults(d.opts.NoResultsPath, name); err != nil {
		d.log.Error("recording no-results name", "name", name, "error", err)
		summary.Errors++
		return nil
	}
	if err := d.ledger.Append(name); err != nil {
		d.log.Error("marking name processed", "name", name, "error", err)
		summary.Errors++
		return nil
	}
	summary.NoResults++
	return nil
}

func (d *Driver) wait(ctx context.Context) error {
	if d.opts.QueryDelay <= 0 {
		return nil
	}
	t := time.NewTimer(d.opts.QueryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func validRows(rec docket.Record, hits []classify.Hit) []results.Row {
	rows := make([]results.Row, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, results.Row{
			Record:  rec,
			Title:   h.Title,
			Link:    h.Link,
			Year:    h.Year,
			Snippet: h.Snippet,
			Author:  h.Author,
		})
	}
	return rows
}

func excludedRows(rec docket.Record, hits []classify.ExcludedHit) []results.ExcludedRow {
	rows := make([]results.ExcludedRow, 0, len(hits))
	for _, h := range hits {
		rows = append(rows, results.ExcludedRow{
			Row: results.Row{
				Record:  rec,
				Title:   h.Title,
				Link:    h.Link,
				Year:    h.Year,
				Snippet: h.Snippet,
				Author:  h.Author,
			},
			Reason: h.Reason,
		})
	}
	return rows
}
