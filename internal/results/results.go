// Package results persists the search stage's output tables.
//
// The valid and excluded tables grow by read-merge-write: new rows join
// whatever is already on disk, duplicates collapse on the (Name, Link)
// key keeping the earliest row, and the table is rewritten and synced.
// Re-recording an already-recorded name is therefore harmless, which is
// what makes an interrupted run safe to rerun.
package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pfrederiksen/docket-watch/internal/docket"
)

// validColumns is the column order of the valid results table: the six
// consolidated docket columns followed by the article columns.
var validColumns = []string{
	"Date", "Time", "Name", "Case Number", "Hearing Type", "Location",
	"Title", "Link", "Year", "Snippet", "Author",
}

// excludedColumns adds the exclusion reason.
var excludedColumns = append(append([]string{}, validColumns...), "Exclusion Reason")

// ErrMissingColumn reports a results table lacking a required column.
var ErrMissingColumn = errors.New("missing required column")

// Row is one article matched to one docket record. A Year of zero means
// the article URL carried no year segment.
type Row struct {
	docket.Record
	Title   string
	Link    string
	Year    int
	Snippet string
	Author  string
}

// ExcludedRow is a Row that tripped an exclusion rule.
type ExcludedRow struct {
	Row
	Reason string
}

func (r Row) fields() []string {
	return []string{
		r.Date, r.Time, r.Name, r.CaseNumber, r.HearingType, r.Location,
		r.Title, r.Link, formatYear(r.Year), r.Snippet, r.Author,
	}
}

func (r ExcludedRow) fields() []string {
	return append(r.Row.fields(), r.Reason)
}

// ReadValid loads the valid results table. A missing or empty file is an
// empty table.
func ReadValid(path string) ([]Row, error) {
	data, idx, err := readTable(path, validColumns)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(data))
	for _, rec := range data {
		rows = append(rows, rowFrom(rec, idx))
	}
	return rows, nil
}

// ReadExcluded loads the excluded results table. A missing or empty file
// is an empty table.
func ReadExcluded(path string) ([]ExcludedRow, error) {
	data, idx, err := readTable(path, excludedColumns)
	if err != nil {
		return nil, err
	}
	rows := make([]ExcludedRow, 0, len(data))
	for _, rec := range data {
		rows = append(rows, ExcludedRow{
			Row:    rowFrom(rec, idx),
			Reason: rec[idx["Exclusion Reason"]],
		})
	}
	return rows, nil
}

// AppendValid merges rows into the valid table at path, keeping the first
// row seen for any (Name, Link) pair. The rewrite is synced to disk
// before returning, so callers may mark the name processed afterwards.
func AppendValid(path string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}
	existing, err := ReadValid(path)
	if err != nil {
		return err
	}

	seen := make(map[dedupKey]struct{}, len(existing)+len(rows))
	merged := make([]Row, 0, len(existing)+len(rows))
	for _, r := range append(existing, rows...) {
		k := dedupKey{name: r.Name, link: r.Link}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, r)
	}

	data := make([][]string, 0, len(merged))
	for _, r := range merged {
		data = append(data, r.fields())
	}
	return writeTable(path, validColumns, data)
}

// AppendExcluded merges rows into the excluded table at path with the
// same (Name, Link) keep-first contract as AppendValid.
func AppendExcluded(path string, rows []ExcludedRow) error {
	if len(rows) == 0 {
		return nil
	}
	existing, err := ReadExcluded(path)
	if err != nil {
		return err
	}

	seen := make(map[dedupKey]struct{}, len(existing)+len(rows))
	merged := make([]ExcludedRow, 0, len(existing)+len(rows))
	for _, r := range append(existing, rows...) {
		k := dedupKey{name: r.Name, link: r.Link}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		merged = append(merged, r)
	}

	data := make([][]string, 0, len(merged))
	for _, r := range merged {
		data = append(data, r.fields())
	}
	return writeTable(path, excludedColumns, data)
}

type dedupKey struct {
	name string
	link string
}

func rowFrom(rec []string, idx map[string]int) Row {
	return Row{
		Record: docket.Record{
			Date:        rec[idx["Date"]],
			Time:        rec[idx["Time"]],
			Name:        rec[idx["Name"]],
			CaseNumber:  rec[idx["Case Number"]],
			HearingType: rec[idx["Hearing Type"]],
			Location:    rec[idx["Location"]],
		},
		Title:   rec[idx["Title"]],
		Link:    rec[idx["Link"]],
		Year:    parseYear(rec[idx["Year"]]),
		Snippet: rec[idx["Snippet"]],
		Author:  rec[idx["Author"]],
	}
}

func readTable(path string, required []string) ([][]string, map[string]int, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("reading results table: %w", err)
	}
	defer f.Close() // nolint:errcheck

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[strings.TrimSpace(name)] = i
	}
	for _, col := range required {
		if _, ok := idx[col]; !ok {
			return nil, nil, fmt.Errorf("%s: %w: %s", filepath.Base(path), ErrMissingColumn, col)
		}
	}
	return rows[1:], idx, nil
}

func writeTable(path string, header []string, data [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results table: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close() // nolint:errcheck
		return fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range data {
		if err := w.Write(rec); err != nil {
			f.Close() // nolint:errcheck
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close() // nolint:errcheck
		return fmt.Errorf("flushing results table: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close() // nolint:errcheck
		return fmt.Errorf("syncing results table: %w", err)
	}
	return f.Close()
}

func parseYear(s string) int {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return year
}

func formatYear(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}
