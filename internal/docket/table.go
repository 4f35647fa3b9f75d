package docket

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Column names shared by every docket table.
const (
	colDate        = "Date"
	colTime        = "Time"
	colName        = "Name"
	colCaseNumber  = "Case Number"
	colHearingType = "Hearing Type"
	colLocation    = "Location"
)

// requiredColumns is also the column order of the consolidated table.
var requiredColumns = []string{colDate, colTime, colName, colCaseNumber, colHearingType, colLocation}

// ErrMissingColumn reports a docket table lacking a required column.
var ErrMissingColumn = errors.New("missing required column")

// ReadDistrictFile parses one raw district export. Extra columns are
// tolerated; a missing required column is an error. Each returned record
// carries the export's file name as its source.
func ReadDistrictFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading district file: %w", err)
	}
	defer f.Close() // nolint:errcheck

	records, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}

	source := filepath.Base(path)
	for i := range records {
		records[i].SourceFile = source
	}
	return records, nil
}

// ReadConsolidated parses the consolidated docket table.
func ReadConsolidated(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading consolidated table: %w", err)
	}
	defer f.Close() // nolint:errcheck

	records, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return records, nil
}

// WriteConsolidated writes records as the consolidated table with the fixed
// column order Date, Time, Name, Case Number, Hearing Type, Location.
func WriteConsolidated(path string, records []Record) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating consolidated table: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(requiredColumns); err != nil {
		f.Close() // nolint:errcheck
		return fmt.Errorf("writing header: %w", err)
	}
	for _, r := range records {
		row := []string{r.Date, r.Time, r.Name, r.CaseNumber, r.HearingType, r.Location}
		if err := w.Write(row); err != nil {
			f.Close() // nolint:errcheck
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close() // nolint:errcheck
		return fmt.Errorf("flushing consolidated table: %w", err)
	}
	return f.Close()
}

func readTable(r io.Reader) ([]Record, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("empty table")
	}

	idx, err := columnIndex(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		records = append(records, Record{
			Date:        row[idx[colDate]],
			Time:        row[idx[colTime]],
			Name:        row[idx[colName]],
			CaseNumber:  row[idx[colCaseNumber]],
			HearingType: row[idx[colHearingType]],
			Location:    row[idx[colLocation]],
		})
	}
	return records, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			// Browser CSV exports often lead with a UTF-8 BOM.
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		idx[name] = i
	}
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	return idx, nil
}
