package docket

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Consolidator merges raw district records into one deduplicated table.
type Consolidator struct {
	excluded map[string]struct{}
}

// NewConsolidator creates a Consolidator that drops the given hearing types.
func NewConsolidator(excludedHearingTypes []string) *Consolidator {
	excluded := make(map[string]struct{}, len(excludedHearingTypes))
	for _, ht := range excludedHearingTypes {
		excluded[ht] = struct{}{}
	}
	return &Consolidator{excluded: excluded}
}

// Consolidate partitions records by hearing type and collapses duplicate
// hearings. Rows whose hearing type is on the exclusion list are returned
// separately, in input order, and never reach the merged table. Surviving
// rows sharing a Key merge into one record whose case number joins every
// non-empty trimmed case number in input order, duplicates kept. The
// merged table comes back sorted by (date, time, name, location, hearing
// type), so consolidating an already-consolidated table is a no-op.
func (c *Consolidator) Consolidate(records []Record) (merged, excluded []Record) {
	byKey := make(map[Key]int)
	for _, r := range records {
		if _, skip := c.excluded[r.HearingType]; skip {
			excluded = append(excluded, r)
			continue
		}

		caseNumber := strings.TrimSpace(r.CaseNumber)
		if i, ok := byKey[r.Key()]; ok {
			if caseNumber == "" {
				continue
			}
			if merged[i].CaseNumber == "" {
				merged[i].CaseNumber = caseNumber
			} else {
				merged[i].CaseNumber += ", " + caseNumber
			}
			continue
		}

		r.CaseNumber = caseNumber
		r.SourceFile = "" // provenance is logged upstream, never emitted
		byKey[r.Key()] = len(merged)
		merged = append(merged, r)
	}

	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Key().less(merged[j].Key())
	})
	return merged, excluded
}

// WriteExclusionLog writes the consolidation exclusion log, one line per
// excluded source row. Nothing is written when no rows were excluded.
func WriteExclusionLog(path string, excluded []Record) error {
	if len(excluded) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("Excluded Names and Reasons:\n")
	b.WriteString(strings.Repeat("=", 50) + "\n")
	for _, r := range excluded {
		fmt.Fprintf(&b, "Name: %s, Case Number: %s, Hearing Type: %s (Excluded)\n",
			r.Name, r.CaseNumber, r.HearingType)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("writing exclusion log: %w", err)
	}
	return nil
}
