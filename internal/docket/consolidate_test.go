package docket

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestConsolidate_MergesCaseNumbers(t *testing.T) {
	c := NewConsolidator(nil)

	records := []Record{
		{Date: "2026-03-14", Time: "9:00 AM", Name: "John Smith", CaseNumber: "A", HearingType: "Plea Hearing", Location: "Courtroom 1", SourceFile: "4th_district.csv"},
		{Date: "2026-03-14", Time: "9:00 AM", Name: "John Smith", CaseNumber: "B", HearingType: "Plea Hearing", Location: "Courtroom 1", SourceFile: "10th_district.csv"},
	}

	merged, excluded := c.Consolidate(records)

	if len(excluded) != 0 {
		t.Fatalf("got %d excluded records, want 0", len(excluded))
	}
	if len(merged) != 1 {
		t.Fatalf("got %d merged records, want 1", len(merged))
	}
	if merged[0].CaseNumber != "A, B" {
		t.Errorf("CaseNumber = %q, want %q", merged[0].CaseNumber, "A, B")
	}
	if merged[0].SourceFile != "" {
		t.Errorf("SourceFile = %q, want empty in merged output", merged[0].SourceFile)
	}
}

func TestConsolidate_CaseNumberJoining(t *testing.T) {
	tests := []struct {
		name        string
		caseNumbers []string
		want        string
	}{
		{"trims whitespace", []string{" A ", "B"}, "A, B"},
		{"skips empty", []string{"", "A"}, "A"},
		{"skips empty in middle", []string{"A", "", "B"}, "A, B"},
		{"keeps duplicates", []string{"A", "A"}, "A, A"},
		{"all empty", []string{"", ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewConsolidator(nil)

			var records []Record
			for _, cn := range tt.caseNumbers {
				records = append(records, Record{
					Date: "2026-03-14", Time: "9:00 AM", Name: "John Smith",
					CaseNumber: cn, HearingType: "Plea Hearing", Location: "Courtroom 1",
				})
			}

			merged, _ := c.Consolidate(records)
			if len(merged) != 1 {
				t.Fatalf("got %d merged records, want 1", len(merged))
			}
			if merged[0].CaseNumber != tt.want {
				t.Errorf("CaseNumber = %q, want %q", merged[0].CaseNumber, tt.want)
			}
		})
	}
}

func TestConsolidate_ExcludesHearingTypes(t *testing.T) {
	c := NewConsolidator([]string{"Status Conference"})

	records := []Record{
		{Date: "2026-03-14", Time: "9:00 AM", Name: "John Smith", CaseNumber: "23-CR-1", HearingType: "Status Conference", Location: "Courtroom 1"},
		{Date: "2026-03-15", Time: "9:00 AM", Name: "Jane Doe", CaseNumber: "23-CR-2", HearingType: "Status Conference", Location: "Courtroom 2"},
		{Date: "2026-03-14", Time: "1:30 PM", Name: "Alan Reed", CaseNumber: "23-CR-3", HearingType: "Plea Hearing", Location: "Courtroom 1"},
	}

	merged, excluded := c.Consolidate(records)

	if len(excluded) != 2 {
		t.Fatalf("got %d excluded records, want 2 (one per source row)", len(excluded))
	}
	for _, r := range merged {
		if r.HearingType == "Status Conference" {
			t.Errorf("excluded hearing type %q appeared in merged output", r.HearingType)
		}
	}
	if len(merged) != 1 || merged[0].Name != "Alan Reed" {
		t.Errorf("merged = %+v, want only Alan Reed's hearing", merged)
	}
}

func TestConsolidate_SortsByKey(t *testing.T) {
	c := NewConsolidator(nil)

	records := []Record{
		{Date: "2026-03-15", Time: "9:00 AM", Name: "Jane Doe", CaseNumber: "2", HearingType: "Plea Hearing", Location: "Courtroom 2"},
		{Date: "2026-03-14", Time: "1:30 PM", Name: "Alan Reed", CaseNumber: "3", HearingType: "Plea Hearing", Location: "Courtroom 1"},
		{Date: "2026-03-14", Time: "1:30 PM", Name: "Alan Reed", CaseNumber: "4", HearingType: "Motions Hearing", Location: "Courtroom 1"},
	}

	merged, _ := c.Consolidate(records)

	wantNames := []string{"Alan Reed", "Alan Reed", "Jane Doe"}
	for i, r := range merged {
		if r.Name != wantNames[i] {
			t.Fatalf("position %d = %q, want %q", i, r.Name, wantNames[i])
		}
	}
	// Same date, time, name, location: hearing type breaks the tie.
	if merged[0].HearingType != "Motions Hearing" {
		t.Errorf("first hearing type = %q, want Motions Hearing", merged[0].HearingType)
	}
}

func TestConsolidate_IdempotentOnOwnOutput(t *testing.T) {
	c := NewConsolidator([]string{"Status Conference"})

	records := []Record{
		{Date: "2026-03-14", Time: "9:00 AM", Name: "John Smith", CaseNumber: "A", HearingType: "Plea Hearing", Location: "Courtroom 1", SourceFile: "4th_district.csv"},
		{Date: "2026-03-14", Time: "9:00 AM", Name: "John Smith", CaseNumber: "B", HearingType: "Plea Hearing", Location: "Courtroom 1", SourceFile: "10th_district.csv"},
		{Date: "2026-03-15", Time: "1:30 PM", Name: "Jane Doe", CaseNumber: "C", HearingType: "Motions Hearing", Location: "Courtroom 2", SourceFile: "4th_district.csv"},
		{Date: "2026-03-16", Time: "8:15 AM", Name: "Alan Reed", CaseNumber: "D", HearingType: "Status Conference", Location: "Courtroom 3", SourceFile: "11th_district.csv"},
	}

	first, _ := c.Consolidate(records)
	second, excluded := c.Consolidate(first)

	if len(excluded) != 0 {
		t.Errorf("reconsolidation excluded %d records, want 0", len(excluded))
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reconsolidation changed the table:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestWriteExclusionLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclusion_log.txt")

	excluded := []Record{
		{Name: "John Smith", CaseNumber: "23-CR-1", HearingType: "Status Conference"},
		{Name: "Jane Doe", CaseNumber: "23-CR-2", HearingType: "Setting"},
	}

	if err := WriteExclusionLog(path, excluded); err != nil {
		t.Fatalf("WriteExclusionLog() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)

	if !strings.HasPrefix(got, "Excluded Names and Reasons:\n"+strings.Repeat("=", 50)+"\n") {
		t.Errorf("log missing header:\n%s", got)
	}
	wantLine := "Name: John Smith, Case Number: 23-CR-1, Hearing Type: Status Conference (Excluded)\n"
	if !strings.Contains(got, wantLine) {
		t.Errorf("log missing line %q:\n%s", wantLine, got)
	}
	if strings.Count(got, "\n") != 4 {
		t.Errorf("log has %d lines, want 4 (header, divider, two entries)", strings.Count(got, "\n"))
	}
}

func TestWriteExclusionLog_NothingExcluded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclusion_log.txt")

	if err := WriteExclusionLog(path, nil); err != nil {
		t.Fatalf("WriteExclusionLog() error = %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("log file should not be created when nothing was excluded")
	}
}
