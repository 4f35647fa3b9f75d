// Package ledger tracks which docket names have already been searched.
//
// The pipeline appends a name only after its results are durably written,
// so a rerun resumes exactly where the previous run stopped.
package ledger

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Ledger is the set of processed docket names.
type Ledger interface {
	// Contains reports whether name was already processed.
	Contains(name string) bool
	// Append records name as processed. Appending a name twice is a no-op.
	Append(name string) error
	// Len returns the number of processed names.
	Len() int
}

// File is a Ledger persisted as one name per line. Names are loaded once
// at open; appends go straight to disk and are fsync'd before returning,
// so a crash mid-run never loses a processed mark.
type File struct {
	f     *os.File
	names map[string]struct{}
}

// Open loads the ledger at path, creating the file and its directory when
// absent.
func Open(path string) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	names, err := scanNames(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{f: f, names: names}, nil
}

// Names loads the processed-name set at path without creating anything on
// disk. A missing ledger is empty.
func Names(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]struct{}{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}
	defer f.Close() // nolint:errcheck

	return scanNames(f)
}

func scanNames(f *os.File) (map[string]struct{}, error) {
	names := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names[name] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	return names, nil
}

// Contains reports whether name was already processed.
func (l *File) Contains(name string) bool {
	_, ok := l.names[name]
	return ok
}

// Append records name as processed. Duplicates are absorbed in memory and
// never written twice, even when the same name reappears later in the run.
func (l *File) Append(name string) error {
	if l.Contains(name) {
		return nil
	}
	if _, err := l.f.WriteString(name + "\n"); err != nil {
		return fmt.Errorf("appending to ledger: %w", err)
	}
	if err := l.f.Sync(); err != nil {
		return fmt.Errorf("syncing ledger: %w", err)
	}
	l.names[name] = struct{}{}
	return nil
}

// Len returns the number of processed names.
func (l *File) Len() int {
	return len(l.names)
}

// Close releases the underlying file.
func (l *File) Close() error {
	return l.f.Close()
}
