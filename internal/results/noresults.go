package results

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// AppendNoResults records a name whose search came back empty, one name
// per line. The append is synced before returning.
func AppendNoResults(path, name string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening no-results list: %w", err)
	}
	if _, err := f.WriteString(name + "\n"); err != nil {
		f.Close() // nolint:errcheck
		return fmt.Errorf("appending no-results name: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close() // nolint:errcheck
		return fmt.Errorf("syncing no-results list: %w", err)
	}
	return f.Close()
}

// ReadNoResults loads the no-results list. A missing file is an empty
// list.
func ReadNoResults(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading no-results list: %w", err)
	}
	defer f.Close() // nolint:errcheck

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if name := strings.TrimSpace(scanner.Text()); name != "" {
			names = append(names, name)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning no-results list: %w", err)
	}
	return names, nil
}
