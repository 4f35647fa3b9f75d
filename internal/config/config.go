// Package config loads docket-watch configuration from a YAML file,
// applying defaults in code and environment overrides for credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	apiKeyEnv   = "DOCKET_WATCH_API_KEY"
	engineIDEnv = "DOCKET_WATCH_ENGINE_ID"
)

// Output file names, fixed relative to the configured directories.
const (
	consolidatedFile    = "docket_consolidated.csv"
	exclusionLogFile    = "exclusion_log.txt"
	resultsFile         = "search_results.csv"
	excludedResultsFile = "excluded_results.csv"
	noResultsFile       = "no_results.txt"
	ledgerFile          = "processed_names.txt"
	runLogFile          = "search_log.jsonl"
	calendarFile        = "hearings.ics"
)

// Config holds all settings for the docket-watch pipeline.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Dockets  DocketsConfig  `yaml:"dockets"`
	Results  ResultsConfig  `yaml:"results"`
	Search   SearchConfig   `yaml:"search"`
	Filters  FilterConfig   `yaml:"filters"`
	Calendar CalendarConfig `yaml:"calendar"`
}

// DocketsConfig describes the raw docket inputs and consolidation rules.
type DocketsConfig struct {
	Dir                  string   `yaml:"dir"`
	DistrictFiles        []string `yaml:"district_files"`
	ExcludedHearingTypes []string `yaml:"excluded_hearing_types"`
}

// ResultsConfig describes where the search stage writes its outputs.
type ResultsConfig struct {
	Dir string `yaml:"dir"`
}

// SearchConfig describes the external search API and its rate limits.
type SearchConfig struct {
	Endpoint              string `yaml:"endpoint"`
	APIKey                string `yaml:"api_key"`
	EngineID              string `yaml:"engine_id"`
	ResultCount           int    `yaml:"result_count"`
	MaxAttempts           int    `yaml:"max_attempts"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	QueryDelaySeconds     int    `yaml:"query_delay_seconds"`
}

// RequestTimeout returns the per-request timeout as a duration.
func (s SearchConfig) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSeconds) * time.Second
}

// QueryDelay returns the pause between successive name searches.
func (s SearchConfig) QueryDelay() time.Duration {
	return time.Duration(s.QueryDelaySeconds) * time.Second
}

// FilterConfig describes the search-result exclusion rules.
type FilterConfig struct {
	ExcludedAuthors     []string `yaml:"excluded_authors"`
	ExcludedURLPatterns []string `yaml:"excluded_url_patterns"`
	YearMatching        bool     `yaml:"year_matching"`
}

// CalendarConfig describes hearing-event rendering.
type CalendarConfig struct {
	Timezone        string `yaml:"timezone"`
	DurationMinutes int    `yaml:"duration_minutes"`
}

// EventDuration returns the calendar event length as a duration.
func (c CalendarConfig) EventDuration() time.Duration {
	return time.Duration(c.DurationMinutes) * time.Minute
}

// Default returns the built-in configuration. Every field has a working
// value except the search credentials, which must come from the config
// file or the environment.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Dockets: DocketsConfig{
			Dir: "~/docket-watch/dockets",
			DistrictFiles: []string{
				"4th_district.csv",
				"10th_district.csv",
				"11th_district.csv",
			},
			ExcludedHearingTypes: []string{
				"Review WAppearance of Parties",
				"Hearing on Bond",
				"HrgRevocation of Probation",
				"Review Hearing",
				"Compliance Hrg DV Relinquish",
				"Appearance on Arrest Warrant",
				"Rttn on Summ for Rev of Prob",
				"Appearance of Counsel",
				"Status Conference",
				"Appearance on Bond",
				"Rtrn Filing of Charges",
				"HrgRevocation of Deferred",
				"Hearing on Petition to Seal",
				"Show Cause Hearing",
				"Setting",
				"Hearing on Probation",
				"PreTrial Readiness Conference",
				"Restitution Hearing",
				"Rtrn on Summ for Rev of Prob",
			},
		},
		Results: ResultsConfig{
			Dir: "~/docket-watch/results",
		},
		Search: SearchConfig{
			Endpoint:              "https://www.googleapis.com/customsearch/v1",
			ResultCount:           10,
			MaxAttempts:           3,
			RequestTimeoutSeconds: 20,
			QueryDelaySeconds:     3,
		},
		Filters: FilterConfig{
			ExcludedAuthors: []string{
				"associated press",
				"cnn newsource",
				"cnn",
				"debra worley",
				"the associated press",
				"gray news",
			},
			ExcludedURLPatterns: []string{
				"entertainment/",
				"sports/",
				"/lifestyle/",
			},
			YearMatching: true,
		},
		Calendar: CalendarConfig{
			Timezone:        "America/Denver",
			DurationMinutes: 60,
		},
	}
}

// Load builds the configuration: defaults first, then the YAML file at path
// (a missing file is fine, the defaults are complete), then environment
// overrides for credentials. A .env file in the working directory is loaded
// before the environment is consulted.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		path, err := expandHome(path)
		if err != nil {
			return nil, err
		}
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Run on defaults when no config file is present.
		case err != nil:
			return nil, fmt.Errorf("reading config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnvOverrides()
	if err := cfg.expandPaths(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// RequireCredentials reports an error when the search API credentials are
// absent. Stages that call the search API treat this as fatal at startup.
func (c *Config) RequireCredentials() error {
	if c.Search.APIKey == "" {
		return fmt.Errorf("search API key missing: set %s or search.api_key", apiKeyEnv)
	}
	if c.Search.EngineID == "" {
		return fmt.Errorf("search engine ID missing: set %s or search.engine_id", engineIDEnv)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.Search.APIKey = v
	}
	if v := os.Getenv(engineIDEnv); v != "" {
		c.Search.EngineID = v
	}
}

func (c *Config) expandPaths() error {
	var err error
	if c.Dockets.Dir, err = expandHome(c.Dockets.Dir); err != nil {
		return err
	}
	if c.Results.Dir, err = expandHome(c.Results.Dir); err != nil {
		return err
	}
	return nil
}

// expandHome expands a leading ~ to the user's home directory.
func expandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// DistrictPaths returns the full paths of the configured raw docket files.
func (c *Config) DistrictPaths() []string {
	paths := make([]string, len(c.Dockets.DistrictFiles))
	for i, f := range c.Dockets.DistrictFiles {
		paths[i] = filepath.Join(c.Dockets.Dir, f)
	}
	return paths
}

// ConsolidatedPath returns the path of the consolidated docket table.
func (c *Config) ConsolidatedPath() string {
	return filepath.Join(c.Dockets.Dir, consolidatedFile)
}

// ExclusionLogPath returns the path of the consolidation exclusion log.
func (c *Config) ExclusionLogPath() string {
	return filepath.Join(c.Dockets.Dir, exclusionLogFile)
}

// ResultsPath returns the path of the valid search results table.
func (c *Config) ResultsPath() string {
	return filepath.Join(c.Results.Dir, resultsFile)
}

// ExcludedResultsPath returns the path of the excluded results table.
func (c *Config) ExcludedResultsPath() string {
	return filepath.Join(c.Results.Dir, excludedResultsFile)
}

// NoResultsPath returns the path of the no-results name list.
func (c *Config) NoResultsPath() string {
	return filepath.Join(c.Results.Dir, noResultsFile)
}

// LedgerPath returns the path of the processed-names ledger.
func (c *Config) LedgerPath() string {
	return filepath.Join(c.Results.Dir, ledgerFile)
}

// RunLogPath returns the path of the JSON run log.
func (c *Config) RunLogPath() string {
	return filepath.Join(c.Results.Dir, runLogFile)
}

// CalendarPath returns the path of the generated ICS calendar.
func (c *Config) CalendarPath() string {
	return filepath.Join(c.Results.Dir, calendarFile)
}
