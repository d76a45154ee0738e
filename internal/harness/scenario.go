package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/TraperRoku/skrypt-ocsInventory/internal/inventory"
	"github.com/TraperRoku/skrypt-ocsInventory/internal/source"
)

// Scenario defines a reconciliation scenario: a starting baseline, the
// snapshot every run reads, and assertions over the outcome.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Baseline seeds the store before the first run. Empty means the
	// first run bootstraps.
	Baseline []BaselineRow `yaml:"baseline,omitempty"`

	// Snapshot is served unchanged to every run.
	Snapshot source.SnapshotFile `yaml:"snapshot"`

	// Runs is how many consecutive runs to execute. Defaults to 1.
	Runs int `yaml:"runs,omitempty"`

	// Fail injects a collaborator failure into every run.
	// One of: source, read, insert, delete, send.
	Fail string `yaml:"fail,omitempty"`

	// Date dates report subjects (YYYY-MM-DD). Defaults to DefaultDate.
	Date string `yaml:"date,omitempty"`

	// Assertions validate the outcome.
	Assertions []Assertion `yaml:"assertions"`
}

// BaselineRow is one seeded history entry.
type BaselineRow struct {
	Title inventory.Title `yaml:"title" json:"title"`
	Host  string          `yaml:"host,omitempty" json:"first_seen_host"`
}

// Assertion validates one aspect of the outcome.
type Assertion struct {
	// Type specifies the assertion type:
	// - "new_titles": exact set of new titles found by the run
	// - "removed_titles": exact set of removed titles found by the run
	// - "attributed": host credited with Title by the run
	// - "baseline": exact set of titles in the store after the last run
	// - "baseline_host": first-seen host stored for Title after the last run
	// - "mail_count": number of reports delivered across all runs
	// - "error": error code the run failed with
	Type string `yaml:"type"`

	// Run selects the run (1-based) for per-run assertions. 0 means the last.
	Run int `yaml:"run,omitempty"`

	Titles []inventory.Title `yaml:"titles,omitempty"`
	Title  inventory.Title   `yaml:"title,omitempty"`
	Host   string            `yaml:"host,omitempty"`
	HostID string            `yaml:"host_id,omitempty"`
	Count  int               `yaml:"count,omitempty"`
	Code   string            `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertNewTitles     = "new_titles"
	AssertRemovedTitles = "removed_titles"
	AssertAttributed    = "attributed"
	AssertBaseline      = "baseline"
	AssertBaselineHost  = "baseline_host"
	AssertMailCount     = "mail_count"
	AssertError         = "error"
)

// Injected failure points.
const (
	FailSource = "source"
	FailRead   = "read"
	FailInsert = "insert"
	FailDelete = "delete"
	FailSend   = "send"
)

// DefaultDate is used when a scenario sets no date.
const DefaultDate = "2025-06-02"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML with strict field validation.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// runDate parses the scenario date.
func (s *Scenario) runDate() time.Time {
	d := s.Date
	if d == "" {
		d = DefaultDate
	}
	t, _ := time.Parse("2006-01-02", d) // validated on load
	return t
}

// runCount returns how many runs to execute.
func (s *Scenario) runCount() int {
	if s.Runs <= 0 {
		return 1
	}
	return s.Runs
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	if s.Runs < 0 {
		return fmt.Errorf("runs must be non-negative")
	}
	if s.Date != "" {
		if _, err := time.Parse("2006-01-02", s.Date); err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}
	}

	switch s.Fail {
	case "", FailSource, FailRead, FailInsert, FailDelete, FailSend:
	default:
		return fmt.Errorf("unknown failure point %q", s.Fail)
	}

	for i, row := range s.Baseline {
		if row.Title == "" {
			return fmt.Errorf("baseline[%d]: title is required", i)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a, s.runCount()); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, runs int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Run < 0 || a.Run > runs {
		return fmt.Errorf("assertions[%d]: run %d out of range 1..%d", index, a.Run, runs)
	}

	switch a.Type {
	case AssertNewTitles, AssertRemovedTitles, AssertBaseline, AssertMailCount:
	case AssertAttributed, AssertBaselineHost:
		if a.Title == "" {
			return fmt.Errorf("assertions[%d]: title is required for %s", index, a.Type)
		}
		if a.Host == "" {
			return fmt.Errorf("assertions[%d]: host is required for %s", index, a.Type)
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
