package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is one validation run with its expected outcome.
type Scenario struct {
	// Name identifies the scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what the scenario validates.
	Description string `yaml:"description"`

	// Template is the naming template as CSV text. Empty skips naming.
	Template string `yaml:"template,omitempty"`

	// NamingFiles are the archive paths to classify.
	NamingFiles []string `yaml:"naming_files,omitempty"`

	// Register is the deliverables register as CSV text. Empty skips reconciliation.
	Register string `yaml:"register,omitempty"`

	// DeliverableFiles are the archive paths to reconcile.
	DeliverableFiles []string `yaml:"deliverable_files,omitempty"`

	// IdentifierColumn forces the register's identifier column.
	IdentifierColumn string `yaml:"identifier_column,omitempty"`

	// Confirm accepts fuzzy candidates in order.
	Confirm []Confirmation `yaml:"confirm,omitempty"`

	// FuzzyThreshold overrides the default candidate threshold when positive.
	FuzzyThreshold float64 `yaml:"fuzzy_threshold,omitempty"`

	// StrictCodes rejects fixed-code values missing from the template.
	StrictCodes bool `yaml:"strict_codes,omitempty"`

	// Expect is checked against the run outcome.
	Expect Expectation `yaml:"expect"`
}

// Confirmation accepts one fuzzy candidate.
type Confirmation struct {
	Identifier string `yaml:"identifier"`
	Path       string `yaml:"path"`
}

// Expectation describes the expected outcome. Nil fields are not checked.
type Expectation struct {
	// Passed is the expected overall verdict.
	Passed *bool `yaml:"passed,omitempty"`

	// Error is a substring the joined pipeline error must contain.
	// Empty means both pipelines must succeed.
	Error string `yaml:"error,omitempty"`

	Naming       *NamingExpectation       `yaml:"naming,omitempty"`
	Deliverables *DeliverablesExpectation `yaml:"deliverables,omitempty"`
}

// NamingExpectation checks naming classification.
type NamingExpectation struct {
	Compliant    *int `yaml:"compliant,omitempty"`
	NonCompliant *int `yaml:"non_compliant,omitempty"`

	// Files lists expected per-file reasons. An empty reason means compliant.
	Files []FileExpectation `yaml:"files,omitempty"`
}

// FileExpectation is the expected classification of one path.
type FileExpectation struct {
	Path   string `yaml:"path"`
	Reason string `yaml:"reason,omitempty"`
}

// DeliverablesExpectation checks reconciliation. Lists compare exactly and
// in order.
type DeliverablesExpectation struct {
	Delivered  []string               `yaml:"delivered,omitempty"`
	Missing    []string               `yaml:"missing,omitempty"`
	Extra      []string               `yaml:"extra,omitempty"`
	Candidates []CandidateExpectation `yaml:"candidates,omitempty"`
}

// CandidateExpectation is one expected fuzzy candidate.
type CandidateExpectation struct {
	Identifier string  `yaml:"identifier"`
	Path       string  `yaml:"path"`
	MinScore   float64 `yaml:"min_score,omitempty"`
	Basis      string  `yaml:"basis,omitempty"`
}

// LoadScenario reads and parses a scenario YAML file.
// Unknown fields are rejected so typos in expectations do not pass silently.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Template == "" && s.Register == "" {
		return fmt.Errorf("template or register is required")
	}

	if s.Template == "" && len(s.NamingFiles) > 0 {
		return fmt.Errorf("naming_files given without a template")
	}

	if s.Register == "" && (len(s.DeliverableFiles) > 0 || len(s.Confirm) > 0) {
		return fmt.Errorf("deliverable_files or confirm given without a register")
	}

	if s.FuzzyThreshold < 0 || s.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy_threshold must be in (0, 1], got %v", s.FuzzyThreshold)
	}

	for i, c := range s.Confirm {
		if c.Identifier == "" || c.Path == "" {
			return fmt.Errorf("confirm[%d]: identifier and path are required", i)
		}
	}
	return nil
}
