package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/contactstore/internal/ir"
	"github.com/roach88/contactstore/internal/retention"
	"github.com/roach88/contactstore/internal/store"
)

// Scenario defines one store behavior to check.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Policy overrides the retention windows. Zero fields take the defaults.
	Policy retention.Policy `yaml:"policy,omitempty"`

	// Steps run in order against one store.
	Steps []Step `yaml:"steps"`

	// Assertions validate the trace and final state.
	Assertions []Assertion `yaml:"assertions"`
}

// Step is exactly one of insert, sweep or reset.
type Step struct {
	// Insert appends a batch of records.
	Insert *ir.Batch `yaml:"insert,omitempty"`

	// Sweep removes old data as of the start of this UTC day.
	Sweep *ir.DayDate `yaml:"sweep,omitempty"`

	// Reset drops and recreates every table.
	Reset bool `yaml:"reset,omitempty"`
}

// Assertion validates the trace or final state.
type Assertion struct {
	Type string `yaml:"type"`

	// Kind is the change kind (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Kinds is the expected order of first appearance (trace_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Table narrows trace assertions and names the table for row assertions.
	Table string `yaml:"table,omitempty"`

	// Count is the expected number of events or rows.
	Count int `yaml:"count,omitempty"`

	// Where selects the row for final_state. All fields must match.
	Where map[string]interface{} `yaml:"where,omitempty"`

	// Expect holds expected field values for final_state (subset match).
	Expect map[string]interface{} `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertRowCount      = "row_count"
	AssertFinalState    = "final_state"
)

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

// ParseScenario decodes and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:"
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

// policy returns the scenario's windows with defaults filled in.
func (s *Scenario) policy() retention.Policy {
	p := s.Policy
	if p.DataDays == 0 {
		p.DataDays = retention.DefaultDataDays
	}
	if p.ExposureDays == 0 {
		p.ExposureDays = retention.DefaultExposureDays
	}
	return p
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if err := s.policy().Validate(); err != nil {
		return fmt.Errorf("policy: %w", err)
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		n := 0
		if step.Insert != nil {
			n++
		}
		if step.Sweep != nil {
			n++
		}
		if step.Reset {
			n++
		}
		if n != 1 {
			return fmt.Errorf("steps[%d]: exactly one of insert, sweep or reset is required", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertRowCount, AssertFinalState:
		if !isTable(a.Table) {
			return fmt.Errorf("assertions[%d]: table must be one of %v for %s", index, store.Tables, a.Type)
		}
		if a.Type == AssertRowCount && a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
		if a.Type == AssertFinalState && len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

func isTable(name string) bool {
	for _, t := range store.Tables {
		if t == name {
			return true
		}
	}
	return false
}
