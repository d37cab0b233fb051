package harness

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/roach88/timetrack/internal/register"
)

// Scenario describes a sequence of check operations and the expected
// final register.
type Scenario struct {
	// Name uniquely identifies this scenario; it names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Start is the initial clock time, RFC 3339.
	Start string `yaml:"start"`

	// Locale decides the first day of the week. Default: en-US.
	Locale string `yaml:"locale,omitempty"`

	// Steps are executed in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final register.
	Assertions []Assertion `yaml:"assertions"`
}

// Step check kinds.
const (
	CheckAuto   = "auto"
	CheckManual = "manual"
)

// Step is one check operation.
type Step struct {
	// Advance moves the clock forward before the operation (Go duration).
	Advance string `yaml:"advance,omitempty"`

	// Check is "auto" or "manual".
	Check string `yaml:"check"`

	// At is the moment of a manual operation, RFC 3339.
	At string `yaml:"at,omitempty"`

	// Op is the operation of a manual step.
	Op string `yaml:"op,omitempty"`

	// Expect validates the step outcome. If nil, any outcome passes.
	Expect *Expect `yaml:"expect,omitempty"`
}

// Expect specifies a step outcome.
type Expect struct {
	// Outcome is "accepted" or "rejected".
	Outcome string `yaml:"outcome"`

	// State is the expected register state after the step (optional).
	State string `yaml:"state,omitempty"`
}

// Assertion validates the final register.
type Assertion struct {
	// Type specifies the assertion type:
	// - "final_state": register state equals State
	// - "operation_count": stored operation count equals Count
	// - "frame_count": FindOperations(Frame) returns Count records
	// - "worked": worked time in Frame equals Duration
	Type string `yaml:"type"`

	State    string `yaml:"state,omitempty"`
	Count    int    `yaml:"count,omitempty"`
	Frame    string `yaml:"frame,omitempty"`
	Duration string `yaml:"duration,omitempty"`
}

// Assertion type constants.
const (
	AssertFinalState     = "final_state"
	AssertOperationCount = "operation_count"
	AssertFrameCount     = "frame_count"
	AssertWorked         = "worked"
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

// ParseScenario parses and validates scenario YAML.
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

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, err := time.Parse(time.RFC3339, s.Start); err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}
	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}
	return nil
}

func validateStep(index int, s *Step) error {
	if s.Advance != "" {
		d, err := time.ParseDuration(s.Advance)
		if err != nil {
			return fmt.Errorf("steps[%d]: advance: %w", index, err)
		}
		if d < 0 {
			return fmt.Errorf("steps[%d]: advance must be non-negative", index)
		}
	}

	switch s.Check {
	case CheckAuto:
		if s.At != "" || s.Op != "" {
			return fmt.Errorf("steps[%d]: at and op are only valid for manual checks", index)
		}
	case CheckManual:
		if _, err := time.Parse(time.RFC3339, s.At); err != nil {
			return fmt.Errorf("steps[%d]: at: %w", index, err)
		}
		if _, err := register.ParseCheckOperation(s.Op); err != nil {
			return fmt.Errorf("steps[%d]: %w", index, err)
		}
	default:
		return fmt.Errorf("steps[%d]: check must be %q or %q", index, CheckAuto, CheckManual)
	}

	if s.Expect != nil && s.Expect.Outcome != EventAccepted && s.Expect.Outcome != EventRejected {
		return fmt.Errorf("steps[%d].expect: outcome must be %q or %q", index, EventAccepted, EventRejected)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertFinalState:
		if a.State == "" {
			return fmt.Errorf("assertions[%d]: state is required for final_state", index)
		}
	case AssertOperationCount:
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for operation_count", index)
		}
	case AssertFrameCount:
		if _, err := register.ParseTemporalFrame(a.Frame); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for frame_count", index)
		}
	case AssertWorked:
		if _, err := register.ParseTemporalFrame(a.Frame); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if _, err := time.ParseDuration(a.Duration); err != nil {
			return fmt.Errorf("assertions[%d]: duration: %w", index, err)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
