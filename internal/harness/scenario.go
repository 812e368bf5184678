package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one encoding scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Catalogs lists CUE catalog files whose functions are registered on top
	// of the builtins. Paths are relative to the scenario file location.
	Catalogs []string `yaml:"catalogs,omitempty"`

	// Values are built in order; later steps may refer to earlier names.
	Values []ValueStep `yaml:"values"`

	// Result names the value to encode. Defaults to the last value built.
	Result string `yaml:"result,omitempty"`

	// Expect holds the expected encodings of Result.
	Expect *ExpectClause `yaml:"expect,omitempty"`

	// Assertions validate individual values.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// ValueStep builds one named value. Exactly one of Date, List, Call and
// Variable is set.
type ValueStep struct {
	Name string `yaml:"name"`

	Date     *DateStep `yaml:"date,omitempty"`
	List     *ListStep `yaml:"list,omitempty"`
	Call     *CallStep `yaml:"call,omitempty"`
	Variable string    `yaml:"variable,omitempty"`

	// ExpectError makes construction failure the expected outcome. The
	// error message must contain this text.
	ExpectError string `yaml:"expect_error,omitempty"`
}

// DateStep constructs a Date.
type DateStep struct {
	// Value is any constructor input: a number, a string or a "$name".
	Value any `yaml:"value,omitempty"`

	// Time is an RFC 3339 instant, used instead of Value.
	Time string `yaml:"time,omitempty"`

	// TZ is the optional time zone; any YAML value is passed through.
	TZ any `yaml:"tz,omitempty"`
}

// ListStep constructs a List.
type ListStep struct {
	// Items builds a literal list.
	Items []any `yaml:"items,omitempty"`

	// From wraps an existing value ("$name").
	From any `yaml:"from,omitempty"`
}

// CallStep calls a method on an earlier Date or List value.
type CallStep struct {
	Receiver string `yaml:"receiver"`
	Method   string `yaml:"method"`
	Args     []any  `yaml:"args,omitempty"`

	// Cast is "date", "list" or empty for the bare node.
	Cast string `yaml:"cast,omitempty"`
}

// ExpectClause holds expected canonical encodings. Both are compared after
// canonicalization, so YAML key order does not matter.
type ExpectClause struct {
	Legacy any `yaml:"legacy,omitempty"`
	Cloud  any `yaml:"cloud,omitempty"`
}

// Assertion validates one built value.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Value names the value under test.
	Value string `yaml:"value"`

	// Function is the expected function name (function).
	Function string `yaml:"function,omitempty"`

	// Args are the expected invocation arguments, subset match (args).
	Args map[string]any `yaml:"args,omitempty"`

	// Literal is the expected literal flag (literal).
	Literal *bool `yaml:"literal,omitempty"`

	// Contains is the expected error text (error).
	Contains string `yaml:"contains,omitempty"`
}

// Assertion type constants.
const (
	AssertFunction = "function"
	AssertArgs     = "args"
	AssertLiteral  = "literal"
	AssertError    = "error"
)

// LoadScenario reads and parses a scenario YAML file. Catalog paths are
// resolved relative to the file. Returns an error if the file doesn't
// exist, is malformed, contains unknown fields (typos), or is missing
// required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for i, p := range scenario.Catalogs {
		if !filepath.IsAbs(p) {
			scenario.Catalogs[i] = filepath.Join(base, p)
		}
	}
	for _, p := range scenario.Catalogs {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: catalog file not found: %s", p)
		}
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML without touching the filesystem.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "value:" vs "values:")
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
	if len(s.Values) == 0 {
		return fmt.Errorf("values list is required and must be non-empty")
	}

	names := make(map[string]bool, len(s.Values))
	for i, step := range s.Values {
		if step.Name == "" {
			return fmt.Errorf("values[%d]: name is required", i)
		}
		if names[step.Name] {
			return fmt.Errorf("values[%d]: duplicate name %q", i, step.Name)
		}
		names[step.Name] = true

		set := 0
		for _, ok := range []bool{step.Date != nil, step.List != nil, step.Call != nil, step.Variable != ""} {
			if ok {
				set++
			}
		}
		if set != 1 {
			return fmt.Errorf("values[%d] (%s): exactly one of date, list, call, variable is required", i, step.Name)
		}
		if step.Call != nil && (step.Call.Receiver == "" || step.Call.Method == "") {
			return fmt.Errorf("values[%d] (%s): call needs receiver and method", i, step.Name)
		}
		if step.Call != nil {
			switch step.Call.Cast {
			case "", "date", "list":
			default:
				return fmt.Errorf("values[%d] (%s): unknown cast %q", i, step.Name, step.Call.Cast)
			}
		}
	}

	if s.Result != "" && !names[s.Result] {
		return fmt.Errorf("result %q is not a declared value", s.Result)
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(i, &a, names); err != nil {
			return err
		}
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion, names map[string]bool) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if !names[a.Value] {
		return fmt.Errorf("assertions[%d]: value %q is not declared", index, a.Value)
	}

	switch a.Type {
	case AssertFunction:
		if a.Function == "" {
			return fmt.Errorf("assertions[%d]: function is required for function", index)
		}
	case AssertArgs:
		if len(a.Args) == 0 {
			return fmt.Errorf("assertions[%d]: args is required for args", index)
		}
	case AssertLiteral:
		if a.Literal == nil {
			return fmt.Errorf("assertions[%d]: literal is required for literal", index)
		}
	case AssertError:
		if a.Contains == "" {
			return fmt.Errorf("assertions[%d]: contains is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
