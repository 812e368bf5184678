package harness

import "github.com/roach88/eegraph/internal/ir"

// StepTrace records how one value step turned out.
type StepTrace struct {
	Name  string `json:"name"`
	Kind  string `json:"kind"`            // "date", "list", "call" or "variable"
	Shape string `json:"shape,omitempty"` // diagnostic rendering of the built value
	Error string `json:"error,omitempty"` // construction error, if any
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall scenario success.
	Pass bool `json:"pass"`

	// Steps records every value step in order.
	Steps []StepTrace `json:"steps"`

	// Legacy and Cloud are the encodings of the result value. They are nil
	// when the result value could not be built.
	Legacy ir.Value `json:"legacy,omitempty"`
	Cloud  ir.Value `json:"cloud,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Steps:  []StepTrace{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddStep appends a step trace.
func (r *Result) AddStep(step StepTrace) {
	r.Steps = append(r.Steps, step)
}
