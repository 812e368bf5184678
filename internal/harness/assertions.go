package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/eegraph/internal/computed"
	"github.com/roach88/eegraph/internal/ee"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Value    string // Name of the value under test
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s on %s\n", e.Type, e.Value)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions evaluates all assertions against the built values.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(h *Harness, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertFunction:
			err = assertFunction(h, a)
		case AssertArgs:
			err = assertArgs(h, a)
		case AssertLiteral:
			err = assertLiteral(h, a)
		case AssertError:
			err = assertError(h, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

// invocationOf returns the invocation behind a built value.
func invocationOf(h *Harness, name string) (computed.Invocation, error) {
	v, err := h.lookup(name)
	if err != nil {
		return computed.Invocation{}, err
	}
	obj, ok := v.(computed.Object)
	if !ok {
		return computed.Invocation{}, fmt.Errorf("value %q is not a graph object", name)
	}
	inv, ok := obj.Shape().(computed.Invocation)
	if !ok {
		return computed.Invocation{}, fmt.Errorf("value %q is %s, not an invocation", name, computed.Describe(obj.Shape()))
	}
	return inv, nil
}

func assertFunction(h *Harness, a Assertion) error {
	inv, err := invocationOf(h, a.Value)
	if err != nil {
		return &AssertionError{Type: a.Type, Value: a.Value, Expected: "invocation of " + a.Function, Actual: err.Error()}
	}
	if inv.Func.Name() != a.Function {
		return &AssertionError{Type: a.Type, Value: a.Value, Expected: a.Function, Actual: inv.Func.Name()}
	}
	return nil
}

func assertArgs(h *Harness, a Assertion) error {
	inv, err := invocationOf(h, a.Value)
	if err != nil {
		return &AssertionError{Type: a.Type, Value: a.Value, Expected: fmt.Sprintf("args %v", a.Args), Actual: err.Error()}
	}

	keys := make([]string, 0, len(a.Args))
	for k := range a.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		want, err := h.resolve(a.Args[k])
		if err != nil {
			return err
		}
		got, present := inv.Args[k]
		if !present {
			return &AssertionError{Type: a.Type, Value: a.Value, Expected: fmt.Sprintf("argument %s", k), Actual: "absent"}
		}
		if !valuesEqual(got, want) {
			return &AssertionError{Type: a.Type, Value: a.Value, Expected: fmt.Sprintf("%s = %v", k, want), Actual: fmt.Sprintf("%s = %v", k, got)}
		}
	}
	return nil
}

func assertLiteral(h *Harness, a Assertion) error {
	v, err := h.lookup(a.Value)
	if err != nil {
		return &AssertionError{Type: a.Type, Value: a.Value, Expected: fmt.Sprintf("literal=%t", *a.Literal), Actual: err.Error()}
	}
	l, ok := v.(*ee.List)
	isLiteral := ok && l.IsLiteral()
	if isLiteral != *a.Literal {
		return &AssertionError{Type: a.Type, Value: a.Value, Expected: fmt.Sprintf("literal=%t", *a.Literal), Actual: fmt.Sprintf("literal=%t (%s)", isLiteral, describe(v))}
	}
	return nil
}

func assertError(h *Harness, a Assertion) error {
	err, failed := h.errs[a.Value]
	if !failed {
		return &AssertionError{Type: a.Type, Value: a.Value, Expected: "construction error containing " + a.Contains, Actual: "built successfully"}
	}
	if !strings.Contains(err.Error(), a.Contains) {
		return &AssertionError{Type: a.Type, Value: a.Value, Expected: "error containing " + a.Contains, Actual: err.Error()}
	}
	return nil
}

// valuesEqual compares an argument against an expected YAML value. Numbers
// compare by value whatever their Go width; graph objects compare by
// identity.
func valuesEqual(actual, expected any) bool {
	if a, ok := number(actual); ok {
		e, ok := number(expected)
		return ok && a == e
	}
	if _, isObj := actual.(computed.Object); isObj {
		return actual == expected
	}
	return cmp.Equal(actual, expected)
}

func number(v any) (float64, bool) {
	in := ee.Classify(v)
	if in.Kind != ee.KindNumber {
		return 0, false
	}
	switch n := in.Number.(type) {
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
