package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/roach88/eegraph/internal/apifunc"
	"github.com/roach88/eegraph/internal/compiler"
	"github.com/roach88/eegraph/internal/computed"
	"github.com/roach88/eegraph/internal/ee"
	"github.com/roach88/eegraph/internal/ir"
	"github.com/roach88/eegraph/internal/serializer"
)

// Harness holds the state of one scenario run.
type Harness struct {
	registry *apifunc.Registry
	values   map[string]any
	errs     map[string]error
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Build a fresh registry from the builtins and the scenario catalogs
// 2. Build every value step in order
// 3. Encode the result value in both formats
// 4. Compare against expect and evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	reg, err := newRegistry(scenario.Catalogs)
	if err != nil {
		return nil, fmt.Errorf("failed to build registry: %w", err)
	}
	ee.UseRegistry(reg)
	defer ee.UseRegistry(nil)

	h := &Harness{
		registry: reg,
		values:   make(map[string]any, len(scenario.Values)),
		errs:     make(map[string]error),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}

	result := NewResult()
	for _, step := range scenario.Values {
		h.buildStep(step, result)
	}

	resultName := scenario.Result
	if resultName == "" {
		resultName = scenario.Values[len(scenario.Values)-1].Name
	}
	if v, ok := h.values[resultName]; ok {
		if err := h.encode(v, result); err != nil {
			result.AddError(fmt.Sprintf("encode %s: %v", resultName, err))
		}
	}

	if scenario.Expect != nil {
		for _, msg := range compareExpect(scenario.Expect, result) {
			result.AddError(msg)
		}
	}

	for _, msg := range EvaluateAssertions(h, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// newRegistry seeds a registry with the builtins and every catalog file.
func newRegistry(catalogs []string) (*apifunc.Registry, error) {
	reg := apifunc.NewRegistry()
	if err := reg.Register(apifunc.Builtins()...); err != nil {
		return nil, err
	}
	for _, path := range catalogs {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		sigs, err := compiler.CompileString(string(src), path)
		if err != nil {
			return nil, err
		}
		if err := reg.Register(sigs...); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return reg, nil
}

// buildStep constructs one value and records the outcome.
func (h *Harness) buildStep(step ValueStep, result *Result) {
	kind, v, err := h.build(step)
	trace := StepTrace{Name: step.Name, Kind: kind}

	switch {
	case err != nil:
		h.errs[step.Name] = err
		trace.Error = err.Error()
		if step.ExpectError == "" {
			result.AddError(fmt.Sprintf("value %s: unexpected error: %v", step.Name, err))
		} else if !strings.Contains(err.Error(), step.ExpectError) {
			result.AddError(fmt.Sprintf("value %s: error %q does not contain %q", step.Name, err.Error(), step.ExpectError))
		}
	default:
		h.values[step.Name] = v
		trace.Shape = describe(v)
		if step.ExpectError != "" {
			result.AddError(fmt.Sprintf("value %s: expected error containing %q, got %s", step.Name, step.ExpectError, trace.Shape))
		}
	}

	h.logger.Debug("built value", "name", step.Name, "kind", kind, "error", err)
	result.AddStep(trace)
}

func (h *Harness) build(step ValueStep) (string, any, error) {
	switch {
	case step.Date != nil:
		v, err := h.buildDate(step.Date)
		return "date", v, err
	case step.List != nil:
		v, err := h.buildList(step.List)
		return "list", v, err
	case step.Call != nil:
		v, err := h.buildCall(step.Call)
		return "call", v, err
	default:
		return "variable", computed.NewVariable(step.Variable), nil
	}
}

func (h *Harness) buildDate(step *DateStep) (*ee.Date, error) {
	input := step.Value
	if step.Time != "" {
		t, err := time.Parse(time.RFC3339Nano, step.Time)
		if err != nil {
			return nil, fmt.Errorf("parse time: %w", err)
		}
		input = t
	} else {
		resolved, err := h.resolve(input)
		if err != nil {
			return nil, err
		}
		input = resolved
	}
	return ee.NewDateInZone(input, step.TZ)
}

func (h *Harness) buildList(step *ListStep) (*ee.List, error) {
	if step.From != nil {
		from, err := h.resolve(step.From)
		if err != nil {
			return nil, err
		}
		return ee.NewList(from)
	}
	items, err := h.resolve(step.Items)
	if err != nil {
		return nil, err
	}
	return ee.NewList(items)
}

// methodCaller is implemented by *ee.Date and *ee.List.
type methodCaller interface {
	Call(method string, args ...any) (*computed.Node, error)
}

func (h *Harness) buildCall(step *CallStep) (any, error) {
	recv, err := h.lookup(step.Receiver)
	if err != nil {
		return nil, err
	}
	caller, ok := recv.(methodCaller)
	if !ok {
		return nil, fmt.Errorf("value %q (%T) has no methods", step.Receiver, recv)
	}

	args := make([]any, len(step.Args))
	for i, a := range step.Args {
		if args[i], err = h.resolve(a); err != nil {
			return nil, err
		}
	}

	node, err := caller.Call(step.Method, args...)
	if err != nil {
		return nil, err
	}
	switch step.Cast {
	case "date":
		return ee.NewDate(node)
	case "list":
		return ee.NewList(node)
	default:
		return node, nil
	}
}

// resolve replaces "$name" strings with earlier values, recursively
// through slices and maps.
func (h *Harness) resolve(v any) (any, error) {
	switch x := v.(type) {
	case string:
		if strings.HasPrefix(x, "$$") {
			return x[1:], nil
		}
		if name, ok := strings.CutPrefix(x, "$"); ok {
			return h.lookup(name)
		}
		return x, nil
	case []any:
		out := make([]any, len(x))
		for i, elem := range x {
			r, err := h.resolve(elem)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, elem := range x {
			r, err := h.resolve(elem)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil
	default:
		return v, nil
	}
}

func (h *Harness) lookup(name string) (any, error) {
	if v, ok := h.values[name]; ok {
		return v, nil
	}
	if err, failed := h.errs[name]; failed {
		return nil, fmt.Errorf("value %q failed to build: %w", name, err)
	}
	return nil, fmt.Errorf("unknown value %q", name)
}

// encode stores both canonical encodings of v on the result.
func (h *Harness) encode(v any, result *Result) error {
	legacy, err := serializer.Encode(v, serializer.WithLogger(h.logger))
	if err != nil {
		return fmt.Errorf("legacy: %w", err)
	}
	cloud, err := serializer.EncodeCloud(v, serializer.WithLogger(h.logger))
	if err != nil {
		return fmt.Errorf("cloud: %w", err)
	}
	result.Legacy = legacy
	result.Cloud = cloud
	return nil
}

func describe(v any) string {
	switch x := v.(type) {
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprintf("%T", v)
	}
}

// compareExpect checks the result encodings against the expected YAML
// structures by canonical JSON.
func compareExpect(expect *ExpectClause, result *Result) []string {
	var errs []string
	check := func(label string, want any, got ir.Value) {
		if want == nil {
			return
		}
		if got == nil {
			errs = append(errs, fmt.Sprintf("expect.%s: result value was not encoded", label))
			return
		}
		wantJSON, err := canonicalYAML(want)
		if err != nil {
			errs = append(errs, fmt.Sprintf("expect.%s: %v", label, err))
			return
		}
		gotJSON, err := ir.MarshalCanonical(got)
		if err != nil {
			errs = append(errs, fmt.Sprintf("expect.%s: %v", label, err))
			return
		}
		if string(wantJSON) != string(gotJSON) {
			errs = append(errs, fmt.Sprintf("expect.%s mismatch:\n  Expected: %s\n  Actual:   %s", label, wantJSON, gotJSON))
		}
	}
	check("legacy", expect.Legacy, result.Legacy)
	check("cloud", expect.Cloud, result.Cloud)
	return errs
}

// canonicalYAML renders a decoded YAML structure as canonical JSON.
func canonicalYAML(v any) ([]byte, error) {
	val, err := yamlToValue(v)
	if err != nil {
		return nil, err
	}
	return ir.MarshalCanonical(val)
}

// yamlToValue converts decoded YAML (which may use int and float64 and
// nested map[string]any) into a wire value.
func yamlToValue(v any) (ir.Value, error) {
	switch x := v.(type) {
	case int:
		return ir.Int(x), nil
	case float64:
		if x == float64(int64(x)) {
			return ir.Int(int64(x)), nil
		}
		return ir.Float(x), nil
	case []any:
		arr := make(ir.Array, len(x))
		for i, elem := range x {
			e, err := yamlToValue(elem)
			if err != nil {
				return nil, err
			}
			arr[i] = e
		}
		return arr, nil
	case map[string]any:
		obj := make(ir.Object, len(x))
		for k, elem := range x {
			e, err := yamlToValue(elem)
			if err != nil {
				return nil, err
			}
			obj[k] = e
		}
		return obj, nil
	default:
		return ir.ToValue(v)
	}
}
