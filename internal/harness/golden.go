package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/eegraph/internal/ir"
)

// Snapshot captures everything a golden file pins for a scenario.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string
	Steps        []StepTrace
	Legacy       ir.Value
	Cloud        ir.Value
}

// toValue converts a Snapshot to a wire Object for canonical JSON.
func (s *Snapshot) toValue() ir.Object {
	steps := make(ir.Array, len(s.Steps))
	for i, st := range s.Steps {
		obj := ir.Object{
			"name": ir.String(st.Name),
			"kind": ir.String(st.Kind),
		}
		if st.Shape != "" {
			obj["shape"] = ir.String(st.Shape)
		}
		if st.Error != "" {
			obj["error"] = ir.String(st.Error)
		}
		steps[i] = obj
	}

	out := ir.Object{
		"scenario_name": ir.String(s.ScenarioName),
		"steps":         steps,
	}
	if s.Legacy != nil {
		out["legacy"] = s.Legacy
	}
	if s.Cloud != nil {
		out["cloud"] = s.Cloud
	}
	return out
}

// SnapshotJSON renders the canonical golden form of a result.
func SnapshotJSON(name string, result *Result) ([]byte, error) {
	snap := Snapshot{
		ScenarioName: name,
		Steps:        result.Steps,
		Legacy:       result.Legacy,
		Cloud:        result.Cloud,
	}
	return ir.MarshalCanonical(snap.toValue())
}

// RunWithGolden executes a scenario and compares its snapshot against a
// golden file stored in testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := SnapshotJSON(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
