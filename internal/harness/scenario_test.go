package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	data := []byte(`
name: ok
description: "minimal"
values:
  - name: d
    date: { value: 5 }
  - name: l
    list: { items: ["$d"] }
  - name: v
    variable: x
result: d
assertions:
  - type: function
    value: d
    function: Date
`)
	s, err := ParseScenario(data)
	require.NoError(t, err)
	assert.Equal(t, "ok", s.Name)
	require.Len(t, s.Values, 3)
	assert.Equal(t, 5, s.Values[0].Date.Value)
	assert.Equal(t, []any{"$d"}, s.Values[1].List.Items)
	assert.Equal(t, "x", s.Values[2].Variable)
	assert.Equal(t, "d", s.Result)
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing name",
			yaml: "description: x\nvalues: [{name: d, date: {value: 1}}]",
			want: "name is required",
		},
		{
			name: "missing description",
			yaml: "name: x\nvalues: [{name: d, date: {value: 1}}]",
			want: "description is required",
		},
		{
			name: "no values",
			yaml: "name: x\ndescription: x",
			want: "values list is required",
		},
		{
			name: "unknown field",
			yaml: "name: x\ndescription: x\nvalue: []",
			want: "failed to parse YAML",
		},
		{
			name: "step without name",
			yaml: "name: x\ndescription: x\nvalues: [{date: {value: 1}}]",
			want: "values[0]: name is required",
		},
		{
			name: "duplicate step",
			yaml: "name: x\ndescription: x\nvalues: [{name: d, date: {value: 1}}, {name: d, date: {value: 2}}]",
			want: `duplicate name "d"`,
		},
		{
			name: "two kinds",
			yaml: "name: x\ndescription: x\nvalues: [{name: d, date: {value: 1}, variable: v}]",
			want: "exactly one of date, list, call, variable",
		},
		{
			name: "no kind",
			yaml: "name: x\ndescription: x\nvalues: [{name: d}]",
			want: "exactly one of date, list, call, variable",
		},
		{
			name: "call without method",
			yaml: "name: x\ndescription: x\nvalues: [{name: d, date: {value: 1}}, {name: c, call: {receiver: d}}]",
			want: "call needs receiver and method",
		},
		{
			name: "unknown cast",
			yaml: "name: x\ndescription: x\nvalues: [{name: d, date: {value: 1}}, {name: c, call: {receiver: d, method: millis, cast: number}}]",
			want: `unknown cast "number"`,
		},
		{
			name: "unknown result",
			yaml: "name: x\ndescription: x\nvalues: [{name: d, date: {value: 1}}]\nresult: e",
			want: `result "e" is not a declared value`,
		},
		{
			name: "assertion on undeclared value",
			yaml: "name: x\ndescription: x\nvalues: [{name: d, date: {value: 1}}]\nassertions: [{type: function, value: e, function: Date}]",
			want: `value "e" is not declared`,
		},
		{
			name: "unknown assertion type",
			yaml: "name: x\ndescription: x\nvalues: [{name: d, date: {value: 1}}]\nassertions: [{type: shape, value: d}]",
			want: `unknown assertion type "shape"`,
		},
		{
			name: "function assertion without function",
			yaml: "name: x\ndescription: x\nvalues: [{name: d, date: {value: 1}}]\nassertions: [{type: function, value: d}]",
			want: "function is required for function",
		},
		{
			name: "literal assertion without flag",
			yaml: "name: x\ndescription: x\nvalues: [{name: d, date: {value: 1}}]\nassertions: [{type: literal, value: d}]",
			want: "literal is required for literal",
		},
		{
			name: "error assertion without text",
			yaml: "name: x\ndescription: x\nvalues: [{name: d, date: {value: 1}}]\nassertions: [{type: error, value: d}]",
			want: "contains is required for error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_ResolvesCatalogPaths(t *testing.T) {
	s, err := LoadScenario("testdata/scenarios/catalog_method.yaml")
	require.NoError(t, err)
	require.Len(t, s.Catalogs, 1)
	assert.Equal(t, filepath.Join("testdata", "catalogs", "extra.cue"), s.Catalogs[0])
}

func TestLoadScenario_MissingCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	src := "name: x\ndescription: x\ncatalogs: [missing.cue]\nvalues: [{name: d, date: {value: 1}}]\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "catalog file not found")
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("testdata/scenarios/does_not_exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
