package apifunc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eegraph/internal/ir"
)

func advanceFunc() *Function {
	return New(ir.FunctionSig{
		Name:    "Date.advance",
		Returns: "Date",
		Args: []ir.ArgSig{
			{Name: "date", Type: "Date"},
			{Name: "delta", Type: "Float"},
			{Name: "unit", Type: "String"},
			{Name: "timeZone", Type: "String", Optional: true},
		},
	})
}

func TestFunctionAccessors(t *testing.T) {
	fn := advanceFunc()

	assert.Equal(t, "Date.advance", fn.Name())
	assert.Equal(t, "Date", fn.ReturnType())
	assert.Equal(t, "Date.advance", fn.String())

	sig := fn.Signature()
	sig.Args[0].Name = "mutated"
	assert.Equal(t, "date", fn.Signature().Args[0].Name, "Signature returns a copy")
}

func TestCallPositional(t *testing.T) {
	n, err := advanceFunc().Call("2020-01-01", int64(2), "week")
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"date": "2020-01-01", "delta": int64(2), "unit": "week"}, n.Args())
	assert.Equal(t, "Date.advance", n.Func().Name())
}

func TestCallNilOptionalOmitted(t *testing.T) {
	n, err := advanceFunc().Call("2020-01-01", int64(2), "week", nil)
	require.NoError(t, err)
	assert.NotContains(t, n.Args(), "timeZone")
}

func TestCallErrors(t *testing.T) {
	tests := []struct {
		name string
		call func() error
		code CallErrorCode
	}{
		{
			name: "too many",
			call: func() error { _, err := advanceFunc().Call(1, 2, 3, 4, 5); return err },
			code: ErrCodeTooManyArgs,
		},
		{
			name: "missing required",
			call: func() error { _, err := advanceFunc().Call("2020-01-01"); return err },
			code: ErrCodeMissingArg,
		},
		{
			name: "nil required",
			call: func() error { _, err := advanceFunc().Call("2020-01-01", nil, "day"); return err },
			code: ErrCodeMissingArg,
		},
		{
			name: "unknown named",
			call: func() error {
				_, err := advanceFunc().CallNamed(map[string]any{"date": 1, "delta": 1, "unit": "day", "bogus": 1})
				return err
			},
			code: ErrCodeUnknownArg,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.True(t, IsCallError(err, tt.code), "got %v", err)
		})
	}
}

func TestCallErrorMessage(t *testing.T) {
	err := &CallError{Code: ErrCodeMissingArg, Function: "Date.advance", Message: `required argument "unit" missing`}
	assert.Equal(t, `MISSING_ARG: required argument "unit" missing (function=Date.advance)`, err.Error())
}

func TestBuiltinsValid(t *testing.T) {
	for _, sig := range Builtins() {
		assert.Empty(t, sig.Validate(), sig.Name)
	}
}
