package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFunctionSigValidateOK(t *testing.T) {
	sig := FunctionSig{
		Name:    "Date.advance",
		Returns: "Date",
		Args: []ArgSig{
			{Name: "date", Type: "Date"},
			{Name: "delta", Type: "Float"},
			{Name: "unit", Type: "String"},
			{Name: "timeZone", Type: "String", Optional: true},
		},
	}

	assert.Empty(t, sig.Validate())
}

func TestFunctionSigValidateCollectsAll(t *testing.T) {
	sig := FunctionSig{
		Name:    "Date..bad",
		Returns: "",
		Args: []ArgSig{
			{Name: "a", Type: "Object", Optional: true},
			{Name: "a", Type: "Object"},
			{Name: "1x", Type: "not a type"},
		},
	}

	errs := sig.Validate()
	fields := make([]string, len(errs))
	for i, e := range errs {
		fields[i] = e.Field
	}

	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "returns")
	assert.Contains(t, fields, "args[1].name")
	assert.Contains(t, fields, "args[1].optional")
	assert.Contains(t, fields, "args[2].type")
}

func TestFunctionSigReceiver(t *testing.T) {
	sig := FunctionSig{Name: "Date.advance"}
	typeName, method, ok := sig.Receiver()
	assert.True(t, ok)
	assert.Equal(t, "Date", typeName)
	assert.Equal(t, "advance", method)

	sig = FunctionSig{Name: "Date"}
	_, method, ok = sig.Receiver()
	assert.False(t, ok)
	assert.Equal(t, "Date", method)
}
