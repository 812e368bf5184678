package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/eegraph/internal/ir"
)

// marshalArgs converts an argument list to canonical JSON TEXT for storage.
// Uses RFC 8785 canonical JSON for deterministic serialization.
func marshalArgs(args []ir.ArgSig) (string, error) {
	arr := make(ir.Array, len(args))
	for i, a := range args {
		obj := ir.Object{
			"name": ir.String(a.Name),
			"type": ir.String(a.Type),
		}
		if a.Optional {
			obj["optional"] = ir.Bool(true)
		}
		arr[i] = obj
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal args: %w", err)
	}
	return string(data), nil
}

// unmarshalArgs parses canonical JSON TEXT back into an argument list.
func unmarshalArgs(data string) ([]ir.ArgSig, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var args []ir.ArgSig
	if err := json.Unmarshal([]byte(data), &args); err != nil {
		return nil, fmt.Errorf("unmarshal args: %w", err)
	}
	return args, nil
}
