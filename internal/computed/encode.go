package computed

import (
	"fmt"

	"github.com/roach88/eegraph/internal/ir"
)

// Legacy format type tags.
const (
	TypeInvocation  = "Invocation"
	TypeArgumentRef = "ArgumentRef"
)

// EncodeShape produces the default legacy encoding of an Invocation or
// Variable. Arguments are visited in sorted name order and nil arguments
// are omitted.
func EncodeShape(s Shape, enc Encoder) (ir.Value, error) {
	switch s := s.(type) {
	case Variable:
		return ir.Object{
			"type":  ir.String(TypeArgumentRef),
			"value": ir.String(s.Name),
		}, nil

	case Invocation:
		args := make(ir.Object, len(s.Args))
		for _, name := range s.ArgNames() {
			v := s.Args[name]
			if v == nil {
				continue
			}
			encoded, err := enc(v)
			if err != nil {
				return nil, fmt.Errorf("%s argument %q: %w", s.Func.Name(), name, err)
			}
			args[name] = encoded
		}
		return ir.Object{
			"type":         ir.String(TypeInvocation),
			"functionName": ir.String(s.Func.Name()),
			"arguments":    args,
		}, nil

	default:
		return nil, fmt.Errorf("computed: no default encoding for shape %T", s)
	}
}

// EncodeCloudShape produces the default cloud encoding of an Invocation or
// Variable. Every argument is stored through enc and referenced by key.
func EncodeCloudShape(s Shape, enc CloudEncoder) (ir.Value, error) {
	switch s := s.(type) {
	case Variable:
		return ir.Object{"argumentReference": ir.String(s.Name)}, nil

	case Invocation:
		args := make(ir.Object, len(s.Args))
		for _, name := range s.ArgNames() {
			v := s.Args[name]
			if v == nil {
				continue
			}
			ref, err := enc(v)
			if err != nil {
				return nil, fmt.Errorf("%s argument %q: %w", s.Func.Name(), name, err)
			}
			args[name] = ValueReference(ref)
		}
		return ir.Object{
			"functionInvocationValue": ir.Object{
				"functionName": ir.String(s.Func.Name()),
				"arguments":    args,
			},
		}, nil

	default:
		return nil, fmt.Errorf("computed: no default cloud encoding for shape %T", s)
	}
}

// ValueReference wraps a value table key in the cloud reference envelope.
func ValueReference(ref string) ir.Object {
	return ir.Object{"valueReference": ir.String(ref)}
}
