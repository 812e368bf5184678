package apifunc

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/eegraph/internal/computed"
	"github.com/roach88/eegraph/internal/ir"
)

// Function is the invocation record for one named remote operation.
// It implements computed.Function.
type Function struct {
	sig ir.FunctionSig
}

// New creates a Function from a signature. The argument list is copied.
func New(sig ir.FunctionSig) *Function {
	sig.Args = slices.Clone(sig.Args)
	return &Function{sig: sig}
}

// Name returns the remote operation name.
func (f *Function) Name() string {
	return f.sig.Name
}

// ReturnType returns the declared return type.
func (f *Function) ReturnType() string {
	return f.sig.Returns
}

// Signature returns a copy of the signature.
func (f *Function) Signature() ir.FunctionSig {
	sig := f.sig
	sig.Args = slices.Clone(f.sig.Args)
	return sig
}

// Call binds positional arguments in signature order and builds an
// invocation node. A nil argument counts as not supplied.
func (f *Function) Call(args ...any) (*computed.Node, error) {
	if len(args) > len(f.sig.Args) {
		return nil, &CallError{
			Code:     ErrCodeTooManyArgs,
			Function: f.sig.Name,
			Message:  fmt.Sprintf("too many (%d) arguments, signature declares %d", len(args), len(f.sig.Args)),
		}
	}
	named := make(map[string]any, len(args))
	for i, v := range args {
		named[f.sig.Args[i].Name] = v
	}
	return f.CallNamed(named)
}

// CallNamed binds arguments by name and builds an invocation node.
func (f *Function) CallNamed(args map[string]any) (*computed.Node, error) {
	declared := make(map[string]bool, len(f.sig.Args))
	bound := make(map[string]any, len(args))
	for _, a := range f.sig.Args {
		declared[a.Name] = true
		v, ok := args[a.Name]
		if !ok || v == nil {
			if !a.Optional {
				return nil, &CallError{
					Code:     ErrCodeMissingArg,
					Function: f.sig.Name,
					Message:  fmt.Sprintf("required argument %q missing", a.Name),
				}
			}
			continue
		}
		bound[a.Name] = v
	}

	var unknown []string
	for name := range args {
		if !declared[name] {
			unknown = append(unknown, name)
		}
	}
	if len(unknown) > 0 {
		slices.Sort(unknown)
		return nil, &CallError{
			Code:     ErrCodeUnknownArg,
			Function: f.sig.Name,
			Message:  fmt.Sprintf("unrecognized arguments %s", strings.Join(unknown, ", ")),
		}
	}

	return computed.NewInvocation(f, bound), nil
}

// String returns the operation name.
func (f *Function) String() string {
	return f.sig.Name
}
