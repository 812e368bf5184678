package compiler

import (
	"fmt"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"github.com/hashicorp/go-multierror"

	"github.com/roach88/eegraph/internal/ir"
)

// CompileCatalog parses the "function" struct of a CUE value into
// signatures ordered by name. Every function is compiled; the returned
// error aggregates all failures.
//
// A catalog looks like:
//
//	function: "Date.advance": {
//		returns:     "Date"
//		description: "Creates a new Date by adding the specified units."
//		args: [
//			{name: "date", type: "Date"},
//			{name: "delta", type: "Float"},
//			{name: "unit", type: "String"},
//			{name: "timeZone", type: "String", optional: true},
//		]
//	}
func CompileCatalog(v cue.Value) ([]ir.FunctionSig, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	fnVal := v.LookupPath(cue.ParsePath("function"))
	if !fnVal.Exists() {
		return nil, &CompileError{
			Field:   "function",
			Message: "catalog declares no functions",
			Pos:     v.Pos(),
		}
	}

	iter, err := fnVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var (
		sigs   []ir.FunctionSig
		result *multierror.Error
	)
	for iter.Next() {
		sig, err := CompileFunction(iter.Label(), iter.Value())
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		sigs = append(sigs, *sig)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	slices.SortFunc(sigs, func(a, b ir.FunctionSig) int {
		return strings.Compare(a.Name, b.Name)
	})
	return sigs, nil
}

// CompileString compiles CUE source text as a catalog. filename is used
// in error positions.
func CompileString(src, filename string) ([]ir.FunctionSig, error) {
	ctx := cuecontext.New()
	v := ctx.CompileString(src, cue.Filename(filename))
	return CompileCatalog(v)
}

// CompileFunction parses one catalog entry. name is the entry's label; an
// explicit name field takes precedence.
func CompileFunction(name string, v cue.Value) (*ir.FunctionSig, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	sig := &ir.FunctionSig{Name: name}

	if nameVal := v.LookupPath(cue.ParsePath("name")); nameVal.Exists() {
		s, err := nameVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		sig.Name = s
	}

	returnsVal := v.LookupPath(cue.ParsePath("returns"))
	if !returnsVal.Exists() {
		return nil, &CompileError{
			Field:   fmt.Sprintf("function.%s.returns", sig.Name),
			Message: "returns is required",
			Pos:     v.Pos(),
		}
	}
	returns, err := returnsVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	sig.Returns = returns

	if sig.Description, err = optionalString(v, "description"); err != nil {
		return nil, err
	}
	if sig.Deprecated, err = optionalString(v, "deprecated"); err != nil {
		return nil, err
	}

	sig.Args, err = parseArgs(sig.Name, v)
	if err != nil {
		return nil, err
	}
	return sig, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// parseArgs extracts the ordered argument list of a function.
func parseArgs(fnName string, v cue.Value) ([]ir.ArgSig, error) {
	argsVal := v.LookupPath(cue.ParsePath("args"))
	if !argsVal.Exists() {
		return nil, nil
	}

	iter, err := argsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var args []ir.ArgSig
	for i := 0; iter.Next(); i++ {
		argVal := iter.Value()
		field := fmt.Sprintf("function.%s.args[%d]", fnName, i)

		var arg ir.ArgSig
		nameVal := argVal.LookupPath(cue.ParsePath("name"))
		if !nameVal.Exists() {
			return nil, &CompileError{Field: field + ".name", Message: "argument name is required", Pos: argVal.Pos()}
		}
		if arg.Name, err = nameVal.String(); err != nil {
			return nil, formatCUEError(err)
		}

		typeVal := argVal.LookupPath(cue.ParsePath("type"))
		if !typeVal.Exists() {
			return nil, &CompileError{Field: field + ".type", Message: "argument type is required", Pos: argVal.Pos()}
		}
		if arg.Type, err = typeVal.String(); err != nil {
			return nil, formatCUEError(err)
		}

		if optVal := argVal.LookupPath(cue.ParsePath("optional")); optVal.Exists() {
			if arg.Optional, err = optVal.Bool(); err != nil {
				return nil, formatCUEError(err)
			}
		}

		args = append(args, arg)
	}
	return args, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
