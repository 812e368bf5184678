package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/eegraph/internal/ir"
)

// Validation error codes (E100-E199)
const (
	ErrInvalidFunctionName = "E101" // name is not a dotted identifier
	ErrInvalidReturnType   = "E102" // return type is not a type name
	ErrInvalidArg          = "E103" // argument name or type malformed
	ErrDuplicateArg        = "E104" // argument declared twice
	ErrArgOrder            = "E105" // required argument after an optional one
	ErrDuplicateFunction   = "E106" // function declared twice in one catalog
)

// ValidationError represents a catalog validation error.
type ValidationError struct {
	Function string `json:"function"`
	Field    string `json:"field"`
	Message  string `json:"message"`
	Code     string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s: %s", e.Code, e.Function, e.Field, e.Message)
}

// Validate checks compiled signatures against the catalog rules.
// Returns all errors found (does not fail-fast).
func Validate(sigs []ir.FunctionSig) []ValidationError {
	var errs []ValidationError
	seen := make(map[string]int, len(sigs))

	for i, sig := range sigs {
		if first, dup := seen[sig.Name]; dup {
			errs = append(errs, ValidationError{
				Function: sig.Name,
				Field:    "name",
				Message:  fmt.Sprintf("duplicate function, first declared at index %d", first),
				Code:     ErrDuplicateFunction,
			})
		} else {
			seen[sig.Name] = i
		}

		for _, verr := range sig.Validate() {
			errs = append(errs, ValidationError{
				Function: sig.Name,
				Field:    verr.Field,
				Message:  verr.Message,
				Code:     codeFor(verr),
			})
		}
	}
	return errs
}

func codeFor(verr ir.ValidationError) string {
	switch {
	case verr.Field == "name":
		return ErrInvalidFunctionName
	case verr.Field == "returns":
		return ErrInvalidReturnType
	case strings.HasSuffix(verr.Field, ".optional"):
		return ErrArgOrder
	case strings.HasPrefix(verr.Message, "duplicate"):
		return ErrDuplicateArg
	default:
		return ErrInvalidArg
	}
}
