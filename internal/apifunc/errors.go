package apifunc

import (
	"errors"
	"fmt"
)

// CallErrorCode categorizes call binding errors.
type CallErrorCode string

const (
	// ErrCodeUnknownFunction indicates no signature is registered under the name.
	ErrCodeUnknownFunction CallErrorCode = "UNKNOWN_FUNCTION"

	// ErrCodeUnknownMethod indicates the type has no imported method of that name.
	ErrCodeUnknownMethod CallErrorCode = "UNKNOWN_METHOD"

	// ErrCodeTooManyArgs indicates more positional arguments than the signature declares.
	ErrCodeTooManyArgs CallErrorCode = "TOO_MANY_ARGS"

	// ErrCodeMissingArg indicates a required argument was not supplied.
	ErrCodeMissingArg CallErrorCode = "MISSING_ARG"

	// ErrCodeUnknownArg indicates a named argument the signature does not declare.
	ErrCodeUnknownArg CallErrorCode = "UNKNOWN_ARG"
)

// CallError is returned when arguments cannot be bound to a signature.
type CallError struct {
	Code     CallErrorCode
	Function string
	Message  string
}

// Error implements the error interface.
func (e *CallError) Error() string {
	if e.Function != "" {
		return fmt.Sprintf("%s: %s (function=%s)", e.Code, e.Message, e.Function)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsCallError reports whether err is a CallError with the given code.
// Uses errors.As to handle wrapped errors.
func IsCallError(err error, code CallErrorCode) bool {
	var ce *CallError
	if errors.As(err, &ce) {
		return ce.Code == code
	}
	return false
}
