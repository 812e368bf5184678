package ee

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument matches every InvalidArgumentError via errors.Is.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError is returned when a constructor input matches none of
// the recognized shapes. No wrapper is produced alongside it.
type InvalidArgumentError struct {
	// Constructor names the failing entry point, e.g. "ee.Date".
	Constructor string

	// Param names the offending parameter when it is not the main input.
	Param string

	// Value is the offending value.
	Value any

	// Reason is an optional clarification.
	Reason string
}

// Error implements the error interface.
func (e *InvalidArgumentError) Error() string {
	call := e.Constructor + "()"
	if e.Param != "" {
		call = fmt.Sprintf("%s(..., %s)", e.Constructor, e.Param)
	}
	msg := fmt.Sprintf("invalid argument specified for %s: %v", call, e.Value)
	if e.Reason != "" {
		msg += " (" + e.Reason + ")"
	}
	return msg
}

// Is makes errors.Is(err, ErrInvalidArgument) succeed.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

func invalidArgument(constructor string, value any) *InvalidArgumentError {
	return &InvalidArgumentError{Constructor: constructor, Value: value}
}
