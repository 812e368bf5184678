package serializer

import (
	"errors"
	"fmt"
)

// UnsupportedValueError is returned for a raw value the encoders have no
// rule for. Container encoders wrap it with the index or key it was found
// under.
type UnsupportedValueError struct {
	Value any
}

// Error implements the error interface.
func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("serializer: cannot encode value of type %T", e.Value)
}

// IsUnsupportedValue checks if an error is an UnsupportedValueError.
func IsUnsupportedValue(err error) bool {
	var uerr *UnsupportedValueError
	return errors.As(err, &uerr)
}
