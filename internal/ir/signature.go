package ir

import (
	"fmt"
	"regexp"
	"strings"
)

// FunctionSig describes one remote operation: its name, the type it
// declares it returns, and its ordered arguments.
type FunctionSig struct {
	Name        string   `json:"name"`
	Returns     string   `json:"returns"`
	Args        []ArgSig `json:"args"`
	Description string   `json:"description,omitempty"`
	Deprecated  string   `json:"deprecated,omitempty"` // Deprecation note, empty when current
}

// ArgSig describes one named argument of a remote operation.
type ArgSig struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Optional bool   `json:"optional,omitempty"`
}

var (
	functionNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(\.[A-Za-z][A-Za-z0-9_]*)*$`)
	typeNamePattern     = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(<[A-Za-z0-9_<>, ]+>)?$`)
	argNamePattern      = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidationError represents a validation error with field path and message.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a signature against the catalog rules.
// Returns all errors (not fail-fast).
func (s *FunctionSig) Validate() []ValidationError {
	var errs []ValidationError

	if !functionNamePattern.MatchString(s.Name) {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("invalid function name %q", s.Name),
		})
	}

	if !typeNamePattern.MatchString(s.Returns) {
		errs = append(errs, ValidationError{
			Field:   "returns",
			Message: fmt.Sprintf("invalid return type %q", s.Returns),
		})
	}

	seen := make(map[string]bool)
	sawOptional := false
	for i, arg := range s.Args {
		if !argNamePattern.MatchString(arg.Name) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("args[%d].name", i),
				Message: fmt.Sprintf("invalid argument name %q", arg.Name),
			})
		}
		if seen[arg.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("args[%d].name", i),
				Message: fmt.Sprintf("duplicate argument name %q", arg.Name),
			})
		}
		seen[arg.Name] = true

		if !typeNamePattern.MatchString(arg.Type) {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("args[%d].type", i),
				Message: fmt.Sprintf("invalid type %q for argument %q", arg.Type, arg.Name),
			})
		}

		if arg.Optional {
			sawOptional = true
		} else if sawOptional {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("args[%d].optional", i),
				Message: fmt.Sprintf("required argument %q follows an optional one", arg.Name),
			})
		}
	}

	return errs
}

// Receiver returns the type prefix of a method-style name
// ("Date.advance" gives "Date") and the bare method name.
// ok is false for names without a prefix.
func (s *FunctionSig) Receiver() (typeName, method string, ok bool) {
	i := strings.LastIndexByte(s.Name, '.')
	if i < 0 {
		return "", s.Name, false
	}
	return s.Name[:i], s.Name[i+1:], true
}

// value renders the signature as a wire Object for digests.
func (s FunctionSig) value() Object {
	args := make(Array, len(s.Args))
	for i, a := range s.Args {
		args[i] = Object{
			"name":     String(a.Name),
			"type":     String(a.Type),
			"optional": Bool(a.Optional),
		}
	}
	obj := Object{
		"name":    String(s.Name),
		"returns": String(s.Returns),
		"args":    args,
	}
	if s.Description != "" {
		obj["description"] = String(s.Description)
	}
	if s.Deprecated != "" {
		obj["deprecated"] = String(s.Deprecated)
	}
	return obj
}
