package computed

import (
	"maps"
	"slices"

	"github.com/roach88/eegraph/internal/ir"
)

// Function is the operation named by an Invocation.
type Function interface {
	// Name is the remote operation name, e.g. "Date.advance".
	Name() string
	// ReturnType is the type the operation declares it returns.
	ReturnType() string
}

// Shape is a sealed interface over the three node shapes.
// Only Invocation, Variable, and Literal implement it.
type Shape interface {
	shape()
}

// Invocation calls Func with Args. Argument values may be raw scalars,
// strings, time values, slices, maps, or other Objects.
type Invocation struct {
	Func Function
	Args map[string]any
}

func (Invocation) shape() {}

// ArgNames returns the argument names in sorted order.
func (i Invocation) ArgNames() []string {
	return sortedKeys(i.Args)
}

// Variable is a placeholder resolved by an enclosing remote scope.
type Variable struct {
	Name string
}

func (Variable) shape() {}

// Literal is a container value known in full on the client.
type Literal struct {
	Elements []any
}

func (Literal) shape() {}

// CloneShape returns s with its argument map or element slice copied, so
// the result can be handed out without exposing the holder's storage.
// Argument values and elements themselves are shared.
func CloneShape(s Shape) Shape {
	switch s := s.(type) {
	case Invocation:
		return Invocation{Func: s.Func, Args: maps.Clone(s.Args)}
	case Literal:
		return Literal{Elements: slices.Clone(s.Elements)}
	default:
		return s
	}
}

// Encoder encodes one value into the legacy graph format.
type Encoder func(v any) (ir.Value, error)

// CloudEncoder encodes one value into the cloud value table and returns
// the reference key under which it was stored.
type CloudEncoder func(v any) (string, error)

// Encodable is implemented by everything the serializer can walk.
type Encodable interface {
	Encode(enc Encoder) (ir.Value, error)
	EncodeCloudValue(enc CloudEncoder) (ir.Value, error)
}

// Object is a graph value: something with a Shape that knows how to
// encode itself. Node and every typed wrapper implement it.
type Object interface {
	Encodable
	Shape() Shape
}
