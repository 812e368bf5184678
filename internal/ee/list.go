package ee

import (
	"slices"

	"github.com/roach88/eegraph/internal/apifunc"
	"github.com/roach88/eegraph/internal/computed"
	"github.com/roach88/eegraph/internal/ir"
)

const listConstructorName = "ee.List"

// List is a graph value that evaluates to a list. It holds either a
// client-known literal or the invocation/variable of another object.
type List struct {
	shape computed.Shape
}

// NewList wraps v as a List. A slice or array becomes a literal without any
// remote construction step; a graph object is taken over as-is, without
// checking what it declares to return.
func NewList(v any) (*List, error) {
	listType.ensure()

	in := Classify(v)
	switch in.Kind {
	case KindSequence:
		return &List{shape: computed.Literal{Elements: in.Sequence}}, nil

	case KindObject:
		shape := computed.CloneShape(in.Object.Shape())
		if inv, ok := shape.(computed.Invocation); ok && inv.Func == nil {
			return nil, invalidArgument(listConstructorName, in.Raw)
		}
		return &List{shape: shape}, nil

	default:
		return nil, invalidArgument(listConstructorName, in.Raw)
	}
}

// MustList is like NewList but panics on error.
// Use only in tests or with literal inputs.
func MustList(v any) *List {
	l, err := NewList(v)
	if err != nil {
		panic(err)
	}
	return l
}

// Name returns the wrapper type name.
func (*List) Name() string {
	return apifunc.TypeList
}

// Shape implements computed.Object. Arguments and literal elements are
// copied.
func (l *List) Shape() computed.Shape {
	return computed.CloneShape(l.shape)
}

// Elements returns a copy of the literal elements. ok is false when the
// list is an invocation or variable.
func (l *List) Elements() (elems []any, ok bool) {
	lit, ok := l.shape.(computed.Literal)
	if !ok {
		return nil, false
	}
	return slices.Clone(lit.Elements), true
}

// IsLiteral reports whether the list is known on the client.
func (l *List) IsLiteral() bool {
	_, ok := l.shape.(computed.Literal)
	return ok
}

// Encode implements computed.Encodable. A literal encodes each element
// through enc in order; anything else uses the default node encoding.
func (l *List) Encode(enc computed.Encoder) (ir.Value, error) {
	lit, ok := l.shape.(computed.Literal)
	if !ok {
		return computed.EncodeShape(l.shape, enc)
	}
	out := make(ir.Array, len(lit.Elements))
	for i, elem := range lit.Elements {
		v, err := enc(elem)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// EncodeCloudValue implements computed.Encodable. A literal hands the whole
// element sequence to enc once and wraps the returned key in a value
// reference; anything else uses the default node encoding.
func (l *List) EncodeCloudValue(enc computed.CloudEncoder) (ir.Value, error) {
	lit, ok := l.shape.(computed.Literal)
	if !ok {
		return computed.EncodeCloudShape(l.shape, enc)
	}
	ref, err := enc(lit.Elements)
	if err != nil {
		return nil, err
	}
	return computed.ValueReference(ref), nil
}

// String renders the list for diagnostics.
func (l *List) String() string {
	return "ee.List<" + computed.Describe(l.shape) + ">"
}

// Call invokes the imported List method with l as its first argument.
func (l *List) Call(method string, args ...any) (*computed.Node, error) {
	m, err := listType.method(method)
	if err != nil {
		return nil, err
	}
	return m.Bind(l, args...)
}

// Get returns a node evaluating to the element at index.
func (l *List) Get(index any) (*computed.Node, error) {
	return l.Call("get", index)
}

// Size returns a node evaluating to the number of elements.
func (l *List) Size() (*computed.Node, error) {
	return l.Call("size")
}

// Add returns a List with element appended.
func (l *List) Add(element any) (*List, error) {
	return l.listCall("add", element)
}

// Cat returns a List with the elements of other appended.
func (l *List) Cat(other any) (*List, error) {
	o, err := NewList(other)
	if err != nil {
		return nil, err
	}
	return l.listCall("cat", o)
}

// Reverse returns a List with the elements in reverse order.
func (l *List) Reverse() (*List, error) {
	return l.listCall("reverse")
}

func (l *List) listCall(method string, args ...any) (*List, error) {
	n, err := l.Call(method, args...)
	if err != nil {
		return nil, err
	}
	return NewList(n)
}

// ListSequence builds a List of numbers from start to end (inclusive)
// through the static List.sequence method. end and step may be nil.
func ListSequence(start, end, step any) (*List, error) {
	m, err := listType.method("sequence")
	if err != nil {
		return nil, err
	}
	n, err := m.Bind(nil, start, end, step)
	if err != nil {
		return nil, err
	}
	return NewList(n)
}
