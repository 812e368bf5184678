package computed

import (
	"fmt"
	"maps"

	"github.com/roach88/eegraph/internal/ir"
)

// Node is the base graph node. Its shape is always an Invocation or a
// Variable; container literals live on their typed wrapper instead.
type Node struct {
	shape Shape
}

// NewInvocation creates a node that calls fn with args.
// The args map is copied; fn must not be nil.
func NewInvocation(fn Function, args map[string]any) *Node {
	if fn == nil {
		panic("computed: NewInvocation with nil function")
	}
	return &Node{shape: Invocation{Func: fn, Args: maps.Clone(args)}}
}

// NewVariable creates a placeholder node bound by an enclosing scope.
func NewVariable(name string) *Node {
	return &Node{shape: Variable{Name: name}}
}

// FromShape creates a node holding s. It fails for a Literal, which only
// container wrappers may hold.
func FromShape(s Shape) (*Node, error) {
	switch s := s.(type) {
	case Invocation:
		return NewInvocation(s.Func, s.Args), nil
	case Variable:
		return NewVariable(s.Name), nil
	default:
		return nil, fmt.Errorf("computed: node cannot hold shape %T", s)
	}
}

// Shape returns a copy of the node's shape.
func (n *Node) Shape() Shape {
	return CloneShape(n.shape)
}

// Func returns the invoked function, or nil for a variable.
func (n *Node) Func() Function {
	if inv, ok := n.shape.(Invocation); ok {
		return inv.Func
	}
	return nil
}

// Args returns a copy of the invocation arguments, or nil for a variable.
func (n *Node) Args() map[string]any {
	if inv, ok := n.shape.(Invocation); ok {
		return maps.Clone(inv.Args)
	}
	return nil
}

// VarName returns the bound variable name, or "" for an invocation.
func (n *Node) VarName() string {
	if v, ok := n.shape.(Variable); ok {
		return v.Name
	}
	return ""
}

// IsVariable reports whether the node is a bound variable.
func (n *Node) IsVariable() bool {
	_, ok := n.shape.(Variable)
	return ok
}

// Encode implements Encodable with the default legacy encoding.
func (n *Node) Encode(enc Encoder) (ir.Value, error) {
	return EncodeShape(n.shape, enc)
}

// EncodeCloudValue implements Encodable with the default cloud encoding.
func (n *Node) EncodeCloudValue(enc CloudEncoder) (ir.Value, error) {
	return EncodeCloudShape(n.shape, enc)
}

// String renders the node for diagnostics.
func (n *Node) String() string {
	return Describe(n.shape)
}

// Describe renders a shape for diagnostics and error messages.
func Describe(s Shape) string {
	switch s := s.(type) {
	case Invocation:
		return fmt.Sprintf("%s(%v)", s.Func.Name(), s.ArgNames())
	case Variable:
		return fmt.Sprintf("var(%s)", s.Name)
	case Literal:
		return fmt.Sprintf("literal[%d]", len(s.Elements))
	default:
		return fmt.Sprintf("%T", s)
	}
}
