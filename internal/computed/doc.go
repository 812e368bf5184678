// Package computed provides the graph node base shared by every typed
// wrapper.
//
// A node holds exactly one Shape:
//
//	Invocation  a remote operation plus its named arguments
//	Variable    a placeholder bound by an enclosing remote scope
//	Literal     a client-known container (only held by container wrappers)
//
// Nodes are immutable after construction. Argument maps and literal
// slices handed out by accessors are copies; the maps inside a Shape value
// are shared between casts and must be treated as read-only.
//
// The default encoders here produce the legacy graph format and the
// self-describing cloud format for Invocation and Variable shapes. The
// Encoder and CloudEncoder callbacks are supplied by the serializer, which
// owns recursion, scoping and deduplication.
package computed
