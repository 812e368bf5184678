// Package ee implements the typed wrappers callers use to describe values
// for the remote evaluation engine: Date and List.
//
// Every constructor classifies its input once (Classify) and then switches
// on the resulting Kind:
//
//	Kind          NewDate                         NewList
//	KindTime      Date(value=floor millis)        invalid argument
//	KindNumber    Date(value=n)                   invalid argument
//	KindString    Date(value=s[, timeZone=tz])    invalid argument
//	KindObject    cast if it returns Date,        copy its shape verbatim
//	              else Date(value=obj)
//	KindSequence  invalid argument                literal, no invocation
//
// A Date never wraps another Date-returning invocation, so chains of
// Date(Date(...)) collapse to the inner node. A List built from a client
// slice keeps the slice as a literal and encodes it value by value instead
// of asking the engine to construct it.
//
// Each type imports its remote methods from an apifunc.Registry on first
// use. Initialize and Reset control that registration explicitly; both are
// idempotent and independent across types.
package ee
