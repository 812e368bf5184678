// Package serializer walks a client expression graph and produces its wire
// form.
//
// Two formats are supported:
//
//   - Legacy: nodes encode to {"type": "Invocation", ...} objects. In
//     compound mode every array and object result is hoisted into a scope
//     keyed by content digest, so a sub-graph that appears many times is
//     written once and referenced with {"type": "ValueRef", "value": n}.
//   - Cloud: every value is stored once in a table and referenced by key,
//     {"result": ref, "values": {ref: value}}. Optimize then inlines the
//     references that are used exactly once.
//
// Both encoders are per-call and hold no shared state. Map keys and
// invocation arguments are visited in sorted order, so the output for a
// given graph is deterministic.
package serializer
