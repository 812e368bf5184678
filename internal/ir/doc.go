// Package ir provides the wire value types shared by both graph encodings.
//
// This package contains value and signature definitions only. All other
// internal packages import ir; ir imports nothing internal. This keeps the
// wire layer at the bottom of the dependency graph.
//
// Key design constraints:
//   - Value is sealed: only Null, String, Int, Float, Bool, Array and Object
//   - Object keys are emitted in RFC 8785 order (UTF-16 code units)
//   - Canonical JSON is the only form used for content digests
//   - NaN and infinities are not representable on the wire
package ir
