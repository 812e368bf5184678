// Package harness runs YAML scenarios that build client values and check
// how they encode.
//
// # Scenario Format
//
//	name: scenario_name
//	description: "What this scenario validates"
//	catalogs:
//	  - path/to/extra_functions.cue
//	values:
//	  - name: start
//	    date: { time: "2024-01-01T00:00:00Z" }
//	  - name: later
//	    call: { receiver: start, method: advance, args: [1, "day"], cast: date }
//	  - name: both
//	    list: { items: ["$start", "$later"] }
//	  - name: bad
//	    date: { value: true }
//	    expect_error: "invalid argument"
//	result: both
//	expect:
//	  legacy: { ... }
//	  cloud: { ... }
//	assertions:
//	  - type: function
//	    value: later
//	    function: Date.advance
//
// A string argument of the form "$name" refers to an earlier value; "$$"
// escapes a literal dollar sign.
//
// # Value Steps
//
//   - date: ee.NewDateInZone from value or an RFC 3339 time, with tz
//   - list: ee.NewList from items or a single value
//   - call: a method of a Date or List value, optionally cast back
//   - variable: a bound variable placeholder
//
// # Assertion Types
//
//   - function: the value is an invocation of the named function
//   - args: the invocation arguments contain the given values (subset match)
//   - literal: the value is, or is not, a literal list
//   - error: constructing the value failed with a message containing text
//
// # Deterministic Testing
//
// Every run uses a fresh function registry seeded with the builtins and the
// scenario catalogs, so scenarios do not see each other's functions. The
// registry is process-wide state: Run must not be called concurrently.
// Encodings are canonical JSON, so golden files are byte-stable.
package harness
