// Package timeconv converts client time values to the integer timestamps
// used on the wire.
package timeconv

import "time"

// Microseconds returns the number of microseconds between the Unix epoch
// and t. Sub-microsecond precision is truncated toward the epoch.
func Microseconds(t time.Time) int64 {
	return t.UnixMicro()
}

// FloorMillis returns floor(us / 1000). Integer division in Go truncates
// toward zero, which would round pre-epoch instants up.
func FloorMillis(us int64) int64 {
	ms := us / 1000
	if us%1000 < 0 {
		ms--
	}
	return ms
}

// Millis returns the whole milliseconds since the Unix epoch for t,
// always rounding down.
func Millis(t time.Time) int64 {
	return FloorMillis(Microseconds(t))
}

// FromMillis returns the UTC time for a millisecond timestamp.
func FromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
