package ir

// Version constants for the wire encodings.
const (
	// WireVersion is the version of the value layout produced by the encoders.
	WireVersion = "1"

	// ClientVersion is the eegraph client version.
	ClientVersion = "0.1.0"
)
