package serializer

import "log/slog"

type options struct {
	compound bool
	optimize bool
	logger   *slog.Logger
}

// Option configures an encoding call.
type Option func(*options)

// WithCompound turns legacy scope hoisting on or off. Default: on.
func WithCompound(compound bool) Option {
	return func(o *options) {
		o.compound = compound
	}
}

// WithOptimize turns cloud reference inlining on or off. Default: on.
func WithOptimize(optimize bool) Option {
	return func(o *options) {
		o.optimize = optimize
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{compound: true, optimize: true}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
