package schema

import (
	"github.com/ardnew/apibody/log"
)

// DefaultMaxDepth is the default maximum nesting depth of Map and List bodies.
// Users may modify this before compiling to change the default.
var DefaultMaxDepth = 100

// options holds compiler configuration.
type options struct {
	maxDepth int
	logger   log.Logger // zero value discards all messages
}

// Option configures parsing or building behavior.
type Option func(*options)

// WithMaxDepth sets the maximum nesting depth of Map and List bodies.
// A depth less than 1 disables the limit.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func makeOptions(opts ...Option) options {
	o := options{maxDepth: DefaultMaxDepth}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}
