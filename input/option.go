package input

import (
	"os"

	"github.com/ardnew/apibody/log"
)

type options struct {
	environ []string
	logger  log.Logger
}

// Option configures reading and evaluating inputs.
type Option func(*options)

// WithEnviron sets the "KEY=VALUE" entries visible to the env() function of
// assignment expressions. The process environment is used by default.
func WithEnviron(environ []string) Option {
	return func(o *options) {
		o.environ = environ
	}
}

// WithLogger sets the logger for trace messages.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func makeOptions(opts ...Option) options {
	var o options

	for _, opt := range opts {
		opt(&o)
	}

	if o.environ == nil {
		o.environ = os.Environ()
	}

	return o
}
