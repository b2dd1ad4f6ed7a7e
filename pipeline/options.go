package pipeline

import "github.com/hupe1980/sparsego"

type options struct {
	logger     *sparsego.Logger
	maxWorkers int
}

// Option configures pipeline execution.
type Option func(*options)

// WithLogger sets the logger used for stage and commit lifecycle events.
// The default discards all output.
func WithLogger(logger *sparsego.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMaxWorkers caps the number of concurrent tile workers. Zero or
// negative defers to the sizing model's default.
func WithMaxWorkers(n int) Option {
	return func(o *options) {
		o.maxWorkers = n
	}
}
