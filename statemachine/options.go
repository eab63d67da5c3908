package statemachine

// Option configures a machine.
type Option func(*options)

type options struct {
	name   string
	logger Logger
}

// WithName names the machine in logs, metrics and spans.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger notified of transition outcomes. Without one
// the machine does not log.
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
