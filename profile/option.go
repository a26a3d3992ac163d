//go:build pprof

package profile

// Option applies a single configuration option to a control.
type Option func(control) control

// apply folds the given options over a control.
func apply(c control, opts ...Option) control {
	for _, opt := range opts {
		c = opt(c)
	}

	return c
}

// newControl creates a control configured with the provided options.
func newControl(opts ...Option) control {
	var c control

	return apply(c, opts...)
}
