package tui

// Option applies a configuration option to the View.
type Option func(*View)

// WithConfetti sets the particle system.
func WithConfetti(c *Confetti) Option {
	return func(v *View) {
		if c != nil {
			v.confetti = c
		}
	}
}

// WithStatus sets the provider of the status panel content. It is called on
// every Present.
func WithStatus(fn func() Status) Option {
	return func(v *View) {
		if fn != nil {
			v.status = fn
		}
	}
}
