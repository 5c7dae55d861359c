package player

import (
	"github.com/okian/spinwheel/internal/domain/spin"
	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/pkg/logger"
)

// Option applies a configuration option to the Runner.
type Option func(*Runner)

// WithRenderer sets the wheel renderer.
func WithRenderer(r Renderer) Option {
	return func(rn *Runner) {
		if r != nil {
			rn.renderer = r
		}
	}
}

// WithParticleBurst sets the reveal effect.
func WithParticleBurst(b ParticleBurst) Option {
	return func(rn *Runner) {
		if b != nil {
			rn.burst = b
		}
	}
}

// WithBurstOrigin sets where the reveal effect is fired. The function is
// called at reveal time so it can follow screen resizes.
func WithBurstOrigin(origin func() (x, y float64)) Option {
	return func(rn *Runner) {
		if origin != nil {
			rn.origin = origin
		}
	}
}

// WithTickSound sets the boundary click.
func WithTickSound(t TickSound) Option {
	return func(rn *Runner) {
		if t != nil {
			rn.tick = t
		}
	}
}

// WithWinnerDisplay sets the winner banner.
func WithWinnerDisplay(d WinnerDisplay) Option {
	return func(rn *Runner) {
		if d != nil {
			rn.winner = d
		}
	}
}

// WithEngine sets the spin engine.
func WithEngine(e *spin.Engine) Option {
	return func(rn *Runner) {
		if e != nil {
			rn.engine = e
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(rn *Runner) {
		if l != nil {
			rn.logger = l
		}
	}
}

// PlayerOption applies a configuration option to the Player.
type PlayerOption func(*Player)

// WithRNG sets the randomness used for new segment colors.
func WithRNG(rng wheel.RNG) PlayerOption {
	return func(p *Player) {
		if rng != nil {
			p.rng = rng
		}
	}
}
