package sound

import (
	"time"

	"github.com/gopxl/beep"

	"github.com/okian/spinwheel/pkg/logger"
)

// Option applies a configuration option to the Click.
type Option func(*Click)

// WithSampleRate sets the speaker sample rate.
func WithSampleRate(rate beep.SampleRate) Option {
	return func(c *Click) {
		if rate > 0 {
			c.rate = rate
		}
	}
}

// WithFrequency sets the click pitch in Hz.
func WithFrequency(hz float64) Option {
	return func(c *Click) {
		if hz > 0 {
			c.freq = hz
		}
	}
}

// WithLength sets the click duration.
func WithLength(d time.Duration) Option {
	return func(c *Click) {
		if d > 0 {
			c.length = d
		}
	}
}

// WithVolume sets the peak amplitude in (0, 1].
func WithVolume(v float64) Option {
	return func(c *Click) {
		if v > 0 && v <= 1 {
			c.volume = v
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Click) {
		if l != nil {
			c.logger = l
		}
	}
}
