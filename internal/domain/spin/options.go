package spin

import (
	"math"
	"math/rand/v2"
	"time"
)

// Default spin tuning.
const (
	DefaultBaseDuration     = 4000 * time.Millisecond
	DefaultMinDuration      = 600 * time.Millisecond
	DefaultMinSpeed         = 0.02
	DefaultMaxSpeed         = 5.0
	DefaultMinExtraTurns    = 4
	DefaultExtraTurnsSpread = 2
)

// PointerAngle is the fixed pointer position (top of the wheel).
const PointerAngle = -math.Pi / 2

// Settings tunes spin planning.
type Settings struct {
	// BaseDuration is the animation length at speed 1.
	BaseDuration time.Duration
	// MinDuration floors the animation length at high speeds.
	MinDuration time.Duration
	// MinSpeed and MaxSpeed clamp the speed multiplier.
	MinSpeed float64
	MaxSpeed float64
	// MinExtraTurns full revolutions are always added; up to
	// ExtraTurnsSpread-1 more are drawn at random.
	MinExtraTurns    int
	ExtraTurnsSpread int
	// Pointer is the angle the winning midpoint settles under.
	Pointer float64
}

// DefaultSettings returns the stock tuning.
func DefaultSettings() Settings {
	return Settings{
		BaseDuration:     DefaultBaseDuration,
		MinDuration:      DefaultMinDuration,
		MinSpeed:         DefaultMinSpeed,
		MaxSpeed:         DefaultMaxSpeed,
		MinExtraTurns:    DefaultMinExtraTurns,
		ExtraTurnsSpread: DefaultExtraTurnsSpread,
		Pointer:          PointerAngle,
	}
}

// RNG supplies the randomness for draws and extra turns.
// *math/rand/v2.Rand satisfies it.
type RNG interface {
	// Float64 returns a value in [0, 1).
	Float64() float64
	// IntN returns a value in [0, n).
	IntN(n int) int
}

// globalRNG delegates to the auto-seeded math/rand/v2 source.
type globalRNG struct{}

func (globalRNG) Float64() float64 { return rand.Float64() }
func (globalRNG) IntN(n int) int   { return rand.IntN(n) }

// DefaultRNG returns the auto-seeded source. It is safe for concurrent use.
func DefaultRNG() RNG { return globalRNG{} }

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithSettings replaces the spin tuning.
func WithSettings(s Settings) Option {
	return func(e *Engine) {
		e.settings = s
	}
}

// WithRNG sets the random source.
func WithRNG(rng RNG) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithAngle sets the initial rotation.
func WithAngle(angle float64) Option {
	return func(e *Engine) {
		if !math.IsNaN(angle) && !math.IsInf(angle, 0) {
			e.angle = angle
		}
	}
}
