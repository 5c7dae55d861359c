package spin

import (
	"math"
	"time"

	"github.com/okian/spinwheel/internal/domain/wheel"
)

// TwoPi is one full revolution.
const TwoPi = 2 * math.Pi

// NormalizeAngle maps a into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, TwoPi)
	if a < 0 {
		a += TwoPi
	}
	if a >= TwoPi {
		a = 0
	}
	return a
}

// EaseOutCubic maps linear progress to decelerating progress.
func EaseOutCubic(p float64) float64 {
	q := 1 - p
	return 1 - q*q*q
}

// Interval is the angular span [Start, End) of one segment.
type Interval struct {
	Start float64
	End   float64
}

// Sweep is the angular width of the interval.
func (i Interval) Sweep() float64 { return i.End - i.Start }

// Mid is the angular midpoint of the interval.
func (i Interval) Mid() float64 { return (i.Start + i.End) / 2 }

// Intervals lays segments out around the wheel starting at angle. Each sweep is
// proportional to the clamped weight; zero weight yields an empty interval.
// It returns nil when the total weight is not positive.
func Intervals(segments []wheel.Segment, angle float64) []Interval {
	total := wheel.TotalWeight(segments)
	if total <= 0 {
		return nil
	}
	out := make([]Interval, len(segments))
	start := angle
	for i, s := range segments {
		sweep := s.ClampedWeight() / total * TwoPi
		out[i] = Interval{Start: start, End: start + sweep}
		start += sweep
	}
	return out
}

// Duration converts a speed multiplier into an animation length.
// Non-positive or non-finite speeds count as 1.
func (s Settings) Duration(speed float64) time.Duration {
	speed = wheel.NormalizeSpeed(speed)
	speed = math.Max(s.MinSpeed, math.Min(s.MaxSpeed, speed))
	if speed <= 0 {
		speed = 1
	}
	d := time.Duration(math.Round(float64(s.BaseDuration) / speed))
	if d < s.MinDuration {
		d = s.MinDuration
	}
	return d
}

// boundaryCrossings counts equal-width boundaries passed between prev and
// next. The wheel is split into n equal arcs regardless of weights.
func boundaryCrossings(prev, next float64, n int) int {
	if n < 1 {
		n = 1
	}
	per := TwoPi / float64(n)
	c := int(math.Floor(next/per) - math.Floor(prev/per))
	if c < 0 {
		return -c
	}
	return c
}
