package spin

import (
	"time"

	"github.com/okian/spinwheel/internal/domain/wheel"
)

// Plan describes one spin from the current rotation to its resting angle.
type Plan struct {
	// Winner is the index of the selected segment.
	Winner  int
	Segment wheel.Segment
	// Draw is the raw weighted draw in [0, total), or -1 for a replayed winner.
	Draw float64
	// Prior is the rotation when the spin started.
	Prior float64
	// Interval is where the winner sat at Prior.
	Interval Interval
	// Delta is the forward offset in [0, 2π) that brings the winner's
	// midpoint under the pointer.
	Delta float64
	// Turns is the number of extra full revolutions.
	Turns int
	// Target is the resting rotation.
	Target float64
	// Entry is the rotation at which the pointer reaches the winning wedge
	// on the final approach.
	Entry    float64
	Duration time.Duration
}

// NewPlan draws a winner and computes the animation targets from angle.
// It returns false when segments are empty or carry no weight.
func NewPlan(segments []wheel.Segment, angle, speed float64, rng RNG, s Settings) (Plan, bool) {
	winner, r := Draw(segments, rng)
	if winner < 0 {
		return Plan{}, false
	}
	return planFor(segments, winner, r, angle, speed, rng, s), true
}

func planFor(segments []wheel.Segment, winner int, r, angle, speed float64, rng RNG, s Settings) Plan {
	iv := Intervals(segments, angle)[winner]
	delta := NormalizeAngle(s.Pointer - iv.Mid())

	turns := s.MinExtraTurns
	if s.ExtraTurnsSpread > 0 {
		turns += rng.IntN(s.ExtraTurnsSpread)
	}
	if turns < 0 {
		turns = 0
	}

	target := angle + float64(turns)*TwoPi + delta
	return Plan{
		Winner:   winner,
		Segment:  segments[winner],
		Draw:     r,
		Prior:    angle,
		Interval: iv,
		Delta:    delta,
		Turns:    turns,
		Target:   target,
		Entry:    target - iv.Sweep()/2,
		Duration: s.Duration(speed),
	}
}
