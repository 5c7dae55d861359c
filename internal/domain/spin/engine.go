// Package spin implements the wheel spin engine: weighted outcome selection,
// target angle planning and the frame-by-frame settle animation.
//
// The Engine is a two-state machine (Idle, Spinning). Spin starts a new
// generation and returns a Ticket; the host calls Advance with that ticket's
// token on every frame until the returned Frame is Done. Starting another spin
// makes older tokens stale, and Advance with a stale token changes nothing.
// The Engine is not safe for concurrent use; drive it from one loop.
package spin

import (
	"math"
	"time"

	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/pkg/epoch"
)

// Phase is the engine state.
type Phase int

// Engine phases.
const (
	Idle Phase = iota
	Spinning
)

func (p Phase) String() string {
	if p == Spinning {
		return "spinning"
	}
	return "idle"
}

// Ticket identifies a started spin.
type Ticket struct {
	Token     epoch.Token
	Plan      Plan
	StartedAt time.Time
}

// Frame is the outcome of advancing a spin to a point in time.
type Frame struct {
	Token    epoch.Token
	Angle    float64
	Progress float64
	// Segments is the layout the spin was started with.
	Segments []wheel.Segment
	// Ticks counts boundary crossings since the previous frame.
	Ticks int
	// Reveal is set on exactly one frame per spin.
	Reveal bool
	Winner int
	Done   bool
}

type spinState struct {
	ticket   Ticket
	segments []wheel.Segment
	revealed bool
	done     bool
}

// Engine owns the wheel rotation and the in-flight spin.
type Engine struct {
	settings Settings
	rng      RNG
	gen      epoch.Counter

	angle  float64
	phase  Phase
	active *spinState
}

// NewEngine creates an idle engine at rotation zero.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		settings: DefaultSettings(),
		rng:      globalRNG{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Angle returns the current rotation.
func (e *Engine) Angle() float64 { return e.angle }

// Phase returns the engine state.
func (e *Engine) Phase() Phase { return e.phase }

// Spinning reports whether a spin is in flight.
func (e *Engine) Spinning() bool { return e.Phase() == Spinning }

// Spin starts a new spin over a snapshot of segments, superseding any spin
// in flight. It returns false and leaves all state untouched when segments
// are empty or carry no weight.
func (e *Engine) Spin(segments []wheel.Segment, speed float64, now time.Time) (Ticket, bool) {
	plan, ok := NewPlan(segments, e.angle, speed, e.rng, e.settings)
	if !ok {
		return Ticket{}, false
	}
	return e.start(segments, plan, now), true
}

// SpinTo starts a spin with a predetermined winner, for replaying outcomes
// drawn elsewhere. It returns false when winner is out of range or has no
// weight.
func (e *Engine) SpinTo(segments []wheel.Segment, winner int, speed float64, now time.Time) (Ticket, bool) {
	if winner < 0 || winner >= len(segments) || segments[winner].ClampedWeight() <= 0 {
		return Ticket{}, false
	}
	plan := planFor(segments, winner, -1, e.angle, speed, e.rng, e.settings)
	return e.start(segments, plan, now), true
}

func (e *Engine) start(segments []wheel.Segment, plan Plan, now time.Time) Ticket {
	snap := make([]wheel.Segment, len(segments))
	copy(snap, segments)

	t := Ticket{Token: e.gen.Next(), Plan: plan, StartedAt: now}
	e.active = &spinState{ticket: t, segments: snap}
	e.phase = Spinning
	return t
}

// Advance moves the spin identified by token to time now. It returns false,
// without touching any state, when token is stale or its spin has finished.
func (e *Engine) Advance(token epoch.Token, now time.Time) (Frame, bool) {
	st := e.active
	if !e.gen.Valid(token) || st == nil || st.ticket.Token != token || st.done {
		return Frame{}, false
	}
	plan := st.ticket.Plan

	p := 1.0
	if plan.Duration > 0 {
		p = float64(now.Sub(st.ticket.StartedAt)) / float64(plan.Duration)
	}
	p = math.Max(0, math.Min(1, p))

	prev := e.angle
	e.angle = plan.Prior + (plan.Target-plan.Prior)*EaseOutCubic(p)

	f := Frame{
		Token:    token,
		Angle:    e.angle,
		Progress: p,
		Segments: st.segments,
		Ticks:    boundaryCrossings(prev, e.angle, len(st.segments)),
		Winner:   plan.Winner,
	}

	if !st.revealed && e.angle >= plan.Entry {
		st.revealed = true
		f.Reveal = true
	}

	if p >= 1 {
		st.done = true
		e.phase = Idle
		f.Done = true
		if !st.revealed {
			st.revealed = true
			f.Reveal = true
		}
	}
	return f, true
}
