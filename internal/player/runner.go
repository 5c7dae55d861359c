package player

import (
	"context"
	"time"

	"github.com/okian/spinwheel/internal/domain/spin"
	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/pkg/epoch"
	"github.com/okian/spinwheel/pkg/logger"
)

// Runner drives a spin engine through a Clock. Every method, and every frame
// callback it schedules, must run on the clock's loop.
type Runner struct {
	clock    Clock
	engine   *spin.Engine
	renderer Renderer
	burst    ParticleBurst
	origin   func() (float64, float64)
	tick     TickSound
	winner   WinnerDisplay
	logger   logger.Logger

	layer string
}

// NewRunner creates a runner with no-op collaborators unless overridden.
func NewRunner(clock Clock, opts ...Option) *Runner {
	r := &Runner{
		clock:    clock,
		engine:   spin.NewEngine(),
		renderer: nopRenderer{},
		burst:    nopBurst{},
		origin:   func() (float64, float64) { return 0, 0 },
		tick:     nopTick{},
		winner:   nopWinner{},
		logger:   logger.Get().Named("player"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Spinning reports whether a spin is in flight.
func (r *Runner) Spinning() bool { return r.engine.Spinning() }

// Redraw paints the wheel at its current rotation. While a spin is in flight
// the next frame repaints anyway, so this is a no-op.
func (r *Runner) Redraw(segments []wheel.Segment) {
	if r.engine.Spinning() {
		return
	}
	r.renderer.Draw(r.engine.Angle(), segments)
}

// Spin starts a spin over segments, superseding any spin in flight. layer is
// reported with the winner. It returns false when there is nothing to spin.
func (r *Runner) Spin(segments []wheel.Segment, speed float64, layer string) bool {
	ticket, ok := r.engine.Spin(segments, speed, r.clock.Now())
	if !ok {
		return false
	}
	r.begin(ticket, layer)
	return true
}

// SpinTo replays a spin to a known winner.
func (r *Runner) SpinTo(segments []wheel.Segment, winner int, speed float64, layer string) bool {
	ticket, ok := r.engine.SpinTo(segments, winner, speed, r.clock.Now())
	if !ok {
		return false
	}
	r.begin(ticket, layer)
	return true
}

func (r *Runner) begin(ticket spin.Ticket, layer string) {
	r.layer = layer
	r.winner.HideWinner()
	r.logger.Debug(context.Background(), "spin started",
		logger.Any("token", ticket.Token),
		logger.Int("winner", ticket.Plan.Winner),
		logger.Float64("target", ticket.Plan.Target),
		logger.Any("duration", ticket.Plan.Duration),
	)
	r.clock.ScheduleNextFrame(r.frame(ticket.Token))
}

// frame returns the self-rescheduling callback for one spin generation.
func (r *Runner) frame(token epoch.Token) func(time.Time) {
	var step func(now time.Time)
	step = func(now time.Time) {
		f, ok := r.engine.Advance(token, now)
		if !ok {
			return
		}
		r.renderer.Draw(f.Angle, f.Segments)

		if f.Reveal {
			r.reveal(f)
		}

		for i := 0; i < f.Ticks; i++ {
			if err := r.tick.Play(); err != nil {
				r.logger.Debug(context.Background(), "tick playback failed", logger.Error(err))
			}
		}

		if !f.Done {
			r.clock.ScheduleNextFrame(step)
		}
	}
	return step
}

func (r *Runner) reveal(f spin.Frame) {
	w := Winner{
		Token:   f.Token,
		Index:   f.Winner,
		Segment: f.Segments[f.Winner],
		Layer:   r.layer,
	}
	r.winner.ShowWinner(w)
	x, y := r.origin()
	r.burst.Burst(x, y)
	r.logger.Info(context.Background(), "winner revealed",
		logger.String("text", w.Segment.Text),
		logger.String("layer", w.Layer),
		logger.Float64("progress", f.Progress),
	)
}
