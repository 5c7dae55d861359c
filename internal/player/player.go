package player

import (
	"fmt"

	"github.com/okian/spinwheel/internal/domain/spin"
	"github.com/okian/spinwheel/internal/domain/wheel"
)

// Player binds a wheel to a runner. Like the runner it must be used from the
// clock's loop only.
type Player struct {
	wheel  *wheel.Wheel
	runner *Runner
	rng    wheel.RNG
}

// New creates a player for w and paints it once.
func New(w *wheel.Wheel, r *Runner, opts ...PlayerOption) *Player {
	p := &Player{wheel: w, runner: r, rng: spin.DefaultRNG()}
	for _, opt := range opts {
		opt(p)
	}
	p.redraw()
	return p
}

// Wheel returns the hosted wheel.
func (p *Player) Wheel() *wheel.Wheel { return p.wheel }

// Runner returns the spin runner.
func (p *Player) Runner() *Runner { return p.runner }

// Spin spins the active layer at the wheel's speed. An empty or weightless
// layer is a no-op and reports false.
func (p *Player) Spin() bool {
	l := p.wheel.ActiveLayer()
	return p.runner.Spin(l.Segments, p.wheel.Speed, l.Name)
}

// SwitchLayer changes the active layer. It is refused while a spin is in
// flight so the revealed winner always belongs to the visible layer.
func (p *Player) SwitchLayer(i int) error {
	if p.runner.Spinning() {
		return fmt.Errorf("switch layer: %w", ErrSpinInProgress)
	}
	if err := p.wheel.SwitchLayer(i); err != nil {
		return err
	}
	p.redraw()
	return nil
}

// Load replaces the hosted wheel. Refused while a spin is in flight.
func (p *Player) Load(w *wheel.Wheel) error {
	if p.runner.Spinning() {
		return fmt.Errorf("load wheel: %w", ErrSpinInProgress)
	}
	p.wheel = w
	p.redraw()
	return nil
}

// AddSegment appends a segment to the active layer.
func (p *Player) AddSegment(text string, weight float64, color string) {
	p.wheel.AddSegment(p.rng, text, weight, color)
	p.redraw()
}

// AddDefaults appends the starter options.
func (p *Player) AddDefaults() {
	p.wheel.AddDefaults(p.rng)
	p.redraw()
}

// UpdateSegment replaces segment i.
func (p *Player) UpdateSegment(i int, s wheel.Segment) error {
	if err := p.wheel.UpdateSegment(i, s); err != nil {
		return err
	}
	p.redraw()
	return nil
}

// RemoveSegment deletes segment i.
func (p *Player) RemoveSegment(i int) error {
	if err := p.wheel.RemoveSegment(i); err != nil {
		return err
	}
	p.redraw()
	return nil
}

// DuplicateSegment appends a copy of segment i.
func (p *Player) DuplicateSegment(i int) error {
	if err := p.wheel.DuplicateSegment(i); err != nil {
		return err
	}
	p.redraw()
	return nil
}

// Clear empties the active layer.
func (p *Player) Clear() {
	p.wheel.Clear()
	p.redraw()
}

// ShuffleColors recolors the active layer.
func (p *Player) ShuffleColors() {
	p.wheel.ShuffleColors(p.rng)
	p.redraw()
}

// SetSpeed changes the speed multiplier used by later spins.
func (p *Player) SetSpeed(speed float64) {
	p.wheel.SetSpeed(speed)
}

func (p *Player) redraw() {
	p.runner.Redraw(p.wheel.ActiveSegments())
}
