package tui

import (
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/okian/spinwheel/internal/domain/spin"
)

// Confetti tuning. Positions are in virtual pixels; one cell is
// pixelsPerCol wide and pixelsPerRow tall.
const (
	ConfettiCount = 150

	minGravity = 0.2
	maxGravity = 0.5
	minLife    = 80
	maxLife    = 140
	minSpeed   = 2.0
	maxSpeed   = 9.0

	pixelsPerCol = 8.0
	pixelsPerRow = 16.0
)

var confettiRunes = []rune{'*', '•', '▪', '+', '~'} //nolint:gochecknoglobals // immutable glyph set

type particle struct {
	x, y    float64
	vx, vy  float64
	gravity float64
	life    int
	maxLife int
	color   tcell.Color
	glyph   rune
}

// Confetti is a frame-stepped particle burst. It is not safe for concurrent
// use; drive it from the frame loop.
type Confetti struct {
	rng       spin.RNG
	particles []particle
}

// NewConfetti creates an idle particle system.
func NewConfetti(rng spin.RNG) *Confetti {
	if rng == nil {
		rng = spin.DefaultRNG()
	}
	return &Confetti{rng: rng}
}

// Burst fires ConfettiCount particles from cell (x, y).
func (c *Confetti) Burst(x, y float64) {
	px, py := x*pixelsPerCol, y*pixelsPerRow
	for i := 0; i < ConfettiCount; i++ {
		dir := c.rng.Float64() * spin.TwoPi
		speed := minSpeed + c.rng.Float64()*(maxSpeed-minSpeed)
		life := minLife + c.rng.IntN(maxLife-minLife+1)
		c.particles = append(c.particles, particle{
			x:       px,
			y:       py,
			vx:      math.Cos(dir) * speed,
			vy:      math.Sin(dir)*speed - speed/2,
			gravity: minGravity + c.rng.Float64()*(maxGravity-minGravity),
			life:    life,
			maxLife: life,
			color:   hueColor(c.rng.Float64() * 360),
			glyph:   confettiRunes[c.rng.IntN(len(confettiRunes))],
		})
	}
}

// Animating reports whether any particle is still alive.
func (c *Confetti) Animating() bool { return len(c.particles) > 0 }

// Len returns the number of live particles.
func (c *Confetti) Len() int { return len(c.particles) }

// Step advances every particle by one frame and drops dead ones.
func (c *Confetti) Step() {
	alive := c.particles[:0]
	for _, p := range c.particles {
		p.vy += p.gravity
		p.vx *= 0.99
		p.x += p.vx
		p.y += p.vy
		p.life--
		if p.life > 0 {
			alive = append(alive, p)
		}
	}
	c.particles = alive
}

// Draw paints the live particles. Particles fade to dim once they pass the
// last quarter of their life.
func (c *Confetti) Draw(s Surface) {
	w, h := s.Size()
	for _, p := range c.particles {
		x := int(p.x / pixelsPerCol)
		y := int(p.y / pixelsPerRow)
		if x < 0 || y < 0 || x >= w || y >= h {
			continue
		}
		style := tcell.StyleDefault.Foreground(p.color)
		if p.life*4 < p.maxLife {
			style = style.Dim(true)
		}
		s.SetContent(x, y, p.glyph, nil, style)
	}
}
