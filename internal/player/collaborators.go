// Package player hosts a wheel: it drives the spin engine frame by frame and
// forwards the results to rendering, sound and effect collaborators.
package player

import (
	"time"

	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/pkg/epoch"
)

// Renderer paints the wheel. It must cope with empty or all-zero segments by
// drawing a plain disc.
type Renderer interface {
	Draw(angle float64, segments []wheel.Segment)
}

// ParticleBurst fires a one-shot celebration effect at a screen position.
type ParticleBurst interface {
	Burst(x, y float64)
}

// TickSound plays the boundary click. Errors are logged and dropped.
type TickSound interface {
	Play() error
}

// WinnerDisplay shows and hides the winner banner.
type WinnerDisplay interface {
	ShowWinner(w Winner)
	HideWinner()
}

// Clock supplies timestamps and next-frame scheduling. Callbacks run on the
// host loop, one at a time.
type Clock interface {
	Now() time.Time
	ScheduleNextFrame(cb func(now time.Time))
}

// Winner is the revealed outcome of a spin.
type Winner struct {
	Token   epoch.Token
	Index   int
	Segment wheel.Segment
	Layer   string
}

type nopRenderer struct{}

func (nopRenderer) Draw(float64, []wheel.Segment) {}

type nopBurst struct{}

func (nopBurst) Burst(float64, float64) {}

type nopTick struct{}

func (nopTick) Play() error { return nil }

type nopWinner struct{}

func (nopWinner) ShowWinner(Winner) {}
func (nopWinner) HideWinner()       {}
