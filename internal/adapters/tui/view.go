package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/internal/player"
)

// HelpLine lists the key bindings shown at the bottom of the screen.
const HelpLine = "space spin  1/2 layer  a add  d dup  x del  c clear  s shuffle  +/- speed  w save  q quit"

// Status is the panel content drawn next to the wheel.
type Status struct {
	Key     string
	Layers  []string
	Active  int
	Speed   float64
	Message string
}

// View composes the wheel, confetti, winner banner and status panel into a
// Screen. It implements player.Renderer, player.WinnerDisplay and
// player.ParticleBurst. Use it from the frame loop only.
type View struct {
	screen   Screen
	confetti *Confetti
	status   func() Status

	angle    float64
	segments []wheel.Segment
	winner   *player.Winner
	dirty    bool
}

// NewView creates a view drawing to screen.
func NewView(screen Screen, opts ...Option) *View {
	v := &View{
		screen: screen,
		status: func() Status { return Status{} },
		dirty:  true,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.confetti == nil {
		v.confetti = NewConfetti(nil)
	}
	return v
}

// Draw records the wheel pose for the next Present.
func (v *View) Draw(angle float64, segments []wheel.Segment) {
	v.angle = angle
	v.segments = segments
	v.dirty = true
}

// ShowWinner shows the banner.
func (v *View) ShowWinner(w player.Winner) {
	v.winner = &w
	v.dirty = true
}

// HideWinner hides the banner.
func (v *View) HideWinner() {
	v.winner = nil
	v.dirty = true
}

// Burst starts confetti at cell (x, y).
func (v *View) Burst(x, y float64) {
	v.confetti.Burst(x, y)
	v.dirty = true
}

// Invalidate makes the next Present redraw, for changes the view cannot see
// such as status text or a resized terminal.
func (v *View) Invalidate() { v.dirty = true }

// Confetti returns the particle system.
func (v *View) Confetti() *Confetti { return v.confetti }

// Disc returns the current wheel placement.
func (v *View) Disc() Disc {
	w, h := v.screen.Size()
	return Layout(w/2, h-1)
}

// BurstOrigin is the confetti origin: the pointer tip.
func (v *View) BurstOrigin() (float64, float64) {
	d := v.Disc()
	return float64(d.CX), float64(d.CY - d.Radius)
}

// Present steps the confetti and draws one full screen. While the wheel is
// at rest and no confetti is animating, nothing is redrawn.
func (v *View) Present(_ time.Time) {
	if !v.dirty && !v.confetti.Animating() {
		return
	}
	v.dirty = false
	v.confetti.Step()

	v.screen.Clear()
	d := v.Disc()
	drawDisc(v.screen, d, v.angle, v.segments)
	v.drawPanel(d.Width() + 2)
	if v.winner != nil {
		v.drawBanner(d)
	}
	v.confetti.Draw(v.screen)
	v.screen.Show()
}

func (v *View) drawPanel(x int) {
	st := v.status()
	_, h := v.screen.Size()
	bold := tcell.StyleDefault.Bold(true)
	y := 0

	drawText(v.screen, x, y, bold, "wheel: "+st.Key)
	y += 2

	col := x
	for i, name := range st.Layers {
		style := tcell.StyleDefault
		if i == st.Active {
			style = style.Reverse(true)
		}
		col = drawText(v.screen, col, y, style, fmt.Sprintf(" %d %s ", i+1, name)) + 1
	}
	y++
	drawText(v.screen, x, y, tcell.StyleDefault, fmt.Sprintf("speed: %.2fx", st.Speed))
	y += 2

	total := wheel.TotalWeight(v.segments)
	for i, s := range v.segments {
		if y >= h-3 {
			drawText(v.screen, x, y, tcell.StyleDefault.Dim(true), fmt.Sprintf("… %d more", len(v.segments)-i))
			break
		}
		share := 0.0
		if total > 0 {
			share = s.ClampedWeight() / total * 100
		}
		c := drawText(v.screen, x, y, tcell.StyleDefault.Foreground(ParseColor(s.Color)), "■ ")
		drawText(v.screen, c, y, tcell.StyleDefault,
			fmt.Sprintf("%d. %s  w=%g (%.0f%%)", i+1, s.Label(), s.Weight, share))
		y++
	}
	if len(v.segments) == 0 {
		drawText(v.screen, x, y, tcell.StyleDefault.Dim(true), "(empty layer, press a to add)")
	}

	if st.Message != "" {
		drawText(v.screen, 0, h-2, tcell.StyleDefault.Foreground(tcell.ColorYellow), st.Message)
	}
	drawText(v.screen, 0, h-1, tcell.StyleDefault.Dim(true), HelpLine)
}

func (v *View) drawBanner(d Disc) {
	text := "★ " + v.winner.Segment.Label() + " ★"
	pad := strings.Repeat(" ", len([]rune(text))+2)
	style := tcell.StyleDefault.
		Background(ParseColor(v.winner.Segment.Color)).
		Foreground(contrastText(v.winner.Segment.Color)).
		Bold(true)

	x := d.CX - (len([]rune(pad)))/2
	drawText(v.screen, x, d.CY-1, style, pad)
	drawText(v.screen, x, d.CY, style, " "+text+" ")
	drawText(v.screen, x, d.CY+1, style, pad)
}
