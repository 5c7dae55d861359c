package tui

import (
	"math"
	"strconv"

	"github.com/gdamore/tcell/v2"

	"github.com/okian/spinwheel/internal/domain/spin"
	"github.com/okian/spinwheel/internal/domain/wheel"
)

// CellAspect is how many columns make up the height of one row. Terminal
// cells are roughly twice as tall as they are wide.
const CellAspect = 2.0

// PointerRune marks the fixed pointer above the wheel.
const PointerRune = '▼'

// Disc is the placement of the wheel on screen. Radius is in rows.
type Disc struct {
	CX, CY int
	Radius int
}

// Layout fits a disc into a width x height area, leaving a row above for the
// pointer and a row below.
func Layout(width, height int) Disc {
	r := (height - 3) / 2
	if maxR := int(float64(width-2) / (2 * CellAspect)); maxR < r {
		r = maxR
	}
	if r < 1 {
		r = 1
	}
	return Disc{
		CX:     int(math.Round(float64(r)*CellAspect)) + 1,
		CY:     r + 1,
		Radius: r,
	}
}

// Width is the number of columns the disc spans.
func (d Disc) Width() int { return 2*int(math.Round(float64(d.Radius)*CellAspect)) + 3 }

// Contains reports whether cell (x, y) lies on the disc.
func (d Disc) Contains(x, y int) bool {
	dx, dy := d.offset(x, y)
	r := float64(d.Radius) + 0.5
	return dx*dx+dy*dy <= r*r
}

// Theta is the screen angle of cell (x, y) around the center, measured like
// the engine: 0 points right and angles grow clockwise, so -π/2 is the top.
func (d Disc) Theta(x, y int) float64 {
	dx, dy := d.offset(x, y)
	return math.Atan2(dy, dx)
}

// Point returns the cell at distance frac·radius along angle theta.
func (d Disc) Point(theta, frac float64) (int, int) {
	r := float64(d.Radius) * frac
	x := float64(d.CX) + math.Cos(theta)*r*CellAspect
	y := float64(d.CY) + math.Sin(theta)*r
	return int(math.Round(x)), int(math.Round(y))
}

func (d Disc) offset(x, y int) (float64, float64) {
	return float64(x-d.CX) / CellAspect, float64(y - d.CY)
}

// SegmentAt returns the index of the segment under screen angle theta when
// the wheel is rotated to angle, or -1 when the wheel has no weight.
func SegmentAt(theta, angle float64, segments []wheel.Segment) int {
	ivs := spin.Intervals(segments, 0)
	if ivs == nil {
		return -1
	}
	rel := spin.NormalizeAngle(theta - angle)
	last := -1
	for i, iv := range ivs {
		if iv.Sweep() <= 0 {
			continue
		}
		last = i
		if rel < iv.End {
			return i
		}
	}
	return last
}

// drawDisc paints the wheel rotated to angle. A wheel without weight is one
// undivided disc.
func drawDisc(s Surface, d Disc, angle float64, segments []wheel.Segment) {
	styles := make([]tcell.Style, len(segments))
	for i, seg := range segments {
		styles[i] = tcell.StyleDefault.Background(ParseColor(seg.Color))
	}
	plain := tcell.StyleDefault.Background(emptyDiscColor)

	for y := d.CY - d.Radius; y <= d.CY+d.Radius; y++ {
		for x := d.CX - d.Width()/2; x <= d.CX+d.Width()/2; x++ {
			if !d.Contains(x, y) {
				continue
			}
			style := plain
			if i := SegmentAt(d.Theta(x, y), angle, segments); i >= 0 {
				style = styles[i]
			}
			s.SetContent(x, y, ' ', nil, style)
		}
	}

	ivs := spin.Intervals(segments, angle)
	for i, iv := range ivs {
		if iv.Sweep() <= 0 {
			continue
		}
		x, y := d.Point(iv.Mid(), 0.6)
		style := styles[i].Foreground(contrastText(segments[i].Color)).Bold(true)
		drawText(s, x, y, style, strconv.Itoa(i+1))
	}

	s.SetContent(d.CX, d.CY-d.Radius-1, PointerRune, nil, tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true))
}
