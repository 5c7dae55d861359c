// Package tui draws a wheel, its confetti and its status panel in a terminal
// through tcell.
package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Surface is the part of tcell.Screen the drawing code needs.
type Surface interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Screen is a Surface that can be cleared and presented. tcell.Screen
// satisfies it.
type Screen interface {
	Surface
	Clear()
	Show()
}

// Cell is one character cell of a Buffer.
type Cell struct {
	Rune  rune
	Style tcell.Style
}

// Buffer is an in-memory Screen. It backs tests and headless rendering.
type Buffer struct {
	width, height int
	cells         []Cell
	shows         int
}

// NewBuffer creates a blank buffer of the given size.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{width: width, height: height, cells: make([]Cell, width*height)}
	b.Clear()
	return b
}

// SetContent writes a cell. Combining runes are ignored; writes outside the
// buffer are dropped.
func (b *Buffer) SetContent(x, y int, primary rune, _ []rune, style tcell.Style) {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	b.cells[y*b.width+x] = Cell{Rune: primary, Style: style}
}

// Get reads a cell. Outside the buffer it returns a blank cell.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return Cell{Rune: ' ', Style: tcell.StyleDefault}
	}
	return b.cells[y*b.width+x]
}

// Row returns line y as a string.
func (b *Buffer) Row(y int) string {
	rs := make([]rune, 0, b.width)
	for x := 0; x < b.width; x++ {
		rs = append(rs, b.Get(x, y).Rune)
	}
	return string(rs)
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() (int, int) { return b.width, b.height }

// Clear blanks every cell.
func (b *Buffer) Clear() {
	for i := range b.cells {
		b.cells[i] = Cell{Rune: ' ', Style: tcell.StyleDefault}
	}
}

// Show counts presentations.
func (b *Buffer) Show() { b.shows++ }

// Shows returns how many times Show was called.
func (b *Buffer) Shows() int { return b.shows }

// drawText writes text from (x, y) and returns the column after it. Wide
// runes take two cells.
func drawText(s Surface, x, y int, style tcell.Style, text string) int {
	for _, r := range text {
		s.SetContent(x, y, r, nil, style)
		w := runewidth.RuneWidth(r)
		if w < 1 {
			w = 1
		}
		x += w
	}
	return x
}
