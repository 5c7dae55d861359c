package tui

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/internal/player"
)

type halfRNG struct{}

func (halfRNG) Float64() float64 { return 0.5 }
func (halfRNG) IntN(n int) int   { return n / 2 }

var redBlue = []wheel.Segment{
	{Text: "Red", Weight: 1, Color: "#ff0000"},
	{Text: "Blue", Weight: 1, Color: "#0000ff"},
}

func TestSegmentAt(t *testing.T) {
	Convey("Given two equal segments", t, func() {
		Convey("At rest the first segment starts at 0 and runs clockwise", func() {
			So(SegmentAt(math.Pi/2, 0, redBlue), ShouldEqual, 0)
			So(SegmentAt(-math.Pi/2, 0, redBlue), ShouldEqual, 1)
		})

		Convey("Rotating by half a turn swaps them", func() {
			So(SegmentAt(math.Pi/2, math.Pi, redBlue), ShouldEqual, 1)
			So(SegmentAt(-math.Pi/2, math.Pi, redBlue), ShouldEqual, 0)
		})

		Convey("Zero-weight segments never own a cell", func() {
			segs := []wheel.Segment{{Weight: 1}, {Weight: 0}, {Weight: 1}}
			for theta := -math.Pi; theta < math.Pi; theta += 0.1 {
				So(SegmentAt(theta, 0, segs), ShouldNotEqual, 1)
			}
		})

		Convey("A wheel with no weight has no segments", func() {
			So(SegmentAt(0, 0, nil), ShouldEqual, -1)
			So(SegmentAt(0, 0, []wheel.Segment{{Weight: 0}}), ShouldEqual, -1)
		})
	})
}

func TestLayout(t *testing.T) {
	Convey("Layout fits the disc into the area", t, func() {
		d := Layout(40, 23)
		So(d.Radius, ShouldEqual, 9)
		So(d.CX, ShouldEqual, 19)
		So(d.CY, ShouldEqual, 10)
		So(d.Width(), ShouldBeLessThanOrEqualTo, 40)
		So(d.Contains(d.CX, d.CY), ShouldBeTrue)
		So(d.Contains(d.CX, d.CY+d.Radius), ShouldBeTrue)
		So(d.Contains(d.CX, d.CY+d.Radius+1), ShouldBeFalse)
		So(d.Contains(0, 0), ShouldBeFalse)
	})

	Convey("Layout never collapses below a radius of one", t, func() {
		So(Layout(2, 2).Radius, ShouldEqual, 1)
	})
}

func TestDrawDisc(t *testing.T) {
	Convey("Given a buffer", t, func() {
		buf := NewBuffer(40, 23)
		d := Layout(40, 23)

		Convey("Segments are painted with their colors and the pointer sits on top", func() {
			drawDisc(buf, d, 0, redBlue)
			So(buf.Get(d.CX, d.CY+d.Radius).Style, ShouldResemble, tcell.StyleDefault.Background(ParseColor("#ff0000")))
			So(buf.Get(d.CX, d.CY-d.Radius).Style, ShouldResemble, tcell.StyleDefault.Background(ParseColor("#0000ff")))
			So(buf.Get(d.CX, d.CY-d.Radius-1).Rune, ShouldEqual, PointerRune)
		})

		Convey("A weightless wheel is one plain disc", func() {
			drawDisc(buf, d, 0, []wheel.Segment{{Text: "x", Weight: 0, Color: "#ff0000"}})
			plain := tcell.StyleDefault.Background(emptyDiscColor)
			So(buf.Get(d.CX, d.CY+d.Radius).Style, ShouldResemble, plain)
			So(buf.Get(d.CX, d.CY-d.Radius).Style, ShouldResemble, plain)
		})
	})
}

func TestConfetti(t *testing.T) {
	Convey("Given a confetti system", t, func() {
		c := NewConfetti(halfRNG{})
		So(c.Animating(), ShouldBeFalse)

		Convey("A burst spawns the full particle count", func() {
			c.Burst(10, 5)
			So(c.Len(), ShouldEqual, ConfettiCount)
			So(c.Animating(), ShouldBeTrue)

			Convey("Particles fall under gravity", func() {
				before := c.particles[0].vy
				c.Step()
				So(c.particles[0].vy, ShouldAlmostEqual, before+0.35, 1e-9)
			})

			Convey("Particles die when their life runs out", func() {
				life := minLife + (maxLife-minLife+1)/2
				for i := 0; i < life-1; i++ {
					c.Step()
				}
				So(c.Len(), ShouldEqual, ConfettiCount)
				c.Step()
				So(c.Len(), ShouldEqual, 0)
				So(c.Animating(), ShouldBeFalse)
			})

			Convey("Drawing stays inside the surface", func() {
				buf := NewBuffer(20, 10)
				for i := 0; i < 30; i++ {
					c.Step()
					So(func() { c.Draw(buf) }, ShouldNotPanic)
				}
			})
		})
	})
}

func TestView(t *testing.T) {
	Convey("Given a view over a buffer", t, func() {
		buf := NewBuffer(100, 24)
		v := NewView(buf,
			WithConfetti(NewConfetti(halfRNG{})),
			WithStatus(func() Status {
				return Status{Key: "lunch", Layers: []string{"Layer 1", "Layer 2"}, Speed: 1.5, Message: "saved"}
			}),
		)
		v.Draw(0, redBlue)

		Convey("Present draws the panel and presents once", func() {
			v.Present(time.Now())
			So(buf.Shows(), ShouldEqual, 1)
			screen := dump(buf)
			So(screen, ShouldContainSubstring, "wheel: lunch")
			So(screen, ShouldContainSubstring, "1 Layer 1")
			So(screen, ShouldContainSubstring, "speed: 1.50x")
			So(screen, ShouldContainSubstring, "1. Red  w=1 (50%)")
			So(buf.Row(22), ShouldContainSubstring, "saved")
			So(buf.Row(23), ShouldContainSubstring, "space spin")
		})

		Convey("The winner banner follows ShowWinner and HideWinner", func() {
			v.ShowWinner(player.Winner{Index: 1, Segment: redBlue[1]})
			v.Present(time.Now())
			So(dump(buf), ShouldContainSubstring, "Blue ★")

			v.HideWinner()
			v.Present(time.Now())
			So(dump(buf), ShouldNotContainSubstring, "Blue ★")
		})

		Convey("An idle screen is not redrawn", func() {
			v.Present(time.Now())
			v.Present(time.Now())
			So(buf.Shows(), ShouldEqual, 1)

			v.Invalidate()
			v.Present(time.Now())
			So(buf.Shows(), ShouldEqual, 2)

			v.Draw(0.5, redBlue)
			v.Present(time.Now())
			So(buf.Shows(), ShouldEqual, 3)
		})

		Convey("Confetti keeps the screen redrawing until it settles", func() {
			v.Present(time.Now())
			v.Burst(v.BurstOrigin())
			frames := 0
			for v.Confetti().Animating() {
				v.Present(time.Now())
				frames++
				So(frames, ShouldBeLessThan, 1000)
			}
			So(buf.Shows(), ShouldEqual, 1+frames)

			v.Present(time.Now())
			So(buf.Shows(), ShouldEqual, 1+frames)
		})

		Convey("Burst starts confetti at the pointer", func() {
			x, y := v.BurstOrigin()
			d := v.Disc()
			So(x, ShouldEqual, float64(d.CX))
			So(y, ShouldEqual, float64(d.CY-d.Radius))

			v.Burst(x, y)
			So(v.Confetti().Animating(), ShouldBeTrue)
		})
	})
}

func dump(b *Buffer) string {
	_, h := b.Size()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		rows[y] = b.Row(y)
	}
	return strings.Join(rows, "\n")
}
