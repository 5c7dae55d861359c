package player_test

import (
	"errors"
	"testing"
	"time"

	"github.com/okian/spinwheel/internal/domain/spin"
	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/internal/player"
	"github.com/okian/spinwheel/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const frame = 16 * time.Millisecond

type drawCall struct {
	angle    float64
	segments int
}

type recorder struct {
	draws   []drawCall
	bursts  [][2]float64
	ticks   int
	tickErr error
	shown   []player.Winner
	hidden  int
	engine  *spin.Engine
}

func (r *recorder) Draw(angle float64, segments []wheel.Segment) {
	r.draws = append(r.draws, drawCall{angle: angle, segments: len(segments)})
}
func (r *recorder) Burst(x, y float64)         { r.bursts = append(r.bursts, [2]float64{x, y}) }
func (r *recorder) Play() error                { r.ticks++; return r.tickErr }
func (r *recorder) ShowWinner(w player.Winner) { r.shown = append(r.shown, w) }
func (r *recorder) HideWinner()                { r.hidden++ }

type fixedRNG struct{ f float64 }

func (f fixedRNG) Float64() float64 { return f.f }
func (f fixedRNG) IntN(n int) int   { return 0 }

func newPlayer(rec *recorder, clock *player.ManualClock, draw float64) *player.Player {
	engine := spin.NewEngine(spin.WithRNG(fixedRNG{f: draw}))
	rec.engine = engine
	runner := player.NewRunner(clock,
		player.WithEngine(engine),
		player.WithRenderer(rec),
		player.WithParticleBurst(rec),
		player.WithTickSound(rec),
		player.WithWinnerDisplay(rec),
		player.WithBurstOrigin(func() (float64, float64) { return 40, 3 }),
	)
	w := wheel.New("test")
	for _, text := range []string{"A", "B", "C", "D"} {
		w.AddSegment(fixedRNG{}, text, 1, "#ffffff")
	}
	return player.New(w, runner, player.WithRNG(fixedRNG{}))
}

func TestPlayerSpin(t *testing.T) {
	Convey("Given a player hosting four equal segments", t, func() {
		rec := &recorder{}
		clock := player.NewManualClock(time.Unix(0, 0))
		p := newPlayer(rec, clock, 0.6)

		Convey("Then the wheel is painted once on creation", func() {
			So(rec.draws, ShouldHaveLength, 1)
			So(rec.draws[0].angle, ShouldEqual, 0)
		})

		Convey("When spinning to completion", func() {
			So(p.Spin(), ShouldBeTrue)
			So(rec.hidden, ShouldEqual, 1)
			steps := clock.RunUntilIdle(frame, 10_000)

			Convey("Then one frame is drawn per step", func() {
				So(steps, ShouldEqual, 250)
				So(rec.draws, ShouldHaveLength, 1+steps)
			})

			Convey("Then the winner is shown once with one burst", func() {
				So(rec.shown, ShouldHaveLength, 1)
				So(rec.shown[0].Segment.Text, ShouldEqual, "C")
				So(rec.shown[0].Layer, ShouldEqual, "Layer 1")
				So(rec.bursts, ShouldResemble, [][2]float64{{40, 3}})
			})

			Convey("Then ticks follow the boundary crossings", func() {
				So(rec.ticks, ShouldBeGreaterThanOrEqualTo, 4*spin.DefaultMinExtraTurns)
			})

			Convey("Then the wheel rests on the target", func() {
				So(p.Runner().Spinning(), ShouldBeFalse)
				last := rec.draws[len(rec.draws)-1]
				So(last.angle, ShouldEqual, rec.engine.Angle())
			})
		})

		Convey("When tick playback fails", func() {
			rec.tickErr = errors.New("audio device busy")
			So(p.Spin(), ShouldBeTrue)
			clock.RunUntilIdle(frame, 10_000)

			Convey("Then the spin still completes", func() {
				So(p.Runner().Spinning(), ShouldBeFalse)
				So(rec.shown, ShouldHaveLength, 1)
			})
		})
	})
}

func TestPlayerSupersede(t *testing.T) {
	Convey("Given a spin in flight", t, func() {
		rec := &recorder{}
		clock := player.NewManualClock(time.Unix(0, 0))
		p := newPlayer(rec, clock, 0.1)
		So(p.Spin(), ShouldBeTrue)
		for i := 0; i < 5; i++ {
			clock.Step(frame)
		}
		So(rec.shown, ShouldBeEmpty)

		Convey("When spinning again before it settles", func() {
			So(p.Spin(), ShouldBeTrue)
			So(clock.Pending(), ShouldEqual, 2)
			before := len(rec.draws)
			clock.Step(frame)

			Convey("Then the stale callback draws nothing and stops", func() {
				So(len(rec.draws)-before, ShouldEqual, 1)
				So(clock.Pending(), ShouldEqual, 1)
			})

			Convey("Then exactly one spin drives the wheel to rest", func() {
				clock.RunUntilIdle(frame, 10_000)
				So(rec.shown, ShouldHaveLength, 1)
				So(rec.bursts, ShouldHaveLength, 1)
				So(p.Runner().Spinning(), ShouldBeFalse)
			})
		})
	})
}

func TestPlayerLayers(t *testing.T) {
	Convey("Given a player", t, func() {
		rec := &recorder{}
		clock := player.NewManualClock(time.Unix(0, 0))
		p := newPlayer(rec, clock, 0.5)

		Convey("When switching layers during a spin", func() {
			So(p.Spin(), ShouldBeTrue)
			clock.Step(frame)
			err := p.SwitchLayer(1)

			Convey("Then the switch is refused", func() {
				So(errors.Is(err, player.ErrSpinInProgress), ShouldBeTrue)
				So(p.Wheel().Active, ShouldEqual, 0)
			})

			Convey("Then it is allowed once the wheel stops", func() {
				clock.RunUntilIdle(frame, 10_000)
				So(p.SwitchLayer(1), ShouldBeNil)
				So(p.Wheel().Active, ShouldEqual, 1)
			})
		})

		Convey("When spinning an empty layer", func() {
			So(p.SwitchLayer(1), ShouldBeNil)
			draws := len(rec.draws)
			started := p.Spin()

			Convey("Then it is a silent no-op", func() {
				So(started, ShouldBeFalse)
				So(clock.Pending(), ShouldEqual, 0)
				So(rec.hidden, ShouldEqual, 0)
				So(len(rec.draws), ShouldEqual, draws)
			})
		})

		Convey("When editing segments while idle", func() {
			p.AddSegment("E", 2, "")
			So(p.DuplicateSegment(0), ShouldBeNil)
			So(p.RemoveSegment(1), ShouldBeNil)

			Convey("Then every edit repaints with the new layout", func() {
				So(rec.draws, ShouldHaveLength, 4)
				So(rec.draws[3].segments, ShouldEqual, 5)
			})
		})

		Convey("When editing during a spin", func() {
			So(p.Spin(), ShouldBeTrue)
			clock.Step(frame)
			p.Clear()
			clock.RunUntilIdle(frame, 10_000)

			Convey("Then the spin keeps its snapshot", func() {
				So(rec.shown, ShouldHaveLength, 1)
				So(rec.draws[len(rec.draws)-1].segments, ShouldEqual, 4)
				So(p.Wheel().ActiveSegments(), ShouldBeEmpty)
			})
		})
	})
}
