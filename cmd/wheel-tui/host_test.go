package main

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/okian/spinwheel/internal/adapters/repository"
	"github.com/okian/spinwheel/internal/adapters/tui"
	"github.com/okian/spinwheel/internal/domain/spin"
	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/internal/player"
	"github.com/okian/spinwheel/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init(logger.WithOutput(io.Discard))
	os.Exit(m.Run())
}

type testHost struct {
	*host
	clock  *player.ManualClock
	buf    *tui.Buffer
	view   *tui.View
	quits  int
	closer func()
}

func newTestHost(t *testing.T, w *wheel.Wheel) *testHost {
	store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "wheels.json"))
	if err != nil {
		t.Fatal(err)
	}
	th := &testHost{
		clock: player.NewManualClock(time.Unix(0, 0)),
		buf:   tui.NewBuffer(100, 24),
	}
	th.host = &host{store: store, quit: func() { th.quits++ }}
	th.view = tui.NewView(th.buf, tui.WithStatus(th.status))
	th.host.view = th.view
	runner := player.NewRunner(th.clock,
		player.WithRenderer(th.view),
		player.WithWinnerDisplay(th.view),
		player.WithParticleBurst(th.view),
	)
	th.player = player.New(w, runner)
	return th
}

func (th *testHost) press(r rune) {
	th.dispatch(context.Background(), tcell.KeyRune, r)
}

func TestLoadWheel(t *testing.T) {
	convey.Convey("Given an empty store", t, func() {
		ctx := context.Background()
		store, err := repository.NewFileStore(filepath.Join(t.TempDir(), "wheels.json"))
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("A missing wheel starts with the default options", func() {
			w, err := loadWheel(ctx, store, "lunch", spin.DefaultRNG())
			convey.So(err, convey.ShouldBeNil)
			convey.So(w.Key, convey.ShouldEqual, "lunch")
			convey.So(len(w.ActiveSegments()), convey.ShouldEqual, 6)
		})

		convey.Convey("A stored wheel is loaded as saved", func() {
			saved := wheel.New("lunch")
			saved.AddSegment(spin.DefaultRNG(), "Ramen", 2, "#112233")
			saved.SetSpeed(2)
			convey.So(store.Put(ctx, "lunch", saved.Document()), convey.ShouldBeNil)

			w, err := loadWheel(ctx, store, "lunch", spin.DefaultRNG())
			convey.So(err, convey.ShouldBeNil)
			convey.So(w.ActiveSegments(), convey.ShouldHaveLength, 1)
			convey.So(w.ActiveSegments()[0].Text, convey.ShouldEqual, "Ramen")
			convey.So(w.Speed, convey.ShouldEqual, 2.0)
		})
	})
}

func TestKeyBindings(t *testing.T) {
	convey.Convey("Given a host with the default options", t, func() {
		w := wheel.New("lunch")
		w.AddDefaults(spin.DefaultRNG())
		th := newTestHost(t, w)

		convey.Convey("Editing keys change the active layer", func() {
			th.press('a')
			convey.So(w.ActiveSegments(), convey.ShouldHaveLength, 7)
			convey.So(w.ActiveSegments()[6].Text, convey.ShouldEqual, "New Option")

			th.press('d')
			convey.So(w.ActiveSegments(), convey.ShouldHaveLength, 8)

			th.press('x')
			th.press('x')
			convey.So(w.ActiveSegments(), convey.ShouldHaveLength, 6)

			th.press('c')
			convey.So(w.ActiveSegments(), convey.ShouldBeEmpty)

			th.press('x')
			convey.So(th.message, convey.ShouldNotBeEmpty)
		})

		convey.Convey("Speed keys step the multiplier and never reach zero", func() {
			th.press('+')
			convey.So(w.Speed, convey.ShouldEqual, 1.25)
			for i := 0; i < 10; i++ {
				th.press('-')
			}
			convey.So(w.Speed, convey.ShouldEqual, 0.25)
		})

		convey.Convey("Layer keys switch layers while idle", func() {
			th.press('2')
			convey.So(w.Active, convey.ShouldEqual, 1)
			th.press(' ')
			convey.So(th.message, convey.ShouldBeEmpty)
			convey.So(th.player.Runner().Spinning(), convey.ShouldBeFalse)
			convey.So(th.clock.Pending(), convey.ShouldEqual, 0)
			th.press('1')
			convey.So(w.Active, convey.ShouldEqual, 0)
		})

		convey.Convey("Switching layers mid-spin is refused", func() {
			th.press(' ')
			convey.So(th.player.Runner().Spinning(), convey.ShouldBeTrue)
			th.press('2')
			convey.So(w.Active, convey.ShouldEqual, 0)
			convey.So(th.message, convey.ShouldContainSubstring, player.ErrSpinInProgress.Error())

			th.clock.RunUntilIdle(time.Second/60, 10_000)
			convey.So(th.player.Runner().Spinning(), convey.ShouldBeFalse)
			th.press('2')
			convey.So(w.Active, convey.ShouldEqual, 1)
		})

		convey.Convey("Saving writes the wheel to the store", func() {
			th.press('w')
			convey.So(th.message, convey.ShouldEqual, "saved lunch")
			doc, err := th.store.Get(context.Background(), "lunch")
			convey.So(err, convey.ShouldBeNil)
			convey.So(doc.Layers[0].Segments, convey.ShouldHaveLength, 6)
		})

		convey.Convey("Quit keys call quit", func() {
			th.press('q')
			th.dispatch(context.Background(), tcell.KeyEscape, 0)
			th.dispatch(context.Background(), tcell.KeyCtrlC, 0)
			convey.So(th.quits, convey.ShouldEqual, 3)
		})

		convey.Convey("Unbound keys do nothing", func() {
			th.press('z')
			th.dispatch(context.Background(), tcell.KeyTab, 0)
			convey.So(w.ActiveSegments(), convey.ShouldHaveLength, 6)
			convey.So(th.quits, convey.ShouldEqual, 0)
		})

		convey.Convey("Every key press schedules a redraw", func() {
			th.view.Present(time.Unix(0, 0))
			th.view.Present(time.Unix(0, 0))
			shows := th.buf.Shows()

			th.press('+')
			th.view.Present(time.Unix(0, 0))
			convey.So(th.buf.Shows(), convey.ShouldEqual, shows+1)
		})

		convey.Convey("The status panel reflects the wheel", func() {
			th.press('+')
			th.view.Present(time.Unix(0, 0))
			var screen strings.Builder
			for y := 0; y < 24; y++ {
				screen.WriteString(th.buf.Row(y))
			}
			convey.So(screen.String(), convey.ShouldContainSubstring, "wheel: lunch")
			convey.So(screen.String(), convey.ShouldContainSubstring, "speed: 1.25x")
		})
	})
}

func TestLoadWheelError(t *testing.T) {
	convey.Convey("Given a store that fails", t, func() {
		_, err := loadWheel(context.Background(), failingStore{}, "lunch", spin.DefaultRNG())
		convey.So(errors.Is(err, errBroken), convey.ShouldBeTrue)
	})
}

var errBroken = errors.New("broken")

type failingStore struct{ repository.WheelStore }

func (failingStore) Get(context.Context, string) (wheel.Document, error) {
	return wheel.Document{}, errBroken
}
