package sound

import (
	"errors"
	"io"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/spinwheel/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init(logger.WithOutput(io.Discard))
	m.Run()
}

func TestClickStreamer(t *testing.T) {
	Convey("Given a 30ms click at 44.1kHz", t, func() {
		rate := beep.SampleRate(44100)
		s, err := NewClickStreamer(rate, DefaultFrequency, 30*time.Millisecond, DefaultVolume)
		So(err, ShouldBeNil)

		buf := make([][2]float64, 4096)
		total := 0
		peakHead, peakTail := 0.0, 0.0
		for {
			n, ok := s.Stream(buf)
			for i := 0; i < n; i++ {
				v := math.Abs(buf[i][0])
				So(v, ShouldBeLessThanOrEqualTo, DefaultVolume)
				So(buf[i][0], ShouldEqual, buf[i][1])
				pos := total + i
				if pos < 100 {
					peakHead = math.Max(peakHead, v)
				}
				if pos >= rate.N(30*time.Millisecond)-100 {
					peakTail = math.Max(peakTail, v)
				}
			}
			total += n
			if !ok || n == 0 {
				break
			}
		}

		Convey("It lasts exactly the requested length", func() {
			So(total, ShouldEqual, rate.N(30*time.Millisecond))
		})

		Convey("It decays", func() {
			So(peakHead, ShouldBeGreaterThan, 0)
			So(peakTail, ShouldBeLessThan, peakHead/10)
		})
	})

	Convey("An invalid frequency is reported", t, func() {
		_, err := NewClickStreamer(beep.SampleRate(44100), 30000, 30*time.Millisecond, DefaultVolume)
		So(errors.Is(err, ErrTone), ShouldBeTrue)
	})
}

func TestClickSilentMode(t *testing.T) {
	Convey("Given a click that was never initialised", t, func() {
		c := NewClick(WithFrequency(1000), WithLength(10*time.Millisecond), WithVolume(0.5))
		So(c.Enabled(), ShouldBeFalse)

		Convey("Play is a silent no-op", func() {
			So(c.Play(), ShouldBeNil)
		})

		Convey("Close is safe", func() {
			So(c.Close, ShouldNotPanic)
		})
	})
}
