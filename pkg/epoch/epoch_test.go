package epoch_test

import (
	"sync"
	"testing"

	"github.com/okian/spinwheel/pkg/epoch"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCounter(t *testing.T) {
	Convey("Given a zero counter", t, func() {
		var c epoch.Counter

		Convey("Then no token is current", func() {
			So(c.Current(), ShouldEqual, epoch.Token(0))
			So(c.Valid(0), ShouldBeFalse)
		})

		Convey("When a generation is started", func() {
			first := c.Next()

			Convey("Then its token is valid", func() {
				So(first, ShouldEqual, epoch.Token(1))
				So(c.Valid(first), ShouldBeTrue)
			})

			Convey("And starting another generation invalidates it", func() {
				second := c.Next()
				So(c.Valid(first), ShouldBeFalse)
				So(c.Valid(second), ShouldBeTrue)
				So(c.Current(), ShouldEqual, second)
			})
		})
	})

	Convey("Given concurrent generations", t, func() {
		var c epoch.Counter
		var wg sync.WaitGroup
		for i := 0; i < 64; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c.Next()
			}()
		}
		wg.Wait()

		Convey("Then every increment is counted", func() {
			So(c.Current(), ShouldEqual, epoch.Token(64))
		})
	})
}
