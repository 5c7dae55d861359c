package wheel_test

import (
	"errors"
	"testing"

	"github.com/okian/spinwheel/internal/domain/wheel"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDecode(t *testing.T) {
	Convey("Given persisted wheel documents", t, func() {
		Convey("When decoding a bare segment array", func() {
			doc, err := wheel.Decode([]byte(`[{"text":"A","weight":2,"color":"#fff"}]`))

			Convey("Then it lands in layer 1 with an empty layer 2", func() {
				So(err, ShouldBeNil)
				So(doc.Layers, ShouldHaveLength, 2)
				So(doc.Layers[0].Segments, ShouldHaveLength, 1)
				So(doc.Layers[0].Segments[0].Weight, ShouldEqual, 2)
				So(doc.Layers[1].Segments, ShouldBeEmpty)
			})
		})

		Convey("When decoding the two-layer object", func() {
			doc, err := wheel.Decode([]byte(`{"segments":[{"text":"A","weight":"1.5"}],"layer2":[{"text":"B","weight":"x"}]}`))

			Convey("Then string weights are parsed and junk becomes zero", func() {
				So(err, ShouldBeNil)
				So(doc.Layers[0].Segments[0].Weight, ShouldEqual, 1.5)
				So(doc.Layers[1].Segments[0].Text, ShouldEqual, "B")
				So(doc.Layers[1].Segments[0].Weight, ShouldEqual, 0)
			})
		})

		Convey("When decoding the layered shape", func() {
			doc, err := wheel.Decode([]byte(`{"layers":[{"segments":[]},{"name":"Lunch","segments":[{"text":"C","weight":1}]}],"active":7,"speed":2}`))

			Convey("Then names are filled and a bad active index resets", func() {
				So(err, ShouldBeNil)
				So(doc.Layers[0].Name, ShouldEqual, "Layer 1")
				So(doc.Layers[1].Name, ShouldEqual, "Lunch")
				So(doc.Active, ShouldEqual, 0)
				So(doc.Speed, ShouldEqual, 2)
			})
		})

		Convey("When decoding garbage", func() {
			_, err := wheel.Decode([]byte(`{nope`))
			_, emptyErr := wheel.Decode(nil)

			Convey("Then a decode error is returned", func() {
				So(errors.Is(err, wheel.ErrDecode), ShouldBeTrue)
				So(errors.Is(emptyErr, wheel.ErrDecode), ShouldBeTrue)
			})
		})
	})

	Convey("Given a wheel round-tripped through its document", t, func() {
		w := wheel.New("lunch")
		w.AddSegment(fixedRNG{}, "Soup", 2, "#123456")
		w.SetSpeed(3)
		So(w.SwitchLayer(1), ShouldBeNil)

		data, err := wheel.Encode(w.Document())
		So(err, ShouldBeNil)
		doc, err := wheel.Decode(data)
		So(err, ShouldBeNil)
		restored := wheel.FromDocument("lunch", doc)

		Convey("Then layers, active layer and speed survive", func() {
			So(restored.Active, ShouldEqual, 1)
			So(restored.Speed, ShouldEqual, 3)
			So(restored.Layers[0].Segments[0], ShouldResemble, wheel.Segment{Text: "Soup", Weight: 2, Color: "#123456"})
		})
	})
}
