package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("wheel"),
				WithHistogramBuckets([]float64{1, 10}),
				WithSpinDurationBuckets([]float64{1000}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.spinDuplicates.Inc()

			Convey("Then collectors are registered under the configured names", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)

				var found bool
				for _, f := range families {
					if f.GetName() == "test_wheel_spin_duplicates_total" {
						found = true
						So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
						So(f.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 1)
					}
				}
				So(found, ShouldBeTrue)
			})
		})

		Convey("When empty options are given", func() {
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "spinwheel")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		before, _ := Value("spinwheel_service_spins_total")

		Convey("When a spin is recorded", func() {
			RecordSpin("Layer 1", 4000, 4)
			RecordSpin("Layer 2", 800, 5)

			Convey("Then the counter sums across layers", func() {
				after, err := Value("spinwheel_service_spins_total")
				So(err, ShouldBeNil)
				So(after-before, ShouldEqual, 2)
			})
		})

		Convey("When gauges are updated", func() {
			UpdateWheelsTotal(3)
			UpdateQueueCapacity(128)

			Convey("Then the latest value is reported", func() {
				v, err := Value("spinwheel_service_wheels_total")
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 3)
				v, _ = Value("spinwheel_service_queue_capacity")
				So(v, ShouldEqual, 128)
			})
		})

		Convey("When every recorder is called", func() {
			So(func() {
				RecordSpinDuplicate()
				RecordSpinNoop()
				RecordOutcomeStored()
				UpdateHistoryEntries(1)
				RecordWheelSave()
				RecordWheelDelete()
				RecordStoreLatency("get", 0.3)
				RecordHTTPRequest("/api/wheels", "GET", "200")
				RecordHTTPRequestDuration("/api/wheels", "GET", "200", 1.2)
				UpdateQueueSize(1)
				UpdateQueueUtilization(0.1)
				RecordQueueEnqueue()
				RecordQueueDequeue()
				RecordQueueEnqueueError()
				RecordQueueProcessingLatency(0.5)
				UpdateWorkerCount(2)
				UpdateWorkerActiveCount(1)
				UpdateWorkerIdleCount(1)
				RecordWorkerProcessingLatency(0.2)
				RecordWorkerError()
				RecordErrorByComponent("store", "io")
				RecordErrorByEndpoint("/api/wheels", "GET", "internal")
			}, ShouldNotPanic)
		})

		Convey("When an unknown family is requested", func() {
			_, err := Value("spinwheel_service_nope")
			So(errors.Is(err, ErrFamilyNotFound), ShouldBeTrue)
		})
	})
}

func TestRuntimeCollectors(t *testing.T) {
	Convey("Given the runtime collectors are registered twice", t, func() {
		So(RegisterRuntimeCollectors, ShouldNotPanic)
		So(RegisterRuntimeCollectors, ShouldNotPanic)

		Convey("Then Go runtime gauges are exposed by the custom registry", func() {
			v, err := Value("go_goroutines")
			So(err, ShouldBeNil)
			So(v, ShouldBeGreaterThan, 0)
		})
	})
}
