package worker_test

import (
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	queue "github.com/okian/spinwheel/internal/adapters/mq/queue"
	worker "github.com/okian/spinwheel/internal/adapters/mq/worker"
	model "github.com/okian/spinwheel/internal/domain/model"
	logging "github.com/okian/spinwheel/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type mockQueue struct {
	items chan queue.Item
	once  sync.Once
}

func newMockQueue() *mockQueue {
	return &mockQueue{items: make(chan queue.Item, 10)}
}

func (mq *mockQueue) Dequeue(context.Context) <-chan queue.Item {
	return mq.items
}

func (mq *mockQueue) Close() error {
	mq.once.Do(func() { close(mq.items) })
	return nil
}

func (mq *mockQueue) add(rec model.SpinRecord) { //nolint:gocritic // test helper
	mq.items <- queue.Item{Record: rec, EnqueuedAt: time.Now()}
}

type mockSink struct {
	mu   sync.Mutex
	recs []model.SpinRecord
}

func (s *mockSink) Append(rec model.SpinRecord) { //nolint:gocritic // matches Sink
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
}

func (s *mockSink) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}

func spinRecord(i int) model.SpinRecord {
	return model.SpinRecord{ID: fmt.Sprintf("spin-%d", i), WheelKey: "lunch", Winner: i % 3}
}

func TestInMemoryWorker(t *testing.T) {
	_ = logging.Init(logging.WithOutput(io.Discard))

	convey.Convey("Given a running worker", t, func() {
		q := newMockQueue()
		sink := &mockSink{}
		w := worker.NewInMemoryWorker(q, sink, worker.WithName("test-worker"))
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go w.Run(ctx)

		convey.Convey("When outcomes arrive", func() {
			q.add(spinRecord(1))
			q.add(spinRecord(2))

			convey.Convey("Then they are appended to the sink", func() {
				convey.So(waitFor(sink, 2), convey.ShouldEqual, 2)
				convey.So(sink.recs[0].ID, convey.ShouldEqual, "spin-1")
			})
		})

		convey.Convey("When an outcome has no wheel", func() {
			q.add(model.SpinRecord{ID: "orphan"})
			q.add(spinRecord(3))

			convey.Convey("Then it is dropped and later outcomes still flow", func() {
				convey.So(waitFor(sink, 1), convey.ShouldEqual, 1)
				convey.So(sink.recs[0].ID, convey.ShouldEqual, "spin-3")
			})
		})

		convey.Convey("When shutting down", func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), time.Second)
			defer stop()

			convey.Convey("Then it stops promptly and tolerates a second call", func() {
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
				convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
			})
		})
	})

	convey.Convey("Given a worker whose context is cancelled", t, func() {
		q := newMockQueue()
		w := worker.NewInMemoryWorker(q, &mockSink{})
		ctx, cancel := context.WithCancel(context.Background())
		go w.Run(ctx)
		cancel()

		convey.Convey("Then shutdown returns once the loop has exited", func() {
			shutdownCtx, stop := context.WithTimeout(context.Background(), time.Second)
			defer stop()
			convey.So(w.Shutdown(shutdownCtx), convey.ShouldBeNil)
		})
	})
}

func TestWorkerPool(t *testing.T) {
	_ = logging.Init(logging.WithOutput(io.Discard))

	convey.Convey("Given a worker pool over an in-memory queue", t, func() {
		q := queue.NewInMemoryQueue(queue.WithCapacity(100))
		sink := &mockSink{}
		pool := worker.NewPool(4, q, sink)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		pool.Start(ctx)

		convey.So(pool.Size(), convey.ShouldEqual, 4)

		convey.Convey("When many outcomes are enqueued and the pool shuts down", func() {
			for i := range 50 {
				convey.So(q.Enqueue(ctx, spinRecord(i)), convey.ShouldBeTrue)
			}
			err := pool.Shutdown(context.Background())

			convey.Convey("Then every outcome is drained first", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(sink.Len(), convey.ShouldEqual, 50)
				convey.So(pool.Busy(), convey.ShouldEqual, 0)
				convey.So(q.IsClosed(), convey.ShouldBeTrue)
			})
		})
	})

	convey.Convey("Given a pool created with a non-positive count", t, func() {
		pool := worker.NewPool(0, newMockQueue(), &mockSink{})

		convey.Convey("Then it falls back to at least one worker", func() {
			convey.So(pool.Size(), convey.ShouldBeGreaterThan, 0)
		})
	})
}

// waitFor polls until the sink holds n records or a second has passed.
func waitFor(s *mockSink, n int) int {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && s.Len() < n {
		time.Sleep(5 * time.Millisecond)
	}
	return s.Len()
}
