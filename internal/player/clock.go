package player

import (
	"context"
	"sync"
	"time"
)

// Frame clock defaults.
const (
	DefaultFrameInterval = time.Second / 60
	postedBuffer         = 64
)

// FrameClock is a real-time Clock with its own loop. Run executes scheduled
// frame callbacks on every tick and posted actions as they arrive, all on the
// calling goroutine.
type FrameClock struct {
	interval time.Duration

	mu     sync.Mutex
	frames []func(time.Time)
	after  []func(time.Time)

	posted chan func()
}

// NewFrameClock creates a clock ticking every interval.
func NewFrameClock(interval time.Duration) *FrameClock {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return &FrameClock{
		interval: interval,
		posted:   make(chan func(), postedBuffer),
	}
}

// Now returns the current monotonic time.
func (c *FrameClock) Now() time.Time { return time.Now() }

// ScheduleNextFrame queues cb for the next tick.
func (c *FrameClock) ScheduleNextFrame(cb func(now time.Time)) {
	c.mu.Lock()
	c.frames = append(c.frames, cb)
	c.mu.Unlock()
}

// AfterFrame registers fn to run after the callbacks of every tick, for
// presenting a composed screen.
func (c *FrameClock) AfterFrame(fn func(now time.Time)) {
	c.mu.Lock()
	c.after = append(c.after, fn)
	c.mu.Unlock()
}

// Post hands fn to the loop. It blocks when the loop is backed up and gives
// up when ctx is done.
func (c *FrameClock) Post(ctx context.Context, fn func()) bool {
	select {
	case c.posted <- fn:
		return true
	case <-ctx.Done():
		return false
	}
}

// Run drives the loop until ctx is done.
func (c *FrameClock) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-c.posted:
			fn()
		case now := <-ticker.C:
			c.flush(now)
		}
	}
}

func (c *FrameClock) flush(now time.Time) {
	c.mu.Lock()
	batch := c.frames
	c.frames = nil
	after := c.after
	c.mu.Unlock()

	for _, cb := range batch {
		cb(now)
	}
	for _, fn := range after {
		fn(now)
	}
}

// ManualClock is a Clock that only moves when told to. Useful in tests.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []func(time.Time)
}

// NewManualClock creates a manual clock at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current mocked time.
func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// ScheduleNextFrame queues cb for the next Step.
func (m *ManualClock) ScheduleNextFrame(cb func(now time.Time)) {
	m.mu.Lock()
	m.pending = append(m.pending, cb)
	m.mu.Unlock()
}

// Pending returns the number of queued callbacks.
func (m *ManualClock) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Step advances time by d and runs the callbacks queued before the call.
func (m *ManualClock) Step(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	now := m.now
	batch := m.pending
	m.pending = nil
	m.mu.Unlock()

	for _, cb := range batch {
		cb(now)
	}
}

// RunUntilIdle steps by d until nothing is queued or max steps ran.
// It returns the number of steps taken.
func (m *ManualClock) RunUntilIdle(d time.Duration, max int) int {
	steps := 0
	for steps < max && m.Pending() > 0 {
		m.Step(d)
		steps++
	}
	return steps
}
