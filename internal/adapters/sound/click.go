// Package sound plays the short click heard when the wheel passes a segment
// boundary.
package sound

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/okian/spinwheel/pkg/logger"
)

// Click defaults.
const (
	DefaultSampleRate = beep.SampleRate(44100)
	DefaultFrequency  = 1800.0
	DefaultLength     = 30 * time.Millisecond
	DefaultVolume     = 0.25

	speakerBuffer = 50 * time.Millisecond
)

// Click is a TickSound backed by the system speaker. Until Init succeeds it
// stays silent, so a host without audio keeps working.
type Click struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool

	rate   beep.SampleRate
	freq   float64
	length time.Duration
	volume float64
	logger logger.Logger
}

// NewClick creates a silent click. Call Init to attach the speaker.
func NewClick(opts ...Option) *Click {
	c := &Click{
		mixer:  &beep.Mixer{},
		rate:   DefaultSampleRate,
		freq:   DefaultFrequency,
		length: DefaultLength,
		volume: DefaultVolume,
		logger: logger.Get().Named("sound"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init opens the speaker. On failure the click stays silent and the error is
// returned for the caller to log.
func (c *Click) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(c.rate, c.rate.N(speakerBuffer)); err != nil {
		c.logger.Warn(context.Background(), "audio unavailable, ticks are silent", logger.Error(err))
		return fmt.Errorf("%w: %w", ErrSpeakerInit, err)
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Enabled reports whether the speaker is attached.
func (c *Click) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Play queues one click. It is a no-op while silent.
func (c *Click) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return nil
	}
	s, err := NewClickStreamer(c.rate, c.freq, c.length, c.volume)
	if err != nil {
		return err
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
	return nil
}

// Close detaches the speaker.
func (c *Click) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	c.initialized = false
}

// NewClickStreamer returns a sine tone of the given length with a fast
// exponential decay.
func NewClickStreamer(rate beep.SampleRate, freq float64, length time.Duration, volume float64) (beep.Streamer, error) {
	tone, err := generators.SineTone(rate, freq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTone, err)
	}
	n := rate.N(length)
	return beep.Take(n, &envelope{
		src:    tone,
		volume: volume,
		decay:  5 / float64(n),
	}), nil
}

// envelope scales src by volume·e^(-decay·i) for sample i.
type envelope struct {
	src    beep.Streamer
	volume float64
	decay  float64
	pos    int
}

func (e *envelope) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.src.Stream(samples)
	for i := 0; i < n; i++ {
		g := e.volume * math.Exp(-e.decay*float64(e.pos))
		samples[i][0] *= g
		samples[i][1] *= g
		e.pos++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.src.Err() }
