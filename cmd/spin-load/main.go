package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/okian/spinwheel/internal/loadtest"
	"github.com/okian/spinwheel/pkg/logger"
)

// Default configuration constants.
const (
	defaultNumSpins       = 5000
	defaultSegments       = 8
	defaultDuplicateRatio = 0.1
	defaultWorkers        = 2 // multiplier for runtime.NumCPU()
	defaultTimeout        = 30 * time.Second
	defaultTolerance      = 0.03
	defaultHistoryWait    = 10 * time.Second
	defaultRunTimeout     = 10 * time.Minute
)

func main() {
	var (
		baseURL   = flag.String("url", "http://localhost:9080", "Base URL of the service")
		key       = flag.String("wheel", "load-test", "Wheel key to create and spin (overwritten)")
		segments  = flag.Int("segments", defaultSegments, "Number of segments on the seeded wheel")
		numSpins  = flag.Int("spins", defaultNumSpins, "Number of spin requests to submit")
		dupRatio  = flag.Float64("dup", defaultDuplicateRatio, "Share of requests replaying an earlier Idempotency-Key")
		workers   = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout   = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		tolerance = flag.Float64("tolerance", defaultTolerance, "Allowed gap between observed and expected win share")
		wait      = flag.Duration("history-wait", defaultHistoryWait, "How long to wait for the history to catch up")
		verbose   = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	_, err := loadtest.Run(ctx, &loadtest.Config{
		BaseURL:        *baseURL,
		WheelKey:       *key,
		Segments:       *segments,
		NumSpins:       *numSpins,
		DuplicateRatio: *dupRatio,
		Workers:        *workers,
		Timeout:        *timeout,
		Tolerance:      *tolerance,
		HistoryWait:    *wait,
		Verbose:        *verbose,
	})
	if err != nil {
		os.Stderr.WriteString("load run failed: " + err.Error() + "\n")
		cancel()
		os.Exit(1) //nolint:gocritic // cancel called explicitly above
	}
}
