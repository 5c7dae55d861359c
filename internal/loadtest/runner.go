package loadtest

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/spinwheel/internal/domain/model"
	"github.com/okian/spinwheel/pkg/logger"
)

// Runner configuration constants.
const (
	workerChannelMultiplier = 2
	progressInterval        = time.Second
	historyPollInterval     = 100 * time.Millisecond
	maxHistoryLimit         = 100
	percentageMultiplier    = 100
)

type outcome struct {
	resp SpinResponse
	err  error
}

// Run executes a complete load run and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("loadtest")
	rng := rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)) //nolint:gosec // load shape, not security

	log.Info(ctx, "starting spin load run",
		logger.String("baseURL", config.BaseURL),
		logger.String("wheel", config.WheelKey),
		logger.Int("spins", config.NumSpins),
		logger.Int("workers", config.Workers),
		logger.Float64("duplicateRatio", config.DuplicateRatio))

	client := NewHTTPClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := client.Health(ctx); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrUnhealthy, err)
	}

	// Step 2: Seed the wheel
	w, err := seedWheel(ctx, client, config, rng)
	if err != nil {
		return stats, err
	}

	// Step 3: Generate requests
	reqs := GenerateRequests(config.NumSpins, config.DuplicateRatio, rng)
	unique := UniqueKeys(reqs)
	stats.SpinsPlanned = len(reqs)

	// Step 4: Submit concurrently
	results := submitSpins(ctx, client, config, reqs, stats)

	// Step 5: Verify outcomes
	stats.Wins = make([]int, len(w.segments))
	fresh := make(map[string]struct{}, unique)
	var errs []error
	for _, r := range results {
		if r.err != nil || r.resp.Status != "ok" || r.resp.Spin == nil {
			continue
		}
		fresh[r.resp.SpinID] = struct{}{}
		if err := VerifyPlan(*r.resp.Spin, w.segments); err != nil {
			errs = append(errs, err)
			continue
		}
		stats.Wins[r.resp.Spin.Winner]++
	}
	if err := VerifyDuplicates(stats, unique); err != nil {
		errs = append(errs, err)
	}
	logDistribution(ctx, stats.Wins, w.segments)
	if err := VerifyDistribution(stats.Wins, w.segments, config.Tolerance); err != nil {
		errs = append(errs, err)
	}

	// Step 6: Wait for the history to catch up
	want := min(len(fresh), maxHistoryLimit)
	history, err := waitForHistory(ctx, client, config, want)
	if err != nil {
		errs = append(errs, err)
	} else if err := VerifyHistory(history, fresh, want); err != nil {
		errs = append(errs, err)
	}
	stats.HistoryReturned = len(history)

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)

	if err := errors.Join(errs...); err != nil {
		return stats, err
	}
	log.Info(ctx, "load run passed")
	return stats, nil
}

// submitSpins fans requests out to config.Workers goroutines. Results keep
// the order of reqs.
func submitSpins(ctx context.Context, client *HTTPClient, config *Config, reqs []SpinRequest, stats *Stats) []outcome {
	log := logger.Get().Named("loadtest")
	results := make([]outcome, len(reqs))

	var (
		submitted  int64
		fresh      int64
		duplicate  int64
		failed     int64
		lastReport atomic.Int64
	)

	workers := max(1, config.Workers)
	indexChan := make(chan int, workers*workerChannelMultiplier)
	var wg sync.WaitGroup

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexChan {
				resp, err := client.Spin(ctx, config.WheelKey, reqs[idx].IdempotencyKey)
				results[idx] = outcome{resp: resp, err: err}

				atomic.AddInt64(&submitted, 1)
				switch {
				case err != nil:
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						log.Warn(ctx, "spin failed", logger.Error(err))
					}
				case resp.Status == "duplicate":
					atomic.AddInt64(&duplicate, 1)
				default:
					atomic.AddInt64(&fresh, 1)
				}

				now := time.Now().UnixNano()
				last := lastReport.Load()
				if now-last >= int64(progressInterval) && lastReport.CompareAndSwap(last, now) {
					log.Info(ctx, "progress",
						logger.Int64("submitted", atomic.LoadInt64(&submitted)),
						logger.Int("total", len(reqs)),
						logger.Int64("fresh", atomic.LoadInt64(&fresh)),
						logger.Int64("duplicate", atomic.LoadInt64(&duplicate)),
						logger.Int64("failed", atomic.LoadInt64(&failed)))
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)
		for i := range reqs {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.SpinsSubmitted = int(atomic.LoadInt64(&submitted))
	stats.SpinsFresh = int(atomic.LoadInt64(&fresh))
	stats.SpinsDuplicate = int(atomic.LoadInt64(&duplicate))
	stats.SpinsFailed = int(atomic.LoadInt64(&failed))
	return results
}

// waitForHistory polls until the history holds want entries or
// config.HistoryWait passes.
func waitForHistory(ctx context.Context, client *HTTPClient, config *Config, want int) ([]model.SpinRecord, error) {
	limit := max(1, want)
	deadline := time.Now().Add(config.HistoryWait)
	for {
		h, err := client.History(ctx, config.WheelKey, limit)
		if err != nil {
			return nil, fmt.Errorf("fetch history: %w", err)
		}
		if len(h.Spins) >= want || time.Now().After(deadline) {
			return h.Spins, nil
		}
		select {
		case <-ctx.Done():
			return h.Spins, ctx.Err()
		case <-time.After(historyPollInterval):
		}
	}
}

// displayFinalStats logs the final run statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var freshRate, spinsPerSecond float64
	if stats.SpinsSubmitted > 0 {
		freshRate = float64(stats.SpinsFresh) / float64(stats.SpinsSubmitted) * percentageMultiplier
	}
	if stats.Duration > 0 {
		spinsPerSecond = float64(stats.SpinsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.Int("spinsPlanned", stats.SpinsPlanned),
		logger.Int("spinsSubmitted", stats.SpinsSubmitted),
		logger.Int("spinsFresh", stats.SpinsFresh),
		logger.Int("spinsDuplicate", stats.SpinsDuplicate),
		logger.Int("spinsFailed", stats.SpinsFailed),
		logger.Int("historyReturned", stats.HistoryReturned),
		logger.Duration("duration", stats.Duration),
		logger.Float64("freshRate", freshRate),
		logger.Float64("spinsPerSecond", spinsPerSecond))
}
