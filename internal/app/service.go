// Package service implements the wheel and spin operations behind the HTTP
// API: document CRUD against the configured store, server-side spin
// planning, idempotency, and asynchronous history recording.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	outcomequeue "github.com/okian/spinwheel/internal/adapters/mq/queue"
	workerpool "github.com/okian/spinwheel/internal/adapters/mq/worker"
	"github.com/okian/spinwheel/internal/adapters/repository"
	"github.com/okian/spinwheel/internal/domain/dedupe"
	"github.com/okian/spinwheel/internal/domain/model"
	"github.com/okian/spinwheel/internal/domain/spin"
	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/pkg/logger"
	"github.com/okian/spinwheel/pkg/metrics"
)

// SpinRequest selects what to spin. Nil fields fall back to the stored
// wheel's active layer and speed.
type SpinRequest struct {
	Key            string
	Layer          *int
	Speed          *float64
	IdempotencyKey string
}

// SpinResult is either a fresh outcome or a replay marker.
type SpinResult struct {
	Duplicate bool
	SpinID    string
	Record    model.SpinRecord
}

// Service implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	store   repository.WheelStore
	history *repository.HistoryStore
	deduper dedupe.Deduper
	queue   outcomequeue.Queue
	pool    *workerpool.Pool

	settings spin.Settings
	rng      spin.RNG
	newID    func() string
	now      func() time.Time

	// angles holds the resting rotation of each wheel between spins.
	anglesMu sync.Mutex
	angles   map[string]float64

	workerCount int
	queueSize   int
	dedupeSize  int
	historySize int

	started bool
	logger  logger.Logger
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		settings:    spin.DefaultSettings(),
		rng:         spin.DefaultRNG(),
		newID:       uuid.NewString,
		now:         time.Now,
		angles:      make(map[string]float64),
		workerCount: runtime.NumCPU(),
		queueSize:   10_000,
		dedupeSize:  100_000,
		historySize: 100,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the history pipeline and starts the workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.store == nil {
		return fmt.Errorf("start: %w: no wheel store configured", ErrNotStarted)
	}

	s.history = repository.NewHistoryStore(repository.WithHistoryLimit(s.historySize))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = outcomequeue.NewInMemoryQueue(outcomequeue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.history)
	s.pool.Start(ctx)

	if n, err := s.store.Count(ctx); err == nil {
		metrics.UpdateWheelsTotal(n)
	}

	s.started = true
	s.logger.Info(ctx, "spinwheel service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("historySize", s.historySize),
	)
	return nil
}

// Stop drains queued outcomes and stops the workers. The store is owned
// by the caller and left open.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool did not drain", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "spinwheel service stopped")
}

func (s *Service) running() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

// ListWheels returns every stored wheel.
func (s *Service) ListWheels(ctx context.Context) (map[string]wheel.Document, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	return s.store.List(ctx)
}

// GetWheel returns one wheel document.
func (s *Service) GetWheel(ctx context.Context, key string) (wheel.Document, error) {
	if err := s.running(); err != nil {
		return wheel.Document{}, err
	}
	return s.store.Get(ctx, key)
}

// PutWheel stores doc under key after normalising it through the wheel
// model (layer names, active index, speed).
func (s *Service) PutWheel(ctx context.Context, key string, doc wheel.Document) error {
	if err := s.running(); err != nil {
		return err
	}
	normalized := wheel.FromDocument(key, doc).Document()
	if err := s.store.Put(ctx, key, normalized); err != nil {
		metrics.RecordErrorByComponent("store", "put")
		return err
	}
	metrics.RecordWheelSave()
	s.refreshWheelCount(ctx)
	return nil
}

// DeleteWheel removes a wheel along with its rotation and history.
func (s *Service) DeleteWheel(ctx context.Context, key string) error {
	if err := s.running(); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, key); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			metrics.RecordErrorByComponent("store", "delete")
		}
		return err
	}
	s.anglesMu.Lock()
	delete(s.angles, key)
	s.anglesMu.Unlock()
	s.history.Forget(key)

	metrics.RecordWheelDelete()
	s.refreshWheelCount(ctx)
	return nil
}

func (s *Service) refreshWheelCount(ctx context.Context) {
	if n, err := s.store.Count(ctx); err == nil {
		metrics.UpdateWheelsTotal(n)
	}
}

// Spin draws a winner on the requested wheel and returns the animation
// plan a client needs to show it. Requests repeating an idempotency key
// return the id of the first spin instead of drawing again.
func (s *Service) Spin(ctx context.Context, req SpinRequest) (SpinResult, error) {
	if err := s.running(); err != nil {
		return SpinResult{}, err
	}

	doc, err := s.store.Get(ctx, req.Key)
	if err != nil {
		return SpinResult{}, err
	}
	w := wheel.FromDocument(req.Key, doc)
	if req.Layer != nil {
		if err := w.SwitchLayer(*req.Layer); err != nil {
			return SpinResult{}, fmt.Errorf("%w: %w", ErrInvalidLayer, err)
		}
	}
	speed := w.Speed
	if req.Speed != nil {
		speed = *req.Speed
	}
	segments := w.Snapshot()

	id := s.newID()
	var claim string
	if req.IdempotencyKey != "" {
		claim = req.Key + "/" + req.IdempotencyKey
		if prev, seen := s.deduper.Claim(ctx, claim, id); seen {
			metrics.RecordSpinDuplicate()
			s.logger.Debug(ctx, "duplicate spin request",
				logger.String("wheel", req.Key),
				logger.String("spin_id", prev),
			)
			return SpinResult{Duplicate: true, SpinID: prev}, nil
		}
	}

	s.anglesMu.Lock()
	prior := s.angles[req.Key]
	plan, ok := spin.NewPlan(segments, prior, speed, s.rng, s.settings)
	if ok {
		s.angles[req.Key] = spin.NormalizeAngle(plan.Target)
	}
	s.anglesMu.Unlock()

	if !ok {
		if claim != "" {
			s.deduper.Release(ctx, claim)
		}
		metrics.RecordSpinNoop()
		return SpinResult{}, ErrNothingToWin
	}

	layer := w.ActiveLayer()
	rec := model.SpinRecord{
		ID:             id,
		WheelKey:       req.Key,
		Layer:          w.Active,
		LayerName:      layer.Name,
		Winner:         plan.Winner,
		Segment:        plan.Segment,
		StartAngle:     plan.Prior,
		TargetAngle:    plan.Target,
		EntryAngle:     plan.Entry,
		ExtraTurns:     plan.Turns,
		DurationMS:     plan.Duration.Milliseconds(),
		Speed:          wheel.NormalizeSpeed(speed),
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      s.now().UTC(),
	}
	metrics.RecordSpin(layer.Name, float64(rec.DurationMS), rec.ExtraTurns)

	if !s.queue.Enqueue(ctx, rec) {
		s.logger.Warn(ctx, "spin outcome dropped from history",
			logger.String("wheel", req.Key),
			logger.String("spin_id", id),
		)
	}

	s.logger.Info(ctx, "spin planned",
		logger.String("wheel", req.Key),
		logger.String("spin_id", id),
		logger.Int("winner", plan.Winner),
		logger.String("segment", plan.Segment.Label()),
		logger.Duration("duration", plan.Duration),
	)
	return SpinResult{SpinID: id, Record: rec}, nil
}

// History returns up to limit recent outcomes for key, newest first.
func (s *Service) History(ctx context.Context, key string, limit int) ([]model.SpinRecord, error) {
	if err := s.running(); err != nil {
		return nil, err
	}
	if _, err := s.store.Get(ctx, key); err != nil {
		return nil, err
	}
	return s.history.Recent(key, limit), nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"historySize": s.historySize,
	}
	if !s.started {
		return stats
	}

	ctx := context.Background()
	stats["queueLength"] = s.queue.Len(ctx)
	stats["historyEntries"] = s.history.Len()
	stats["idempotencyKeys"] = s.deduper.Size()
	stats["busyWorkers"] = s.pool.Busy()
	if n, err := s.store.Count(ctx); err == nil {
		stats["wheels"] = n
	}
	s.anglesMu.Lock()
	stats["trackedRotations"] = len(s.angles)
	s.anglesMu.Unlock()
	return stats
}
