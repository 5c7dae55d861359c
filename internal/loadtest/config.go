// Package loadtest drives a running spinwheel service with concurrent spins
// and checks the outcomes: duplicate handling, plan geometry, winner
// distribution against the weights, and history recording.
package loadtest

import (
	"time"

	"github.com/okian/spinwheel/internal/domain/model"
	"github.com/okian/spinwheel/internal/domain/wheel"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL        string        // Base URL of the service
	WheelKey       string        // Wheel to create and spin
	Segments       int           // Number of weighted segments on the seeded wheel
	NumSpins       int           // Number of spin requests
	DuplicateRatio float64       // Share of requests that replay an earlier idempotency key
	Workers        int           // Number of concurrent workers
	Timeout        time.Duration // HTTP request timeout
	Tolerance      float64       // Allowed absolute gap between observed and expected win share
	HistoryWait    time.Duration // How long to wait for the history to catch up
	Verbose        bool          // Enable verbose logging
}

// SpinRequest is one request to submit.
type SpinRequest struct {
	IdempotencyKey string
	Replay         bool
}

// SpinResponse mirrors the body of POST /api/wheels/{key}/spin.
type SpinResponse struct {
	Status string            `json:"status"`
	SpinID string            `json:"spin_id"`
	Spin   *model.SpinRecord `json:"spin"`
}

// HistoryResponse mirrors the body of GET /api/wheels/{key}/history.
type HistoryResponse struct {
	Key   string             `json:"key"`
	Spins []model.SpinRecord `json:"spins"`
}

// Stats holds run statistics.
type Stats struct {
	SpinsPlanned    int
	SpinsSubmitted  int
	SpinsFresh      int
	SpinsDuplicate  int
	SpinsFailed     int
	HistoryReturned int
	Wins            []int
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// seeded is the wheel a run spins.
type seeded struct {
	doc      wheel.Document
	segments []wheel.Segment
}
