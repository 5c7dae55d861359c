// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/spinwheel/internal/domain/wheel"
)

// SpinRecord is the outcome of one server-side spin.
type SpinRecord struct {
	ID             string        `json:"id"`
	WheelKey       string        `json:"wheel"`
	Layer          int           `json:"layer"`
	LayerName      string        `json:"layer_name"`
	Winner         int           `json:"winner"`
	Segment        wheel.Segment `json:"segment"`
	StartAngle     float64       `json:"start_angle"`
	TargetAngle    float64       `json:"target_angle"`
	EntryAngle     float64       `json:"entry_angle"`
	ExtraTurns     int           `json:"extra_turns"`
	DurationMS     int64         `json:"duration_ms"`
	Speed          float64       `json:"speed"`
	IdempotencyKey string        `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
}
