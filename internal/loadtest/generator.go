package loadtest

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/pkg/logger"
)

// Weight tiers for generated segments. Mixing them gives the distribution
// check both common and rare winners.
var weightTiers = []float64{1, 1, 2, 3, 0.5} //nolint:gochecknoglobals // immutable tier table

// GenerateWheel builds a single-layer wheel with n weighted segments.
func GenerateWheel(n int, rng *rand.Rand) wheel.Document {
	segs := make([]wheel.Segment, n)
	for i := range segs {
		segs[i] = wheel.Segment{
			Text:   fmt.Sprintf("Prize %d", i+1),
			Weight: weightTiers[i%len(weightTiers)],
			Color:  wheel.Palette[rng.IntN(len(wheel.Palette))],
		}
	}
	return wheel.Document{
		Layers: []wheel.Layer{{Name: wheel.LayerName(0), Segments: segs}},
		Speed:  1,
	}
}

// GenerateRequests returns n spin requests. About ratio of them replay the
// idempotency key of an earlier request; the rest carry fresh keys.
func GenerateRequests(n int, ratio float64, rng *rand.Rand) []SpinRequest {
	reqs := make([]SpinRequest, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 && rng.Float64() < ratio {
			prev := reqs[rng.IntN(len(reqs))]
			reqs = append(reqs, SpinRequest{IdempotencyKey: prev.IdempotencyKey, Replay: true})
			continue
		}
		reqs = append(reqs, SpinRequest{IdempotencyKey: uuid.NewString()})
	}
	return reqs
}

// UniqueKeys counts the distinct idempotency keys in reqs.
func UniqueKeys(reqs []SpinRequest) int {
	seen := make(map[string]struct{}, len(reqs))
	for _, r := range reqs {
		seen[r.IdempotencyKey] = struct{}{}
	}
	return len(seen)
}

func seedWheel(ctx context.Context, client *HTTPClient, config *Config, rng *rand.Rand) (seeded, error) {
	doc := GenerateWheel(config.Segments, rng)
	if err := client.DeleteWheel(ctx, config.WheelKey); err != nil {
		return seeded{}, fmt.Errorf("reset wheel: %w", err)
	}
	if err := client.PutWheel(ctx, config.WheelKey, doc); err != nil {
		return seeded{}, fmt.Errorf("store wheel: %w", err)
	}
	logger.Get().Info(ctx, "seeded wheel",
		logger.String("key", config.WheelKey),
		logger.Int("segments", len(doc.Layers[0].Segments)),
		logger.Float64("totalWeight", wheel.TotalWeight(doc.Layers[0].Segments)))
	return seeded{doc: doc, segments: doc.Layers[0].Segments}, nil
}
