package loadtest

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/okian/spinwheel/internal/domain/model"
	"github.com/okian/spinwheel/internal/domain/spin"
	"github.com/okian/spinwheel/internal/domain/wheel"
	"github.com/okian/spinwheel/pkg/logger"
)

const angleEpsilon = 1e-9

// VerifyPlan checks that a spin record is a consistent animation plan for
// segments: the pointer rests inside the winner, the reveal angle lies in
// the second half of the winner's arc, and the wheel turns forward by the
// reported number of full turns plus less than one more.
func VerifyPlan(rec model.SpinRecord, segments []wheel.Segment) error {
	if rec.Winner < 0 || rec.Winner >= len(segments) {
		return fmt.Errorf("%w: winner %d out of %d segments", ErrBadPlan, rec.Winner, len(segments))
	}
	if rec.Segment.Text != segments[rec.Winner].Text {
		return fmt.Errorf("%w: winner %d is %q, record says %q", ErrBadPlan, rec.Winner, segments[rec.Winner].Text, rec.Segment.Text)
	}

	travel := rec.TargetAngle - rec.StartAngle
	minTravel := float64(rec.ExtraTurns) * spin.TwoPi
	if travel < minTravel-angleEpsilon || travel >= minTravel+spin.TwoPi+angleEpsilon {
		return fmt.Errorf("%w: travel %.4f for %d extra turns", ErrBadPlan, travel, rec.ExtraTurns)
	}

	ivs := spin.Intervals(segments, rec.TargetAngle)
	if ivs == nil {
		return fmt.Errorf("%w: wheel has no weight", ErrBadPlan)
	}
	win := ivs[rec.Winner]
	rel := spin.NormalizeAngle(spin.PointerAngle - win.Start)
	if rel > win.Sweep()+angleEpsilon && rel < spin.TwoPi-angleEpsilon {
		return fmt.Errorf("%w: pointer %.4f rad outside winner arc of %.4f", ErrBadPlan, rel, win.Sweep())
	}

	if rec.EntryAngle > rec.TargetAngle+angleEpsilon ||
		math.Abs(rec.TargetAngle-rec.EntryAngle-win.Sweep()/2) > 1e-6 {
		return fmt.Errorf("%w: entry %.4f target %.4f sweep %.4f", ErrBadPlan, rec.EntryAngle, rec.TargetAngle, win.Sweep())
	}
	if rec.DurationMS <= 0 {
		return fmt.Errorf("%w: duration %dms", ErrBadPlan, rec.DurationMS)
	}
	return nil
}

// VerifyDistribution compares win counts with the weight shares. Every
// segment's observed share must be within tolerance of its expected share.
func VerifyDistribution(wins []int, segments []wheel.Segment, tolerance float64) error {
	total := wheel.TotalWeight(segments)
	n := 0
	for _, w := range wins {
		n += w
	}
	if n == 0 || total <= 0 {
		return fmt.Errorf("%w: no wins to compare", ErrDistribution)
	}

	var bad []string
	for i, s := range segments {
		want := s.ClampedWeight() / total
		got := 0.0
		if i < len(wins) {
			got = float64(wins[i]) / float64(n)
		}
		if math.Abs(got-want) > tolerance {
			bad = append(bad, fmt.Sprintf("%d: got %.3f want %.3f", i, got, want))
		}
	}
	if len(bad) > 0 {
		return fmt.Errorf("%w: %s", ErrDistribution, strings.Join(bad, "; "))
	}
	return nil
}

// VerifyDuplicates checks that every idempotency key produced exactly one
// fresh spin and every replay was answered as a duplicate.
func VerifyDuplicates(stats *Stats, uniqueKeys int) error {
	if stats.SpinsFailed > 0 {
		return fmt.Errorf("%w: %d requests failed", ErrDuplicates, stats.SpinsFailed)
	}
	if stats.SpinsFresh != uniqueKeys {
		return fmt.Errorf("%w: %d fresh spins for %d keys", ErrDuplicates, stats.SpinsFresh, uniqueKeys)
	}
	if stats.SpinsDuplicate != stats.SpinsSubmitted-uniqueKeys {
		return fmt.Errorf("%w: %d duplicates for %d replays", ErrDuplicates, stats.SpinsDuplicate, stats.SpinsSubmitted-uniqueKeys)
	}
	return nil
}

// VerifyHistory checks that the history holds at least want spins and only
// spins this run produced. Workers append concurrently, so order is not
// checked.
func VerifyHistory(history []model.SpinRecord, fresh map[string]struct{}, want int) error {
	if len(history) < want {
		return fmt.Errorf("%w: %d of %d entries", ErrHistory, len(history), want)
	}
	for _, rec := range history {
		if _, ok := fresh[rec.ID]; !ok {
			return fmt.Errorf("%w: unknown spin %s", ErrHistory, rec.ID)
		}
	}
	return nil
}

func logDistribution(ctx context.Context, wins []int, segments []wheel.Segment) {
	total := wheel.TotalWeight(segments)
	n := 0
	for _, w := range wins {
		n += w
	}
	for i, s := range segments {
		share := 0.0
		if n > 0 {
			share = float64(wins[i]) / float64(n)
		}
		logger.Get().Info(ctx, "segment outcome",
			logger.String("segment", s.Text),
			logger.Int("wins", wins[i]),
			logger.Float64("observed", share),
			logger.Float64("expected", s.ClampedWeight()/total))
	}
}
