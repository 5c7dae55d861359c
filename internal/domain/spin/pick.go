package spin

import "github.com/okian/spinwheel/internal/domain/wheel"

// Pick returns the index selected by draw r, which should lie in
// [0, TotalWeight). Segments are walked in order subtracting clamped weights;
// the first positive-weight segment that takes the remainder to zero or below
// wins. Returns -1 when there is nothing to pick.
func Pick(segments []wheel.Segment, r float64) int {
	last := -1
	for i, s := range segments {
		w := s.ClampedWeight()
		if w <= 0 {
			continue
		}
		last = i
		r -= w
		if r <= 0 {
			return i
		}
	}
	return last
}

// Draw makes a weighted random selection: segment i wins with probability
// weight[i]/total. It returns the index and the raw draw, or -1 when the
// total weight is not positive.
func Draw(segments []wheel.Segment, rng RNG) (int, float64) {
	total := wheel.TotalWeight(segments)
	if len(segments) == 0 || total <= 0 {
		return -1, 0
	}
	r := rng.Float64() * total
	return Pick(segments, r), r
}
