package wheel

import (
	"fmt"
	"math"
)

// Wheel defaults.
const (
	DefaultKey      = "default-wheel"
	DefaultText     = "New Option"
	DefaultSpeed    = 1.0
	DefaultLayers   = 2
	starterMinimum  = 1.0
	starterSpread   = 1.5
	layerNameFormat = "Layer %d"
)

// Layer is a named, independently editable set of segments.
type Layer struct {
	Name     string    `json:"name"`
	Segments []Segment `json:"segments"`
}

// Wheel is a keyed collection of layers with exactly one active layer.
// It is not safe for concurrent use.
type Wheel struct {
	Key    string
	Layers []Layer
	Active int
	Speed  float64
}

// New creates an empty wheel with the default two layers.
func New(key string) *Wheel {
	if key == "" {
		key = DefaultKey
	}
	w := &Wheel{Key: key, Speed: DefaultSpeed}
	for i := 0; i < DefaultLayers; i++ {
		w.Layers = append(w.Layers, Layer{Name: LayerName(i)})
	}
	return w
}

// LayerName returns the display name of the layer at index i.
func LayerName(i int) string {
	return fmt.Sprintf(layerNameFormat, i+1)
}

// ActiveLayer returns the active layer.
func (w *Wheel) ActiveLayer() *Layer {
	w.ensureLayer()
	return &w.Layers[w.Active]
}

// ActiveSegments returns the active layer's segments. The slice aliases the
// wheel; callers that keep it across edits should copy it.
func (w *Wheel) ActiveSegments() []Segment {
	return w.ActiveLayer().Segments
}

// Snapshot returns a copy of the active layer's segments.
func (w *Wheel) Snapshot() []Segment {
	segs := w.ActiveSegments()
	out := make([]Segment, len(segs))
	copy(out, segs)
	return out
}

// TotalWeight sums the active layer's clamped weights.
func (w *Wheel) TotalWeight() float64 {
	return TotalWeight(w.ActiveSegments())
}

// SwitchLayer makes layer i active.
func (w *Wheel) SwitchLayer(i int) error {
	if i < 0 || i >= len(w.Layers) {
		return fmt.Errorf("switch to layer %d: %w", i, ErrLayerIndex)
	}
	w.Active = i
	return nil
}

// AddSegment appends a segment to the active layer. An empty text becomes
// DefaultText, a non-positive weight becomes 1 and an empty color is drawn
// from the palette.
func (w *Wheel) AddSegment(rng RNG, text string, weight float64, color string) {
	if text == "" {
		text = DefaultText
	}
	if math.IsNaN(weight) || weight <= 0 {
		weight = 1
	}
	if color == "" {
		color = RandomColor(rng)
	}
	l := w.ActiveLayer()
	l.Segments = append(l.Segments, Segment{Text: text, Weight: weight, Color: color})
}

// UpdateSegment replaces segment i of the active layer. Weight edits keep
// zero, which hides the segment without removing it.
func (w *Wheel) UpdateSegment(i int, s Segment) error {
	l := w.ActiveLayer()
	if i < 0 || i >= len(l.Segments) {
		return fmt.Errorf("update segment %d: %w", i, ErrSegmentIndex)
	}
	if math.IsNaN(s.Weight) {
		s.Weight = 0
	}
	l.Segments[i] = s
	return nil
}

// RemoveSegment deletes segment i of the active layer.
func (w *Wheel) RemoveSegment(i int) error {
	l := w.ActiveLayer()
	if i < 0 || i >= len(l.Segments) {
		return fmt.Errorf("remove segment %d: %w", i, ErrSegmentIndex)
	}
	l.Segments = append(l.Segments[:i], l.Segments[i+1:]...)
	return nil
}

// DuplicateSegment appends a copy of segment i to the end of the active layer.
func (w *Wheel) DuplicateSegment(i int) error {
	l := w.ActiveLayer()
	if i < 0 || i >= len(l.Segments) {
		return fmt.Errorf("duplicate segment %d: %w", i, ErrSegmentIndex)
	}
	l.Segments = append(l.Segments, l.Segments[i])
	return nil
}

// Clear empties the active layer.
func (w *Wheel) Clear() {
	w.ActiveLayer().Segments = nil
}

// ShuffleColors assigns a fresh palette color to every active segment.
func (w *Wheel) ShuffleColors(rng RNG) {
	l := w.ActiveLayer()
	for i := range l.Segments {
		l.Segments[i].Color = RandomColor(rng)
	}
}

// AddDefaults appends the starter options with weights in [1, 2.5).
func (w *Wheel) AddDefaults(rng RNG) {
	for _, text := range DefaultOptions {
		w.AddSegment(rng, text, starterMinimum+rng.Float64()*starterSpread, "")
	}
}

// SetSpeed stores the spin speed multiplier; invalid values reset it to 1.
func (w *Wheel) SetSpeed(speed float64) {
	w.Speed = NormalizeSpeed(speed)
}

// NormalizeSpeed maps non-positive or non-finite multipliers to DefaultSpeed.
func NormalizeSpeed(speed float64) float64 {
	if math.IsNaN(speed) || math.IsInf(speed, 0) || speed <= 0 {
		return DefaultSpeed
	}
	return speed
}

func (w *Wheel) ensureLayer() {
	if len(w.Layers) == 0 {
		w.Layers = []Layer{{Name: LayerName(0)}}
	}
	if w.Active < 0 || w.Active >= len(w.Layers) {
		w.Active = 0
	}
}
