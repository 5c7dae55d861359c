// Package wheel contains the prize wheel model: weighted segments grouped into layers.
package wheel

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// MaxLabelRunes caps the label drawn on the wheel face.
const MaxLabelRunes = 30

// Segment is one wedge of the wheel.
type Segment struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
	Color  string  `json:"color"`
}

// ClampedWeight returns the weight used for probability and sweep; negative
// and non-finite weights count as zero.
func (s Segment) ClampedWeight() float64 {
	if math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) || s.Weight < 0 {
		return 0
	}
	return s.Weight
}

// Label returns the text truncated for rendering.
func (s Segment) Label() string {
	r := []rune(s.Text)
	if len(r) <= MaxLabelRunes {
		return s.Text
	}
	return string(r[:MaxLabelRunes])
}

// UnmarshalJSON accepts weights stored as numbers or numeric strings.
// Anything unparseable becomes zero weight.
func (s *Segment) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text   string          `json:"text"`
		Weight json.RawMessage `json:"weight"`
		Color  string          `json:"color"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Text = raw.Text
	s.Color = raw.Color
	s.Weight = parseWeight(raw.Weight)
	return nil
}

func parseWeight(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return f
	}
	var str string
	if err := json.Unmarshal(raw, &str); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			return f
		}
	}
	return 0
}

// TotalWeight sums clamped weights.
func TotalWeight(segments []Segment) float64 {
	total := 0.0
	for _, s := range segments {
		total += s.ClampedWeight()
	}
	return total
}
