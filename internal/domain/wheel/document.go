package wheel

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the persisted form of a wheel.
type Document struct {
	Layers []Layer `json:"layers"`
	Active int     `json:"active"`
	Speed  float64 `json:"speed,omitempty"`
}

// legacyDocument is the two-layer object shape written by older clients.
type legacyDocument struct {
	Segments []Segment `json:"segments"`
	Layer2   []Segment `json:"layer2"`
	Speed    float64   `json:"speed"`
}

// Decode parses a wheel document. Besides the current layered shape it
// accepts a bare segment array (layer 1 only) and the legacy
// {"segments": [...], "layer2": [...]} object.
func Decode(data []byte) (Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Document{}, fmt.Errorf("empty document: %w", ErrDecode)
	}

	if data[0] == '[' {
		var segs []Segment
		if err := json.Unmarshal(data, &segs); err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		return twoLayers(segs, nil, 0), nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	if _, ok := probe["layers"]; ok {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return Document{}, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		if doc.Active < 0 || doc.Active >= len(doc.Layers) {
			doc.Active = 0
		}
		for i := range doc.Layers {
			if doc.Layers[i].Name == "" {
				doc.Layers[i].Name = LayerName(i)
			}
		}
		return doc, nil
	}

	var legacy legacyDocument
	if err := json.Unmarshal(data, &legacy); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return twoLayers(legacy.Segments, legacy.Layer2, legacy.Speed), nil
}

func twoLayers(first, second []Segment, speed float64) Document {
	return Document{
		Layers: []Layer{
			{Name: LayerName(0), Segments: first},
			{Name: LayerName(1), Segments: second},
		},
		Speed: speed,
	}
}

// Encode renders a document as JSON.
func Encode(doc Document) ([]byte, error) {
	return json.Marshal(doc)
}

// FromDocument builds a wheel from its persisted form.
func FromDocument(key string, doc Document) *Wheel {
	w := New(key)
	if len(doc.Layers) > 0 {
		w.Layers = append([]Layer(nil), doc.Layers...)
	}
	for i := range w.Layers {
		if w.Layers[i].Name == "" {
			w.Layers[i].Name = LayerName(i)
		}
	}
	w.Active = doc.Active
	w.ensureLayer()
	w.SetSpeed(doc.Speed)
	return w
}

// Document returns the persisted form of the wheel.
func (w *Wheel) Document() Document {
	w.ensureLayer()
	layers := make([]Layer, len(w.Layers))
	for i, l := range w.Layers {
		segs := make([]Segment, len(l.Segments))
		copy(segs, l.Segments)
		layers[i] = Layer{Name: l.Name, Segments: segs}
	}
	return Document{Layers: layers, Active: w.Active, Speed: w.Speed}
}
