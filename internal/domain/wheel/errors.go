package wheel

import "errors"

// Sentinel kinds for wheel errors.
var (
	ErrSegmentIndex = errors.New("segment index out of range")
	ErrLayerIndex   = errors.New("layer index out of range")
	ErrDecode       = errors.New("decode wheel document")
)
