package sound

import "errors"

// Sentinel kinds for sound errors.
var (
	ErrSpeakerInit = errors.New("speaker init failed")
	ErrTone        = errors.New("tone generation failed")
)
