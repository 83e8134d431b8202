package pbp

import "errors"

// ErrInvalidConfig is returned when an Engine is constructed with a
// non-positive sample rate, FFT size, or hop size.
var ErrInvalidConfig = errors.New("pbp: invalid engine configuration")

// ErrEmptySequence is returned by Render when no frames are supplied.
var ErrEmptySequence = errors.New("pbp: empty frame sequence")
