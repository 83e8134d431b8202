package hmm

import "errors"

// ErrEmptyTopology is returned when a PhonemeHmm is constructed with no states.
var ErrEmptyTopology = errors.New("hmm: phoneme model has no states")

// ErrEmptySequence is returned when Forward/Backward/Viterbi is given no observations.
var ErrEmptySequence = errors.New("hmm: observation sequence is empty")

// ErrDimensionMismatch is returned when an observation's dimensionality
// does not match a state's emission mixture.
var ErrDimensionMismatch = errors.New("hmm: observation dimension mismatch")
