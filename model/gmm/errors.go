package gmm

import "errors"

// ErrDimensionMismatch is returned when a vector's length does not match
// a component's dimensionality.
var ErrDimensionMismatch = errors.New("gmm: dimension mismatch")

// ErrEmptyMixture is returned by operations that require at least one
// component.
var ErrEmptyMixture = errors.New("gmm: mixture has no components")
