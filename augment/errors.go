package augment

import "errors"

// ErrRejected describes a candidate transform that fails the quality
// gate. Augment does not return it: a rejected candidate is simply left
// out of Augment's result slice.
var ErrRejected = errors.New("augment: candidate rejected by quality gate")
