// Package augment implements DataAugmentor: pitch shift, time stretch,
// noise injection, and spectral tilt transforms over param.ParameterFrame
// sequences, gated by a quality check against the untransformed original.
package augment
