// Package interp provides the fractional-position interpolators the
// augmentation engine uses to resample a ParameterFrame's F0, spectral
// envelope, and aperiodicity tracks during time-stretch.
//
// [FrameResampler] selects between linear (order 1) and cubic Hermite
// (order 3, via [Hermite4]) interpolation; time-stretch currently always
// requests order 1, but higher-order resampling is one config change away
// for callers that need smoother pitch tracks at large stretch ratios.
package interp
