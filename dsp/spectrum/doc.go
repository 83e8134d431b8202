// Package spectrum provides FFT-adjacent spectrum-domain utilities used by
// the window optimizer's spectral-shape measurements (centroid, flatness,
// bandwidth) and by the pitch-tracking verification path: magnitude/power/
// phase extraction, group delay, fractional-octave smoothing, and a
// Goertzel single-bin analyzer for cheap pilot-tone checks.
//
// The package intentionally does not implement FFT itself — it operates on
// complex spectrum bins produced by external FFT backends (dsp/fft), and it
// borrows dsp/buffer's pooled allocator for the interleaved-to-split-plane
// scratch space its SIMD paths need.
package spectrum
