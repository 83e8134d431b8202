// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections can be
// cascaded via [Chain] for higher-order filters; the pulse-by-pulse engine's
// anti-aliasing path cascades two sections at the standard 4th-order
// Butterworth Q values, checking [Chain.IsStable] before accepting the
// design. [Coefficients.Poles] and [Chain.IsStable] give callers a way to
// verify a cascade before committing it to a live render path.
//
// This package provides the processing runtime only. Single-section
// coefficient design (RBJ low-pass, high-pass, band-pass, notch, all-pass,
// peaking and shelving) lives in dsp/filter/design; that package has no
// Butterworth or Chebyshev cascade designers.
package biquad
