// Package pbp implements the PbpSynthesisEngine: pulse-by-pulse vocal
// resynthesis from analyzed source-filter parameters, with adaptive
// windowing, FFT-based spectrum-to-pulse inversion, and overlap-add with
// crossfade boundary handling.
//
// One Engine renders an entire parameter sequence per Render call. It has
// no streaming mode: it does not queue frames or read audio back through
// synth/stream.Manager.
package pbp
