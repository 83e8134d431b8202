// Package fft provides the FftTransformManager: a low-latency forward/
// inverse FFT façade with plan reuse and the conjugate-symmetric real-IFFT
// primitive used once per synthesized pulse.
//
// The manager does not implement the FFT butterfly itself — it wraps
// github.com/MeKo-Christian/algo-fft's generic complex plan and owns
// everything algo-fft does not: plan caching with LRU eviction, usage
// statistics, and half-spectrum reconstruction.
package fft
