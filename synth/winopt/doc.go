// Package winopt implements the WindowOptimizer: content-aware window
// type selection and three post-generation optimization passes (pre-echo
// suppression, spectral-leakage minimization, and overlap-add
// reconstruction correction) layered on top of the dsp/window library.
//
// All spectral shape measurement is delegated: stats/frequency for
// centroid/flatness/bandwidth, measure/thd for harmonic content, and
// stats/time for crest factor as a transient proxy. winopt owns only the
// decision tables and the coefficient-level touch-ups that turn those
// measurements into a window choice.
package winopt
