package param

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParameters reports a ParameterFrame (or PulseParams) that fails
// the structural invariants checked by Validate.
var ErrInvalidParameters = errors.New("nexussynth: invalid parameters")

// ParameterFrame is the analysis output consumed by synthesis: per-frame F0,
// spectral envelope, and band aperiodicity, plus the frame geometry needed
// to interpret them.
//
// Invariant: len(F0) == len(Spectrum) == len(Aperiodicity) == Length, and
// every inner vector has FFTSize/2+1 bins.
type ParameterFrame struct {
	SampleRate    int
	FramePeriodMs float64
	FFTSize       int
	Length        int

	F0            []float64
	Spectrum      [][]float64
	Aperiodicity  [][]float64

	// Label identifies the phoneme/segment this frame sequence belongs to.
	// Populated by training/augmentation callers; ignored by synthesis.
	Label string
}

// BinCount returns the number of spectral bins per frame (FFTSize/2 + 1).
func (f *ParameterFrame) BinCount() int {
	return f.FFTSize/2 + 1
}

// Validate checks the structural invariants of a ParameterFrame. It does
// not mutate the frame.
func (f *ParameterFrame) Validate() error {
	if f == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidParameters)
	}
	if f.SampleRate <= 0 {
		return fmt.Errorf("%w: sample_rate must be positive, got %d", ErrInvalidParameters, f.SampleRate)
	}
	if f.FFTSize <= 0 {
		return fmt.Errorf("%w: fft_size must be positive, got %d", ErrInvalidParameters, f.FFTSize)
	}
	if f.Length < 0 {
		return fmt.Errorf("%w: length must be >= 0, got %d", ErrInvalidParameters, f.Length)
	}

	if len(f.F0) != f.Length {
		return fmt.Errorf("%w: f0 length %d != declared length %d", ErrInvalidParameters, len(f.F0), f.Length)
	}
	if len(f.Spectrum) != f.Length {
		return fmt.Errorf("%w: spectrum length %d != declared length %d", ErrInvalidParameters, len(f.Spectrum), f.Length)
	}
	if len(f.Aperiodicity) != f.Length {
		return fmt.Errorf("%w: aperiodicity length %d != declared length %d", ErrInvalidParameters, len(f.Aperiodicity), f.Length)
	}

	want := f.BinCount()
	for t := 0; t < f.Length; t++ {
		if len(f.Spectrum[t]) != want {
			return fmt.Errorf("%w: spectrum[%d] has %d bins, want %d", ErrInvalidParameters, t, len(f.Spectrum[t]), want)
		}
		if len(f.Aperiodicity[t]) != want {
			return fmt.Errorf("%w: aperiodicity[%d] has %d bins, want %d", ErrInvalidParameters, t, len(f.Aperiodicity[t]), want)
		}
		if math.IsNaN(f.F0[t]) || math.IsInf(f.F0[t], 0) || f.F0[t] < 0 {
			return fmt.Errorf("%w: f0[%d] is invalid: %v", ErrInvalidParameters, t, f.F0[t])
		}
		for k, v := range f.Aperiodicity[t] {
			if math.IsNaN(v) || v < 0 || v > 1 {
				return fmt.Errorf("%w: aperiodicity[%d][%d] out of [0,1]: %v", ErrInvalidParameters, t, k, v)
			}
		}
	}

	return nil
}

// CheckSampleRate compares the frame's sample rate against the engine's
// configured sample rate. A mismatch is a warning-level condition (not
// fatal) per the error handling design: callers log the returned error but
// may proceed.
func (f *ParameterFrame) CheckSampleRate(engineSampleRate int) error {
	if f.SampleRate != engineSampleRate {
		return fmt.Errorf("parameter frame sample rate %d differs from engine sample rate %d", f.SampleRate, engineSampleRate)
	}
	return nil
}

// PulseParams is the per-pulse synthesis instruction: a single frame's
// worth of F0/spectrum/aperiodicity plus pulse placement and per-pulse
// modifiers.
type PulseParams struct {
	F0           float64
	Spectrum     []float64
	Aperiodicity []float64

	PulsePosition  float64
	AmplitudeScale float64
	PitchShift     float64
	FormantShift   float64

	// HarmonicPhases, if non-nil, overrides the per-harmonic phase that
	// would otherwise be zero (or randomized). Index h corresponds to the
	// h-th harmonic (1-based in the synthesis loop, 0-based here).
	HarmonicPhases []float64
}

// Validate checks that spectrum and aperiodicity agree in length and that
// all numeric fields are finite.
func (p *PulseParams) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil pulse params", ErrInvalidParameters)
	}
	if len(p.Spectrum) != len(p.Aperiodicity) {
		return fmt.Errorf("%w: spectrum length %d != aperiodicity length %d", ErrInvalidParameters, len(p.Spectrum), len(p.Aperiodicity))
	}
	if math.IsNaN(p.F0) || math.IsInf(p.F0, 0) || p.F0 < 0 {
		return fmt.Errorf("%w: f0 is invalid: %v", ErrInvalidParameters, p.F0)
	}
	if math.IsNaN(p.PulsePosition) || math.IsInf(p.PulsePosition, 0) {
		return fmt.Errorf("%w: pulse_position is invalid: %v", ErrInvalidParameters, p.PulsePosition)
	}
	return nil
}

// FrameAt extracts the PulseParams for frame index t from a ParameterFrame,
// with default (unity/zero) modifiers.
func FrameAt(f *ParameterFrame, t int) (PulseParams, error) {
	if t < 0 || t >= f.Length {
		return PulseParams{}, fmt.Errorf("%w: frame index %d out of range [0,%d)", ErrInvalidParameters, t, f.Length)
	}
	return PulseParams{
		F0:             f.F0[t],
		Spectrum:       f.Spectrum[t],
		Aperiodicity:   f.Aperiodicity[t],
		AmplitudeScale: 1,
	}, nil
}

// StreamingFrame is the real-time input unit consumed by the streaming
// buffer manager: a single frame's parameters plus scheduling metadata.
type StreamingFrame struct {
	F0           float64
	Spectrum     []float64
	Aperiodicity []float64

	Timestamp  float64
	FrameIndex uint64

	AmplitudeScale float64
	PitchShift     float64
	FormantShift   float64

	IsVoiced            bool
	EnableAntiAliasing  bool
}

// Validate checks structural invariants of a StreamingFrame.
func (s *StreamingFrame) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: nil streaming frame", ErrInvalidParameters)
	}
	if len(s.Spectrum) != len(s.Aperiodicity) {
		return fmt.Errorf("%w: spectrum length %d != aperiodicity length %d", ErrInvalidParameters, len(s.Spectrum), len(s.Aperiodicity))
	}
	if math.IsNaN(s.F0) || math.IsInf(s.F0, 0) || s.F0 < 0 {
		return fmt.Errorf("%w: f0 is invalid: %v", ErrInvalidParameters, s.F0)
	}
	return nil
}

// ToPulseParams converts a StreamingFrame into PulseParams at the given
// pulse position.
func (s *StreamingFrame) ToPulseParams(position float64) PulseParams {
	scale := s.AmplitudeScale
	if scale == 0 {
		scale = 1
	}
	return PulseParams{
		F0:             s.F0,
		Spectrum:       s.Spectrum,
		Aperiodicity:   s.Aperiodicity,
		PulsePosition:  position,
		AmplitudeScale: scale,
		PitchShift:     s.PitchShift,
		FormantShift:   s.FormantShift,
	}
}
