package pbp

import "github.com/nexussynth/nexussynth/dsp/window"

// Config is the synthesis configuration surface: sample-rate/frame
// geometry, harmonic generation limits, windowing mode, and the optional
// anti-aliasing pass.
type Config struct {
	SampleRate                 float64
	FramePeriodMs              float64
	FFTSize                    int
	HopSize                    int
	MaxHarmonics               int
	HarmonicAmplitudeThreshold float64
	WindowType                 window.Type
	WindowLengthFactor         float64
	EnableAdaptiveWindowing    bool
	MinimizePreEcho            bool
	OptimizeSpectralLeakage    bool
	SideLobeSuppressionDB      float64
	EnableAntiAliasing         bool
	NoiseFloor                 float64
	EnablePhaseRandomization   bool
	UseFastFFT                 bool
	SynthesisThreads           int
	BufferSize                 int
	LatencyTargetMs            float64
}

// DefaultConfig returns synthesis defaults suitable for 44.1kHz vocal
// resynthesis.
func DefaultConfig() Config {
	return Config{
		SampleRate:                 44100,
		FramePeriodMs:              5.0,
		FFTSize:                    2048,
		HopSize:                    220,
		MaxHarmonics:               200,
		HarmonicAmplitudeThreshold: 1e-6,
		WindowType:                 window.TypeHann,
		WindowLengthFactor:         1.0,
		EnableAdaptiveWindowing:    false,
		MinimizePreEcho:            false,
		OptimizeSpectralLeakage:    false,
		SideLobeSuppressionDB:      -60,
		EnableAntiAliasing:         false,
		NoiseFloor:                 1e-4,
		EnablePhaseRandomization:   false,
		UseFastFFT:                 true,
		SynthesisThreads:           1,
		BufferSize:                 4096,
		LatencyTargetMs:            50,
	}
}
