package pbp

import (
	"math"
	"testing"

	"github.com/nexussynth/nexussynth/param"
)

func makeVoicedFrame(length, fftSize int, sampleRate int, f0 float64) *param.ParameterFrame {
	bins := fftSize/2 + 1
	f := &param.ParameterFrame{
		SampleRate:    sampleRate,
		FramePeriodMs: 5,
		FFTSize:       fftSize,
		Length:        length,
		F0:            make([]float64, length),
		Spectrum:      make([][]float64, length),
		Aperiodicity:  make([][]float64, length),
	}
	for t := 0; t < length; t++ {
		f.F0[t] = f0
		f.Spectrum[t] = make([]float64, bins)
		f.Aperiodicity[t] = make([]float64, bins)
		for k := range f.Spectrum[t] {
			f.Spectrum[t][k] = 1.0 / float64(k+1)
		}
	}
	return f
}

func TestNewEngineRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleRate = 0
	if _, err := NewEngine(cfg); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
}

func TestRenderRejectsEmptySequence(t *testing.T) {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	if _, _, err := e.Render(nil); err == nil {
		t.Fatal("expected error for empty frame sequence")
	}
}

func TestRenderVoicedProducesNonSilentOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FFTSize = 256
	cfg.HopSize = 64
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	frame := makeVoicedFrame(8, cfg.FFTSize, int(cfg.SampleRate), 220)
	out, stats, err := e.Render([]*param.ParameterFrame{frame})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(out) == 0 {
		t.Fatal("expected non-empty output")
	}

	peak := 0.0
	for _, v := range out {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak == 0 {
		t.Fatal("expected non-silent output for a voiced sequence")
	}

	if stats.FramesProcessed != 8 {
		t.Fatalf("FramesProcessed = %d, want 8", stats.FramesProcessed)
	}
	if stats.HarmonicsGenerated == 0 {
		t.Fatal("expected at least one harmonic generated")
	}
	if stats.SynthesisMethod != "pulse-by-pulse" {
		t.Fatalf("SynthesisMethod = %q", stats.SynthesisMethod)
	}
}

func TestRenderUnvoicedAboveNoiseFloorProducesOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FFTSize = 256
	cfg.HopSize = 64
	cfg.NoiseFloor = 0.001
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	bins := cfg.FFTSize/2 + 1
	frame := &param.ParameterFrame{
		SampleRate:   int(cfg.SampleRate),
		FFTSize:      cfg.FFTSize,
		Length:       4,
		F0:           make([]float64, 4),
		Spectrum:     make([][]float64, 4),
		Aperiodicity: make([][]float64, 4),
	}
	for t := 0; t < 4; t++ {
		frame.Spectrum[t] = make([]float64, bins)
		frame.Aperiodicity[t] = make([]float64, bins)
		for k := range frame.Aperiodicity[t] {
			frame.Aperiodicity[t][k] = 0.5
		}
	}

	out, _, err := e.Render([]*param.ParameterFrame{frame})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	nonZero := false
	for _, v := range out {
		if v != 0 {
			nonZero = true
			break
		}
	}
	if !nonZero {
		t.Fatal("expected noise burst output for unvoiced frame above noise floor")
	}
}

func TestRenderDurationTrimsOutput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FFTSize = 256
	cfg.HopSize = 64
	e, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	frame := makeVoicedFrame(4, cfg.FFTSize, int(cfg.SampleRate), 220)
	out, _, err := e.RenderDuration([]*param.ParameterFrame{frame}, 1000)
	if err != nil {
		t.Fatalf("RenderDuration: %v", err)
	}
	if len(out) != 1000 {
		t.Fatalf("len(out) = %d, want 1000", len(out))
	}
}
