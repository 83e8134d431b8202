package augment

import (
	"math"
	"testing"

	"github.com/nexussynth/nexussynth/param"
)

func makeFrame() *param.ParameterFrame {
	const length = 20
	const fftSize = 64
	bins := fftSize/2 + 1

	f := &param.ParameterFrame{
		SampleRate:    44100,
		FramePeriodMs: 5,
		FFTSize:       fftSize,
		Length:        length,
		F0:            make([]float64, length),
		Spectrum:      make([][]float64, length),
		Aperiodicity:  make([][]float64, length),
	}
	for t := 0; t < length; t++ {
		f.F0[t] = 220
		spec := make([]float64, bins)
		ap := make([]float64, bins)
		for k := range spec {
			spec[k] = 1.0 / float64(k+1)
			ap[k] = 0.1
		}
		f.Spectrum[t] = spec
		f.Aperiodicity[t] = ap
	}
	return f
}

func TestPitchShiftScalesVoicedF0Only(t *testing.T) {
	f := makeFrame()
	f.F0[5] = 0 // make one frame unvoiced

	a := NewAugmentor(DefaultConfig())
	out := a.pitchShift(f, "x", 12) // one octave up

	for i := range out.F0 {
		if f.F0[i] == 0 {
			if out.F0[i] != 0 {
				t.Fatalf("frame %d: unvoiced frame was shifted to %v", i, out.F0[i])
			}
			continue
		}
		want := f.F0[i] * 2
		if math.Abs(out.F0[i]-want) > 1e-6 {
			t.Fatalf("frame %d: F0 = %v, want %v", i, out.F0[i], want)
		}
	}
}

func TestPitchShiftClampsToRange(t *testing.T) {
	f := makeFrame()
	f.F0[0] = 900

	a := NewAugmentor(DefaultConfig())
	out := a.pitchShift(f, "x", 24) // two octaves up, would exceed 1000 Hz

	if out.F0[0] != 1000 {
		t.Fatalf("F0 = %v, want clamped to 1000", out.F0[0])
	}
}

func TestTimeStretchProducesExpectedLength(t *testing.T) {
	f := makeFrame()
	a := NewAugmentor(DefaultConfig())

	out := a.timeStretch(f, "x", 2.0)
	want := f.Length / 2
	if out.Length != want {
		t.Fatalf("Length = %d, want %d", out.Length, want)
	}
	if err := out.Validate(); err != nil {
		t.Fatalf("stretched frame failed validation: %v", err)
	}
}

func TestInjectNoiseKeepsAperiodicityInRange(t *testing.T) {
	f := makeFrame()
	a := NewAugmentor(DefaultConfig())

	out, _ := a.injectNoise(f, "x", -20)
	for i := range out.Aperiodicity {
		for _, v := range out.Aperiodicity[i] {
			if v < 0 || v > 1 {
				t.Fatalf("aperiodicity out of [0,1]: %v", v)
			}
		}
	}
}

func TestSpectralTiltIncreasesHighFrequencyEnergyForPositiveTilt(t *testing.T) {
	f := makeFrame()
	a := NewAugmentor(DefaultConfig())

	out := a.spectralTilt(f, "x", 6)
	bins := f.BinCount()
	if out.Spectrum[0][bins-1] <= f.Spectrum[0][bins-1] {
		t.Fatalf("expected positive tilt to boost the top bin: got %v, original %v",
			out.Spectrum[0][bins-1], f.Spectrum[0][bins-1])
	}
	if math.Abs(out.Spectrum[0][0]-f.Spectrum[0][0]) > 1e-9 {
		t.Fatalf("expected DC bin to be unaffected by tilt, got %v vs %v", out.Spectrum[0][0], f.Spectrum[0][0])
	}
}

func TestF0ContinuityAllSmoothIsOne(t *testing.T) {
	f := makeFrame()
	if got := f0Continuity(f); got != 1 {
		t.Fatalf("f0Continuity = %v, want 1 for constant F0", got)
	}
}

func TestF0ContinuityDetectsJump(t *testing.T) {
	f := makeFrame()
	f.F0[10] = f.F0[9] * 3 // a sudden jump, ratio well outside [0.8, 1.25]
	got := f0Continuity(f)
	if got >= 1 {
		t.Fatalf("f0Continuity = %v, want < 1 when a jump is present", got)
	}
}

func TestAugmentIncludesOriginalWhenPreserved(t *testing.T) {
	f := makeFrame()
	cfg := DefaultConfig()
	cfg.PreserveOriginal = true
	a := NewAugmentor(cfg)

	results, err := a.Augment(f, "phoneme")
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}
	if len(results) == 0 || results[0].Type != "original" {
		t.Fatalf("expected first result to be the preserved original, got %+v", results)
	}
}

func TestAugmentRejectsInvalidFrame(t *testing.T) {
	a := NewAugmentor(DefaultConfig())
	bad := &param.ParameterFrame{SampleRate: 0}
	if _, err := a.Augment(bad, "x"); err == nil {
		t.Fatal("expected validation error for invalid frame")
	}
}

func TestSetSeedIsReproducible(t *testing.T) {
	f := makeFrame()
	cfg := DefaultConfig()

	a1 := NewAugmentor(cfg)
	a1.SetSeed(7)
	r1, err := a1.Augment(f, "x")
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}

	a2 := NewAugmentor(cfg)
	a2.SetSeed(7)
	r2, err := a2.Augment(f, "x")
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}

	if len(r1) != len(r2) {
		t.Fatalf("result counts differ: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i].Type != r2[i].Type {
			t.Fatalf("result %d type differs: %v vs %v", i, r1[i].Type, r2[i].Type)
		}
	}
}
