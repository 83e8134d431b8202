package flags

import (
	"math"

	"github.com/nexussynth/nexussynth/dsp/core"
)

// Input is the raw UTAU flag set plus context needed to resolve it.
type Input struct {
	G, T, Bri int // UTAU convention: in [-100, 100]
	Bre       int // UTAU convention: in [0, 100]
	BaseF0    float64
	VoiceType VoiceType
}

// Output is the resolved set of synthesis parameters.
type Output struct {
	FormantShiftFactor float64
	TensionFactor      float64
	BreathinessLevel   float64
	BrightnessGain     float64

	// HarmonicEmphasis and SpectralTiltDB are additive adjustments
	// produced only by the g>30 && t>30 cross-flag interaction; they
	// are zero otherwise.
	HarmonicEmphasis float64
	SpectralTiltDB   float64
}

// Convert maps UTAU flags to synthesis parameters per the base
// mappings, optional cross-flag interactions, voice-type adjustment
// table, and final safety limiting.
func Convert(in Input, cfg Config) Output {
	freqScaling := 1.0
	if in.BaseF0 > 0 {
		freqScaling = 1 + 0.2*math.Log2(in.BaseF0/110)
	}

	gRatio := float64(in.G) / 100
	tRatio := float64(in.T) / 100
	breRatio := float64(in.Bre) / 100
	briRatio := float64(in.Bri) / 100

	formantShift := 1 + gRatio*0.5*cfg.GSensitivity*freqScaling
	tension := math.Tanh(1.5 * tRatio * cfg.TSensitivity)
	breathiness := core.Clamp(breRatio*0.8*cfg.BreSensitivity, 0, 1)
	brightness := 1 + briRatio*0.6*cfg.BriSensitivity
	harmonicEmphasis := 0.0
	spectralTiltDB := 0.0

	if cfg.EnableCrossFlagInteractions {
		if in.G > 30 && in.T > 30 {
			harmonicEmphasis += 0.2
			spectralTiltDB += 1.0
		}
		if in.Bre > 50 && in.T > 40 {
			breathiness *= 0.7
			tension *= 0.8
		}
		if absInt(in.Bri) > 30 && absInt(in.G) > 20 {
			formantShift += briRatio * gRatio * 0.15
		}
		if in.Bre > 30 && in.Bri != 0 {
			brightness *= 1 - breRatio*0.2
		}
	}

	adj := adjustmentTable[in.VoiceType]
	formantShift *= adj.formantShift
	tension *= adj.tension
	breathiness *= adj.breathiness
	brightness *= adj.brightness

	return Output{
		FormantShiftFactor: core.Clamp(formantShift, cfg.FormantShiftRange[0], cfg.FormantShiftRange[1]),
		TensionFactor:      core.Clamp(tension, cfg.TensionRange[0], cfg.TensionRange[1]),
		BreathinessLevel:   core.Clamp(breathiness, cfg.BreathinessRange[0], cfg.BreathinessRange[1]),
		BrightnessGain:     core.Clamp(brightness, cfg.BrightnessRange[0], cfg.BrightnessRange[1]),
		HarmonicEmphasis:   harmonicEmphasis,
		SpectralTiltDB:     spectralTiltDB,
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
