package augment

// Config enumerates DataAugmentor's tunable ranges and toggles. Each
// transformation is enabled independently.
type Config struct {
	Seed int64

	PreserveOriginal bool

	EnablePitchShift bool
	MinPitchShift    float64 // semitones
	MaxPitchShift    float64

	EnableTimeStretch bool
	MinTimeStretch    float64 // factor r; L -> floor(L/r)
	MaxTimeStretch    float64

	EnableNoiseInjection bool
	NoiseProbability     float64
	NoiseVarianceDB      float64
	MinSNRDB             float64 // enrichment: reject noise draws below this SNR floor; 0 is a no-op

	EnableSpectralTilt bool
	SpectralTiltRange  float64 // dB

	PreserveFormants bool // enrichment: halve the spectral tilt at local spectral peaks

	MaxSpectralDistortion float64
	MinF0Continuity       float64
	MinDynamicRangeRatio  float64
	MaxDynamicRangeRatio  float64
}

// DefaultConfig returns the quality-gate thresholds given in the
// quality gate formulas, plus conservative transform ranges.
func DefaultConfig() Config {
	return Config{
		Seed: 1,

		PreserveOriginal: true,

		EnablePitchShift: true,
		MinPitchShift:    -2,
		MaxPitchShift:    2,

		EnableTimeStretch: true,
		MinTimeStretch:    0.9,
		MaxTimeStretch:    1.1,

		EnableNoiseInjection: true,
		NoiseProbability:     0.3,
		NoiseVarianceDB:      -30,
		MinSNRDB:             0,

		EnableSpectralTilt: true,
		SpectralTiltRange:  3,

		PreserveFormants: false,

		MaxSpectralDistortion: 2.0,
		MinF0Continuity:       0.7,
		MinDynamicRangeRatio:  0.5,
		MaxDynamicRangeRatio:  2.0,
	}
}
