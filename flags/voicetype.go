package flags

// VoiceType is the voice-type enum used to key per-type adjustment
// multipliers.
type VoiceType int

const (
	Unknown VoiceType = iota
	MaleAdult
	FemaleAdult
	Child
	Robotic
	Whisper
	Growl
)

func (v VoiceType) String() string {
	switch v {
	case MaleAdult:
		return "MALE_ADULT"
	case FemaleAdult:
		return "FEMALE_ADULT"
	case Child:
		return "CHILD"
	case Robotic:
		return "ROBOTIC"
	case Whisper:
		return "WHISPER"
	case Growl:
		return "GROWL"
	default:
		return "UNKNOWN"
	}
}

// Classification is the optional voice-type classifier output the core
// consumes.
type Classification struct {
	F0Mean             float64
	SpectralCentroidHz float64
	HarmonicToNoise    float64
}

// DetectVoiceType applies the f0/centroid/HNR heuristics.
func DetectVoiceType(c Classification) VoiceType {
	switch {
	case c.F0Mean < 120:
		return MaleAdult
	case c.F0Mean > 350 && c.SpectralCentroidHz > 3000:
		return Child
	case c.F0Mean > 250 && c.F0Mean <= 350:
		return FemaleAdult
	case c.HarmonicToNoise < 0.3:
		return Whisper
	case c.HarmonicToNoise > 0.9 && c.SpectralCentroidHz < 1500:
		return Growl
	default:
		return Unknown
	}
}

// adjustment is the multiplicative per-parameter factor table keyed by
// voice type.
type adjustment struct {
	formantShift float64
	tension      float64
	breathiness  float64
	brightness   float64
}

var adjustmentTable = map[VoiceType]adjustment{
	Unknown:    {1, 1, 1, 1},
	MaleAdult:  {0.95, 1.0, 0.9, 0.95},
	FemaleAdult: {1.05, 1.0, 1.0, 1.05},
	Child:      {1.15, 1.05, 0.85, 1.1},
	Robotic:    {1.0, 1.2, 0.5, 1.15},
	Whisper:    {0.98, 0.7, 1.3, 0.9},
	Growl:      {0.9, 1.3, 0.8, 0.85},
}
