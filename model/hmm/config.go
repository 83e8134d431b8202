package hmm

// TrainingConfig matches the Training configuration surface.
type TrainingConfig struct {
	MaxIterations        int
	ConvergenceThreshold float64
	ParameterThreshold   float64
	ConvergenceWindow    int
	UseValidationSet     bool
	ValidationSplit      float64
	Verbose              bool
}

// DefaultTrainingConfig returns reasonable defaults for Baum-Welch
// training.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		MaxIterations:        100,
		ConvergenceThreshold: 1e-3,
		ParameterThreshold:   1e-4,
		ConvergenceWindow:    5,
		UseValidationSet:     false,
		ValidationSplit:      0.1,
		Verbose:              false,
	}
}
