package hmm

// TrainingStats accumulates per-iteration diagnostics across a
// Baum-Welch training run, matching the TrainingStats surface.
type TrainingStats struct {
	LogLikelihoods     []float64
	ValidationScores   []float64
	ParameterChanges   []float64
	FinalIteration     int
	FinalLogLikelihood float64
	BestValidationScore float64
	Converged          bool
	ConvergenceReason  string
}
