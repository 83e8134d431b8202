package hmm

import "math"

// Train runs Baum-Welch EM over sequences until one of the convergence
// policies in TrainingConfig fires, mutating m in place. validation may
// be nil; it is only consulted when cfg.UseValidationSet is set.
func (m *PhonemeHmm) Train(sequences [][][]float64, validation [][][]float64, cfg TrainingConfig) (*TrainingStats, error) {
	if len(sequences) == 0 {
		return nil, ErrEmptySequence
	}

	stats := &TrainingStats{}
	bestValidation := math.Inf(-1)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		alignments := make([]*Alignment, len(sequences))
		sumLL := 0.0
		for si, seq := range sequences {
			a, err := m.Align(seq)
			if err != nil {
				stats.FinalIteration = iter
				stats.ConvergenceReason = "numerical"
				return stats, nil
			}
			alignments[si] = a
			sumLL += a.LogLikely
		}
		meanLL := sumLL / float64(len(sequences))
		if math.IsInf(meanLL, -1) {
			stats.FinalIteration = iter
			stats.FinalLogLikelihood = meanLL
			stats.ConvergenceReason = "numerical"
			stats.Converged = false
			return stats, nil
		}
		stats.LogLikelihoods = append(stats.LogLikelihoods, meanLL)

		paramChange := m.emStep(sequences, alignments)
		stats.ParameterChanges = append(stats.ParameterChanges, paramChange)

		if cfg.UseValidationSet && len(validation) > 0 {
			vSum := 0.0
			for _, seq := range validation {
				a, err := m.Align(seq)
				if err == nil {
					vSum += a.LogLikely
				}
			}
			vScore := vSum / float64(len(validation))
			stats.ValidationScores = append(stats.ValidationScores, vScore)
			if vScore > bestValidation {
				bestValidation = vScore
			}
		}

		stats.FinalIteration = iter
		stats.FinalLogLikelihood = meanLL
		stats.BestValidationScore = bestValidation

		if reason, converged := checkConvergence(stats, cfg, bestValidation); converged {
			stats.Converged = true
			stats.ConvergenceReason = reason
			return stats, nil
		}
	}

	stats.ConvergenceReason = "max_iterations"
	stats.Converged = true
	return stats, nil
}

func checkConvergence(stats *TrainingStats, cfg TrainingConfig, bestValidation float64) (string, bool) {
	w := cfg.ConvergenceWindow
	if w < 1 {
		w = 1
	}

	if n := len(stats.LogLikelihoods); n >= w+1 {
		window := stats.LogLikelihoods[n-w-1 : n]
		improvement := 0.0
		for i := 1; i < len(window); i++ {
			improvement += window[i] - window[i-1]
		}
		improvement /= float64(w)
		if improvement < cfg.ConvergenceThreshold {
			return "log_likelihood_plateau", true
		}
	}

	if n := len(stats.ParameterChanges); n > 0 {
		if stats.ParameterChanges[n-1] < cfg.ParameterThreshold {
			return "parameter_stable", true
		}
	}

	if cfg.UseValidationSet {
		if n := len(stats.ValidationScores); n >= w {
			window := stats.ValidationScores[n-w:]
			improvedBeyondThreshold := false
			for _, v := range window {
				if v >= bestValidation-cfg.ConvergenceThreshold {
					improvedBeyondThreshold = true
					break
				}
			}
			if !improvedBeyondThreshold {
				return "validation_plateau", true
			}
		}
	}

	return "", false
}

// emStep performs one Baum-Welch M-step across all sequences/alignments
// and returns the mean absolute change in self/next transition
// probabilities across states.
func (m *PhonemeHmm) emStep(sequences [][][]float64, alignments []*Alignment) float64 {
	n := len(m.States)

	selfCount := make([]float64, n)
	nextCount := make([]float64, n)
	totalCount := make([]float64, n)

	type sample struct {
		obs    []float64
		weight float64
	}
	emissionData := make([][]sample, n)

	for si, a := range alignments {
		seq := sequences[si]
		for t := 0; t < a.NumFrames; t++ {
			for i := 0; i < n; i++ {
				g := a.Gamma[t][i]
				totalCount[i] += g
				if g > 1e-10 {
					emissionData[i] = append(emissionData[i], sample{obs: seq[t], weight: g})
				}
			}
			if t+1 < a.NumFrames {
				for i := 0; i < n; i++ {
					selfCount[i] += a.Gamma[t][i] * a.Gamma[t+1][i] * m.States[i].Transition.SelfLoopProb
					if i+1 < n {
						nextCount[i] += a.Gamma[t][i] * a.Gamma[t+1][i+1] * m.States[i].Transition.NextStateProb
					}
				}
			}
		}
	}

	paramDeltaSum := 0.0
	for i, s := range m.States {
		oldSelf := s.Transition.SelfLoopProb
		oldNext := s.Transition.NextStateProb

		newSelf := oldSelf
		newNext := oldNext
		if totalCount[i] > 0 {
			newSelf = selfCount[i] / totalCount[i]
			newNext = nextCount[i] / totalCount[i]
		}
		exit := 1 - newSelf - newNext
		if exit < 0 {
			exit = 0
		}
		s.Transition = Transition{SelfLoopProb: newSelf, NextStateProb: newNext, ExitProb: exit}.renormalized()

		paramDeltaSum += math.Abs(s.Transition.SelfLoopProb-oldSelf) + math.Abs(s.Transition.NextStateProb-oldNext)

		obs := make([][]float64, len(emissionData[i]))
		weights := make([]float64, len(emissionData[i]))
		for k, sm := range emissionData[i] {
			obs[k] = sm.obs
			weights[k] = sm.weight
		}
		if len(obs) > 0 {
			_ = s.Emission.WeightedEMStep(obs, weights)
		}
	}

	return paramDeltaSum / float64(2*n)
}
