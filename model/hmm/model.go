package hmm

import "math"

// PhonemeHmm is a left-to-right hidden Markov model: state 0 is the
// only entry point, the last state the only exit, and transitions are
// restricted to self-loop (i->i) and forward (i->i+1).
type PhonemeHmm struct {
	States []*State
}

// NewPhonemeHmm validates the left-to-right topology and returns a
// PhonemeHmm over states. The last state's NextStateProb must be zero
// since there is no i+1 to advance to.
func NewPhonemeHmm(states []*State) (*PhonemeHmm, error) {
	if len(states) == 0 {
		return nil, ErrEmptyTopology
	}
	for i, s := range states {
		if err := s.Transition.Validate(); err != nil {
			return nil, err
		}
		if i == len(states)-1 && s.Transition.NextStateProb > TransitionEps {
			return nil, errLastStateHasNext
		}
	}
	return &PhonemeHmm{States: states}, nil
}

var errLastStateHasNext = errorString("hmm: last state must not have a next-state transition")

type errorString string

func (e errorString) Error() string { return string(e) }

func logSumExp2(a, b float64) float64 {
	if math.IsInf(a, -1) && math.IsInf(b, -1) {
		return math.Inf(-1)
	}
	max := a
	if b > max {
		max = b
	}
	return max + math.Log(math.Exp(a-max)+math.Exp(b-max))
}

func logSumExp(values []float64) float64 {
	max := math.Inf(-1)
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	if math.IsInf(max, -1) {
		return max
	}
	sum := 0.0
	for _, v := range values {
		sum += math.Exp(v - max)
	}
	return max + math.Log(sum)
}

// Alignment holds the per-frame forward/backward log-probabilities and
// derived state posteriors for one observation sequence.
type Alignment struct {
	Alpha      [][]float64 // [t][state]
	Beta       [][]float64 // [t][state]
	Gamma      [][]float64 // [t][state], exp-space posteriors
	Z          []float64   // per-frame log-normalizer
	LogLikely  float64     // mean of Z over t
	NumStates  int
	NumFrames  int
}

// Forward computes alpha_t(i) in log domain over observations.
func (m *PhonemeHmm) Forward(observations [][]float64) ([][]float64, error) {
	if len(observations) == 0 {
		return nil, ErrEmptySequence
	}
	n := len(m.States)
	t := len(observations)

	alpha := make([][]float64, t)
	for i := range alpha {
		alpha[i] = make([]float64, n)
	}

	b0, err := m.States[0].logEmission(observations[0])
	if err != nil {
		return nil, err
	}
	alpha[0][0] = b0
	for i := 1; i < n; i++ {
		alpha[0][i] = math.Inf(-1)
	}

	for tt := 1; tt < t; tt++ {
		for j := 0; j < n; j++ {
			fromSelf := alpha[tt-1][j] + m.States[j].logSelf()
			fromPrev := math.Inf(-1)
			if j > 0 {
				fromPrev = alpha[tt-1][j-1] + m.States[j-1].logNext()
			}
			bj, err := m.States[j].logEmission(observations[tt])
			if err != nil {
				return nil, err
			}
			alpha[tt][j] = logSumExp2(fromSelf, fromPrev) + bj
		}
	}

	return alpha, nil
}

// Backward computes beta_t(i) in log domain over observations.
func (m *PhonemeHmm) Backward(observations [][]float64) ([][]float64, error) {
	if len(observations) == 0 {
		return nil, ErrEmptySequence
	}
	n := len(m.States)
	t := len(observations)

	beta := make([][]float64, t)
	for i := range beta {
		beta[i] = make([]float64, n)
	}

	last := t - 1
	for i := 0; i < n-1; i++ {
		beta[last][i] = math.Inf(-1)
	}
	beta[last][n-1] = 0

	for tt := t - 2; tt >= 0; tt-- {
		for i := 0; i < n; i++ {
			bi, err := m.States[i].logEmission(observations[tt+1])
			if err != nil {
				return nil, err
			}
			selfTerm := m.States[i].logSelf() + bi + beta[tt+1][i]

			nextTerm := math.Inf(-1)
			if i+1 < n {
				bi1, err := m.States[i+1].logEmission(observations[tt+1])
				if err != nil {
					return nil, err
				}
				nextTerm = m.States[i].logNext() + bi1 + beta[tt+1][i+1]
			}

			beta[tt][i] = logSumExp2(selfTerm, nextTerm)
		}
	}

	return beta, nil
}

// Align runs Forward and Backward and computes per-frame state
// posteriors (gamma) and the mean per-frame log-likelihood.
func (m *PhonemeHmm) Align(observations [][]float64) (*Alignment, error) {
	alpha, err := m.Forward(observations)
	if err != nil {
		return nil, err
	}
	beta, err := m.Backward(observations)
	if err != nil {
		return nil, err
	}

	n := len(m.States)
	t := len(observations)

	gamma := make([][]float64, t)
	z := make([]float64, t)
	sumZ := 0.0
	for tt := 0; tt < t; tt++ {
		sums := make([]float64, n)
		for i := 0; i < n; i++ {
			sums[i] = alpha[tt][i] + beta[tt][i]
		}
		zt := logSumExp(sums)
		z[tt] = zt
		sumZ += zt

		gamma[tt] = make([]float64, n)
		for i := 0; i < n; i++ {
			gamma[tt][i] = math.Exp(sums[i] - zt)
		}
	}

	return &Alignment{
		Alpha:     alpha,
		Beta:      beta,
		Gamma:     gamma,
		Z:         z,
		LogLikely: sumZ / float64(t),
		NumStates: n,
		NumFrames: t,
	}, nil
}

// Viterbi returns the most likely state sequence for observations,
// preferring a self-loop on ties unless the forward transition
// strictly dominates.
func (m *PhonemeHmm) Viterbi(observations [][]float64) ([]int, error) {
	if len(observations) == 0 {
		return nil, ErrEmptySequence
	}
	n := len(m.States)
	t := len(observations)

	delta := make([][]float64, t)
	psi := make([][]int, t)
	for i := range delta {
		delta[i] = make([]float64, n)
		psi[i] = make([]int, n)
	}

	b0, err := m.States[0].logEmission(observations[0])
	if err != nil {
		return nil, err
	}
	delta[0][0] = b0
	for i := 1; i < n; i++ {
		delta[0][i] = math.Inf(-1)
	}

	for tt := 1; tt < t; tt++ {
		for j := 0; j < n; j++ {
			fromSelf := delta[tt-1][j] + m.States[j].logSelf()
			fromPrev := math.Inf(-1)
			if j > 0 {
				fromPrev = delta[tt-1][j-1] + m.States[j-1].logNext()
			}

			var best float64
			var from int
			if fromPrev > fromSelf {
				best, from = fromPrev, j-1
			} else {
				best, from = fromSelf, j
			}

			bj, err := m.States[j].logEmission(observations[tt])
			if err != nil {
				return nil, err
			}
			delta[tt][j] = best + bj
			psi[tt][j] = from
		}
	}

	path := make([]int, t)
	best := n - 1
	for i := n - 2; i >= 0; i-- {
		if delta[t-1][i] > delta[t-1][best] {
			best = i
		}
	}
	path[t-1] = best
	for tt := t - 1; tt > 0; tt-- {
		path[tt-1] = psi[tt][path[tt]]
	}

	return path, nil
}
