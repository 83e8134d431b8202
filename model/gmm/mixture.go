package gmm

import (
	"fmt"
	"math"
	"math/rand"
)

// Mixture is a weighted sum of Gaussian Components.
type Mixture struct {
	Components []*Component
}

// NewMixture returns a Mixture over the given components. Weights are
// not normalized; callers that build components independently should
// ensure they already sum to one.
func NewMixture(components []*Component) *Mixture {
	return &Mixture{Components: components}
}

// logSumExp computes log(sum(exp(v))) in a numerically stable way.
func logSumExp(v []float64) float64 {
	if len(v) == 0 {
		return math.Inf(-1)
	}
	max := v[0]
	for _, x := range v[1:] {
		if x > max {
			max = x
		}
	}
	if math.IsInf(max, -1) {
		return max
	}
	sum := 0.0
	for _, x := range v {
		sum += math.Exp(x - max)
	}
	return max + math.Log(sum)
}

// weightedLogPDFs returns log(weight_k) + LogPDF_k(x) for every component.
func (m *Mixture) weightedLogPDFs(x []float64) ([]float64, error) {
	out := make([]float64, len(m.Components))
	for k, c := range m.Components {
		lp, err := c.LogPDF(x)
		if err != nil {
			return nil, err
		}
		out[k] = math.Log(c.Weight) + lp
	}
	return out, nil
}

// LogLikelihood returns log(sum_k weight_k * N(x; mean_k, cov_k)).
func (m *Mixture) LogLikelihood(x []float64) (float64, error) {
	if len(m.Components) == 0 {
		return 0, ErrEmptyMixture
	}
	terms, err := m.weightedLogPDFs(x)
	if err != nil {
		return 0, err
	}
	return logSumExp(terms), nil
}

// Responsibilities returns the posterior probability of each component
// having generated x: gamma_k = weight_k*N(x)/sum_j(weight_j*N(x)).
func (m *Mixture) Responsibilities(x []float64) ([]float64, error) {
	if len(m.Components) == 0 {
		return nil, ErrEmptyMixture
	}
	terms, err := m.weightedLogPDFs(x)
	if err != nil {
		return nil, err
	}
	total := logSumExp(terms)
	out := make([]float64, len(terms))
	for k, lp := range terms {
		out[k] = math.Exp(lp - total)
	}
	return out, nil
}

// Sample draws a component index by weight, then samples from it.
func (m *Mixture) Sample(rng *rand.Rand) ([]float64, error) {
	if len(m.Components) == 0 {
		return nil, ErrEmptyMixture
	}
	r := rng.Float64()
	cum := 0.0
	for _, c := range m.Components {
		cum += c.Weight
		if r <= cum {
			return c.Sample(rng), nil
		}
	}
	return m.Components[len(m.Components)-1].Sample(rng), nil
}

// Prune drops components with weight below minWeight and renormalizes
// the remaining weights to sum to one.
func (m *Mixture) Prune(minWeight float64) {
	kept := m.Components[:0]
	for _, c := range m.Components {
		if c.Weight >= minWeight {
			kept = append(kept, c)
		}
	}
	m.Components = kept

	total := 0.0
	for _, c := range m.Components {
		total += c.Weight
	}
	if total <= 0 {
		return
	}
	for _, c := range m.Components {
		c.Weight /= total
	}
}

// EMStep performs a single Expectation-Maximization update over data,
// recomputing each component's weight, mean, and covariance from the
// per-sample responsibilities.
func (m *Mixture) EMStep(data [][]float64) error {
	if len(data) == 0 {
		return nil
	}
	weights := make([]float64, len(data))
	for i := range weights {
		weights[i] = 1
	}
	return m.WeightedEMStep(data, weights)
}

// WeightedEMStep performs one EM update where each sample additionally
// carries an external weight (e.g. an HMM state occupancy
// probability), so that a sample present with weight w contributes
// w*gamma_k(x) to component k's statistics rather than gamma_k(x).
func (m *Mixture) WeightedEMStep(data [][]float64, weights []float64) error {
	if len(m.Components) == 0 {
		return ErrEmptyMixture
	}
	if len(data) != len(weights) {
		return fmt.Errorf("gmm: data/weights length mismatch")
	}
	if len(data) == 0 {
		return nil
	}

	respByComponent := make([][]float64, len(m.Components))
	for k := range respByComponent {
		respByComponent[k] = make([]float64, len(data))
	}

	totalN := 0.0
	for n, x := range data {
		gamma, err := m.Responsibilities(x)
		if err != nil {
			return err
		}
		w := weights[n]
		totalN += w
		for k, g := range gamma {
			respByComponent[k][n] = w * g
		}
	}

	if totalN <= 0 {
		return nil
	}

	for k, c := range m.Components {
		if err := c.UpdateEM(data, respByComponent[k], totalN); err != nil {
			return err
		}
	}

	return nil
}
