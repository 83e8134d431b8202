package gmm

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// MinVariance is the eigenvalue floor covariance regularization clamps to.
const MinVariance = 1e-6

// Component is a single Gaussian in a mixture: a weight, mean, and
// covariance, plus the Cholesky factorization (or diagonal fallback)
// needed to evaluate its log-density and sample from it.
type Component struct {
	Weight     float64
	Mean       []float64
	Covariance *mat.SymDense

	chol         mat.Cholesky
	cholOK       bool
	diagFallback []float64 // sqrt(variance) per dimension, used when Cholesky fails
	logDet       float64
	dim          int
}

// NewComponent returns a Component with its factorization computed.
func NewComponent(weight float64, mean []float64, covariance *mat.SymDense) (*Component, error) {
	c := &Component{
		Weight:     weight,
		Mean:       append([]float64(nil), mean...),
		Covariance: covariance,
		dim:        len(mean),
	}
	if err := c.regenerate(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetMeanCovariance replaces the mean and covariance and recomputes the
// cached factorization.
func (c *Component) SetMeanCovariance(mean []float64, covariance *mat.SymDense) error {
	c.Mean = append([]float64(nil), mean...)
	c.Covariance = covariance
	c.dim = len(mean)
	return c.regenerate()
}

// regenerate recomputes the Cholesky factorization (or diagonal fallback)
// and the log-determinant used by LogPDF and Sample.
func (c *Component) regenerate() error {
	if c.dim == 0 || c.Covariance == nil {
		return fmt.Errorf("gmm: component has zero dimension")
	}

	c.cholOK = c.chol.Factorize(c.Covariance)
	if c.cholOK {
		c.logDet = c.chol.LogDet()
		return nil
	}

	// Diagonal fallback: use the clamped diagonal variances directly.
	c.diagFallback = make([]float64, c.dim)
	c.logDet = 0
	for i := 0; i < c.dim; i++ {
		v := c.Covariance.At(i, i)
		if v < MinVariance {
			v = MinVariance
		}
		c.diagFallback[i] = math.Sqrt(v)
		c.logDet += math.Log(v)
	}
	return nil
}

// logNorm returns the log-space normalization constant
// -0.5*(D*log(2*pi) + log|Sigma|).
func (c *Component) logNorm() float64 {
	d := float64(c.dim)
	return -0.5 * (d*math.Log(2*math.Pi) + c.logDet)
}

// LogPDF returns the log-density of x under this component.
func (c *Component) LogPDF(x []float64) (float64, error) {
	if len(x) != c.dim {
		return 0, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(x), c.dim)
	}

	diff := make([]float64, c.dim)
	for i := range diff {
		diff[i] = x[i] - c.Mean[i]
	}

	mahalanobis, err := c.mahalanobis(diff)
	if err != nil {
		return 0, err
	}

	return c.logNorm() - 0.5*mahalanobis, nil
}

func (c *Component) mahalanobis(diff []float64) (float64, error) {
	if c.cholOK {
		b := mat.NewVecDense(c.dim, diff)
		y := mat.NewVecDense(c.dim, nil)
		if err := c.chol.SolveVecTo(y, b); err != nil {
			return 0, fmt.Errorf("gmm: cholesky solve failed: %w", err)
		}
		return mat.Dot(b, y), nil
	}

	sum := 0.0
	for i, d := range diff {
		sum += (d * d) / (c.diagFallback[i] * c.diagFallback[i])
	}
	return sum, nil
}

// PDF returns the density of x under this component.
func (c *Component) PDF(x []float64) (float64, error) {
	logPDF, err := c.LogPDF(x)
	if err != nil {
		return 0, err
	}
	return math.Exp(logPDF), nil
}

// Sample draws x = mean + L*z with z ~ N(0, I) using the Cholesky factor
// L, falling back to independent per-dimension draws when Cholesky
// factorization failed.
func (c *Component) Sample(rng *rand.Rand) []float64 {
	z := make([]float64, c.dim)
	for i := range z {
		z[i] = rng.NormFloat64()
	}

	out := make([]float64, c.dim)

	if c.cholOK {
		var l mat.TriDense
		c.chol.LTo(&l)
		zVec := mat.NewVecDense(c.dim, z)
		lz := mat.NewVecDense(c.dim, nil)
		lz.MulVec(&l, zVec)
		for i := 0; i < c.dim; i++ {
			out[i] = c.Mean[i] + lz.AtVec(i)
		}
		return out
	}

	for i := 0; i < c.dim; i++ {
		out[i] = c.Mean[i] + c.diagFallback[i]*z[i]
	}
	return out
}

// Regularize clamps any covariance eigenvalue below MinVariance and
// reconstructs the covariance from the eigendecomposition. If
// factorization fails outright, it adds epsilon*I instead.
func (c *Component) Regularize(epsilon float64) error {
	var eig mat.EigenSym
	if !eig.Factorize(c.Covariance, true) {
		d := c.Covariance.SymmetricDim()
		sym := mat.NewSymDense(d, nil)
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				v := c.Covariance.At(i, j)
				if i == j {
					v += epsilon
				}
				sym.SetSym(i, j, v)
			}
		}
		c.Covariance = sym
		return c.regenerate()
	}

	values := eig.Values(nil)
	d := len(values)
	clamped := false
	for i, v := range values {
		if v < MinVariance {
			values[i] = MinVariance
			clamped = true
		}
	}
	if !clamped {
		return nil
	}

	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	diag := mat.NewDiagDense(d, values)
	var tmp mat.Dense
	tmp.Mul(&vecs, diag)
	var reconstructed mat.Dense
	reconstructed.Mul(&tmp, vecs.T())

	sym := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			sym.SetSym(i, j, reconstructed.At(i, j))
		}
	}
	c.Covariance = sym
	return c.regenerate()
}

// UpdateEM performs a single-step EM update given weighted
// responsibilities (samples[n], responsibilities[n]) for this component,
// then regularizes the resulting covariance.
func (c *Component) UpdateEM(samples [][]float64, responsibilities []float64, totalN float64) error {
	if len(samples) != len(responsibilities) {
		return fmt.Errorf("gmm: samples/responsibilities length mismatch")
	}
	if totalN <= 0 {
		return fmt.Errorf("gmm: totalN must be positive")
	}

	sumR := 0.0
	for _, r := range responsibilities {
		sumR += r
	}
	if sumR <= 0 {
		return nil // no support for this component this round; leave unchanged
	}

	newWeight := sumR / totalN

	d := c.dim
	newMean := make([]float64, d)
	for n, x := range samples {
		r := responsibilities[n]
		for i := 0; i < d; i++ {
			newMean[i] += r * x[i]
		}
	}
	for i := range newMean {
		newMean[i] /= sumR
	}

	newCov := mat.NewSymDense(d, nil)
	diff := make([]float64, d)
	for n, x := range samples {
		r := responsibilities[n]
		if r <= 0 {
			continue
		}
		for i := 0; i < d; i++ {
			diff[i] = x[i] - newMean[i]
		}
		for i := 0; i < d; i++ {
			for j := i; j < d; j++ {
				newCov.SetSym(i, j, newCov.At(i, j)+r*diff[i]*diff[j])
			}
		}
	}
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			newCov.SetSym(i, j, newCov.At(i, j)/sumR)
		}
	}

	c.Weight = newWeight
	c.Mean = newMean
	c.Covariance = newCov
	if err := c.regenerate(); err != nil {
		return err
	}
	return c.Regularize(1e-6)
}
