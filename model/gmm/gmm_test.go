package gmm

import (
	"math"
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func diag(values ...float64) *mat.SymDense {
	d := len(values)
	sym := mat.NewSymDense(d, nil)
	for i, v := range values {
		sym.SetSym(i, i, v)
	}
	return sym
}

func TestComponentLogPDFUnivariateKnownValue(t *testing.T) {
	c, err := NewComponent(1.0, []float64{0}, diag(1.0))
	if err != nil {
		t.Fatalf("NewComponent: %v", err)
	}

	got, err := c.LogPDF([]float64{0})
	if err != nil {
		t.Fatalf("LogPDF: %v", err)
	}

	want := -0.5 * math.Log(2*math.Pi)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("LogPDF(0) = %v, want %v", got, want)
	}
}

func TestComponentLogPDFDimensionMismatch(t *testing.T) {
	c, err := NewComponent(1.0, []float64{0, 0}, diag(1, 1))
	if err != nil {
		t.Fatalf("NewComponent: %v", err)
	}
	if _, err := c.LogPDF([]float64{0}); err == nil {
		t.Fatal("expected dimension mismatch error")
	}
}

func TestComponentSampleStatisticsMatchParameters(t *testing.T) {
	mean := []float64{5, -3}
	c, err := NewComponent(1.0, mean, diag(2.0, 0.5))
	if err != nil {
		t.Fatalf("NewComponent: %v", err)
	}

	rng := rand.New(rand.NewSource(1))
	const n = 20000
	sumX := make([]float64, 2)
	sumX2 := make([]float64, 2)
	for i := 0; i < n; i++ {
		s := c.Sample(rng)
		for d := 0; d < 2; d++ {
			sumX[d] += s[d]
			sumX2[d] += s[d] * s[d]
		}
	}

	for d := 0; d < 2; d++ {
		sampleMean := sumX[d] / n
		if math.Abs(sampleMean-mean[d]) > 0.1 {
			t.Fatalf("dim %d: sample mean = %v, want near %v", d, sampleMean, mean[d])
		}
	}
}

func TestComponentRegularizeClampsSmallEigenvalues(t *testing.T) {
	c, err := NewComponent(1.0, []float64{0}, diag(1e-12))
	if err != nil {
		t.Fatalf("NewComponent: %v", err)
	}
	if err := c.Regularize(1e-6); err != nil {
		t.Fatalf("Regularize: %v", err)
	}
	if got := c.Covariance.At(0, 0); got < MinVariance {
		t.Fatalf("Covariance(0,0) = %v, want >= %v after regularization", got, MinVariance)
	}
}

func TestMixtureLogLikelihoodEmptyReturnsError(t *testing.T) {
	m := NewMixture(nil)
	if _, err := m.LogLikelihood([]float64{0}); err != ErrEmptyMixture {
		t.Fatalf("LogLikelihood on empty mixture = %v, want ErrEmptyMixture", err)
	}
}

func TestMixtureResponsibilitiesSumToOne(t *testing.T) {
	c1, _ := NewComponent(0.5, []float64{-2}, diag(1))
	c2, _ := NewComponent(0.5, []float64{2}, diag(1))
	m := NewMixture([]*Component{c1, c2})

	gamma, err := m.Responsibilities([]float64{0})
	if err != nil {
		t.Fatalf("Responsibilities: %v", err)
	}

	sum := gamma[0] + gamma[1]
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("responsibilities sum = %v, want 1", sum)
	}
	if math.Abs(gamma[0]-gamma[1]) > 1e-9 {
		t.Fatalf("expected symmetric responsibilities at midpoint, got %v and %v", gamma[0], gamma[1])
	}
}

func TestMixturePruneRenormalizesWeights(t *testing.T) {
	c1, _ := NewComponent(0.01, []float64{0}, diag(1))
	c2, _ := NewComponent(0.99, []float64{5}, diag(1))
	m := NewMixture([]*Component{c1, c2})

	m.Prune(0.05)

	if len(m.Components) != 1 {
		t.Fatalf("len(Components) = %d, want 1 after pruning", len(m.Components))
	}
	if math.Abs(m.Components[0].Weight-1) > 1e-9 {
		t.Fatalf("remaining weight = %v, want 1 after renormalization", m.Components[0].Weight)
	}
}

func TestMixtureEMStepPullsMeanTowardData(t *testing.T) {
	c, _ := NewComponent(1.0, []float64{0}, diag(1))
	m := NewMixture([]*Component{c})

	data := [][]float64{{9}, {10}, {11}}
	if err := m.EMStep(data); err != nil {
		t.Fatalf("EMStep: %v", err)
	}

	if math.Abs(m.Components[0].Mean[0]-10) > 1e-6 {
		t.Fatalf("mean after EM step = %v, want 10", m.Components[0].Mean[0])
	}
	if math.Abs(m.Components[0].Weight-1) > 1e-9 {
		t.Fatalf("weight after single-component EM step = %v, want 1", m.Components[0].Weight)
	}
}

func TestMixtureEMStepTwoComponentsSeparatesMeans(t *testing.T) {
	c1, _ := NewComponent(0.5, []float64{-1}, diag(1))
	c2, _ := NewComponent(0.5, []float64{1}, diag(1))
	m := NewMixture([]*Component{c1, c2})

	data := [][]float64{{-10}, {-9}, {-11}, {9}, {10}, {11}}
	for i := 0; i < 5; i++ {
		if err := m.EMStep(data); err != nil {
			t.Fatalf("EMStep iteration %d: %v", i, err)
		}
	}

	means := []float64{m.Components[0].Mean[0], m.Components[1].Mean[0]}
	if !((means[0] < -5 && means[1] > 5) || (means[0] > 5 && means[1] < -5)) {
		t.Fatalf("expected means to separate toward the two clusters, got %v", means)
	}
}
