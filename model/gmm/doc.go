// Package gmm implements GaussianComponent and GaussianMixture: diagonal-
// or full-covariance Gaussian emission densities evaluated in log space,
// with eigenvalue-clamped covariance regularization and Cholesky-based
// sampling.
//
// Linear algebra (Cholesky factorization, eigendecomposition) is
// delegated to gonum.org/v1/gonum/mat rather than hand-rolled, since the
// component and mixture math here genuinely operates on small dense
// matrices, unlike the rest of the module's []float64/[]complex128 DSP
// code.
package gmm
