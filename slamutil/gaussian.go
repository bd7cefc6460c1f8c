package slamutil

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// SampleStandardNormal draws an n-vector of IID N(0,1) samples from rng.
// Grounded on particle_filter.cpp's sampleStandardNormal, which draws each
// component from its own std::normal_distribution against the shared
// mt19937_64 twister.
func SampleStandardNormal(rng *rand.Rand, n int) []float64 {
	z := make([]float64, n)
	for i := range z {
		z[i] = rng.NormFloat64()
	}
	return z
}

// SampleMultivariate draws a sample from N(mu, sigma) as mu + L*z, where
// L*L^T = sigma is the lower Cholesky factor and z is standard normal. sigma
// must be symmetric positive-definite; a non-SPD sigma is the fatal
// programming/numerical error spec.md §4.9 calls out, surfaced as an error
// rather than a panic so callers can report and abort the step.
func SampleMultivariate(rng *rand.Rand, mu []float64, sigma *mat.SymDense) ([]float64, error) {
	n := sigma.SymmetricDim()
	if len(mu) != n {
		return nil, fmt.Errorf("slamutil: mu has length %d, sigma is %dx%d", len(mu), n, n)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(sigma); !ok {
		return nil, fmt.Errorf("slamutil: covariance is not symmetric positive-definite")
	}

	var l mat.TriDense
	chol.LTo(&l)

	z := mat.NewVecDense(n, SampleStandardNormal(rng, n))
	var lz mat.VecDense
	lz.MulVec(&l, z)

	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = mu[i] + lz.AtVec(i)
	}
	return out, nil
}

// PDFNormal evaluates the univariate density N(0, variance) at x.
func PDFNormal(x, variance float64) float64 {
	if variance <= 0 {
		variance = Tolerance
	}
	n := distuv.Normal{Mu: 0, Sigma: math.Sqrt(variance)}
	return n.Prob(x)
}
