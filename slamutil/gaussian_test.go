package slamutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestSampleStandardNormalLength(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	z := SampleStandardNormal(rng, 5)
	assert.Len(t, z, 5)
}

func TestSampleStandardNormalMeanZero(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	const n = 20000
	sum := 0.0
	for i := 0; i < n; i++ {
		z := SampleStandardNormal(rng, 1)
		sum += z[0]
	}
	mean := sum / n
	assert.InDelta(t, 0.0, mean, 0.05)
}

func TestSampleMultivariateIdentityMatchesStandardNormal(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	sigma := mat.NewSymDense(2, []float64{1, 0, 0, 1})
	out, err := SampleMultivariate(rng, []float64{0, 0}, sigma)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestSampleMultivariateMeanShift(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	sigma := mat.NewSymDense(2, []float64{0.01, 0, 0, 0.01})
	mu := []float64{5, -3}

	const n = 2000
	sx, sy := 0.0, 0.0
	for i := 0; i < n; i++ {
		out, err := SampleMultivariate(rng, mu, sigma)
		require.NoError(t, err)
		sx += out[0]
		sy += out[1]
	}
	assert.InDelta(t, mu[0], sx/n, 0.05)
	assert.InDelta(t, mu[1], sy/n, 0.05)
}

func TestSampleMultivariateDimensionMismatch(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	sigma := mat.NewSymDense(2, []float64{1, 0, 0, 1})
	_, err := SampleMultivariate(rng, []float64{0, 0, 0}, sigma)
	assert.Error(t, err)
}

func TestSampleMultivariateNonSPD(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	// Not positive-definite: negative diagonal.
	sigma := mat.NewSymDense(2, []float64{-1, 0, 0, 1})
	_, err := SampleMultivariate(rng, []float64{0, 0}, sigma)
	assert.Error(t, err)
}

func TestPDFNormalPeakAtZero(t *testing.T) {
	p0 := PDFNormal(0, 1)
	p1 := PDFNormal(1, 1)
	assert.Greater(t, p0, p1)
	assert.InDelta(t, 1/math.Sqrt(2*math.Pi), p0, 1e-9)
}

func TestPDFNormalNonPositiveVariance(t *testing.T) {
	// Degenerate variance should not panic; falls back to a tiny positive
	// value.
	assert.NotPanics(t, func() {
		PDFNormal(0, 0)
	})
}
