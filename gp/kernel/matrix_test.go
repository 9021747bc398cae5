package kernel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestLags(t *testing.T) {
	r := Lags([]float64{0, 1, 3}, []float64{1, 2})
	want := mat.NewDense(3, 2, []float64{
		-1, -2,
		0, -1,
		2, 1,
	})
	assert.True(t, mat.Equal(want, r))
}

func TestCovariance_WhiteNoiseIsDiagonal(t *testing.T) {
	x := []float64{0, 0.5, 0.5, 2}
	se := NewSquaredExponential(1.2, 0.9)
	k := Add(se, NewWhiteNoise(0.3))

	got := Covariance(k, Lags(x, x))

	// Repeated x values give r == 0 off the diagonal; noise must not leak there.
	for i := range x {
		for j := range x {
			want := se.Eval(x[i] - x[j])
			if i == j {
				want += 0.09
			}
			assert.InDelta(t, want, got.At(i, j), 1e-15, "(%d,%d)", i, j)
		}
	}
}

func TestCovariance_ProductIsElementwise(t *testing.T) {
	x := []float64{-1, 0, 0.4, 3}
	k := Mul(NewPeriodic(0.9, 1.2, 5.1), NewMatern52(0.8, 2.4))
	r := Lags(x, x)

	got := Covariance(k, r)

	for i := range x {
		for j := range x {
			assert.Equal(t, k.Eval(r.At(i, j)), got.At(i, j))
		}
	}
}

func TestCrossCovariance_ExcludesWhiteNoise(t *testing.T) {
	x := []float64{0, 1, 2}
	se := NewSquaredExponential(1, 1)
	k := Add(se, NewWhiteNoise(5))

	got := CrossCovariance(k, Lags(x, x))
	want := Covariance(se, Lags(x, x))

	assert.True(t, mat.EqualApprox(want, got, 1e-15))
}

func TestWhiteNoise_EvalMatrixNonSquare(t *testing.T) {
	k := NewWhiteNoise(2)
	got := k.EvalMatrix(mat.NewDense(2, 3, nil))
	want := mat.NewDense(2, 3, []float64{
		4, 0, 0,
		0, 4, 0,
	})
	assert.True(t, mat.Equal(want, got))
}

func TestCovarianceGradient_MatchesPointwiseGrad(t *testing.T) {
	x := []float64{0, 0.7, 1.9, 4.2}
	r := Lags(x, x)
	k := Mul(Add(NewSquaredExponential(1.3, 2.1), NewLinear(0.5)), NewQuasiPeriodic(1.1, 0.8, 3.5, 4.2))

	grads := CovarianceGradient(k, r)
	require.Len(t, grads, Count(k))

	for i := range x {
		for j := range x {
			g := k.Grad(r.At(i, j))
			for p := range grads {
				assert.InDelta(t, g[p], grads[p].At(i, j), 1e-12, "param %d at (%d,%d)", p, i, j)
			}
		}
	}
}

func TestCovarianceGradient_WhiteNoiseInProduct(t *testing.T) {
	x := []float64{0, 1}
	se := NewSquaredExponential(1, 1)
	k := Mul(se, NewWhiteNoise(0.5))

	grads := CovarianceGradient(k, Lags(x, x))
	require.Len(t, grads, 3)

	// d/dlog(noise) of SE ⊙ (0.25 I) = SE(0) · 0.5 on the diagonal.
	assert.InDelta(t, 0.5, grads[2].At(0, 0), 1e-15)
	assert.Equal(t, 0.0, grads[2].At(0, 1))
	// d/dlog(amp) of SE is 2·SE, scaled by 0.25 on the diagonal.
	assert.InDelta(t, 0.5, grads[0].At(1, 1), 1e-15)
	assert.Equal(t, 0.0, grads[0].At(1, 0))
}
