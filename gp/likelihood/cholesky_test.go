package likelihood

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/iastro-pt/gedi/gp"
	"github.com/iastro-pt/gedi/gp/internal/testutil"
	"github.com/iastro-pt/gedi/gp/kernel"
)

func TestLogLikelihood_SinglePoint(t *testing.T) {
	// GIVEN one observation at y=0 with unit prior variance and no noise
	data := gp.Dataset{X: []float64{3}, Y: []float64{0}, YErr: []float64{0}}

	// WHEN the likelihood is evaluated
	ll, err := Cholesky{}.LogLikelihood(kernel.NewSquaredExponential(1, 1), data)

	// THEN it is the standard normal log density at zero
	require.NoError(t, err)
	testutil.AssertFloat64Equal(t, "ll", -0.5*math.Log(2*math.Pi), ll, 1e-14)
}

func TestLogLikelihood_TwoPointsClosedForm(t *testing.T) {
	// GIVEN K = [[2, c], [c, 2]] with c = exp(-1/2) from SE(1,1) at r=1 plus yerr=1
	data := gp.Dataset{X: []float64{0, 1}, Y: []float64{1, -1}, YErr: []float64{1, 1}}
	c := math.Exp(-0.5)
	det := 4 - c*c
	// yᵀK⁻¹y for y = (1, -1)
	quad := (4 + 2*c) / det

	ll, err := Cholesky{}.LogLikelihood(kernel.NewSquaredExponential(1, 1), data)

	require.NoError(t, err)
	want := -0.5*quad - 0.5*math.Log(det) - math.Log(2*math.Pi)
	testutil.AssertFloat64Equal(t, "ll", want, ll, 1e-12)
}

func TestLogLikelihood_WhiteNoiseActsLikeMeasurementError(t *testing.T) {
	// GIVEN the same noise expressed as a WhiteNoise term or as yerr
	data := testutil.SineDataset(20)
	withYErr := data
	withYErr.YErr = make([]float64, data.Len())
	for i := range withYErr.YErr {
		withYErr.YErr[i] = math.Hypot(data.YErr[i], 0.3)
	}
	se := kernel.NewSquaredExponential(1.1, 1.7)

	// WHEN both are evaluated
	a, err := Cholesky{}.LogLikelihood(kernel.Add(se, kernel.NewWhiteNoise(0.3)), data)
	require.NoError(t, err)
	b, err := Cholesky{}.LogLikelihood(se, withYErr)
	require.NoError(t, err)

	// THEN they agree
	testutil.AssertFloat64Equal(t, "ll", b, a, 1e-12)
}

func TestLogLikelihood_NotPositiveDefinite(t *testing.T) {
	// GIVEN a kernel with zero amplitude and noiseless data: K is all zeros
	data := gp.Dataset{X: []float64{0, 1, 2}, Y: []float64{1, 2, 3}, YErr: []float64{0, 0, 0}}

	_, err := Cholesky{}.LogLikelihood(kernel.NewSquaredExponential(0, 1), data)

	assert.ErrorIs(t, err, ErrNotPositiveDefinite)
}

func TestLogLikelihood_InvalidInput(t *testing.T) {
	_, err := Cholesky{}.LogLikelihood(kernel.NewWhiteNoise(1), gp.Dataset{})
	assert.ErrorIs(t, err, gp.ErrInvalidDataset)

	_, err = Cholesky{}.LogLikelihood(nil, testutil.SineDataset(3))
	assert.Error(t, err)
}

func TestGradient_MatchesFiniteDifferences(t *testing.T) {
	sine := testutil.SineDataset(15)
	// Linear covariance grows with the lag; keep it small next to the noise.
	short := gp.Dataset{
		X:    []float64{0, 0.7, 1.5, 2.1},
		Y:    []float64{0.3, -0.4, 0.9, 0.1},
		YErr: []float64{1, 1, 1, 1},
	}
	tests := []struct {
		k    kernel.Kernel
		data gp.Dataset
	}{
		{kernel.Add(kernel.NewSquaredExponential(1.1, 1.7), kernel.NewWhiteNoise(0.3)), sine},
		{kernel.Mul(kernel.NewPeriodic(0.9, 1.3, 6.2), kernel.NewMatern52(1.2, 3.1)), sine},
		{kernel.Add(kernel.NewQuasiPeriodic(1.0, 0.9, 4.0, 6.0), kernel.NewRationalQuadratic(0.4, 1.5, 0.8)), sine},
		{kernel.Mul(kernel.NewSquaredExponential(1.0, 2.0), kernel.Add(kernel.NewExponential(0.7, 1.1), kernel.NewWhiteNoise(0.2))), sine},
		{kernel.Add(kernel.NewMatern32(0.8, 1.4), kernel.NewRQP(1.1, 1.5, 0.8, 1.2, 3.3)), sine},
		{kernel.Add(kernel.NewSquaredExponential(1.1, 1.7), kernel.NewLinear(0.2)), short},
		{kernel.Add(kernel.Mul(kernel.NewLinear(0.3), kernel.NewSquaredExponential(1.0, 2.0)), kernel.NewWhiteNoise(0.5)), short},
	}

	for _, tc := range tests {
		k, data := tc.k, tc.data
		t.Run(k.String(), func(t *testing.T) {
			grad, err := Cholesky{}.Gradient(k, data)
			require.NoError(t, err)
			require.Len(t, grad, kernel.Count(k))

			logTheta := kernel.Flatten(k)
			for i := range logTheta {
				logTheta[i] = math.Log(logTheta[i])
			}
			want := make([]float64, len(logTheta))
			fd.Gradient(want, func(x []float64) float64 {
				p := make([]float64, len(x))
				for i, v := range x {
					p[i] = math.Exp(v)
				}
				kk, err := kernel.Rebuild(k, p)
				require.NoError(t, err)
				ll, err := Cholesky{}.LogLikelihood(kk, data)
				require.NoError(t, err)
				return ll
			}, logTheta, &fd.Settings{Formula: fd.Central})

			for i := range want {
				testutil.AssertClose(t, k.String(), want[i], grad[i], 1e-5)
			}
		})
	}
}

func TestGradient_LinearConstantIsNotZero(t *testing.T) {
	// GIVEN a Linear term, whose raw covariance depends on the signed lag
	data := gp.Dataset{
		X:    []float64{0, 0.7, 1.5, 2.1},
		Y:    []float64{0.3, -0.4, 0.9, 0.1},
		YErr: []float64{1, 1, 1, 1},
	}
	k := kernel.Add(kernel.NewSquaredExponential(1.1, 1.7), kernel.NewLinear(0.2))

	// WHEN the gradient is evaluated
	grad, err := Cholesky{}.Gradient(k, data)
	require.NoError(t, err)

	// THEN the Linear constant has a real slope
	require.Len(t, grad, 3)
	assert.Greater(t, math.Abs(grad[2]), 1e-3)
}

func TestPredict(t *testing.T) {
	// GIVEN nearly noiseless observations
	data := gp.Dataset{
		X:    []float64{0, 1, 2, 3},
		Y:    []float64{0.5, -0.2, 0.1, 0.7},
		YErr: []float64{1e-4, 1e-4, 1e-4, 1e-4},
	}
	k := kernel.NewSquaredExponential(1, 1)

	// WHEN predicting at the observations and far away from them
	mean, std, err := Cholesky{}.Predict(k, data, []float64{0, 2, 100})
	require.NoError(t, err)
	require.Len(t, mean, 3)
	require.Len(t, std, 3)

	// THEN the posterior interpolates the data
	assert.InDelta(t, 0.5, mean[0], 1e-3)
	assert.InDelta(t, 0.1, mean[1], 1e-3)
	assert.Less(t, std[0], 1e-2)
	// AND reverts to the prior far from it
	assert.InDelta(t, 0, mean[2], 1e-12)
	assert.InDelta(t, 1, std[2], 1e-12)
}

func TestPredict_IgnoresWhiteNoise(t *testing.T) {
	data := testutil.SineDataset(10)
	se := kernel.NewSquaredExponential(1, 2)
	xStar := []float64{0.5, 4.5, 9.5}

	meanA, stdA, err := Cholesky{}.Predict(se, data, xStar)
	require.NoError(t, err)
	// Noise in the kernel changes the fit, but not the prior variance far away.
	_, stdB, err := Cholesky{}.Predict(kernel.Add(se, kernel.NewWhiteNoise(0.5)), data, []float64{1000})
	require.NoError(t, err)

	assert.Len(t, meanA, 3)
	assert.Len(t, stdA, 3)
	assert.InDelta(t, 1, stdB[0], 1e-12)
}

func TestPredict_Empty(t *testing.T) {
	mean, std, err := Cholesky{}.Predict(kernel.NewSquaredExponential(1, 1), testutil.SineDataset(5), nil)
	require.NoError(t, err)
	assert.Empty(t, mean)
	assert.Empty(t, std)
}
