package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"

	"github.com/iastro-pt/gedi/gp/internal/testutil"
)

// numericLogGrad differentiates k.Eval(r) with respect to log(p_j) by
// central finite differences, rebuilding the kernel for each probe.
func numericLogGrad(t *testing.T, k Kernel, r float64) []float64 {
	t.Helper()
	params := Flatten(k)
	out := make([]float64, len(params))
	for j := range params {
		f := func(logp float64) float64 {
			p := Flatten(k)
			p[j] = math.Exp(logp)
			probe, err := Rebuild(k, p)
			require.NoError(t, err)
			return probe.Eval(r)
		}
		out[j] = fd.Derivative(f, math.Log(params[j]), &fd.Settings{Formula: fd.Central})
	}
	return out
}

func TestGrad_MatchesFiniteDifferencesOfLogParameters(t *testing.T) {
	all := append(primitives(), trees()...)
	for _, k := range all {
		t.Run(k.String(), func(t *testing.T) {
			for _, r := range []float64{0, 0.3, -1.1, 2.7, 6} {
				want := numericLogGrad(t, k, r)
				got := k.Grad(r)
				require.Len(t, got, Count(k))
				for j := range want {
					testutil.AssertClose(t, k.Kind().String(), want[j], got[j], 1e-6)
				}
			}
		})
	}
}

func TestGrad_NamedDerivativesMatchGrad(t *testing.T) {
	r := 1.7

	se := NewSquaredExponential(1.3, 2.1)
	require.Equal(t, []float64{se.DAmplitude(r), se.DLengthScale(r)}, se.Grad(r))

	per := NewPeriodic(0.9, 1.2, 5.1)
	require.Equal(t, []float64{per.DAmplitude(r), per.DLengthScale(r), per.DPeriod(r)}, per.Grad(r))

	rq := NewRationalQuadratic(1.4, 0.7, 1.9)
	require.Equal(t, []float64{rq.DAmplitude(r), rq.DAlpha(r), rq.DLengthScale(r)}, rq.Grad(r))

	lin := NewLinear(0.5)
	require.Equal(t, []float64{lin.DConstant(r)}, lin.Grad(r))
}
