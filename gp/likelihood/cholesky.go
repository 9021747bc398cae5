// Package likelihood evaluates the Gaussian Process log marginal likelihood
// of a kernel over a dataset, its gradient in log-parameter space and the
// posterior predictive distribution. All linear algebra goes through a
// Cholesky factorization of the covariance matrix.
package likelihood

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/iastro-pt/gedi/gp"
	"github.com/iastro-pt/gedi/gp/kernel"
)

// ErrNotPositiveDefinite is returned when the covariance matrix of a kernel
// over a dataset cannot be Cholesky-factorized.
var ErrNotPositiveDefinite = errors.New("covariance matrix is not positive definite")

var log2Pi = math.Log(2 * math.Pi)

// Cholesky is the exact GP likelihood, O(n³) per evaluation. The zero value
// is ready to use and safe for concurrent use.
type Cholesky struct{}

// factorization holds the pieces shared by the likelihood, its gradient and
// prediction.
type factorization struct {
	lags  *mat.Dense
	chol  mat.Cholesky
	alpha *mat.VecDense // K⁻¹y
}

func factorize(k kernel.Kernel, data gp.Dataset) (*factorization, error) {
	if k == nil {
		return nil, errors.New("nil kernel")
	}
	if err := data.Validate(); err != nil {
		return nil, err
	}
	n := data.Len()
	f := &factorization{lags: kernel.Lags(data.X, data.X)}

	sym := symmetrize(kernel.Covariance(k, f.lags))
	for i := 0; i < n; i++ {
		sym.SetSym(i, i, sym.At(i, i)+data.YErr[i]*data.YErr[i])
	}

	if ok := f.chol.Factorize(sym); !ok {
		return nil, fmt.Errorf("%w: kernel %s over %d points", ErrNotPositiveDefinite, k, n)
	}
	f.alpha = mat.NewVecDense(n, nil)
	if err := f.chol.SolveVecTo(f.alpha, mat.NewVecDense(n, data.Y)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPositiveDefinite, err)
	}
	return f, nil
}

// symmetrize mirrors the upper triangle of the square matrix m. The Linear
// kernel depends on the signed lag, so its covariance is not symmetric; the
// likelihood and its gradient both work on the mirrored matrix.
func symmetrize(m *mat.Dense) *mat.SymDense {
	n, _ := m.Dims()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, m.At(i, j))
		}
	}
	return sym
}

// LogLikelihood returns
//
//	-½ yᵀK⁻¹y - ½ log|K| - (n/2) log 2π
//
// where K is the kernel covariance over data.X plus diag(yerr²).
func (Cholesky) LogLikelihood(k kernel.Kernel, data gp.Dataset) (float64, error) {
	f, err := factorize(k, data)
	if err != nil {
		return 0, err
	}
	n := float64(data.Len())
	y := mat.NewVecDense(data.Len(), data.Y)
	return -0.5*mat.Dot(y, f.alpha) - 0.5*f.chol.LogDet() - 0.5*n*log2Pi, nil
}

// Gradient returns the derivative of LogLikelihood with respect to the log of
// every kernel parameter, in kernel.Flatten order:
//
//	½ tr((ααᵀ - K⁻¹) ∂K/∂log θ)
//
// ∂K is mirrored from its upper triangle exactly as K is.
func (Cholesky) Gradient(k kernel.Kernel, data gp.Dataset) ([]float64, error) {
	f, err := factorize(k, data)
	if err != nil {
		return nil, err
	}
	n := data.Len()

	var inv mat.SymDense
	if err := f.chol.InverseTo(&inv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPositiveDefinite, err)
	}
	w := mat.NewDense(n, n, nil)
	w.Outer(1, f.alpha, f.alpha)
	w.Sub(w, &inv)

	dK := kernel.CovarianceGradient(k, f.lags)
	grad := make([]float64, len(dK))
	for p, raw := range dK {
		d := symmetrize(raw)
		var tr float64
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				tr += w.At(i, j) * d.At(j, i)
			}
		}
		grad[p] = 0.5 * tr
	}
	return grad, nil
}

// Predict conditions k on data and returns the posterior mean and standard
// deviation of the latent function at xStar. WhiteNoise terms model
// measurement noise and are left out of the cross and prior covariances.
func (Cholesky) Predict(k kernel.Kernel, data gp.Dataset, xStar []float64) (mean, std []float64, err error) {
	f, err := factorize(k, data)
	if err != nil {
		return nil, nil, err
	}
	m := len(xStar)
	if m == 0 {
		return []float64{}, []float64{}, nil
	}

	cross := kernel.CrossCovariance(k, kernel.Lags(xStar, data.X)) // m×n
	prior := kernel.CrossCovariance(k, kernel.Lags(xStar, xStar))  // m×m

	mu := mat.NewVecDense(m, nil)
	mu.MulVec(cross, f.alpha)

	var sol mat.Dense // K⁻¹ crossᵀ, n×m
	if err := f.chol.SolveTo(&sol, cross.T()); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNotPositiveDefinite, err)
	}

	mean = make([]float64, m)
	std = make([]float64, m)
	for i := 0; i < m; i++ {
		mean[i] = mu.AtVec(i)
		v := prior.At(i, i) - mat.Dot(cross.RowView(i), sol.ColView(i))
		std[i] = math.Sqrt(math.Max(v, 0))
	}
	return mean, std, nil
}
