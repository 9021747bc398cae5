package kernel

import "gonum.org/v1/gonum/mat"

// Lags returns the lag matrix r[i][j] = x1[i] - x2[j].
func Lags(x1, x2 []float64) *mat.Dense {
	r := mat.NewDense(len(x1), len(x2), nil)
	for i, a := range x1 {
		for j, b := range x2 {
			r.Set(i, j, a-b)
		}
	}
	return r
}

// Covariance evaluates k over every element of the lag matrix r. WhiteNoise
// nodes contribute their diagonal form; all other primitives are applied
// elementwise.
func Covariance(k Kernel, r mat.Matrix) *mat.Dense {
	return covariance(k, r, true)
}

// CrossCovariance is Covariance with WhiteNoise contributing nothing. Use it
// between distinct point sets, where a leading diagonal carries no meaning.
func CrossCovariance(k Kernel, r mat.Matrix) *mat.Dense {
	return covariance(k, r, false)
}

func covariance(k Kernel, r mat.Matrix, noise bool) *mat.Dense {
	switch t := k.(type) {
	case *Sum:
		out := covariance(t.left, r, noise)
		out.Add(out, covariance(t.right, r, noise))
		return out
	case *Product:
		out := covariance(t.left, r, noise)
		out.MulElem(out, covariance(t.right, r, noise))
		return out
	case *WhiteNoise:
		if !noise {
			rows, cols := r.Dims()
			return mat.NewDense(rows, cols, nil)
		}
		return t.EvalMatrix(r)
	default:
		var out mat.Dense
		out.Apply(func(_, _ int, v float64) float64 {
			return k.Eval(v)
		}, r)
		return &out
	}
}

// CovarianceGradient returns one matrix per flattened parameter of k holding
// the log-derivative of Covariance(k, r) with respect to that parameter.
func CovarianceGradient(k Kernel, r mat.Matrix) []*mat.Dense {
	switch t := k.(type) {
	case *Sum:
		return append(CovarianceGradient(t.left, r), CovarianceGradient(t.right, r)...)
	case *Product:
		left, right := Covariance(t.left, r), Covariance(t.right, r)
		gl, gr := CovarianceGradient(t.left, r), CovarianceGradient(t.right, r)
		for _, g := range gl {
			g.MulElem(g, right)
		}
		for _, g := range gr {
			g.MulElem(g, left)
		}
		return append(gl, gr...)
	case *WhiteNoise:
		return []*mat.Dense{t.DAmplitudeMatrix(r)}
	default:
		rows, cols := r.Dims()
		n := k.NumParams()
		out := make([]*mat.Dense, n)
		for j := range out {
			out[j] = mat.NewDense(rows, cols, nil)
		}
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				for p, g := range k.Grad(r.At(i, j)) {
					out[p].Set(i, j, g)
				}
			}
		}
		return out
	}
}
