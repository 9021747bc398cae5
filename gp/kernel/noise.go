package kernel

import "gonum.org/v1/gonum/mat"

var (
	_ Kernel = (*WhiteNoise)(nil)
	_ Kernel = (*Linear)(nil)
)

// WhiteNoise injects amplitude² on the diagonal of a covariance matrix and
// nothing elsewhere. Over a lag matrix it is evaluated with EvalMatrix; the
// scalar Eval is its pointwise rendering (amplitude² at r == 0, 0 otherwise).
type WhiteNoise struct {
	amplitude float64
}

func NewWhiteNoise(amplitude float64) *WhiteNoise {
	return &WhiteNoise{amplitude: amplitude}
}

func (k *WhiteNoise) Kind() Kind         { return KindWhiteNoise }
func (k *WhiteNoise) NumParams() int     { return 1 }
func (k *WhiteNoise) Amplitude() float64 { return k.amplitude }

func (k *WhiteNoise) Params() []float64 {
	return []float64{k.amplitude}
}

func (k *WhiteNoise) Eval(r float64) float64 {
	if r != 0 {
		return 0
	}
	return k.amplitude * k.amplitude
}

func (k *WhiteNoise) DAmplitude(r float64) float64 {
	return 2 * k.Eval(r)
}

func (k *WhiteNoise) Grad(r float64) []float64 {
	return []float64{k.DAmplitude(r)}
}

// EvalMatrix returns a matrix shaped like r holding amplitude² on its leading
// diagonal. The values of r are ignored.
func (k *WhiteNoise) EvalMatrix(r mat.Matrix) *mat.Dense {
	return diagonal(r, k.amplitude*k.amplitude)
}

// DAmplitudeMatrix is the log-derivative of EvalMatrix.
func (k *WhiteNoise) DAmplitudeMatrix(r mat.Matrix) *mat.Dense {
	return diagonal(r, 2*k.amplitude*k.amplitude)
}

func (k *WhiteNoise) String() string { return format(k) }
func (*WhiteNoise) sealed()          {}

func diagonal(r mat.Matrix, v float64) *mat.Dense {
	rows, cols := r.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < min(rows, cols); i++ {
		out.Set(i, i, v)
	}
	return out
}

// Linear is constant² · r. It is the only non-stationary primitive: the lag
// is used with its sign.
type Linear struct {
	constant float64
}

func NewLinear(constant float64) *Linear {
	return &Linear{constant: constant}
}

func (k *Linear) Kind() Kind        { return KindLinear }
func (k *Linear) NumParams() int    { return 1 }
func (k *Linear) Constant() float64 { return k.constant }

func (k *Linear) Params() []float64 {
	return []float64{k.constant}
}

func (k *Linear) Eval(r float64) float64 {
	return k.constant * k.constant * r
}

func (k *Linear) DConstant(r float64) float64 {
	return 2 * k.Eval(r)
}

func (k *Linear) Grad(r float64) []float64 {
	return []float64{k.DConstant(r)}
}

func (k *Linear) String() string { return format(k) }
func (*Linear) sealed()          {}
