package kernel

import "math"

var _ Kernel = (*RationalQuadratic)(nil)

// RationalQuadratic is amplitude² · (1 + r²/(2 alpha lengthScale²))^-alpha.
// alpha weighs large against small scale variations.
type RationalQuadratic struct {
	amplitude   float64
	alpha       float64
	lengthScale float64
}

func NewRationalQuadratic(amplitude, alpha, lengthScale float64) *RationalQuadratic {
	return &RationalQuadratic{
		amplitude:   amplitude,
		alpha:       alpha,
		lengthScale: lengthScale,
	}
}

func (k *RationalQuadratic) Kind() Kind           { return KindRationalQuadratic }
func (k *RationalQuadratic) NumParams() int       { return 3 }
func (k *RationalQuadratic) Amplitude() float64   { return k.amplitude }
func (k *RationalQuadratic) Alpha() float64       { return k.alpha }
func (k *RationalQuadratic) LengthScale() float64 { return k.lengthScale }

func (k *RationalQuadratic) Params() []float64 {
	return []float64{k.amplitude, k.alpha, k.lengthScale}
}

func (k *RationalQuadratic) z(r float64) float64 {
	return r * r / (2 * k.alpha * k.lengthScale * k.lengthScale)
}

func (k *RationalQuadratic) Eval(r float64) float64 {
	a := k.amplitude * k.amplitude
	return a * math.Pow(1+k.z(r), -k.alpha)
}

func (k *RationalQuadratic) DAmplitude(r float64) float64 {
	return 2 * k.Eval(r)
}

func (k *RationalQuadratic) DAlpha(r float64) float64 {
	z := k.z(r)
	return k.Eval(r) * k.alpha * (z/(1+z) - math.Log1p(z))
}

func (k *RationalQuadratic) DLengthScale(r float64) float64 {
	z := k.z(r)
	return k.Eval(r) * 2 * k.alpha * z / (1 + z)
}

func (k *RationalQuadratic) Grad(r float64) []float64 {
	return []float64{k.DAmplitude(r), k.DAlpha(r), k.DLengthScale(r)}
}

func (k *RationalQuadratic) String() string { return format(k) }
func (*RationalQuadratic) sealed()          {}
