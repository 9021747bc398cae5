package kernel

import "math"

var (
	_ Kernel = (*SquaredExponential)(nil)
	_ Kernel = (*Exponential)(nil)
	_ Kernel = (*Matern32)(nil)
	_ Kernel = (*Matern52)(nil)
)

// SquaredExponential is amplitude² · exp(-r² / (2 lengthScale²)), also known
// as the radial basis function kernel.
type SquaredExponential struct {
	amplitude   float64
	lengthScale float64
}

func NewSquaredExponential(amplitude, lengthScale float64) *SquaredExponential {
	return &SquaredExponential{
		amplitude:   amplitude,
		lengthScale: lengthScale,
	}
}

func (k *SquaredExponential) Kind() Kind           { return KindSquaredExponential }
func (k *SquaredExponential) NumParams() int       { return 2 }
func (k *SquaredExponential) Amplitude() float64   { return k.amplitude }
func (k *SquaredExponential) LengthScale() float64 { return k.lengthScale }

func (k *SquaredExponential) Params() []float64 {
	return []float64{k.amplitude, k.lengthScale}
}

func (k *SquaredExponential) Eval(r float64) float64 {
	a := k.amplitude * k.amplitude
	l2 := k.lengthScale * k.lengthScale
	return a * math.Exp(-0.5*r*r/l2)
}

func (k *SquaredExponential) DAmplitude(r float64) float64 {
	return 2 * k.Eval(r)
}

func (k *SquaredExponential) DLengthScale(r float64) float64 {
	l2 := k.lengthScale * k.lengthScale
	return k.Eval(r) * r * r / l2
}

func (k *SquaredExponential) Grad(r float64) []float64 {
	return []float64{k.DAmplitude(r), k.DLengthScale(r)}
}

func (k *SquaredExponential) String() string { return format(k) }
func (*SquaredExponential) sealed()          {}

// Exponential is amplitude² · exp(-|r| / lengthScale), the Matérn kernel
// with ν = 1/2.
type Exponential struct {
	amplitude   float64
	lengthScale float64
}

func NewExponential(amplitude, lengthScale float64) *Exponential {
	return &Exponential{
		amplitude:   amplitude,
		lengthScale: lengthScale,
	}
}

func (k *Exponential) Kind() Kind           { return KindExponential }
func (k *Exponential) NumParams() int       { return 2 }
func (k *Exponential) Amplitude() float64   { return k.amplitude }
func (k *Exponential) LengthScale() float64 { return k.lengthScale }

func (k *Exponential) Params() []float64 {
	return []float64{k.amplitude, k.lengthScale}
}

func (k *Exponential) Eval(r float64) float64 {
	a := k.amplitude * k.amplitude
	return a * math.Exp(-math.Abs(r)/k.lengthScale)
}

func (k *Exponential) DAmplitude(r float64) float64 {
	return 2 * k.Eval(r)
}

func (k *Exponential) DLengthScale(r float64) float64 {
	return k.Eval(r) * math.Abs(r) / k.lengthScale
}

func (k *Exponential) Grad(r float64) []float64 {
	return []float64{k.DAmplitude(r), k.DLengthScale(r)}
}

func (k *Exponential) String() string { return format(k) }
func (*Exponential) sealed()          {}

// Matern32 is amplitude² · (1 + u) · exp(-u) with u = √3|r| / lengthScale.
type Matern32 struct {
	amplitude   float64
	lengthScale float64
}

func NewMatern32(amplitude, lengthScale float64) *Matern32 {
	return &Matern32{
		amplitude:   amplitude,
		lengthScale: lengthScale,
	}
}

func (k *Matern32) Kind() Kind           { return KindMatern32 }
func (k *Matern32) NumParams() int       { return 2 }
func (k *Matern32) Amplitude() float64   { return k.amplitude }
func (k *Matern32) LengthScale() float64 { return k.lengthScale }

func (k *Matern32) Params() []float64 {
	return []float64{k.amplitude, k.lengthScale}
}

func (k *Matern32) u(r float64) float64 {
	return math.Sqrt(3) * math.Abs(r) / k.lengthScale
}

func (k *Matern32) Eval(r float64) float64 {
	a := k.amplitude * k.amplitude
	u := k.u(r)
	return a * (1 + u) * math.Exp(-u)
}

func (k *Matern32) DAmplitude(r float64) float64 {
	return 2 * k.Eval(r)
}

func (k *Matern32) DLengthScale(r float64) float64 {
	a := k.amplitude * k.amplitude
	u := k.u(r)
	return a * u * u * math.Exp(-u)
}

func (k *Matern32) Grad(r float64) []float64 {
	return []float64{k.DAmplitude(r), k.DLengthScale(r)}
}

func (k *Matern32) String() string { return format(k) }
func (*Matern32) sealed()          {}

// Matern52 is amplitude² · (1 + u + u²/3) · exp(-u) with u = √5|r| / lengthScale.
type Matern52 struct {
	amplitude   float64
	lengthScale float64
}

func NewMatern52(amplitude, lengthScale float64) *Matern52 {
	return &Matern52{
		amplitude:   amplitude,
		lengthScale: lengthScale,
	}
}

func (k *Matern52) Kind() Kind           { return KindMatern52 }
func (k *Matern52) NumParams() int       { return 2 }
func (k *Matern52) Amplitude() float64   { return k.amplitude }
func (k *Matern52) LengthScale() float64 { return k.lengthScale }

func (k *Matern52) Params() []float64 {
	return []float64{k.amplitude, k.lengthScale}
}

func (k *Matern52) u(r float64) float64 {
	return math.Sqrt(5) * math.Abs(r) / k.lengthScale
}

func (k *Matern52) Eval(r float64) float64 {
	a := k.amplitude * k.amplitude
	u := k.u(r)
	return a * (1 + u + u*u/3) * math.Exp(-u)
}

func (k *Matern52) DAmplitude(r float64) float64 {
	return 2 * k.Eval(r)
}

func (k *Matern52) DLengthScale(r float64) float64 {
	a := k.amplitude * k.amplitude
	u := k.u(r)
	return a * u * u * (1 + u) / 3 * math.Exp(-u)
}

func (k *Matern52) Grad(r float64) []float64 {
	return []float64{k.DAmplitude(r), k.DLengthScale(r)}
}

func (k *Matern52) String() string { return format(k) }
func (*Matern52) sealed()          {}
