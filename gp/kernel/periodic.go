package kernel

import "math"

var (
	_ Kernel = (*Periodic)(nil)
	_ Kernel = (*QuasiPeriodic)(nil)
	_ Kernel = (*RQP)(nil)
)

// sinTerm returns sin(π|r|/period) and cos(π|r|/period).
func sinTerm(r, period float64) (s, c float64) {
	return math.Sincos(math.Pi * math.Abs(r) / period)
}

// Periodic is amplitude² · exp(-2 sin²(π|r|/period) / lengthScale²), the
// exponential sine squared kernel.
type Periodic struct {
	amplitude   float64
	lengthScale float64
	period      float64
}

func NewPeriodic(amplitude, lengthScale, period float64) *Periodic {
	return &Periodic{
		amplitude:   amplitude,
		lengthScale: lengthScale,
		period:      period,
	}
}

func (k *Periodic) Kind() Kind           { return KindPeriodic }
func (k *Periodic) NumParams() int       { return 3 }
func (k *Periodic) Amplitude() float64   { return k.amplitude }
func (k *Periodic) LengthScale() float64 { return k.lengthScale }
func (k *Periodic) Period() float64      { return k.period }

func (k *Periodic) Params() []float64 {
	return []float64{k.amplitude, k.lengthScale, k.period}
}

func (k *Periodic) Eval(r float64) float64 {
	a := k.amplitude * k.amplitude
	s, _ := sinTerm(r, k.period)
	return a * math.Exp(-2*s*s/(k.lengthScale*k.lengthScale))
}

func (k *Periodic) DAmplitude(r float64) float64 {
	return 2 * k.Eval(r)
}

func (k *Periodic) DLengthScale(r float64) float64 {
	s, _ := sinTerm(r, k.period)
	return k.Eval(r) * 4 * s * s / (k.lengthScale * k.lengthScale)
}

func (k *Periodic) DPeriod(r float64) float64 {
	s, c := sinTerm(r, k.period)
	l2 := k.lengthScale * k.lengthScale
	return k.Eval(r) * 4 * math.Pi * math.Abs(r) * s * c / (l2 * k.period)
}

func (k *Periodic) Grad(r float64) []float64 {
	return []float64{k.DAmplitude(r), k.DLengthScale(r), k.DPeriod(r)}
}

func (k *Periodic) String() string { return format(k) }
func (*Periodic) sealed()          {}

// QuasiPeriodic is the product of a periodic and a squared-exponential kernel
// sharing one amplitude:
// amplitude² · exp(-2 sin²(π|r|/period)/lengthScale1² - r²/(2 lengthScale2²)).
type QuasiPeriodic struct {
	amplitude    float64
	lengthScale1 float64
	lengthScale2 float64
	period       float64
}

func NewQuasiPeriodic(amplitude, lengthScale1, lengthScale2, period float64) *QuasiPeriodic {
	return &QuasiPeriodic{
		amplitude:    amplitude,
		lengthScale1: lengthScale1,
		lengthScale2: lengthScale2,
		period:       period,
	}
}

func (k *QuasiPeriodic) Kind() Kind            { return KindQuasiPeriodic }
func (k *QuasiPeriodic) NumParams() int        { return 4 }
func (k *QuasiPeriodic) Amplitude() float64    { return k.amplitude }
func (k *QuasiPeriodic) LengthScale1() float64 { return k.lengthScale1 }
func (k *QuasiPeriodic) LengthScale2() float64 { return k.lengthScale2 }
func (k *QuasiPeriodic) Period() float64       { return k.period }

func (k *QuasiPeriodic) Params() []float64 {
	return []float64{k.amplitude, k.lengthScale1, k.lengthScale2, k.period}
}

func (k *QuasiPeriodic) Eval(r float64) float64 {
	a := k.amplitude * k.amplitude
	s, _ := sinTerm(r, k.period)
	l1 := k.lengthScale1 * k.lengthScale1
	l2 := k.lengthScale2 * k.lengthScale2
	return a * math.Exp(-2*s*s/l1-0.5*r*r/l2)
}

func (k *QuasiPeriodic) DAmplitude(r float64) float64 {
	return 2 * k.Eval(r)
}

func (k *QuasiPeriodic) DLengthScale1(r float64) float64 {
	s, _ := sinTerm(r, k.period)
	return k.Eval(r) * 4 * s * s / (k.lengthScale1 * k.lengthScale1)
}

func (k *QuasiPeriodic) DLengthScale2(r float64) float64 {
	return k.Eval(r) * r * r / (k.lengthScale2 * k.lengthScale2)
}

func (k *QuasiPeriodic) DPeriod(r float64) float64 {
	s, c := sinTerm(r, k.period)
	l1 := k.lengthScale1 * k.lengthScale1
	return k.Eval(r) * 4 * math.Pi * math.Abs(r) * s * c / (l1 * k.period)
}

func (k *QuasiPeriodic) Grad(r float64) []float64 {
	return []float64{
		k.DAmplitude(r),
		k.DLengthScale1(r),
		k.DLengthScale2(r),
		k.DPeriod(r),
	}
}

func (k *QuasiPeriodic) String() string { return format(k) }
func (*QuasiPeriodic) sealed()          {}

// RQP is the product of a periodic and a rational quadratic kernel sharing one
// amplitude. lengthScale1 and alpha shape the rational quadratic factor,
// lengthScale2 and period the periodic one:
// amplitude² · exp(-2 sin²(π|r|/period)/lengthScale2²) · (1 + r²/(2 alpha lengthScale1²))^-alpha.
type RQP struct {
	amplitude    float64
	lengthScale1 float64
	alpha        float64
	lengthScale2 float64
	period       float64
}

func NewRQP(amplitude, lengthScale1, alpha, lengthScale2, period float64) *RQP {
	return &RQP{
		amplitude:    amplitude,
		lengthScale1: lengthScale1,
		alpha:        alpha,
		lengthScale2: lengthScale2,
		period:       period,
	}
}

func (k *RQP) Kind() Kind            { return KindRQP }
func (k *RQP) NumParams() int        { return 5 }
func (k *RQP) Amplitude() float64    { return k.amplitude }
func (k *RQP) LengthScale1() float64 { return k.lengthScale1 }
func (k *RQP) Alpha() float64        { return k.alpha }
func (k *RQP) LengthScale2() float64 { return k.lengthScale2 }
func (k *RQP) Period() float64       { return k.period }

func (k *RQP) Params() []float64 {
	return []float64{k.amplitude, k.lengthScale1, k.alpha, k.lengthScale2, k.period}
}

// z returns r² / (2 alpha lengthScale1²).
func (k *RQP) z(r float64) float64 {
	return r * r / (2 * k.alpha * k.lengthScale1 * k.lengthScale1)
}

func (k *RQP) Eval(r float64) float64 {
	a := k.amplitude * k.amplitude
	s, _ := sinTerm(r, k.period)
	periodic := math.Exp(-2 * s * s / (k.lengthScale2 * k.lengthScale2))
	return a * periodic * math.Pow(1+k.z(r), -k.alpha)
}

func (k *RQP) DAmplitude(r float64) float64 {
	return 2 * k.Eval(r)
}

func (k *RQP) DLengthScale1(r float64) float64 {
	z := k.z(r)
	return k.Eval(r) * 2 * k.alpha * z / (1 + z)
}

func (k *RQP) DAlpha(r float64) float64 {
	z := k.z(r)
	return k.Eval(r) * k.alpha * (z/(1+z) - math.Log1p(z))
}

func (k *RQP) DLengthScale2(r float64) float64 {
	s, _ := sinTerm(r, k.period)
	return k.Eval(r) * 4 * s * s / (k.lengthScale2 * k.lengthScale2)
}

func (k *RQP) DPeriod(r float64) float64 {
	s, c := sinTerm(r, k.period)
	l2 := k.lengthScale2 * k.lengthScale2
	return k.Eval(r) * 4 * math.Pi * math.Abs(r) * s * c / (l2 * k.period)
}

func (k *RQP) Grad(r float64) []float64 {
	return []float64{
		k.DAmplitude(r),
		k.DLengthScale1(r),
		k.DAlpha(r),
		k.DLengthScale2(r),
		k.DPeriod(r),
	}
}

func (k *RQP) String() string { return format(k) }
func (*RQP) sealed()          {}
