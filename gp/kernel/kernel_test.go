package kernel

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iastro-pt/gedi/gp/internal/testutil"
)

// primitives returns one instance of every primitive with distinct,
// positive parameters.
func primitives() []Kernel {
	return []Kernel{
		NewSquaredExponential(1.3, 2.1),
		NewPeriodic(0.9, 1.2, 5.1),
		NewQuasiPeriodic(1.1, 0.8, 3.5, 4.2),
		NewRationalQuadratic(1.4, 0.7, 1.9),
		NewWhiteNoise(0.4),
		NewExponential(2.2, 1.5),
		NewMatern32(1.7, 0.6),
		NewMatern52(0.8, 2.4),
		NewRQP(1.2, 1.6, 0.9, 0.7, 3.3),
		NewLinear(0.5),
	}
}

// trees returns composite kernels of varying shape and depth.
func trees() []Kernel {
	se := NewSquaredExponential(1.3, 2.1)
	per := NewPeriodic(0.9, 1.2, 5.1)
	wn := NewWhiteNoise(0.4)
	m32 := NewMatern32(1.7, 0.6)
	rq := NewRationalQuadratic(1.4, 0.7, 1.9)
	return []Kernel{
		Add(se, wn),
		Mul(se, per),
		Add(Mul(se, per), wn),
		Mul(Add(se, per), Add(m32, wn)),
		Add(se, Add(per, Add(rq, wn))),
		Mul(Mul(se, per), Mul(m32, rq)),
	}
}

func TestSquaredExponential_ConcreteValues(t *testing.T) {
	k := NewSquaredExponential(1.0, 2.0)

	assert.Equal(t, 1.0, k.Eval(0))
	testutil.AssertFloat64Equal(t, "SE(1,2) at r=2", math.Exp(-0.5), k.Eval(2.0), 1e-15)
	testutil.AssertFloat64Equal(t, "SE(1,2) at r=2", 0.6065306597126334, k.Eval(2.0), 1e-12)
}

func TestAmplitude_SignDoesNotMatter(t *testing.T) {
	pos := NewMatern52(1.5, 2.0)
	neg := NewMatern52(-1.5, 2.0)
	for _, r := range []float64{0, 0.3, -2, 7} {
		assert.Equal(t, pos.Eval(r), neg.Eval(r), "r=%v", r)
	}
}

func TestSum_CountAndFlattenOrder(t *testing.T) {
	// GIVEN SquaredExponential(1,1) + WhiteNoise(1)
	k := Add(NewSquaredExponential(1, 1), NewWhiteNoise(1))

	// THEN it has three parameters in left-to-right order
	assert.Equal(t, 3, Count(k))
	assert.Equal(t, []float64{1, 1, 1}, Flatten(k))
}

func TestCount_IsRecursiveSumOfChildren(t *testing.T) {
	var check func(t *testing.T, k Kernel)
	check = func(t *testing.T, k Kernel) {
		switch c := k.(type) {
		case *Sum:
			assert.Equal(t, Count(c.Left())+Count(c.Right()), Count(c))
			check(t, c.Left())
			check(t, c.Right())
		case *Product:
			assert.Equal(t, Count(c.Left())+Count(c.Right()), Count(c))
			check(t, c.Left())
			check(t, c.Right())
		default:
			assert.Equal(t, Arity(k.Kind()), Count(k))
		}
		assert.Len(t, Flatten(k), Count(k))
	}
	for _, k := range trees() {
		t.Run(k.String(), func(t *testing.T) { check(t, k) })
	}
}

func TestFlatten_DepthFirstLeftToRight(t *testing.T) {
	k := Mul(
		Add(NewSquaredExponential(1, 2), NewPeriodic(3, 4, 5)),
		Add(NewWhiteNoise(6), NewLinear(7)),
	)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, Flatten(k))
}

func TestComposition_EvaluationCommutesStructureDoesNot(t *testing.T) {
	a := NewSquaredExponential(1.3, 2.1)
	b := NewPeriodic(0.9, 1.2, 5.1)

	ab, ba := Add(a, b), Add(b, a)
	pab, pba := Mul(a, b), Mul(b, a)

	assert.NotEqual(t, Flatten(ab), Flatten(ba))
	for _, r := range []float64{0, 0.25, -1.5, 3, 12.7} {
		testutil.AssertFloat64Equal(t, "a+b vs b+a", ab.Eval(r), ba.Eval(r), 1e-14)
		testutil.AssertFloat64Equal(t, "a*b vs b*a", pab.Eval(r), pba.Eval(r), 1e-14)
	}
}

func TestComposition_DoesNotMutateOperands(t *testing.T) {
	a := NewSquaredExponential(1.3, 2.1)
	b := NewWhiteNoise(0.4)
	before := Flatten(a)

	s := Add(a, b)
	p := s.Params()
	p[0] = 99

	assert.Equal(t, before, Flatten(a))
	assert.Equal(t, 1.3, Flatten(s)[0])
}

func TestCombinators_EvalMatchesChildren(t *testing.T) {
	a := NewMatern32(1.7, 0.6)
	b := NewRationalQuadratic(1.4, 0.7, 1.9)
	for _, r := range []float64{0, 0.5, 2} {
		assert.Equal(t, a.Eval(r)+b.Eval(r), Add(a, b).Eval(r))
		assert.Equal(t, a.Eval(r)*b.Eval(r), Mul(a, b).Eval(r))
	}
}

func TestPrimitives_DefinedAtZeroLag(t *testing.T) {
	for _, k := range primitives() {
		v := k.Eval(0)
		assert.False(t, math.IsNaN(v), "%s at r=0", k)
		assert.False(t, math.IsInf(v, 0), "%s at r=0", k)
	}
}

func TestPrimitives_DegenerateInputsDoNotPanic(t *testing.T) {
	// GIVEN a zero length scale
	degenerate := []Kernel{
		NewSquaredExponential(1, 0),
		NewExponential(1, 0),
		NewMatern32(1, 0),
		NewMatern52(1, 0),
		NewRationalQuadratic(1, 1, 0),
		NewPeriodic(1, 0, 0),
	}
	// THEN evaluation returns whatever the formula yields, without panicking
	for _, k := range degenerate {
		assert.NotPanics(t, func() {
			_ = k.Eval(1)
			_ = k.Grad(1)
		}, k.String())
	}
}

func TestWhiteNoise_PointwiseForm(t *testing.T) {
	k := NewWhiteNoise(0.5)
	assert.Equal(t, 0.25, k.Eval(0))
	assert.Equal(t, 0.0, k.Eval(0.1))
	assert.Equal(t, []float64{0.5}, k.Grad(0))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "SquaredExponential", KindSquaredExponential.String())
	assert.Equal(t, "Product", KindProduct.String())
	assert.Equal(t, "Kind(42)", Kind(42).String())
	assert.True(t, KindLinear.IsPrimitive())
	assert.False(t, KindSum.IsPrimitive())
}

func TestComposition_NilOperandPanics(t *testing.T) {
	require.Panics(t, func() { Add(nil, NewWhiteNoise(1)) })
	require.Panics(t, func() { Mul(NewWhiteNoise(1), nil) })
}
