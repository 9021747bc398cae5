// Package kernel implements the covariance-function algebra: primitive
// kernels, the Sum and Product combinators, parameter flattening and the
// reconstruction of a kernel tree from a flat parameter vector.
//
// All derivatives are taken with respect to the logarithm of each parameter.
// Amplitude-like parameters are squared before use, so their sign never
// changes the sign of the covariance.
package kernel

import (
	"errors"
	"fmt"
)

// ErrStructuralMismatch is returned when a flat parameter vector (or a list
// of per-parameter bounds) does not match the parameter count of a kernel tree.
var ErrStructuralMismatch = errors.New("structural mismatch")

// Kind identifies a node variant of the kernel tree.
type Kind int

const (
	KindSquaredExponential Kind = iota
	KindPeriodic
	KindQuasiPeriodic
	KindRationalQuadratic
	KindWhiteNoise
	KindExponential
	KindMatern32
	KindMatern52
	KindRQP
	KindLinear
	KindSum
	KindProduct
)

var kindNames = [...]string{
	KindSquaredExponential: "SquaredExponential",
	KindPeriodic:           "Periodic",
	KindQuasiPeriodic:      "QuasiPeriodic",
	KindRationalQuadratic:  "RationalQuadratic",
	KindWhiteNoise:         "WhiteNoise",
	KindExponential:        "Exponential",
	KindMatern32:           "Matern32",
	KindMatern52:           "Matern52",
	KindRQP:                "RQP",
	KindLinear:             "Linear",
	KindSum:                "Sum",
	KindProduct:            "Product",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// IsPrimitive reports whether the kind is a leaf of the kernel tree.
func (k Kind) IsPrimitive() bool {
	return k >= KindSquaredExponential && k <= KindLinear
}

// Kernel is a node of an immutable kernel tree. The set of implementations is
// closed: primitives defined in this package plus Sum and Product.
type Kernel interface {
	// Kind returns the node variant.
	Kind() Kind

	// Eval returns the covariance at lag r.
	Eval(r float64) float64

	// Grad returns the log-derivatives at lag r, one per flattened parameter.
	Grad(r float64) []float64

	// Params returns a copy of the flattened parameter vector.
	Params() []float64

	// NumParams returns len(Params()) without allocating.
	NumParams() int

	// String renders the kernel as an expression accepted by Parse.
	String() string

	sealed()
}

// Flatten returns the depth-first concatenation of all primitive parameters.
func Flatten(k Kernel) []float64 {
	return k.Params()
}

// Count returns the number of parameters in the flattened vector of k.
func Count(k Kernel) int {
	return k.NumParams()
}

// Add composes a + b. Neither operand is modified.
func Add(a, b Kernel) *Sum {
	return NewSum(a, b)
}

// Mul composes a * b. Neither operand is modified.
func Mul(a, b Kernel) *Product {
	return NewProduct(a, b)
}
