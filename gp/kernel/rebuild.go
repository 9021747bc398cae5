package kernel

import "fmt"

// Arity returns the number of parameters a primitive kind takes, or -1 for
// combinators.
func Arity(kind Kind) int {
	switch kind {
	case KindWhiteNoise, KindLinear:
		return 1
	case KindSquaredExponential, KindExponential, KindMatern32, KindMatern52:
		return 2
	case KindPeriodic, KindRationalQuadratic:
		return 3
	case KindQuasiPeriodic:
		return 4
	case KindRQP:
		return 5
	default:
		return -1
	}
}

// New constructs a primitive of the given kind from its ordered parameters.
func New(kind Kind, params ...float64) (Kernel, error) {
	if !kind.IsPrimitive() {
		return nil, fmt.Errorf("%w: %s is not a primitive kernel", ErrStructuralMismatch, kind)
	}
	if n := Arity(kind); len(params) != n {
		return nil, fmt.Errorf("%w: %s takes %d parameters, got %d", ErrStructuralMismatch, kind, n, len(params))
	}
	p := params
	switch kind {
	case KindSquaredExponential:
		return NewSquaredExponential(p[0], p[1]), nil
	case KindPeriodic:
		return NewPeriodic(p[0], p[1], p[2]), nil
	case KindQuasiPeriodic:
		return NewQuasiPeriodic(p[0], p[1], p[2], p[3]), nil
	case KindRationalQuadratic:
		return NewRationalQuadratic(p[0], p[1], p[2]), nil
	case KindWhiteNoise:
		return NewWhiteNoise(p[0]), nil
	case KindExponential:
		return NewExponential(p[0], p[1]), nil
	case KindMatern32:
		return NewMatern32(p[0], p[1]), nil
	case KindMatern52:
		return NewMatern52(p[0], p[1]), nil
	case KindRQP:
		return NewRQP(p[0], p[1], p[2], p[3], p[4]), nil
	case KindLinear:
		return NewLinear(p[0]), nil
	}
	return nil, fmt.Errorf("%w: unknown kernel kind %s", ErrStructuralMismatch, kind)
}

// Rebuild returns a tree with the same structure as template whose primitive
// parameters are taken, depth first and left to right, from flat. It fails
// with ErrStructuralMismatch unless len(flat) == Count(template). The
// template is not modified and flat is not retained.
func Rebuild(template Kernel, flat []float64) (Kernel, error) {
	if template == nil {
		return nil, fmt.Errorf("%w: nil template", ErrStructuralMismatch)
	}
	if n := template.NumParams(); len(flat) != n {
		return nil, fmt.Errorf("%w: %s has %d parameters, got %d values",
			ErrStructuralMismatch, template.Kind(), n, len(flat))
	}
	return rebuild(template, flat)
}

func rebuild(template Kernel, p []float64) (Kernel, error) {
	if len(p) != template.NumParams() {
		return nil, fmt.Errorf("%w: %s has %d parameters, got %d values",
			ErrStructuralMismatch, template.Kind(), template.NumParams(), len(p))
	}
	switch t := template.(type) {
	case *SquaredExponential:
		return NewSquaredExponential(p[0], p[1]), nil
	case *Periodic:
		return NewPeriodic(p[0], p[1], p[2]), nil
	case *QuasiPeriodic:
		return NewQuasiPeriodic(p[0], p[1], p[2], p[3]), nil
	case *RationalQuadratic:
		return NewRationalQuadratic(p[0], p[1], p[2]), nil
	case *WhiteNoise:
		return NewWhiteNoise(p[0]), nil
	case *Exponential:
		return NewExponential(p[0], p[1]), nil
	case *Matern32:
		return NewMatern32(p[0], p[1]), nil
	case *Matern52:
		return NewMatern52(p[0], p[1]), nil
	case *RQP:
		return NewRQP(p[0], p[1], p[2], p[3], p[4]), nil
	case *Linear:
		return NewLinear(p[0]), nil
	case *Sum:
		left, right, err := rebuildChildren(t.left, t.right, p)
		if err != nil {
			return nil, err
		}
		return NewSum(left, right), nil
	case *Product:
		left, right, err := rebuildChildren(t.left, t.right, p)
		if err != nil {
			return nil, err
		}
		return NewProduct(left, right), nil
	default:
		return nil, fmt.Errorf("%w: unsupported kernel type %T", ErrStructuralMismatch, template)
	}
}

// rebuildChildren splits p at Count(left): the left subtree always consumes
// the leading entries.
func rebuildChildren(left, right Kernel, p []float64) (Kernel, Kernel, error) {
	n1 := left.NumParams()
	l, err := rebuild(left, p[:n1])
	if err != nil {
		return nil, nil, err
	}
	r, err := rebuild(right, p[n1:])
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}
