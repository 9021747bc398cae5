package kernel

var (
	_ Kernel = (*Sum)(nil)
	_ Kernel = (*Product)(nil)
)

// Sum is the kernel left(r) + right(r).
type Sum struct {
	left, right Kernel
	n           int
}

// NewSum builds the binary node left + right. Nested sums are kept as nested
// nodes so that flattening order follows the tree exactly.
func NewSum(left, right Kernel) *Sum {
	mustNotBeNil(left, right)
	return &Sum{
		left:  left,
		right: right,
		n:     left.NumParams() + right.NumParams(),
	}
}

func (k *Sum) Kind() Kind    { return KindSum }
func (k *Sum) Left() Kernel  { return k.left }
func (k *Sum) Right() Kernel { return k.right }
func (k *Sum) NumParams() int {
	return k.n
}

func (k *Sum) Eval(r float64) float64 {
	return k.left.Eval(r) + k.right.Eval(r)
}

func (k *Sum) Grad(r float64) []float64 {
	return append(k.left.Grad(r), k.right.Grad(r)...)
}

func (k *Sum) Params() []float64 {
	out := make([]float64, 0, k.n)
	out = append(out, k.left.Params()...)
	return append(out, k.right.Params()...)
}

func (k *Sum) String() string {
	return format(k)
}

func (*Sum) sealed() {}

// Product is the kernel left(r) * right(r).
type Product struct {
	left, right Kernel
	n           int
}

// NewProduct builds the binary node left * right.
func NewProduct(left, right Kernel) *Product {
	mustNotBeNil(left, right)
	return &Product{
		left:  left,
		right: right,
		n:     left.NumParams() + right.NumParams(),
	}
}

func (k *Product) Kind() Kind    { return KindProduct }
func (k *Product) Left() Kernel  { return k.left }
func (k *Product) Right() Kernel { return k.right }
func (k *Product) NumParams() int {
	return k.n
}

func (k *Product) Eval(r float64) float64 {
	return k.left.Eval(r) * k.right.Eval(r)
}

// Grad applies the product rule: left gradients scaled by right(r), then
// right gradients scaled by left(r).
func (k *Product) Grad(r float64) []float64 {
	l, rv := k.left.Eval(r), k.right.Eval(r)
	gl, gr := k.left.Grad(r), k.right.Grad(r)
	out := make([]float64, 0, k.n)
	for _, g := range gl {
		out = append(out, g*rv)
	}
	for _, g := range gr {
		out = append(out, g*l)
	}
	return out
}

func (k *Product) Params() []float64 {
	out := make([]float64, 0, k.n)
	out = append(out, k.left.Params()...)
	return append(out, k.right.Params()...)
}

func (k *Product) String() string {
	return format(k)
}

func (*Product) sealed() {}

func mustNotBeNil(left, right Kernel) {
	if left == nil || right == nil {
		panic("kernel: nil operand in composition")
	}
}
