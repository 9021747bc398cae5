package kernel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/scanner"
)

// ErrSyntax is returned by Parse for malformed kernel expressions.
var ErrSyntax = errors.New("kernel syntax error")

// aliases maps alternative kernel names to kinds.
var aliases = map[string]Kind{
	"ExpSquared":     KindSquaredExponential,
	"ExpSineSquared": KindPeriodic,
	"RatQuadratic":   KindRationalQuadratic,
	"Matern_32":      KindMatern32,
	"Matern_52":      KindMatern52,
}

// kindByName resolves canonical names and aliases of primitive kinds.
func kindByName(name string) (Kind, bool) {
	for k := KindSquaredExponential; k <= KindLinear; k++ {
		if k.String() == name {
			return k, true
		}
	}
	k, ok := aliases[name]
	return k, ok
}

// format renders k so that Parse(format(k)) rebuilds the same tree: + and *
// associate to the left, so right-nested combinators are parenthesized.
func format(k Kernel) string {
	switch t := k.(type) {
	case *Sum:
		right := format(t.right)
		if t.right.Kind() == KindSum {
			right = "(" + right + ")"
		}
		return format(t.left) + " + " + right
	case *Product:
		left, right := format(t.left), format(t.right)
		if t.left.Kind() == KindSum {
			left = "(" + left + ")"
		}
		if !t.right.Kind().IsPrimitive() {
			right = "(" + right + ")"
		}
		return left + " * " + right
	default:
		params := k.Params()
		vals := make([]string, len(params))
		for i, p := range params {
			vals[i] = strconv.FormatFloat(p, 'g', -1, 64)
		}
		return k.Kind().String() + "(" + strings.Join(vals, ", ") + ")"
	}
}

// Parse reads a kernel expression such as
//
//	Periodic(10, 1, 10) * SquaredExponential(1, 2) + WhiteNoise(0.5)
//
// "*" binds tighter than "+", both associate to the left and parentheses
// group. Primitive names are the Kind names; ExpSquared, ExpSineSquared and
// RatQuadratic are accepted as aliases. Parameters may be NaN, Inf or -Inf
// so that String output of any kernel parses back.
func Parse(expr string) (Kernel, error) {
	p := &parser{}
	p.s.Init(strings.NewReader(expr))
	p.s.Mode = scanner.ScanIdents | scanner.ScanFloats | scanner.ScanInts
	p.s.Error = func(s *scanner.Scanner, msg string) {
		p.fail(s.Position, msg)
	}
	p.next()

	k := p.parseExpr()
	if p.err == nil && p.tok != scanner.EOF {
		p.fail(p.s.Position, fmt.Sprintf("unexpected %q", p.s.TokenText()))
	}
	if p.err != nil {
		return nil, p.err
	}
	return k, nil
}

type parser struct {
	s   scanner.Scanner
	tok rune
	err error
}

func (p *parser) next() {
	p.tok = p.s.Scan()
}

func (p *parser) fail(pos scanner.Position, msg string) {
	if p.err == nil {
		p.err = fmt.Errorf("%w: column %d: %s", ErrSyntax, pos.Column, msg)
	}
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		p.fail(p.s.Position, fmt.Sprintf("expected %q, got %q", string(tok), p.s.TokenText()))
		return
	}
	p.next()
}

// expr := term { "+" term }
func (p *parser) parseExpr() Kernel {
	k := p.parseTerm()
	for p.err == nil && p.tok == '+' {
		p.next()
		right := p.parseTerm()
		if p.err != nil {
			return nil
		}
		k = NewSum(k, right)
	}
	return k
}

// term := factor { "*" factor }
func (p *parser) parseTerm() Kernel {
	k := p.parseFactor()
	for p.err == nil && p.tok == '*' {
		p.next()
		right := p.parseFactor()
		if p.err != nil {
			return nil
		}
		k = NewProduct(k, right)
	}
	return k
}

// factor := "(" expr ")" | name "(" [ number { "," number } ] ")"
func (p *parser) parseFactor() Kernel {
	if p.err != nil {
		return nil
	}
	switch p.tok {
	case '(':
		p.next()
		k := p.parseExpr()
		p.expect(')')
		return k
	case scanner.Ident:
		name := p.s.TokenText()
		pos := p.s.Position
		kind, ok := kindByName(name)
		if !ok {
			p.fail(pos, fmt.Sprintf("unknown kernel %q", name))
			return nil
		}
		p.next()
		p.expect('(')
		params := p.parseNumbers()
		p.expect(')')
		if p.err != nil {
			return nil
		}
		k, err := New(kind, params...)
		if err != nil {
			p.fail(pos, err.Error())
			return nil
		}
		return k
	case scanner.EOF:
		p.fail(p.s.Position, "unexpected end of expression")
	default:
		p.fail(p.s.Position, fmt.Sprintf("unexpected %q", p.s.TokenText()))
	}
	return nil
}

func (p *parser) parseNumbers() []float64 {
	var out []float64
	if p.tok == ')' {
		return out
	}
	for p.err == nil {
		out = append(out, p.parseNumber())
		if p.tok != ',' {
			break
		}
		p.next()
	}
	return out
}

// nonFinite reports whether an identifier spells a value String can emit
// for a degenerate parameter: NaN, Inf or Infinity in any case.
func nonFinite(ident string) bool {
	return strings.EqualFold(ident, "NaN") || strings.EqualFold(ident, "Inf") || strings.EqualFold(ident, "Infinity")
}

func (p *parser) parseNumber() float64 {
	sign := 1.0
	if p.tok == '-' || p.tok == '+' {
		if p.tok == '-' {
			sign = -1
		}
		p.next()
	}
	if p.tok != scanner.Float && p.tok != scanner.Int && !(p.tok == scanner.Ident && nonFinite(p.s.TokenText())) {
		p.fail(p.s.Position, fmt.Sprintf("expected number, got %q", p.s.TokenText()))
		return 0
	}
	v, err := strconv.ParseFloat(p.s.TokenText(), 64)
	if err != nil {
		p.fail(p.s.Position, err.Error())
		return 0
	}
	p.next()
	return sign * v
}
