package parametrizer

import (
	"fmt"
	"strings"
)

// Term is a node of a compiled expression. Given an input t, a term produces
// an output of the same numeric type. The set of term kinds is closed; build
// terms with the constructors in this package. Terms are immutable once built
// and each term is owned by exactly one parent.
type Term[T any] struct {
	kind termKind

	// val is the value of a constant, the factor of a scalar, or the cycle of
	// a looping piecewise term.
	val T
	// loop is whether a piecewise term reduces its input modulo val.
	loop bool

	// sub holds children: operands of a sequence, the operand of a scalar or
	// function, numerator then denominator, lower then upper bound, or the
	// parts of a piecewise term.
	sub []*Term[T]
	// after holds the thresholds of piecewise parts, parallel to sub.
	after []T

	fn Func
}

type termKind int8

const (
	termNone termKind = iota

	termConst     // val
	termVar       // t
	termSum       // sub[0] + sub[1] + ...
	termProduct   // sub[0] * sub[1] * ...
	termScalar    // val * sub[0]
	termFraction  // sub[0] / sub[1], fails when sub[1] is zero
	termFunc      // fn(sub[0])
	termRandom    // uniform in [sub[0], sub[1]), resampled each evaluation
	termPiecewise // sub[i] where after[i] <= t < after[i+1]
)

//go:generate go mod edit -require=golang.org/x/tools@v0.1.0
//go:generate go mod download
//go:generate go run golang.org/x/tools/cmd/stringer -type=termKind -trimprefix=term
//go:generate go mod tidy

// Op is the operation folded over the operands of a sequence.
type Op int8

const (
	// Add sums operands, starting from zero.
	Add Op = iota
	// Multiply multiplies operands, starting from one.
	Multiply
)

// Constant returns a term that ignores its input and produces v.
func Constant[T any](v T) *Term[T] {
	return &Term[T]{kind: termConst, val: v}
}

// Variable returns a term that produces its input.
func Variable[T any]() *Term[T] {
	return &Term[T]{kind: termVar}
}

// Sequence returns a term folding op over the results of terms from left to
// right. An empty sequence produces the identity of op.
func Sequence[T any](op Op, terms ...*Term[T]) *Term[T] {
	k := termSum
	if op == Multiply {
		k = termProduct
	}
	return &Term[T]{kind: k, sub: terms}
}

// Sum is a shortcut for Sequence(Add, terms...).
func Sum[T any](terms ...*Term[T]) *Term[T] {
	return Sequence(Add, terms...)
}

// Product is a shortcut for Sequence(Multiply, terms...).
func Product[T any](terms ...*Term[T]) *Term[T] {
	return Sequence(Multiply, terms...)
}

// Scalar returns a term multiplying the result of x by factor.
func Scalar[T any](x *Term[T], factor T) *Term[T] {
	return &Term[T]{kind: termScalar, val: factor, sub: []*Term[T]{x}}
}

// Negate returns a scalar term with factor -1.
func Negate[T any](k Kind[T], x *Term[T]) *Term[T] {
	return Scalar(x, k.Sub(k.Zero(), k.One()))
}

// Fraction returns a term dividing the result of num by the result of den.
// Evaluation fails with a *DivisionError when den produces zero.
func Fraction[T any](num, den *Term[T]) *Term[T] {
	return &Term[T]{kind: termFraction, sub: []*Term[T]{num, den}}
}

// Apply returns a term applying f to the result of x.
func Apply[T any](f Func, x *Term[T]) *Term[T] {
	return &Term[T]{kind: termFunc, fn: f, sub: []*Term[T]{x}}
}

// Random returns a term producing a uniformly random value in [lo, hi),
// where the bounds are evaluated at the input each time. Evaluation fails
// with a *BoundsError unless lo is less than hi.
func Random[T any](lo, hi *Term[T]) *Term[T] {
	return &Term[T]{kind: termRandom, sub: []*Term[T]{lo, hi}}
}

// Part is one piece of a piecewise term: Term applies from After until the
// After of the next part.
type Part[T any] struct {
	Term  *Term[T]
	After T
}

// Piecewise returns a term selecting among parts by comparing its input with
// each part's threshold. Parts are scanned in the order given and are not
// sorted: the selected part is the last one in the run of parts, starting
// from the second, whose thresholds the input meets or exceeds. The first
// part applies when the input is below the second threshold, so the first
// threshold is never compared. With no parts, the result is zero.
func Piecewise[T any](parts ...Part[T]) *Term[T] {
	t := &Term[T]{kind: termPiecewise}
	for _, p := range parts {
		t.sub = append(t.sub, p.Term)
		t.after = append(t.after, p.After)
	}
	return t
}

// Looping is like Piecewise, except that an input greater than cycle is
// first reduced to its remainder modulo cycle.
func Looping[T any](cycle T, parts ...Part[T]) *Term[T] {
	t := Piecewise(parts...)
	t.val = cycle
	t.loop = true
	return t
}

func (t *Term[T]) String() string {
	var b strings.Builder
	t.fmt(&b, false, false)
	return b.String()
}

func (t *Term[T]) fmt(b *strings.Builder, square, alt bool) {
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	defer b.WriteByte(r)
	switch t.kind {
	case termConst:
		fmt.Fprint(b, t.val)
	case termVar:
		b.WriteByte('t')
	case termSum:
		t.fmtseq(b, " + ", square, alt)
	case termProduct:
		if !alt {
			t.fmtseq(b, " * ", square, alt)
		} else {
			t.fmtseq(b, " × ", square, alt)
		}
	case termScalar:
		fmt.Fprint(b, t.val)
		if !alt {
			b.WriteString(" * ")
		} else {
			b.WriteString(" × ")
		}
		t.sub[0].fmt(b, !square, alt)
	case termFraction:
		t.sub[0].fmt(b, !square, alt)
		if !alt {
			b.WriteString(" / ")
		} else {
			b.WriteString(" ÷ ")
		}
		t.sub[1].fmt(b, !square, alt)
	case termFunc:
		b.WriteString(t.fn.Name())
		t.sub[0].fmt(b, !square, alt)
	case termRandom:
		b.WriteString("rd ")
		t.sub[0].fmt(b, !square, alt)
		b.WriteString(" < ")
		t.sub[1].fmt(b, !square, alt)
	case termPiecewise:
		b.WriteByte('p')
		if t.loop {
			fmt.Fprintf(b, "[%v]", t.val)
		}
		for i, p := range t.sub {
			if i > 0 {
				b.WriteString(" | ")
			}
			p.fmt(b, !square, alt)
			fmt.Fprintf(b, " > %v", t.after[i])
		}
	default:
		// Invalid terms use invalid characters.
		b.WriteByte('$')
		b.WriteString(t.kind.String())
		b.WriteByte('$')
	}
}

func (t *Term[T]) fmtseq(b *strings.Builder, op string, square, alt bool) {
	for i, s := range t.sub {
		if i > 0 {
			b.WriteString(op)
		}
		s.fmt(b, !square, alt)
	}
}
