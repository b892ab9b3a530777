package parametrizer

import (
	"strconv"
	"strings"
)

// Expr is a compiled expression that can be evaluated any number of times.
// An Expr is safe for concurrent use as long as its random Source is; the
// default Source is.
type Expr[T any] struct {
	root *Term[T]
	kind Kind[T]
	src  Source
	// text is the normalized source text, if the expression was compiled.
	text string
}

// NewExpr wraps a manually built term so that it can be evaluated. Only the
// RandSource option affects the result.
func NewExpr[T any](k Kind[T], root *Term[T], opts ...Option) *Expr[T] {
	p := newconfig(nil, opts)
	return &Expr[T]{root: root, kind: k, src: p.src}
}

// Eval evaluates the expression at t. The result may share memory with
// constants of the expression and must not be modified, which matters only
// for pointer kinds like BigFloat.
func (e *Expr[T]) Eval(t T) (r T, err error) {
	defer func() {
		p := recover()
		if p == nil {
			return
		}
		nan, ok := nanerr(p)
		if !ok {
			panic(p)
		}
		var zero T
		r, err = zero, &DomainError{Err: nan}
	}()
	ev := evaluator[T]{k: e.kind, src: e.src}
	return ev.eval(e.root, t)
}

// MustEval is like Eval but panics if evaluation fails.
func (e *Expr[T]) MustEval(t T) T {
	r, err := e.Eval(t)
	if err != nil {
		panic(err)
	}
	return r
}

// Text returns the normalized text the expression was compiled from, or the
// empty string for expressions created with NewExpr.
func (e *Expr[T]) Text() string {
	return e.text
}

// Root returns the top-level term of the expression.
func (e *Expr[T]) Root() *Term[T] {
	return e.root
}

// String creates a string representation of the compiled expression, with
// alternating round and square brackets grouping each term.
func (e *Expr[T]) String() string {
	var b strings.Builder
	e.root.fmt(&b, false, true)
	return b.String()
}

type evaluator[T any] struct {
	k   Kind[T]
	src Source
}

// eval computes the value of n at t.
func (ev *evaluator[T]) eval(n *Term[T], t T) (T, error) {
	var zero T
	k := ev.k
	switch n.kind {
	case termConst:
		return n.val, nil
	case termVar:
		return t, nil
	case termSum, termProduct:
		r := k.Zero()
		op := k.Add
		if n.kind == termProduct {
			r = k.One()
			op = k.Mul
		}
		for _, s := range n.sub {
			v, err := ev.eval(s, t)
			if err != nil {
				return zero, err
			}
			r = op(r, v)
		}
		return r, nil
	case termScalar:
		v, err := ev.eval(n.sub[0], t)
		if err != nil {
			return zero, err
		}
		return k.Mul(n.val, v), nil
	case termFraction:
		d, err := ev.eval(n.sub[1], t)
		if err != nil {
			return zero, err
		}
		if k.Cmp(d, k.Zero()) == 0 {
			return zero, &DivisionError{Op: "/"}
		}
		v, err := ev.eval(n.sub[0], t)
		if err != nil {
			return zero, err
		}
		return k.Quo(v, d), nil
	case termFunc:
		v, err := ev.eval(n.sub[0], t)
		if err != nil {
			return zero, err
		}
		return apply(k, n.fn, v)
	case termRandom:
		lo, err := ev.eval(n.sub[0], t)
		if err != nil {
			return zero, err
		}
		hi, err := ev.eval(n.sub[1], t)
		if err != nil {
			return zero, err
		}
		return randomBetween(k, ev.src, lo, hi)
	case termPiecewise:
		return ev.piecewise(n, t)
	default:
		panic("parametrizer: invalid term " + n.kind.String())
	}
}

func (ev *evaluator[T]) piecewise(n *Term[T], t T) (T, error) {
	k := ev.k
	if len(n.sub) == 0 {
		return k.Zero(), nil
	}
	if n.loop && k.Cmp(t, n.val) > 0 {
		if k.Cmp(n.val, k.Zero()) == 0 {
			return k.Zero(), &DivisionError{Op: "%"}
		}
		t = k.Rem(t, n.val)
	}
	cur := n.sub[0]
	for i := 1; i < len(n.sub); i++ {
		if k.Cmp(t, n.after[i]) < 0 {
			break
		}
		cur = n.sub[i]
	}
	return ev.eval(cur, t)
}

// DivisionError is an error returned when a fraction's denominator or a
// looping piecewise term's cycle is zero.
type DivisionError struct {
	// Op is "/" for fractions and "%" for cycles.
	Op string
}

func (err *DivisionError) Error() string {
	if err.Op == "%" {
		return "piecewise cycle is zero"
	}
	return "division by zero"
}

// BoundsError is an error returned when a random term's lower bound is not
// less than its upper bound.
type BoundsError struct {
	Lower, Upper float64
}

func (err *BoundsError) Error() string {
	return "random lower bound " + strconv.FormatFloat(err.Lower, 'g', -1, 64) +
		" is not less than upper bound " + strconv.FormatFloat(err.Upper, 'g', -1, 64)
}

// ConversionError is an error returned when a value cannot cross the float64
// bridge used by functions and random terms.
type ConversionError struct {
	// Value is the float64 value, or the nearest float64 to the value that
	// failed to convert.
	Value float64
	// Type is the name of the expression's numeric type.
	Type string
	// ToFloat is true if the conversion was to float64 rather than from it.
	ToFloat bool
}

func (err *ConversionError) Error() string {
	v := strconv.FormatFloat(err.Value, 'g', -1, 64)
	if err.ToFloat {
		return "cannot convert " + err.Type + " value to float64 (nearest " + v + ")"
	}
	return "cannot convert float64 " + v + " to " + err.Type
}
