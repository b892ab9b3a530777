package parametrizer

import (
	"errors"
	"math"
	"reflect"
	"strconv"

	"golang.org/x/exp/constraints"
)

// Kind is the set of numeric capabilities that terms need from their value
// type. Implementations must not modify their arguments; every result is a
// fresh value. Ordering is always required because piecewise terms compare
// inputs against thresholds.
type Kind[T any] interface {
	Zero() T
	One() T
	Add(a, b T) T
	Sub(a, b T) T
	Mul(a, b T) T
	// Quo returns a/b. Terms never call it with b equal to Zero.
	Quo(a, b T) T
	// Rem returns the remainder of the truncated division a/b. Terms never
	// call it with b equal to Zero.
	Rem(a, b T) T
	// Cmp returns -1, 0, or +1 as a is less than, equal to, or greater than b.
	// If a and b are unordered, as when either is NaN, Cmp returns -1, so
	// that neither equality nor "at least" ever holds for them.
	Cmp(a, b T) int

	// Parse parses the full string as a literal. It never accepts a prefix.
	Parse(s string) (T, error)
	// Float64 converts x to the float64 bridge used by functions and random
	// sampling.
	Float64(x T) (float64, error)
	// FromFloat64 converts a bridged value back. The error is always a
	// *ConversionError.
	FromFloat64(f float64) (T, error)
}

// Real is the set of built-in types served by RealKind. Unsigned integers are
// excluded because negation is multiplication by -1.
type Real interface {
	constraints.Signed | constraints.Float
}

type realKind[T Real] struct {
	name  string
	bits  int
	float bool
}

// RealKind returns the Kind for a built-in signed integer or float type.
// Integer literals are base 10. Conversions from float64 to an integer type
// truncate toward zero and fail for NaN, infinities, and values out of range.
func RealKind[T Real]() Kind[T] {
	typ := reflect.TypeFor[T]()
	half := 0.5
	return realKind[T]{
		name:  typ.String(),
		bits:  typ.Bits(),
		float: T(half) != 0,
	}
}

// Kinds for the common built-in types.
var (
	Float64 = RealKind[float64]()
	Float32 = RealKind[float32]()
	Int     = RealKind[int]()
	Int64   = RealKind[int64]()
	Int32   = RealKind[int32]()
)

func (realKind[T]) Zero() T       { return 0 }
func (realKind[T]) One() T        { return 1 }
func (realKind[T]) Add(a, b T) T { return a + b }
func (realKind[T]) Sub(a, b T) T { return a - b }
func (realKind[T]) Mul(a, b T) T { return a * b }
func (realKind[T]) Quo(a, b T) T { return a / b }

func (k realKind[T]) Rem(a, b T) T {
	if k.float {
		return T(math.Mod(float64(a), float64(b)))
	}
	return T(int64(a) % int64(b))
}

func (realKind[T]) Cmp(a, b T) int {
	switch {
	case a > b:
		return 1
	case a == b:
		return 0
	default:
		return -1
	}
}

func (k realKind[T]) Parse(s string) (T, error) {
	if k.float {
		f, err := strconv.ParseFloat(s, k.bits)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, err
		}
		// Overflow is an infinity and underflow is zero, as for big literals.
		return T(f), nil
	}
	n, err := strconv.ParseInt(s, 10, k.bits)
	if err != nil {
		return 0, err
	}
	return T(n), nil
}

func (realKind[T]) Float64(x T) (float64, error) {
	return float64(x), nil
}

func (k realKind[T]) FromFloat64(f float64) (T, error) {
	if k.float {
		v := T(f)
		if !math.IsInf(f, 0) && math.IsInf(float64(v), 0) {
			return 0, &ConversionError{Value: f, Type: k.name}
		}
		return v, nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &ConversionError{Value: f, Type: k.name}
	}
	t := math.Trunc(f)
	lim := math.Ldexp(1, k.bits-1)
	if t < -lim || t >= lim {
		return 0, &ConversionError{Value: f, Type: k.name}
	}
	return T(t), nil
}
