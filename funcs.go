package parametrizer

import (
	"errors"
	"math"
	"math/big"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// Func is a named function of one real variable that expressions can apply
// with the syntax name(expr). The zero value is not a valid Func.
type Func struct {
	// shorthand is the lowercase name followed by "(".
	shorthand string
	f         func(float64) float64
	big       func(out, in *big.Float) *big.Float
}

// NewFunc creates a Func from a function on float64. Values of any Kind are
// bridged through float64 to call f. The identifier is matched
// case-insensitively.
func NewFunc(identifier string, f func(float64) float64) Func {
	return Func{shorthand: strings.ToLower(identifier) + "(", f: f}
}

// NewBigFunc creates a Func from a function on *big.Float. f must set out to
// its result, to the precision of out; its return value is ignored. If f is
// called on an argument outside its domain, it should panic with an error of
// type big.ErrNaN. Expressions of the BigFloat kind call f directly; other
// kinds are bridged through float64 and a 53-bit big.Float.
func NewBigFunc(identifier string, f func(out, in *big.Float) *big.Float) Func {
	return Func{shorthand: strings.ToLower(identifier) + "(", big: f}
}

// Shorthand returns the text that introduces an application of the function,
// i.e. the lowercase identifier followed by an open parenthesis.
func (f Func) Shorthand() string {
	return f.shorthand
}

// Name returns the lowercase identifier of the function.
func (f Func) Name() string {
	return strings.TrimSuffix(f.shorthand, "(")
}

// defaultfuncs are the functions available to Compile unless disabled.
var defaultfuncs = []Func{
	NewFunc("sin", math.Sin),
	NewFunc("cos", math.Cos),
}

// BigFuncs returns arbitrary-precision exp, ln, log (base 10), and sqrt, for
// use with ParseFuncs.
func BigFuncs() []Func {
	return []Func{
		NewBigFunc("exp", bigfloat.Exp),
		NewBigFunc("ln", biglog),
		NewBigFunc("log", func(out, in *big.Float) *big.Float {
			biglog(out, in)
			if out.IsInf() {
				return out
			}
			ten := new(big.Float).SetPrec(out.Prec()).SetInt64(10)
			bigfloat.Log(ten, ten)
			return out.Quo(out, ten)
		}),
		NewBigFunc("sqrt", (*big.Float).Sqrt),
	}
}

// biglog is bigfloat.Log with its domain checked.
func biglog(out, in *big.Float) *big.Float {
	switch in.Sign() {
	case -1:
		panic(big.ErrNaN{})
	case 0:
		return out.SetInf(true)
	}
	return bigfloat.Log(out, in)
}

// apply calls f on x, bridging between the kind of x and the kind f expects.
func apply[T any](k Kind[T], f Func, x T) (T, error) {
	var zero T
	if f.big != nil {
		if bk, ok := any(k).(bigKind); ok {
			out := bk.new()
			f.big(out, any(x).(*big.Float))
			return any(out).(T), nil
		}
	}
	in, err := k.Float64(x)
	if err != nil {
		return zero, err
	}
	var r float64
	if f.f != nil {
		r = f.f(in)
	} else {
		if math.IsNaN(in) {
			return zero, &ConversionError{Value: in, Type: "*big.Float"}
		}
		out := new(big.Float).SetPrec(53)
		f.big(out, new(big.Float).SetFloat64(in))
		r, _ = out.Float64()
	}
	return k.FromFloat64(r)
}

// DomainError is an error returned when math/big cannot represent the result
// of an operation, e.g. inf-inf or the square root of a negative number.
// DomainError unwraps to big.ErrNaN.
type DomainError struct {
	Err big.ErrNaN
}

func (err *DomainError) Error() string {
	if msg := err.Err.Error(); msg != "" {
		return "outside domain: " + msg
	}
	return "outside domain"
}

func (err *DomainError) Unwrap() error {
	return err.Err
}

// nanerr extracts a big.ErrNaN from a recovered panic value.
func nanerr(r any) (big.ErrNaN, bool) {
	err, ok := r.(error)
	if !ok {
		return big.ErrNaN{}, false
	}
	var nan big.ErrNaN
	if errors.As(err, &nan) {
		return nan, true
	}
	return big.ErrNaN{}, false
}
