package parametrizer

import (
	"math"
	"math/big"
	"strings"
)

type bigKind struct {
	prec uint
}

// BigFloat returns a Kind computing with *big.Float values at the given
// precision in bits. If prec is 0, the precision is 64.
//
// Operations that math/big cannot represent, like subtracting infinities,
// panic with big.ErrNaN inside the kind. Expr.Eval recovers those panics and
// returns a *DomainError instead.
func BigFloat(prec uint) Kind[*big.Float] {
	if prec == 0 {
		prec = 64
	}
	return bigKind{prec: prec}
}

func (k bigKind) new() *big.Float {
	return new(big.Float).SetPrec(k.prec)
}

func (k bigKind) Zero() *big.Float { return k.new() }
func (k bigKind) One() *big.Float  { return k.new().SetInt64(1) }

func (k bigKind) Add(a, b *big.Float) *big.Float { return k.new().Add(a, b) }
func (k bigKind) Sub(a, b *big.Float) *big.Float { return k.new().Sub(a, b) }
func (k bigKind) Mul(a, b *big.Float) *big.Float { return k.new().Mul(a, b) }
func (k bigKind) Quo(a, b *big.Float) *big.Float { return k.new().Quo(a, b) }

func (k bigKind) Rem(a, b *big.Float) *big.Float {
	if a.IsInf() {
		panic(big.ErrNaN{})
	}
	if b.IsInf() {
		return k.new().Set(a)
	}
	q := k.new().Quo(a, b)
	i, _ := q.Int(nil)
	t := k.new().SetInt(i)
	return k.new().Sub(a, t.Mul(t, b))
}

func (bigKind) Cmp(a, b *big.Float) int { return a.Cmp(b) }

func (k bigKind) Parse(s string) (*big.Float, error) {
	r, _, err := k.new().Parse(s, 0)
	switch {
	case err == nil:
		return r, nil
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		// N.B. s is non-empty, otherwise we couldn't overflow.
		return k.new().SetInf(s[0] == '-'), nil
	default:
		return nil, err
	}
}

func (bigKind) Float64(x *big.Float) (float64, error) {
	f, _ := x.Float64()
	if math.IsInf(f, 0) && !x.IsInf() {
		return 0, &ConversionError{Value: f, Type: "*big.Float", ToFloat: true}
	}
	return f, nil
}

func (k bigKind) FromFloat64(f float64) (*big.Float, error) {
	if math.IsNaN(f) {
		return nil, &ConversionError{Value: f, Type: "*big.Float"}
	}
	return k.new().SetFloat64(f), nil
}
