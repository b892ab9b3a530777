package parametrizer

import (
	"math"
	"math/rand/v2"
	"sync"
)

// Source is a source of uniformly distributed float64 values in [0, 1).
// Expressions containing dynamic random terms call Float64 during Eval, so a
// Source shared by concurrent evaluations must be safe for concurrent use.
// A *rand.Rand from math/rand/v2 is a Source, but is not safe for concurrent
// use on its own.
type Source interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 {
	return rand.Float64()
}

type lockedSource struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedSource) Float64() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Float64()
}

// NewSource returns a deterministic Source seeded with seed. It is safe for
// concurrent use.
func NewSource(seed uint64) Source {
	return &lockedSource{r: rand.New(rand.NewPCG(seed, seed))}
}

// sample draws a value in [lo, hi) from src. lo must be less than hi, and
// both must be finite.
func sample(src Source, lo, hi float64) float64 {
	u := src.Float64()
	var r float64
	if d := hi - lo; !math.IsInf(d, 0) {
		r = lo + u*d
	} else {
		r = lo*(1-u) + hi*u
	}
	switch {
	case r < lo:
		r = lo
	case r >= hi:
		// Rounding can land on the excluded upper bound.
		r = math.Nextafter(hi, lo)
	}
	return r
}

// randomBetween samples the bridged interval [lo, hi) of kind k. Both bounds
// must be finite.
func randomBetween[T any](k Kind[T], src Source, lo, hi T) (T, error) {
	var zero T
	l, err := k.Float64(lo)
	if err != nil {
		return zero, err
	}
	h, err := k.Float64(hi)
	if err != nil {
		return zero, err
	}
	if !(l < h) || math.IsInf(l, 0) || math.IsInf(h, 0) {
		return zero, &BoundsError{Lower: l, Upper: h}
	}
	r := sample(src, l, h)
	v, err := k.FromFloat64(r)
	if err != nil {
		return zero, err
	}
	if k.Cmp(v, hi) < 0 {
		return v, nil
	}
	// Converting to T rounded up to the excluded upper bound. Integers
	// truncate toward zero, so the floor is enough for them.
	if f, err := k.FromFloat64(math.Floor(r)); err == nil && k.Cmp(f, lo) >= 0 && k.Cmp(f, hi) < 0 {
		return f, nil
	}
	return below(k, l, r, hi)
}

// below finds, by bisection on [l, r], the largest float64 that converts to a
// value of kind k less than hi. l must convert to such a value.
func below[T any](k Kind[T], l, r float64, hi T) (T, error) {
	for i := 0; i < 1100; i++ {
		m := l + (r-l)/2
		if m <= l || m >= r {
			break
		}
		v, err := k.FromFloat64(m)
		if err == nil && k.Cmp(v, hi) < 0 {
			l = m
		} else {
			r = m
		}
	}
	return k.FromFloat64(l)
}
