package parametrizer_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/basstabs/parametrizer"
)

func TestEvalFloat(t *testing.T) {
	type vc struct {
		t, r float64
	}
	nan := math.NaN()
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"num", "1.35", []vc{{2, 1.35}, {3.4, 1.35}}},
		{"var", "t", []vc{{3, 3}, {1.25, 1.25}, {-7, -7}}},
		{"add", "1+t", []vc{{8, 9}, {0.16, 1.16}}},
		{"add-fold", "1+2+3", []vc{{0, 6}}},
		{"mul-fold", "2*3*4", []vc{{0, 24}}},
		{"prec", "1+2*3", []vc{{0, 7}}},
		{"group", "(1+2)*3", []vc{{0, 9}}},
		{"div", "6/t", []vc{{3, 2}, {2, 3}, {4, 1.5}}},
		{"neg", "-t", []vc{{9, -9}}},
		{"sub", "13-t", []vc{{3, 10}}},
		{"sub-chain", "10-t-1", []vc{{3, 6}}},
		{"spaces", "6 + T", []vc{{2, 8}}},
		{"sin", "sin(t*t + t - 1)", []vc{{3, math.Sin(11)}}},
		{"cos", "COS(t)", []vc{{3.14, math.Cos(3.14)}}},
		{"nested", "13+((2*t)+5)", []vc{{1, 20}, {6, 30}}},
		{"piecewise", "p2>0|4>2|8>6", []vc{{1, 2}, {5, 4}, {7, 8}, {-3, 2}, {2, 4}, {6, 8}}},
		{"piecewise-terms", "p2*t>0|4>2", []vc{{1, 2}, {9, 4}}},
		{"looping", "p[10]18>0|23>4", []vc{{23, 18}, {106, 23}, {10, 23}, {3, 18}}},
		{"piecewise-unsorted", "p1>0|2>5|3>2", []vc{{1, 1}, {3, 1}, {6, 3}}},
		{"piecewise-negative", "p-1>-10|1>0", []vc{{-5, -1}, {0, 1}}},
		{"fraction-sub", "1/(t+1)*(t-1)", []vc{{3, 0.5}}},
		{"fraction-left", "(t-1)/t", []vc{{4, 0.75}}},
		{"div-nan", "1/t", []vc{{nan, nan}}},
		{"piecewise-nan", "p1>0|2>5", []vc{{nan, 1}}},
		{"looping-nan", "p[10]1>0|2>5", []vc{{nan, 1}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := parametrizer.Compile(parametrizer.Float64, c.src)
			require.NoError(t, err, "%q failed to parse", c.src)
			for _, v := range c.r {
				r, err := a.Eval(v.t)
				require.NoError(t, err)
				if math.IsNaN(v.r) {
					assert.True(t, math.IsNaN(r), "%s at %g gave %g", c.src, v.t, r)
					continue
				}
				assert.Equal(t, v.r, r, "%s at %g", c.src, v.t)
			}
		})
	}
}

func TestEvalInt(t *testing.T) {
	type vc struct {
		t, r int
	}
	cases := []struct {
		name string
		src  string
		r    []vc
	}{
		{"backslash", `4\2`, []vc{{8, 2}}},
		{"sub-mul", "15-3*t", []vc{{3, 6}}},
		{"div", "6/t", []vc{{3, 2}, {2, 3}, {4, 1}}},
		{"neg-div", "(0-7)/t", []vc{{2, -3}}},
		{"neg", "-t", []vc{{9, -9}}},
		{"piecewise", "p2>0|4>2|8>6", []vc{{1, 2}, {5, 4}, {7, 8}}},
		{"looping", "p[10]18>0|23>4", []vc{{23, 18}, {106, 23}}},
		{"sin", "sin(t)", []vc{{20, 0}, {2, 0}}},
		{"poly-by-parts", "t*t+2*t+1", []vc{{3, 16}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := parametrizer.Compile(parametrizer.Int, c.src)
			require.NoError(t, err, "%q failed to parse", c.src)
			for _, v := range c.r {
				assert.Equal(t, v.r, a.MustEval(v.t), "%s at %d", c.src, v.t)
			}
		})
	}
}

func TestEvalLiteralsAreConstant(t *testing.T) {
	for _, lit := range []string{"0", "1.5", "-2.25", "1e3", "123456789"} {
		a, err := parametrizer.Compile(parametrizer.Float64, lit)
		require.NoError(t, err)
		want := a.MustEval(0)
		for _, x := range []float64{-1e9, -1, 0, 0.5, 42, math.Inf(1)} {
			assert.Equal(t, want, a.MustEval(x), "%s at %g", lit, x)
		}
	}
}

func TestEvalUserFuncs(t *testing.T) {
	poly := func(t float64) float64 { return t*t + 2*t + 1 }
	_, err := parametrizer.Compile(parametrizer.Float64, "poly(t)")
	assert.ErrorIs(t, err, parametrizer.ErrNoMatch)

	a, err := parametrizer.CompileWith(parametrizer.Float64, "poly(t)", []parametrizer.Func{parametrizer.NewFunc("poly", poly)})
	require.NoError(t, err)
	assert.Equal(t, 16.0, a.MustEval(3))

	square := func(t float64) float64 { return t * t }
	b, err := parametrizer.CompileWith(parametrizer.Float64, "Log( square(t) + 3 )", []parametrizer.Func{
		parametrizer.NewFunc("LOG", math.Log),
		parametrizer.NewFunc("square", square),
	})
	require.NoError(t, err)
	assert.Equal(t, math.Log(7), b.MustEval(2))
	assert.Equal(t, math.Log(28), b.MustEval(5))

	c, err := parametrizer.CompileQuick(parametrizer.Float64, "log(t+3)", parametrizer.ParseFunc("log", math.Log))
	require.NoError(t, err)
	assert.Equal(t, math.Log(8), c.MustEval(5))
}

func TestEvalRandom(t *testing.T) {
	a, err := parametrizer.Compile(parametrizer.Float64, "rd(2+t<4*t)")
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		r := a.MustEval(4)
		assert.GreaterOrEqual(t, r, 6.0)
		assert.Less(t, r, 16.0)
	}

	b, err := parametrizer.Compile(parametrizer.Int, "rd(t<t+3)")
	require.NoError(t, err)
	for i := 0; i < 1000; i++ {
		r := b.MustEval(-2)
		assert.GreaterOrEqual(t, r, -2)
		assert.Less(t, r, 1)
	}

	c, err := parametrizer.Compile(parametrizer.Int, "rc(4<8)")
	require.NoError(t, err)
	v := c.MustEval(2)
	assert.Equal(t, v, c.MustEval(99))
	assert.GreaterOrEqual(t, v, 4)
	assert.Less(t, v, 8)
}

// fixedSource always produces the same sample.
type fixedSource float64

func (s fixedSource) Float64() float64 {
	return float64(s)
}

func TestEvalRandomRounding(t *testing.T) {
	a, err := parametrizer.Compile(parametrizer.Float32, "rd(0.5<0.6)", parametrizer.RandSource(fixedSource(0.99999999)))
	require.NoError(t, err)
	r, err := a.Eval(0)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, r, float32(0.5))
	assert.Less(t, r, float32(0.6))

	b, err := parametrizer.Compile(parametrizer.Int, "rd(0-3<0-1)", parametrizer.RandSource(fixedSource(0.75)))
	require.NoError(t, err)
	assert.Equal(t, -2, b.MustEval(0))

	c, err := parametrizer.Compile(parametrizer.Float64, "rc(-1.7e308<1.7e308)", parametrizer.RandSource(fixedSource(0.25)))
	require.NoError(t, err)
	v := c.MustEval(0)
	assert.False(t, math.IsInf(v, 0) || math.IsNaN(v), "got %g", v)

	d, err := parametrizer.Compile(parametrizer.Float64, "rd(t<2)", parametrizer.RandSource(fixedSource(0.5)))
	require.NoError(t, err)
	_, err = d.Eval(math.Inf(-1))
	var be *parametrizer.BoundsError
	assert.ErrorAs(t, err, &be)
	_, err = d.Eval(math.NaN())
	assert.ErrorAs(t, err, &be)
}

func TestEvalRandomSeeded(t *testing.T) {
	compile := func() *parametrizer.Expr[float64] {
		a, err := parametrizer.Compile(parametrizer.Float64, "rc(0<1)+rd(0<t)", parametrizer.RandSource(parametrizer.NewSource(7)))
		require.NoError(t, err)
		return a
	}
	a, b := compile(), compile()
	for i := 0; i < 10; i++ {
		assert.Equal(t, a.MustEval(100), b.MustEval(100))
	}
}

func TestEvalConcurrent(t *testing.T) {
	a, err := parametrizer.Compile(parametrizer.Float64, "p[10]rd(t<t+1)>0|2*t>5", parametrizer.RandSource(parametrizer.NewSource(1)))
	require.NoError(t, err)
	g, _ := errgroup.WithContext(context.Background())
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 500; j++ {
				x := float64(j % 10)
				r, err := a.Eval(x)
				if err != nil {
					return err
				}
				if x < 5 && (r < x || r >= x+1) {
					t.Errorf("random part at %g gave %g", x, r)
				}
				if x >= 5 && r != 2*x {
					t.Errorf("linear part at %g gave %g", x, r)
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestEvalErrors(t *testing.T) {
	a, err := parametrizer.Compile(parametrizer.Int, "6/t")
	require.NoError(t, err)
	_, err = a.Eval(0)
	var de *parametrizer.DivisionError
	assert.ErrorAs(t, err, &de)

	b, err := parametrizer.Compile(parametrizer.Float64, "1/(t-t)")
	require.NoError(t, err)
	_, err = b.Eval(3)
	assert.ErrorAs(t, err, &de)
	nanDen, err := parametrizer.Compile(parametrizer.Float64, "1/t")
	require.NoError(t, err)
	r0, err := nanDen.Eval(math.NaN())
	require.NoError(t, err, "NaN is not zero")
	assert.True(t, math.IsNaN(r0))

	c, err := parametrizer.Compile(parametrizer.Float64, "rd(t<1)")
	require.NoError(t, err)
	_, err = c.Eval(5)
	var be *parametrizer.BoundsError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 5.0, be.Lower)
	assert.Equal(t, 1.0, be.Upper)
	_, err = c.Eval(1)
	assert.ErrorAs(t, err, &be)
	_, err = c.Eval(0)
	assert.NoError(t, err)

	huge := parametrizer.NewFunc("huge", func(float64) float64 { return 1e12 })
	d, err := parametrizer.CompileWith(parametrizer.Int32, "huge(t)", []parametrizer.Func{huge})
	require.NoError(t, err)
	_, err = d.Eval(1)
	var ce *parametrizer.ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "int32", ce.Type)

	nan := parametrizer.NewFunc("nan", func(float64) float64 { return math.NaN() })
	e, err := parametrizer.CompileWith(parametrizer.Int, "1+nan(t)", []parametrizer.Func{nan})
	require.NoError(t, err)
	_, err = e.Eval(1)
	assert.ErrorAs(t, err, &ce)

	f, err := parametrizer.CompileWith(parametrizer.Float32, "huge(t)*huge(t)*huge(t)*huge(t)", []parametrizer.Func{huge})
	require.NoError(t, err)
	r, err := f.Eval(1)
	require.NoError(t, err, "overflow by arithmetic is not a conversion")
	assert.True(t, math.IsInf(float64(r), 1))
	g, err := parametrizer.CompileWith(parametrizer.Float32, "sq(t)", []parametrizer.Func{
		parametrizer.NewFunc("sq", func(x float64) float64 { return x * x }),
	})
	require.NoError(t, err)
	_, err = g.Eval(1e30)
	assert.ErrorAs(t, err, &ce)
}

func TestEvalManualTerms(t *testing.T) {
	k := parametrizer.Int
	v := parametrizer.Variable[int]
	c := parametrizer.Constant[int]

	sum := parametrizer.NewExpr(k, parametrizer.Sum(c(13), c(5), v()))
	assert.Equal(t, 19, sum.MustEval(1))
	assert.Equal(t, 24, sum.MustEval(6))

	prod := parametrizer.NewExpr(k, parametrizer.Product(c(13), c(5), v()))
	assert.Equal(t, 65, prod.MustEval(1))
	assert.Equal(t, 390, prod.MustEval(6))

	assert.Equal(t, 0, parametrizer.NewExpr(k, parametrizer.Sum[int]()).MustEval(3))
	assert.Equal(t, 1, parametrizer.NewExpr(k, parametrizer.Product[int]()).MustEval(3))

	scaled := parametrizer.NewExpr(k, parametrizer.Scalar(v(), 3))
	assert.Equal(t, 6, scaled.MustEval(2))
	neg := parametrizer.NewExpr(k, parametrizer.Negate(k, v()))
	assert.Equal(t, -4, neg.MustEval(4))

	frac := parametrizer.NewExpr(k, parametrizer.Fraction(c(10), v()))
	assert.Equal(t, 2, frac.MustEval(5))

	sin := parametrizer.NewExpr(k, parametrizer.Apply(parametrizer.NewFunc("sin", math.Sin), c(20)))
	assert.Equal(t, int(math.Sin(20)), sin.MustEval(5))

	pw := parametrizer.NewExpr(k, parametrizer.Piecewise(
		parametrizer.Part[int]{Term: c(3), After: 0},
		parametrizer.Part[int]{Term: c(5), After: 5},
		parametrizer.Part[int]{Term: c(9), After: 10},
	))
	assert.Equal(t, 3, pw.MustEval(2))
	assert.Equal(t, 5, pw.MustEval(8))
	assert.Equal(t, 9, pw.MustEval(20))

	loop := parametrizer.NewExpr(k, parametrizer.Looping(10,
		parametrizer.Part[int]{Term: c(2), After: 1},
		parametrizer.Part[int]{Term: c(4), After: 5},
		parametrizer.Part[int]{Term: c(6), After: 9},
	))
	assert.Equal(t, 2, loop.MustEval(3))
	assert.Equal(t, 4, loop.MustEval(16))
	assert.Equal(t, 6, loop.MustEval(109))

	assert.Equal(t, 0, parametrizer.NewExpr(k, parametrizer.Piecewise[int]()).MustEval(7))

	_, err := parametrizer.NewExpr(k, parametrizer.Looping(0, parametrizer.Part[int]{Term: c(1)})).Eval(5)
	var de *parametrizer.DivisionError
	assert.ErrorAs(t, err, &de)

	rnd := parametrizer.NewExpr(parametrizer.Float64, parametrizer.Random(parametrizer.Constant(2.5), parametrizer.Variable[float64]()))
	for i := 0; i < 100; i++ {
		assert.GreaterOrEqual(t, rnd.MustEval(3), 2.5)
		assert.Less(t, rnd.MustEval(15), 15.0)
	}
	assert.Equal(t, "", rnd.Text())
}

func TestEvalFloatCycle(t *testing.T) {
	a, err := parametrizer.Compile(parametrizer.Float64, "p[2.5]t>0")
	require.NoError(t, err)
	assert.Equal(t, 0.5, a.MustEval(3))
	assert.Equal(t, 2.5, a.MustEval(2.5))
	assert.InDelta(t, 1.25, a.MustEval(6.25), 1e-12)
}
