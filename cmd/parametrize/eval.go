package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/basstabs/parametrizer"
)

var kindNames = []string{"float64", "float32", "int", "int64", "int32", "big"}

// maxRange bounds the number of inputs a range may produce.
const maxRange = 1 << 20

// evaluate compiles text with the kind chosen by o and writes its values.
func evaluate(ctx context.Context, o *options, text string, w io.Writer) error {
	switch o.kind {
	case "float64":
		return run(ctx, parametrizer.Float64, o, text, w)
	case "float32":
		return run(ctx, parametrizer.Float32, o, text, w)
	case "int":
		return run(ctx, parametrizer.Int, o, text, w)
	case "int64":
		return run(ctx, parametrizer.Int64, o, text, w)
	case "int32":
		return run(ctx, parametrizer.Int32, o, text, w)
	case "big":
		return run(ctx, parametrizer.BigFloat(o.prec), o, text, w)
	default:
		return fmt.Errorf("unknown kind %q, choose from: %s", o.kind, strings.Join(kindNames, ", "))
	}
}

func run[T any](ctx context.Context, k parametrizer.Kind[T], o *options, text string, w io.Writer) error {
	opts, err := compileOptions(o)
	if err != nil {
		return err
	}
	var a *parametrizer.Expr[T]
	if o.quick {
		a, err = parametrizer.CompileQuick(k, text, opts...)
	} else {
		a, err = parametrizer.Compile(k, text, opts...)
	}
	if err != nil {
		return err
	}
	logrus.Debugf("compiled %q as %v", a.Text(), a)

	xs, err := inputs(k, o)
	if err != nil {
		return err
	}
	rows := make([]row, len(xs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, x := range xs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i].Input = fmt.Sprint(x)
			r, err := a.Eval(x)
			if err != nil {
				rows[i].Error = err.Error()
				rows[i].err = err
				return nil
			}
			rows[i].Output = fmt.Sprint(r)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	rep := report{Expr: a.Text(), Rows: rows}
	if o.echo {
		rep.Tree = a.String()
	}
	if err := write(w, o.format, &rep); err != nil {
		return err
	}
	var errs *multierror.Error
	for _, r := range rows {
		if r.err != nil {
			errs = multierror.Append(errs, fmt.Errorf("t=%s: %w", r.Input, r.err))
		}
	}
	return errs.ErrorOrNil()
}

// compileOptions builds the options for compiling the main expression.
func compileOptions(o *options) ([]parametrizer.Option, error) {
	var fns []parametrizer.Func
	if o.bigFuncs {
		fns = append(fns, parametrizer.BigFuncs()...)
	}
	for _, def := range o.funcs {
		f, err := userFunc(def, fns)
		if err != nil {
			return nil, err
		}
		fns = append(fns, f)
	}
	opts := []parametrizer.Option{parametrizer.ParseFuncs(fns...)}
	if o.seeded {
		opts = append(opts, parametrizer.RandSource(parametrizer.NewSource(o.seed)))
	}
	return opts, nil
}

// userFunc compiles a name=expr definition into a float64 function. Earlier
// functions in fns are available to expr. Evaluation errors inside the
// function become NaN.
func userFunc(def string, fns []parametrizer.Func) (parametrizer.Func, error) {
	name, body, ok := strings.Cut(def, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.ContainsAny(name, "()+-*/<>|[] \t") {
		return parametrizer.Func{}, fmt.Errorf(`function definitions must be "name=expr", not %q`, def)
	}
	a, err := parametrizer.Compile(parametrizer.Float64, body, parametrizer.ParseFuncs(fns...))
	if err != nil {
		return parametrizer.Func{}, fmt.Errorf("defining %s: %w", name, err)
	}
	logrus.Debugf("defined %s(t) = %v", name, a)
	return parametrizer.NewFunc(name, func(t float64) float64 {
		r, err := a.Eval(t)
		if err != nil {
			logrus.Debugf("%s(%g): %v", name, t, err)
			return math.NaN()
		}
		return r
	}), nil
}

// inputs parses the --at values followed by the --from/--to/--step range.
func inputs[T any](k parametrizer.Kind[T], o *options) ([]T, error) {
	var r []T
	for _, s := range o.at {
		x, err := k.Parse(strings.TrimSpace(s))
		if err != nil {
			return nil, fmt.Errorf("--at %q: %w", s, err)
		}
		r = append(r, x)
	}
	if o.from == "" && o.to == "" {
		if len(r) == 0 {
			return nil, errors.New("no inputs; use --at or --from and --to")
		}
		return r, nil
	}
	var lo, hi, step T
	for _, v := range []struct {
		name string
		s    string
		x    *T
	}{{"from", o.from, &lo}, {"to", o.to, &hi}, {"step", o.step, &step}} {
		x, err := k.Parse(strings.TrimSpace(v.s))
		if err != nil {
			return nil, fmt.Errorf("--%s %q: %w", v.name, v.s, err)
		}
		*v.x = x
	}
	if k.Cmp(lo, lo) != 0 || k.Cmp(hi, hi) != 0 {
		return nil, fmt.Errorf("range from %s to %s is unordered", o.from, o.to)
	}
	if k.Cmp(step, k.Zero()) <= 0 {
		return nil, fmt.Errorf("--step %s must be positive", o.step)
	}
	for x := lo; k.Cmp(x, hi) <= 0; x = k.Add(x, step) {
		if len(r) >= maxRange {
			return nil, fmt.Errorf("range from %s to %s by %s has more than %d inputs", o.from, o.to, o.step, maxRange)
		}
		r = append(r, x)
	}
	return r, nil
}
