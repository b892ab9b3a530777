package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var logLevels = []string{"trace", "debug", "info", "warn", "warning", "error", "fatal", "panic"}

// options holds everything the command line and config file control.
type options struct {
	kind     string
	prec     uint
	at       []string
	from     string
	to       string
	step     string
	quick    bool
	funcs    []string
	bigFuncs bool
	seed     uint64
	seeded   bool
	workers  int
	format   string
	echo     bool
	config   string
	logLevel string
}

func newRootCommand() *cobra.Command {
	o := &options{}
	cmd := &cobra.Command{
		Use:   "parametrize [options] EXPR",
		Short: "Evaluate a parametric expression of t at many inputs",
		Long: `Compile EXPR once and evaluate it at each input given by --at and by the
--from/--to/--step range. EXPR may be "-" to read it from standard input.`,
		Args:                  cobra.ExactArgs(1),
		SilenceUsage:          true,
		SilenceErrors:         true,
		DisableFlagsInUseLine: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.setup(cmd.Flags())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			text := args[0]
			if text == "-" {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading expression: %w", err)
				}
				text = strings.TrimSpace(string(b))
			}
			return evaluate(cmd.Context(), o, text, cmd.OutOrStdout())
		},
	}
	rootFlags(cmd.Flags(), o)
	return cmd
}

func rootFlags(fs *pflag.FlagSet, o *options) {
	fs.StringVar(&o.kind, "kind", "float64", "numeric type of the expression ("+strings.Join(kindNames, ", ")+")")
	fs.UintVar(&o.prec, "prec", 64, "precision in bits for --kind big")
	fs.StringArrayVar(&o.at, "at", nil, "input to evaluate at (any number of times)")
	fs.StringVar(&o.from, "from", "", "first input of a range")
	fs.StringVar(&o.to, "to", "", "last input of a range, inclusive")
	fs.StringVar(&o.step, "step", "1", "distance between inputs of a range")
	fs.BoolVar(&o.quick, "quick", false, "compile without normalizing the expression or adding sin and cos")
	fs.StringArrayVar(&o.funcs, "func", nil, "name=expr function of t usable in EXPR (any number of times)")
	fs.BoolVar(&o.bigFuncs, "big-funcs", false, "add exp, ln, log, and sqrt")
	fs.Uint64Var(&o.seed, "seed", 0, "seed for random terms (default nondeterministic)")
	fs.IntVar(&o.workers, "workers", runtime.NumCPU(), "number of inputs to evaluate concurrently")
	fs.StringVar(&o.format, "format", "table", "output format ("+strings.Join(formats, ", ")+")")
	fs.BoolVar(&o.echo, "echo", false, "print the compiled term tree")
	fs.StringVar(&o.config, "config", "", "TOML file of default option values")
	fs.StringVar(&o.logLevel, "log-level", "warn", "log messages above specified level ("+strings.Join(logLevels, ", ")+")")
}

// setup loads the config file and applies the logging and validation that
// depend on the final option values.
func (o *options) setup(fs *pflag.FlagSet) error {
	if o.config != "" {
		if err := loadConfig(fs, o.config); err != nil {
			return err
		}
	}
	if err := setLogLevel(o.logLevel); err != nil {
		return err
	}
	o.seeded = fs.Changed("seed")
	if !slices.Contains(kindNames, o.kind) {
		return fmt.Errorf("unknown kind %q, choose from: %s", o.kind, strings.Join(kindNames, ", "))
	}
	if !slices.Contains(formats, o.format) {
		return fmt.Errorf("unknown format %q, choose from: %s", o.format, strings.Join(formats, ", "))
	}
	if o.workers < 1 {
		return fmt.Errorf("--workers (%d) must be positive", o.workers)
	}
	logrus.Debugf("options: %+v", *o)
	return nil
}

func setLogLevel(s string) error {
	found := false
	for _, l := range logLevels {
		if l == strings.ToLower(s) {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("log level %q is not supported, choose from: %s", s, strings.Join(logLevels, ", "))
	}
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	return nil
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
