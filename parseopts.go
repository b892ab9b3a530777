package parametrizer

// Option is an option for compiling expressions.
type Option interface {
	option(*config)
}

// config holds the settings for one compilation.
type config struct {
	// funcs is the ordered function table. The first function whose
	// shorthand prefixes the text wins.
	funcs []Func
	// ndef is the number of default functions at the start of funcs.
	ndef int
	// src is the source for random terms.
	src Source
	// depth is the maximum nesting depth of the parse.
	depth int
}

// DefaultMaxDepth is the nesting depth allowed when no MaxDepth option is
// given.
const DefaultMaxDepth = 256

// newconfig applies opts to a config whose function table starts with defs.
func newconfig(defs []Func, opts []Option) config {
	p := config{
		funcs: append([]Func(nil), defs...),
		ndef:  len(defs),
		src:   globalSource{},
		depth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt != nil {
			opt.option(&p)
		}
	}
	return p
}

type (
	funcsopt []Func
	nodefopt struct{}
	srcopt   struct{ src Source }
	depthopt int
)

// ParseFunc adds a float64 function to the function table.
func ParseFunc(identifier string, fn func(float64) float64) Option {
	return funcsopt{NewFunc(identifier, fn)}
}

// ParseFuncs adds functions to the function table, after any functions
// already in it. When two shorthands could both match, the one added first
// wins, so avoid identifiers that are prefixes of each other or that begin
// with p when the expression is piecewise.
func ParseFuncs(fns ...Func) Option {
	return funcsopt(fns)
}

func (o funcsopt) option(p *config) {
	p.funcs = append(p.funcs, o...)
}

// DisableDefaultFuncs removes sin and cos from the function table. Functions
// added by other options are kept.
func DisableDefaultFuncs() Option {
	return nodefopt{}
}

func (nodefopt) option(p *config) {
	p.funcs = p.funcs[p.ndef:]
	p.ndef = 0
}

// RandSource sets the source used by random terms, both for computed
// randoms while compiling and for dynamic randoms during Eval. A nil src
// restores the default, which is safe for concurrent use.
func RandSource(src Source) Option {
	return srcopt{src}
}

func (o srcopt) option(p *config) {
	if o.src == nil {
		p.src = globalSource{}
		return
	}
	p.src = o.src
}

// MaxDepth limits how deeply the compiler recurses, which is proportional to
// how deeply the text nests parentheses. Exceeding it is a ParseError with
// reason ErrTooDeep. A value less than 1 restores DefaultMaxDepth.
func MaxDepth(n int) Option {
	return depthopt(n)
}

func (o depthopt) option(p *config) {
	if o < 1 {
		p.depth = DefaultMaxDepth
		return
	}
	p.depth = int(o)
}
