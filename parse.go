package parametrizer

import (
	"strings"
	"unicode"
)

// Top = Piecewise | Expr
// Piecewise = 'p' [ '[' num ']' ] Part { '|' Part }
// Part = Expr '>' num
// Expr = 't' | num | '(' Expr ')' | '+' Expr | Sum | Product | Fraction | Neg | Random | Call | Computed
// Sum = Expr '+' Expr { '+' Expr }
// Product = Expr '*' Expr { '*' Expr }
// Fraction = Expr '/' Expr
// Neg = '-' Expr
// Random = 'rd(' Expr '<' Expr ')'
// Call = shorthand Expr ')'
// Computed = 'rc(' num '<' num ')'
//
// Operators are found by splitting on the lowest-binding one first, only
// outside parentheses: +, then *, then /. The text reaching the compiler has
// no whitespace, and subtraction has already become addition of a negation.

// Compile normalizes text and compiles it into an expression of kind k. The
// function table starts with sin and cos; see DisableDefaultFuncs.
//
// Normalization lowercases the text, removes whitespace, replaces \ and ÷
// with / and × with *, and rewrites every - as +- so that subtraction is
// addition of a negated term.
func Compile[T any](k Kind[T], text string, opts ...Option) (*Expr[T], error) {
	return compile(k, Normalize(text), defaultfuncs, opts)
}

// CompileQuick compiles text without normalizing it. The text must already be
// lowercase with no whitespace and only / for division; a - is accepted only
// where a negation may start a term. The function table starts empty.
func CompileQuick[T any](k Kind[T], text string, opts ...Option) (*Expr[T], error) {
	return compile(k, text, nil, opts)
}

// CompileWith normalizes text and compiles it using only the functions fns,
// without sin and cos.
func CompileWith[T any](k Kind[T], text string, fns []Func, opts ...Option) (*Expr[T], error) {
	opts = append([]Option{ParseFuncs(fns...)}, opts...)
	return compile(k, Normalize(text), nil, opts)
}

func compile[T any](k Kind[T], text string, defs []Func, opts []Option) (*Expr[T], error) {
	p := newconfig(defs, opts)
	c := compiler[T]{k: k, p: &p}
	root, err := c.top(text)
	if err != nil {
		return nil, err
	}
	return &Expr[T]{root: root, kind: k, src: p.src, text: text}, nil
}

// Normalize rewrites text into the form CompileQuick expects.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text) + 8)
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r):
			// drop
		case r == '\\', r == '÷':
			b.WriteByte('/')
		case r == '×':
			b.WriteByte('*')
		case r == '-':
			b.WriteString("+-")
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

type compiler[T any] struct {
	k Kind[T]
	p *config
}

// top parses the outermost text, which is the only place a piecewise term
// may appear. A function whose shorthand begins with p takes precedence, and
// text without any > cannot be piecewise, so an unknown function like
// poly(t) reports that it matched nothing.
func (c *compiler[T]) top(s string) (*Term[T], error) {
	if _, ok := c.lookup(s); !ok && strings.HasPrefix(s, "p") && strings.Contains(s, ">") {
		return c.piecewise(s)
	}
	return c.parse(s, 0)
}

// parse compiles s by the first rule that matches it.
func (c *compiler[T]) parse(s string, depth int) (*Term[T], error) {
	if depth >= c.p.depth {
		return nil, fail(s, ErrTooDeep)
	}
	depth++
	if s == "t" {
		return Variable[T](), nil
	}
	if v, err := c.k.Parse(s); err == nil {
		return Constant(v), nil
	}
	// This does not check that the parentheses match each other, so
	// (1+2)*(3+4) strips to 1+2)*(3+4 and fails to split, however many pairs
	// wrap it. An operand outside the groups, as in (1+2)*(3+4)*1, makes the
	// split happen first.
	if len(s) >= 2 && s[0] == '(' && s[len(s)-1] == ')' {
		return c.parse(s[1:len(s)-1], depth)
	}
	if strings.HasPrefix(s, "+") {
		return c.parse(s[1:], depth)
	}
	if n, err := c.sequence(s, '+', Add, depth); n != nil || err != nil {
		return n, err
	}
	if n, err := c.sequence(s, '*', Multiply, depth); n != nil || err != nil {
		return n, err
	}
	if n, err := c.fraction(s, depth); n != nil || err != nil {
		return n, err
	}
	if strings.HasPrefix(s, "-") {
		n, err := c.parse(s[1:], depth)
		if err != nil {
			return nil, err
		}
		return Negate(c.k, n), nil
	}
	if in, ok := call(s, "rd("); ok {
		lo, hi, err := bounds(s, in)
		if err != nil {
			return nil, err
		}
		l, err := c.parse(lo, depth)
		if err != nil {
			return nil, err
		}
		h, err := c.parse(hi, depth)
		if err != nil {
			return nil, err
		}
		return Random(l, h), nil
	}
	if f, ok := c.lookup(s); ok {
		if in, ok := call(s, f.shorthand); ok {
			n, err := c.parse(in, depth)
			if err != nil {
				return nil, err
			}
			return Apply(f, n), nil
		}
	}
	if in, ok := call(s, "rc("); ok {
		return c.computed(s, in)
	}
	return nil, fail(s, ErrNoMatch)
}

// sequence parses s as operands joined by sep. The result is nil with no
// error if sep does not separate s at the top level.
func (c *compiler[T]) sequence(s string, sep byte, op Op, depth int) (*Term[T], error) {
	if strings.IndexByte(s, sep) < 0 {
		return nil, nil
	}
	v, err := split(s, sep, '(', ')')
	if err != nil {
		return nil, err
	}
	if len(v) < 2 {
		return nil, nil
	}
	terms := make([]*Term[T], len(v))
	for i, x := range v {
		terms[i], err = c.parse(x, depth)
		if err != nil {
			return nil, err
		}
	}
	return Sequence(op, terms...), nil
}

// fraction parses s as a numerator and denominator. The result is nil with
// no error if there is no top-level /.
func (c *compiler[T]) fraction(s string, depth int) (*Term[T], error) {
	if strings.IndexByte(s, '/') < 0 {
		return nil, nil
	}
	v, err := split(s, '/', '(', ')')
	if err != nil {
		return nil, err
	}
	switch len(v) {
	case 1:
		return nil, nil
	case 2:
		// do nothing
	default:
		return nil, fail(s, ErrAmbiguousDivision)
	}
	num, err := c.parse(v[0], depth)
	if err != nil {
		return nil, err
	}
	den, err := c.parse(v[1], depth)
	if err != nil {
		return nil, err
	}
	return Fraction(num, den), nil
}

// computed samples a random value once from literal bounds.
func (c *compiler[T]) computed(s, in string) (*Term[T], error) {
	lo, hi, err := bounds(s, in)
	if err != nil {
		return nil, err
	}
	l, err := c.literal(lo)
	if err != nil {
		return nil, err
	}
	h, err := c.literal(hi)
	if err != nil {
		return nil, err
	}
	v, err := randomBetween(c.k, c.p.src, l, h)
	if err != nil {
		return nil, fail(s, err)
	}
	return Constant(v), nil
}

// piecewise parses a piecewise term, with or without a loop clause.
func (c *compiler[T]) piecewise(s string) (*Term[T], error) {
	body := s[1:]
	var cycle T
	loop := false
	if strings.HasPrefix(body, "[") {
		end := strings.IndexByte(body, ']')
		if end < 0 {
			return nil, fail(s, ErrPiecewiseClause)
		}
		v, err := c.literal(body[1:end])
		if err != nil {
			return nil, err
		}
		if c.k.Cmp(v, c.k.Zero()) <= 0 {
			return nil, fail(body[1:end], ErrCycle)
		}
		cycle, loop = v, true
		body = body[end+1:]
	}
	segs, err := split(body, '|', '(', ')')
	if err != nil {
		return nil, err
	}
	parts := make([]Part[T], len(segs))
	for i, seg := range segs {
		v, err := split(seg, '>', '(', ')')
		if err != nil {
			return nil, err
		}
		if len(v) != 2 {
			return nil, fail(seg, ErrPiecewiseClause)
		}
		n, err := c.parse(v[0], 1)
		if err != nil {
			return nil, err
		}
		after, err := c.literal(v[1])
		if err != nil {
			return nil, err
		}
		parts[i] = Part[T]{Term: n, After: after}
	}
	if loop {
		return Looping(cycle, parts...), nil
	}
	return Piecewise(parts...), nil
}

// literal parses s as a bare number. A leading +- left by normalization is a
// minus sign.
func (c *compiler[T]) literal(s string) (T, error) {
	t := s
	if strings.HasPrefix(t, "+-") {
		t = t[1:]
	}
	v, err := c.k.Parse(t)
	if err != nil {
		var zero T
		return zero, fail(s, ErrLiteral)
	}
	return v, nil
}

// lookup finds the first function whose shorthand begins s.
func (c *compiler[T]) lookup(s string) (Func, bool) {
	for _, f := range c.p.funcs {
		if f.shorthand != "(" && f.shorthand != "" && strings.HasPrefix(s, f.shorthand) {
			return f, true
		}
	}
	return Func{}, false
}

// call returns the text between prefix and a final ) in s.
func call(s, prefix string) (string, bool) {
	if len(s) < len(prefix)+1 || !strings.HasPrefix(s, prefix) || s[len(s)-1] != ')' {
		return "", false
	}
	return s[len(prefix) : len(s)-1], true
}

// bounds splits the inside of a random clause into its lower and upper text.
func bounds(s, in string) (string, string, error) {
	v, err := split(in, '<', '(', ')')
	if err != nil {
		return "", "", err
	}
	if len(v) != 2 {
		return "", "", fail(s, ErrRandomClause)
	}
	return v[0], v[1], nil
}
