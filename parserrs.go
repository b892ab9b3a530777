package parametrizer

import (
	"errors"
	"strconv"
)

// Reasons a parse can fail. A *ParseError unwraps to one of these, or to an
// evaluation error raised while sampling a computed random.
var (
	// ErrRightExceedsLeft indicates a close parenthesis with no open one.
	ErrRightExceedsLeft = errors.New("malformed split, right exceeded left")
	// ErrLeftExceedsRight indicates an open parenthesis that is never closed.
	ErrLeftExceedsRight = errors.New("malformed split, left exceeded right")
	// ErrAmbiguousDivision indicates more than one / at one nesting level.
	ErrAmbiguousDivision = errors.New("division is not associative, so chained division is ambiguous")
	// ErrRandomClause indicates rd(...) or rc(...) without exactly one <.
	ErrRandomClause = errors.New("random clause must have the form r?(lower<upper)")
	// ErrPiecewiseClause indicates a piecewise part without exactly one >,
	// or a loop clause without its closing bracket.
	ErrPiecewiseClause = errors.New("piecewise parts must have the form term>threshold")
	// ErrCycle indicates a loop clause whose length is not positive.
	ErrCycle = errors.New("piecewise cycle must be positive")
	// ErrLiteral indicates text that had to be a bare number but was not:
	// a threshold, a loop length, or a computed random bound.
	ErrLiteral = errors.New("expected a numeric literal")
	// ErrNoMatch indicates text that matched no rule of the grammar.
	ErrNoMatch = errors.New("did not match any cases (implicit multiplication like 2t is not supported)")
	// ErrTooDeep indicates nesting deeper than the MaxDepth option allows.
	ErrTooDeep = errors.New("expression nested too deeply")
)

// ParseError is an error describing the text that failed to parse and why.
// It implements InputError.
type ParseError struct {
	// Text is the (sub)string that failed to parse.
	Text string
	// Err is the reason, usually one of the Err variables in this package.
	Err error
}

func (err *ParseError) Error() string {
	return "failed to parse " + strconv.Quote(err.Text) + ": " + err.Err.Error()
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

func (err *ParseError) Input() string {
	return err.Text
}

// InputError is an error caused by the text given to Compile. Every error
// from Compile and CompileQuick implements InputError.
type InputError interface {
	error
	// Input returns the normalized substring that caused the error.
	Input() string
}

var _ InputError = (*ParseError)(nil)

// fail is a shortcut to create a *ParseError.
func fail(text string, reason error) error {
	return &ParseError{Text: text, Err: reason}
}
