package parse

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/exp/slices"
	"src.rho.sh/pkg/diag"
)

// ErrorType is the Type of all *Error values returned by Parse.
const ErrorType = "parse error"

// Error is a parse error.
type Error = diag.Error

// UnpackErrors returns the parse errors contained in err.
func UnpackErrors(err error) []*Error {
	return diag.UnpackErrors(err, ErrorType)
}

// Errors.
var (
	errUnexpectedEOF = errors.New("unexpected end of input")
	errPatternHead   = errors.New("patterns only support applications to constants")
)

// parser maintains the mutable state of parsing.
type parser struct {
	src      Source
	pos      int
	patterns []Pattern
	warn     io.Writer
}

// Unwinds the parser on the first error. The grammar has no point to
// resynchronize at.
type bailout struct{ err *Error }

func (ps *parser) parse() (root Term, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			err = b.err
		}
	}()
	root = ps.term()
	ps.done()
	return root, nil
}

// Warns about unread input that would have parsed as something.
func (ps *parser) done() {
	for i := ps.pos; i < len(ps.src.Code); i++ {
		if startsTerm(ps.src.Code[i]) {
			if ps.warn != nil {
				ctx := diag.NewContext(ps.src.Name, ps.src.Code, diag.Ranging{From: i, To: len(ps.src.Code)})
				fmt.Fprintf(ps.warn, "warning: %s: input after the first term is ignored\n", ctx.Describe())
			}
			return
		}
	}
}

func (ps *parser) fail(r diag.Ranger, e error) {
	panic(bailout{&Error{
		Type:    ErrorType,
		Message: e.Error(),
		Context: *diag.NewContext(ps.src.Name, ps.src.Code, r),
	}})
}

// Skips to the next byte that can start a production and consumes it. It
// fails at end of input.
func (ps *parser) next() (int, byte) {
	for ps.pos < len(ps.src.Code) {
		b := ps.src.Code[ps.pos]
		ps.pos++
		if startsTerm(b) {
			return ps.pos - 1, b
		}
	}
	ps.fail(diag.PointRanging(ps.pos), errUnexpectedEOF)
	panic("unreachable")
}

func (ps *parser) term() Term {
	begin, b := ps.next()
	switch {
	case b == '`':
		left := ps.term()
		right := ps.term()
		if app, ok := left.(*App); ok {
			app.Args = slices.Insert(app.Args, 0, right)
			app.Ranging = diag.Ranging{From: begin, To: ps.pos}
			return app
		}
		return &App{diag.Ranging{From: begin, To: ps.pos}, left, []Term{right}}
	case b == '\\':
		// Reserve the slot before reading the pattern, so that slots are
		// numbered in order of appearance.
		slot := len(ps.patterns)
		ps.patterns = append(ps.patterns, nil)
		arity, p := ps.pattern()
		ps.patterns[slot] = p
		body := ps.term()
		return &Abs{diag.Ranging{From: begin, To: ps.pos}, slot, arity, body}
	case b == '|':
		left := ps.term()
		right := ps.term()
		if c, ok := left.(*Choice); ok {
			c.Alts = append(c.Alts, right)
			c.Ranging = diag.Ranging{From: begin, To: ps.pos}
			return c
		}
		return &Choice{diag.Ranging{From: begin, To: ps.pos}, []Term{left, right}}
	case isUpper(b):
		name := ps.ident(begin)
		return &Const{diag.Ranging{From: begin, To: ps.pos}, name}
	default:
		name := ps.ident(begin)
		return &Var{diag.Ranging{From: begin, To: ps.pos}, name}
	}
}

// Parses a pattern, returning its arity along with it.
func (ps *parser) pattern() (int, Pattern) {
	begin, b := ps.next()
	switch {
	case b == '`':
		leftArity, left := ps.pattern()
		switch l := left.(type) {
		case *PApp:
			rightArity, right := ps.pattern()
			l.Args = slices.Insert(l.Args, 0, right)
			l.Ranging = diag.Ranging{From: begin, To: ps.pos}
			return leftArity + rightArity, l
		case *PConst:
			rightArity, right := ps.pattern()
			return rightArity, &PApp{diag.Ranging{From: begin, To: ps.pos}, l, []Pattern{right}}
		}
		ps.fail(left, errPatternHead)
		panic("unreachable")
	case b == '\\' || b == '|':
		// Only term productions; skipped like any other byte.
		return ps.pattern()
	case isUpper(b):
		name := ps.ident(begin)
		return 0, &PConst{diag.Ranging{From: begin, To: ps.pos}, name}
	default:
		name := ps.ident(begin)
		return 1, &PVar{diag.Ranging{From: begin, To: ps.pos}, name}
	}
}

// Reads the rest of an identifier whose first byte is at begin.
func (ps *parser) ident(begin int) string {
	for ps.pos < len(ps.src.Code) && isAlnum(ps.src.Code[ps.pos]) {
		ps.pos++
	}
	return ps.src.Code[begin:ps.pos]
}

func startsTerm(b byte) bool {
	return b == '`' || b == '\\' || b == '|' || isUpper(b) || isLower(b)
}

func isUpper(b byte) bool { return 'A' <= b && b <= 'Z' }
func isLower(b byte) bool { return 'a' <= b && b <= 'z' }
func isAlnum(b byte) bool { return isUpper(b) || isLower(b) || ('0' <= b && b <= '9') }
