// Package pprint renders terms and patterns back to surface syntax.
//
// The output reads back to the same tree for every tree the reader can
// produce. Variables lose their source names: a variable is printed as x<n>,
// where n is the nesting level of the binder slot it refers to, counting
// from the outermost slot. Free variables are printed as y<n>. The Stuck
// sentinel is printed as its reserved name, which the reader cannot read.
package pprint

import (
	"io"
	"strconv"
	"strings"

	"src.rho.sh/pkg/term"
)

// Term writes the surface syntax of t to w. Tables are taken from p.
func Term(w io.Writer, t term.Term, p *term.Program) error {
	_, err := io.WriteString(w, String(t, p))
	return err
}

// String returns the surface syntax of t.
func String(t term.Term, p *term.Program) string {
	pp := &printer{prog: p}
	pp.term(t)
	return pp.sb.String()
}

// Pattern returns the surface syntax of the pattern with the given index,
// with its first capture named after level base.
func Pattern(index, base int, p *term.Program) string {
	pp := &printer{prog: p}
	pp.pattern(p.Patterns[index], base)
	return pp.sb.String()
}

type printer struct {
	prog      *term.Program
	sb        strings.Builder
	depth     int
	needSpace bool
}

func (pp *printer) ident(s string) {
	if pp.needSpace {
		pp.sb.WriteByte(' ')
	}
	pp.sb.WriteString(s)
	pp.needSpace = true
}

func (pp *printer) punct(c byte, n int) {
	if n == 0 {
		return
	}
	if pp.needSpace {
		pp.sb.WriteByte(' ')
	}
	for i := 0; i < n; i++ {
		pp.sb.WriteByte(c)
	}
	pp.needSpace = false
}

func (pp *printer) term(t term.Term) {
	switch t := t.(type) {
	case *term.Var:
		if level := pp.depth - 1 - t.Index; level >= 0 {
			pp.ident("x" + strconv.Itoa(level))
		} else {
			pp.ident("y" + strconv.Itoa(-level-1))
		}
	case *term.Const:
		pp.ident(pp.prog.Constants.Name(t.Index))
	case *term.Abs:
		pp.punct('\\', 1)
		pp.pattern(pp.prog.Patterns[t.Pattern], pp.depth)
		pp.depth += t.Arity
		pp.term(t.Body)
		pp.depth -= t.Arity
	case *term.App:
		// The reader prepends each further argument, so the last argument
		// comes first in the source.
		pp.punct('`', len(t.Args))
		pp.term(t.Func)
		for i := len(t.Args) - 1; i >= 0; i-- {
			pp.term(t.Args[i])
		}
	case *term.Choice:
		pp.punct('|', len(t.Alts)-1)
		for _, alt := range t.Alts {
			pp.term(alt)
		}
	}
}

func (pp *printer) pattern(p term.Pattern, base int) {
	switch p := p.(type) {
	case term.PVar:
		pp.ident("x" + strconv.Itoa(base))
	case term.PConst:
		pp.ident(pp.prog.Constants.Name(p.Index))
	case *term.PApp:
		bases := make([]int, len(p.Args))
		for i, arg := range p.Args {
			bases[i] = base
			base += term.Arity(arg)
		}
		pp.punct('`', len(p.Args))
		pp.ident(pp.prog.Constants.Name(p.Head))
		for i := len(p.Args) - 1; i >= 0; i-- {
			pp.pattern(p.Args[i], bases[i])
		}
	}
}
