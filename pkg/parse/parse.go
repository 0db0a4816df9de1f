// Package parse implements the reader for rho source.
//
// The reader turns source bytes into a tree of named terms, along with a
// table of the patterns of all abstractions in order of appearance. Names
// are resolved into indices later, by the resolve package.
//
// Grammar:
//
//	Term    = '`' Term Term | '\' Pattern Term | '|' Term Term
//	        | Upper { Alnum } | Lower { Alnum }
//	Pattern = '`' Pattern Pattern | Upper { Alnum } | Lower { Alnum }
//
// Any byte that cannot start a production where one is expected is skipped,
// including whitespace. Identifiers end at the first non-alphanumeric byte.
package parse

import (
	"io"

	"src.rho.sh/pkg/diag"
)

// Source describes a piece of source code.
type Source struct {
	Name string
	Code string
}

// Config keeps configuration options when parsing.
type Config struct {
	// Destination of warnings. If nil, warnings are suppressed.
	WarningWriter io.Writer
}

// Tree represents a parsed source.
type Tree struct {
	Root Term
	// Patterns of all abstractions, indexed by Abs.Pattern.
	Patterns []Pattern
	Source   Source
}

// Term is a named term node. It is one of *Var, *Const, *Abs, *App and
// *Choice.
type Term interface {
	diag.Ranger
	isTerm()
}

// Var is a variable reference.
type Var struct {
	diag.Ranging
	Name string
}

// Const is a constant.
type Const struct {
	diag.Ranging
	Name string
}

// Abs is an abstraction. Its pattern is stored in the pattern table of the
// Tree.
type Abs struct {
	diag.Ranging
	Pattern int
	Arity   int
	Body    Term
}

// App is an application. Func is applied to Args[0] first.
type App struct {
	diag.Ranging
	Func Term
	Args []Term
}

// Choice is a set of alternatives.
type Choice struct {
	diag.Ranging
	Alts []Term
}

func (*Var) isTerm()    {}
func (*Const) isTerm()  {}
func (*Abs) isTerm()    {}
func (*App) isTerm()    {}
func (*Choice) isTerm() {}

// Pattern is a named pattern node. It is one of *PVar, *PConst and *PApp.
type Pattern interface {
	diag.Ranger
	isPattern()
}

// PVar is a pattern variable, which captures what it matches.
type PVar struct {
	diag.Ranging
	Name string
}

// PConst matches a constant.
type PConst struct {
	diag.Ranging
	Name string
}

// PApp matches an application of the constant Head.
type PApp struct {
	diag.Ranging
	Head *PConst
	Args []Pattern
}

func (*PVar) isPattern()   {}
func (*PConst) isPattern() {}
func (*PApp) isPattern()   {}

// Parse parses the given source. The returned error always has type *Error
// if it is not nil.
func Parse(src Source, cfg Config) (*Tree, error) {
	ps := &parser{src: src, warn: cfg.WarningWriter}
	root, err := ps.parse()
	if err != nil {
		return nil, err
	}
	return &Tree{root, ps.patterns, src}, nil
}
