// Package term defines the scope-resolved representation that the rewrite
// engine operates on: terms with de Bruijn variables, compiled patterns, and
// the table of interned constants.
package term

// Term is a node in a term tree. It is one of *Var, *Const, *Abs, *App and
// *Choice.
//
// A term tree has a single owner. Nodes are mutated in place by the rewrite
// engine, so a node must never be reachable from two places in a live tree;
// use Clone when the same subterm is needed twice.
type Term interface{ isTerm() }

// Var is a de Bruijn reference, counting binder slots outward from the
// reference; 0 is the nearest slot.
type Var struct{ Index int }

// Const is a reference into the constant table. Index StuckIndex denotes the
// Stuck sentinel.
type Const struct{ Index int }

// Abs binds Arity slots, filled by a successful match against the pattern
// stored at index Pattern of the pattern table.
type Abs struct {
	Pattern int
	Arity   int
	Body    Term
}

// App applies Func to Args in order; Args[0] is consumed first. It always has
// at least one argument.
type App struct {
	Func Term
	Args []Term
}

// Choice is an ordered set of alternatives. The engine never leaves an empty
// Choice in a tree.
type Choice struct{ Alts []Term }

func (*Var) isTerm()    {}
func (*Const) isTerm()  {}
func (*Abs) isTerm()    {}
func (*App) isTerm()    {}
func (*Choice) isTerm() {}

// StuckIndex is the constant index reserved for the Stuck sentinel.
const StuckIndex = 0

// Stuck returns a new Stuck sentinel. It marks a subterm that had no
// applicable rewrite.
func Stuck() Term { return &Const{StuckIndex} }

// IsStuck reports whether t is the Stuck sentinel.
func IsStuck(t Term) bool {
	c, ok := t.(*Const)
	return ok && c.Index == StuckIndex
}

// Clone returns a deep copy of t.
func Clone(t Term) Term {
	return Promote(0, 0, t)
}

// Equal reports whether two terms are structurally identical.
func Equal(a, b Term) bool {
	switch a := a.(type) {
	case *Var:
		b, ok := b.(*Var)
		return ok && a.Index == b.Index
	case *Const:
		b, ok := b.(*Const)
		return ok && a.Index == b.Index
	case *Abs:
		b, ok := b.(*Abs)
		return ok && a.Pattern == b.Pattern && a.Arity == b.Arity && Equal(a.Body, b.Body)
	case *App:
		b, ok := b.(*App)
		return ok && Equal(a.Func, b.Func) && equalAll(a.Args, b.Args)
	case *Choice:
		b, ok := b.(*Choice)
		return ok && equalAll(a.Alts, b.Alts)
	}
	return false
}

func equalAll(as, bs []Term) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}

// Program is the result of resolving a parsed source: the root term together
// with the tables it refers to. The tables are read-only once built.
type Program struct {
	Root      Term
	Patterns  []Pattern
	Constants *Constants
}
