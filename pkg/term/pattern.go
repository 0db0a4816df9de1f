package term

// Pattern is an immutable matcher. It is one of PVar, PConst and *PApp.
type Pattern interface{ isPattern() }

// PVar matches anything and captures the matched term.
type PVar struct{}

// PConst matches exactly the constant with the given index.
type PConst struct{ Index int }

// PApp matches an application whose function is literally the constant Head
// and whose argument list has exactly len(Args) elements, matching pairwise.
type PApp struct {
	Head int
	Args []Pattern
}

func (PVar) isPattern()   {}
func (PConst) isPattern() {}
func (*PApp) isPattern()  {}

// Arity returns the number of captures p makes on a successful match.
func Arity(p Pattern) int {
	switch p := p.(type) {
	case PVar:
		return 1
	case *PApp:
		n := 0
		for _, arg := range p.Args {
			n += Arity(arg)
		}
		return n
	}
	return 0
}

// Match matches p against v. On success it returns the captured subterms in
// pattern order. Captured terms are the subterms of v itself, not copies.
func Match(p Pattern, v Term) ([]Term, bool) {
	var captures []Term
	if !match(p, v, &captures) {
		return nil, false
	}
	return captures, true
}

func match(p Pattern, v Term, captures *[]Term) bool {
	switch p := p.(type) {
	case PVar:
		*captures = append(*captures, v)
		return true
	case PConst:
		c, ok := v.(*Const)
		return ok && c.Index == p.Index
	case *PApp:
		app, ok := v.(*App)
		if !ok || len(app.Args) != len(p.Args) {
			return false
		}
		if head, ok := app.Func.(*Const); !ok || head.Index != p.Head {
			return false
		}
		for i, arg := range p.Args {
			if !match(arg, app.Args[i], captures) {
				return false
			}
		}
		return true
	}
	return false
}
