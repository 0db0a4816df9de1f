package term

import "github.com/samber/lo"

// Promote returns a copy of t in which every free variable with an index of
// at least threshold is increased by inc. The threshold grows by the arity of
// each abstraction crossed, so only references to binders outside t are
// affected.
func Promote(threshold, inc int, t Term) Term {
	promote := func(t Term, _ int) Term { return Promote(threshold, inc, t) }
	switch t := t.(type) {
	case *Var:
		if t.Index >= threshold {
			return &Var{t.Index + inc}
		}
		return &Var{t.Index}
	case *Const:
		return &Const{t.Index}
	case *Abs:
		return &Abs{t.Pattern, t.Arity, Promote(threshold+t.Arity, inc, t.Body)}
	case *App:
		return &App{Promote(threshold, inc, t.Func), lo.Map(t.Args, promote)}
	case *Choice:
		return &Choice{lo.Map(t.Alts, promote)}
	}
	panic("unreachable")
}

// Compact decreases every free variable index of at least threshold in t by
// dec, in place.
func Compact(threshold, dec int, t Term) {
	switch t := t.(type) {
	case *Var:
		if t.Index >= threshold {
			t.Index -= dec
		}
	case *Abs:
		Compact(threshold+t.Arity, dec, t.Body)
	case *App:
		Compact(threshold, dec, t.Func)
		for _, arg := range t.Args {
			Compact(threshold, dec, arg)
		}
	case *Choice:
		for _, alt := range t.Alts {
			Compact(threshold, dec, alt)
		}
	}
}

// Substitute replaces, in the term stored at *slot, every variable bound by
// the len(captures) slots starting depth binders out with the corresponding
// capture. Index depth refers to the last capture, matching the order in
// which the resolver pushes pattern variables. Each inserted capture is a
// fresh copy promoted past the depth+len(captures) binders it is moved under.
//
// Substitute leaves the consumed slots in the index space; callers remove them
// with Compact.
func Substitute(depth int, slot *Term, captures []Term) {
	n := len(captures)
	switch t := (*slot).(type) {
	case *Var:
		if t.Index >= depth && t.Index < depth+n {
			*slot = Promote(0, depth+n, captures[n-1-(t.Index-depth)])
		}
	case *Abs:
		Substitute(depth+t.Arity, &t.Body, captures)
	case *App:
		Substitute(depth, &t.Func, captures)
		for i := range t.Args {
			Substitute(depth, &t.Args[i], captures)
		}
	case *Choice:
		for i := range t.Alts {
			Substitute(depth, &t.Alts[i], captures)
		}
	}
}
