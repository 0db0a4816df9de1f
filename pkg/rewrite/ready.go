package rewrite

import (
	"github.com/samber/lo"
	"src.rho.sh/pkg/term"
)

// Reports whether t is in the restricted weak normal form a match may be
// attempted against: a variable, an abstraction, a constant, or an
// application of a constant to ready arguments. A Stuck constant counts only
// when stuckOK is set.
func isReady(t term.Term, stuckOK bool) bool {
	switch t := t.(type) {
	case *term.Var, *term.Abs:
		return true
	case *term.Const:
		return stuckOK || t.Index != term.StuckIndex
	case *term.App:
		var head bool
		switch f := t.Func.(type) {
		case *term.Const:
			head = true
		case *term.App:
			head = isReady(f, stuckOK)
		}
		return head && lo.EveryBy(t.Args, func(a term.Term) bool { return isReady(a, stuckOK) })
	}
	return false
}

// Reports whether every member of c, looking through nested choices, is ready
// and not Stuck.
func isReadyChoice(c *term.Choice) bool {
	return lo.EveryBy(c.Alts, func(t term.Term) bool {
		if c, ok := t.(*term.Choice); ok {
			return isReadyChoice(c)
		}
		return isReady(t, false)
	})
}
