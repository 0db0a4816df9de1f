// Package rewrite implements the rewrite engine: pattern application, Stuck
// propagation and distribution of application over choices.
package rewrite

import (
	"context"
	"errors"

	"github.com/samber/lo"
	"src.rho.sh/pkg/logutil"
	"src.rho.sh/pkg/term"
)

var logger = logutil.GetLogger("[rewrite] ")

// ErrStepLimit is returned by Normalize when a term has not reached a fixpoint
// within the allowed number of steps.
var ErrStepLimit = errors.New("step limit exceeded")

// Engine rewrites terms that refer to a fixed pattern table.
type Engine struct {
	patterns []term.Pattern
	// If not nil, called after every step that changed the term.
	OnStep func(step int, t term.Term)
}

// New creates an Engine for terms resolved against the given pattern table.
func New(patterns []term.Pattern) *Engine {
	return &Engine{patterns: patterns}
}

// Normalize steps the term at *t until a step reports no change, and returns
// the number of steps that changed the term. If maxSteps is positive and more
// than maxSteps changing steps would be needed, it stops with ErrStepLimit.
// It also stops with the context's error when ctx is done.
func (e *Engine) Normalize(ctx context.Context, t *term.Term, maxSteps int) (int, error) {
	for steps := 0; ; steps++ {
		if err := ctx.Err(); err != nil {
			return steps, err
		}
		if !e.Step(t) {
			logger.Printf("fixpoint after %d steps", steps)
			return steps, nil
		}
		if e.OnStep != nil {
			e.OnStep(steps+1, *t)
		}
		if maxSteps > 0 && steps+1 > maxSteps {
			return steps + 1, ErrStepLimit
		}
	}
}

// Step performs one innermost-first rewrite pass over the term at *slot,
// replacing nodes through slot where needed. It reports whether anything
// changed; once it returns false, it keeps returning false and leaves the
// term untouched.
func (e *Engine) Step(slot *term.Term) bool {
	switch t := (*slot).(type) {
	case *term.Abs:
		// An abstraction only fires when applied.
		return e.Step(&t.Body)
	case *term.App:
		return e.stepApp(slot, t)
	case *term.Choice:
		return e.stepChoice(slot, t)
	}
	return false
}

func (e *Engine) stepChoice(slot *term.Term, c *term.Choice) bool {
	changed := e.stepAll(c.Alts)
	n := len(c.Alts)
	c.Alts = lo.Reject(c.Alts, func(t term.Term, _ int) bool { return term.IsStuck(t) })
	if len(c.Alts) == 0 {
		*slot = term.Stuck()
		return true
	}
	return changed || len(c.Alts) != n
}

func (e *Engine) stepApp(slot *term.Term, app *term.App) bool {
	if len(app.Args) == 0 {
		*slot = app.Func
		return true
	}
	if e.Step(&app.Func) {
		return true
	}
	if inner, ok := app.Func.(*term.App); ok {
		inner.Args = append(inner.Args, app.Args...)
		*slot = inner
		return true
	}
	if term.IsStuck(app.Func) {
		*slot = term.Stuck()
		return true
	}

	changed := e.stepAll(app.Args)

	if isReady(app.Args[0], true) {
		switch f := app.Func.(type) {
		case *term.Abs:
			e.apply(slot, app, f)
			return true
		case *term.Choice:
			for i, alt := range f.Alts {
				args := app.Args
				if i > 0 {
					args = cloneAll(app.Args)
				}
				f.Alts[i] = &term.App{Func: alt, Args: args}
			}
			*slot = f
			return true
		}
		return changed
	}

	if c, ok := app.Args[0].(*term.Choice); ok && isReadyChoice(c) {
		rest := app.Args[1:]
		for i, alt := range c.Alts {
			f := app.Func
			if i > 0 {
				f = term.Clone(app.Func)
			}
			c.Alts[i] = &term.App{Func: f, Args: append([]term.Term{alt}, cloneAll(rest)...)}
		}
		*slot = c
		return true
	}
	return changed
}

// Applies abs to the first argument of app, which must be ready.
func (e *Engine) apply(slot *term.Term, app *term.App, abs *term.Abs) {
	captures, ok := term.Match(e.patterns[abs.Pattern], app.Args[0])
	if !ok {
		*slot = term.Stuck()
		return
	}
	body := abs.Body
	if n := len(captures); n > 0 {
		term.Substitute(0, &body, captures)
		term.Compact(n, n, body)
	}
	if len(app.Args) == 1 {
		*slot = body
		return
	}
	app.Func, app.Args = body, app.Args[1:]
}

// Steps every term in ts, reporting whether any changed.
func (e *Engine) stepAll(ts []term.Term) bool {
	changed := false
	for i := range ts {
		if e.Step(&ts[i]) {
			changed = true
		}
	}
	return changed
}

func cloneAll(ts []term.Term) []term.Term {
	return lo.Map(ts, func(t term.Term, _ int) term.Term { return term.Clone(t) })
}
