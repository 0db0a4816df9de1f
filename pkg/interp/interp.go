// Package interp ties the reader, the resolver, the rewrite engine and the
// printer together.
package interp

import (
	"context"
	"io"

	"src.rho.sh/pkg/logutil"
	"src.rho.sh/pkg/parse"
	"src.rho.sh/pkg/pprint"
	"src.rho.sh/pkg/resolve"
	"src.rho.sh/pkg/rewrite"
	"src.rho.sh/pkg/term"
)

var logger = logutil.GetLogger("[interp] ")

// Options controls evaluation.
type Options struct {
	// Give up after this many steps; 0 means no limit.
	MaxSteps int
	// Log every step.
	Trace bool
	// Destination of parse warnings. If nil, warnings are suppressed.
	WarningWriter io.Writer
}

// Result is the outcome of evaluating a source.
type Result struct {
	Program *term.Program
	// The term reached when evaluation stopped.
	Term  term.Term
	Steps int
}

// String returns the surface syntax of the result term.
func (r *Result) String() string {
	return pprint.String(r.Term, r.Program)
}

// Compile reads and resolves a source. The error, if not nil, is a *parse.Error
// or a *resolve.Error.
func Compile(src parse.Source, opts Options) (*term.Program, error) {
	tree, err := parse.Parse(src, parse.Config{WarningWriter: opts.WarningWriter})
	if err != nil {
		return nil, err
	}
	return resolve.Resolve(tree)
}

// Eval compiles a source and rewrites it until a fixpoint. If rewriting stops
// early because of the step limit or ctx, the partial Result is returned
// along with rewrite.ErrStepLimit or the context's error.
func Eval(ctx context.Context, src parse.Source, opts Options) (*Result, error) {
	p, err := Compile(src, opts)
	if err != nil {
		return nil, err
	}
	logger.Printf("%s: %d constants, %d patterns", src.Name, p.Constants.Len(), len(p.Patterns))

	e := rewrite.New(p.Patterns)
	if opts.Trace {
		e.OnStep = func(step int, t term.Term) {
			logger.Printf("step %d: %s", step, pprint.String(t, p))
		}
	}
	t := p.Root
	steps, err := e.Normalize(ctx, &t, opts.MaxSteps)
	return &Result{p, t, steps}, err
}
