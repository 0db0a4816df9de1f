package interp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"src.rho.sh/pkg/config"
	"src.rho.sh/pkg/parse"
	"src.rho.sh/pkg/prog"
	"src.rho.sh/pkg/rewrite"
)

// Program is the subprogram that evaluates a source file. It should be the
// last subprogram in a composite, since it complains when there is no file.
type Program struct {
	maxSteps    int
	trace       bool
	compileOnly bool
	json        *bool
	cfg         *config.Config
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.IntVar(&p.maxSteps, "max-steps", -1,
		"Give up after this many rewrite steps; 0 means no limit (default from config)")
	fs.BoolVar(&p.trace, "trace", false, "Log every rewrite step")
	fs.BoolVar(&p.compileOnly, "compileonly", false, "Parse and resolve, but do not rewrite")
	p.json = fs.JSON()
	p.cfg = fs.Config()
}

// Options returns the evaluation options from flags, falling back to the
// configuration for values not given as flags.
func (p *Program) Options() Options {
	opts := Options{MaxSteps: p.cfg.MaxSteps, Trace: p.trace || p.cfg.Trace}
	if p.maxSteps >= 0 {
		opts.MaxSteps = p.maxSteps
	}
	return opts
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	switch len(args) {
	case 0:
		return prog.BadUsage("missing source file")
	case 1:
	default:
		return prog.BadUsage("too many arguments")
	}
	src, err := ReadSource(args[0])
	if err != nil {
		return err
	}
	opts := p.Options()
	opts.WarningWriter = fds[2]

	if p.compileOnly {
		_, err := Compile(src, opts)
		return err
	}

	res, err := Eval(context.Background(), src, opts)
	if errors.Is(err, rewrite.ErrStepLimit) {
		fmt.Fprintf(fds[2], "%s: gave up after %d steps\n", src.Name, res.Steps)
		return prog.Exit(3)
	} else if err != nil {
		return err
	}

	if *p.json {
		out, err := json.Marshal(struct {
			Result string `json:"result"`
			Steps  int    `json:"steps"`
		}{res.String(), res.Steps})
		if err != nil {
			return err
		}
		fmt.Fprintln(fds[1], string(out))
		return nil
	}
	fmt.Fprintln(fds[1], res.String())
	return nil
}

// ReadSource reads the file at fname, naming the source after its canonical
// path.
func ReadSource(fname string) (parse.Source, error) {
	abs, err := filepath.Abs(fname)
	if err == nil {
		abs, err = filepath.EvalSymlinks(abs)
	}
	if err != nil {
		return parse.Source{}, fmt.Errorf("cannot canonicalize %s: %w", fname, err)
	}
	code, err := os.ReadFile(abs)
	if err != nil {
		return parse.Source{}, fmt.Errorf("cannot read %s: %w", fname, err)
	}
	return parse.Source{Name: abs, Code: string(code)}, nil
}
