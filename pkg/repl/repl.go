// Package repl implements the interactive mode, which reads one program per
// line, rewrites it and prints the result.
package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"src.rho.sh/pkg/config"
	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/interp"
	"src.rho.sh/pkg/logutil"
	"src.rho.sh/pkg/parse"
	"src.rho.sh/pkg/prog"
	"src.rho.sh/pkg/rewrite"
	"src.rho.sh/pkg/store"
	"src.rho.sh/pkg/sys"
)

var logger = logutil.GetLogger("[repl] ")

// Number of history entries loaded into the line editor.
const historyLoadSize = 1000

// Program is the interactive subprogram.
type Program struct {
	// Options returns evaluation options. If nil, options come from the
	// configuration alone.
	Options func() interp.Options

	run bool
	db  string
	cfg *config.Config
}

func (p *Program) RegisterFlags(fs *prog.FlagSet) {
	fs.BoolVar(&p.run, "repl", false, "Run the interactive mode instead of a file")
	fs.StringVar(&p.db, "db", "", "Path to the history database of the interactive mode")
	p.cfg = fs.Config()
}

func (p *Program) Run(fds [3]*os.File, args []string) error {
	if !p.run {
		return prog.ErrNextProgram
	}
	if len(args) > 0 {
		return prog.BadUsage("arguments are not allowed in the interactive mode")
	}

	var st store.Store
	if dbPath := p.db; dbPath != "" || p.cfg.HistoryDB != "" {
		if dbPath == "" {
			dbPath = p.cfg.HistoryDB
		}
		var err error
		st, err = store.NewStore(dbPath)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot open history database:", err)
			fmt.Fprintln(fds[2], "Continuing without history.")
		} else {
			defer st.Close()
		}
	}

	var r lineReader
	if sys.IsATTY(fds[0].Fd()) && sys.IsATTY(fds[1].Fd()) {
		r = newLinerReader(loadHistory(st))
	} else {
		r = newPlainReader(fds[0])
	}
	defer r.Close()

	opts := p.options()
	opts.WarningWriter = fds[2]
	for i := 1; ; i++ {
		line, err := r.ReadLine("rho> ")
		if err == io.EOF {
			return nil
		} else if err == errInterrupted {
			continue
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		r.AddHistory(line)
		// Lines are named after their history sequence number when there
		// is a history, and after the line count otherwise.
		seq := i
		if st != nil {
			if n, err := st.AddCmd(line); err != nil {
				logger.Println("cannot add to history:", err)
			} else {
				seq = n
			}
		}
		src := parse.Source{Name: fmt.Sprintf("[repl %d]", seq), Code: line}
		evalLine(fds, src, opts)
	}
}

func (p *Program) options() interp.Options {
	if p.Options != nil {
		return p.Options()
	}
	return interp.Options{MaxSteps: p.cfg.MaxSteps, Trace: p.cfg.Trace}
}

// Evaluates one line. An interrupt stops the rewriting of the line, not the
// interactive mode.
func evalLine(fds [3]*os.File, src parse.Source, opts interp.Options) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := interp.Eval(ctx, src, opts)
	switch {
	case errors.Is(err, rewrite.ErrStepLimit):
		fmt.Fprintf(fds[2], "gave up after %d steps\n", res.Steps)
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(fds[2], "interrupted after %d steps\n", res.Steps)
	case err != nil:
		diag.ShowError(fds[2], err)
	default:
		fmt.Fprintln(fds[1], res.String())
	}
}

func loadHistory(st store.Store) []string {
	if st == nil {
		return nil
	}
	next, err := st.NextCmdSeq()
	if err != nil {
		logger.Println("cannot load history:", err)
		return nil
	}
	from := next - historyLoadSize
	if from < 1 {
		from = 1
	}
	cmds, err := st.Cmds(from, next)
	if err != nil {
		logger.Println("cannot load history:", err)
		return nil
	}
	lines := make([]string, len(cmds))
	for i, cmd := range cmds {
		lines[i] = cmd.Text
	}
	return lines
}
