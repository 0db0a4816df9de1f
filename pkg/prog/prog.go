// Package prog provides the entry point to rho. Its subpackages correspond to
// subprograms of rho.
package prog

// This package sets up the basic environment and calls the appropriate
// "subprogram": the language server, the interactive mode, or the
// interpreter of a source file.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/pprof"

	"src.rho.sh/pkg/config"
	"src.rho.sh/pkg/diag"
	"src.rho.sh/pkg/logutil"
)

// Program represents a subprogram.
type Program interface {
	// RegisterFlags registers the flags the subprogram understands.
	RegisterFlags(fs *FlagSet)
	// Run runs the subprogram. It may return ErrNextProgram to let the next
	// subprogram in a Composite run instead.
	Run(fds [3]*os.File, args []string) error
}

type commonFlags struct {
	Help       bool
	Log        string
	CPUProfile string
	Config     string
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.BoolVar(&f.Help, "help", false, "Show usage help and quit")
	fs.StringVar(&f.Log, "log", "", "A file to write debug log to")
	fs.StringVar(&f.CPUProfile, "cpuprofile", "", "Write CPU profile to file")
	fs.StringVar(&f.Config, "config", "", "Path to the configuration file")
}

func usage(out io.Writer, fs *flag.FlagSet) {
	fmt.Fprintln(out, "Usage: rho [flags] <file>")
	fmt.Fprintln(out, "       rho -repl [flags]")
	fmt.Fprintln(out, "       rho -lsp")
	fmt.Fprintln(out, "Supported flags:")
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// Run parses command-line flags and runs the first applicable subprogram. It
// returns the exit status of the program.
func Run(fds [3]*os.File, args []string, p Program) int {
	var f commonFlags
	fs := flag.NewFlagSet("rho", flag.ContinueOnError)
	// Error and usage will be printed explicitly.
	fs.SetOutput(io.Discard)
	f.register(fs)
	pfs := &FlagSet{FlagSet: fs}
	p.RegisterFlags(pfs)

	err := fs.Parse(args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			// (*flag.FlagSet).Parse returns ErrHelp when -h or -help was
			// requested but *not* defined. We define -help but not -h; so
			// this means that -h has been requested. Handle this by printing
			// the same message as an undefined flag.
			fmt.Fprintln(fds[2], "flag provided but not defined: -h")
		} else {
			fmt.Fprintln(fds[2], err)
		}
		usage(fds[2], fs)
		return 2
	}

	if f.CPUProfile != "" {
		f, err := os.Create(f.CPUProfile)
		if err != nil {
			fmt.Fprintln(fds[2], "Warning: cannot create CPU profile:", err)
			fmt.Fprintln(fds[2], "Continuing without CPU profiling.")
		} else {
			defer f.Close()
			pprof.StartCPUProfile(f)
			defer pprof.StopCPUProfile()
		}
	}

	cfg, err := config.Load(f.Config)
	if err != nil {
		fmt.Fprintln(fds[2], err)
		return 2
	}
	*pfs.Config() = *cfg

	if logFile := firstNonEmpty(f.Log, cfg.Log); logFile != "" {
		if err := logutil.SetOutputFile(logFile); err != nil {
			fmt.Fprintln(fds[2], err)
		}
		defer logutil.SetOutputFile("")
	}

	if f.Help {
		usage(fds[1], fs)
		return 0
	}

	err = p.Run(fds, fs.Args())
	if err == nil {
		return 0
	}
	if msg := err.Error(); msg != "" {
		if shower, ok := err.(diag.Shower); ok {
			fmt.Fprintln(fds[2], shower.Show(""))
		} else {
			fmt.Fprintln(fds[2], msg)
		}
	}
	switch err := err.(type) {
	case badUsageError:
		usage(fds[2], fs)
	case exitError:
		return err.exit
	}
	return 2
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// Composite returns a Program that tries each of the given programs,
// terminating at the first one that doesn't return ErrNextProgram.
func Composite(programs ...Program) Program {
	return compositeProgram(programs)
}

type compositeProgram []Program

func (cp compositeProgram) RegisterFlags(f *FlagSet) {
	for _, p := range cp {
		p.RegisterFlags(f)
	}
}

func (cp compositeProgram) Run(fds [3]*os.File, args []string) error {
	for _, p := range cp {
		err := p.Run(fds, args)
		if err != ErrNextProgram {
			return err
		}
	}
	// If we have reached here, all subprograms have returned ErrNextProgram
	return ErrNextProgram
}

// ErrNextProgram is a special error that may be returned by Program.Run that
// is part of a Composite program, indicating that the next program should be
// tried.
var ErrNextProgram = errors.New("internal error: no suitable subprogram")

// BadUsage returns a special error that may be returned by Program.Run. It
// causes the main function to print out a message, the usage information and
// exit with 2.
func BadUsage(msg string) error { return badUsageError{msg} }

type badUsageError struct{ msg string }

func (e badUsageError) Error() string { return e.msg }

// Exit returns a special error that may be returned by Program.Run. It causes
// the main function to exit with the given code without printing any error
// messages. Exit(0) returns nil.
func Exit(exit int) error {
	if exit == 0 {
		return nil
	}
	return exitError{exit}
}

type exitError struct{ exit int }

func (e exitError) Error() string { return "" }
