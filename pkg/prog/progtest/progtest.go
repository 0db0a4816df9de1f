// Package progtest provides a framework for testing subprograms.
//
// The entry point for the framework is the Test function, which accepts a
// *testing.T, the Program implementation under test, and any number of test
// cases.
//
// Test cases are constructed using the ThatRho function, followed by
// method calls that add additional information to it.
//
// Example:
//
//	Test(t, someProgram,
//	    ThatRho("-c", "echo").WritesStdout("\n"))
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"src.rho.sh/pkg/must"
	"src.rho.sh/pkg/prog"
	"src.rho.sh/pkg/testutil"
)

// Case is a test case that can be used in Test.
type Case struct {
	args   []string
	stdin  string
	want   result
	checks []func(t *testing.T, r result)
}

type result struct {
	exitCode int
	out, err output
}

type output struct {
	content string
	partial bool
}

func (o output) String() string {
	if o.partial {
		return "text containing " + strings.TrimSuffix(o.content, "\n")
	}
	return o.content
}

// ThatRho returns a new Case with the specified CLI arguments.
//
// The new Case expects the program run to exit with 0, and write nothing to
// stdout or stderr.
//
// When combined with subsequent method calls, a test case reads like English.
// For example, a test for the fact that "rho -bad-flag" exits with 2 reads
// like:
//
//	ThatRho("-bad-flag").ExitsWith(2)
func ThatRho(args ...string) Case {
	return Case{args: append([]string{"rho"}, args...)}
}

// WithStdin returns an altered Case that provides the given input to stdin of
// the program.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise don't
// have any expectations, for example:
//
//	ThatRho("-version").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program run to return
// with the given exit code.
func (c Case) ExitsWith(code int) Case {
	c.want.exitCode = code
	return c
}

// WritesStdout returns an altered Case that requires the program run to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.want.out = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program run
// to write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.want.out = output{content: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the program run to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.want.err = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program run
// to write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.want.err = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program.
//
// The configuration directory is redirected to an empty temporary directory,
// so that a configuration file of the user running the tests is not picked
// up.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	dir := testutil.TempDir(t)
	testutil.Setenv(t, "XDG_CONFIG_HOME", dir)
	testutil.Setenv(t, "HOME", dir)
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exitCode != c.want.exitCode {
				t.Errorf("got exit code %v, want %v", r.exitCode, c.want.exitCode)
			}
			if !matchOutput(r.out.content, c.want.out) {
				t.Errorf("got stdout %q, want %q", r.out.content, c.want.out)
			}
			if !matchOutput(r.err.content, c.want.err) {
				t.Errorf("got stderr %q, want %q", r.err.content, c.want.err)
			}
		})
	}
}

// Run runs a Program with the given arguments and stdin. It returns the exit
// code, stdout and stderr.
func Run(p prog.Program, args []string, stdin string) (exit int, stdout, stderr string) {
	r := run(p, args, stdin)
	return r.exitCode, r.out.content, r.err.content
}

func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.Pipe()
	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()

	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	// Read stdout and stderr concurrently, so that a program writing more
	// than the pipe buffer does not block.
	outCh, errCh := readAllAsync(r1), readAllAsync(r2)

	exitCode := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	w1.Close()
	w2.Close()
	r0.Close()
	return result{exitCode, output{content: <-outCh}, output{content: <-errCh}}
}

func readAllAsync(r *os.File) <-chan string {
	ch := make(chan string, 1)
	go func() {
		ch <- string(must.ReadAllAndClose(r))
	}()
	return ch
}

func matchOutput(got string, want output) bool {
	if want.partial {
		return strings.Contains(got, want.content)
	}
	return got == want.content
}
