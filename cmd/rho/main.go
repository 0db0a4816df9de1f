// Rho is an interpreter for a small rewriting calculus. It reads a term from
// a file, rewrites it until nothing changes and prints the result.
package main

import (
	"os"

	"src.rho.sh/pkg/buildinfo"
	"src.rho.sh/pkg/interp"
	"src.rho.sh/pkg/lsp"
	"src.rho.sh/pkg/prog"
	"src.rho.sh/pkg/repl"
)

func main() {
	ip := &interp.Program{}
	os.Exit(prog.Run(
		[3]*os.File{os.Stdin, os.Stdout, os.Stderr}, os.Args,
		prog.Composite(
			&buildinfo.Program{}, &lsp.Program{},
			&repl.Program{Options: ip.Options}, ip)))
}
