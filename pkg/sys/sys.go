// Package sys provides system utilities with the same API across OSes.
package sys

import "github.com/mattn/go-isatty"

// IsATTY determines whether the given file descriptor is a terminal.
func IsATTY(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
