package diag

import (
	"errors"
	"fmt"
	"strings"
)

// Error represents an error with context that can be shown.
type Error struct {
	Type    string
	Message string
	Context Context
}

// Error returns a plain text representation of the error.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Type, e.Context.Describe(), e.Message)
}

// Range returns the range of the error.
func (e *Error) Range() Ranging {
	return e.Context.Range()
}

// Show shows the error.
func (e *Error) Show(indent string) string {
	header := fmt.Sprintf("%s: %s%s%s\n", title(e.Type), messageStart, e.Message, messageEnd)
	return header + indent + "  " + e.Context.Show(indent+"  ")
}

// Shower wraps the Show function.
type Shower interface {
	// Show takes an indentation string and shows.
	Show(indent string) string
}

// UnpackErrors returns all *Error values of the given type found in err,
// which may be a single *Error or a combination made by errutil.Multi.
func UnpackErrors(err error, typ string) []*Error {
	var errs []*Error
	for _, e := range unwrapAll(err) {
		var de *Error
		if errors.As(e, &de) && de.Type == typ {
			errs = append(errs, de)
		}
	}
	return errs
}

func unwrapAll(err error) []error {
	if err == nil {
		return nil
	}
	if m, ok := err.(interface{ Unwrap() []error }); ok {
		return m.Unwrap()
	}
	return []error{err}
}

var (
	messageStart = "\033[31;1m"
	messageEnd   = "\033[m"
)

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
