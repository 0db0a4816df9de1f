package term

import (
	"errors"
	"fmt"
)

// StuckName is the name under which the Stuck sentinel occupies slot 0 of
// every constant table. Source identifiers are alphanumeric, so it can never
// be written in a program.
const StuckName = "!"

// ErrReservedName is returned when interning the name of the Stuck sentinel.
var ErrReservedName = errors.New("constant name " + StuckName + " is reserved")

// Constants is a growth-only table of interned constant names.
type Constants struct {
	names   []string
	indices map[string]int
}

// NewConstants returns a table with the Stuck sentinel in slot 0, followed by
// the given names interned in order. It panics if one of the names is
// reserved.
func NewConstants(names ...string) *Constants {
	c := &Constants{[]string{StuckName}, map[string]int{StuckName: StuckIndex}}
	for _, name := range names {
		if _, err := c.Intern(name); err != nil {
			panic(err)
		}
	}
	return c
}

// Intern returns the index of name, assigning the next free index on first
// sight.
func (c *Constants) Intern(name string) (int, error) {
	if name == StuckName {
		return 0, ErrReservedName
	}
	if i, ok := c.indices[name]; ok {
		return i, nil
	}
	i := len(c.names)
	c.names = append(c.names, name)
	c.indices[name] = i
	return i, nil
}

// Lookup returns the index of name if it has been interned.
func (c *Constants) Lookup(name string) (int, bool) {
	i, ok := c.indices[name]
	return i, ok
}

// Name returns the name of the constant with index i.
func (c *Constants) Name(i int) string {
	if i < 0 || i >= len(c.names) {
		return fmt.Sprintf("<bad constant %d>", i)
	}
	return c.names[i]
}

// Len returns the number of slots in the table, including the Stuck slot.
func (c *Constants) Len() int { return len(c.names) }
