package diag

import (
	"fmt"
	"strings"
)

// Context is a range of text in a source. It is attached to errors that can
// be associated with a part of the source, like parse and resolution errors.
type Context struct {
	Name   string
	Source string
	Ranging
}

// NewContext creates a new Context.
func NewContext(name, source string, r Ranger) *Context {
	return &Context{name, source, r.Range()}
}

// Variables controlling the style of the culprit.
var (
	culpritStart       = "\033[1;4m"
	culpritEnd         = "\033[m"
	culpritPlaceHolder = "^"
)

// Position returns the 1-based line and column of the start of the range.
// Columns count bytes.
func (c *Context) Position() (line, col int) {
	from := clamp(c.From, len(c.Source))
	before := c.Source[:from]
	line = strings.Count(before, "\n") + 1
	col = from - (strings.LastIndexByte(before, '\n') + 1) + 1
	return line, col
}

// Describe returns "name:line:col".
func (c *Context) Describe() string {
	line, col := c.Position()
	return fmt.Sprintf("%s:%d:%d", c.Name, line, col)
}

// Show shows the range description followed by the source line with the
// culprit highlighted.
func (c *Context) Show(indent string) string {
	if c.From < 0 || c.To > len(c.Source) || c.From > c.To {
		return fmt.Sprintf("%s, invalid position %d-%d", c.Name, c.From, c.To)
	}
	before, culprit, after := c.Source[:c.From], c.Source[c.From:c.To], c.Source[c.To:]
	head := before[strings.LastIndexByte(before, '\n')+1:]
	if i := strings.IndexByte(culprit, '\n'); i != -1 {
		culprit, after = culprit[:i], ""
	}
	if i := strings.IndexByte(after, '\n'); i != -1 {
		after = after[:i]
	}
	if culprit == "" {
		culprit = culpritPlaceHolder
	}
	return c.Describe() + ": " + head + culpritStart + culprit + culpritEnd + after
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}
