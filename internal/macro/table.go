// Package macro stores user macros and expands their invocations.
package macro

import (
	"errors"
	"strings"
)

// ErrEmptyName is returned by Define for a definition without a name.
var ErrEmptyName = errors.New("macro name is empty")

// Definition is a single user macro. It is never modified after Define.
type Definition struct {
	Name string
	Body string
}

// Table holds definitions in the order they were made. Later definitions
// with an existing name are added, not substituted, so the earliest
// matching entry keeps winning.
type Table struct {
	defs []*Definition
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

// Define appends a definition.
func (t *Table) Define(name, body string) error {
	if name == "" {
		return ErrEmptyName
	}
	t.defs = append(t.defs, &Definition{Name: name, Body: body})
	return nil
}

// Len returns the number of definitions.
func (t *Table) Len() int {
	return len(t.defs)
}

// Definitions returns the definitions in insertion order.
func (t *Table) Definitions() []*Definition {
	out := make([]*Definition, len(t.defs))
	copy(out, t.defs)
	return out
}

// Match finds the first definition whose name starts text and is followed
// by '('. It returns the definition and the offset just past the '('.
func (t *Table) Match(text string) (*Definition, int, bool) {
	for _, d := range t.defs {
		n := len(d.Name)
		if strings.HasPrefix(text, d.Name) && n < len(text) && text[n] == '(' {
			return d, n + 1, true
		}
	}
	return nil, 0, false
}
