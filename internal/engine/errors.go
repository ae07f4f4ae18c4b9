package engine

import (
	"errors"
	"fmt"
)

// ErrExpansionLimit is returned when a line keeps expanding past
// Options.MaxPasses, which happens with self-referencing macros.
var ErrExpansionLimit = errors.New("macro expansion does not terminate")

// SyntaxError reports a malformed directive.
type SyntaxError struct {
	Msg  string
	Text string // Offending text, starting at the directive.
	Err  error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q: %v", e.Msg, e.Text, e.Err)
	}
	return fmt.Sprintf("%s %q", e.Msg, e.Text)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// LineTooLongError reports a line, physical or expanded, over the
// configured bound.
type LineTooLongError struct {
	Length int
	Limit  int
}

func (e *LineTooLongError) Error() string {
	if e.Length > 0 {
		return fmt.Sprintf("line length %d exceeds limit of %d bytes", e.Length, e.Limit)
	}
	return fmt.Sprintf("line exceeds limit of %d bytes", e.Limit)
}

// PositionError attaches a source position to an error.
type PositionError struct {
	File string
	Line int
	Err  error
}

func (e *PositionError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

func (e *PositionError) Unwrap() error { return e.Err }
