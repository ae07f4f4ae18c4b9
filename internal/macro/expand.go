package macro

import (
	"fmt"
	"strconv"
	"strings"
)

// MissingArgumentError is returned when a body refers to an argument the
// call did not supply.
type MissingArgumentError struct {
	Macro    string
	Index    int
	Supplied int
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("missing macro argument #%d for %s (%d supplied)", e.Index, e.Macro, e.Supplied)
}

// SplitArgs reads a call's argument list from text, which starts just past
// the opening '('. Arguments are split on top-level commas and returned
// verbatim. consumed includes the closing ')'. ok is false when the call
// is not closed on this line.
//
// A call without arguments yields one empty argument.
func SplitArgs(text string) (args []string, consumed int, ok bool) {
	depth := 0
	start := 0
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c == '(':
			depth++
		case c == ')' && depth > 0:
			depth--
		case c == ')':
			return append(args, text[start:i]), i + 1, true
		case c == ',' && depth == 0:
			args = append(args, text[start:i])
			start = i + 1
		}
	}
	return nil, 0, false
}

// Expand substitutes args into the body of d.
//
// Inside a body, "#N" is replaced by argument N (1-indexed) and "#N..n" by
// argument N and all that follow it, joined with ','. A preceding "#\"" or
// "#'" wraps the next substitution in that quote. "##,#" emits a literal
// '#' and copies what follows it without interpretation.
func Expand(d *Definition, args []string) (string, error) {
	body := d.Body
	var b strings.Builder
	var quote byte

	for i := 0; i < len(body); {
		switch {
		case strings.HasPrefix(body[i:], `#"`):
			quote = '"'
			i += 2

		case strings.HasPrefix(body[i:], "#'"):
			quote = '\''
			i += 2

		case strings.HasPrefix(body[i:], "##,#"):
			i += 4
			b.WriteByte('#')
			if i < len(body) && body[i] == '#' {
				b.WriteByte('#')
				i++
			}
			if n := digitRun(body[i:]); n > 0 {
				b.WriteString(body[i : i+n])
				i += n
			} else if i < len(body) {
				b.WriteByte(body[i])
				i++
			}

		case body[i] == '#' && digitRun(body[i+1:]) > 0:
			i++
			n := digitRun(body[i:])
			idx, err := strconv.Atoi(body[i : i+n])
			if err != nil || idx < 1 || idx > len(args) {
				return "", &MissingArgumentError{Macro: d.Name, Index: idx, Supplied: len(args)}
			}
			i += n

			if strings.HasPrefix(body[i:], "..n") {
				i += 3
				for j, a := range args[idx-1:] {
					if j > 0 {
						b.WriteByte(',')
					}
					writeQuoted(&b, a, quote)
				}
			} else {
				writeQuoted(&b, args[idx-1], quote)
			}
			quote = 0

		default:
			b.WriteByte(body[i])
			i++
		}
	}
	return b.String(), nil
}

func writeQuoted(b *strings.Builder, s string, quote byte) {
	if quote != 0 {
		b.WriteByte(quote)
	}
	b.WriteString(s)
	if quote != 0 {
		b.WriteByte(quote)
	}
}

func digitRun(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}
