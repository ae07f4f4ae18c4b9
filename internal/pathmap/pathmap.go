// Package pathmap turns an inline include token into a filesystem path.
//
// Include tokens cannot contain a bare '.', because '.' terminates the
// token, so paths are spelled with a small pair-substitution table:
//
//	\\  ->  ..
//	//  ->  \\
//	..  ->  \
//	\.  ->  .
//
// Every other character is copied as-is.
package pathmap

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// MaxLen is the longest path Remap will produce.
const MaxLen = 316

// ErrUnterminated is returned when the token has no terminating '.'.
var ErrUnterminated = errors.New("include token is not terminated by '.'")

// ErrEmpty is returned when the token names no path at all.
var ErrEmpty = errors.New("include path is empty")

// pairs is checked in order at every position.
var pairs = []struct{ from, to string }{
	{`\\`, `..`},
	{`//`, `\\`},
	{`..`, `\`},
	{`\.`, `.`},
}

// Remap scans token left to right and returns the remapped path along with
// the number of bytes consumed, including the terminating '.'. A token
// that remaps to nothing is an error.
func Remap(token string) (path string, consumed int, err error) {
	var b strings.Builder
	i := 0
scan:
	for i < len(token) {
		for _, p := range pairs {
			if strings.HasPrefix(token[i:], p.from) {
				b.WriteString(p.to)
				i += len(p.from)
				if b.Len() > MaxLen {
					return "", 0, fmt.Errorf("include path longer than %d bytes", MaxLen)
				}
				continue scan
			}
		}
		if token[i] == '.' {
			if b.Len() == 0 {
				return "", 0, ErrEmpty
			}
			return b.String(), i + 1, nil
		}
		b.WriteByte(token[i])
		i++
		if b.Len() > MaxLen {
			return "", 0, fmt.Errorf("include path longer than %d bytes", MaxLen)
		}
	}
	return "", 0, ErrUnterminated
}

// Native converts a remapped path, which uses '\' as its separator, into
// a path for the host filesystem.
func Native(p string) string {
	if filepath.Separator == '\\' {
		return filepath.Clean(p)
	}
	return filepath.Clean(strings.ReplaceAll(p, `\`, "/"))
}
