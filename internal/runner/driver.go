package runner

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/op/go-logging"

	"github.com/donaldgifford/opp/internal/engine"
	"github.com/donaldgifford/opp/internal/macro"
	"github.com/donaldgifford/opp/internal/pathmap"
)

// IncludeDepthError is returned when includes nest deeper than allowed.
type IncludeDepthError struct {
	Path  string
	Limit int
}

func (e *IncludeDepthError) Error() string {
	return fmt.Sprintf("cannot include %s: nesting exceeds maximum depth of %d", e.Path, e.Limit)
}

// Driver feeds source files through a Session, following includes.
type Driver struct {
	Session         *engine.Session
	MaxIncludeDepth int
	// IncludeDir is the base for relative include paths. Empty means the
	// working directory.
	IncludeDir string
}

// frame is one open file on the include stack.
type frame struct {
	name string
	file *os.File
	sc   *bufio.Scanner
	line int
}

// Process expands source and writes the result to w. The output is
// flushed even when processing fails part way.
func (d *Driver) Process(ctx context.Context, source string, w io.Writer) (err error) {
	bw := bufio.NewWriter(w)
	var stack []*frame
	defer func() {
		for _, f := range stack {
			f.file.Close()
		}
		if ferr := bw.Flush(); err == nil && ferr != nil {
			err = fmt.Errorf("writing output: %w", ferr)
		}
	}()

	top, err := d.open(source)
	if err != nil {
		return err
	}
	stack = append(stack, top)

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		top = stack[len(stack)-1]

		text, ok, err := d.next(top)
		if err != nil {
			return err
		}
		if !ok {
			top.file.Close()
			stack = stack[:len(stack)-1]
			log.Debugf("finished %s", top.name)
			continue
		}

		res, err := d.Session.Rewrite(text)
		if err != nil {
			return &engine.PositionError{File: top.name, Line: top.line, Err: err}
		}
		if _, err := bw.WriteString(res.Text); err != nil {
			return fmt.Errorf("writing output: %w", err)
		}

		if res.Include == "" {
			continue
		}
		path := d.resolve(res.Include)
		if len(stack) > d.MaxIncludeDepth {
			return &engine.PositionError{
				File: top.name,
				Line: top.line,
				Err:  &IncludeDepthError{Path: path, Limit: d.MaxIncludeDepth},
			}
		}
		inc, err := d.open(path)
		if err != nil {
			return &engine.PositionError{File: top.name, Line: top.line, Err: err}
		}
		log.Debugf("%s:%d: including %s (depth %d)", top.name, top.line, path, len(stack))
		stack = append(stack, inc)
	}
	if log.IsEnabledFor(logging.DEBUG) {
		log.Debugf("%s: done, macros defined: %s", source, macroNames(d.Session.Macros))
	}
	return nil
}

// macroNames lists the table in definition order for the end-of-run log.
func macroNames(t *macro.Table) string {
	defs := t.Definitions()
	if len(defs) == 0 {
		return "none"
	}
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return fmt.Sprintf("%d (%s)", len(defs), strings.Join(names, ", "))
}

// open starts a file and resets the per-file counters.
func (d *Driver) open(name string) (*frame, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s for reading: %w", name, err)
	}
	limit := d.Session.MaxLineLength()
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, min(limit+2, 64*1024)), limit+2)

	d.Session.EnterFile()
	return &frame{name: name, file: f, sc: sc}, nil
}

// next returns the next physical line of fr without its line ending.
func (d *Driver) next(fr *frame) (string, bool, error) {
	limit := d.Session.MaxLineLength()
	if !fr.sc.Scan() {
		err := fr.sc.Err()
		switch {
		case errors.Is(err, bufio.ErrTooLong):
			return "", false, &engine.PositionError{
				File: fr.name,
				Line: fr.line + 1,
				Err:  &engine.LineTooLongError{Limit: limit},
			}
		case err != nil:
			return "", false, fmt.Errorf("reading %s: %w", fr.name, err)
		}
		return "", false, nil
	}
	fr.line++

	text := strings.TrimSuffix(fr.sc.Text(), "\r")
	if len(text) > limit {
		return "", false, &engine.PositionError{
			File: fr.name,
			Line: fr.line,
			Err:  &engine.LineTooLongError{Length: len(text), Limit: limit},
		}
	}
	return text, true, nil
}

func (d *Driver) resolve(include string) string {
	p := pathmap.Native(include)
	if d.IncludeDir != "" && !filepath.IsAbs(p) {
		p = filepath.Join(d.IncludeDir, p)
	}
	return p
}
