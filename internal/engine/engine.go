// Package engine rewrites source lines: it dispatches "##" directives and
// expands macro calls until a pass over the line makes no further
// expansion.
package engine

import (
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/op/go-logging"

	"github.com/donaldgifford/opp/internal/condition"
	"github.com/donaldgifford/opp/internal/macro"
)

var log = logging.MustGetLogger("opp")

// Defaults for Options fields left at zero.
const (
	DefaultMaxLineLength = 10240
	DefaultMaxPasses     = 1000
)

// Options configures a Session.
type Options struct {
	// MaxLineLength bounds the text produced by each expansion pass.
	MaxLineLength int
	// MaxPasses bounds the number of expansion passes over one line.
	MaxPasses int
	// BraceCompat counts '}' as an opening brace, which keeps "##}" at 0.
	// Existing processed files depend on this.
	BraceCompat bool
	// Lookup resolves condition variables. Defaults to os.LookupEnv.
	Lookup condition.Lookup
	// Seed seeds "##$". Zero seeds from the clock.
	Seed uint64
}

// State holds the counters the rewriter keeps between lines.
type State struct {
	Line        int
	Skip        int
	OpenBraces  int
	CloseBraces int
}

// Result is the outcome of rewriting one physical line.
type Result struct {
	// Text is the rewritten line, newline terminated.
	Text string
	// Include is the remapped path named by a "##<" directive, or empty.
	Include string
}

// Session carries the macro table and counters for one run. Definitions
// made while processing an included file stay visible afterwards.
type Session struct {
	Macros *macro.Table
	State  State

	opts Options
	rng  *rand.Rand
}

// NewSession returns a Session with an empty macro table.
func NewSession(opts Options) *Session {
	if opts.MaxLineLength <= 0 {
		opts.MaxLineLength = DefaultMaxLineLength
	}
	if opts.MaxPasses <= 0 {
		opts.MaxPasses = DefaultMaxPasses
	}
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Session{
		Macros: macro.NewTable(),
		opts:   opts,
		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)),
	}
}

// EnterFile resets the per-file counters. Skip depth carries over, so an
// include inside a suppressed block stays suppressed.
func (s *Session) EnterFile() {
	s.State.Line = 0
	s.State.OpenBraces = 0
	s.State.CloseBraces = 0
}

// MaxLineLength reports the effective line bound.
func (s *Session) MaxLineLength() int {
	return s.opts.MaxLineLength
}

// pass is one left-to-right scan over a line.
type pass struct {
	in       string
	pos      int
	out      strings.Builder
	expanded bool
	include  string
}

// Rewrite processes the next physical line of the current file.
func (s *Session) Rewrite(line string) (Result, error) {
	s.State.Line++

	in := line
	for passes := 1; ; passes++ {
		if passes > s.opts.MaxPasses {
			return Result{}, ErrExpansionLimit
		}

		p := &pass{in: in}
		if err := s.scan(p); err != nil {
			return Result{}, err
		}

		if p.include != "" {
			return Result{Text: p.out.String() + "\n", Include: p.include}, nil
		}
		if !p.expanded {
			return Result{Text: p.out.String() + "\n"}, nil
		}
		in = p.out.String()
	}
}

func (s *Session) scan(p *pass) error {
	for p.pos < len(p.in) {
		if strings.HasPrefix(p.in[p.pos:], "##") {
			var c byte
			if p.pos+2 < len(p.in) {
				c = p.in[p.pos+2]
			}
			d, ok := directives[c]
			if !ok {
				return &SyntaxError{Msg: "unknown preprocessor directive", Text: p.in[p.pos:]}
			}
			if err := d(s, p); err != nil {
				return err
			}
			if err := s.checkLength(p); err != nil {
				return err
			}
			if p.include != "" {
				return nil
			}
			continue
		}

		if s.State.Skip > 0 {
			p.pos++
			continue
		}

		expansion, n, ok, err := s.Macros.Invoke(p.in[p.pos:])
		if err != nil {
			return err
		}
		if ok {
			p.out.WriteString(expansion)
			p.pos += n
			p.expanded = true
		} else {
			s.copyByte(p)
		}

		if err := s.checkLength(p); err != nil {
			return err
		}
	}
	return nil
}

// checkLength bounds the output of the current pass, whatever produced it.
func (s *Session) checkLength(p *pass) error {
	if p.out.Len() > s.opts.MaxLineLength {
		return &LineTooLongError{Length: p.out.Len(), Limit: s.opts.MaxLineLength}
	}
	return nil
}

func (s *Session) copyByte(p *pass) {
	c := p.in[p.pos]
	switch c {
	case '{':
		s.State.OpenBraces++
	case '}':
		if s.opts.BraceCompat {
			s.State.OpenBraces++
		} else {
			s.State.CloseBraces++
		}
	}
	p.out.WriteByte(c)
	p.pos++
}
