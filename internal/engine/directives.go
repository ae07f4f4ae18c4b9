package engine

import (
	"strconv"
	"strings"

	"github.com/donaldgifford/opp/internal/condition"
	"github.com/donaldgifford/opp/internal/pathmap"
)

// directive handles one "##X" token. On entry p.pos points at the first
// '#'; the handler must advance p.pos past everything it consumes.
type directive func(s *Session, p *pass) error

var directives = map[byte]directive{}

// registerDirective binds a handler to the byte following "##".
func registerDirective(c byte, d directive) {
	directives[c] = d
}

func init() {
	registerDirective('i', emitImaginary)
	registerDirective('_', emitLineNumber)
	registerDirective('$', emitRandom)
	registerDirective('{', emitOpenBraces)
	registerDirective('}', emitCloseBraces)
	registerDirective('.', closeBlock)
	registerDirective(':', defineMacro)
	registerDirective('@', elseBlock)
	registerDirective('~', openBlock)
	registerDirective('<', includeFile)
}

func emitImaginary(_ *Session, p *pass) error {
	p.out.WriteString("complex(0,1)")
	p.pos += 3
	return nil
}

// emitLineNumber writes the line number offset by -5, so line 5 reads 0.
func emitLineNumber(s *Session, p *pass) error {
	p.out.WriteString(strconv.Itoa(s.State.Line - 5))
	p.pos += 3
	return nil
}

func emitRandom(s *Session, p *pass) error {
	p.out.WriteString(strconv.FormatInt(int64(s.rng.Int32()), 10))
	p.pos += 3
	return nil
}

func emitOpenBraces(s *Session, p *pass) error {
	p.out.WriteString(strconv.Itoa(s.State.OpenBraces))
	p.pos += 3
	return nil
}

func emitCloseBraces(s *Session, p *pass) error {
	p.out.WriteString(strconv.Itoa(s.State.CloseBraces % 5))
	p.pos += 3
	return nil
}

func closeBlock(s *Session, p *pass) error {
	if s.State.Skip > 0 {
		s.State.Skip--
	}
	p.pos += 3
	return nil
}

// defineMacro consumes the rest of the line: the name runs up to the first
// space and the body is everything after it.
func defineMacro(s *Session, p *pass) error {
	rest := p.in[p.pos+3:]
	sp := strings.IndexByte(rest, ' ')
	if sp < 0 {
		return &SyntaxError{Msg: "invalid syntax for macro", Text: p.in[p.pos:]}
	}
	name, body := rest[:sp], rest[sp+1:]
	if err := s.Macros.Define(name, body); err != nil {
		return &SyntaxError{Msg: "invalid syntax for macro", Text: p.in[p.pos:], Err: err}
	}
	log.Debugf("line %d: defined macro %s", s.State.Line, name)
	p.pos = len(p.in)
	return nil
}

// elseBlock closes the current block and opens a new one guarded by the
// condition that follows "##@".
func elseBlock(s *Session, p *pass) error {
	if s.State.Skip > 0 {
		s.State.Skip--
	}
	start := p.pos
	p.pos += 3
	return s.evalCondition(p, start)
}

// openBlock leaves the '~' in place: it is the first byte of the
// condition.
func openBlock(s *Session, p *pass) error {
	start := p.pos
	p.pos += 2
	return s.evalCondition(p, start)
}

func (s *Session) evalCondition(p *pass, start int) error {
	node, n, err := condition.Parse(p.in[p.pos:])
	if err != nil {
		return &SyntaxError{Msg: "invalid conditional expression", Text: p.in[start:], Err: err}
	}
	p.pos += n
	if !node.Eval(s.opts.Lookup) {
		s.State.Skip++
	}
	log.Debugf("line %d: condition %s, skip depth %d", s.State.Line, node, s.State.Skip)
	return nil
}

// includeFile ends the line; nothing after the include token is processed.
func includeFile(_ *Session, p *pass) error {
	path, _, err := pathmap.Remap(p.in[p.pos+3:])
	if err != nil {
		return &SyntaxError{Msg: "invalid include", Text: p.in[p.pos:], Err: err}
	}
	p.include = path
	p.pos = len(p.in)
	return nil
}
