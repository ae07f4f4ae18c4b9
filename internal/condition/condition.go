// Package condition parses and evaluates conditional inclusion expressions.
//
// The grammar always combines exactly two operands:
//
//	Expr       := '~' Operand '.' '~' Operand
//	Operand    := '(' Expr ')' | Identifier
//	Identifier := any run of bytes up to the next '.', ')' or end of input
//
// "~A.~B" is true only when both A and B are false, so every expression is
// a NOR of its two operands.
package condition

import (
	"fmt"
	"strings"
)

// Lookup resolves a variable name to its value.
type Lookup func(name string) (string, bool)

// Node is a parsed condition.
type Node interface {
	Eval(lookup Lookup) bool
	String() string
}

// Leaf tests a single variable.
type Leaf struct {
	Name string
}

// Eval reports whether the named variable holds a truthy value. An empty
// name is always false.
func (l *Leaf) Eval(lookup Lookup) bool {
	if l.Name == "" {
		return false
	}
	v, ok := lookup(l.Name)
	return ok && Truthy(v)
}

func (l *Leaf) String() string { return l.Name }

// Nor is true iff both operands are false.
type Nor struct {
	A, B Node
}

// Eval evaluates both operands.
func (n *Nor) Eval(lookup Lookup) bool {
	a := n.A.Eval(lookup)
	b := n.B.Eval(lookup)
	return !a && !b
}

func (n *Nor) String() string {
	return "~" + operandString(n.A) + ".~" + operandString(n.B)
}

func operandString(n Node) string {
	if _, ok := n.(*Nor); ok {
		return "(" + n.String() + ")"
	}
	return n.String()
}

// Truthy implements the value rule for variables: non-empty, not starting
// with '0' and not equal to "FALSE" in any case.
func Truthy(v string) bool {
	return v != "" && v[0] != '0' && !strings.EqualFold(v, "FALSE")
}

// SyntaxError reports a malformed expression.
// Offset is the byte offset of the failure within Text.
type SyntaxError struct {
	Offset int
	Msg    string
	Text   string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Offset)
}

// Parse reads one expression from the start of text. It returns the parsed
// tree and the number of bytes consumed; whatever follows is left to the
// caller.
func Parse(text string) (Node, int, error) {
	p := &parser{src: text}
	n, err := p.expr()
	if err != nil {
		return nil, 0, err
	}
	return n, p.pos, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) fail(msg string) error {
	return &SyntaxError{Offset: p.pos, Msg: msg, Text: p.src}
}

func (p *parser) peek() byte {
	if p.pos < len(p.src) {
		return p.src[p.pos]
	}
	return 0
}

func (p *parser) expr() (Node, error) {
	if p.peek() != '~' {
		return nil, p.fail("expected '~'")
	}
	p.pos++

	a, err := p.operand()
	if err != nil {
		return nil, err
	}

	if !strings.HasPrefix(p.src[p.pos:], ".~") {
		return nil, p.fail("expected \".~\" before second operand")
	}
	p.pos += 2

	b, err := p.operand()
	if err != nil {
		return nil, err
	}
	return &Nor{A: a, B: b}, nil
}

func (p *parser) operand() (Node, error) {
	if p.peek() == '(' {
		p.pos++
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, p.fail("expected ')'")
		}
		p.pos++
		return n, nil
	}

	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != '.' && p.src[p.pos] != ')' {
		p.pos++
	}
	return &Leaf{Name: p.src[start:p.pos]}, nil
}
