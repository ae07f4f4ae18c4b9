package condition

import (
	"errors"
	"testing"

	. "gopkg.in/check.v1"
)

func Test(t *testing.T) { TestingT(t) }

type ConditionSuite struct{}

var _ = Suite(&ConditionSuite{})

func vars(m map[string]string) Lookup {
	return func(name string) (string, bool) {
		v, ok := m[name]
		return v, ok
	}
}

func (s *ConditionSuite) Test_Truthy_followsValueRule(c *C) {
	c.Check(Truthy("1"), Equals, true)
	c.Check(Truthy("yes"), Equals, true)
	c.Check(Truthy("TRUE"), Equals, true)
	c.Check(Truthy("falsey"), Equals, true)

	c.Check(Truthy(""), Equals, false)
	c.Check(Truthy("0"), Equals, false)
	c.Check(Truthy("007"), Equals, false)
	c.Check(Truthy("FALSE"), Equals, false)
	c.Check(Truthy("false"), Equals, false)
	c.Check(Truthy("FaLsE"), Equals, false)
}

func (s *ConditionSuite) Test_Parse_simplePair(c *C) {
	n, consumed, err := Parse("~A.~B")
	c.Assert(err, IsNil)
	c.Check(consumed, Equals, 5)
	c.Check(n, DeepEquals, Node(&Nor{A: &Leaf{Name: "A"}, B: &Leaf{Name: "B"}}))
}

func (s *ConditionSuite) Test_Parse_nested(c *C) {
	n, consumed, err := Parse("~(~A.~B).~C")
	c.Assert(err, IsNil)
	c.Check(consumed, Equals, 11)
	c.Check(n.String(), Equals, "~(~A.~B).~C")
}

func (s *ConditionSuite) Test_Parse_identifierRunsToTerminator(c *C) {
	n, consumed, err := Parse("~A.~B trailing text")
	c.Assert(err, IsNil)
	c.Check(consumed, Equals, 19)
	c.Check(n.(*Nor).B, DeepEquals, Node(&Leaf{Name: "B trailing text"}))
}

func (s *ConditionSuite) Test_Parse_stopsAtCloseParen(c *C) {
	_, consumed, err := Parse("~A.~B)rest")
	c.Assert(err, IsNil)
	c.Check(consumed, Equals, 5)
}

func (s *ConditionSuite) Test_Parse_emptyIdentifiers(c *C) {
	n, _, err := Parse("~.~")
	c.Assert(err, IsNil)
	c.Check(n.Eval(vars(nil)), Equals, true)
}

func (s *ConditionSuite) Test_Parse_rejectsMalformed(c *C) {
	for _, text := range []string{
		"",
		"A.~B",
		"~A",
		"~A.B",
		"~A~B",
		"~(~A.~B.~C",
		"~(A).~B",
	} {
		_, _, err := Parse(text)
		c.Check(err, NotNil, Commentf("input %q", text))
		var se *SyntaxError
		c.Check(errors.As(err, &se), Equals, true, Commentf("input %q", text))
	}
}

func (s *ConditionSuite) Test_Eval_isNor(c *C) {
	n, _, err := Parse("~A.~B")
	c.Assert(err, IsNil)

	c.Check(n.Eval(vars(nil)), Equals, true)
	c.Check(n.Eval(vars(map[string]string{"A": "1"})), Equals, false)
	c.Check(n.Eval(vars(map[string]string{"B": "1"})), Equals, false)
	c.Check(n.Eval(vars(map[string]string{"A": "1", "B": "1"})), Equals, false)
	c.Check(n.Eval(vars(map[string]string{"A": "0", "B": "false"})), Equals, true)
	c.Check(n.Eval(vars(map[string]string{"A": ""})), Equals, true)
}

func (s *ConditionSuite) Test_Eval_norOfNegationsIsAnd(c *C) {
	// (A nor A) nor (B nor B) == A and B.
	n, _, err := Parse("~(~A.~A).~(~B.~B)")
	c.Assert(err, IsNil)

	c.Check(n.Eval(vars(nil)), Equals, false)
	c.Check(n.Eval(vars(map[string]string{"A": "1"})), Equals, false)
	c.Check(n.Eval(vars(map[string]string{"B": "1"})), Equals, false)
	c.Check(n.Eval(vars(map[string]string{"A": "1", "B": "1"})), Equals, true)
}

func (s *ConditionSuite) Test_Eval_notViaSelfNor(c *C) {
	n, _, err := Parse("~DEBUG.~DEBUG")
	c.Assert(err, IsNil)

	c.Check(n.Eval(vars(nil)), Equals, true)
	c.Check(n.Eval(vars(map[string]string{"DEBUG": "1"})), Equals, false)
}
