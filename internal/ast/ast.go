// Package ast defines Fragment's expression AST and ExpressionStream: the
// stage that turns a lazy sequence of blocks into a lazy sequence of
// evaluable expression nodes. Expressions form a tree (never a cycle);
// once built they are never mutated by evaluation, so a lambda body may
// safely be shared across every invocation of that lambda.
package ast

import (
	"bytes"
	"fmt"

	"github.com/fragment-lang/fragment/internal/token"
	"github.com/fragment-lang/fragment/internal/value"
)

// Expression is any node in the AST. Every variant carries its own source
// position, used to annotate diagnostics raised while evaluating it.
type Expression interface {
	Pos() token.Position
	fmt.Stringer
}

// Atomic wraps either a literal Value or a deferred reference name; the
// IsReference flag disambiguates, since a reference's value isn't known
// until evaluation looks it up in scope.
type Atomic struct {
	Position    token.Position
	IsReference bool
	Name        string
	Literal     value.Value
}

func (a *Atomic) Pos() token.Position { return a.Position }

func (a *Atomic) String() string {
	if a.IsReference {
		return a.Name
	}
	return a.Literal.String()
}

// Self is the one-element-block form. It unwraps nullary function
// application: evaluating it calls the inner value with no arguments if
// the inner value is a function, and returns it unchanged otherwise.
type Self struct {
	Position token.Position
	Inner    Expression
}

func (s *Self) Pos() token.Position { return s.Position }
func (s *Self) String() string      { return fmt.Sprintf("(%s)", s.Inner) }

// Define evaluates Value in the current scope, binds Name to the result
// in the top frame, and returns that value.
type Define struct {
	Position token.Position
	Name     string
	Value    Expression
}

func (d *Define) Pos() token.Position { return d.Position }
func (d *Define) String() string      { return fmt.Sprintf("(define %s %s)", d.Name, d.Value) }

// Lambda evaluates to a new function value. Parameter arity is checked
// when that function is called, not when the Lambda node itself is
// evaluated.
type Lambda struct {
	Position token.Position
	Params   []string
	Body     Expression
}

func (l *Lambda) Pos() token.Position { return l.Position }

func (l *Lambda) String() string {
	var buf bytes.Buffer
	buf.WriteString("(lambda (")
	for i, p := range l.Params {
		if i > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(p)
	}
	fmt.Fprintf(&buf, ") %s)", l.Body)
	return buf.String()
}

// Conditional evaluates Cond, coerces it to boolean, and evaluates Then
// or Else accordingly; only the chosen branch is ever evaluated.
type Conditional struct {
	Position token.Position
	Cond     Expression
	Then     Expression
	Else     Expression
}

func (c *Conditional) Pos() token.Position { return c.Position }

func (c *Conditional) String() string {
	return fmt.Sprintf("(if %s %s %s)", c.Cond, c.Then, c.Else)
}

// OperatorKind is the closed set of operator expression kinds.
type OperatorKind int

const (
	OpAdd OperatorKind = iota
	OpSub
	OpMul
	OpDiv
	OpLt
	OpLe
	OpGt
	OpGe
	OpAnd
	OpOr
	OpNot
)

var operatorLexemes = [...]string{
	OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/",
	OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=",
	OpAnd: "&&", OpOr: "||", OpNot: "!",
}

func (k OperatorKind) String() string {
	if k >= 0 && int(k) < len(operatorLexemes) {
		return operatorLexemes[k]
	}
	return "?"
}

// Operator is a variadic (unary for Not) application of one operator
// kind, folded left to right over Args at evaluation time.
type Operator struct {
	Position token.Position
	Kind     OperatorKind
	Args     []Expression
}

func (o *Operator) Pos() token.Position { return o.Position }

func (o *Operator) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "(%s", o.Kind)
	for _, a := range o.Args {
		fmt.Fprintf(&buf, " %s", a)
	}
	buf.WriteByte(')')
	return buf.String()
}

// Function is a callee expression applied to one or more argument
// expressions. A call with no arguments is not representable here: that
// shape parses as Self instead (see ExpressionStream).
type Function struct {
	Position token.Position
	Callee   Expression
	Args     []Expression
}

func (f *Function) Pos() token.Position { return f.Position }

func (f *Function) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "(%s", f.Callee)
	for _, a := range f.Args {
		fmt.Fprintf(&buf, " %s", a)
	}
	buf.WriteByte(')')
	return buf.String()
}
