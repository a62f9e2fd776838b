package ast

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/fragment-lang/fragment/internal/block"
	"github.com/fragment-lang/fragment/internal/lexer"
	"github.com/fragment-lang/fragment/internal/value"
)

// treeDiffOpts ignores Position (irrelevant to tree shape, and tedious to
// hand-compute for every node of an expected tree) and Value.Fn (a closure,
// never comparable by go-cmp).
var treeDiffOpts = cmp.Options{
	cmpopts.IgnoreFields(Atomic{}, "Position"),
	cmpopts.IgnoreFields(Self{}, "Position"),
	cmpopts.IgnoreFields(Define{}, "Position"),
	cmpopts.IgnoreFields(Lambda{}, "Position"),
	cmpopts.IgnoreFields(Conditional{}, "Position"),
	cmpopts.IgnoreFields(Operator{}, "Position"),
	cmpopts.IgnoreFields(Function{}, "Position"),
	cmpopts.IgnoreFields(value.Value{}, "Fn"),
}

func parseExpressions(t *testing.T, src string) ([]Expression, error) {
	t.Helper()
	l := lexer.New(src)
	bs := block.New(l.Tokens())
	es := New(bs)
	var out []Expression
	for e := range es.Expressions() {
		out = append(out, e)
	}
	return out, es.Err()
}

func TestExpressionStream_OperatorForm(t *testing.T) {
	exprs, err := parseExpressions(t, `(+ 1 2)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exprs) != 1 {
		t.Fatalf("expected 1 expression, got %d", len(exprs))
	}
	op, ok := exprs[0].(*Operator)
	if !ok {
		t.Fatalf("expected *Operator, got %T", exprs[0])
	}
	if op.Kind != OpAdd || len(op.Args) != 2 {
		t.Errorf("unexpected operator shape: %+v", op)
	}
}

func TestExpressionStream_SizeOneBlockIsSelf(t *testing.T) {
	exprs, err := parseExpressions(t, `(foo)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	self, ok := exprs[0].(*Self)
	if !ok {
		t.Fatalf("expected *Self, got %T", exprs[0])
	}
	atom, ok := self.Inner.(*Atomic)
	if !ok || !atom.IsReference || atom.Name != "foo" {
		t.Errorf("expected Self to wrap reference 'foo', got %+v", self.Inner)
	}
}

func TestExpressionStream_EmptyParensIsError(t *testing.T) {
	_, err := parseExpressions(t, `()`)
	if err == nil {
		t.Errorf("expected empty parentheses to be a parse error")
	}
}

func TestExpressionStream_Define(t *testing.T) {
	exprs, err := parseExpressions(t, `(define x 5)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d, ok := exprs[0].(*Define)
	if !ok {
		t.Fatalf("expected *Define, got %T", exprs[0])
	}
	if d.Name != "x" {
		t.Errorf("expected name x, got %s", d.Name)
	}
}

func TestExpressionStream_DefineWrongArityErrors(t *testing.T) {
	_, err := parseExpressions(t, `(define x)`)
	if err == nil {
		t.Errorf("expected define with 1 argument to error")
	}
}

func TestExpressionStream_DefineNonReferenceNameErrors(t *testing.T) {
	_, err := parseExpressions(t, `(define 5 5)`)
	if err == nil {
		t.Errorf("expected define with non-reference name to error")
	}
}

func TestExpressionStream_Lambda(t *testing.T) {
	exprs, err := parseExpressions(t, `(lambda (a b) (+ a b))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l, ok := exprs[0].(*Lambda)
	if !ok {
		t.Fatalf("expected *Lambda, got %T", exprs[0])
	}
	if len(l.Params) != 2 || l.Params[0] != "a" || l.Params[1] != "b" {
		t.Errorf("unexpected params: %v", l.Params)
	}
}

func TestExpressionStream_LambdaNonBlockParamsErrors(t *testing.T) {
	_, err := parseExpressions(t, `(lambda a a)`)
	if err == nil {
		t.Errorf("expected lambda with non-block parameter list to error")
	}
}

func TestExpressionStream_Conditional(t *testing.T) {
	exprs, err := parseExpressions(t, `(if true 1 2)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := exprs[0].(*Conditional)
	if !ok {
		t.Fatalf("expected *Conditional, got %T", exprs[0])
	}
	if c.Cond == nil || c.Then == nil || c.Else == nil {
		t.Errorf("expected all three branches to be populated")
	}
}

func TestExpressionStream_ConditionalWrongArityErrors(t *testing.T) {
	_, err := parseExpressions(t, `(if true 1)`)
	if err == nil {
		t.Errorf("expected if with 2 arguments to error")
	}
}

func TestExpressionStream_NotRequiresExactlyOneArgument(t *testing.T) {
	_, err := parseExpressions(t, `(! true false)`)
	if err == nil {
		t.Errorf("expected ! with 2 arguments to error")
	}
}

func TestExpressionStream_UnknownOperatorErrors(t *testing.T) {
	_, err := parseExpressions(t, `(= 1 2)`)
	if err == nil {
		t.Errorf("expected '=' to be rejected by the expression parser")
	}
}

func TestExpressionStream_NestedFunctionCall(t *testing.T) {
	exprs, err := parseExpressions(t, `(print (+ 1 2))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := exprs[0].(*Function)
	if !ok {
		t.Fatalf("expected *Function, got %T", exprs[0])
	}
	if _, ok := f.Args[0].(*Operator); !ok {
		t.Errorf("expected nested argument to be an *Operator, got %T", f.Args[0])
	}
}

func TestExpressionStream_EmptySourceYieldsNoExpressions(t *testing.T) {
	exprs, err := parseExpressions(t, ``)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exprs) != 0 {
		t.Errorf("expected no expressions, got %d", len(exprs))
	}
}

func TestExpressionStream_DeepEqualityAgainstExpectedTree(t *testing.T) {
	exprs, err := parseExpressions(t, `(define square (lambda (n) (* n n)))`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(exprs) != 1 {
		t.Fatalf("expected 1 expression, got %d", len(exprs))
	}

	want := []Expression{
		&Define{
			Name: "square",
			Value: &Lambda{
				Params: []string{"n"},
				Body: &Operator{
					Kind: OpMul,
					Args: []Expression{
						&Atomic{IsReference: true, Name: "n"},
						&Atomic{IsReference: true, Name: "n"},
					},
				},
			},
		},
	}

	if diff := cmp.Diff(want, exprs, treeDiffOpts); diff != "" {
		t.Errorf("unexpected expression tree (-want +got):\n%s", diff)
	}
}

func TestOperatorString(t *testing.T) {
	op := &Operator{Kind: OpAdd, Args: []Expression{
		&Atomic{Literal: value.NewNumeric(1)},
		&Atomic{Literal: value.NewNumeric(2)},
	}}
	if !strings.HasPrefix(op.String(), "(+") {
		t.Errorf("unexpected operator string: %s", op.String())
	}
}
