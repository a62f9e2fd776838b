package ast

import (
	"iter"
	"strconv"

	"github.com/fragment-lang/fragment/internal/block"
	"github.com/fragment-lang/fragment/internal/errs"
	"github.com/fragment-lang/fragment/internal/token"
	"github.com/fragment-lang/fragment/internal/value"
)

var operatorKinds = map[string]OperatorKind{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv,
	"<": OpLt, "<=": OpLe, ">": OpGt, ">=": OpGe,
	"&&": OpAnd, "||": OpOr, "!": OpNot,
}

// Stream pulls blocks from an underlying block.Stream and converts each
// top-level block into an Expression.
type Stream struct {
	blocks *block.Stream
	err    error
}

// New wraps a block sequence for expression parsing.
func New(blocks *block.Stream) *Stream { return &Stream{blocks: blocks} }

// Err returns the error that stopped the expression sequence early, if
// any block-parsing error or expression-building error occurred.
func (s *Stream) Err() error { return s.err }

// Expressions returns the lazy expression sequence.
func (s *Stream) Expressions() iter.Seq[Expression] {
	return func(yield func(Expression) bool) {
		for b := range s.blocks.Blocks() {
			if b.IsEOFSentinel() {
				return
			}
			expr, err := fromBlock(b)
			if err != nil {
				s.err = err
				return
			}
			if !yield(expr) {
				return
			}
		}
		if s.blocks.Err() != nil {
			s.err = s.blocks.Err()
		}
	}
}

// fromBlock converts one block into an Expression following the grammar:
// a size-1 block is always Self, regardless of what it contains; a block
// led by a keyword or operation token is a special form; anything else is
// a function call. A size-0 block (empty parens) has no callee and is
// always a parse error.
func fromBlock(b *block.Block) (Expression, error) {
	switch len(b.Elements) {
	case 0:
		return nil, errs.New(errs.InvalidExpression, b.Position,
			"empty parentheses are not a valid expression; use (name) to call a function with no arguments via self-evaluation")
	case 1:
		inner, err := elementToExpr(b.Elements[0])
		if err != nil {
			return nil, err
		}
		return &Self{Position: b.Position, Inner: inner}, nil
	}

	first := b.Elements[0]
	if !first.IsBlock() && first.Token.Type == token.KEYWORD {
		return fromKeyword(b, first.Token)
	}
	if !first.IsBlock() && first.Token.Type == token.OPERATION {
		return fromOperation(b, first.Token)
	}
	return fromCall(b, first)
}

func fromCall(b *block.Block, first block.Element) (Expression, error) {
	callee, err := elementToExpr(first)
	if err != nil {
		return nil, err
	}
	args := make([]Expression, 0, len(b.Elements)-1)
	for _, e := range b.Elements[1:] {
		arg, err := elementToExpr(e)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &Function{Position: b.Position, Callee: callee, Args: args}, nil
}

func fromKeyword(b *block.Block, kw token.Token) (Expression, error) {
	rest := b.Elements[1:]
	switch kw.Literal {
	case "define":
		if len(rest) != 2 {
			return nil, errs.New(errs.InvalidExpression, b.Position,
				"define expects 2 arguments (name value), got %d", len(rest))
		}
		if rest[0].IsBlock() || rest[0].Token.Type != token.REFERENCE {
			return nil, errs.New(errs.InvalidExpression, b.Position,
				"define's first argument must be a reference name")
		}
		val, err := elementToExpr(rest[1])
		if err != nil {
			return nil, err
		}
		return &Define{Position: b.Position, Name: rest[0].Token.Literal, Value: val}, nil

	case "lambda":
		if len(rest) != 2 {
			return nil, errs.New(errs.InvalidExpression, b.Position,
				"lambda expects 2 arguments (parameters body), got %d", len(rest))
		}
		if !rest[0].IsBlock() {
			return nil, errs.New(errs.InvalidExpression, b.Position,
				"lambda's first argument must be a parenthesized parameter list")
		}
		params := make([]string, 0, len(rest[0].Block.Elements))
		for _, p := range rest[0].Block.Elements {
			if p.IsBlock() || p.Token.Type != token.REFERENCE {
				return nil, errs.New(errs.InvalidExpression, rest[0].Block.Position,
					"lambda parameter list must contain only reference names")
			}
			params = append(params, p.Token.Literal)
		}
		body, err := elementToExpr(rest[1])
		if err != nil {
			return nil, err
		}
		return &Lambda{Position: b.Position, Params: params, Body: body}, nil

	case "if":
		if len(rest) != 3 {
			return nil, errs.New(errs.InvalidExpression, b.Position,
				"if expects 3 arguments (condition then else), got %d", len(rest))
		}
		cond, err := elementToExpr(rest[0])
		if err != nil {
			return nil, err
		}
		then, err := elementToExpr(rest[1])
		if err != nil {
			return nil, err
		}
		els, err := elementToExpr(rest[2])
		if err != nil {
			return nil, err
		}
		return &Conditional{Position: b.Position, Cond: cond, Then: then, Else: els}, nil
	}
	return nil, errs.New(errs.InvalidExpression, b.Position, "unknown keyword %q", kw.Literal)
}

func fromOperation(b *block.Block, op token.Token) (Expression, error) {
	kind, ok := operatorKinds[op.Literal]
	if !ok {
		return nil, errs.New(errs.InvalidExpression, b.Position, "unknown operator %q", op.Literal)
	}
	rest := b.Elements[1:]
	if len(rest) == 0 {
		return nil, errs.New(errs.InvalidExpression, b.Position, "operator %q requires at least one argument", op.Literal)
	}
	if kind == OpNot && len(rest) != 1 {
		return nil, errs.New(errs.InvalidExpression, b.Position, "'!' requires exactly one argument, got %d", len(rest))
	}
	args := make([]Expression, 0, len(rest))
	for _, e := range rest {
		arg, err := elementToExpr(e)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	return &Operator{Position: b.Position, Kind: kind, Args: args}, nil
}

func elementToExpr(e block.Element) (Expression, error) {
	if e.IsBlock() {
		return fromBlock(e.Block)
	}
	return atomicFromToken(e.Token)
}

func atomicFromToken(tok token.Token) (Expression, error) {
	switch tok.Type {
	case token.NUMERIC:
		n, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, errs.New(errs.InvalidExpression, tok.Position, "malformed numeric literal %q", tok.Literal)
		}
		return &Atomic{Position: tok.Position, Literal: value.NewNumeric(n)}, nil
	case token.BOOLEAN:
		return &Atomic{Position: tok.Position, Literal: value.NewBoolean(tok.Literal == "true")}, nil
	case token.STRING_LITERAL:
		return &Atomic{Position: tok.Position, Literal: value.NewString(tok.Literal)}, nil
	case token.REFERENCE:
		return &Atomic{Position: tok.Position, IsReference: true, Name: tok.Literal}, nil
	default:
		return nil, errs.New(errs.InvalidExpression, tok.Position, "unexpected %s token in expression position", tok.Type)
	}
}
