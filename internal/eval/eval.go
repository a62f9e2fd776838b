// Package eval implements Evaluate: the tree-walking dispatch from an
// ast.Expression and a scope to a runtime value.Value.
package eval

import (
	"github.com/fragment-lang/fragment/internal/ast"
	"github.com/fragment-lang/fragment/internal/errs"
	"github.com/fragment-lang/fragment/internal/scope"
	"github.com/fragment-lang/fragment/internal/token"
	"github.com/fragment-lang/fragment/internal/value"
)

var binaryOps = map[ast.OperatorKind]func(value.Value, value.Value) (value.Value, error){
	ast.OpAdd: value.Add,
	ast.OpSub: value.Sub,
	ast.OpMul: value.Mul,
	ast.OpDiv: value.Div,
	ast.OpLt:  value.Lt,
	ast.OpLe:  value.Le,
	ast.OpGt:  value.Gt,
	ast.OpGe:  value.Ge,
	ast.OpAnd: value.And,
	ast.OpOr:  value.Or,
}

// Evaluate walks expr against sc, dispatching on its concrete type. It
// never recovers from an error returned by a sub-evaluation: the first
// error encountered propagates unchanged to the caller.
func Evaluate(expr ast.Expression, sc *scope.Scope) (value.Value, error) {
	switch e := expr.(type) {

	case *ast.Atomic:
		if e.IsReference {
			v, err := sc.Get(e.Name)
			if err != nil {
				return value.Value{}, annotate(err, e.Position)
			}
			return v, nil
		}
		return e.Literal, nil

	case *ast.Self:
		v, err := Evaluate(e.Inner, sc)
		if err != nil {
			return value.Value{}, err
		}
		if v.Kind != value.Function {
			return v, nil
		}
		return v.Call(nil)

	case *ast.Define:
		v, err := Evaluate(e.Value, sc)
		if err != nil {
			return value.Value{}, err
		}
		return sc.Set(e.Name, v), nil

	case *ast.Lambda:
		return evalLambda(e, sc), nil

	case *ast.Conditional:
		cond, err := Evaluate(e.Cond, sc)
		if err != nil {
			return value.Value{}, err
		}
		if cond.Bool() {
			return Evaluate(e.Then, sc)
		}
		return Evaluate(e.Else, sc)

	case *ast.Operator:
		return evalOperator(e, sc)

	case *ast.Function:
		return evalCall(e, sc)
	}

	return value.Value{}, errs.New(errs.InvalidExpression, expr.Pos(), "unknown expression node %T", expr)
}

// evalLambda builds a function value that closes over sc by reference:
// a later (define ...) in an enclosing frame is visible to every call of
// this lambda, because the lambda carries the *scope.Scope itself, not a
// copy of its bindings.
func evalLambda(l *ast.Lambda, sc *scope.Scope) value.Value {
	return value.NewFunction(func(args []value.Value) (value.Value, error) {
		if len(args) != len(l.Params) {
			return value.Value{}, errs.NewUnpositioned(errs.NotImplemented,
				"lambda expects %d argument(s), got %d", len(l.Params), len(args))
		}
		sc.Push()
		defer sc.Pop()
		for i, p := range l.Params {
			sc.Set(p, args[i])
		}
		return Evaluate(l.Body, sc)
	})
}

func evalOperator(o *ast.Operator, sc *scope.Scope) (value.Value, error) {
	if o.Kind == ast.OpNot {
		v, err := Evaluate(o.Args[0], sc)
		if err != nil {
			return value.Value{}, err
		}
		result, err := value.Not(v)
		if err != nil {
			return value.Value{}, annotate(err, o.Position)
		}
		return result, nil
	}

	op, ok := binaryOps[o.Kind]
	if !ok {
		return value.Value{}, errs.New(errs.InvalidExpression, o.Position, "unknown operator kind %v", o.Kind)
	}

	acc, err := Evaluate(o.Args[0], sc)
	if err != nil {
		return value.Value{}, err
	}
	for _, arg := range o.Args[1:] {
		v, err := Evaluate(arg, sc)
		if err != nil {
			return value.Value{}, err
		}
		acc, err = op(acc, v)
		if err != nil {
			return value.Value{}, annotate(err, o.Position)
		}
	}
	return acc, nil
}

func evalCall(f *ast.Function, sc *scope.Scope) (value.Value, error) {
	callee, err := Evaluate(f.Callee, sc)
	if err != nil {
		return value.Value{}, err
	}
	if callee.Kind != value.Function {
		return value.Value{}, errs.New(errs.InvalidExpression, f.Position,
			"attempted to call a %s value, which is not callable", callee.Kind)
	}
	args := make([]value.Value, len(f.Args))
	for i, a := range f.Args {
		v, err := Evaluate(a, sc)
		if err != nil {
			return value.Value{}, err
		}
		args[i] = v
	}
	result, err := callee.Call(args)
	if err != nil {
		return value.Value{}, annotate(err, f.Position)
	}
	return result, nil
}

// annotate attaches pos to an *errs.Error raised without one, e.g. the
// not_implemented errors raised from within package value, which knows
// nothing about source positions.
func annotate(err error, pos token.Position) error {
	fe, ok := err.(*errs.Error)
	if !ok {
		return err
	}
	if fe.Position != token.Invalid {
		return err
	}
	return errs.New(fe.Kind, pos, "%s", fe.Message)
}
