package value

import (
	"strings"

	"github.com/fragment-lang/fragment/internal/errs"
)

func notImplemented(format string, args ...any) error {
	return errs.NewUnpositioned(errs.NotImplemented, format, args...)
}

// liftBinary implements the "lift" rule: if either operand is a function,
// the result is a new function value that, when later called with a list
// of arguments, evaluates whichever side(s) are functions against those
// arguments and then applies op to the (now concrete) results. A function
// on both sides calls both; a function on one side is combined with the
// other side's value unchanged.
func liftBinary(op func(Value, Value) (Value, error), a, b Value) (Value, bool) {
	if a.Kind != Function && b.Kind != Function {
		return Value{}, false
	}
	return NewFunction(func(args []Value) (Value, error) {
		left, right := a, b
		if a.Kind == Function {
			v, err := a.Fn(args)
			if err != nil {
				return Value{}, err
			}
			left = v
		}
		if b.Kind == Function {
			v, err := b.Fn(args)
			if err != nil {
				return Value{}, err
			}
			right = v
		}
		return op(left, right)
	}), true
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func flipIfOtherTrue(a, b Value) bool {
	if b.Bool() {
		return !a.Bool()
	}
	return a.Bool()
}

func reverseBytes(s string) string {
	b := []byte(s)
	for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return string(b)
}

// repeat builds s repeated n times; a negative n repeats abs(n) times and
// reverses the result.
func repeat(n float64, s string) Value {
	count := int(n)
	reverse := count < 0
	if reverse {
		count = -count
	}
	var sb strings.Builder
	sb.Grow(count * len(s))
	for i := 0; i < count; i++ {
		sb.WriteString(s)
	}
	result := sb.String()
	if reverse {
		result = reverseBytes(result)
	}
	return NewString(result)
}

func selectString(flag bool, s string) Value {
	if flag {
		return NewString(s)
	}
	return NewString("")
}

// Add implements `+`. numeric+numeric adds; any combination touching a
// string concatenates string forms; the remaining numeric/boolean
// combinations xor (1-bit modular addition).
func Add(a, b Value) (Value, error) {
	if lifted, ok := liftBinary(Add, a, b); ok {
		return lifted, nil
	}
	if a.Kind == String || b.Kind == String {
		return NewString(a.String() + b.String()), nil
	}
	if a.Kind == Numeric && b.Kind == Numeric {
		return NewNumeric(a.Num + b.Num), nil
	}
	return NewBoolean(a.Bool() != b.Bool()), nil
}

// Sub implements `-`. numeric-numeric subtracts; strings never subtract;
// the remaining numeric/boolean combinations flip self if the other
// coerces true, else pass self through unchanged (1-bit modular
// subtraction).
func Sub(a, b Value) (Value, error) {
	if lifted, ok := liftBinary(Sub, a, b); ok {
		return lifted, nil
	}
	if a.Kind == String || b.Kind == String {
		return Value{}, notImplemented("subtraction is not defined for strings")
	}
	if a.Kind == Numeric && b.Kind == Numeric {
		return NewNumeric(a.Num - b.Num), nil
	}
	return NewBoolean(flipIfOtherTrue(a, b)), nil
}

// Mul implements `*`. Each left kind defines its own right-kind switch,
// matching the source this is grounded on exactly (the rule is not a
// single commutative dispatch: numeric*boolean yields a boolean AND, but
// boolean*numeric yields a numeric select; the string cases give the same
// result in either operand order).
func Mul(a, b Value) (Value, error) {
	if lifted, ok := liftBinary(Mul, a, b); ok {
		return lifted, nil
	}
	switch a.Kind {
	case Numeric:
		switch b.Kind {
		case Numeric:
			return NewNumeric(a.Num * b.Num), nil
		case String:
			return repeat(a.Num, b.Str), nil
		case Boolean:
			return NewBoolean(a.Bool() && b.Flag), nil
		}
	case String:
		switch b.Kind {
		case Numeric:
			return repeat(b.Num, a.Str), nil
		case Boolean:
			return selectString(b.Flag, a.Str), nil
		case String:
			return Value{}, notImplemented("multiplying two strings is not defined")
		}
	case Boolean:
		switch b.Kind {
		case Numeric:
			if a.Flag {
				return NewNumeric(b.Num), nil
			}
			return NewNumeric(0), nil
		case String:
			return selectString(a.Flag, b.Str), nil
		case Boolean:
			return NewBoolean(a.Flag && b.Flag), nil
		}
	}
	return Value{}, notImplemented("multiplication is not defined for %s * %s", a.Kind, b.Kind)
}

// Div implements `/`. Only numeric/numeric is defined (ordinary IEEE
// float division, so division by zero yields +/-Inf or NaN rather than
// an error). A boolean on the left is never divisible, even by a
// function.
func Div(a, b Value) (Value, error) {
	if a.Kind == Boolean {
		return Value{}, notImplemented("division is not defined for a boolean left operand")
	}
	if lifted, ok := liftBinary(Div, a, b); ok {
		return lifted, nil
	}
	if a.Kind == Numeric && b.Kind == Numeric {
		return NewNumeric(a.Num / b.Num), nil
	}
	return Value{}, notImplemented("division is not defined for %s / %s", a.Kind, b.Kind)
}

func compareOp(
	self func(Value, Value) (Value, error),
	a, b Value,
	numOp func(x, y float64) bool,
	boolOp func(x, y bool) bool,
) (Value, error) {
	if lifted, ok := liftBinary(self, a, b); ok {
		return lifted, nil
	}
	if a.Kind == String || b.Kind == String {
		return Value{}, notImplemented("comparison is not defined for strings")
	}
	if a.Kind == Numeric && b.Kind == Numeric {
		return NewBoolean(numOp(a.Num, b.Num)), nil
	}
	return NewBoolean(boolOp(a.Bool(), b.Bool())), nil
}

// Lt implements `<`.
func Lt(a, b Value) (Value, error) {
	return compareOp(Lt, a, b,
		func(x, y float64) bool { return x < y },
		func(x, y bool) bool { return boolToInt(x) < boolToInt(y) })
}

// Le implements `<=`.
func Le(a, b Value) (Value, error) {
	return compareOp(Le, a, b,
		func(x, y float64) bool { return x <= y },
		func(x, y bool) bool { return boolToInt(x) <= boolToInt(y) })
}

// Gt implements `>`.
func Gt(a, b Value) (Value, error) {
	return compareOp(Gt, a, b,
		func(x, y float64) bool { return x > y },
		func(x, y bool) bool { return boolToInt(x) > boolToInt(y) })
}

// Ge implements `>=`.
func Ge(a, b Value) (Value, error) {
	return compareOp(Ge, a, b,
		func(x, y float64) bool { return x >= y },
		func(x, y bool) bool { return boolToInt(x) >= boolToInt(y) })
}

// And implements `&&`. Both operands always coerce to boolean; this
// never errors for non-function operands.
func And(a, b Value) (Value, error) {
	if lifted, ok := liftBinary(And, a, b); ok {
		return lifted, nil
	}
	return NewBoolean(a.Bool() && b.Bool()), nil
}

// Or implements `||`.
func Or(a, b Value) (Value, error) {
	if lifted, ok := liftBinary(Or, a, b); ok {
		return lifted, nil
	}
	return NewBoolean(a.Bool() || b.Bool()), nil
}

// Not implements `!`. Applied to a function, it yields a new function
// that negates the inner function's result after calling it.
func Not(a Value) (Value, error) {
	if a.Kind == Function {
		inner := a.Fn
		return NewFunction(func(args []Value) (Value, error) {
			v, err := inner(args)
			if err != nil {
				return Value{}, err
			}
			return Not(v)
		}), nil
	}
	return NewBoolean(!a.Bool()), nil
}
