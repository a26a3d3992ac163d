package wgsl

import (
	"log/slog"
	"strings"
)

// Operator identifies a binary arithmetic or bitwise operation.
type Operator uint8

const (
	OpAdd Operator = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpBitwiseAnd
	OpBitwiseOr
)

// String returns the operator's source symbol.
func (op Operator) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpBitwiseAnd:
		return "&"
	case OpBitwiseOr:
		return "|"
	default:
		return "?"
	}
}

// UnaryOp identifies a unary prefix operation.
type UnaryOp uint8

const (
	UnaryNegate UnaryOp = iota
	UnaryNot
	UnaryBitwiseNot
)

// String returns the operator's source symbol.
func (op UnaryOp) String() string {
	switch op {
	case UnaryNegate:
		return "-"
	case UnaryNot:
		return "!"
	case UnaryBitwiseNot:
		return "~"
	default:
		return "?"
	}
}

// Comparison identifies a comparison or boolean connective.
type Comparison uint8

const (
	CmpEqual Comparison = iota
	CmpNotEqual
	CmpLess
	CmpLessOrEqual
	CmpGreater
	CmpGreaterOrEqual
	CmpAnd
	CmpOr
)

// String returns the comparison's source symbol.
func (cmp Comparison) String() string {
	switch cmp {
	case CmpEqual:
		return "=="
	case CmpNotEqual:
		return "!="
	case CmpLess:
		return "<"
	case CmpLessOrEqual:
		return "<="
	case CmpGreater:
		return ">"
	case CmpGreaterOrEqual:
		return ">="
	case CmpAnd:
		return "&&"
	case CmpOr:
		return "||"
	default:
		return "?"
	}
}

// Expr is one node of a parsed expression tree.
//
// Binary operators carry no precedence and associate to the right, so
// "a - b - c" evaluates as "a - (b - c)". Parenthesize to control grouping.
type Expr interface {
	// Evaluate resolves the expression against env.
	Evaluate(env *State) (Literal, error)

	// String returns the canonical source form of the expression.
	String() string
}

// LiteralExpr is a literal constant.
type LiteralExpr struct {
	Value Literal
}

// Evaluate returns the wrapped literal.
func (e *LiteralExpr) Evaluate(*State) (Literal, error) {
	return e.Value, nil
}

// String returns the literal's source form. Unlike the rendered value form,
// an integral float keeps a trailing ".0" here, since the period is what
// distinguishes a float literal from an integer when parsed.
func (e *LiteralExpr) String() string {
	s := e.Value.String()

	if e.Value.Kind == LitFloat && !strings.Contains(s, ".") {
		return s + ".0"
	}

	return s
}

// RefExpr references a variable by name.
type RefExpr struct {
	Name string
}

// Evaluate looks the name up in env. An unknown name is an error, never a
// silent default value.
func (e *RefExpr) Evaluate(env *State) (Literal, error) {
	value, ok := env.Get(e.Name)
	if !ok {
		return Literal{}, undefinedVariable(env, e.Name)
	}

	return value, nil
}

func (e *RefExpr) String() string { return e.Name }

// UnaryExpr applies a prefix operator to its operand.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

// Evaluate applies the operator: negate on integers and floats, logical not
// on booleans, bitwise complement on integers. Any other operand kind is an
// invalid expression.
func (e *UnaryExpr) Evaluate(env *State) (Literal, error) {
	operand, err := e.Operand.Evaluate(env)
	if err != nil {
		return Literal{}, err
	}

	switch {
	case e.Op == UnaryNegate && operand.Kind == LitInteger:
		return Integer(-operand.Int), nil

	case e.Op == UnaryNegate && operand.Kind == LitFloat:
		return Float(-operand.Float), nil

	case e.Op == UnaryNot && operand.Kind == LitBool:
		return Bool(!operand.Bool), nil

	case e.Op == UnaryBitwiseNot && operand.Kind == LitInteger:
		return Integer(^operand.Int), nil
	}

	return Literal{}, ErrInvalidExpression.With(
		slog.String("op", e.Op.String()),
		slog.String("operand", operand.Kind.String()),
	)
}

func (e *UnaryExpr) String() string {
	return e.Op.String() + e.Operand.String()
}

// BinaryExpr applies a binary arithmetic or bitwise operator.
type BinaryExpr struct {
	Left  Expr
	Op    Operator
	Right Expr
}

// Evaluate resolves both operands and applies the operator. Arithmetic
// requires two integers or two floats; the bitwise operators also accept two
// booleans (non-short-circuit logic). Mixed operand kinds are an invalid
// expression.
//
// Integer division truncates toward zero, and dividing an integer by zero
// panics just as native integer division does.
func (e *BinaryExpr) Evaluate(env *State) (Literal, error) {
	left, err := e.Left.Evaluate(env)
	if err != nil {
		return Literal{}, err
	}

	right, err := e.Right.Evaluate(env)
	if err != nil {
		return Literal{}, err
	}

	switch {
	case left.Kind == LitInteger && right.Kind == LitInteger:
		switch e.Op {
		case OpAdd:
			return Integer(left.Int + right.Int), nil
		case OpSubtract:
			return Integer(left.Int - right.Int), nil
		case OpMultiply:
			return Integer(left.Int * right.Int), nil
		case OpDivide:
			return Integer(left.Int / right.Int), nil
		case OpBitwiseAnd:
			return Integer(left.Int & right.Int), nil
		case OpBitwiseOr:
			return Integer(left.Int | right.Int), nil
		}

	case left.Kind == LitFloat && right.Kind == LitFloat:
		switch e.Op {
		case OpAdd:
			return Float(left.Float + right.Float), nil
		case OpSubtract:
			return Float(left.Float - right.Float), nil
		case OpMultiply:
			return Float(left.Float * right.Float), nil
		case OpDivide:
			return Float(left.Float / right.Float), nil
		}

	case left.Kind == LitBool && right.Kind == LitBool:
		switch e.Op {
		case OpBitwiseAnd:
			return Bool(left.Bool && right.Bool), nil
		case OpBitwiseOr:
			return Bool(left.Bool || right.Bool), nil
		}
	}

	return Literal{}, ErrInvalidExpression.With(
		slog.String("op", e.Op.String()),
		slog.String("left", left.Kind.String()),
		slog.String("right", right.Kind.String()),
	)
}

func (e *BinaryExpr) String() string {
	return e.Left.String() + " " + e.Op.String() + " " + e.Right.String()
}

// CompareExpr applies a comparison or boolean connective.
type CompareExpr struct {
	Left  Expr
	Cmp   Comparison
	Right Expr
}

// Evaluate resolves the comparison to a boolean literal.
//
// Equal and NotEqual accept any two literals; ordered comparisons follow the
// kind-then-payload order described on Literal. And and Or short-circuit: a
// false (respectively true) left operand decides the result without
// evaluating the right operand, and a non-boolean left operand is an invalid
// expression. When the right operand is evaluated by And or Or, its literal
// is returned as-is.
func (e *CompareExpr) Evaluate(env *State) (Literal, error) {
	left, err := e.Left.Evaluate(env)
	if err != nil {
		return Literal{}, err
	}

	switch e.Cmp {
	case CmpAnd:
		if left.Kind != LitBool {
			return Literal{}, ErrInvalidExpression.With(
				slog.String("op", e.Cmp.String()),
				slog.String("left", left.Kind.String()),
			)
		}

		if !left.Bool {
			return Bool(false), nil
		}

		return e.Right.Evaluate(env)

	case CmpOr:
		if left.Kind != LitBool {
			return Literal{}, ErrInvalidExpression.With(
				slog.String("op", e.Cmp.String()),
				slog.String("left", left.Kind.String()),
			)
		}

		if left.Bool {
			return Bool(true), nil
		}

		return e.Right.Evaluate(env)
	}

	right, err := e.Right.Evaluate(env)
	if err != nil {
		return Literal{}, err
	}

	switch e.Cmp {
	case CmpEqual:
		return Bool(left.Equal(right)), nil
	case CmpNotEqual:
		return Bool(!left.Equal(right)), nil
	case CmpLess:
		return Bool(left.less(right)), nil
	case CmpLessOrEqual:
		return Bool(left.lessEq(right)), nil
	case CmpGreater:
		return Bool(left.greater(right)), nil
	default:
		return Bool(left.greaterEq(right)), nil
	}
}

func (e *CompareExpr) String() string {
	return e.Left.String() + " " + e.Cmp.String() + " " + e.Right.String()
}

// ParenExpr preserves an explicit parenthesized grouping.
type ParenExpr struct {
	Inner Expr
}

// Evaluate resolves the inner expression.
func (e *ParenExpr) Evaluate(env *State) (Literal, error) {
	return e.Inner.Evaluate(env)
}

func (e *ParenExpr) String() string {
	return "(" + e.Inner.String() + ")"
}

// walkRefs visits every variable name referenced by the expression in
// source order.
func walkRefs(e Expr, visit func(name string)) {
	switch v := e.(type) {
	case *RefExpr:
		visit(v.Name)
	case *UnaryExpr:
		walkRefs(v.Operand, visit)
	case *BinaryExpr:
		walkRefs(v.Left, visit)
		walkRefs(v.Right, visit)
	case *CompareExpr:
		walkRefs(v.Left, visit)
		walkRefs(v.Right, visit)
	case *ParenExpr:
		walkRefs(v.Inner, visit)
	}
}
