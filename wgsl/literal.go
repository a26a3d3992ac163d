package wgsl

import "strconv"

// LiteralKind discriminates the variants of a Literal.
// The declaration order below defines the cross-kind comparison order.
type LiteralKind uint8

const (
	LitInteger LiteralKind = iota
	LitFloat
	LitBool
)

// String returns the lowercase kind name.
func (k LiteralKind) String() string {
	switch k {
	case LitInteger:
		return "integer"
	case LitFloat:
		return "float"
	case LitBool:
		return "bool"
	default:
		return "LiteralKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Literal is a typed constant value: a 64-bit integer, a 64-bit float, or a
// boolean. Only the payload field selected by Kind is meaningful.
type Literal struct {
	Kind  LiteralKind
	Int   int64
	Float float64
	Bool  bool
}

// Integer returns an integer literal.
func Integer(v int64) Literal {
	return Literal{Kind: LitInteger, Int: v}
}

// Float returns a float literal.
func Float(v float64) Literal {
	return Literal{Kind: LitFloat, Float: v}
}

// Bool returns a boolean literal.
func Bool(v bool) Literal {
	return Literal{Kind: LitBool, Bool: v}
}

// String renders the literal the way it appears in emitted const
// declarations: integers in base 10, floats in plain decimal notation with
// the fewest digits that round-trip, booleans as true or false.
func (l Literal) String() string {
	switch l.Kind {
	case LitInteger:
		return strconv.FormatInt(l.Int, 10)
	case LitFloat:
		return strconv.FormatFloat(l.Float, 'f', -1, 64)
	case LitBool:
		return strconv.FormatBool(l.Bool)
	default:
		return ""
	}
}

// Truthy reports whether the literal selects the true branch of a
// conditional: a nonzero integer, a nonzero float, or boolean true.
func (l Literal) Truthy() bool {
	switch l.Kind {
	case LitInteger:
		return l.Int != 0
	case LitFloat:
		return l.Float != 0
	case LitBool:
		return l.Bool
	default:
		return false
	}
}

// Equal reports whether two literals have the same kind and payload.
// Literals of different kinds are unequal, never an error.
func (l Literal) Equal(o Literal) bool {
	if l.Kind != o.Kind {
		return false
	}

	switch l.Kind {
	case LitInteger:
		return l.Int == o.Int
	case LitFloat:
		return l.Float == o.Float
	case LitBool:
		return l.Bool == o.Bool
	default:
		return false
	}
}

// Ordered comparisons across kinds follow the kind declaration order
// (integer < float < bool); within a kind they follow the payload's native
// order, so float comparisons against NaN are always false and false sorts
// before true.

func (l Literal) less(o Literal) bool {
	if l.Kind != o.Kind {
		return l.Kind < o.Kind
	}

	switch l.Kind {
	case LitInteger:
		return l.Int < o.Int
	case LitFloat:
		return l.Float < o.Float
	default:
		return !l.Bool && o.Bool
	}
}

func (l Literal) lessEq(o Literal) bool {
	if l.Kind != o.Kind {
		return l.Kind < o.Kind
	}

	switch l.Kind {
	case LitInteger:
		return l.Int <= o.Int
	case LitFloat:
		return l.Float <= o.Float
	default:
		return !l.Bool || o.Bool
	}
}

func (l Literal) greater(o Literal) bool { return o.less(l) }

func (l Literal) greaterEq(o Literal) bool { return o.lessEq(l) }
