package wgsl

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode"

	"github.com/ardnew/wgslpp/log"
)

// ParseExpression parses source into an expression tree.
//
// Whitespace is insignificant and removed before scanning, so "1+2" and
// " 1 + 2 " parse identically. Input remaining after a complete expression
// is an error.
func ParseExpression(ctx context.Context, source string) (Expr, error) {
	expr, err := parseExpression(source)
	if err != nil {
		return nil, err
	}

	log.TraceContext(ctx, "expression parsed",
		slog.String("source", source),
		slog.String("parsed", expr.String()))

	return expr, nil
}

func parseExpression(source string) (Expr, error) {
	c := newCursor(source)

	expr, err := parseExpr(c, false)
	if err != nil {
		return nil, err
	}

	if expr == nil {
		return nil, ErrNoExpression
	}

	if !c.eof() {
		return nil, ErrLeftoverChars.With(slog.String("rest", c.rest()))
	}

	return expr, nil
}

// cursor scans a rune sequence with arbitrary lookahead.
type cursor struct {
	src []rune
	pos int
}

// newCursor returns a cursor over source with all whitespace removed.
func newCursor(source string) *cursor {
	src := make([]rune, 0, len(source))

	for _, r := range source {
		if !unicode.IsSpace(r) {
			src = append(src, r)
		}
	}

	return &cursor{src: src}
}

func (c *cursor) eof() bool { return c.pos >= len(c.src) }

func (c *cursor) peek() (rune, bool) { return c.peekAt(0) }

func (c *cursor) peekAt(n int) (rune, bool) {
	if c.pos+n >= len(c.src) {
		return 0, false
	}

	return c.src[c.pos+n], true
}

func (c *cursor) next() (rune, bool) {
	if c.eof() {
		return 0, false
	}

	r := c.src[c.pos]
	c.pos++

	return r, true
}

func (c *cursor) advance(n int) { c.pos += n }

func (c *cursor) rest() string { return string(c.src[c.pos:]) }

// parseExpr parses one expression beginning at the cursor. With shallow set
// it stops after the first operand instead of continuing into a binary
// operator, which is how unary operators bind tighter than binary ones.
//
// A nil, nil return means no expression begins at the cursor.
func parseExpr(c *cursor, shallow bool) (Expr, error) {
	single, err := parseOperand(c)
	if err != nil || single == nil {
		return nil, err
	}

	if shallow {
		return single, nil
	}

	return parseBinary(c, single)
}

// parseRequired parses an expression that must be present.
func parseRequired(c *cursor, shallow bool) (Expr, error) {
	expr, err := parseExpr(c, shallow)
	if err != nil {
		return nil, err
	}

	if expr == nil {
		return nil, ErrNoExpression
	}

	return expr, nil
}

// parseOperand parses a single operand: a unary operation, a parenthesized
// expression, a number, a boolean, or a variable reference.
func parseOperand(c *cursor) (Expr, error) {
	ch, ok := c.peek()
	if !ok {
		return nil, nil
	}

	switch {
	case ch == '!':
		c.next()

		operand, err := parseRequired(c, true)
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Op: UnaryNot, Operand: operand}, nil

	case ch == '~':
		c.next()

		operand, err := parseRequired(c, true)
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Op: UnaryBitwiseNot, Operand: operand}, nil

	case ch == '-':
		c.next()

		operand, err := parseRequired(c, true)
		if err != nil {
			return nil, err
		}

		return &UnaryExpr{Op: UnaryNegate, Operand: operand}, nil

	case ch == '(':
		c.next()

		inner, err := parseRequired(c, false)
		if err != nil {
			return nil, err
		}

		if r, ok := c.next(); !ok || r != ')' {
			return nil, ErrNoClosingParen
		}

		return &ParenExpr{Inner: inner}, nil

	case unicode.IsNumber(ch):
		return parseNumber(c)

	case unicode.IsLetter(ch) || ch == '_':
		return parseIdent(c), nil
	}

	return nil, nil
}

// parseNumber parses an integer or float literal.
//
// A leading "0b", "0o", or "0x" (case-insensitive) selects the radix of an
// integer literal. Underscores are digit separators and are discarded. A
// period makes the literal a float and a second period is an error. Any
// character that is not a digit, separator, period, or radix prefix ends the
// literal, so hexadecimal digits above 9 never scan.
func parseNumber(c *cursor) (Expr, error) {
	var buf strings.Builder

	first, _ := c.next()
	buf.WriteRune(first)

	period := false
	base := 10
	start := 0 // byte offset of the first digit after a radix prefix

scan:
	for {
		ch, ok := c.peek()
		if !ok {
			break
		}

		switch low := unicode.ToLower(ch); {
		case unicode.IsNumber(low):
			c.next()
			buf.WriteRune(ch)

		case low == '_':
			c.next()

		case low == '.':
			c.next()
			buf.WriteRune(ch)

			if period {
				return nil, ErrDuplicatePeriod
			}

			period = true

		case low == 'b', low == 'o', low == 'x':
			if buf.String() != "0" {
				return nil, ErrInvalidBase
			}

			c.next()
			buf.WriteRune(ch)
			start = 2

			switch low {
			case 'b':
				base = 2
			case 'o':
				base = 8
			default:
				base = 16
			}

		default:
			break scan
		}
	}

	digits := buf.String()[start:]

	if period {
		f, err := strconv.ParseFloat(digits, 64)
		if err != nil {
			return nil, ErrInvalidNumber.With(slog.String("literal", digits)).Wrap(err)
		}

		return &LiteralExpr{Value: Float(f)}, nil
	}

	i, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		return nil, ErrInvalidNumber.With(slog.String("literal", digits)).Wrap(err)
	}

	return &LiteralExpr{Value: Integer(i)}, nil
}

// parseIdent parses a variable reference or one of the boolean keywords.
func parseIdent(c *cursor) Expr {
	var buf strings.Builder

	first, _ := c.next()
	buf.WriteRune(first)

	for {
		ch, ok := c.peek()
		if !ok || !(unicode.IsLetter(ch) || unicode.IsNumber(ch) || ch == '_') {
			break
		}

		c.next()
		buf.WriteRune(ch)
	}

	switch name := buf.String(); name {
	case "true":
		return &LiteralExpr{Value: Bool(true)}
	case "false":
		return &LiteralExpr{Value: Bool(false)}
	default:
		return &RefExpr{Name: name}
	}
}

// parseBinary continues left with a binary operator or comparison when one
// follows. Operators carry no precedence: the right operand greedily
// consumes the rest of the expression, so chains associate to the right.
//
// A lone '=' or '!' that is not part of "==" or "!=" is left unconsumed and
// ends the expression.
func parseBinary(c *cursor, left Expr) (Expr, error) {
	ch, ok := c.peek()
	if !ok {
		return left, nil
	}

	switch ch {
	case '+':
		c.next()

		return binaryTail(c, left, OpAdd)

	case '-':
		c.next()

		return binaryTail(c, left, OpSubtract)

	case '*':
		c.next()

		return binaryTail(c, left, OpMultiply)

	case '/':
		c.next()

		return binaryTail(c, left, OpDivide)

	case '&':
		c.next()

		if r, ok := c.peek(); ok && r == '&' {
			c.next()

			return compareTail(c, left, CmpAnd)
		}

		return binaryTail(c, left, OpBitwiseAnd)

	case '|':
		c.next()

		if r, ok := c.peek(); ok && r == '|' {
			c.next()

			return compareTail(c, left, CmpOr)
		}

		return binaryTail(c, left, OpBitwiseOr)

	case '<':
		c.next()

		if r, ok := c.peek(); ok && r == '=' {
			c.next()

			return compareTail(c, left, CmpLessOrEqual)
		}

		return compareTail(c, left, CmpLess)

	case '>':
		c.next()

		if r, ok := c.peek(); ok && r == '=' {
			c.next()

			return compareTail(c, left, CmpGreaterOrEqual)
		}

		return compareTail(c, left, CmpGreater)

	case '=', '!':
		if r, ok := c.peekAt(1); !ok || r != '=' {
			return left, nil
		}

		c.advance(2)

		if ch == '=' {
			return compareTail(c, left, CmpEqual)
		}

		return compareTail(c, left, CmpNotEqual)
	}

	return left, nil
}

func binaryTail(c *cursor, left Expr, op Operator) (Expr, error) {
	right, err := parseRequired(c, false)
	if err != nil {
		return nil, err
	}

	return &BinaryExpr{Left: left, Op: op, Right: right}, nil
}

func compareTail(c *cursor, left Expr, cmp Comparison) (Expr, error) {
	right, err := parseRequired(c, false)
	if err != nil {
		return nil, err
	}

	return &CompareExpr{Left: left, Cmp: cmp, Right: right}, nil
}
