package wgsl

import (
	"strings"
	"testing"
	"unicode/utf8"
)

// FuzzParseExpression tests the expression parser with random inputs to find
// edge cases. Parsed expressions must print back into a form that reparses to
// the same printed form.
func FuzzParseExpression(f *testing.F) {
	// Seed corpus with known valid inputs
	f.Add("0")
	f.Add("1_000_000")
	f.Add("0x10")
	f.Add("0b1010")
	f.Add("0o755")
	f.Add("12.34")
	f.Add("4096.")
	f.Add("true")
	f.Add("FLAGS & BIT_2")
	f.Add("a - b - c")
	f.Add("(a - b) - c")
	f.Add("!x && ~y")
	f.Add("-1 * (2 + 3)")
	f.Add("x == 1.0 || y != false")
	f.Add("a <= b >= c < d > e")

	f.Fuzz(func(t *testing.T, input string) {
		// Skip invalid UTF-8
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		// Parser should not panic on any input
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", input, r)
			}
		}()

		expr, err := ParseExpression(t.Context(), input)

		// It's OK for parsing to fail, but it shouldn't panic
		if err != nil {
			return
		}

		// A successful parse must print back into parseable form
		printed := expr.String()

		again, err := ParseExpression(t.Context(), printed)
		if err != nil {
			t.Fatalf("printed form %q of input %q does not reparse: %v",
				printed, input, err)
		}

		if reprint := again.String(); reprint != printed {
			t.Errorf("printed form is not stable: %q reprints as %q",
				printed, reprint)
		}
	})
}

// FuzzParseShader tests the template parser with random inputs to find edge
// cases. Parsed templates must format back into a form that reparses and
// formats identically.
func FuzzParseShader(f *testing.F) {
	// Seed corpus with known valid inputs
	f.Add("fn main() {}\n")
	f.Add("//:include lib.wgsl\n")
	f.Add("//:const FLAGS\n")
	f.Add("//:if USE_TANGENTS\na;\n//:else\nb;\n//:end\n")
	f.Add("//:if A & BIT_0\n//:if B\nx;\n//:end\n//:end\n")
	f.Add("//:if X\nunterminated;")
	f.Add("text\n//:end\n")
	f.Add("  indented;  \n\n\tmore;\n")
	f.Add("//:const  padded\n")
	f.Add("//:unknown\n")

	f.Fuzz(func(t *testing.T, input string) {
		// Skip invalid UTF-8
		if !utf8.ValidString(input) {
			t.Skip("invalid UTF-8")
		}

		// Parser should not panic on any input
		defer func() {
			if r := recover(); r != nil {
				t.Errorf("parser panicked on input %q: %v", input, r)
			}
		}()

		shader, err := ParseShader(t.Context(), input)

		// It's OK for parsing to fail, but it shouldn't panic
		if err != nil {
			return
		}

		// A successful parse must format back into parseable form
		var out strings.Builder
		if err := shader.Format(&out); err != nil {
			t.Fatalf("format failed on input %q: %v", input, err)
		}

		formatted := out.String()

		again, err := ParseShader(t.Context(), formatted)
		if err != nil {
			t.Fatalf("formatted form %q of input %q does not reparse: %v",
				formatted, input, err)
		}

		out.Reset()
		if err := again.Format(&out); err != nil {
			t.Fatalf("reformat failed on %q: %v", formatted, err)
		}

		if out.String() != formatted {
			t.Errorf("formatted form is not stable: %q reformats as %q",
				formatted, out.String())
		}
	})
}
