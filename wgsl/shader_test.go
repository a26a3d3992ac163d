package wgsl

import (
	"errors"
	"slices"
	"strings"
	"testing"
)

// renderShader parses source and evaluates it against ws, failing the test
// on any error.
func renderShader(t *testing.T, source string, ws *Workspace) string {
	t.Helper()

	shader, err := ParseShader(t.Context(), source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got, err := shader.Evaluate(t.Context(), ws)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	return got
}

// TestShader_TextRoundTrip verifies that directive-free, flush-left source
// renders back unchanged.
func TestShader_TextRoundTrip(t *testing.T) {
	source := "struct Camera {\nview: mat4x4<f32>,\nproj: mat4x4<f32>,\n}\n"

	if got := renderShader(t, source, New()); got != source {
		t.Errorf("rendered %q, want %q", got, source)
	}
}

// TestShader_LineNormalization verifies that lines are trimmed and empty
// lines dropped before anything else happens.
func TestShader_LineNormalization(t *testing.T) {
	source := "  a;  \n\n\t\n\tb;\nc;"

	want := "a;\nb;\nc;\n"
	if got := renderShader(t, source, New()); got != want {
		t.Errorf("rendered %q, want %q", got, want)
	}
}

// TestShader_EmptySource verifies the degenerate template.
func TestShader_EmptySource(t *testing.T) {
	if got := renderShader(t, "", New()); got != "" {
		t.Errorf("rendered %q, want empty", got)
	}
}

// TestShader_Conditional verifies branch selection by a boolean variable.
func TestShader_Conditional(t *testing.T) {
	source := "//:if USE_TANGENTS\nA\n//:else\nB\n//:end\n"

	tests := []struct {
		name string
		set  bool
		want string
	}{
		{name: "true branch", set: true, want: "A\n"},
		{name: "false branch", set: false, want: "B\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := New()
			ws.State().SetBool("USE_TANGENTS", tt.set)

			if got := renderShader(t, source, ws); got != tt.want {
				t.Errorf("rendered %q, want %q", got, tt.want)
			}
		})
	}
}

// TestShader_ConditionalTruthiness verifies the coercion of condition
// results: nonzero integers and floats count as true.
func TestShader_ConditionalTruthiness(t *testing.T) {
	source := "//:if FLAGS & BIT_2\non\n//:else\noff\n//:end\n"

	tests := []struct {
		name  string
		flags int64
		want  string
	}{
		{name: "bit set", flags: 6, want: "on\n"},
		{name: "bit clear", flags: 1, want: "off\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := New()
			ws.State().SetInt("FLAGS", tt.flags)

			if got := renderShader(t, source, ws); got != tt.want {
				t.Errorf("rendered %q, want %q", got, tt.want)
			}
		})
	}
}

// TestShader_ConditionalNested verifies nested if blocks.
func TestShader_ConditionalNested(t *testing.T) {
	source := "//:if OUTER\na\n//:if INNER\nb\n//:end\nc\n//:end\n"

	tests := []struct {
		name         string
		outer, inner bool
		want         string
	}{
		{name: "both", outer: true, inner: true, want: "a\nb\nc\n"},
		{name: "outer only", outer: true, inner: false, want: "a\nc\n"},
		{name: "neither", outer: false, inner: false, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := New()
			ws.State().SetBool("OUTER", tt.outer)
			ws.State().SetBool("INNER", tt.inner)

			if got := renderShader(t, source, ws); got != tt.want {
				t.Errorf("rendered %q, want %q", got, tt.want)
			}
		})
	}
}

// TestShader_ConditionalAtEndOfFile verifies that an if block may be closed
// by the end of input instead of an explicit end directive.
func TestShader_ConditionalAtEndOfFile(t *testing.T) {
	ws := New()
	ws.State().SetBool("X", true)

	if got := renderShader(t, "//:if X\nA", ws); got != "A\n" {
		t.Errorf("rendered %q, want %q", got, "A\n")
	}

	if got := renderShader(t, "//:if X", ws); got != "" {
		t.Errorf("rendered %q, want empty", got)
	}
}

// TestShader_TrailingDirectiveQuirk verifies that a stray else or end as
// the very last line ends the top-level segment without error.
func TestShader_TrailingDirectiveQuirk(t *testing.T) {
	for _, directive := range []string{"//:end", "//:else"} {
		if got := renderShader(t, "A\n"+directive+"\n", New()); got != "A\n" {
			t.Errorf("%s: rendered %q, want %q", directive, got, "A\n")
		}
	}
}

// TestShader_Constant verifies constant declaration rendering for each
// literal kind.
func TestShader_Constant(t *testing.T) {
	tests := []struct {
		name  string
		value Literal
		want  string
	}{
		{name: "integer", value: Integer(7), want: "const FOO = 7;\n"},
		{name: "float", value: Float(2.5), want: "const FOO = 2.5;\n"},

		// An integral float renders without a period, exactly as the
		// value form prints it.
		{name: "integral float", value: Float(4096), want: "const FOO = 4096;\n"},

		{name: "bool", value: Bool(true), want: "const FOO = true;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ws := New()
			ws.State().Set("FOO", tt.value)

			if got := renderShader(t, "//:const FOO\n", ws); got != tt.want {
				t.Errorf("rendered %q, want %q", got, tt.want)
			}
		})
	}
}

// TestShader_ConstantUndefined verifies that an unknown constant name fails
// at render time.
func TestShader_ConstantUndefined(t *testing.T) {
	shader, err := ParseShader(t.Context(), "//:const NOPE\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if _, err := shader.Evaluate(t.Context(), New()); !errors.Is(err, ErrUndefinedVariable) {
		t.Errorf("error = %v, want %v", err, ErrUndefinedVariable)
	}
}

// TestParseShader_Errors verifies structural template failures.
func TestParseShader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   error
	}{
		{
			name:   "unknown operation",
			source: "//:frobnicate x\n",
			want:   ErrUnknownOperation,
		},
		{
			name:   "empty operation",
			source: "//: include x\n",
			want:   ErrUnknownOperation,
		},
		{
			name:   "double else",
			source: "//:if true\nA\n//:else\nB\n//:else\nC\n//:end\n",
			want:   ErrInvalidIfBlock,
		},
		{
			name:   "lines after stray end",
			source: "//:end\nB\n",
			want:   ErrLeftoverLines,
		},
		{
			name:   "lines after stray else",
			source: "A\n//:else\nB\n",
			want:   ErrLeftoverLines,
		},
		{
			name:   "bad condition",
			source: "//:if 1.2.3\nA\n//:end\n",
			want:   ErrDuplicatePeriod,
		},
		{
			name:   "missing condition",
			source: "//:if\nA\n//:end\n",
			want:   ErrNoExpression,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseShader(t.Context(), tt.source)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

// TestShader_Includes verifies include listing without resolution.
func TestShader_Includes(t *testing.T) {
	source := strings.Join([]string{
		"//:include a.wgsl",
		"//:if X",
		"//:include b.wgsl",
		"//:else",
		"//:include c.wgsl",
		"//:end",
		"//:include a.wgsl",
	}, "\n")

	shader, err := ParseShader(t.Context(), source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []string{"a.wgsl", "b.wgsl", "c.wgsl", "a.wgsl"}
	if got := shader.Includes(); !slices.Equal(got, want) {
		t.Errorf("Includes() = %v, want %v", got, want)
	}
}

// TestShader_References verifies variable listing across conditions and
// constants.
func TestShader_References(t *testing.T) {
	source := strings.Join([]string{
		"//:if FLAGS & BIT_2",
		"//:const SCALE",
		"//:else",
		"//:const FLAGS",
		"//:end",
	}, "\n")

	shader, err := ParseShader(t.Context(), source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	want := []string{"BIT_2", "FLAGS", "SCALE"}
	if got := shader.References(); !slices.Equal(got, want) {
		t.Errorf("References() = %v, want %v", got, want)
	}
}
