package wgsl

import (
	"strings"
	"testing"
)

// Concatenation Tests
// ============================================================================

func text(s string) *Segment { return &Segment{Kind: SegText, Text: s} }

// render writes a segment tree against an empty workspace.
func render(t *testing.T, s *Segment) string {
	t.Helper()

	var out strings.Builder

	if err := s.write(&out, New(), make(map[string]bool)); err != nil {
		t.Fatalf("write: %v", err)
	}

	return out.String()
}

// TestSegment_ConcatText verifies that adjacent text merges in place
// without allocating a sequence node.
func TestSegment_ConcatText(t *testing.T) {
	s := text("a\n")
	s.concat(text("b\n"))

	if s.Kind != SegText {
		t.Fatalf("kind = %s, want text", s.Kind)
	}

	if s.Text != "a\nb\n" {
		t.Errorf("text = %q, want %q", s.Text, "a\nb\n")
	}
}

// TestSegment_ConcatWrap verifies that two unrelated nodes wrap into a
// two-element sequence.
func TestSegment_ConcatWrap(t *testing.T) {
	s := text("a\n")
	s.concat(&Segment{Kind: SegInclude, Path: "b.wgsl"})

	if s.Kind != SegSequence {
		t.Fatalf("kind = %s, want sequence", s.Kind)
	}

	if len(s.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(s.Children))
	}

	if s.Children[0].Kind != SegText || s.Children[1].Kind != SegInclude {
		t.Errorf("children kinds = %s, %s, want text, include",
			s.Children[0].Kind, s.Children[1].Kind)
	}
}

// TestSegment_ConcatSequenceAppend verifies appending onto a sequence:
// fast-mergeable tails merge in place, others push a new child.
func TestSegment_ConcatSequenceAppend(t *testing.T) {
	s := text("a\n")
	s.concat(&Segment{Kind: SegInclude, Path: "b.wgsl"})
	s.concat(text("c\n"))

	if len(s.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(s.Children))
	}

	s.concat(text("d\n"))

	if len(s.Children) != 3 {
		t.Fatalf("children after text merge = %d, want 3", len(s.Children))
	}

	if last := s.Children[2]; last.Text != "c\nd\n" {
		t.Errorf("merged tail = %q, want %q", last.Text, "c\nd\n")
	}
}

// TestSegment_ConcatPrepend verifies that a non-sequence followed by a
// sequence becomes that sequence with the node prepended.
func TestSegment_ConcatPrepend(t *testing.T) {
	s := &Segment{Kind: SegInclude, Path: "a.wgsl"}

	seq := text("b\n")
	seq.concat(&Segment{Kind: SegInclude, Path: "c.wgsl"})

	s.concat(seq)

	if s.Kind != SegSequence {
		t.Fatalf("kind = %s, want sequence", s.Kind)
	}

	if len(s.Children) != 3 {
		t.Fatalf("children = %d, want 3", len(s.Children))
	}

	if s.Children[0].Kind != SegInclude || s.Children[0].Path != "a.wgsl" {
		t.Errorf("first child = %s %q, want include a.wgsl",
			s.Children[0].Kind, s.Children[0].Path)
	}
}

// TestSegment_ConcatSequences verifies element-wise merging of two
// sequences, collapsing mergeable boundaries.
func TestSegment_ConcatSequences(t *testing.T) {
	left := text("a\n")
	left.concat(&Segment{Kind: SegInclude, Path: "i.wgsl"})
	left.concat(text("b\n"))

	right := text("c\n")
	right.concat(&Segment{Kind: SegInclude, Path: "j.wgsl"})

	left.concat(right)

	// [text, include, text] + [text, include]: the boundary texts merge.
	if len(left.Children) != 4 {
		t.Fatalf("children = %d, want 4", len(left.Children))
	}

	if got := left.Children[2].Text; got != "b\nc\n" {
		t.Errorf("boundary text = %q, want %q", got, "b\nc\n")
	}
}

// TestSegment_ConcatAssociativity verifies that any grouping of concat
// calls over the same fragments renders identical output.
func TestSegment_ConcatAssociativity(t *testing.T) {
	fragments := func() []*Segment {
		return []*Segment{
			text("a\n"),
			text("b\n"),
			{Kind: SegInclude, Path: "x.wgsl"},
			text("c\n"),
			text("d\n"),
		}
	}

	// Left fold: ((((a+b)+x)+c)+d).
	leftFold := fragments()
	acc := leftFold[0]

	for _, f := range leftFold[1:] {
		acc.concat(f)
	}

	// Pairwise: (a+b) + ((x+c)+d).
	pair := fragments()
	pair[0].concat(pair[1])
	pair[2].concat(pair[3])
	pair[2].concat(pair[4])
	pair[0].concat(pair[2])

	// The include cannot render against an empty workspace, so compare
	// the formatted trees instead of rendered output.
	var fold, grouped strings.Builder

	if err := formatSegment(&fold, acc); err != nil {
		t.Fatalf("format left fold: %v", err)
	}

	if err := formatSegment(&grouped, pair[0]); err != nil {
		t.Fatalf("format grouped: %v", err)
	}

	if fold.String() != grouped.String() {
		t.Errorf("left fold = %q, grouped = %q, want equal",
			fold.String(), grouped.String())
	}
}

// Directive Parsing Tests
// ============================================================================

// TestParseShader_DirectiveSplit verifies that a directive splits at the
// first space only, keeping the remainder intact as the parameter.
func TestParseShader_DirectiveSplit(t *testing.T) {
	tests := []struct {
		name   string
		source string
		kind   SegmentKind
		param  string
	}{
		{
			name:   "include path",
			source: "//:include lighting/pbr.wgsl\n",
			kind:   SegInclude,
			param:  "lighting/pbr.wgsl",
		},
		{
			name:   "parameter keeps inner spaces",
			source: "//:const FOO BAR\n",
			kind:   SegConstant,
			param:  "FOO BAR",
		},
		{
			name:   "parameter keeps extra leading space",
			source: "//:include  padded.wgsl\n",
			kind:   SegInclude,
			param:  " padded.wgsl",
		},
		{
			name:   "missing parameter",
			source: "//:include\n",
			kind:   SegInclude,
			param:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shader, err := ParseShader(t.Context(), tt.source)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}

			// The root starts as empty text, so the directive is the
			// second child of the wrapping sequence.
			root := shader.segment
			if root.Kind != SegSequence || len(root.Children) != 2 {
				t.Fatalf("root = %s with %d children, want sequence of 2",
					root.Kind, len(root.Children))
			}

			node := root.Children[1]
			if node.Kind != tt.kind {
				t.Fatalf("node kind = %s, want %s", node.Kind, tt.kind)
			}

			got := node.Path
			if tt.kind == SegConstant {
				got = node.Name
			}

			if got != tt.param {
				t.Errorf("parameter = %q, want %q", got, tt.param)
			}
		})
	}
}

// TestParseShader_MarkerDetection verifies the marker only counts at the
// start of a trimmed line.
func TestParseShader_MarkerDetection(t *testing.T) {
	ws := New()

	shader, err := ParseShader(t.Context(), "  //:const BIT_1  \ncode //:const BIT_1\n")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	got, err := shader.Evaluate(t.Context(), ws)
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	want := "const BIT_1 = 2;\ncode //:const BIT_1\n"
	if got != want {
		t.Errorf("rendered %q, want %q", got, want)
	}
}
