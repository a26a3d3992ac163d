package wgsl

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// Marker introduces a template directive line.
const Marker = "//:"

// SegmentKind identifies the variant of a Segment node.
type SegmentKind uint8

const (
	SegText SegmentKind = iota
	SegInclude
	SegConstant
	SegConditional
	SegSequence
)

// String returns the kind's name.
func (k SegmentKind) String() string {
	switch k {
	case SegText:
		return "text"
	case SegInclude:
		return "include"
	case SegConstant:
		return "constant"
	case SegConditional:
		return "conditional"
	case SegSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Segment is one node of a parsed shader template. The populated fields
// depend on Kind: Text for SegText, Path for SegInclude, Name for
// SegConstant, Condition with True and an optional False for SegConditional,
// and Children for SegSequence.
//
// Segments are never mutated after parsing, so a tree may be shared and
// evaluated concurrently.
type Segment struct {
	Kind      SegmentKind
	Text      string
	Path      string
	Name      string
	Condition Expr
	True      *Segment
	False     *Segment
	Children  []*Segment
}

// endReason records how a run of parsed lines ended.
type endReason uint8

const (
	endNone endReason = iota
	endOfFile
	endElse
	endEnd
)

// lineCursor scans a sequence of pre-trimmed, non-empty lines.
type lineCursor struct {
	lines []string
	pos   int
}

func (lc *lineCursor) next() (string, bool) {
	if lc.pos >= len(lc.lines) {
		return "", false
	}

	line := lc.lines[lc.pos]
	lc.pos++

	return line, true
}

func (lc *lineCursor) rest() []string { return lc.lines[lc.pos:] }

// parseLines accumulates lines into a segment until an "else" or "end"
// directive or the end of input. Plain lines become text with their newline
// restored. An "if" directive recursively parses its branches: the true
// branch ends at "else", "end", or end of input, and a false branch must end
// at "end" or end of input.
func parseLines(lc *lineCursor) (*Segment, endReason, error) {
	segment := &Segment{Kind: SegText}

	for {
		line, ok := lc.next()
		if !ok {
			return segment, endOfFile, nil
		}

		if !strings.HasPrefix(line, Marker) {
			segment.concat(&Segment{Kind: SegText, Text: line + "\n"})

			continue
		}

		operation, parameter, _ := strings.Cut(line[len(Marker):], " ")

		switch operation {
		case "include":
			segment.concat(&Segment{Kind: SegInclude, Path: parameter})

		case "const":
			segment.concat(&Segment{Kind: SegConstant, Name: parameter})

		case "if":
			condition, err := parseExpression(parameter)
			if err != nil {
				return nil, endNone, err
			}

			node := &Segment{Kind: SegConditional, Condition: condition}

			ifTrue, reason, err := parseLines(lc)
			if err != nil {
				return nil, endNone, err
			}

			node.True = ifTrue

			switch reason {
			case endElse:
				ifFalse, reason, err := parseLines(lc)
				if err != nil {
					return nil, endNone, err
				}

				if reason != endEnd && reason != endOfFile {
					return nil, endNone, ErrInvalidIfBlock
				}

				node.False = ifFalse

			case endEnd, endOfFile:

			default:
				return nil, endNone, ErrInvalidIfBlock
			}

			segment.concat(node)

		case "else":
			return segment, endElse, nil

		case "end":
			return segment, endEnd, nil

		default:
			return nil, endNone, ErrUnknownOperation.With(
				slog.String("operation", operation))
		}
	}
}

// canMergeFast reports whether concat(s, other) merges in place without
// allocating a new wrapper node.
func (s *Segment) canMergeFast(other *Segment) bool {
	return s.Kind == SegSequence || other.Kind == SegSequence ||
		(s.Kind == SegText && other.Kind == SegText)
}

// concat mutates s to represent s followed by other, keeping the tree as
// flat as possible: adjacent text runs merge in place and sequences absorb
// neighbors instead of nesting, so evaluation cost tracks tree breadth
// rather than depth. other is consumed and must not be used afterward.
func (s *Segment) concat(other *Segment) {
	switch {
	case s.Kind == SegSequence && other.Kind == SegSequence:
		s.Children = slices.Grow(s.Children, len(other.Children))

		for _, child := range other.Children {
			if n := len(s.Children); n > 0 && s.Children[n-1].canMergeFast(child) {
				s.Children[n-1].concat(child)
			} else {
				s.Children = append(s.Children, child)
			}
		}

	case s.Kind == SegText && other.Kind == SegText:
		s.Text += other.Text

	case other.Kind == SegSequence:
		left := &Segment{}
		*left = *s
		*s = *other
		s.Children = slices.Insert(s.Children, 0, left)

	case s.Kind == SegSequence:
		if n := len(s.Children); n > 0 && s.Children[n-1].canMergeFast(other) {
			s.Children[n-1].concat(other)
		} else {
			s.Children = append(s.Children, other)
		}

	default:
		left := &Segment{}
		*left = *s
		*s = Segment{Kind: SegSequence, Children: []*Segment{left, other}}
	}
}

// write renders the segment into out, resolving includes through ws.
// visiting holds the shader paths currently being resolved so that include
// cycles fail instead of recursing forever.
func (s *Segment) write(out *strings.Builder, ws *Workspace, visiting map[string]bool) error {
	switch s.Kind {
	case SegInclude:
		text, err := ws.resolve(s.Path, visiting)
		if err != nil {
			return err
		}

		out.WriteString(text)
		out.WriteByte('\n')

	case SegConstant:
		value, ok := ws.state.Get(s.Name)
		if !ok {
			return undefinedVariable(ws.state, s.Name)
		}

		fmt.Fprintf(out, "const %s = %s;\n", s.Name, value)

	case SegConditional:
		value, err := s.Condition.Evaluate(ws.state)
		if err != nil {
			return err
		}

		if value.Truthy() {
			return s.True.write(out, ws, visiting)
		}

		if s.False != nil {
			return s.False.write(out, ws, visiting)
		}

	case SegSequence:
		for _, child := range s.Children {
			if err := child.write(out, ws, visiting); err != nil {
				return err
			}
		}

	default:
		out.WriteString(s.Text)
	}

	return nil
}

// walk visits s and every segment beneath it in source order.
func (s *Segment) walk(visit func(*Segment)) {
	visit(s)

	switch s.Kind {
	case SegConditional:
		s.True.walk(visit)

		if s.False != nil {
			s.False.walk(visit)
		}

	case SegSequence:
		for _, child := range s.Children {
			child.walk(visit)
		}
	}
}
