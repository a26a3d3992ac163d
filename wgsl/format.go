package wgsl

import (
	"fmt"
	"io"
)

// Format writes the template back out in canonical form: directives
// flush-left with single-space separators, expressions in their parsed
// grouping, and literal text verbatim. Formatting a template and re-parsing
// the result yields an equivalent template.
func (s *Shader) Format(w io.Writer) error {
	return formatSegment(w, s.segment)
}

func formatSegment(w io.Writer, s *Segment) error {
	switch s.Kind {
	case SegInclude:
		return writeDirective(w, "include", s.Path)

	case SegConstant:
		return writeDirective(w, "const", s.Name)

	case SegConditional:
		if err := writeDirective(w, "if", s.Condition.String()); err != nil {
			return err
		}

		if err := formatSegment(w, s.True); err != nil {
			return err
		}

		if s.False != nil {
			if err := writeDirective(w, "else", ""); err != nil {
				return err
			}

			if err := formatSegment(w, s.False); err != nil {
				return err
			}
		}

		return writeDirective(w, "end", "")

	case SegSequence:
		for _, child := range s.Children {
			if err := formatSegment(w, child); err != nil {
				return err
			}
		}

		return nil

	default:
		_, err := io.WriteString(w, s.Text)

		return err
	}
}

func writeDirective(w io.Writer, operation, parameter string) error {
	var err error

	if parameter == "" {
		_, err = fmt.Fprintf(w, "%s%s\n", Marker, operation)
	} else {
		_, err = fmt.Fprintf(w, "%s%s %s\n", Marker, operation, parameter)
	}

	return err
}
