package wgsl

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/ardnew/wgslpp/log"
)

// Shader is a parsed shader template, ready to be rendered any number of
// times against a workspace.
type Shader struct {
	segment  *Segment
	capacity int
}

// ParseShader parses source into a shader template.
//
// Every line is trimmed and empty lines are dropped before directives are
// recognized, so indentation around directives is insignificant and never
// reaches the output. Lines remaining after the top-level segment ends, such
// as text following an unmatched "end" directive, are an error.
func ParseShader(ctx context.Context, source string) (*Shader, error) {
	lines := make([]string, 0, strings.Count(source, "\n")+1)

	for line := range strings.Lines(source) {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	lc := &lineCursor{lines: lines}

	segment, _, err := parseLines(lc)
	if err != nil {
		return nil, err
	}

	if rest := lc.rest(); len(rest) > 0 {
		return nil, ErrLeftoverLines.With(
			slog.Int("lines", len(rest)),
			slog.String("next", rest[0]),
		)
	}

	log.TraceContext(ctx, "shader parsed",
		slog.Int("lines", len(lines)),
		slog.Int("bytes", len(source)))

	return &Shader{segment: segment, capacity: len(source)}, nil
}

// Evaluate renders the shader against the workspace: directives are
// expanded, conditional branches selected, and all other lines emitted
// verbatim.
func (s *Shader) Evaluate(ctx context.Context, ws *Workspace) (string, error) {
	text, err := s.evaluate(ws, make(map[string]bool))
	if err != nil {
		return "", err
	}

	log.TraceContext(ctx, "shader evaluated", slog.Int("bytes", len(text)))

	return text, nil
}

func (s *Shader) evaluate(ws *Workspace, visiting map[string]bool) (string, error) {
	var out strings.Builder

	out.Grow(s.capacity)

	if err := s.segment.write(&out, ws, visiting); err != nil {
		return "", err
	}

	return out.String(), nil
}

// Includes returns the path of every include directive in the template in
// source order, without resolving any of them. Paths inside conditional
// branches are reported whether or not the branch would be taken.
func (s *Shader) Includes() []string {
	var paths []string

	s.segment.walk(func(seg *Segment) {
		if seg.Kind == SegInclude {
			paths = append(paths, seg.Path)
		}
	})

	return paths
}

// References returns the sorted, deduplicated names of every variable the
// template reads: condition references and constant names.
func (s *Shader) References() []string {
	seen := make(map[string]bool)

	s.segment.walk(func(seg *Segment) {
		switch seg.Kind {
		case SegConstant:
			seen[seg.Name] = true
		case SegConditional:
			walkRefs(seg.Condition, func(name string) { seen[name] = true })
		}
	})

	return slices.Sorted(maps.Keys(seen))
}
