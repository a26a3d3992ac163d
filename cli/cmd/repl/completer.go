package repl

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/ardnew/wgslpp/wgsl"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{
	"help", "vars", "shaders", "render", "set", "unset", "edit", "clear", "quit",
}

// isExprBoundary returns true if the rune delimits a word in eval mode.
// This includes whitespace, parentheses, and the template grammar's
// operator characters. Variable names never contain any of these.
func isExprBoundary(r rune) bool {
	switch r {
	case ' ', '\t',
		'(', ')',
		'+', '-', '*', '/',
		'&', '|', '!', '~',
		'<', '>', '=':
		return true
	}

	return false
}

// isArgBoundary returns true if the rune delimits a word in control mode.
// Only whitespace and '=' break words: shader paths contain dots, slashes,
// and hyphens, and '=' separates the name from the value in assignments.
func isArgBoundary(r rune) bool {
	switch r {
	case ' ', '\t', '=':
		return true
	}

	return false
}

// wordBounds returns the current word at the cursor position and its byte
// boundaries within input, using boundary to decide where words break.
// Returns an empty word when the cursor sits on a boundary (after a space,
// start of line, etc.).
func wordBounds(
	input string,
	cursor int,
	boundary func(rune) bool,
) (word string, start, end int) {
	if cursor > len(input) {
		cursor = len(input)
	}

	// Walk backward from cursor to find word start.
	start = cursor

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if boundary(r) {
			break
		}

		start -= size
	}

	// Walk forward from cursor to find word end.
	end = cursor

	for end < len(input) {
		r, size := utf8.DecodeRuneInString(input[end:])
		if boundary(r) {
			break
		}

		end += size
	}

	word = input[start:end]

	return word, start, end
}

// commandContext returns the control command preceding the current word, so
// its arguments complete against the right names. For input "render blu"
// with the word "blu", the context is "render". Returns "" when the cursor
// is still on the first word.
func commandContext(input string, wordStart int) string {
	fields := strings.Fields(input[:wordStart])
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}

// candidatesFor returns the completion candidates for arguments of the given
// control command. An empty context means the command itself is being typed.
func (m model) candidatesFor(context string) []string {
	switch context {
	case "":
		return ctrlCommands

	case "render", "r", "edit", "e":
		return m.ws.Paths()

	case "set", "s", "unset", "u":
		return m.ws.State().Names()

	default:
		return nil
	}
}

// evalCandidates returns the completion candidates for eval mode: every
// defined variable name plus the boolean keywords.
func (m model) evalCandidates() []string {
	return append(m.ws.State().Names(), "true", "false")
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor. It returns the matches (ranked best-first), the candidate list, and
// the word boundaries. When the current word is empty on the first word of a
// line, it returns nil matches. When the word is an empty command argument,
// it returns all candidates as matches so the user can browse them.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	candidates []string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()
	cursor := m.input.Position()

	boundary := isExprBoundary
	if m.mode == modeCtrl {
		boundary = isArgBoundary
	}

	word, ws, we := wordBounds(input, cursor, boundary)
	wordStart, wordEnd = ws, we

	if m.mode == modeCtrl {
		context := commandContext(input, wordStart)
		candidates = m.candidatesFor(context)

		// When the word is empty on the command itself, don't show completions
		// (allows the hint text to be visible). After a command, show all of
		// its argument candidates immediately so the user can browse them.
		if word == "" {
			if context == "" || len(candidates) == 0 {
				return nil, nil, wordStart, wordEnd
			}

			// Return all candidates as unfiltered matches.
			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, candidates, wordStart, wordEnd
		}
	} else {
		if word == "" {
			return nil, nil, wordStart, wordEnd
		}

		candidates = m.evalCandidates()
	}

	if len(candidates) == 0 {
		return nil, nil, wordStart, wordEnd
	}

	matches = fuzzy.Find(word, candidates)

	return matches, candidates, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to fit
// within the given terminal width. Each candidate is rendered with its matched
// characters highlighted. The selected candidate (when tabbing) uses the
// selected style.
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		selected := tabActive && i == suggIdx
		rendered := renderCandidate(match, selected)
		candidateWidth := lipgloss.Width(rendered)

		entryWidth := candidateWidth
		if i > 0 {
			entryWidth += sepWidth
		}

		// Check if adding this candidate would exceed width.
		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth

		// If this is the last candidate, no need to reserve ellipsis space.
		if i == len(matches)-1 {
			break
		}
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected bool) string {
	baseStyle := suggestionStyle
	highlightStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("4")).
		Bold(true)

	if selected {
		baseStyle = selectedStyle
		highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4")).
			Bold(true)
	}

	matchSet := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matchSet[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		ch := string(r)
		if matchSet[i] {
			b.WriteString(highlightStyle.Render(ch))
		} else {
			b.WriteString(baseStyle.Render(ch))
		}
	}

	return b.String()
}

// formatPreview generates a preview string for a shader: its include count
// and the variables its directives reference.
func formatPreview(shader *wgsl.Shader) string {
	var parts []string

	if n := len(shader.Includes()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d include(s)", n))
	}

	if refs := shader.References(); len(refs) > 0 {
		preview := strings.Join(refs, " ")
		if len(preview) > 40 {
			preview = preview[:37] + "..."
		}

		parts = append(parts, "refs: "+preview)
	}

	// No directives at all: the shader passes through unchanged.
	if len(parts) == 0 {
		return "static"
	}

	return strings.Join(parts, ", ")
}
