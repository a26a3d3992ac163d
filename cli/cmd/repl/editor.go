package repl

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/wgslpp/log"
	"github.com/ardnew/wgslpp/wgsl"
)

const defaultEditor = "vi"

// editShaderCommand implements [tea.ExecCommand] for the full shader
// edit-parse-retry loop. It formats the named shader to a temp file, opens
// the user's editor, and re-parses the result. On parse error the user is
// prompted to re-edit; declining exits the program.
type editShaderCommand struct {
	path      string
	shader    *wgsl.Shader
	ctxFunc   func() context.Context
	newShader *wgsl.Shader
	logger    log.Logger
	stdin     io.Reader
	stdout    io.Writer
	stderr    io.Writer
}

// SetStdin sets the stdin reader for the command.
func (c *editShaderCommand) SetStdin(r io.Reader) { c.stdin = r }

// SetStdout sets the stdout writer for the command.
func (c *editShaderCommand) SetStdout(w io.Writer) { c.stdout = w }

// SetStderr sets the stderr writer for the command.
func (c *editShaderCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit-parse-retry loop. It formats the shader, opens the
// editor, parses the result, and prompts on error. If the user declines to
// re-edit, it returns [ErrEditDeclined].
func (c *editShaderCommand) Run() error {
	ctx := c.ctxFunc()

	// Format the shader to directive syntax.
	var buf bytes.Buffer
	if err := c.shader.Format(&buf); err != nil {
		return fmt.Errorf("format shader: %w", err)
	}

	content := buf.String()

	// Create a single temp file for the entire loop.
	f, err := os.CreateTemp(os.TempDir(), "wgslpp-repl-*.wgsl")
	if err != nil {
		return err
	}

	tmpPath := f.Name()

	defer os.Remove(tmpPath)

	if err := f.Chmod(0o600); err != nil {
		f.Close()

		return err
	}

	f.Close()

	for {
		// Write current content to temp file.
		if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
			return err
		}

		// Launch editor on the temp file.
		if err := runEditor(ctx, c.stdin, c.stdout, c.stderr, tmpPath); err != nil {
			return err
		}

		data, err := os.ReadFile(tmpPath)
		if err != nil {
			return err
		}

		// Empty file: user cleared the content to cancel the edit.
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}

		newShader, parseErr := wgsl.ParseShader(ctx, string(data))
		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.String("path", c.path),
			slog.Int("content_length", len(data)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.newShader = newShader

			return nil
		}

		// Show error and prompt.
		fmt.Fprintf(c.stderr, "\nParse error: %s\n", parseErr)
		fmt.Fprintf(c.stdout, "Re-edit? [Y/n] ")

		scanner := bufio.NewScanner(c.stdin)
		if !scanner.Scan() {
			return ErrEditDeclined
		}

		response := strings.TrimSpace(strings.ToLower(scanner.Text()))
		if response == "n" || response == "no" {
			return ErrEditDeclined
		}

		// Carry the (failed) content into the next editor iteration.
		content = string(data)
	}
}

// runEditor launches the user's editor on the given file path and waits for
// it to exit.
func runEditor(
	ctx context.Context,
	stdin io.Reader,
	stdout io.Writer,
	stderr io.Writer,
	path string,
) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	return cmd.Run()
}
