package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/wgslpp/log"
)

// Render resolves every directive in a shader template and prints the result.
type Render struct {
	Shader string `arg:"" help:"Shader path relative to a search root" name:"shader"`
	Output string `help:"Output file, or '-' for stdout" default:"-" short:"o"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ws, err := workspace(ctx)
	if err != nil {
		return err
	}

	text, err := ws.GetShader(r.Shader)
	if err != nil {
		return err
	}

	if r.Output == "-" {
		fmt.Print(text)

		return nil
	}

	if err := os.WriteFile(r.Output, []byte(text), 0o644); err != nil {
		return ErrWriteOutput.
			With(slog.String("file", r.Output)).
			Wrap(err)
	}

	log.DebugContext(ctx, "shader rendered",
		slog.String("shader", r.Shader),
		slog.String("output", r.Output),
	)

	return nil
}
