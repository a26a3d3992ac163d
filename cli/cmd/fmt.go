package cmd

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/wgslpp/wgsl"
)

// Fmt reprints a shader template with every directive in canonical form.
// Lines outside directives pass through untouched.
type Fmt struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for stdin." name:"source"`
}

// Run executes the fmt command.
func (f *Fmt) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var file *os.File
	if f.Source == "-" {
		file = os.Stdin
	} else {
		var err error

		file, err = os.Open(f.Source)
		if err != nil {
			return ErrReadSource.
				With(slog.String("file", f.Source)).
				Wrap(err)
		}
		defer file.Close()
	}

	data, err := io.ReadAll(bufio.NewReader(file))
	if err != nil {
		return ErrReadSource.
			With(slog.String("file", f.Source)).
			Wrap(err)
	}

	shader, err := wgsl.ParseShader(ctx, string(data))
	if err != nil {
		return err
	}

	return shader.Format(os.Stdout)
}
