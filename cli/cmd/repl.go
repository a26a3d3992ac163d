package cmd

import (
	"context"

	"github.com/ardnew/wgslpp/cli/cmd/repl"
	"github.com/ardnew/wgslpp/log"
)

// Repl starts an interactive session for evaluating template expressions and
// inspecting the workspace.
type Repl struct{}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ws, err := workspace(ctx)
	if err != nil {
		return err
	}

	var cacheDir string
	if ktx := kongContextFrom(ctx); ktx != nil {
		cacheDir = ktx.Model.Vars()[CacheIdentifier]
	}

	return repl.Run(ctx, ws, cacheDir, log.Default())
}
