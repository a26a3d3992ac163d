package cmd

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/wgslpp/log"
	"github.com/ardnew/wgslpp/wgsl"
)

// Check parses and renders every shader in the workspace, reporting all
// failures instead of stopping at the first.
type Check struct {
	Quiet bool `help:"Report failures only" short:"q"`
}

// Run executes the check command.
func (c *Check) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	opts := optionsFrom(ctx)

	man, base, err := opts.manifest(ctx)
	if err != nil {
		return err
	}

	sources, err := collectSources(opts.searchRoots(man, base))
	if err != nil {
		return err
	}

	// Parse each source individually so a broken shader does not hide the
	// errors in the shaders after it.
	failed := 0
	good := make(map[string]string, len(sources.paths))

	for _, path := range sources.paths {
		if _, perr := wgsl.ParseShader(ctx, sources.text[path]); perr != nil {
			failed++

			fmt.Printf("%s: %v\n", path, perr)

			continue
		}

		good[path] = sources.text[path]
	}

	ws, err := wgsl.FromMemory(ctx, good)
	if err != nil {
		return err
	}

	if err := configure(ctx, ws.State(), man, opts.Define); err != nil {
		return err
	}

	for _, path := range ws.Paths() {
		if _, rerr := ws.GetShader(path); rerr != nil {
			failed++

			fmt.Printf("%s: %v\n", path, rerr)

			continue
		}

		if !c.Quiet {
			fmt.Printf("%s: ok\n", path)
		}
	}

	if failed > 0 {
		return ErrCheckFailed.With(slog.Int("failed", failed))
	}

	log.DebugContext(ctx, "workspace check passed",
		slog.Int("shaders", len(good)),
	)

	return nil
}

// checkSources holds shader sources keyed by relative path, with paths in
// discovery order.
type checkSources struct {
	paths []string
	text  map[string]string
}

// collectSources reads every shader under roots without parsing. Duplicate
// relative paths keep the earliest root's copy, matching workspace scanning.
func collectSources(roots []string) (*checkSources, error) {
	srcs := &checkSources{text: make(map[string]string)}

	for _, root := range roots {
		fsys := os.DirFS(root)

		walk := func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() ||
				!strings.EqualFold(filepath.Ext(path), wgsl.DefaultExtension) {
				return nil
			}

			if _, ok := srcs.text[path]; ok {
				return nil // an earlier root already provides this path
			}

			data, err := fs.ReadFile(fsys, path)
			if err != nil {
				return err
			}

			srcs.paths = append(srcs.paths, path)
			srcs.text[path] = string(data)

			return nil
		}

		if err := fs.WalkDir(fsys, ".", walk); err != nil {
			return nil, ErrReadSource.
				With(slog.String("root", root)).
				Wrap(err)
		}
	}

	return srcs, nil
}
