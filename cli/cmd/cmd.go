package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ardnew/mung"

	"github.com/ardnew/wgslpp/log"
	"github.com/ardnew/wgslpp/manifest"
	"github.com/ardnew/wgslpp/pkg"
	"github.com/ardnew/wgslpp/wgsl"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// EnvPath is the environment variable listing shader search directories,
// separated by the platform's path-list separator.
//
//nolint:gochecknoglobals
var EnvPath = strings.ToUpper(pkg.Name) + "_PATH"

type optionsKey struct{}

// Options carries the workspace flags shared by every subcommand.
type Options struct {
	Manifest string
	Search   []string
	Define   []string
}

// WithOptions returns a new context.Context carrying the workspace options.
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) Options {
	opts, _ := ctx.Value(optionsKey{}).(Options)

	return opts
}

// workspace builds the configured shader workspace for the options in ctx:
// load the manifest, scan the search roots, apply manifest variables, then
// apply command-line definitions.
func workspace(ctx context.Context) (*wgsl.Workspace, error) {
	opts := optionsFrom(ctx)

	man, base, err := opts.manifest(ctx)
	if err != nil {
		return nil, err
	}

	roots := opts.searchRoots(man, base)

	log.DebugContext(ctx, "scanning shader roots", slog.Any("roots", roots))

	ws, err := wgsl.Scan(ctx, roots)
	if err != nil {
		return nil, err
	}

	if err := configure(ctx, ws.State(), man, opts.Define); err != nil {
		return nil, err
	}

	return ws, nil
}

// configure applies the manifest and command-line definitions to state.
// Definitions are applied last so that they win over manifest variables.
func configure(
	ctx context.Context,
	state *wgsl.State,
	man *manifest.Manifest,
	defines []string,
) error {
	if man != nil {
		if err := man.Apply(ctx, state); err != nil {
			return err
		}
	}

	for _, def := range defines {
		name, value, err := parseDefine(def)
		if err != nil {
			return err
		}

		state.Set(name, value)
	}

	return nil
}

// manifest loads the manifest named by the --manifest flag, or the default
// manifest in the working directory when the flag is unset. The second
// return value is the directory that relative manifest entries resolve
// against. A missing default manifest is not an error.
func (o Options) manifest(ctx context.Context) (*manifest.Manifest, string, error) {
	path := o.Manifest
	if path == "" {
		if _, err := os.Stat(manifest.DefaultName); err != nil {
			return nil, "", nil
		}

		path = manifest.DefaultName
	}

	man, err := manifest.Load(ctx, path)
	if err != nil {
		return nil, "", err
	}

	return man, filepath.Dir(path), nil
}

// searchRoots composes the shader search path from the --search flags, the
// EnvPath environment variable, and the manifest, in that priority order.
// Scan resolves duplicate relative paths in favor of the earliest root, so
// flags shadow the environment, which shadows the manifest.
func (o Options) searchRoots(man *manifest.Manifest, base string) []string {
	list := mung.Make(
		mung.WithSubjectItems(os.Getenv(EnvPath)),
		mung.WithDelim(string(os.PathListSeparator)),
		mung.WithPrefixItems(o.Search...),
	).String()

	roots := strings.Split(list, string(os.PathListSeparator))

	if man != nil {
		roots = append(roots, man.Roots(base)...)
	}

	roots = uniqueRoots(roots)
	if len(roots) == 0 {
		roots = []string{"."}
	}

	return roots
}

// dirKey uniquely identifies a directory by its device and inode numbers.
// This handles deduplication across symlinks and absolute/relative spellings
// of the same root.
type dirKey struct {
	dev uint64
	ino uint64
}

// uniqueRoots drops empty, missing, and duplicate directories from roots,
// preserving the order in which each survivor first appears.
func uniqueRoots(roots []string) []string {
	unique := make([]string, 0, len(roots))
	seen := make(map[dirKey]struct{})

	for _, root := range roots {
		if root == "" {
			continue
		}

		key, ok := statDir(root)
		if !ok {
			continue
		}

		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}

		unique = append(unique, root)
	}

	return unique
}

// statDir resolves root to a directory identity key. Returns false if root
// does not exist, is not a directory, or its identity cannot be determined.
func statDir(root string) (key dirKey, ok bool) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return key, false
	}

	// Resolve symlinks so linked and canonical spellings collide.
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return key, false
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.IsDir() {
		return key, false
	}

	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return key, false
	}

	return dirKey{dev: stat.Dev, ino: stat.Ino}, true
}

// parseDefine splits a NAME=VALUE definition and parses the value as a
// template literal: the keywords true and false, then integer (honoring
// 0x, 0o, and 0b radix prefixes), then float.
func parseDefine(definition string) (string, wgsl.Literal, error) {
	name, value, found := strings.Cut(definition, "=")
	if !found || name == "" {
		return "", wgsl.Literal{}, ErrInvalidDefine.With(
			slog.String("definition", definition),
			slog.String("expected", "NAME=VALUE"),
		)
	}

	switch value {
	case "true":
		return name, wgsl.Bool(true), nil
	case "false":
		return name, wgsl.Bool(false), nil
	}

	if i, err := strconv.ParseInt(value, 0, 64); err == nil {
		return name, wgsl.Integer(i), nil
	}

	if f, err := strconv.ParseFloat(value, 64); err == nil {
		return name, wgsl.Float(f), nil
	}

	return "", wgsl.Literal{}, ErrInvalidDefine.With(
		slog.String("name", name),
		slog.String("value", value),
	)
}
