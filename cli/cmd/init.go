package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/wgslpp/log"
	"github.com/ardnew/wgslpp/manifest"
	"github.com/ardnew/wgslpp/profile"
)

// starterManifest is written by init as a documented point of departure.
const starterManifest = `# wgslpp workspace manifest
#
# Shader search roots, relative to this file. The root directory shadows
# search entries, and earlier search entries shadow later ones.
root: .
search: []

# Plain variables available to every shader in the workspace.
vars:
  DEBUG: false

# Computed variables, evaluated top to bottom. Each entry may reference
# plain variables and any compute entry above it.
compute: {}
`

// Init writes a starter workspace manifest, or with --config a CLI
// configuration file populated from the current flag values.
type Init struct {
	Force  bool   `help:"Overwrite an existing file" short:"f"`
	Config bool   `help:"Write the CLI configuration file instead of a manifest" short:"c"`
	Path   string `arg:"" help:"Destination path" name:"path" optional:""`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	if i.Config {
		return i.writeConfig(ctx)
	}

	return i.writeManifest(ctx)
}

func (i *Init) writeManifest(ctx context.Context) error {
	path := i.Path
	if path == "" {
		path = manifest.DefaultName
	}

	// Check if file exists and force not set
	if _, err := os.Stat(path); err == nil && !i.Force {
		return ErrWriteManifest.
			With(slog.String("file", path)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	if err := os.WriteFile(path, []byte(starterManifest), 0o644); err != nil {
		return ErrWriteManifest.
			With(slog.String("file", path)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized workspace manifest",
		slog.String("path", path),
	)

	return nil
}

func (i *Init) writeConfig(ctx context.Context) error {
	ktx := kongContextFrom(ctx)

	path := i.Path
	if path == "" {
		confPath, ok := ktx.Model.Vars()[ConfigIdentifier]
		if !ok {
			panic("internal error: config path undefined")
		}

		path = confPath + ".yaml"
	}

	// Check if file exists and force not set
	if _, err := os.Stat(path); err == nil && !i.Force {
		return ErrWriteConfig.
			With(slog.String("file", path)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	buf, err := yaml.MarshalContext(ctx, i.buildConfig(ctx))
	if err != nil {
		return ErrYAMLMarshal.Wrap(err)
	}

	if err := os.WriteFile(path, buf, 0o644); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", path)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", path),
	)

	return nil
}

// buildConfig collects current flag values into a resolver-compatible
// document. Help, profiling, and unset flags are omitted.
func (i *Init) buildConfig(ctx context.Context) yaml.MapSlice {
	ktx := kongContextFrom(ctx)

	var doc yaml.MapSlice

	prefixIgnore := []string{"help", profile.Tag}

	for _, flag := range ktx.Model.Flags {
		if flag.Hidden || slices.ContainsFunc(prefixIgnore, func(s string) bool {
			return strings.HasPrefix(flag.Name, s)
		}) {
			continue
		}

		value := flagValue(ktx, flag)
		if value == nil {
			continue
		}

		doc = append(doc, yaml.MapItem{Key: flag.Name, Value: value})
	}

	return doc
}

// flagValue returns the YAML value for a CLI flag, or nil if unset or empty.
func flagValue(ktx *kong.Context, flag *kong.Flag) any {
	val := ktx.FlagValue(flag)
	if val == nil {
		return nil
	}

	switch v := val.(type) {
	case bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v

	case string:
		if v == "" {
			return nil
		}

		return v

	case []string:
		if len(v) == 0 {
			return nil
		}

		return v

	case fmt.Stringer:
		if s := v.String(); s != "" {
			return s
		}

		return nil

	default:
		return fmt.Sprint(v)
	}
}
