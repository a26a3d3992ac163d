// Package manifest loads workspace manifests: YAML documents naming the
// shader roots to scan and the variables every render starts from.
//
// Variables come in two flavors. Entries under vars are plain typed
// literals. Entries under compute are expr-lang expressions evaluated in
// declaration order, each against every variable defined before it, so
// later entries can derive values from earlier ones.
package manifest

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/wgslpp/log"
	"github.com/ardnew/wgslpp/wgsl"
)

// DefaultName is the manifest file name looked up when none is given.
const DefaultName = "wgslpp.yaml"

// Manifest configures a workspace: the directories to scan for shaders and
// the variables defined before any shader is rendered.
type Manifest struct {
	Root    string         `yaml:"root"`
	Search  []string       `yaml:"search"`
	Vars    map[string]any `yaml:"vars"`
	Compute yaml.MapSlice  `yaml:"compute"`
}

// Load reads and parses the manifest at path.
func Load(ctx context.Context, path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrLoadManifest.Wrap(err).
			With(slog.String("path", path))
	}

	m, err := Parse(ctx, data)
	if err != nil {
		return nil, WrapError(err).With(slog.String("path", path))
	}

	return m, nil
}

// Parse decodes a manifest document.
func Parse(ctx context.Context, data []byte) (*Manifest, error) {
	var m Manifest

	if err := yaml.UnmarshalContext(ctx, data, &m); err != nil {
		return nil, ErrParseManifest.Wrap(err)
	}

	log.TraceContext(ctx, "manifest parsed",
		slog.Int("vars", len(m.Vars)),
		slog.Int("compute", len(m.Compute)))

	return &m, nil
}

// Roots returns the shader roots to scan in priority order, resolving
// relative entries against base. The manifest's own root comes first so
// its shaders shadow same-named shaders from the search directories.
func (m *Manifest) Roots(base string) []string {
	roots := make([]string, 0, len(m.Search)+1)

	if m.Root != "" {
		roots = append(roots, resolve(base, m.Root))
	}

	for _, dir := range m.Search {
		roots = append(roots, resolve(base, dir))
	}

	return roots
}

func resolve(base, dir string) string {
	if base == "" || filepath.IsAbs(dir) {
		return dir
	}

	return filepath.Join(base, dir)
}

// Apply installs the manifest's variables into state as globals: plain
// vars first, then compute entries in declaration order.
func (m *Manifest) Apply(ctx context.Context, state *wgsl.State) error {
	// Plain vars are independent literals, so their order is arbitrary.
	// Apply them sorted by name to keep failures deterministic.
	for _, name := range slices.Sorted(maps.Keys(m.Vars)) {
		value, err := literalValue(m.Vars[name])
		if err != nil {
			return WrapError(err).With(slog.String("name", name))
		}

		state.Set(name, value)
	}

	for _, entry := range m.Compute {
		name, ok := entry.Key.(string)
		if !ok {
			return ErrInvalidCompute.With(slog.Any("key", entry.Key))
		}

		source, ok := entry.Value.(string)
		if !ok {
			return ErrInvalidCompute.With(slog.String("name", name))
		}

		value, err := computeValue(state, name, source)
		if err != nil {
			return err
		}

		state.Set(name, value)

		log.TraceContext(ctx, "variable computed",
			slog.String("name", name),
			slog.String("value", value.String()))
	}

	return nil
}

// computeValue evaluates one expr-lang source against the variables
// defined so far and coerces the result to a literal.
func computeValue(state *wgsl.State, name, source string) (wgsl.Literal, error) {
	env := environ(state)

	program, err := expr.Compile(source, expr.Env(env))
	if err != nil {
		return wgsl.Literal{}, ErrComputeCompile.Wrap(err).With(
			slog.String("name", name),
			slog.String("source", source),
		)
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return wgsl.Literal{}, ErrComputeRun.Wrap(err).With(
			slog.String("name", name),
			slog.String("source", source),
		)
	}

	value, err := literalValue(result)
	if err != nil {
		return wgsl.Literal{}, WrapError(err).With(
			slog.String("name", name),
			slog.String("source", source),
		)
	}

	return value, nil
}

// environ flattens the state's effective values into an expr-lang
// environment.
func environ(state *wgsl.State) map[string]any {
	names := state.Names()
	env := make(map[string]any, len(names))

	for _, name := range names {
		value, ok := state.Get(name)
		if !ok {
			continue
		}

		switch value.Kind {
		case wgsl.LitInteger:
			env[name] = value.Int
		case wgsl.LitFloat:
			env[name] = value.Float
		case wgsl.LitBool:
			env[name] = value.Bool
		}
	}

	return env
}

// literalValue coerces a decoded YAML scalar or an expression result to a
// typed literal. YAML decodes non-negative integers unsigned, so both
// signed and unsigned forms are accepted. Strings and structured values
// have no literal form.
func literalValue(v any) (wgsl.Literal, error) {
	switch value := v.(type) {
	case bool:
		return wgsl.Bool(value), nil

	case int:
		return wgsl.Integer(int64(value)), nil

	case int64:
		return wgsl.Integer(value), nil

	case uint64:
		if value > math.MaxInt64 {
			return wgsl.Literal{}, ErrInvalidValue.With(
				slog.Uint64("value", value),
			)
		}

		return wgsl.Integer(int64(value)), nil

	case float32:
		return wgsl.Float(float64(value)), nil

	case float64:
		return wgsl.Float(value), nil

	default:
		return wgsl.Literal{}, ErrInvalidValue.With(
			slog.String("type", fmt.Sprintf("%T", v)),
			slog.Any("value", v),
		)
	}
}
