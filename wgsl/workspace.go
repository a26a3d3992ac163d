package wgsl

import (
	"context"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/ardnew/wgslpp/log"
)

// State is the two-tier variable environment consulted by template
// expressions. Global variables hold the baseline configuration, and local
// overrides shadow globals by name without disturbing them.
type State struct {
	globals   map[string]Literal
	overrides map[string]Literal
}

// NewState returns a State seeded with the globals BIT_0 through BIT_63,
// where BIT_n holds the integer 1<<n.
func NewState() *State {
	globals := make(map[string]Literal, 64)

	for i := range 64 {
		globals["BIT_"+strconv.Itoa(i)] = Integer(int64(1) << i)
	}

	return &State{
		globals:   globals,
		overrides: make(map[string]Literal),
	}
}

// Get resolves name, checking overrides before globals.
func (s *State) Get(name string) (Literal, bool) {
	if value, ok := s.overrides[name]; ok {
		return value, true
	}

	value, ok := s.globals[name]

	return value, ok
}

// Set defines or replaces a global variable.
func (s *State) Set(name string, value Literal) { s.globals[name] = value }

// SetInt defines an integer global.
func (s *State) SetInt(name string, value int64) { s.Set(name, Integer(value)) }

// SetFloat defines a float global.
func (s *State) SetFloat(name string, value float64) { s.Set(name, Float(value)) }

// SetBool defines a boolean global.
func (s *State) SetBool(name string, value bool) { s.Set(name, Bool(value)) }

// Override defines or replaces a local override, shadowing any global with
// the same name.
func (s *State) Override(name string, value Literal) { s.overrides[name] = value }

// OverrideInt defines an integer override.
func (s *State) OverrideInt(name string, value int64) { s.Override(name, Integer(value)) }

// OverrideFloat defines a float override.
func (s *State) OverrideFloat(name string, value float64) { s.Override(name, Float(value)) }

// OverrideBool defines a boolean override.
func (s *State) OverrideBool(name string, value bool) { s.Override(name, Bool(value)) }

// ClearOverride removes the named override, unshadowing any global of the
// same name.
func (s *State) ClearOverride(name string) { delete(s.overrides, name) }

// Overridden reports whether name currently resolves through an override.
func (s *State) Overridden(name string) bool {
	_, ok := s.overrides[name]
	return ok
}

// ResetOverrides removes every override.
func (s *State) ResetOverrides() { clear(s.overrides) }

// Names returns every defined variable name, sorted and deduplicated across
// both tiers.
func (s *State) Names() []string {
	names := make(map[string]bool, len(s.globals)+len(s.overrides))

	for name := range s.globals {
		names[name] = true
	}

	for name := range s.overrides {
		names[name] = true
	}

	return slices.Sorted(maps.Keys(names))
}

// Nearest returns the defined variable name that best matches name, or ""
// when nothing resembles it.
func (s *State) Nearest(name string) string {
	matches := fuzzy.Find(name, s.Names())
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}

// undefinedVariable builds the lookup failure for name, suggesting the
// closest defined name when one exists.
func undefinedVariable(env *State, name string) *Error {
	err := ErrUndefinedVariable.With(slog.String("name", name))

	if near := env.Nearest(name); near != "" {
		err = err.With(slog.String("closest", near))
	}

	return err
}

// DefaultExtension is the file extension Scan accepts when no others are
// configured.
const DefaultExtension = ".wgsl"

// Option configures a Workspace.
type Option func(*Workspace)

// WithExtensions sets the file extensions Scan accepts in place of
// DefaultExtension. Matching is case-insensitive.
func WithExtensions(exts ...string) Option {
	return func(ws *Workspace) { ws.exts = exts }
}

// Workspace is a collection of parsed shader templates sharing one variable
// environment. Includes resolve against the workspace by path.
type Workspace struct {
	state   *State
	shaders map[string]*Shader
	exts    []string
}

// New returns an empty workspace.
func New(opts ...Option) *Workspace {
	ws := &Workspace{
		state:   NewState(),
		shaders: make(map[string]*Shader),
		exts:    []string{DefaultExtension},
	}

	for _, opt := range opts {
		opt(ws)
	}

	return ws
}

// FromMemory builds a workspace from in-memory sources keyed by path.
func FromMemory(
	ctx context.Context,
	sources map[string]string,
	opts ...Option,
) (*Workspace, error) {
	ws := New(opts...)

	for path, source := range sources {
		shader, err := ParseShader(ctx, source)
		if err != nil {
			return nil, WrapError(err).With(slog.String("path", path))
		}

		ws.shaders[path] = shader
	}

	return ws, nil
}

// Scan builds a workspace by walking each root directory and parsing every
// file whose extension matches. Shaders are keyed by their slash-separated
// path relative to the root that provided them; when multiple roots provide
// the same relative path, the earliest root wins.
func Scan(ctx context.Context, roots []string, opts ...Option) (*Workspace, error) {
	ws := New(opts...)

	for _, root := range roots {
		fsys := os.DirFS(root)

		walk := func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if entry.IsDir() || !ws.matchExt(path) {
				return nil
			}

			if _, ok := ws.shaders[path]; ok {
				return nil // an earlier root already provides this path
			}

			data, err := fs.ReadFile(fsys, path)
			if err != nil {
				return err
			}

			shader, err := ParseShader(ctx, string(data))
			if err != nil {
				return WrapError(err).With(slog.String("path", path))
			}

			ws.shaders[path] = shader

			log.TraceContext(ctx, "shader scanned",
				slog.String("root", root),
				slog.String("path", path))

			return nil
		}

		if err := fs.WalkDir(fsys, ".", walk); err != nil {
			return nil, ErrScanWorkspace.Wrap(err).With(slog.String("root", root))
		}
	}

	return ws, nil
}

func (ws *Workspace) matchExt(path string) bool {
	ext := filepath.Ext(path)

	return slices.ContainsFunc(ws.exts, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

// State returns the workspace's variable environment.
func (ws *Workspace) State() *State { return ws.state }

// Paths returns the sorted paths of every shader in the workspace.
func (ws *Workspace) Paths() []string {
	return slices.Sorted(maps.Keys(ws.shaders))
}

// Shader returns the parsed template registered under path.
func (ws *Workspace) Shader(path string) (*Shader, bool) {
	shader, ok := ws.shaders[path]

	return shader, ok
}

// Add registers shader under path, replacing any existing entry.
func (ws *Workspace) Add(path string, shader *Shader) {
	ws.shaders[path] = shader
}

// GetShader renders the shader registered under path, fully resolving its
// includes against the workspace.
func (ws *Workspace) GetShader(path string) (string, error) {
	return ws.resolve(path, make(map[string]bool))
}

// resolve renders the shader at path. visiting holds the paths currently
// being rendered further up the include chain so that a shader including
// itself, directly or transitively, fails instead of recursing forever.
func (ws *Workspace) resolve(path string, visiting map[string]bool) (string, error) {
	shader, ok := ws.shaders[path]
	if !ok {
		err := ErrNotFound.With(slog.String("path", path))

		if near := ws.nearestPath(path); near != "" {
			err = err.With(slog.String("closest", near))
		}

		return "", err
	}

	if visiting[path] {
		return "", ErrIncludeCycle.With(
			slog.String("path", path),
			slog.Any("chain", slices.Sorted(maps.Keys(visiting))),
		)
	}

	visiting[path] = true
	defer delete(visiting, path)

	return shader.evaluate(ws, visiting)
}

// nearestPath returns the registered shader path that best matches path, or
// "" when nothing resembles it.
func (ws *Workspace) nearestPath(path string) string {
	matches := fuzzy.Find(path, ws.Paths())
	if len(matches) == 0 {
		return ""
	}

	return matches[0].Str
}
