package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/ardnew/wgslpp/wgsl"
)

func TestLoad(t *testing.T) {
	t.Parallel()

	doc := `root: shaders
search:
  - lib
  - /opt/wgsl
vars:
  FLAGS: 3
  SCALE: 1.5
  DEBUG: true
compute:
  DOUBLE_SCALE: SCALE * 2
  VERBOSE: DEBUG && FLAGS > 0
`

	path := filepath.Join(t.TempDir(), DefaultName)
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	m, err := Load(t.Context(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if m.Root != "shaders" {
		t.Errorf("Root = %q, want %q", m.Root, "shaders")
	}

	wantSearch := []string{"lib", "/opt/wgsl"}
	if !slices.Equal(m.Search, wantSearch) {
		t.Errorf("Search = %v, want %v", m.Search, wantSearch)
	}

	state := wgsl.NewState()
	if err := m.Apply(t.Context(), state); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	tests := []struct {
		name string
		want wgsl.Literal
	}{
		{"FLAGS", wgsl.Integer(3)},
		{"SCALE", wgsl.Float(1.5)},
		{"DEBUG", wgsl.Bool(true)},
		{"DOUBLE_SCALE", wgsl.Float(3)},
		{"VERBOSE", wgsl.Bool(true)},
	}

	for _, tt := range tests {
		got, ok := state.Get(tt.name)
		if !ok {
			t.Errorf("Get(%q) not found", tt.name)

			continue
		}

		if !got.Equal(tt.want) {
			t.Errorf("Get(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoad_Missing(t *testing.T) {
	t.Parallel()

	_, err := Load(t.Context(), filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, ErrLoadManifest) {
		t.Errorf("Load() error = %v, want ErrLoadManifest", err)
	}
}

func TestParse_Invalid(t *testing.T) {
	t.Parallel()

	_, err := Parse(t.Context(), []byte("vars: [unclosed"))
	if !errors.Is(err, ErrParseManifest) {
		t.Errorf("Parse() error = %v, want ErrParseManifest", err)
	}
}

func TestManifest_Roots(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		manifest Manifest
		base     string
		want     []string
	}{
		{
			name:     "root before search",
			manifest: Manifest{Root: "shaders", Search: []string{"lib"}},
			base:     "/project",
			want:     []string{"/project/shaders", "/project/lib"},
		},
		{
			name:     "absolute entries kept",
			manifest: Manifest{Root: "/abs/shaders", Search: []string{"/abs/lib"}},
			base:     "/project",
			want:     []string{"/abs/shaders", "/abs/lib"},
		},
		{
			name:     "empty root omitted",
			manifest: Manifest{Search: []string{"lib"}},
			base:     "/project",
			want:     []string{"/project/lib"},
		},
		{
			name:     "empty base keeps relative entries",
			manifest: Manifest{Root: "shaders"},
			base:     "",
			want:     []string{"shaders"},
		},
		{
			name:     "no entries",
			manifest: Manifest{},
			base:     "/project",
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.manifest.Roots(tt.base)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Roots(%q) = %v, want %v", tt.base, got, tt.want)
			}
		})
	}
}

func TestManifest_Apply_ComputeOrder(t *testing.T) {
	t.Parallel()

	// Each entry derives from the one before it, so any reordering of the
	// document would fail to compile.
	doc := `vars:
  BASE: 4
compute:
  WIDTH: BASE * 256
  HEIGHT: WIDTH - 256
  PIXELS: WIDTH * HEIGHT
  MASK: BIT_3 + BIT_0
`

	m, err := Parse(t.Context(), []byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	state := wgsl.NewState()
	if err := m.Apply(t.Context(), state); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	tests := []struct {
		name string
		want wgsl.Literal
	}{
		{"WIDTH", wgsl.Integer(1024)},
		{"HEIGHT", wgsl.Integer(768)},
		{"PIXELS", wgsl.Integer(786432)},
		{"MASK", wgsl.Integer(9)},
	}

	for _, tt := range tests {
		got, ok := state.Get(tt.name)
		if !ok {
			t.Errorf("Get(%q) not found", tt.name)

			continue
		}

		if !got.Equal(tt.want) {
			t.Errorf("Get(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestManifest_Apply_ComputeOutOfOrder(t *testing.T) {
	t.Parallel()

	doc := `compute:
  HEIGHT: WIDTH - 256
  WIDTH: "1024"
`

	m, err := Parse(t.Context(), []byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if err := m.Apply(t.Context(), wgsl.NewState()); !errors.Is(err, ErrComputeCompile) {
		t.Errorf("Apply() error = %v, want ErrComputeCompile", err)
	}
}

func TestManifest_Apply_SetsGlobals(t *testing.T) {
	t.Parallel()

	state := wgsl.NewState()
	state.OverrideInt("SCALE", 7)

	m, err := Parse(t.Context(), []byte("vars:\n  SCALE: 2\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if err := m.Apply(t.Context(), state); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	// The manifest writes the globals tier, so an existing override still
	// shadows the manifest value until it is cleared.
	if got, _ := state.Get("SCALE"); !got.Equal(wgsl.Integer(7)) {
		t.Errorf("Get(SCALE) = %v, want 7 while overridden", got)
	}

	state.ClearOverride("SCALE")

	if got, _ := state.Get("SCALE"); !got.Equal(wgsl.Integer(2)) {
		t.Errorf("Get(SCALE) = %v, want 2 after ClearOverride", got)
	}
}

func TestManifest_Apply_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			name: "string var",
			doc:  "vars:\n  NAME: shadow\n",
			want: ErrInvalidValue,
		},
		{
			name: "structured var",
			doc:  "vars:\n  POS: {x: 1}\n",
			want: ErrInvalidValue,
		},
		{
			name: "integer var overflow",
			doc:  "vars:\n  BIG: 18446744073709551615\n",
			want: ErrInvalidValue,
		},
		{
			name: "undefined reference",
			doc:  "compute:\n  AREA: WIDTH * HEIGHT\n",
			want: ErrComputeCompile,
		},
		{
			name: "string result",
			doc:  "compute:\n  NAME: '\"a\" + \"b\"'\n",
			want: ErrInvalidValue,
		},
		{
			name: "runtime failure",
			doc:  "compute:\n  REM: BIT_0 % 0\n",
			want: ErrComputeRun,
		},
		{
			name: "non-string compute value",
			doc:  "compute:\n  DIMS: [1, 2]\n",
			want: ErrInvalidCompute,
		},
		{
			name: "non-string compute key",
			doc:  "compute:\n  7: \"1\"\n",
			want: ErrInvalidCompute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := Parse(t.Context(), []byte(tt.doc))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}

			if err := m.Apply(t.Context(), wgsl.NewState()); !errors.Is(err, tt.want) {
				t.Errorf("Apply() error = %v, want %v", err, tt.want)
			}
		})
	}
}
