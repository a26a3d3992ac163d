package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

// mustResolve loads source through the YAML configuration loader, failing
// the test on loader errors.
func mustResolve(t *testing.T, source string) kong.Resolver {
	t.Helper()

	loader := resolve(context.Background())

	resolver, err := loader(strings.NewReader(source))
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	return resolver
}

// resolveFlag resolves the named flag against the resolver, failing the test
// on resolver errors.
func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	flag := &kong.Flag{Value: &kong.Value{Name: name}}

	val, err := r.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", name, err)
	}

	return val
}

func TestResolve_FlatKeys(t *testing.T) {
	resolver := mustResolve(t, `
log-level: debug
log-format: json
log-pretty: true
`)

	if val := resolveFlag(t, resolver, "log-level"); val != "debug" {
		t.Errorf("expected log-level=debug, got %v", val)
	}

	if val := resolveFlag(t, resolver, "log-format"); val != "json" {
		t.Errorf("expected log-format=json, got %v", val)
	}

	if val := resolveFlag(t, resolver, "log-pretty"); val != true {
		t.Errorf("expected log-pretty=true, got %v", val)
	}
}

func TestResolve_NestedKeys(t *testing.T) {
	resolver := mustResolve(t, `
log:
  level: warn
  pretty: false
`)

	if val := resolveFlag(t, resolver, "log-level"); val != "warn" {
		t.Errorf("expected log-level=warn, got %v", val)
	}

	if val := resolveFlag(t, resolver, "log-pretty"); val != false {
		t.Errorf("expected log-pretty=false, got %v", val)
	}
}

func TestResolve_UnderscoreHyphenMapping(t *testing.T) {
	resolver := mustResolve(t, `log_level: debug`)

	// Test underscore version (as stored in config)
	if val := resolveFlag(t, resolver, "log_level"); val != "debug" {
		t.Errorf("expected log_level=debug, got %v", val)
	}

	// Test hyphen version (should also work via underscore mapping)
	if val := resolveFlag(t, resolver, "log-level"); val != "debug" {
		t.Errorf("expected log-level=debug, got %v", val)
	}
}

func TestResolve_NumbersAsStrings(t *testing.T) {
	resolver := mustResolve(t, `
depth: 42
scale: 1.5
offset: -7
`)

	if val := resolveFlag(t, resolver, "depth"); val != "42" {
		t.Errorf("expected depth=%q, got %v (%T)", "42", val, val)
	}

	if val := resolveFlag(t, resolver, "scale"); val != "1.5" {
		t.Errorf("expected scale=%q, got %v (%T)", "1.5", val, val)
	}

	if val := resolveFlag(t, resolver, "offset"); val != "-7" {
		t.Errorf("expected offset=%q, got %v (%T)", "-7", val, val)
	}
}

func TestResolve_SequencePassthrough(t *testing.T) {
	resolver := mustResolve(t, `
search:
  - shaders
  - common
`)

	val := resolveFlag(t, resolver, "search")

	seq, ok := val.([]any)
	if !ok {
		t.Fatalf("expected sequence, got %T", val)
	}

	if len(seq) != 2 || seq[0] != "shaders" || seq[1] != "common" {
		t.Errorf("expected [shaders common], got %v", seq)
	}
}

func TestResolve_MissingKey(t *testing.T) {
	resolver := mustResolve(t, `log-level: debug`)

	if val := resolveFlag(t, resolver, "manifest"); val != nil {
		t.Errorf("expected nil for missing key, got %v", val)
	}
}

func TestResolve_InvalidYAML(t *testing.T) {
	// Parse errors yield an empty config so Kong falls back to defaults.
	resolver := mustResolve(t, "{{ not yaml ::")

	if val := resolveFlag(t, resolver, "log-level"); val != nil {
		t.Errorf("expected nil from empty config, got %v", val)
	}
}

func TestResolve_ReadError(t *testing.T) {
	loader := resolve(context.Background())

	// Read errors also yield an empty config rather than aborting startup.
	resolver, err := loader(&errorReader{err: bytes.ErrTooLarge})
	if err != nil {
		t.Fatalf("loader failed: %v", err)
	}

	if val := resolveFlag(t, resolver, "log-level"); val != nil {
		t.Errorf("expected nil from empty config, got %v", val)
	}
}

// errorReader is a reader that always returns an error.
type errorReader struct {
	err error
}

func (e *errorReader) Read(p []byte) (n int, err error) {
	return 0, e.err
}
