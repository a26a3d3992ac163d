package cmd

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestFmtValidSyntax tests that well-formed templates format without error.
func TestFmtValidSyntax(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "plain text",
			input:   "const PI: f32 = 3.14159;\n",
			wantErr: false,
		},
		{
			name:    "include directive",
			input:   "//:include lighting/pbr.wgsl\n",
			wantErr: false,
		},
		{
			name:    "constant directive",
			input:   "//:const WORKGROUP_SIZE\n",
			wantErr: false,
		},
		{
			name:    "conditional block",
			input:   "//:if DEBUG\nfn dbg() {}\n//:end\n",
			wantErr: false,
		},
		{
			name:    "conditional with else",
			input:   "//:if FAST\nfn a() {}\n//:else\nfn b() {}\n//:end\n",
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp file with input
			tmpfile, err := os.CreateTemp("", "wgslpp-test-*.wgsl")
			if err != nil {
				t.Fatal(err)
			}
			defer os.Remove(tmpfile.Name())

			if _, err := tmpfile.WriteString(tt.input); err != nil {
				t.Fatal(err)
			}
			if err := tmpfile.Close(); err != nil {
				t.Fatal(err)
			}

			// Run the command
			format := &Fmt{
				Source: tmpfile.Name(),
			}

			err = format.Run(context.Background())

			if (err != nil) != tt.wantErr {
				t.Errorf("Fmt.Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestFmtInvalidSyntax tests that malformed templates produce parse errors.
func TestFmtInvalidSyntax(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "unknown directive",
			input:   "//:frobnicate x\n",
			wantErr: true,
		},
		{
			name:    "space after marker",
			input:   "//: include x\n",
			wantErr: true,
		},
		{
			name:    "double else",
			input:   "//:if true\nA\n//:else\nB\n//:else\nC\n//:end\n",
			wantErr: true,
		},
		{
			name:    "text after stray end",
			input:   "//:end\nB\n",
			wantErr: true,
		},
		{
			name:    "malformed condition",
			input:   "//:if 1.2.3\nA\n//:end\n",
			wantErr: true,
		},
		{
			name:    "missing condition",
			input:   "//:if\nA\n//:end\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp file with input
			tmpfile, err := os.CreateTemp("", "wgslpp-test-*.wgsl")
			if err != nil {
				t.Fatal(err)
			}
			defer os.Remove(tmpfile.Name())

			if _, err := tmpfile.WriteString(tt.input); err != nil {
				t.Fatal(err)
			}
			if err := tmpfile.Close(); err != nil {
				t.Fatal(err)
			}

			// Run the command
			format := &Fmt{
				Source: tmpfile.Name(),
			}

			err = format.Run(context.Background())

			if (err != nil) != tt.wantErr {
				t.Errorf("Fmt.Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestFmtStdin tests reading the template from stdin.
func TestFmtStdin(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{
			name:    "valid from stdin",
			input:   "//:include util.wgsl\n",
			wantErr: false,
		},
		{
			name:    "invalid from stdin",
			input:   "//:frobnicate\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save and restore stdin
			oldStdin := os.Stdin
			defer func() { os.Stdin = oldStdin }()

			// Create a pipe to simulate stdin
			r, w, err := os.Pipe()
			if err != nil {
				t.Fatal(err)
			}
			os.Stdin = r

			// Write input to pipe in goroutine
			go func() {
				defer w.Close()
				io.WriteString(w, tt.input)
			}()

			// Run the command
			format := &Fmt{
				Source: "-",
			}

			err = format.Run(context.Background())

			if (err != nil) != tt.wantErr {
				t.Errorf("Fmt.Run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestFmtMissingSource tests that an unreadable source reports a read error
// rather than a parse error.
func TestFmtMissingSource(t *testing.T) {
	format := &Fmt{
		Source: filepath.Join(t.TempDir(), "absent.wgsl"),
	}

	if err := format.Run(context.Background()); !errors.Is(err, ErrReadSource) {
		t.Errorf("Fmt.Run() error = %v, want %v", err, ErrReadSource)
	}
}

// TestFmtOutput tests the canonical form written to stdout.
func TestFmtOutput(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains []string
	}{
		{
			name:  "expression spacing normalized",
			input: "//:if DEBUG&&VERBOSE\nfn dbg() {}\n//:end\n",
			contains: []string{
				"//:if DEBUG && VERBOSE\n",
				"fn dbg() {}\n",
				"//:end\n",
			},
		},
		{
			name:  "indentation flushed",
			input: "  const N: u32 = 4u;  \n\n//:include util.wgsl\n",
			contains: []string{
				"const N: u32 = 4u;\n",
				"//:include util.wgsl\n",
			},
		},
		{
			name:  "open conditional closed",
			input: "//:if X\na();",
			contains: []string{
				"//:if X\n",
				"a();\n",
				"//:end\n",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create temp file with input
			tmpfile, err := os.CreateTemp("", "wgslpp-test-*.wgsl")
			if err != nil {
				t.Fatal(err)
			}
			defer os.Remove(tmpfile.Name())

			if _, err := tmpfile.WriteString(tt.input); err != nil {
				t.Fatal(err)
			}
			if err := tmpfile.Close(); err != nil {
				t.Fatal(err)
			}

			// Capture stdout
			oldStdout := os.Stdout
			r, w, _ := os.Pipe()
			os.Stdout = w

			// Run the command
			format := &Fmt{
				Source: tmpfile.Name(),
			}

			err = format.Run(context.Background())

			// Restore stdout
			w.Close()
			os.Stdout = oldStdout

			if err != nil {
				t.Fatalf("Fmt.Run() unexpected error = %v", err)
			}

			// Read captured output
			var buf bytes.Buffer
			io.Copy(&buf, r)
			output := buf.String()

			// Check for expected strings
			for _, expected := range tt.contains {
				if !strings.Contains(output, expected) {
					t.Errorf("Fmt.Run() output = %q, want to contain %q", output, expected)
				}
			}
		})
	}
}
