package cmd

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"
)

// TestListText verifies the plain text listing: sorted paths with include and
// reference summaries.
func TestListText(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "a.wgsl", "//:include lib/b.wgsl\n//:if DEBUG\nx\n//:end\n")
	writeFile(t, root, "lib/b.wgsl", "plain\n")

	ctx := testOptions(t, Options{Search: []string{root}})

	list := &List{Format: "text"}

	output, err := captureStdout(t, func() error { return list.Run(ctx) })
	if err != nil {
		t.Fatalf("List.Run() unexpected error = %v", err)
	}

	want := strings.Join([]string{
		"a.wgsl",
		"  includes:   lib/b.wgsl",
		"  references: DEBUG",
		"lib/b.wgsl",
		"",
	}, "\n")

	if output != want {
		t.Errorf("List.Run() output = %q, want %q", output, want)
	}
}

// TestListJSON verifies the JSON listing decodes back into the row type.
func TestListJSON(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "a.wgsl", "//:include lib/b.wgsl\n//:if DEBUG\nx\n//:end\n")
	writeFile(t, root, "lib/b.wgsl", "plain\n")

	ctx := testOptions(t, Options{Search: []string{root}})

	list := &List{Format: "json"}

	output, err := captureStdout(t, func() error { return list.Run(ctx) })
	if err != nil {
		t.Fatalf("List.Run() unexpected error = %v", err)
	}

	var info []shaderInfo
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		t.Fatalf("List.Run() emitted invalid JSON: %v\n%s", err, output)
	}

	if len(info) != 2 {
		t.Fatalf("decoded %d rows, want 2", len(info))
	}

	if info[0].Path != "a.wgsl" ||
		!slices.Equal(info[0].Includes, []string{"lib/b.wgsl"}) ||
		!slices.Equal(info[0].References, []string{"DEBUG"}) {
		t.Errorf("row 0 = %+v, want a.wgsl with its include and reference", info[0])
	}

	if info[1].Path != "lib/b.wgsl" ||
		len(info[1].Includes) != 0 || len(info[1].References) != 0 {
		t.Errorf("row 1 = %+v, want lib/b.wgsl with no includes or references", info[1])
	}
}

// TestListYAML verifies the YAML listing carries every row.
func TestListYAML(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "a.wgsl", "//:if DEBUG\nx\n//:end\n")
	writeFile(t, root, "b.wgsl", "plain\n")

	ctx := testOptions(t, Options{Search: []string{root}})

	list := &List{Format: "yaml"}

	output, err := captureStdout(t, func() error { return list.Run(ctx) })
	if err != nil {
		t.Fatalf("List.Run() unexpected error = %v", err)
	}

	for _, want := range []string{"path: a.wgsl", "path: b.wgsl", "DEBUG"} {
		if !strings.Contains(output, want) {
			t.Errorf("List.Run() output = %q, want to contain %q", output, want)
		}
	}
}

// TestListEmptyWorkspace verifies an empty workspace lists nothing without
// failing.
func TestListEmptyWorkspace(t *testing.T) {
	ctx := testOptions(t, Options{Search: []string{t.TempDir()}})

	list := &List{Format: "text"}

	output, err := captureStdout(t, func() error { return list.Run(ctx) })
	if err != nil {
		t.Fatalf("List.Run() unexpected error = %v", err)
	}

	if output != "" {
		t.Errorf("List.Run() output = %q, want empty", output)
	}
}
