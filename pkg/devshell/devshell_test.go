package devshell

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/wsgraph/pkg/errors"
)

func TestDefault(t *testing.T) {
	m := Default()
	if len(m.Commands) == 0 {
		t.Fatal("default menu has no commands")
	}
	for _, name := range []string{"build", "test", "graph", "dot"} {
		if _, ok := m.Lookup(name); !ok {
			t.Errorf("default menu missing %q", name)
		}
	}
	if len(m.Packages) == 0 {
		t.Error("default menu has no packages")
	}
}

func TestDefaultIsReadOnly(t *testing.T) {
	m := Default()
	m.Commands[0].Command = "rm -rf /"
	m.Packages = append(m.Packages[:0], "evil")

	fresh := Default()
	if fresh.Commands[0].Command == "rm -rf /" {
		t.Error("mutating a returned menu changed the default")
	}
	if fresh.Packages[0] == "evil" {
		t.Error("mutating returned packages changed the default")
	}
}

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`
packages = ["go"]

[[commands]]
name = "vet"
command = "go vet ./..."
help = "vet"
category = "go"
`))
	if err != nil {
		t.Fatal(err)
	}
	want := Menu{
		Commands: []Command{{Name: "vet", Command: "go vet ./...", Help: "vet", Category: "go"}},
		Packages: []string{"go"},
	}
	if diff := cmp.Diff(want, m); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"syntax", `[[commands`},
		{"unknown key", "[[commands]]\nname = \"a\"\ncommand = \"true\"\nshell = \"zsh\"\n"},
		{"missing name", "[[commands]]\ncommand = \"true\"\n"},
		{"empty command", "[[commands]]\nname = \"a\"\ncommand = \"  \"\n"},
		{"duplicate", "[[commands]]\nname = \"a\"\ncommand = \"true\"\n[[commands]]\nname = \"a\"\ncommand = \"false\"\n"},
		{"bad quoting", "[[commands]]\nname = \"a\"\ncommand = \"echo 'oops\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, errors.ErrCodeConfiguration) {
				t.Errorf("got %v, want configuration error", err)
			}
		})
	}
}

func TestCategories(t *testing.T) {
	m := Menu{Commands: []Command{
		{Name: "a", Category: "rust"},
		{Name: "b", Category: "docs"},
		{Name: "c", Category: "rust"},
	}}
	if diff := cmp.Diff([]string{"rust", "docs"}, m.Categories()); diff != "" {
		t.Errorf("Categories mismatch (-want +got):\n%s", diff)
	}
	if got := m.InCategory("rust"); len(got) != 2 || got[1].Name != "c" {
		t.Errorf("InCategory(rust) = %v", got)
	}
}

func TestMerge(t *testing.T) {
	base := Menu{
		Commands: []Command{{Name: "build", Command: "cargo build"}, {Name: "test", Command: "cargo test"}},
		Packages: []string{"cargo"},
	}
	merged := base.Merge(Menu{
		Commands: []Command{{Name: "test", Command: "cargo nextest run"}, {Name: "bench", Command: "cargo bench"}},
	})

	want := []Command{
		{Name: "build", Command: "cargo build"},
		{Name: "test", Command: "cargo nextest run"},
		{Name: "bench", Command: "cargo bench"},
	}
	if diff := cmp.Diff(want, merged.Commands); diff != "" {
		t.Errorf("Merge commands (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"cargo"}, merged.Packages); diff != "" {
		t.Errorf("Merge kept packages (-want +got):\n%s", diff)
	}
	if base.Commands[1].Command != "cargo test" {
		t.Error("Merge modified the receiver")
	}
}

func TestArgv(t *testing.T) {
	c := Command{Name: "lint", Command: `cargo clippy -- -D "warnings"`}
	argv, err := c.Argv()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"cargo", "clippy", "--", "-D", "warnings"}, argv); diff != "" {
		t.Errorf("Argv mismatch (-want +got):\n%s", diff)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	err := Run(context.Background(), Command{Name: "pwd", Command: "pwd"}, dir, Stdio{Out: &out})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), dir) {
		t.Errorf("output %q does not mention %q", out.String(), dir)
	}
}

func TestRunFailure(t *testing.T) {
	err := Run(context.Background(), Command{Name: "fail", Command: "sh -c 'exit 3'"}, t.TempDir(), Stdio{})
	if !errors.Is(err, errors.ErrCodeBuild) {
		t.Fatalf("got %v, want build error", err)
	}
	if !strings.Contains(err.Error(), "status 3") {
		t.Errorf("error %q does not report exit status", err)
	}
}
