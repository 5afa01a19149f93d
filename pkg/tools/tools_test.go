package tools

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/wsgraph/pkg/errors"
)

func writeStub(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	stub := writeStub(t, dir, "fake-cargo")
	t.Setenv("PATH", dir)

	tool, err := Resolve("fake-cargo depgraph")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if tool.Path != stub {
		t.Errorf("Path = %q, want %q", tool.Path, stub)
	}
	if diff := cmp.Diff([]string{"depgraph"}, tool.Args); diff != "" {
		t.Errorf("Args mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveMissing(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	_, err := Resolve("definitely-not-installed")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("Resolve() error = %v, want configuration error", err)
	}
}

func TestResolveEmpty(t *testing.T) {
	for _, cmd := range []string{"", "   "} {
		_, err := Resolve(cmd)
		if !errors.Is(err, errors.ErrCodeConfiguration) {
			t.Errorf("Resolve(%q) error = %v, want configuration error", cmd, err)
		}
	}
}

func TestResolveToolchainWithoutRenderer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	writeStub(t, dir, "extract")
	t.Setenv("PATH", dir)

	tc, err := ResolveToolchain("extract", "")
	if err != nil {
		t.Fatalf("ResolveToolchain() error: %v", err)
	}
	if tc.Extractor.IsZero() {
		t.Error("Extractor should be resolved")
	}
	if !tc.Renderer.IsZero() {
		t.Error("Renderer should be zero when not requested")
	}
}

func TestResolveToolchainMissingRenderer(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	dir := t.TempDir()
	writeStub(t, dir, "extract")
	t.Setenv("PATH", dir)

	_, err := ResolveToolchain("extract", "dot")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("ResolveToolchain() error = %v, want configuration error", err)
	}
}

func TestToolCommand(t *testing.T) {
	tool := Tool{Path: "/usr/bin/cargo", Args: []string{"depgraph"}}

	got := tool.Command("--workspace-only", "--all-deps")
	want := []string{"/usr/bin/cargo", "depgraph", "--workspace-only", "--all-deps"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Command() mismatch (-want +got):\n%s", diff)
	}

	if tool.String() != "/usr/bin/cargo depgraph" {
		t.Errorf("String() = %q", tool.String())
	}

	// Command must not alias the tool's own Args slice.
	_ = tool.Command("x")
	if len(tool.Args) != 1 {
		t.Errorf("Args mutated: %v", tool.Args)
	}
}
