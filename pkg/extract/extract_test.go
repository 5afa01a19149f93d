package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	wserrors "github.com/matzehuels/wsgraph/pkg/errors"
	"github.com/matzehuels/wsgraph/pkg/exclude"
	"github.com/matzehuels/wsgraph/pkg/tools"
)

// stub writes an executable shell script and returns it as a Tool.
func stub(t *testing.T, script string) tools.Tool {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell stubs require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "extractor")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatal(err)
	}
	return tools.Tool{Path: path}
}

func TestArgs(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  []string
	}{
		{"no exclusions", nil, []string{"--workspace-only", "--all-deps"}},
		{"sorted exclusions", []string{"a", "b", "c"}, []string{
			"--workspace-only", "--all-deps",
			"--exclude", "a", "--exclude", "b", "--exclude", "c",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Args(exclude.New(tt.names))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Args() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExtractPassesArguments(t *testing.T) {
	tool := stub(t, `echo "digraph { \"$*\" }"`)

	desc, err := New(tool).Extract(context.Background(), t.TempDir(), exclude.New([]string{"demo1", "demo2"}))
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	want := "--workspace-only --all-deps --exclude demo1 --exclude demo2"
	if !strings.Contains(desc.String(), want) {
		t.Errorf("Extract() = %q, want args %q", desc, want)
	}
}

func TestExtractNoExclusions(t *testing.T) {
	tool := stub(t, `echo "digraph { \"$*\" }"`)

	desc, err := New(tool).Extract(context.Background(), t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
	if strings.Contains(desc.String(), "--exclude") {
		t.Errorf("Extract() = %q, should carry no --exclude flags", desc)
	}
}

func TestExtractRunsInRoot(t *testing.T) {
	tool := stub(t, `test -f Cargo.toml && echo "digraph {}"`)
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte("[workspace]\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := New(tool).Extract(context.Background(), root, nil); err != nil {
		t.Fatalf("Extract() error: %v", err)
	}
}

func TestExtractFailure(t *testing.T) {
	tool := stub(t, `echo "error: failed to parse manifest" >&2; exit 1`)

	_, err := New(tool).Extract(context.Background(), t.TempDir(), nil)
	if !wserrors.Is(err, wserrors.ErrCodeBuild) {
		t.Fatalf("Extract() error = %v, want build error", err)
	}
	if !strings.Contains(err.Error(), "failed to parse manifest") {
		t.Errorf("error should surface stderr: %v", err)
	}
}

func TestExtractEmptyOutput(t *testing.T) {
	tool := stub(t, `echo "   "`)

	_, err := New(tool).Extract(context.Background(), t.TempDir(), nil)
	if !wserrors.Is(err, wserrors.ErrCodeBuild) {
		t.Errorf("Extract() error = %v, want build error", err)
	}
}

func TestExtractCanceled(t *testing.T) {
	tool := stub(t, `sleep 30; echo "digraph {}"`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(tool).Extract(ctx, t.TempDir(), nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Extract() error = %v, want context.Canceled", err)
	}
	if !wserrors.Is(err, wserrors.ErrCodeCanceled) {
		t.Errorf("Extract() error = %v, want CANCELED code", err)
	}
}

func TestExtractUnconfigured(t *testing.T) {
	_, err := New(tools.Tool{}).Extract(context.Background(), t.TempDir(), nil)
	if !wserrors.Is(err, wserrors.ErrCodeConfiguration) {
		t.Errorf("Extract() error = %v, want configuration error", err)
	}
}
