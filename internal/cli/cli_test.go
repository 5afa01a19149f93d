package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/wsgraph/pkg/errors"
)

const stubExtractor = `#!/bin/sh
ex=""
while [ $# -gt 0 ]; do
  if [ "$1" = "--exclude" ]; then shift; ex="$ex $1"; fi
  shift
done
echo 'digraph deps {'
for p in core lib1 demo1 demo2; do
  case " $ex " in *" $p "*) ;; *) echo "  \"$p\";" ;; esac
done
echo '  "core" -> "lib1";'
echo '}'
`

// newRepo creates a workspace with two example packages and points the
// extractor at a stub script.
func newRepo(t *testing.T) string {
	t.Helper()
	repo := t.TempDir()
	for _, d := range []string{"crates/core", "crates/lib1", "examples/demo1", "examples/demo2"} {
		if err := os.MkdirAll(filepath.Join(repo, d), 0755); err != nil {
			t.Fatal(err)
		}
	}
	manifest := "[workspace]\nmembers = [\"crates/*\", \"examples/demo1\"]\n"
	if err := os.WriteFile(filepath.Join(repo, "Cargo.toml"), []byte(manifest), 0644); err != nil {
		t.Fatal(err)
	}

	bin := filepath.Join(t.TempDir(), "depgraph")
	if err := os.WriteFile(bin, []byte(stubExtractor), 0755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WSGRAPH_EXTRACTOR", bin)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	return repo
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestExcludesCommand(t *testing.T) {
	repo := newRepo(t)

	out, err := execute(t, "-C", repo, "excludes")
	if err != nil {
		t.Fatal(err)
	}
	if out != "--exclude demo1 --exclude demo2\n" {
		t.Errorf("excludes = %q", out)
	}

	out, err = execute(t, "-C", repo, "excludes", "--names")
	if err != nil {
		t.Fatal(err)
	}
	if out != "demo1\ndemo2\n" {
		t.Errorf("excludes --names = %q", out)
	}
}

func TestExcludesMissingExamples(t *testing.T) {
	repo := newRepo(t)
	if err := os.RemoveAll(filepath.Join(repo, "examples")); err != nil {
		t.Fatal(err)
	}
	_, err := execute(t, "-C", repo, "excludes")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("got %v, want configuration error", err)
	}
}

func TestBuildCommand(t *testing.T) {
	repo := newRepo(t)

	out, err := execute(t, "-C", repo, "--backend", "builtin", "build", "-q", "-n", "deps")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.Join(repo, "media") {
		t.Errorf("build printed %q, want the artifact directory", out)
	}

	svg, err := os.ReadFile(filepath.Join(repo, "media", "deps.svg"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(svg, []byte("<title>core</title>")) || bytes.Contains(svg, []byte("demo1")) {
		t.Errorf("unexpected artifact:\n%s", svg)
	}
}

func TestBuildMissingExtractor(t *testing.T) {
	repo := newRepo(t)
	t.Setenv("WSGRAPH_EXTRACTOR", "wsgraph-no-such-extractor")

	_, err := execute(t, "-C", repo, "--backend", "builtin", "build", "-q")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Fatalf("got %v, want configuration error", err)
	}
	if _, err := os.Stat(filepath.Join(repo, "media")); !os.IsNotExist(err) {
		t.Error("media directory created despite configuration error")
	}
}

func TestDotCommand(t *testing.T) {
	repo := newRepo(t)

	out, err := execute(t, "-C", repo, "--no-cache", "dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "digraph deps {") || strings.Contains(out, "demo2") {
		t.Errorf("dot = %q", out)
	}

	file := filepath.Join(t.TempDir(), "graph.dot")
	if _, err := execute(t, "-C", repo, "dot", "-o", file); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != out {
		t.Errorf("dot -o wrote %q, want %q", data, out)
	}
}

func TestMenuCommand(t *testing.T) {
	repo := newRepo(t)
	conf := "[[menu.commands]]\nname = \"hello\"\ncommand = \"echo hello from menu\"\nhelp = \"greet\"\ncategory = \"misc\"\n"
	if err := os.WriteFile(filepath.Join(repo, "wsgraph.toml"), []byte(conf), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, "-C", repo, "menu")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"build", "hello", "greet", "cargo-depgraph"} {
		if !strings.Contains(out, want) {
			t.Errorf("menu output missing %q:\n%s", want, out)
		}
	}

	out, err = execute(t, "-C", repo, "menu", "run", "hello")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "hello from menu" {
		t.Errorf("menu run = %q", out)
	}

	_, err = execute(t, "-C", repo, "menu", "run", "nope")
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("got %v, want invalid input", err)
	}
}

func TestCachePathCommand(t *testing.T) {
	repo := newRepo(t)
	xdg := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", xdg)

	out, err := execute(t, "-C", repo, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != filepath.Join(xdg, appName) {
		t.Errorf("cache path = %q", out)
	}
}

func TestCacheClearCommand(t *testing.T) {
	repo := newRepo(t)
	if _, err := execute(t, "-C", repo, "dot"); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "-C", repo, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
}

func TestCompletionCommand(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "wsgraph") {
		t.Error("bash completion does not mention wsgraph")
	}
}

func TestUnknownBackend(t *testing.T) {
	repo := newRepo(t)
	_, err := execute(t, "-C", repo, "--backend", "cairo", "build")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("got %v, want configuration error", err)
	}
}

func TestDoctorCommand(t *testing.T) {
	repo := newRepo(t)
	if _, err := execute(t, "-C", repo, "--backend", "builtin", "doctor"); err != nil {
		t.Errorf("doctor on a healthy repo: %v", err)
	}

	t.Setenv("WSGRAPH_FONT_DIR", filepath.Join(repo, "no-fonts"))
	_, err := execute(t, "-C", repo, "--backend", "builtin", "doctor")
	if !errors.Is(err, errors.ErrCodeConfiguration) {
		t.Errorf("got %v, want configuration error for missing font dir", err)
	}
}
