package workspace

import (
	"testing"

	"github.com/spf13/afero"
)

func TestFingerprintStable(t *testing.T) {
	files := map[string]string{
		"/ws/Cargo.toml":             "[workspace]\n",
		"/ws/crates/db/src/lib.rs":   "pub fn db() {}",
		"/ws/crates/slug/src/lib.rs": "pub fn slug() {}",
	}
	a := newFs(t, nil, files)
	b := newFs(t, nil, files)

	ha, err := Fingerprint(a, "/ws")
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	hb, _ := Fingerprint(b, "/ws")
	if ha != hb {
		t.Errorf("identical trees hash differently: %s vs %s", ha, hb)
	}
	if len(ha) != 64 {
		t.Errorf("hash length = %d, want 64", len(ha))
	}
}

func TestFingerprintChangesWithContent(t *testing.T) {
	fs := newFs(t, nil, map[string]string{"/ws/Cargo.toml": "[workspace]\n"})
	before, _ := Fingerprint(fs, "/ws")

	if err := afero.WriteFile(fs, "/ws/Cargo.toml", []byte("[workspace]\nmembers = []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	after, _ := Fingerprint(fs, "/ws")
	if before == after {
		t.Error("content change should change the fingerprint")
	}
}

func TestFingerprintSkipsBuildOutput(t *testing.T) {
	fs := newFs(t, nil, map[string]string{"/ws/Cargo.toml": "[workspace]\n"})
	before, _ := Fingerprint(fs, "/ws", "media")

	extra := map[string]string{
		"/ws/target/debug/app": "binary",
		"/ws/.git/HEAD":        "ref: refs/heads/main",
		"/ws/media/graph.svg":  "<svg/>",
		"/ws/result":           "symlink target",
	}
	for p, c := range extra {
		if err := afero.WriteFile(fs, p, []byte(c), 0644); err != nil {
			t.Fatal(err)
		}
	}

	after, _ := Fingerprint(fs, "/ws", "media")
	if before != after {
		t.Error("skipped paths should not affect the fingerprint")
	}
}

func TestFingerprintDistinguishesPaths(t *testing.T) {
	a := newFs(t, nil, map[string]string{"/ws/a.rs": "x"})
	b := newFs(t, nil, map[string]string{"/ws/b.rs": "x"})

	ha, _ := Fingerprint(a, "/ws")
	hb, _ := Fingerprint(b, "/ws")
	if ha == hb {
		t.Error("renaming a file should change the fingerprint")
	}
}

func TestFingerprintFileBoundaries(t *testing.T) {
	// One file whose content embeds NULs and a second path must not collide
	// with the two-file layout it spells out.
	one := newFs(t, nil, map[string]string{"/ws/a": "x\x00b\x00y"})
	two := newFs(t, nil, map[string]string{"/ws/a": "x", "/ws/b": "y"})

	h1, err := Fingerprint(one, "/ws")
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	h2, err := Fingerprint(two, "/ws")
	if err != nil {
		t.Fatalf("Fingerprint() error: %v", err)
	}
	if h1 == h2 {
		t.Error("single file with embedded NULs collides with a two-file layout")
	}
}
