package workspace

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

const manifest = `
[workspace]
resolver = "2"
members = [
  "crates/*",
  "examples/db-test",
]
exclude = ["crates/legacy"]
`

func TestMembers(t *testing.T) {
	fs := newFs(t, []string{
		"/ws/crates/belt",
		"/ws/crates/db",
		"/ws/crates/legacy",
		"/ws/examples/db-test",
		"/ws/examples/storage-test",
	}, map[string]string{"/ws/Cargo.toml": manifest})

	got, err := Members(fs, "/ws")
	if err != nil {
		t.Fatalf("Members() error: %v", err)
	}
	want := []string{"crates/belt", "crates/db", "examples/db-test"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Members() mismatch (-want +got):\n%s", diff)
	}
}

func TestMembersMissingManifest(t *testing.T) {
	fs := newFs(t, []string{"/ws"}, nil)
	if _, err := Members(fs, "/ws"); err == nil {
		t.Error("Members() should fail without a manifest")
	}
}

func TestMembersInvalidManifest(t *testing.T) {
	fs := newFs(t, nil, map[string]string{"/ws/Cargo.toml": "[workspace\n"})
	if _, err := Members(fs, "/ws"); err == nil {
		t.Error("Members() should fail on malformed TOML")
	}
}

func TestUnlisted(t *testing.T) {
	members := []string{"crates/belt", "examples/db-test"}
	excluded := NewExcludedSet([]string{"db-test", "storage-test"})

	got := Unlisted(members, "examples", excluded)
	if diff := cmp.Diff([]string{"storage-test"}, got); diff != "" {
		t.Errorf("Unlisted() mismatch (-want +got):\n%s", diff)
	}
}
