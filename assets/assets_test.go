package assets

import (
	"os"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return NewDiskStore("uploads")
}

func TestIsInline(t *testing.T) {
	cases := []struct {
		ref  string
		want bool
	}{
		{"", false},
		{"/uploads/game/group-sort/g1/item.png", false},
		{"https://cdn.example.com/item.png", false},
		{"data:image/png;base64,aGVsbG8=", true},
		{strings.Repeat("A", 600), true},
	}
	for _, tc := range cases {
		if got := IsInline(tc.ref); got != tc.want {
			t.Errorf("IsInline(%.40q) = %v, want %v", tc.ref, got, tc.want)
		}
	}
}

func TestMaterializeStoresInlineData(t *testing.T) {
	store := newTestStore(t)

	ref, err := Materialize(store, "game/group-sort/g1", "data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("materialize failed: %v", err)
	}
	if !strings.HasPrefix(ref, "/uploads/game/group-sort/g1/") || !strings.HasSuffix(ref, ".png") {
		t.Fatalf("unexpected reference %q", ref)
	}

	data, err := os.ReadFile(strings.TrimPrefix(ref, "/"))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "hello" {
		t.Fatalf("stored payload = %q, want %q", data, "hello")
	}
}

func TestMaterializePassesThroughStoredReferences(t *testing.T) {
	store := newTestStore(t)

	ref, err := Materialize(store, "game/group-sort/g1", "/uploads/game/group-sort/g1/existing.png")
	if err != nil {
		t.Fatalf("materialize failed: %v", err)
	}
	if ref != "/uploads/game/group-sort/g1/existing.png" {
		t.Fatalf("stored reference was rewritten to %q", ref)
	}

	if ref, err := Materialize(store, "game/group-sort/g1", ""); err != nil || ref != "" {
		t.Fatalf("empty reference should pass through, got %q, %v", ref, err)
	}
}

func TestMaterializeRejectsBadBase64(t *testing.T) {
	store := newTestStore(t)

	if _, err := Materialize(store, "game/group-sort/g1", "data:image/png;base64,!!!not-base64!!!"); err == nil {
		t.Fatal("expected error for invalid base64 payload")
	}
	if got := MaterializeOrLog(store, "game/group-sort/g1", "data:image/png;base64,!!!not-base64!!!"); got != "" {
		t.Fatalf("best-effort materialization should yield empty reference, got %q", got)
	}
}

func TestRemoveNamespace(t *testing.T) {
	store := newTestStore(t)

	ref, err := Materialize(store, "game/group-sort/g1", "data:image/png;base64,aGVsbG8=")
	if err != nil {
		t.Fatalf("materialize failed: %v", err)
	}
	if err := store.RemoveNamespace("game/group-sort/g1"); err != nil {
		t.Fatalf("remove namespace failed: %v", err)
	}
	if _, err := os.Stat(strings.TrimPrefix(ref, "/")); !os.IsNotExist(err) {
		t.Fatalf("asset survived namespace removal: %v", err)
	}
}

func TestRemoveRejectsForeignReferences(t *testing.T) {
	store := newTestStore(t)

	if err := store.Remove("/etc/passwd"); err == nil {
		t.Fatal("expected error for reference outside the store")
	}
	if err := store.Remove("/uploads/../../etc/passwd"); err == nil {
		t.Fatal("expected error for traversal reference")
	}
}
