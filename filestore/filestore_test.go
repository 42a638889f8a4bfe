package filestore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestEnsureCollection(t *testing.T) {
	store := New(t.TempDir())

	if err := store.EnsureCollection("notes"); err != nil {
		t.Fatalf("EnsureCollection failed: %v", err)
	}

	info, err := os.Stat(filepath.Join(store.BaseDir(), "notes"))
	if err != nil {
		t.Fatalf("expected directory to exist: %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}

	// Idempotent
	if err := store.EnsureCollection("notes"); err != nil {
		t.Errorf("second EnsureCollection failed: %v", err)
	}
}

func TestPhysicalPath(t *testing.T) {
	store := New("/data/uploads")

	tests := []struct {
		name     string
		folder   string
		filename string
		want     string
	}{
		{"plain", "notes", "abc.png", "/data/uploads/notes/abc.png"},
		{"empty filename", "notes", "", ""},
		{"traversal stripped", "notes", "../../etc/passwd", "/data/uploads/notes/passwd"},
		{"nested stripped", "profiles", "sub/dir/x.jpg", "/data/uploads/profiles/x.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := store.PhysicalPath(tt.folder, tt.filename); got != tt.want {
				t.Errorf("PhysicalPath(%q, %q) = %q, want %q", tt.folder, tt.filename, got, tt.want)
			}
		})
	}
}

func TestPublicPath(t *testing.T) {
	store := New("/data/uploads")

	if got := store.PublicPath("notes", "abc.png"); got != "/uploads/notes/abc.png" {
		t.Errorf("PublicPath = %q", got)
	}
	if got := store.PublicPath("notes", ""); got != "" {
		t.Errorf("PublicPath for empty filename = %q, want empty", got)
	}
}

func TestDelete(t *testing.T) {
	store := New(t.TempDir())
	if err := store.EnsureCollection("notes"); err != nil {
		t.Fatal(err)
	}

	path := store.PhysicalPath("notes", "victim.png")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !store.Delete(path) {
		t.Error("expected Delete to report removal")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after Delete")
	}

	// Deleting again is a silent no-op
	if store.Delete(path) {
		t.Error("expected Delete on missing file to report false")
	}
	if store.Delete("") {
		t.Error("expected Delete on empty path to report false")
	}
}

func TestDeleteRef(t *testing.T) {
	store := New(t.TempDir())
	if err := store.EnsureCollection("notes"); err != nil {
		t.Fatal(err)
	}

	path := store.PhysicalPath("notes", "abc.png")
	if err := os.WriteFile(path, []byte("data"), 0o644); err != nil {
		t.Fatal(err)
	}

	if !store.DeleteRef("notes", "/uploads/notes/abc.png") {
		t.Error("expected DeleteRef to remove the file")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file still exists after DeleteRef")
	}
	if store.DeleteRef("notes", "") {
		t.Error("expected DeleteRef on empty ref to report false")
	}
}
