// Package filestore maps logical (folder, filename) pairs onto the upload
// directory on disk. It owns no references: documents record public paths
// pointing into it, and the services above it decide what lives and dies.
package filestore

import (
	"log"
	"os"
	"path"
	"path/filepath"
)

const publicPrefix = "/uploads"

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: filepath.Clean(baseDir)}
}

// BaseDir returns the root of the upload directory, for static serving.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// EnsureCollection idempotently creates the directory backing a logical
// folder. Called once at startup for every folder the service uses.
func (s *Store) EnsureCollection(folder string) error {
	return os.MkdirAll(filepath.Join(s.baseDir, folder), 0o755)
}

// PhysicalPath returns the on-disk path for a stored file, without checking
// existence. An empty filename means no file and yields an empty path.
// User-supplied names are reduced to their base to block path traversal.
func (s *Store) PhysicalPath(folder, filename string) string {
	if filename == "" {
		return ""
	}
	return filepath.Join(s.baseDir, folder, filepath.Base(filename))
}

// PublicPath returns the externally addressable path recorded on documents.
func (s *Store) PublicPath(folder, filename string) string {
	if filename == "" {
		return ""
	}
	return publicPrefix + "/" + folder + "/" + filename
}

// Delete removes a file if present and reports whether anything was removed.
// It never fails the caller: an already-absent file is a normal outcome and
// I/O errors are logged and reported as false.
func (s *Store) Delete(physicalPath string) bool {
	if physicalPath == "" {
		return false
	}
	if err := os.Remove(physicalPath); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Error deleting file %s: %v", physicalPath, err)
		}
		return false
	}
	return true
}

// DeleteRef resolves a public reference back to its file in the given folder
// and deletes it, best-effort.
func (s *Store) DeleteRef(folder, ref string) bool {
	if ref == "" {
		return false
	}
	return s.Delete(s.PhysicalPath(folder, path.Base(ref)))
}
