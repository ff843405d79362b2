// Package filestore persists uploaded binaries under a single directory.
// Writes go through a temp file that is renamed into place, so a failed
// upload never leaves a partial file behind.
package filestore

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrTooLarge = errors.New("file exceeds size limit")

type Stored struct {
	Name string
	Path string
	Size int64
}

type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %v", err)
	}

	return &Store{dir: dir}, nil
}

// Save streams r into a freshly named file. The stored name is a uuid
// plus the sanitized extension of originalName, never the original name
// itself. Reads stop at maxSize: anything larger fails with ErrTooLarge
// and the temp file is removed.
func (s *Store) Save(r io.Reader, originalName string, maxSize int64) (Stored, error) {
	name := uuid.NewString() + sanitizeExt(originalName)
	finalPath := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return Stored{}, fmt.Errorf("create temp file: %v", err)
	}
	tmpPath := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpPath)
	}

	written, err := io.Copy(tmp, io.LimitReader(r, maxSize+1))
	if err != nil {
		cleanup()
		return Stored{}, fmt.Errorf("write upload: %v", err)
	}
	if written > maxSize {
		cleanup()
		return Stored{}, ErrTooLarge
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return Stored{}, fmt.Errorf("close temp file: %v", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return Stored{}, fmt.Errorf("commit upload: %v", err)
	}

	return Stored{Name: name, Path: finalPath, Size: written}, nil
}

// Open returns the stored file for reading. Paths outside the store
// directory are rejected.
func (s *Store) Open(path string) (io.ReadSeekCloser, error) {
	if !s.contains(path) {
		return nil, fmt.Errorf("path %q outside store", path)
	}

	return os.Open(path)
}

func (s *Store) Remove(path string) error {
	if !s.contains(path) {
		return fmt.Errorf("path %q outside store", path)
	}

	return os.Remove(path)
}

func (s *Store) contains(path string) bool {
	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// sanitizeExt keeps only a plain alphanumeric extension of the original
// filename; anything else is dropped.
func sanitizeExt(name string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(name)))
	if len(ext) < 2 || len(ext) > 10 {
		return ""
	}

	for _, r := range ext[1:] {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !isAlnum {
			return ""
		}
	}

	return ext
}
