// Package objectstore is the Object Store (spec §4.D): write-bytes,
// read-bytes, delete-file, filename-exists on the local filesystem rooted
// at a configured directory. Writes are atomic against concurrent readers
// via a temp-file-then-rename sequence.
//
// Adapted from the local filesystem backend pattern used elsewhere in this
// codebase's object-storage lineage: create-root-on-open, write to a
// ".tmp" sibling and os.Rename into place, tolerate ENOENT on delete.
package objectstore

import (
	"fmt"
	"os"
	"path/filepath"
)

// Store is a local-filesystem Object Store rooted at a configured
// directory. Callers pass paths already derived by imagepath.Derive, which
// are always under Root and hex-only, so no traversal guard is needed here.
type Store struct {
	Root string
}

// New creates the store root if it does not already exist.
func New(root string) (*Store, error) {
	if err := os.MkdirAll(root, 0o750); err != nil {
		return nil, fmt.Errorf("create object store root %q: %w", root, err)
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve object store root: %w", err)
	}
	return &Store{Root: absRoot}, nil
}

// Write stores data at path atomically: write to a temp sibling, then
// rename into place. Any failure cleans up the temp file.
func (s *Store) Write(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("mkdir %q: %w", filepath.Dir(path), err)
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return fmt.Errorf("open tmp %q: %w", tmp, err)
	}

	_, werr := f.Write(data)
	cerr := f.Close()

	if werr != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("write %q: %w", tmp, werr)
	}
	if cerr != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("flush %q: %w", tmp, cerr)
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) //nolint:errcheck
		return fmt.Errorf("rename to %q: %w", path, err)
	}
	return nil
}

// Read returns the full contents at path.
func (s *Store) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}
	return data, nil
}

// Remove deletes path. Silently succeeds if the file is already gone.
func (s *Store) Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", path, err)
	}
	return nil
}

// Exists reports whether path exists.
func (s *Store) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %q: %w", path, err)
	}
	return true, nil
}
