package objectstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"imageforge/internal/objectstore"
)

func newTestStore(t *testing.T) *objectstore.Store {
	t.Helper()
	root := t.TempDir() // cleaned up automatically after each test
	s, err := objectstore.New(root)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

func TestWriteAndRead(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Root, "ab", "abcd1234.png")
	want := []byte("hello, object store")

	if err := s.Write(path, want); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := s.Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Read content mismatch: got %q, want %q", got, want)
	}
}

func TestWriteIsAtomic(t *testing.T) {
	// A second Write to the same path must overwrite cleanly (no partial file,
	// no leftover .tmp sibling).
	s := newTestStore(t)
	path := filepath.Join(s.Root, "f.bin")

	if err := s.Write(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := s.Write(path, []byte("second")); err != nil {
		t.Fatal(err)
	}

	got, err := s.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("expected %q, got %q", "second", got)
	}

	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Errorf("expected no leftover tmp file, stat err = %v", err)
	}
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Root, "to-delete.bin")
	if err := s.Write(path, []byte("data")); err != nil {
		t.Fatal(err)
	}

	if err := s.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	ok, err := s.Exists(path)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("file still exists after Remove")
	}
}

func TestRemoveNonExistent(t *testing.T) {
	s := newTestStore(t)
	// Must succeed silently.
	if err := s.Remove(filepath.Join(s.Root, "ghost.bin")); err != nil {
		t.Fatalf("Remove of non-existent file returned error: %v", err)
	}
}

func TestExists(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.Exists(filepath.Join(s.Root, "missing.bin"))
	if err != nil || ok {
		t.Errorf("Exists(missing) = (%v, %v), want (false, nil)", ok, err)
	}

	present := filepath.Join(s.Root, "present.bin")
	if err := s.Write(present, []byte("x")); err != nil {
		t.Fatal(err)
	}
	ok, err = s.Exists(present)
	if err != nil || !ok {
		t.Errorf("Exists(present) = (%v, %v), want (true, nil)", ok, err)
	}
}

// TestWriteCreatesNestedDirs verifies that Write creates any missing parent
// directories of the path it is given (imagepath.Derive itself places files
// directly under Root).
func TestWriteCreatesNestedDirs(t *testing.T) {
	s := newTestStore(t)
	path := filepath.Join(s.Root, "ab", "cd", "identifier.webp")

	if err := s.Write(path, []byte("payload")); err != nil {
		t.Fatalf("Write nested: %v", err)
	}

	got, err := s.Read(path)
	if err != nil {
		t.Fatalf("Read nested: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("got %q", got)
	}
}

// TestNewCreatesRoot verifies that a non-existent root is created.
func TestNewCreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "new", "nested", "root")
	if _, err := objectstore.New(root); err != nil {
		t.Fatalf("New with missing root: %v", err)
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		t.Error("root directory was not created")
	}
}
