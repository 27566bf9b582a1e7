package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/scratch/internal/apperr"
)

func tempVault(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempVault(t)
	content := []byte("Buy milk\nand eggs\n")
	if err := s.Write("n1", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("n1")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
	if _, err := os.Stat(filepath.Join(s.Root(), "n1"+Ext)); err != nil {
		t.Errorf("expected note file on disk: %v", err)
	}
}

func TestWriteEmptyContent(t *testing.T) {
	s := tempVault(t)
	if err := s.Write("empty", nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("empty")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("content = %q, want empty", got)
	}
}

func TestReadMissing(t *testing.T) {
	s := tempVault(t)
	_, err := s.Read("nope")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("del", []byte("bye"))
	if err := s.Delete("del"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del"); err == nil {
		t.Error("expected error reading deleted note")
	}
	if err := s.Delete("del"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("a", []byte("a"))
	_ = s.Write("b", []byte("b"))
	_ = os.WriteFile(filepath.Join(s.Root(), "readme.txt"), []byte("not a note"), 0o644)
	_ = os.Mkdir(filepath.Join(s.Root(), "sub.md"), 0o755)

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	for _, it := range items {
		if it.Checksum == "" {
			t.Errorf("note %s has empty checksum", it.ID)
		}
	}
}

func TestInvalidIDsRejected(t *testing.T) {
	s := tempVault(t)

	cases := []string{
		"",
		"../../etc/passwd",
		"../outside",
		"/etc/shadow",
		"sub/note",
		`win\note`,
		".hidden",
	}
	for _, id := range cases {
		if _, err := s.Read(id); !errors.Is(err, apperr.ErrInvalidID) {
			t.Errorf("Read(%q) err = %v, want ErrInvalidID", id, err)
		}
		if err := s.Write(id, []byte("x")); !errors.Is(err, apperr.ErrInvalidID) {
			t.Errorf("Write(%q) err = %v, want ErrInvalidID", id, err)
		}
	}
}

func TestIDFromPath(t *testing.T) {
	cases := map[string]struct {
		id string
		ok bool
	}{
		"/vault/abc.md":         {"abc", true},
		"abc.md":                {"abc", true},
		"/vault/abc.txt":        {"", false},
		"/vault/.scratch-tmp-1": {"", false},
		"/vault/.md":            {"", false},
	}
	for path, want := range cases {
		id, ok := IDFromPath(path)
		if id != want.id || ok != want.ok {
			t.Errorf("IDFromPath(%q) = %q, %v; want %q, %v", path, id, ok, want.id, want.ok)
		}
	}
}

func TestAtomicWriteNoCorruption(t *testing.T) {
	s := tempVault(t)
	_ = s.Write("atomic", []byte("original content"))

	updated := []byte("updated content")
	if err := s.Write("atomic", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("atomic")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	// Confirm no leftover temp files.
	matches, _ := filepath.Glob(filepath.Join(s.root, ".scratch-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS("/tmp/scratch-does-not-exist-" + t.Name())
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp("", "scratch-test-*")
	_ = f.Close()
	defer os.Remove(f.Name())
	_, err := NewFS(f.Name())
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
