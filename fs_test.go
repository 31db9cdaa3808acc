package cpio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestHardLinkReconstruction exercises two entries sharing (dev, ino)
// with nlink=2, the first carrying no body, the second carrying the
// content. Both names must exist after extraction, sharing one inode.
func TestHardLinkReconstruction(t *testing.T) {
	dir := t.TempDir()
	ex := NewExtractor(dir)

	key := &Header{Name: "a", Mode: 0o100644, NLink: 2, DevMajor: 1, DevMinor: 0, Ino: 55, Size: 0}
	if err := ex.Extract(key, bytes.NewReader(nil)); err != nil {
		t.Fatalf("extract deferred member: %v", err)
	}

	body := &Header{Name: "b", Mode: 0o100644, NLink: 2, DevMajor: 1, DevMinor: 0, Ino: 55, Size: 3}
	if err := ex.Extract(body, bytes.NewReader([]byte("xyz"))); err != nil {
		t.Fatalf("extract body member: %v", err)
	}

	if err := ex.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}

	aContent, err := os.ReadFile(filepath.Join(dir, "a"))
	if err != nil {
		t.Fatalf("read a: %v", err)
	}
	bContent, err := os.ReadFile(filepath.Join(dir, "b"))
	if err != nil {
		t.Fatalf("read b: %v", err)
	}
	if string(aContent) != "xyz" || string(bContent) != "xyz" {
		t.Fatalf("a=%q b=%q, want both xyz", aContent, bContent)
	}

	aInfo, _ := os.Stat(filepath.Join(dir, "a"))
	bInfo, _ := os.Stat(filepath.Join(dir, "b"))
	if !os.SameFile(aInfo, bInfo) {
		t.Fatal("a and b should share one inode")
	}
}

// TestDanglingHardLink verifies that an unresolved group is reported at
// Finish.
func TestDanglingHardLink(t *testing.T) {
	dir := t.TempDir()
	ex := NewExtractor(dir)

	h := &Header{Name: "orphan", Mode: 0o100644, NLink: 2, DevMajor: 1, DevMinor: 0, Ino: 99, Size: 0}
	if err := ex.Extract(h, bytes.NewReader(nil)); err != nil {
		t.Fatal(err)
	}
	if err := ex.Finish(); err != ErrDanglingHardLink {
		t.Fatalf("Finish() = %v, want ErrDanglingHardLink", err)
	}
}

// TestExtractRejectsUnsafePath verifies that a name escaping the
// extraction root (e.g. via "..") is rejected instead of written outside
// the destination directory.
func TestExtractRejectsUnsafePath(t *testing.T) {
	dir := t.TempDir()
	ex := NewExtractor(dir)
	h := &Header{Name: "../escape", Mode: 0o100644, NLink: 1, Size: 0}
	err := ex.Extract(h, bytes.NewReader(nil))
	if !errors.Is(err, ErrUnsafePath) {
		t.Fatalf("Extract(%q) = %v, want UnsafePath", h.Name, err)
	}
}
