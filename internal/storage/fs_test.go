package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/stenomix/internal/checksum"
)

func jsonOnly(name string) bool {
	return strings.HasSuffix(name, ".json")
}

func tempDir(t *testing.T) *FS {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir, jsonOnly)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

func TestWriteAndRead(t *testing.T) {
	s := tempDir(t)
	content := []byte(`{"cat": "KAT"}`)
	if err := s.Write("main.json", content); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("main.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != string(content) {
		t.Errorf("content mismatch: got %q", got)
	}
}

func TestWriteCreatesSubdirs(t *testing.T) {
	s := tempDir(t)
	if err := s.Write("lang/en/base.json", []byte("{}")); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := s.Read("lang/en/base.json")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("content = %q", got)
	}
}

func TestDelete(t *testing.T) {
	s := tempDir(t)
	_ = s.Write("del.json", []byte("{}"))
	if err := s.Delete("del.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read("del.json"); err == nil {
		t.Error("expected error reading deleted file")
	}
	if err := s.Delete("del.json"); err != nil {
		t.Errorf("deleting a missing file: %v", err)
	}
}

func TestList(t *testing.T) {
	s := tempDir(t)
	_ = s.Write("b.json", []byte(`{"b": "PW"}`))
	_ = s.Write("sub/a.json", []byte(`{"a": "A"}`))
	_ = s.Write("readme.txt", []byte("not a source"))
	_ = s.Write(".hidden.json", []byte("{}"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len = %d, want 2", len(items))
	}
	if items[0].Path != "b.json" || items[1].Path != "sub/a.json" {
		t.Errorf("paths = %q, %q", items[0].Path, items[1].Path)
	}
	if items[0].Checksum != checksum.Sum([]byte(`{"b": "PW"}`)) {
		t.Errorf("checksum = %q", items[0].Checksum)
	}
}

func TestList_NoMatchFunc(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFS(dir, nil)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	_ = s.Write("a.json", []byte("{}"))
	_ = s.Write("b.txt", []byte("x"))

	items, err := s.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}
}

func TestTraversalBlocked(t *testing.T) {
	s := tempDir(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.json",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
		if err := s.Write(p, []byte("x")); err == nil {
			t.Errorf("expected error for write to %q", p)
		}
	}
}

func TestAtomicWriteNoLeftovers(t *testing.T) {
	s := tempDir(t)
	_ = s.Write("out.json", []byte("{}\n"))

	updated := []byte("{\n\"KAT\": \"cat\"\n}\n")
	if err := s.Write("out.json", updated); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := s.Read("out.json")
	if string(got) != string(updated) {
		t.Errorf("expected updated content, got %q", got)
	}

	matches, _ := filepath.Glob(filepath.Join(s.Root(), ".stenomix-tmp-*"))
	if len(matches) != 0 {
		t.Errorf("leftover temp files: %v", matches)
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "missing"), nil)
	if err == nil {
		t.Error("expected error for non-existent dir")
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f, _ := os.CreateTemp(t.TempDir(), "stenomix-test-*")
	_ = f.Close()
	_, err := NewFS(f.Name(), nil)
	if err == nil {
		t.Error("expected error when root is a file")
	}
}
