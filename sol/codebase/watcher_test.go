package codebase

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileWatcherScan(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.sol")
	if err := os.WriteFile(path, []byte("service Foo {\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not sol"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".git", "hidden.sol"), []byte("service H {\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(dir)
	w := NewFileWatcher(c)
	var changed []string
	w.OnChange(func(f *FileInfo) { changed = append(changed, f.Path) })

	w.scan()
	if f := c.GetFile(path); f == nil {
		t.Fatal("watched file not checked after scan")
	} else if len(f.Diagnostics) != 1 {
		t.Errorf("Diagnostics = %d, want 1", len(f.Diagnostics))
	}
	if len(changed) != 1 || changed[0] != path {
		t.Fatalf("changed = %v, want only %q", changed, path)
	}
	if c.GetFile(filepath.Join(dir, ".git", "hidden.sol")) != nil {
		t.Error("file inside hidden directory was checked")
	}

	// an unchanged file is not re-checked
	w.scan()
	if len(changed) != 1 {
		t.Errorf("changed after idle scan = %v, want no new entries", changed)
	}

	// a rewrite with a newer mod time is picked up
	if err := os.WriteFile(path, []byte("service Foo {\n\tmain { nullProcess }\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if len(changed) != 2 {
		t.Fatalf("changed after rewrite = %v, want a second entry", changed)
	}
	if f := c.GetFile(path); len(f.Diagnostics) != 0 {
		t.Errorf("Diagnostics after fix = %d, want 0", len(f.Diagnostics))
	}

	// a removed file is dropped from the codebase
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	w.scan()
	if c.GetFile(path) != nil {
		t.Error("removed file still present in codebase")
	}
}
