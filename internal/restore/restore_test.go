package restore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/VandeeFeng/GitNano/internal/blob"
	"github.com/VandeeFeng/GitNano/internal/objstore"
	"github.com/VandeeFeng/GitNano/internal/tree"
)

func openTestStore(t *testing.T) *objstore.Store {
	t.Helper()
	s, err := objstore.Open(filepath.Join(t.TempDir(), "objects"))
	if err != nil {
		t.Fatalf("objstore.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func buildSimpleTree(t *testing.T, s *objstore.Store) *tree.Tree {
	t.Helper()
	h, err := blob.Put(s, []byte("hello\n"))
	if err != nil {
		t.Fatalf("blob.Put: %v", err)
	}
	tr := tree.New()
	if err := tr.Insert(tree.ModeRegular, "a.txt", h); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	return tr
}

func TestRestoreFreshDirectory(t *testing.T) {
	s := openTestStore(t)
	tr := buildSimpleTree(t, s)
	dir := t.TempDir()

	stats, failures, err := New(s).Restore(tr, dir)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if stats.Added != 1 || stats.Modified != 0 || stats.Deleted != 0 {
		t.Fatalf("stats = %+v, want Added=1", stats)
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello\n" {
		t.Fatalf("content = %q", got)
	}
}

func TestRestoreDeletesStrayFiles(t *testing.T) {
	s := openTestStore(t)
	tr := buildSimpleTree(t, s)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("extra"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stats, failures, err := New(s).Restore(tr, dir)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if len(failures) != 0 {
		t.Fatalf("unexpected failures: %v", failures)
	}
	if stats.Deleted != 1 {
		t.Fatalf("Deleted = %d, want 1", stats.Deleted)
	}
	if _, err := os.Stat(filepath.Join(dir, "stray.txt")); !os.IsNotExist(err) {
		t.Fatal("stray.txt should have been removed")
	}
}

func TestRestoreSkipsMetaDirDuringCleanup(t *testing.T) {
	s := openTestStore(t)
	tr := buildSimpleTree(t, s)
	dir := t.TempDir()
	metaFile := filepath.Join(dir, MetaDirName, "objects", "keepme")
	if err := os.MkdirAll(filepath.Dir(metaFile), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(metaFile, []byte("repo data"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, _, err := New(s).Restore(tr, dir); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if _, err := os.Stat(metaFile); err != nil {
		t.Fatalf("metadata file should survive cleanup: %v", err)
	}
}

func TestRestoreReportsModified(t *testing.T) {
	s := openTestStore(t)
	tr := buildSimpleTree(t, s)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("old content"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	stats, _, err := New(s).Restore(tr, dir)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if stats.Modified != 1 || stats.Added != 0 {
		t.Fatalf("stats = %+v, want Modified=1", stats)
	}
}

func TestRestorePathSingleFile(t *testing.T) {
	s := openTestStore(t)
	tr := buildSimpleTree(t, s)
	dir := t.TempDir()

	if err := New(s).RestorePath(tr, "a.txt", dir); err != nil {
		t.Fatalf("RestorePath: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "hello\n" {
		t.Fatalf("content = %q", got)
	}
}
