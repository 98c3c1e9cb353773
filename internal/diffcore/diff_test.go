package diffcore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/VandeeFeng/GitNano/internal/blob"
	"github.com/VandeeFeng/GitNano/internal/hash"
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

func TestFlattenNested(t *testing.T) {
	s := openTestStore(t)

	leaf := tree.New()
	leaf.Insert(tree.ModeRegular, "b.txt", hash.Sum([]byte("b")))
	leafPayload, _ := leaf.Serialize()
	leafHash, err := s.Put(objstore.KindTree, leafPayload)
	if err != nil {
		t.Fatalf("Put leaf: %v", err)
	}

	root := tree.New()
	root.Insert(tree.ModeTree, "sub", leafHash)
	root.Insert(tree.ModeRegular, "a.txt", hash.Sum([]byte("a")))

	flat, err := Flatten(s, root)
	if err != nil {
		t.Fatalf("Flatten: %v", err)
	}
	if len(flat) != 2 {
		t.Fatalf("len(flat) = %d, want 2", len(flat))
	}
	if _, ok := flat["sub/b.txt"]; !ok {
		t.Fatal("expected sub/b.txt in flattened result")
	}
	if _, ok := flat["a.txt"]; !ok {
		t.Fatal("expected a.txt in flattened result")
	}
}

func TestTreesClassification(t *testing.T) {
	t1 := map[string]hash.Hash{
		"same.txt":     hash.Sum([]byte("same")),
		"modified.txt": hash.Sum([]byte("before")),
		"deleted.txt":  hash.Sum([]byte("gone")),
	}
	t2 := map[string]hash.Hash{
		"same.txt":     hash.Sum([]byte("same")),
		"modified.txt": hash.Sum([]byte("after")),
		"added.txt":    hash.Sum([]byte("new")),
	}

	r := Trees(t1, t2)
	if len(r.Added) != 1 || r.Added[0] != "added.txt" {
		t.Fatalf("Added = %v, want [added.txt]", r.Added)
	}
	if len(r.Modified) != 1 || r.Modified[0] != "modified.txt" {
		t.Fatalf("Modified = %v, want [modified.txt]", r.Modified)
	}
	if len(r.Deleted) != 1 || r.Deleted[0] != "deleted.txt" {
		t.Fatalf("Deleted = %v, want [deleted.txt]", r.Deleted)
	}
}

func TestTreesIdenticalIsEmptyDiff(t *testing.T) {
	t1 := map[string]hash.Hash{"a.txt": hash.Sum([]byte("a"))}
	r := Trees(t1, t1)
	if len(r.Added) != 0 || len(r.Modified) != 0 || len(r.Deleted) != 0 {
		t.Fatalf("expected empty diff for identical trees, got %+v", r)
	}
}

func TestWorkingDirectoryDiff(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("unchanged"), 0o644)
	os.WriteFile(filepath.Join(dir, "b.txt"), []byte("new file"), 0o644)

	commitFiles := map[string]hash.Hash{
		"a.txt": blob.HashOf([]byte("unchanged")),
		"c.txt": blob.HashOf([]byte("removed")),
	}

	r, err := WorkingDirectory(commitFiles, dir, nil)
	if err != nil {
		t.Fatalf("WorkingDirectory: %v", err)
	}
	if len(r.Added) != 1 || r.Added[0] != "b.txt" {
		t.Fatalf("Added = %v, want [b.txt]", r.Added)
	}
	if len(r.Deleted) != 1 || r.Deleted[0] != "c.txt" {
		t.Fatalf("Deleted = %v, want [c.txt]", r.Deleted)
	}
	if len(r.Modified) != 0 {
		t.Fatalf("Modified = %v, want none", r.Modified)
	}
}

func TestWorkingDirectoryHashesThroughBlobCanonicalForm(t *testing.T) {
	dir := t.TempDir()
	content := []byte("tracked content\n")
	os.WriteFile(filepath.Join(dir, "a.txt"), content, 0o644)

	commitFiles := map[string]hash.Hash{"a.txt": hash.Sum(content)}
	r, err := WorkingDirectory(commitFiles, dir, nil)
	if err != nil {
		t.Fatalf("WorkingDirectory: %v", err)
	}
	if len(r.Modified) != 1 || r.Modified[0] != "a.txt" {
		t.Fatalf("Modified = %v, want [a.txt] (raw hash.Sum must not match a blob hash)", r.Modified)
	}

	commitFiles = map[string]hash.Hash{"a.txt": blob.HashOf(content)}
	r, err = WorkingDirectory(commitFiles, dir, nil)
	if err != nil {
		t.Fatalf("WorkingDirectory: %v", err)
	}
	if len(r.Added) != 0 || len(r.Modified) != 0 || len(r.Deleted) != 0 {
		t.Fatalf("expected no diff when comparing against the real blob hash, got %+v", r)
	}
}

func TestWorkingDirectorySkipsMetaDir(t *testing.T) {
	dir := t.TempDir()
	os.MkdirAll(filepath.Join(dir, ".gitnano", "objects"), 0o755)
	os.WriteFile(filepath.Join(dir, ".gitnano", "objects", "stuff"), []byte("repo internals"), 0o644)

	r, err := WorkingDirectory(map[string]hash.Hash{}, dir, nil)
	if err != nil {
		t.Fatalf("WorkingDirectory: %v", err)
	}
	if len(r.Added) != 0 {
		t.Fatalf("Added = %v, want none (meta dir must be skipped)", r.Added)
	}
}

func TestWorkingDirectoryAppliesFilter(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "keep.txt"), []byte("x"), 0o644)
	os.WriteFile(filepath.Join(dir, "ignore.tmp"), []byte("y"), 0o644)

	filter := func(rel string) bool { return filepath.Ext(rel) != ".tmp" }

	r, err := WorkingDirectory(map[string]hash.Hash{}, dir, filter)
	if err != nil {
		t.Fatalf("WorkingDirectory: %v", err)
	}
	if len(r.Added) != 1 || r.Added[0] != "keep.txt" {
		t.Fatalf("Added = %v, want [keep.txt]", r.Added)
	}
}
