package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/VandeeFeng/GitNano/internal/commitobj"
	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/tree"
)

func openFreshRepo(t *testing.T) (*Repo, string) {
	t.Helper()
	workDir := t.TempDir()
	loc := Locator{WorkDir: workDir, GitnanoDir: filepath.Join(workDir, MetaDirName)}
	r, err := Init(loc)
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r, workDir
}

func TestEmptyInit(t *testing.T) {
	r, workDir := openFreshRepo(t)

	if !fileExists(filepath.Join(workDir, MetaDirName, "HEAD")) {
		t.Fatal("HEAD should exist after Init")
	}
	cur, err := r.CurrentCommit()
	if err != nil {
		t.Fatalf("CurrentCommit: %v", err)
	}
	if !cur.IsZero() {
		t.Fatal("fresh repo should have no current commit")
	}
}

func TestSingleCommit(t *testing.T) {
	r, workDir := openFreshRepo(t)
	writeFile(t, workDir, "a.txt", "hello\n")

	commit, err := r.Snapshot(SnapshotParams{Message: "first", Author: "A <a@b.c>"})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	entries, err := r.Log("", 0)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Log returned %d entries, want 1", len(entries))
	}
	if entries[0].Hash != commit {
		t.Fatalf("Log head = %s, want %s", entries[0].Hash, commit)
	}
	if _, err := commitobj.ParentOf(entries[0].Commit); gnerrors.KindOf(err) != gnerrors.NoParent {
		t.Fatalf("expected NoParent on the first commit, got %v", gnerrors.KindOf(err))
	}

	root, err := tree.Load(r.Store, entries[0].Commit.Tree)
	if err != nil {
		t.Fatalf("tree.Load: %v", err)
	}
	if root.Len() != 1 {
		t.Fatalf("root tree has %d entries, want 1", root.Len())
	}
}

func TestSecondCommitReusesBlobAndChainsParent(t *testing.T) {
	r, workDir := openFreshRepo(t)
	writeFile(t, workDir, "a.txt", "hello\n")
	c1, err := r.Snapshot(SnapshotParams{Message: "first", Author: "A <a@b.c>"})
	if err != nil {
		t.Fatalf("Snapshot #1: %v", err)
	}

	writeFile(t, workDir, "b.txt", "hello\n") // identical content to a.txt
	c2, err := r.Snapshot(SnapshotParams{Message: "second", Author: "A <a@b.c>"})
	if err != nil {
		t.Fatalf("Snapshot #2: %v", err)
	}

	entries, err := r.Log("", 0)
	if err != nil {
		t.Fatalf("Log: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Log returned %d entries, want 2", len(entries))
	}
	if entries[0].Hash != c2 || entries[1].Hash != c1 {
		t.Fatalf("Log order = [%s, %s], want newest-first [%s, %s]", entries[0].Hash, entries[1].Hash, c2, c1)
	}

	root, err := tree.Load(r.Store, entries[0].Commit.Tree)
	if err != nil {
		t.Fatalf("tree.Load: %v", err)
	}
	a, okA := root.Find("a.txt")
	b, okB := root.Find("b.txt")
	if !okA || !okB || a.Hash != b.Hash {
		t.Fatalf("expected a.txt and b.txt to share one blob, got %+v / %+v", a, b)
	}
}

func TestModifyAndRestore(t *testing.T) {
	r, workDir := openFreshRepo(t)
	writeFile(t, workDir, "a.txt", "version one\n")
	c1, err := r.Snapshot(SnapshotParams{Message: "v1", Author: "A <a@b.c>"})
	if err != nil {
		t.Fatalf("Snapshot #1: %v", err)
	}

	writeFile(t, workDir, "a.txt", "version two\n")
	if _, err := r.Snapshot(SnapshotParams{Message: "v2", Author: "A <a@b.c>"}); err != nil {
		t.Fatalf("Snapshot #2: %v", err)
	}

	result, err := r.Restore(c1.String())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if result.Commit != c1 {
		t.Fatalf("restored commit = %s, want %s", result.Commit, c1)
	}

	got, err := os.ReadFile(filepath.Join(workDir, "a.txt"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "version one\n" {
		t.Fatalf("content after restore = %q, want %q", got, "version one\n")
	}

	branch, onBranch, err := r.Refs.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if onBranch {
		t.Fatalf("expected detached HEAD after restore, still on branch %q", branch)
	}

	diff, err := r.DiffWorkingDirectory(c1.String())
	if err != nil {
		t.Fatalf("DiffWorkingDirectory: %v", err)
	}
	if len(diff.Added) != 0 || len(diff.Deleted) != 0 || len(diff.Modified) != 0 {
		t.Fatalf("expected no diff right after restore, got %+v", diff)
	}
}

func TestRestoreDeletesStrayFiles(t *testing.T) {
	r, workDir := openFreshRepo(t)
	writeFile(t, workDir, "a.txt", "content\n")
	c1, err := r.Snapshot(SnapshotParams{Message: "v1", Author: "A <a@b.c>"})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	writeFile(t, workDir, "stray.txt", "should be removed\n")

	result, err := r.Restore(c1.String())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if result.Stats.Deleted != 1 {
		t.Fatalf("Deleted = %d, want 1", result.Stats.Deleted)
	}
	if fileExists(filepath.Join(workDir, "stray.txt")) {
		t.Fatal("stray.txt should have been removed by restore")
	}
}

func TestPrefixResolutionAndNotFound(t *testing.T) {
	r, workDir := openFreshRepo(t)
	writeFile(t, workDir, "a.txt", "content\n")
	c1, err := r.Snapshot(SnapshotParams{Message: "v1", Author: "A <a@b.c>"})
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	prefix7 := c1.String()[:7]
	resolved, err := r.Resolve(prefix7)
	if err != nil {
		t.Fatalf("Resolve(prefix7): %v", err)
	}
	if resolved != c1 {
		t.Fatalf("Resolve(prefix7) = %s, want %s", resolved, c1)
	}

	if _, err := r.Resolve("deadbeef"); gnerrors.KindOf(err) != gnerrors.NotFound {
		t.Fatalf("error kind = %v, want NotFound", gnerrors.KindOf(err))
	}
}

func TestAddRejectsPathTraversal(t *testing.T) {
	r, workDir := openFreshRepo(t)
	writeFile(t, workDir, "a.txt", "content\n")

	if err := r.Add("a.txt"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Add("../escape.txt"); gnerrors.KindOf(err) != gnerrors.InvalidArgument {
		t.Fatalf("error kind = %v, want InvalidArgument", gnerrors.KindOf(err))
	}
}

func TestStatusReportsChangedFiles(t *testing.T) {
	r, workDir := openFreshRepo(t)
	writeFile(t, workDir, "a.txt", "content\n")
	if _, err := r.Snapshot(SnapshotParams{Message: "v1", Author: "A <a@b.c>"}); err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	writeFile(t, workDir, "b.txt", "new file\n")
	status, err := r.BuildStatus()
	if err != nil {
		t.Fatalf("BuildStatus: %v", err)
	}
	if !status.HasCommit {
		t.Fatal("expected HasCommit true")
	}
	if status.ChangedFiles != 1 {
		t.Fatalf("ChangedFiles = %d, want 1", status.ChangedFiles)
	}
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile %s: %v", name, err)
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
