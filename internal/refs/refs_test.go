package refs

import (
	"path/filepath"
	"testing"

	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/hash"
)

func TestInitHeadSymbolicToDefaultBranch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".gitnano")
	m := New(dir)
	if err := m.InitHead(); err != nil {
		t.Fatalf("InitHead: %v", err)
	}

	refPath, symbolic, err := m.HeadRef()
	if err != nil {
		t.Fatalf("HeadRef: %v", err)
	}
	if !symbolic {
		t.Fatal("expected symbolic HEAD after InitHead")
	}
	if refPath != "refs/heads/"+DefaultBranch {
		t.Fatalf("refPath = %q, want refs/heads/%s", refPath, DefaultBranch)
	}

	branch, ok, err := m.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if !ok || branch != DefaultBranch {
		t.Fatalf("CurrentBranch = (%q, %v), want (%q, true)", branch, ok, DefaultBranch)
	}
}

func TestWriteReadBranch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".gitnano")
	m := New(dir)
	h := hash.Sum([]byte("commit content"))

	if err := m.WriteBranch("master", h); err != nil {
		t.Fatalf("WriteBranch: %v", err)
	}
	if !m.BranchExists("master") {
		t.Fatal("BranchExists = false after WriteBranch")
	}
	got, err := m.ReadBranch("master")
	if err != nil {
		t.Fatalf("ReadBranch: %v", err)
	}
	if got != h {
		t.Fatalf("ReadBranch = %s, want %s", got, h)
	}
}

func TestReadBranchMissingIsNotFound(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".gitnano")
	m := New(dir)
	if _, err := m.ReadBranch("master"); gnerrors.KindOf(err) != gnerrors.NotFound {
		t.Fatalf("error kind = %v, want NotFound", gnerrors.KindOf(err))
	}
}

func TestWriteHeadDetached(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".gitnano")
	m := New(dir)
	h := hash.Sum([]byte("detached"))

	if err := m.WriteHeadDetached(h); err != nil {
		t.Fatalf("WriteHeadDetached: %v", err)
	}
	_, symbolic, err := m.HeadRef()
	if err != nil {
		t.Fatalf("HeadRef: %v", err)
	}
	if symbolic {
		t.Fatal("expected detached HEAD, got symbolic")
	}
	content, err := m.ReadHead()
	if err != nil {
		t.Fatalf("ReadHead: %v", err)
	}
	if content != h.String() {
		t.Fatalf("ReadHead = %q, want %q", content, h.String())
	}

	branch, ok, err := m.CurrentBranch()
	if err != nil {
		t.Fatalf("CurrentBranch: %v", err)
	}
	if ok {
		t.Fatalf("CurrentBranch should report false when detached, got %q", branch)
	}
}
