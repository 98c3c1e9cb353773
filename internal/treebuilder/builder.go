// Package treebuilder walks a working directory and produces the nested
// blob/tree objects of §4.6, returning the root tree's hash. Grounded on
// the teacher's workspace.ScanWorkspace directory walk, reworked from a
// flat file-list + HAMT index into the spec's literal nested-tree shape.
package treebuilder

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/VandeeFeng/GitNano/internal/blob"
	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/hash"
	"github.com/VandeeFeng/GitNano/internal/objstore"
	"github.com/VandeeFeng/GitNano/internal/tree"
)

// MetaDirName is the repository metadata directory skipped during both
// building and restore cleanup (§4.6, §4.9).
const MetaDirName = ".gitnano"

// Builder walks a directory tree and writes blob/tree objects as it goes.
type Builder struct {
	store *objstore.Store
	fp    *FingerprintCache // optional; nil disables the dedup fast path
}

// New creates a Builder. fp may be nil.
func New(store *objstore.Store, fp *FingerprintCache) *Builder {
	return &Builder{store: store, fp: fp}
}

// Build walks dir and returns the root tree's hash.
func (b *Builder) Build(dir string) (hash.Hash, error) {
	return b.buildDir(dir)
}

func (b *Builder) buildDir(dir string) (hash.Hash, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return hash.Hash{}, gnerrors.Wrap(gnerrors.IOError, dir, err)
	}

	names := make([]string, 0, len(entries))
	byName := make(map[string]os.DirEntry, len(entries))
	for _, e := range entries {
		name := e.Name()
		if name == "." || name == ".." || name == MetaDirName {
			continue
		}
		names = append(names, name)
		byName[name] = e
	}
	sort.Strings(names)

	t := tree.New()
	for _, name := range names {
		e := byName[name]
		childPath := filepath.Join(dir, name)

		switch {
		case e.IsDir():
			subHash, err := b.buildDir(childPath)
			if err != nil {
				return hash.Hash{}, err
			}
			if err := t.Insert(tree.ModeTree, name, subHash); err != nil {
				return hash.Hash{}, err
			}

		case e.Type().IsRegular():
			mode, blobHash, err := b.buildFile(childPath)
			if err != nil {
				return hash.Hash{}, err
			}
			if err := t.Insert(mode, name, blobHash); err != nil {
				return hash.Hash{}, err
			}

		default:
			// Non-regular, non-directory entries (symlinks, devices,
			// sockets...) are ignored per §4.6's documented non-goal.
		}
	}

	payload, err := t.Serialize()
	if err != nil {
		return hash.Hash{}, err
	}
	return b.store.Put(objstore.KindTree, payload)
}

func (b *Builder) buildFile(path string) (tree.Mode, hash.Hash, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", hash.Hash{}, gnerrors.Wrap(gnerrors.IOError, path, err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", hash.Hash{}, gnerrors.Wrap(gnerrors.IOError, path, err)
	}

	mode := tree.ModeRegular
	if info.Mode()&0o111 != 0 {
		mode = tree.ModeExecutable
	}

	digest := Digest(content)
	if cached, ok := b.fp.Lookup(digest); ok && b.store.Exists(cached) {
		return mode, cached, nil
	}

	blobHash, err := blob.Put(b.store, content)
	if err != nil {
		return "", hash.Hash{}, err
	}
	b.fp.Store(digest, blobHash)
	return mode, blobHash, nil
}
