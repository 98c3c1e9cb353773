// Package restore materializes a tree into a filesystem directory and
// reconciles the directory with that tree by deleting stale files (§4.9).
// Grounded on the teacher's workspace.Materializer plus the cleanup-walk
// shape of GitNano's cleanup_extra_files/collect_working_files C routines.
package restore

import (
	"os"
	"path/filepath"

	"github.com/VandeeFeng/GitNano/internal/blob"
	"github.com/VandeeFeng/GitNano/internal/fsutil"
	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/hash"
	"github.com/VandeeFeng/GitNano/internal/objstore"
	"github.com/VandeeFeng/GitNano/internal/tree"
)

// MetaDirName mirrors treebuilder.MetaDirName; it is a separate copy of
// the same constant rather than an import of the treebuilder package.
const MetaDirName = ".gitnano"

// Stats reports the counts §4.9 step 4 requires: added, modified, and
// deleted file counts, computed by comparing prior working content
// against the target before overwriting it.
type Stats struct {
	Added    int
	Modified int
	Deleted  int
	Failed   int // per-file write failures that did not abort the run
}

// FileFailure records one best-effort failure during materialization or
// cleanup; the restore engine collects these rather than aborting.
type FileFailure struct {
	Path string
	Err  error
}

// Engine materializes trees into, and reconciles them against, a target
// directory.
type Engine struct {
	store *objstore.Store
}

// New creates a restore Engine over store.
func New(store *objstore.Store) *Engine {
	return &Engine{store: store}
}

// Restore materializes root into dir, then deletes every regular file
// under dir that root does not name (§4.9 steps 1-3), returning
// statistics and any per-file failures (which do not abort the run).
func (e *Engine) Restore(root *tree.Tree, dir string) (Stats, []FileFailure, error) {
	targetFiles := make(map[string]hash.Hash)
	e.collectTargets(root, "", targetFiles)

	var stats Stats
	var failures []FileFailure

	e.materialize(root, dir, "", &stats, &failures)

	if err := e.cleanup(dir, targetFiles, &stats, &failures); err != nil {
		return stats, failures, err
	}

	return stats, failures, nil
}

// RestorePath materializes only the subtree or file named by path within
// root, performing no cleanup pass (§4.9's single-path variant).
func (e *Engine) RestorePath(root *tree.Tree, path, dir string) error {
	entry, err := tree.FindPath(e.store, root, path)
	if err != nil {
		return err
	}

	target := filepath.Join(dir, filepath.FromSlash(path))

	if entry.Kind == tree.KindSubtree {
		sub, err := tree.Load(e.store, entry.Hash)
		if err != nil {
			return err
		}
		var stats Stats
		var failures []FileFailure
		e.materialize(sub, target, "", &stats, &failures)
		if len(failures) > 0 {
			return gnerrors.Wrap(gnerrors.IOError, path, failures[0].Err)
		}
		return nil
	}

	return e.writeBlob(entry.Hash, target, entry.Mode)
}

func (e *Engine) collectTargets(t *tree.Tree, prefix string, out map[string]hash.Hash) {
	for _, entry := range t.Entries() {
		rel := entry.Name
		if prefix != "" {
			rel = prefix + "/" + entry.Name
		}
		if entry.Kind == tree.KindSubtree {
			sub, err := tree.Load(e.store, entry.Hash)
			if err != nil {
				continue
			}
			e.collectTargets(sub, rel, out)
		} else {
			out[rel] = entry.Hash
		}
	}
}

func (e *Engine) materialize(t *tree.Tree, dir, prefix string, stats *Stats, failures *[]FileFailure) {
	if err := fsutil.MkdirAll(dir); err != nil {
		*failures = append(*failures, FileFailure{Path: prefix, Err: err})
		return
	}

	for _, entry := range t.Entries() {
		rel := entry.Name
		if prefix != "" {
			rel = prefix + "/" + entry.Name
		}
		path := filepath.Join(dir, entry.Name)

		if entry.Kind == tree.KindSubtree {
			sub, err := tree.Load(e.store, entry.Hash)
			if err != nil {
				*failures = append(*failures, FileFailure{Path: rel, Err: err})
				continue
			}
			e.materialize(sub, path, rel, stats, failures)
			continue
		}

		content, err := blob.Get(e.store, entry.Hash)
		if err != nil {
			*failures = append(*failures, FileFailure{Path: rel, Err: err})
			stats.Failed++
			continue
		}

		existed := fsutil.Exists(path)
		changed := false
		if existed {
			prior, err := os.ReadFile(path)
			changed = err != nil || hash.Sum(prior) != hash.Sum(content)
		}

		perm := os.FileMode(0o644)
		if entry.Mode == tree.ModeExecutable {
			perm = 0o755
		}
		if err := fsutil.WriteFile(path, content, perm); err != nil {
			*failures = append(*failures, FileFailure{Path: rel, Err: err})
			stats.Failed++
			continue
		}

		switch {
		case !existed:
			stats.Added++
		case changed:
			stats.Modified++
		}
	}
}

func (e *Engine) writeBlob(h hash.Hash, path string, mode tree.Mode) error {
	content, err := blob.Get(e.store, h)
	if err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if mode == tree.ModeExecutable {
		perm = 0o755
	}
	return fsutil.WriteFile(path, content, perm)
}

// cleanup deletes every regular file under dir (skipping the repository
// metadata directory) whose relative path is not a key in targetFiles.
func (e *Engine) cleanup(dir string, targetFiles map[string]hash.Hash, stats *Stats, failures *[]FileFailure) error {
	if !fsutil.Exists(dir) {
		return nil
	}

	return filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			*failures = append(*failures, FileFailure{Path: path, Err: err})
			return nil
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil {
			return nil
		}
		if rel == "." {
			return nil
		}
		if rel == MetaDirName || hasMetaPrefix(rel) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}

		slashRel := filepath.ToSlash(rel)
		if _, ok := targetFiles[slashRel]; ok {
			return nil
		}

		if err := os.Remove(path); err != nil {
			*failures = append(*failures, FileFailure{Path: slashRel, Err: err})
			return nil
		}
		stats.Deleted++
		return nil
	})
}

func hasMetaPrefix(rel string) bool {
	return len(rel) >= len(MetaDirName)+1 && rel[:len(MetaDirName)+1] == MetaDirName+string(filepath.Separator)
}
