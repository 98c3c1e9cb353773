// Package repo wires the core collaborators (object store, refs, tree
// builder, commits, restore, diff) into the high-level operations a
// driver invokes: init, snapshot, restore, log, diff, status (§4.10,
// §6). Grounded on the teacher's cli package, but reworked per the
// "repo locator" design note into a value carrying the absolute
// .gitnano directory and working-tree path, rather than the teacher's
// repeated os.Getwd()/hardcoded ".ivaldi" pairs scattered per command.
// No operation here changes the process's current directory.
package repo

import (
	"fmt"
	"log"
	"path/filepath"

	"github.com/VandeeFeng/GitNano/internal/blob"
	"github.com/VandeeFeng/GitNano/internal/commitobj"
	"github.com/VandeeFeng/GitNano/internal/config"
	"github.com/VandeeFeng/GitNano/internal/diffcore"
	"github.com/VandeeFeng/GitNano/internal/fsutil"
	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/hash"
	"github.com/VandeeFeng/GitNano/internal/identity"
	"github.com/VandeeFeng/GitNano/internal/objstore"
	"github.com/VandeeFeng/GitNano/internal/refs"
	"github.com/VandeeFeng/GitNano/internal/restore"
	"github.com/VandeeFeng/GitNano/internal/timestamp"
	"github.com/VandeeFeng/GitNano/internal/tree"
	"github.com/VandeeFeng/GitNano/internal/treebuilder"
)

// MetaDirName is the repository metadata directory name (§6).
const MetaDirName = ".gitnano"

// Locator names a repository: the absolute metadata directory and the
// directory treated as the working tree for snapshot/restore (§9,
// "Workspace mirror" design note). WorkDir and GitnanoDir need not be
// siblings — a workspace-mirror deployment points GitnanoDir at the
// mirror while WorkDir still names the mirror's own tree, never the
// user's original project directory.
type Locator struct {
	WorkDir    string
	GitnanoDir string
}

// DiscoverLocator finds the nearest .gitnano directory starting at dir
// and walking up to the filesystem root, the way a driver resolves
// "which repository am I in" before dispatching a command.
func DiscoverLocator(dir string) (Locator, error) {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return Locator{}, gnerrors.Wrap(gnerrors.IOError, dir, err)
	}
	for {
		candidate := filepath.Join(cur, MetaDirName)
		if fsutil.IsDir(candidate) {
			return Locator{WorkDir: cur, GitnanoDir: candidate}, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return Locator{}, gnerrors.New(gnerrors.NotARepository, dir)
		}
		cur = parent
	}
}

// Repo is an opened repository: its locator plus the live object store
// and ref manager. Callers obtain one via Open or Init and should Close
// it when done to release the kind-cache handle.
type Repo struct {
	Locator Locator
	Store   *objstore.Store
	Refs    *refs.Manager
}

// Open opens an existing repository at loc. Fails NotARepository if
// loc.GitnanoDir is absent.
func Open(loc Locator) (*Repo, error) {
	if !fsutil.IsDir(loc.GitnanoDir) {
		return nil, gnerrors.New(gnerrors.NotARepository, loc.GitnanoDir)
	}
	store, err := objstore.Open(filepath.Join(loc.GitnanoDir, "objects"))
	if err != nil {
		return nil, err
	}
	return &Repo{Locator: loc, Store: store, Refs: refs.New(loc.GitnanoDir)}, nil
}

// Close releases the repository's open handles.
func (r *Repo) Close() error {
	return r.Store.Close()
}

// Init creates a fresh repository at loc: objects/, refs/heads/, and a
// HEAD symbolic to refs/heads/master (§6). A no-op error if a .gitnano
// directory already exists there.
func Init(loc Locator) (*Repo, error) {
	if fsutil.IsDir(loc.GitnanoDir) {
		return nil, gnerrors.New(gnerrors.InvalidArgument, loc.GitnanoDir+" already initialized")
	}
	store, err := objstore.Open(filepath.Join(loc.GitnanoDir, "objects"))
	if err != nil {
		return nil, err
	}
	if err := fsutil.MkdirAll(filepath.Join(loc.GitnanoDir, "refs", "heads")); err != nil {
		return nil, err
	}
	rm := refs.New(loc.GitnanoDir)
	if err := rm.InitHead(); err != nil {
		return nil, err
	}
	return &Repo{Locator: loc, Store: store, Refs: rm}, nil
}

func (r *Repo) resolver() *refs.Resolver {
	return refs.NewResolver(r.Refs, r.Store)
}

// CurrentCommit resolves HEAD (§4.8's "getting the current commit"):
// the zero hash with a nil error names the fresh-repo state.
func (r *Repo) CurrentCommit() (hash.Hash, error) {
	return r.resolver().Resolve("HEAD")
}

// Resolve resolves an arbitrary ref token (§4.8).
func (r *Repo) Resolve(token string) (hash.Hash, error) {
	return r.resolver().Resolve(token)
}

// SnapshotParams carries the optional overrides a caller may supply to
// Snapshot; empty fields fall back to the identity and timestamp
// collaborators.
type SnapshotParams struct {
	Message   string
	Author    string
	Committer string
	Cfg       *config.Config
}

// Snapshot builds a tree from the working directory, creates a commit
// against the current HEAD as parent, and advances HEAD (or the branch
// it points to) to the new commit (§4.10 "Snapshot").
func (r *Repo) Snapshot(p SnapshotParams) (hash.Hash, error) {
	fp, err := treebuilder.OpenFingerprintCache(filepath.Join(r.Locator.GitnanoDir, "fpcache.db"))
	if err != nil {
		log.Printf("repo: fingerprint cache unavailable, snapshotting without the dedup fast path: %v", err)
		fp = nil
	}
	defer fp.Close()

	builder := treebuilder.New(r.Store, fp)
	rootHash, err := builder.Build(r.Locator.WorkDir)
	if err != nil {
		return hash.Hash{}, err
	}

	parentHash, err := r.CurrentCommit()
	if err != nil {
		return hash.Hash{}, err
	}
	var parent *hash.Hash
	if !parentHash.IsZero() {
		parent = &parentHash
	}

	author := p.Author
	if author == "" {
		author = identity.Current(p.Cfg)
	}
	committer := p.Committer
	if committer == "" {
		committer = author
	}

	commitHash, err := commitobj.Create(r.Store, commitobj.CreateParams{
		Tree:      rootHash,
		Parent:    parent,
		Author:    author,
		Committer: committer,
		Timestamp: timestamp.Now(),
		Message:   p.Message,
	})
	if err != nil {
		return hash.Hash{}, err
	}

	if err := r.advanceHead(commitHash); err != nil {
		return hash.Hash{}, err
	}
	return commitHash, nil
}

// advanceHead writes commitHash to the branch HEAD symbolically names,
// or rewrites HEAD directly if it is detached (§4.10).
func (r *Repo) advanceHead(commitHash hash.Hash) error {
	refPath, symbolic, err := r.Refs.HeadRef()
	if err != nil {
		return err
	}
	if !symbolic {
		return r.Refs.WriteHeadDetached(commitHash)
	}
	const prefix = "refs/heads/"
	branch := refPath
	if len(refPath) > len(prefix) && refPath[:len(prefix)] == prefix {
		branch = refPath[len(prefix):]
	}
	return r.Refs.WriteBranch(branch, commitHash)
}

// RestoreResult bundles the restore engine's statistics with the commit
// that was restored, for a driver to report.
type RestoreResult struct {
	Commit hash.Hash
	Stats  restore.Stats
	Errors []restore.FileFailure
}

// Restore resolves token to a commit, materializes its tree into the
// working directory, deletes stale files, and repoints HEAD at the
// resolved commit (detached), per §4.9 and the checkout entry of §6.
func (r *Repo) Restore(token string) (RestoreResult, error) {
	commitHash, err := r.Resolve(token)
	if err != nil {
		return RestoreResult{}, err
	}
	if commitHash.IsZero() {
		return RestoreResult{}, gnerrors.New(gnerrors.NotFound, token)
	}

	commit, err := commitobj.Read(r.Store, commitHash)
	if err != nil {
		return RestoreResult{}, err
	}
	root, err := tree.Load(r.Store, commit.Tree)
	if err != nil {
		return RestoreResult{}, err
	}

	engine := restore.New(r.Store)
	stats, failures, err := engine.Restore(root, r.Locator.WorkDir)
	if err != nil {
		return RestoreResult{Commit: commitHash, Stats: stats, Errors: failures}, err
	}

	if err := r.Refs.WriteHeadDetached(commitHash); err != nil {
		return RestoreResult{Commit: commitHash, Stats: stats, Errors: failures}, err
	}

	return RestoreResult{Commit: commitHash, Stats: stats, Errors: failures}, nil
}

// RestorePath restores only the subtree or file named by path from the
// commit token names, performing no cleanup pass and leaving HEAD
// untouched (§4.9's single-path variant).
func (r *Repo) RestorePath(token, path string) error {
	commitHash, err := r.Resolve(token)
	if err != nil {
		return err
	}
	if commitHash.IsZero() {
		return gnerrors.New(gnerrors.NotFound, token)
	}
	commit, err := commitobj.Read(r.Store, commitHash)
	if err != nil {
		return err
	}
	root, err := tree.Load(r.Store, commit.Tree)
	if err != nil {
		return err
	}
	return restore.New(r.Store).RestorePath(root, path, r.Locator.WorkDir)
}

// LogEntry is one commit in the history walked by Log.
type LogEntry struct {
	Hash   hash.Hash
	Commit *commitobj.Commit
}

// Log walks the first-parent chain starting at HEAD (or at start if
// non-empty), newest first, stopping after limit entries (0 = no
// limit) or at the root commit (§4.10 "a log walks commits
// parent-chain first-parent").
func (r *Repo) Log(start string, limit int) ([]LogEntry, error) {
	var cur hash.Hash
	var err error
	if start == "" {
		cur, err = r.CurrentCommit()
	} else {
		cur, err = r.Resolve(start)
	}
	if err != nil {
		return nil, err
	}

	var entries []LogEntry
	for !cur.IsZero() {
		if limit > 0 && len(entries) >= limit {
			break
		}
		c, err := commitobj.Read(r.Store, cur)
		if err != nil {
			return entries, err
		}
		entries = append(entries, LogEntry{Hash: cur, Commit: c})

		parent, err := commitobj.ParentOf(c)
		if err != nil {
			break
		}
		cur = parent
	}
	return entries, nil
}

// DiffRefs implements the `diff [ref1 [ref2]]` surface of §6: zero refs
// compares the working directory against HEAD; one ref compares ref1's
// tree against HEAD's tree; two refs compare ref1's tree against ref2's.
func (r *Repo) DiffRefs(ref1, ref2 string) (diffcore.Result, error) {
	switch {
	case ref1 == "" && ref2 == "":
		return r.DiffWorkingDirectory("HEAD")
	case ref2 == "":
		return r.DiffCommits(ref1, "HEAD")
	default:
		return r.DiffCommits(ref1, ref2)
	}
}

// DiffCommits diffs the root trees of two resolved commits (§4.10
// "Tree-to-tree diff").
func (r *Repo) DiffCommits(ref1, ref2 string) (diffcore.Result, error) {
	h1, err := r.Resolve(ref1)
	if err != nil {
		return diffcore.Result{}, err
	}
	h2, err := r.Resolve(ref2)
	if err != nil {
		return diffcore.Result{}, err
	}
	t1, err := r.flattenCommit(h1)
	if err != nil {
		return diffcore.Result{}, err
	}
	t2, err := r.flattenCommit(h2)
	if err != nil {
		return diffcore.Result{}, err
	}
	return diffcore.Trees(t1, t2), nil
}

// DiffWorkingDirectory diffs the live working directory against the
// tree named by ref (§4.10 "Working-directory diff").
func (r *Repo) DiffWorkingDirectory(ref string) (diffcore.Result, error) {
	h, err := r.Resolve(ref)
	if err != nil {
		return diffcore.Result{}, err
	}
	flat, err := r.flattenCommit(h)
	if err != nil {
		return diffcore.Result{}, err
	}
	return diffcore.WorkingDirectory(flat, r.Locator.WorkDir, nil)
}

func (r *Repo) flattenCommit(h hash.Hash) (map[string]hash.Hash, error) {
	if h.IsZero() {
		return map[string]hash.Hash{}, nil
	}
	c, err := commitobj.Read(r.Store, h)
	if err != nil {
		return nil, err
	}
	t, err := tree.Load(r.Store, c.Tree)
	if err != nil {
		return nil, err
	}
	return diffcore.Flatten(r.Store, t)
}

// Status summarizes the repository state for the `status` command of
// §6, grounded on the C reference's gitnano_status_info: repository
// presence is implied by the caller having opened a Repo at all.
type Status struct {
	Branch       string
	Detached     bool
	Head         hash.Hash
	HasCommit    bool
	ChangedFiles int
}

// BuildStatus gathers the fields Status reports.
func (r *Repo) BuildStatus() (Status, error) {
	var s Status
	branch, onBranch, err := r.Refs.CurrentBranch()
	if err != nil {
		return Status{}, err
	}
	s.Branch = branch
	s.Detached = !onBranch

	head, err := r.CurrentCommit()
	if err != nil {
		return Status{}, err
	}
	s.Head = head
	s.HasCommit = !head.IsZero()

	diff, err := r.DiffWorkingDirectory("HEAD")
	if err != nil {
		return Status{}, err
	}
	s.ChangedFiles = len(diff.Added) + len(diff.Modified) + len(diff.Deleted)

	return s, nil
}

// Add validates that path exists under the working directory and is
// not attempting to traverse outside it, then appends it to the
// optional index file (§6 "Index file"). The core never reads this
// file back; it exists purely for user introspection, grounded on the
// C reference's workspace_push_file path-safety check.
func (r *Repo) Add(path string) error {
	abs := filepath.Join(r.Locator.WorkDir, path)
	rel, err := filepath.Rel(r.Locator.WorkDir, abs)
	if err != nil || rel == ".." || (len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)) {
		return gnerrors.New(gnerrors.InvalidArgument, path)
	}
	if !fsutil.Exists(abs) {
		return gnerrors.New(gnerrors.NotFound, path)
	}

	h, err := hashWorkingFile(abs)
	if err != nil {
		return err
	}

	indexPath := filepath.Join(r.Locator.GitnanoDir, "index")
	line := fmt.Sprintf("%s %s\n", h, filepath.ToSlash(rel))
	return fsutil.AppendFile(indexPath, []byte(line))
}

// hashWorkingFile reports the hash path's content would get if committed
// as a blob, so the index line a user inspects matches the hash that
// would actually land in a tree entry.
func hashWorkingFile(path string) (hash.Hash, error) {
	content, err := fsutil.ReadFile(path)
	if err != nil {
		return hash.Hash{}, err
	}
	return blob.HashOf(content), nil
}
