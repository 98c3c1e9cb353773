// Package refs manages HEAD and branch references (§3 "Reference", §4.8,
// §6). Grounded on the teacher's internal/refs.RefsManager, simplified
// from Ivaldi's multi-timeline/bbolt-backed design down to the spec's
// plain-file HEAD + refs/heads/<branch> layout (a single default branch,
// no remotes or tags).
package refs

import (
	"strings"

	"github.com/VandeeFeng/GitNano/internal/fsutil"
	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/hash"
)

// DefaultBranch is the branch name a fresh repository's HEAD points to.
const DefaultBranch = "master"

// Manager reads and writes HEAD and branch-ref files under a repository's
// metadata directory.
type Manager struct {
	gitnanoDir string // e.g. ".gitnano"
}

// New creates a Manager rooted at gitnanoDir.
func New(gitnanoDir string) *Manager {
	return &Manager{gitnanoDir: gitnanoDir}
}

func (m *Manager) headPath() string {
	return fsutil.Join(m.gitnanoDir, "HEAD")
}

func (m *Manager) branchPath(name string) string {
	return fsutil.Join(m.gitnanoDir, "refs", "heads", name)
}

// InitHead writes the default symbolic HEAD ("ref: refs/heads/master\n")
// for a freshly initialized repository.
func (m *Manager) InitHead() error {
	return fsutil.WriteFile(m.headPath(), []byte("ref: refs/heads/"+DefaultBranch+"\n"), 0o644)
}

// ReadHead returns HEAD's raw contents, trimmed of its trailing newline.
func (m *Manager) ReadHead() (string, error) {
	data, err := fsutil.ReadFile(m.headPath())
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// HeadRef reports whether HEAD is symbolic, and if so, the ref path it
// names (e.g. "refs/heads/master").
func (m *Manager) HeadRef() (refPath string, symbolic bool, err error) {
	content, err := m.ReadHead()
	if err != nil {
		return "", false, err
	}
	if strings.HasPrefix(content, "ref: ") {
		return strings.TrimPrefix(content, "ref: "), true, nil
	}
	return "", false, nil
}

// WriteHeadDetached points HEAD directly at a commit hash.
func (m *Manager) WriteHeadDetached(h hash.Hash) error {
	return fsutil.WriteFileAtomic(m.headPath(), []byte(h.String()+"\n"), 0o644)
}

// WriteHeadSymbolic points HEAD at a ref path (e.g. "refs/heads/master").
func (m *Manager) WriteHeadSymbolic(refPath string) error {
	return fsutil.WriteFileAtomic(m.headPath(), []byte("ref: "+refPath+"\n"), 0o644)
}

// ReadBranch returns the commit hash stored in refs/heads/<name>.
// NotFound if the branch file doesn't exist yet (the fresh-repo state).
func (m *Manager) ReadBranch(name string) (hash.Hash, error) {
	data, err := fsutil.ReadFile(m.branchPath(name))
	if err != nil {
		return hash.Hash{}, err
	}
	h, ok := hash.Parse(strings.TrimRight(string(data), "\n"))
	if !ok {
		return hash.Hash{}, gnerrors.New(gnerrors.CorruptObject, m.branchPath(name))
	}
	return h, nil
}

// WriteBranch overwrites refs/heads/<name> to point at h (§3 "exactly one
// hash matching [0-9a-f]{40} followed by a single newline").
func (m *Manager) WriteBranch(name string, h hash.Hash) error {
	return fsutil.WriteFileAtomic(m.branchPath(name), []byte(h.String()+"\n"), 0o644)
}

// BranchExists reports whether refs/heads/<name> exists.
func (m *Manager) BranchExists(name string) bool {
	return fsutil.Exists(m.branchPath(name))
}

// CurrentBranch returns the branch name HEAD symbolically points to, or
// ("", false) when HEAD is detached.
func (m *Manager) CurrentBranch() (string, bool, error) {
	refPath, symbolic, err := m.HeadRef()
	if err != nil {
		return "", false, err
	}
	if !symbolic {
		return "", false, nil
	}
	const prefix = "refs/heads/"
	if !strings.HasPrefix(refPath, prefix) {
		return "", false, nil
	}
	return strings.TrimPrefix(refPath, prefix), true, nil
}
