package refs

import (
	"strconv"
	"strings"

	"github.com/VandeeFeng/GitNano/internal/commitobj"
	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/hash"
	"github.com/VandeeFeng/GitNano/internal/objstore"
)

// Resolver resolves a user-supplied token (HEAD, HEAD~N, a full or
// partial hex hash, or a branch name) to a full commit hash, per the
// resolution order of §4.8. It performs no writes.
type Resolver struct {
	refs  *Manager
	store *objstore.Store
}

// NewResolver creates a Resolver over the given ref manager and object
// store.
func NewResolver(refs *Manager, store *objstore.Store) *Resolver {
	return &Resolver{refs: refs, store: store}
}

// Resolve implements the four-step resolution order of §4.8.
func (r *Resolver) Resolve(token string) (hash.Hash, error) {
	switch {
	case token == "HEAD":
		return r.resolveHead()
	case strings.HasPrefix(token, "HEAD~"):
		return r.resolveHeadAncestor(token)
	case hash.LooksLikeHex(token) && len(token) == hash.HexSize:
		return r.resolveFullHash(token)
	case hash.LooksLikeHex(token) && len(token) >= 4 && len(token) <= 8:
		return r.resolvePrefix(token)
	default:
		return r.resolveBranch(token)
	}
}

// resolveHead reads HEAD (recursing through at most one level of symbolic
// indirection, since this repository only ever creates HEAD -> branch ->
// hash chains) and returns the empty hash with no error for the
// fresh-repository state (§4.8's "Getting the current commit").
func (r *Resolver) resolveHead() (hash.Hash, error) {
	refPath, symbolic, err := r.refs.HeadRef()
	if err != nil {
		return hash.Hash{}, err
	}
	if !symbolic {
		h, err := r.refs.ReadHead()
		if err != nil {
			return hash.Hash{}, err
		}
		parsed, ok := hash.Parse(h)
		if !ok {
			return hash.Hash{}, gnerrors.New(gnerrors.CorruptObject, "HEAD")
		}
		return r.currentIfCommit(parsed)
	}

	const prefix = "refs/heads/"
	if !strings.HasPrefix(refPath, prefix) {
		return hash.Hash{}, gnerrors.New(gnerrors.CorruptObject, "HEAD")
	}
	branch := strings.TrimPrefix(refPath, prefix)
	if !r.refs.BranchExists(branch) {
		// Fresh-repo state: HEAD symbolic to a branch that doesn't exist
		// yet. Empty result, no error.
		return hash.Hash{}, nil
	}
	h, err := r.refs.ReadBranch(branch)
	if err != nil {
		return hash.Hash{}, err
	}
	return r.currentIfCommit(h)
}

// currentIfCommit applies the open-question resolution of §9: a HEAD that
// resolves to a hash absent from the store, or present but not
// commit-kind, is treated as "no current commit" rather than an error.
func (r *Resolver) currentIfCommit(h hash.Hash) (hash.Hash, error) {
	if !commitobj.Exists(r.store, h) {
		return hash.Hash{}, nil
	}
	return h, nil
}

func (r *Resolver) resolveHeadAncestor(token string) (hash.Hash, error) {
	nStr := strings.TrimPrefix(token, "HEAD~")
	n, err := strconv.Atoi(nStr)
	if err != nil || n < 1 {
		return hash.Hash{}, gnerrors.New(gnerrors.InvalidArgument, token)
	}

	cur, err := r.resolveHead()
	if err != nil {
		return hash.Hash{}, err
	}
	if cur.IsZero() {
		return hash.Hash{}, gnerrors.New(gnerrors.OutOfHistory, token)
	}

	for i := 0; i < n; i++ {
		commit, err := commitobj.Read(r.store, cur)
		if err != nil {
			return hash.Hash{}, gnerrors.New(gnerrors.OutOfHistory, token)
		}
		parent, err := commitobj.ParentOf(commit)
		if err != nil {
			return hash.Hash{}, gnerrors.New(gnerrors.OutOfHistory, token)
		}
		cur = parent
	}
	return cur, nil
}

func (r *Resolver) resolveFullHash(token string) (hash.Hash, error) {
	h, ok := hash.Parse(token)
	if !ok {
		return hash.Hash{}, gnerrors.New(gnerrors.InvalidArgument, token)
	}
	if !commitobj.Exists(r.store, h) {
		return hash.Hash{}, gnerrors.New(gnerrors.NotFound, token)
	}
	return h, nil
}

// resolvePrefix scans the fan-out directory (or all of them, for a prefix
// shorter than two hex characters) for commit-kind objects whose hash
// starts with token, per §4.8. Non-commit objects never shadow a commit
// and never count toward ambiguity.
func (r *Resolver) resolvePrefix(token string) (hash.Hash, error) {
	candidates, err := r.store.CandidatesForPrefix(token)
	if err != nil {
		return hash.Hash{}, err
	}

	var match hash.Hash
	count := 0
	for _, c := range candidates {
		if commitobj.Exists(r.store, c) {
			match = c
			count++
			if count > 1 {
				return hash.Hash{}, gnerrors.New(gnerrors.Ambiguous, token)
			}
		}
	}
	if count == 0 {
		return hash.Hash{}, gnerrors.New(gnerrors.NotFound, token)
	}
	return match, nil
}

func (r *Resolver) resolveBranch(token string) (hash.Hash, error) {
	if !r.refs.BranchExists(token) {
		return hash.Hash{}, gnerrors.New(gnerrors.NotFound, token)
	}
	h, err := r.refs.ReadBranch(token)
	if err != nil {
		return hash.Hash{}, err
	}
	if !commitobj.Exists(r.store, h) {
		return hash.Hash{}, gnerrors.New(gnerrors.NotFound, token)
	}
	return h, nil
}
