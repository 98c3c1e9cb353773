package tree

import (
	"strings"

	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/hash"
	"github.com/VandeeFeng/GitNano/internal/objstore"
)

// Load reads and parses the tree object named by h.
func Load(store *objstore.Store, h hash.Hash) (*Tree, error) {
	kind, payload, err := store.Get(h)
	if err != nil {
		return nil, err
	}
	if kind != objstore.KindTree {
		return nil, gnerrors.New(gnerrors.TypeMismatch, h.String())
	}
	return Parse(payload)
}

// FindPath walks a "/"-separated path starting at root, descending into
// subtrees as needed, and returns the entry named by the final component.
// A non-terminal component that isn't a subtree, or any missing
// component, fails with NotFound.
func FindPath(store *objstore.Store, root *Tree, path string) (Entry, error) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	current := root
	for i, part := range parts {
		entry, ok := current.Find(part)
		if !ok {
			return Entry{}, gnerrors.New(gnerrors.NotFound, path)
		}
		if i == len(parts)-1 {
			return entry, nil
		}
		if entry.Kind != KindSubtree {
			return Entry{}, gnerrors.New(gnerrors.NotFound, path)
		}
		sub, err := Load(store, entry.Hash)
		if err != nil {
			return Entry{}, err
		}
		current = sub
	}
	return Entry{}, gnerrors.New(gnerrors.NotFound, path)
}
