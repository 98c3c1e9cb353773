// Package blob is a thin, typed facade over objstore constrained to
// KindBlob — the raw file-contents object (§4.4 / GLOSSARY "Blob").
package blob

import (
	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/hash"
	"github.com/VandeeFeng/GitNano/internal/objstore"
)

// Put stores content as a blob object and returns its hash.
func Put(store *objstore.Store, content []byte) (hash.Hash, error) {
	return store.Put(objstore.KindBlob, content)
}

// Get reads the blob named by h, failing with TypeMismatch if h names an
// object of a different kind.
func Get(store *objstore.Store, h hash.Hash) ([]byte, error) {
	kind, payload, err := store.Get(h)
	if err != nil {
		return nil, err
	}
	if kind != objstore.KindBlob {
		return nil, gnerrors.New(gnerrors.TypeMismatch, h.String())
	}
	return payload, nil
}

// HashOf reports the hash content would get if stored as a blob, without
// writing anything. Tree entries and Put both key blobs by the canonical
// "blob size\0payload" form (§4.1); any caller comparing raw file bytes
// against a tree entry's hash — diffing a working directory, for
// instance — must hash through here rather than hash.Sum(content)
// directly, or the two schemes will never agree.
func HashOf(content []byte) hash.Hash {
	return objstore.HashOf(objstore.KindBlob, content)
}
