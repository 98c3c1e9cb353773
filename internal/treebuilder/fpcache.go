package treebuilder

import (
	"go.etcd.io/bbolt"
	"lukechampine.com/blake3"

	"github.com/VandeeFeng/GitNano/internal/hash"
)

// fpBucket maps a BLAKE3 content digest to the SHA-1 blob hash already
// stored for that content. BLAKE3 is only ever compared against itself
// here — it is ineligible as the object store's own key (§4.1 mandates
// SHA-1 for wire compatibility) but is far cheaper to compute, so it
// serves as a first-pass membership test that lets Build skip the
// canonical-form + SHA-1 + deflate + store-write path entirely for any
// file whose content exactly matches one already seen, in this snapshot
// or a previous one (the "content-based deduplication... partial-hash
// lookup" performance concern called out in the design overview).
var fpBucket = []byte("blake3->blob-sha1")

// FingerprintCache is a pure accelerator: a nil cache, or one whose Open
// failed, degrades Build to "always compute SHA-1", which is always
// correct, just slower.
type FingerprintCache struct {
	db *bbolt.DB
}

// OpenFingerprintCache opens (creating if absent) the cache database.
func OpenFingerprintCache(path string) (*FingerprintCache, error) {
	db, err := bbolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(fpBucket)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &FingerprintCache{db: db}, nil
}

// Close releases the database handle.
func (c *FingerprintCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Digest computes the BLAKE3-256 digest of content.
func Digest(content []byte) [32]byte {
	return blake3.Sum256(content)
}

// Lookup returns the already-known blob hash for a content digest.
func (c *FingerprintCache) Lookup(digest [32]byte) (hash.Hash, bool) {
	if c == nil || c.db == nil {
		return hash.Hash{}, false
	}
	var h hash.Hash
	var ok bool
	_ = c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(fpBucket).Get(digest[:])
		if v != nil && len(v) == hash.Size {
			copy(h[:], v)
			ok = true
		}
		return nil
	})
	return h, ok
}

// Store records that content digest maps to the given blob hash.
func (c *FingerprintCache) Store(digest [32]byte, blobHash hash.Hash) {
	if c == nil || c.db == nil {
		return
	}
	_ = c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(fpBucket).Put(digest[:], blobHash[:])
	})
}
