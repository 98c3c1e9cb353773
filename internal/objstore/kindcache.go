package objstore

import (
	"go.etcd.io/bbolt"

	"github.com/VandeeFeng/GitNano/internal/hash"
)

// bucketKind holds hash-hex -> single-byte kind tag, a cheap way to skip
// a decompress-and-parse round trip when the reference resolver's
// partial-hash scan (§4.8) needs to know whether a candidate is commit-
// shaped before considering it a match. Grounded on the teacher's
// internal/store/kv.go bucket-per-mapping design over bbolt.
var bucketKind = []byte("hash->kind")

// KindCache is a small embedded KV store mapping object hash to kind,
// kept alongside the object store purely as an accelerator — losing it
// (or never opening one) changes nothing about correctness.
type KindCache struct {
	db *bbolt.DB
}

// OpenKindCache opens (creating if absent) the bbolt database at path.
func OpenKindCache(path string) (*KindCache, error) {
	db, err := bbolt.Open(path, 0o644, nil)
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketKind)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &KindCache{db: db}, nil
}

// Close closes the underlying database file.
func (c *KindCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Put records h's kind.
func (c *KindCache) Put(h hash.Hash, kind Kind) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKind).Put([]byte(h.String()), []byte(kind))
	})
}

// Get looks up h's kind, returning ok=false on a cache miss.
func (c *KindCache) Get(h hash.Hash) (Kind, bool) {
	var kind Kind
	var ok bool
	_ = c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketKind).Get([]byte(h.String()))
		if v != nil {
			kind = Kind(v)
			ok = true
		}
		return nil
	})
	return kind, ok
}
