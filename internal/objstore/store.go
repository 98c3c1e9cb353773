// Package objstore is the content-addressed object database: Put/Get/
// Exists over typed, deflate-compressed blobs keyed by their SHA-1 digest,
// laid out on disk with a two-character fan-out directory (grounded on the
// teacher's internal/cas.FileCAS, generalized from a fixed BLAKE3 key to
// the typed "kind size\0payload" canonical form §3 specifies).
package objstore

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/VandeeFeng/GitNano/internal/codec"
	"github.com/VandeeFeng/GitNano/internal/fsutil"
	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/hash"
)

// Kind is the sum type of storable object classes.
type Kind string

const (
	KindBlob   Kind = "blob"
	KindTree   Kind = "tree"
	KindCommit Kind = "commit"
)

// Verify controls whether Put re-reads and re-verifies every object it
// writes (§4.3, I1). On by default; a caller may turn it off once a
// repository is known-good, trading the read-back cost for speed.
var Verify = true

// Store is the on-disk object database rooted at <repo>/objects.
type Store struct {
	root  string
	cache *KindCache // optional; nil is a valid "no cache" state
}

// Open returns a Store rooted at objectsDir, creating it if absent, and
// opens (or creates) the companion kind-index cache alongside it.
func Open(objectsDir string) (*Store, error) {
	if err := fsutil.MkdirAll(objectsDir); err != nil {
		return nil, err
	}
	cache, err := OpenKindCache(filepath.Join(filepath.Dir(objectsDir), "kindcache.db"))
	if err != nil {
		// The cache is a pure performance aid; a store without one still
		// satisfies every correctness property, just more slowly on
		// partial-hash resolution.
		log.Printf("objstore: kind-index cache unavailable, falling back to uncached lookups: %v", err)
		cache = nil
	}
	return &Store{root: objectsDir, cache: cache}, nil
}

// Close releases the kind-index cache, if one was opened.
func (s *Store) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}

func canonicalForm(kind Kind, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", kind, len(payload))
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	out = append(out, payload...)
	return out
}

// HashOf computes the hash payload would get if stored as kind, without
// touching disk — the same "kind size\0payload" canonical form Put
// hashes (§4.1, §4.3). Callers that need to know a blob's eventual hash
// before (or instead of) writing it, e.g. diffing working-directory
// content against a tree, must go through this rather than hashing raw
// bytes directly.
func HashOf(kind Kind, payload []byte) hash.Hash {
	return hash.Sum(canonicalForm(kind, payload))
}

func (s *Store) path(h hash.Hash) string {
	hex := h.String()
	return filepath.Join(s.root, hex[:2], hex[2:])
}

// fanoutDir returns the directory holding every object whose hash begins
// with the given two-character prefix.
func (s *Store) fanoutDir(prefix2 string) string {
	return filepath.Join(s.root, prefix2)
}

// Put stores payload under its computed hash, deduplicating no-ops per
// §3's I6 (writing an existing hash is a harmless no-op).
func (s *Store) Put(kind Kind, payload []byte) (hash.Hash, error) {
	canon := canonicalForm(kind, payload)
	h := hash.Sum(canon)
	path := s.path(h)

	if fsutil.Exists(path) {
		if s.cache != nil {
			_ = s.cache.Put(h, kind)
		}
		return h, nil
	}

	compressed, err := codec.Compress(canon)
	if err != nil {
		return hash.Hash{}, err
	}

	if err := fsutil.MkdirAll(filepath.Dir(path)); err != nil {
		return hash.Hash{}, err
	}

	if err := fsutil.WriteFileAtomic(path, compressed, 0o444); err != nil {
		return hash.Hash{}, err
	}

	if Verify {
		if _, _, verr := s.readAndVerify(h, path); verr != nil {
			log.Printf("objstore: integrity check failed writing %s, removing corrupt object: %v", h, verr)
			os.Remove(path)
			return hash.Hash{}, gnerrors.Wrap(gnerrors.IntegrityError, h.String(), verr)
		}
	}

	if s.cache != nil {
		_ = s.cache.Put(h, kind)
	}

	return h, nil
}

// Get reads and decompresses the object named by h, validating its header.
func (s *Store) Get(h hash.Hash) (Kind, []byte, error) {
	return s.readAndVerify(h, s.path(h))
}

func (s *Store) readAndVerify(h hash.Hash, path string) (Kind, []byte, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, gnerrors.New(gnerrors.NotFound, h.String())
		}
		return "", nil, gnerrors.Wrap(gnerrors.IOError, h.String(), err)
	}

	canon, err := codec.Decompress(raw)
	if err != nil {
		return "", nil, gnerrors.Wrap(gnerrors.CorruptObject, h.String(), err)
	}

	kind, payload, err := parseCanonical(canon)
	if err != nil {
		return "", nil, gnerrors.Wrap(gnerrors.CorruptObject, h.String(), err)
	}

	if hash.Sum(canon) != h {
		return "", nil, gnerrors.New(gnerrors.IntegrityError, h.String())
	}

	return kind, payload, nil
}

func parseCanonical(canon []byte) (Kind, []byte, error) {
	nul := bytes.IndexByte(canon, 0x00)
	if nul < 0 {
		return "", nil, fmt.Errorf("missing NUL header terminator")
	}
	header := string(canon[:nul])
	payload := canon[nul+1:]

	sp := bytes.IndexByte([]byte(header), ' ')
	if sp < 0 {
		return "", nil, fmt.Errorf("malformed header %q", header)
	}
	kind := Kind(header[:sp])
	size, err := strconv.Atoi(header[sp+1:])
	if err != nil {
		return "", nil, fmt.Errorf("malformed size in header %q: %w", header, err)
	}
	if size != len(payload) {
		return "", nil, fmt.Errorf("size mismatch: header says %d, payload is %d bytes", size, len(payload))
	}
	switch kind {
	case KindBlob, KindTree, KindCommit:
	default:
		return "", nil, fmt.Errorf("unknown object kind %q", kind)
	}
	return kind, payload, nil
}

// Exists reports file presence only — it does not verify integrity, per
// §4.3.
func (s *Store) Exists(h hash.Hash) bool {
	return fsutil.Exists(s.path(h))
}

// KindIfExists returns the kind of h without fully reading/decompressing
// it when the kind cache can answer the question; falls back to Get.
func (s *Store) KindIfExists(h hash.Hash) (Kind, bool) {
	if s.cache != nil {
		if kind, ok := s.cache.Get(h); ok {
			return kind, true
		}
	}
	kind, _, err := s.Get(h)
	if err != nil {
		return "", false
	}
	if s.cache != nil {
		_ = s.cache.Put(h, kind)
	}
	return kind, true
}

// CandidatesForPrefix scans the fan-out directory (or all fan-out
// directories, for a prefix shorter than two characters) and returns every
// full hash whose hex form starts with prefix. Used by the reference
// resolver (§4.8); performs no writes.
func (s *Store) CandidatesForPrefix(prefix string) ([]hash.Hash, error) {
	var dirs []string
	if len(prefix) >= 2 {
		dirs = []string{prefix[:2]}
	} else {
		entries, err := os.ReadDir(s.root)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, nil
			}
			return nil, gnerrors.Wrap(gnerrors.IOError, s.root, err)
		}
		for _, e := range entries {
			if e.IsDir() && len(e.Name()) == 2 {
				dirs = append(dirs, e.Name())
			}
		}
	}

	var out []hash.Hash
	for _, dir := range dirs {
		full := s.fanoutDir(dir)
		entries, err := os.ReadDir(full)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, gnerrors.Wrap(gnerrors.IOError, full, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			candidate := dir + e.Name()
			if len(candidate) != hash.HexSize {
				continue
			}
			if len(candidate) < len(prefix) || candidate[:len(prefix)] != prefix {
				continue
			}
			h, ok := hash.Parse(candidate)
			if !ok {
				continue
			}
			out = append(out, h)
		}
	}
	return out, nil
}
