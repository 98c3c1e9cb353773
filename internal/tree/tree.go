// Package tree implements the directory-entry binary format (§4.5):
// parsing, serializing, and in-order maintenance of a tree's entry list.
// Grounded on the teacher's commit.go TreeEntry/TreeObject shape, reworked
// per the design notes (§9) into a value-typed, caller-owned ordered
// container rather than a linked list.
package tree

import (
	"bytes"
	"sort"

	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/hash"
)

// Mode is the tree-entry permission/type tag.
type Mode string

const (
	ModeRegular    Mode = "100644"
	ModeExecutable Mode = "100755"
	ModeTree       Mode = "040000"
)

// Kind is derived from Mode: ModeTree is a subtree, anything else a blob.
type Kind int

const (
	KindBlob Kind = iota
	KindSubtree
)

func kindOf(mode Mode) Kind {
	if mode == ModeTree {
		return KindSubtree
	}
	return KindBlob
}

// Entry is one directory-entry record: a name, its mode, the hash of the
// object it names, and that object's derived kind.
type Entry struct {
	Mode Mode
	Name string
	Hash hash.Hash
	Kind Kind
}

// Tree is an ordered, unique-by-name sequence of entries (§3 invariant I2).
// The zero value is an empty tree.
type Tree struct {
	entries []Entry
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// Entries returns the entries in their stored (sorted-by-name) order. The
// caller must not mutate the returned slice.
func (t *Tree) Entries() []Entry {
	return t.entries
}

// Len reports the number of entries.
func (t *Tree) Len() int { return len(t.entries) }

// Insert adds an entry, keeping the sequence sorted by Name (§4.5,
// "entries MUST be inserted in sorted order"). Duplicate names are
// rejected with InvalidTree (§3 I2).
func (t *Tree) Insert(mode Mode, name string, h hash.Hash) error {
	idx := sort.Search(len(t.entries), func(i int) bool {
		return t.entries[i].Name >= name
	})
	if idx < len(t.entries) && t.entries[idx].Name == name {
		return gnerrors.New(gnerrors.InvalidTree, name)
	}
	entry := Entry{Mode: mode, Name: name, Hash: h, Kind: kindOf(mode)}
	t.entries = append(t.entries, Entry{})
	copy(t.entries[idx+1:], t.entries[idx:])
	t.entries[idx] = entry
	return nil
}

// Find does a linear scan for name (lists are small per §4.5).
func (t *Tree) Find(name string) (Entry, bool) {
	for _, e := range t.entries {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Serialize emits the binary tree payload: entries in stored order, each
// as "mode SP name NUL hash-20-binary".
func (t *Tree) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	seen := make(map[string]struct{}, len(t.entries))
	prev := ""
	for i, e := range t.entries {
		if _, dup := seen[e.Name]; dup {
			return nil, gnerrors.New(gnerrors.InvalidTree, e.Name)
		}
		seen[e.Name] = struct{}{}
		if i > 0 && e.Name < prev {
			return nil, gnerrors.New(gnerrors.InvalidTree, e.Name)
		}
		prev = e.Name

		buf.WriteString(string(e.Mode))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0x00)
		buf.Write(e.Hash[:])
	}
	return buf.Bytes(), nil
}

// Parse reads a tree payload produced by Serialize, reconstructing an
// ordered Tree. A truncated entry at any point is CorruptObject.
func Parse(payload []byte) (*Tree, error) {
	t := New()
	i := 0
	for i < len(payload) {
		sp := bytes.IndexByte(payload[i:], ' ')
		if sp < 0 {
			return nil, gnerrors.New(gnerrors.CorruptObject, "truncated mode")
		}
		mode := Mode(payload[i : i+sp])
		i += sp + 1

		nul := bytes.IndexByte(payload[i:], 0x00)
		if nul < 0 {
			return nil, gnerrors.New(gnerrors.CorruptObject, "truncated name")
		}
		name := string(payload[i : i+nul])
		i += nul + 1

		if i+hash.Size > len(payload) {
			return nil, gnerrors.New(gnerrors.CorruptObject, "truncated hash")
		}
		var h hash.Hash
		copy(h[:], payload[i:i+hash.Size])
		i += hash.Size

		t.entries = append(t.entries, Entry{Mode: mode, Name: name, Hash: h, Kind: kindOf(mode)})
	}
	return t, nil
}
