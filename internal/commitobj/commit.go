// Package commitobj implements the commit object format: creation,
// parsing, and the small accessor surface of §4.7. Grounded on the
// teacher's internal/commit package (encodeCommit/parseCommit), adapted to
// the spec's single-parent, author+committer+blank-line+message layout.
package commitobj

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/VandeeFeng/GitNano/internal/gnerrors"
	"github.com/VandeeFeng/GitNano/internal/hash"
	"github.com/VandeeFeng/GitNano/internal/objstore"
)

// Commit is the parsed form of a commit object. Parent is nil for a root
// commit.
type Commit struct {
	Tree      hash.Hash
	Parent    *hash.Hash
	Author    string // "name <email>"
	Committer string
	Timestamp string // opaque token from the timestamp collaborator
	Message   string
}

// CreateParams bundles the inputs to Create; Author defaults to the
// identity collaborator's output when empty (handled by the caller, since
// this package does not know about identity/config).
type CreateParams struct {
	Tree      hash.Hash
	Parent    *hash.Hash
	Author    string
	Committer string
	Timestamp string
	Message   string
}

// Create serializes and stores a commit object, returning its hash.
// Message must be non-empty (InvalidArgument otherwise). The parent, if
// given, must already exist in store (§3 I3) — callers are expected to
// have resolved it there before calling Create.
func Create(store *objstore.Store, p CreateParams) (hash.Hash, error) {
	if strings.TrimSpace(p.Message) == "" {
		return hash.Hash{}, gnerrors.New(gnerrors.InvalidArgument, "empty commit message")
	}
	if p.Parent != nil {
		if _, _, err := store.Get(*p.Parent); err != nil {
			return hash.Hash{}, gnerrors.Wrap(gnerrors.InvalidArgument, p.Parent.String(), err)
		}
	}

	payload := encode(p)
	h, err := store.Put(objstore.KindCommit, payload)
	if err != nil {
		return hash.Hash{}, err
	}
	return h, nil
}

func encode(p CreateParams) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", p.Tree)
	if p.Parent != nil {
		fmt.Fprintf(&buf, "parent %s\n", p.Parent)
	}
	fmt.Fprintf(&buf, "author %s %s\n", p.Author, p.Timestamp)
	fmt.Fprintf(&buf, "committer %s %s\n", p.Committer, p.Timestamp)
	buf.WriteByte('\n')
	buf.WriteString(p.Message)
	if !strings.HasSuffix(p.Message, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Read fetches and parses the commit named by h.
func Read(store *objstore.Store, h hash.Hash) (*Commit, error) {
	kind, payload, err := store.Get(h)
	if err != nil {
		return nil, err
	}
	if kind != objstore.KindCommit {
		return nil, gnerrors.New(gnerrors.TypeMismatch, h.String())
	}
	return Parse(payload)
}

// Parse decodes commit object bytes into a Commit.
func Parse(payload []byte) (*Commit, error) {
	lines := bytes.Split(payload, []byte("\n"))
	c := &Commit{}
	sawTree := false

	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if len(line) == 0 {
			i++
			break
		}
		key, rest, ok := splitHeaderLine(line)
		if !ok {
			continue
		}
		switch key {
		case "tree":
			h, ok := hash.Parse(rest)
			if !ok {
				return nil, gnerrors.New(gnerrors.CorruptObject, "bad tree hash")
			}
			c.Tree = h
			sawTree = true
		case "parent":
			h, ok := hash.Parse(rest)
			if !ok {
				return nil, gnerrors.New(gnerrors.CorruptObject, "bad parent hash")
			}
			c.Parent = &h
		case "author":
			name, ts := splitAuthorLine(rest)
			c.Author = name
			c.Timestamp = ts
		case "committer":
			name, ts := splitAuthorLine(rest)
			c.Committer = name
			if c.Timestamp == "" {
				c.Timestamp = ts
			}
		}
	}

	if !sawTree {
		return nil, gnerrors.New(gnerrors.CorruptObject, "missing tree line")
	}

	message := bytes.Join(lines[i:], []byte("\n"))
	message = bytes.TrimRight(message, "\n")
	c.Message = string(message)

	return c, nil
}

func splitHeaderLine(line []byte) (key, rest string, ok bool) {
	sp := bytes.IndexByte(line, ' ')
	if sp < 0 {
		return "", "", false
	}
	return string(line[:sp]), string(line[sp+1:]), true
}

// splitAuthorLine splits "name <email> timestamp zone" into
// ("name <email>", "timestamp zone").
func splitAuthorLine(s string) (nameAndEmail, ts string) {
	gt := strings.LastIndex(s, ">")
	if gt < 0 || gt+1 >= len(s) {
		return s, ""
	}
	return s[:gt+1], strings.TrimSpace(s[gt+1:])
}

// TreeOf returns the commit's root tree hash.
func TreeOf(c *Commit) hash.Hash { return c.Tree }

// ParentOf returns the commit's parent, failing NoParent for a root commit.
func ParentOf(c *Commit) (hash.Hash, error) {
	if c.Parent == nil {
		return hash.Hash{}, gnerrors.New(gnerrors.NoParent, "")
	}
	return *c.Parent, nil
}

// Exists reports whether h names a commit-kind object in store.
func Exists(store *objstore.Store, h hash.Hash) bool {
	kind, ok := store.KindIfExists(h)
	return ok && kind == objstore.KindCommit
}
