package object

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob to raw bytes (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes raw bytes into a Blob.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// TreeObj
// ---------------------------------------------------------------------------

// MarshalTree serializes a TreeObj. Entries are sorted by Name for
// deterministic output. Each entry is one line:
//
//	blob <hash> <name>
//	tree <hash> <name>
func MarshalTree(tr *TreeObj) []byte {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		kind := TypeBlob
		if e.IsDir {
			kind = TypeTree
		}
		fmt.Fprintf(&buf, "%s %s %s\n", kind, e.Hash, e.Name)
	}
	return buf.Bytes()
}

// UnmarshalTree parses a TreeObj from its serialized form.
func UnmarshalTree(data []byte) (*TreeObj, error) {
	tr := &TreeObj{}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return tr, nil
	}
	for _, line := range strings.Split(text, "\n") {
		parts := strings.SplitN(line, " ", 3)
		if len(parts) != 3 || parts[2] == "" {
			return nil, fmt.Errorf("unmarshal tree: malformed entry %q", line)
		}
		var isDir bool
		switch ObjectType(parts[0]) {
		case TypeBlob:
		case TypeTree:
			isDir = true
		default:
			return nil, fmt.Errorf("unmarshal tree: unknown entry kind %q", parts[0])
		}
		tr.Entries = append(tr.Entries, TreeEntry{
			Name:  parts[2],
			IsDir: isDir,
			Hash:  Hash(parts[1]),
		})
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// CommitObj
// ---------------------------------------------------------------------------

// MarshalCommit serializes a CommitObj:
//
//	tree H
//	parent P        (P empty for a root commit)
//	message M
//	timestamp T     (RFC 3339, UTC)
//	signature S     (optional)
//
// There is no trailing newline.
func MarshalCommit(c *CommitObj) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	fmt.Fprintf(&buf, "parent %s\n", c.Parent)
	fmt.Fprintf(&buf, "message %s\n", c.Message)
	fmt.Fprintf(&buf, "timestamp %s", c.Timestamp.UTC().Format(time.RFC3339Nano))
	if strings.TrimSpace(c.Signature) != "" {
		fmt.Fprintf(&buf, "\nsignature %s", c.Signature)
	}
	return buf.Bytes()
}

// UnmarshalCommit parses a CommitObj from its serialized form. Messages may
// span several lines; the last "timestamp" line terminates the message.
func UnmarshalCommit(data []byte) (*CommitObj, error) {
	text := string(data)

	treeLine, rest, ok := strings.Cut(text, "\n")
	if !ok || !strings.HasPrefix(treeLine, "tree ") {
		return nil, fmt.Errorf("unmarshal commit: missing tree header")
	}
	parentLine, rest, ok := strings.Cut(rest, "\n")
	if !ok || !strings.HasPrefix(parentLine, "parent") {
		return nil, fmt.Errorf("unmarshal commit: missing parent header")
	}
	if !strings.HasPrefix(rest, "message ") {
		return nil, fmt.Errorf("unmarshal commit: missing message header")
	}

	tsIdx := strings.LastIndex(rest, "\ntimestamp ")
	if tsIdx < 0 {
		return nil, fmt.Errorf("unmarshal commit: missing timestamp header")
	}
	c := &CommitObj{
		TreeHash: Hash(strings.TrimPrefix(treeLine, "tree ")),
		Parent:   Hash(strings.TrimSpace(strings.TrimPrefix(parentLine, "parent"))),
		Message:  rest[len("message "):tsIdx],
	}

	tail := rest[tsIdx+1:]
	tsLine, sigLine, hasSig := strings.Cut(tail, "\n")
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimPrefix(tsLine, "timestamp "))
	if err != nil {
		return nil, fmt.Errorf("unmarshal commit: bad timestamp %q: %w", tsLine, err)
	}
	c.Timestamp = ts
	if hasSig {
		if !strings.HasPrefix(sigLine, "signature ") {
			return nil, fmt.Errorf("unmarshal commit: unknown trailer %q", sigLine)
		}
		c.Signature = strings.TrimPrefix(sigLine, "signature ")
	}
	return c, nil
}
