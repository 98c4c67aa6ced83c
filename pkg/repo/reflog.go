package repo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/odvcencio/minivc/pkg/object"
)

// ReflogEntry is one recorded movement of a ref. An empty hash means the
// ref was unborn on that side of the update.
type ReflogEntry struct {
	Ref     string
	OldHash object.Hash
	NewHash object.Hash
	Time    time.Time
	Reason  string
}

const reflogNone = "-"

func (r *Repo) appendReflog(ref string, oldHash, newHash object.Hash, reason string) error {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil
	}
	reason = strings.Join(strings.Fields(reason), " ")
	if reason == "" {
		reason = "update"
	}

	logPath := filepath.Join(r.Dir, "logs", filepath.FromSlash(ref))
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("reflog mkdir: %w", err)
	}

	line := fmt.Sprintf("%s %s %d %s\n", reflogHash(oldHash), reflogHash(newHash), r.clock().Unix(), reason)

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("reflog open: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("reflog write: %w", err)
	}
	return nil
}

func reflogHash(h object.Hash) string {
	if strings.TrimSpace(string(h)) == "" {
		return reflogNone
	}
	return string(h)
}

// ReadReflog returns the recorded updates of ref, newest first. An empty
// ref or "HEAD" selects the active branch; "HEAD!" selects the log of HEAD
// itself (branch switches). A limit of zero or less returns everything.
func (r *Repo) ReadReflog(ref string, limit int) ([]ReflogEntry, error) {
	refName, err := r.reflogRefName(ref)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(filepath.Join(r.Dir, "logs", filepath.FromSlash(refName)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read reflog: %w", err)
	}
	defer f.Close()

	var entries []ReflogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.SplitN(strings.TrimSpace(scanner.Text()), " ", 4)
		if len(parts) < 4 {
			continue
		}
		ts, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			continue
		}
		entries = append(entries, ReflogEntry{
			Ref:     refName,
			OldHash: parseReflogHash(parts[0]),
			NewHash: parseReflogHash(parts[1]),
			Time:    time.Unix(ts, 0),
			Reason:  parts[3],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read reflog: %w", err)
	}

	slices.Reverse(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func parseReflogHash(s string) object.Hash {
	if s == reflogNone {
		return ""
	}
	return object.Hash(s)
}

func (r *Repo) reflogRefName(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "HEAD!":
		return "HEAD", nil
	case ref == "" || ref == "HEAD":
		return r.headBranchRef()
	case strings.HasPrefix(ref, "refs/"):
		return ref, nil
	default:
		return branchRef(ref), nil
	}
}
