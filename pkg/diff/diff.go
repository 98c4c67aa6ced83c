// Package diff compares two versions of a text file line by line.
package diff

import (
	"fmt"
	"strings"
)

// Kind classifies a single record of a change report.
type Kind int

const (
	Changed Kind = iota // Line differs between the old and new text.
	Added               // Line exists only in the new text.
	Deleted             // Line exists only in the old text.
)

func (k Kind) String() string {
	switch k {
	case Changed:
		return "changed"
	case Added:
		return "added"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Record is one entry of a change report. Line is 1-based. Old is empty
// for Added records and New is empty for Deleted records.
type Record struct {
	Kind Kind
	Line int
	Old  string
	New  string
}

// Mode selects the algorithm used to build a change report.
type Mode string

const (
	// ModePaired compares line i of the old text with line i of the new
	// text. One inserted line shifts every later line into a mismatch.
	ModePaired Mode = "paired"
	// ModeMyers reports the shortest edit script between the two texts.
	ModeMyers Mode = "myers"
)

// ParseMode validates a mode name. The empty string selects ModePaired.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModePaired:
		return ModePaired, nil
	case ModeMyers:
		return ModeMyers, nil
	default:
		return "", fmt.Errorf("unknown diff mode %q (want %q or %q)", s, ModePaired, ModeMyers)
	}
}

// Compare builds the change report between oldText and newText.
func Compare(mode Mode, oldText, newText string) []Record {
	oldLines := SplitLines(oldText)
	newLines := SplitLines(newText)
	if mode == ModeMyers {
		return Myers(oldLines, newLines)
	}
	return Paired(oldLines, newLines)
}

// Paired walks both line slices in lockstep. Every index where they differ
// yields a Changed record; once the shorter side runs out, the rest of the
// longer side is reported as Added or Deleted at its own line number.
func Paired(oldLines, newLines []string) []Record {
	var out []Record
	common := min(len(oldLines), len(newLines))
	for i := 0; i < common; i++ {
		if oldLines[i] != newLines[i] {
			out = append(out, Record{Kind: Changed, Line: i + 1, Old: oldLines[i], New: newLines[i]})
		}
	}
	for i := common; i < len(newLines); i++ {
		out = append(out, Record{Kind: Added, Line: i + 1, New: newLines[i]})
	}
	for i := common; i < len(oldLines); i++ {
		out = append(out, Record{Kind: Deleted, Line: i + 1, Old: oldLines[i]})
	}
	return out
}

// SplitLines splits s into lines. A trailing newline does not produce an
// extra empty element and a trailing carriage return is dropped from each
// line.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
