package repo

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// IgnoreFile is the name of the ignore-pattern file at the working-tree root.
const IgnoreFile = ".minivcignore"

// IgnoreChecker determines if a path should be ignored.
type IgnoreChecker struct {
	patterns []ignorePattern
}

type ignorePattern struct {
	pattern  string
	negated  bool
	dirOnly  bool
	hasSlash bool // pattern contains a slash, so match against full path
	regex    *regexp.Regexp
}

// NewIgnoreChecker creates an IgnoreChecker for the given repository root.
// It always ignores .minivc/ and .git/. If a .minivcignore file exists in
// repoRoot, its patterns are parsed and applied.
func NewIgnoreChecker(repoRoot string) *IgnoreChecker {
	ic := &IgnoreChecker{
		patterns: []ignorePattern{
			{pattern: DirName},
			{pattern: ".git"},
		},
	}

	f, err := os.Open(filepath.Join(repoRoot, IgnoreFile))
	if err == nil {
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if p := parseIgnoreLine(scanner.Text()); p != nil {
				ic.patterns = append(ic.patterns, *p)
			}
		}
	}
	return ic
}

// parseIgnoreLine parses a single line of an ignore file. Returns nil if
// the line is empty or a comment.
func parseIgnoreLine(line string) *ignorePattern {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	p := &ignorePattern{}
	if strings.HasPrefix(line, "!") {
		p.negated = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	// A leading slash anchors the pattern to the root.
	if strings.HasPrefix(line, "/") {
		line = strings.TrimLeft(line, "/")
		p.hasSlash = true
	}
	if line == "" {
		return nil
	}
	p.hasSlash = p.hasSlash || strings.Contains(line, "/")
	p.pattern = line
	if strings.Contains(line, "**") {
		if re, err := regexp.Compile(globToRegex(line)); err == nil {
			p.regex = re
		}
	}
	return p
}

// IsIgnored checks whether a slash-separated, repo-relative path should be
// ignored. A path is also ignored when one of its parent directories is.
// Last matching pattern wins (to support negation).
func (ic *IgnoreChecker) IsIgnored(relPath string, isDir bool) bool {
	relPath = strings.Trim(filepath.ToSlash(relPath), "/")
	if relPath == "" || relPath == "." {
		return false
	}

	ignored := false
	for _, p := range ic.patterns {
		if p.matches(relPath, isDir) {
			ignored = !p.negated
		}
	}
	return ignored
}

// matches checks the path and each of its parent directories.
func (p *ignorePattern) matches(relPath string, isDir bool) bool {
	for i := 0; i <= len(relPath); i++ {
		if i < len(relPath) && relPath[i] != '/' {
			continue
		}
		prefix := relPath[:i]
		prefixIsDir := i < len(relPath) || isDir
		if p.dirOnly && !prefixIsDir {
			continue
		}
		target := prefix
		if !p.hasSlash {
			target = path.Base(prefix)
		}
		if p.match(target) {
			return true
		}
	}
	return false
}

func (p *ignorePattern) match(target string) bool {
	if p.regex != nil {
		return p.regex.MatchString(target)
	}
	matched, _ := path.Match(p.pattern, target)
	return matched
}

func globToRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("^")
	for i := 0; i < len(pattern); i++ {
		ch := pattern[i]
		switch {
		case ch == '*' && i+2 < len(pattern) && pattern[i+1] == '*' && pattern[i+2] == '/':
			// Globstar directory segment: zero or more path segments.
			b.WriteString("(?:.*/)?")
			i += 2
		case ch == '*' && i+1 < len(pattern) && pattern[i+1] == '*':
			b.WriteString(".*")
			i++
		case ch == '*':
			b.WriteString("[^/]*")
		case ch == '?':
			b.WriteString("[^/]")
		default:
			b.WriteString(regexp.QuoteMeta(string(ch)))
		}
	}
	b.WriteString("$")
	return b.String()
}
