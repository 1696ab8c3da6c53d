package search

import (
	stdpath "path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// PathMatcher answers membership queries for a single include/exclude entry.
// A path matches if the pattern, read as a literal path, is a prefix of it,
// or if the pattern matches it as a glob. The dual reading lets users type
// either a bare directory name or a full glob in the same field.
//
// Immutable after construction. The pattern string is validated once here;
// match-time glob errors cannot occur afterwards.
type PathMatcher struct {
	pattern string
}

// NewPathMatcher validates pattern and builds a matcher for it.
// Returns a *GlobError if the glob syntax is malformed.
func NewPathMatcher(pattern string) (PathMatcher, error) {
	if !doublestar.ValidatePattern(pattern) {
		return PathMatcher{}, &GlobError{Pattern: pattern, Underlying: doublestar.ErrBadPattern}
	}
	return PathMatcher{pattern: pattern}, nil
}

// IsMatch reports whether path matches this entry. Beyond the literal-prefix
// reading, the glob reading follows gitignore conventions: a pattern without
// a separator matches against the path's base name only, and a pattern with
// one that matches a parent directory subsumes everything inside it
// ("target/*" covers "target/debug/x.rs").
func (m PathMatcher) IsMatch(path string) bool {
	if hasPathPrefix(path, m.pattern) {
		return true
	}
	// Pattern was validated at construction (doublestar compiles internally).
	if matched, _ := doublestar.Match(m.pattern, path); matched {
		return true
	}
	if !strings.Contains(m.pattern, "/") {
		// Separator-free patterns match the base name and nothing else:
		// "*.rs" must not capture "foo.rs/bar.txt".
		matched, _ := doublestar.Match(m.pattern, stdpath.Base(path))
		return matched
	}
	for parent := path; ; {
		i := strings.LastIndexByte(parent, '/')
		if i < 0 {
			return false
		}
		parent = parent[:i]
		if matched, _ := doublestar.Match(m.pattern, parent); matched {
			return true
		}
	}
}

// String returns the original pattern, used for wire serialization.
func (m PathMatcher) String() string {
	return m.pattern
}

// hasPathPrefix reports whether prefix is a whole-component prefix of path:
// "dir" prefixes "dir/file" but "di" does not.
func hasPathPrefix(path, prefix string) bool {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return true
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
