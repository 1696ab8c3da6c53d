// Package search implements the project-wide text search query engine: it
// compiles a literal or regex query plus include/exclude path filters into an
// immutable SearchQuery, answers "does this byte stream contain a match" for
// filesystem pre-filtering, and produces exact byte-offset match ranges
// against chunked in-memory buffers.
package search

import (
	"regexp"
	"strings"

	ahocorasick "github.com/petar-dambovaliev/aho-corasick"
)

// SearchInputs is the immutable bundle behind a compiled query: the original
// query string (pre whole-word wrapping, retained for display and wire
// round-trips) plus the ordered include/exclude path filters.
type SearchInputs struct {
	query          string
	filesToInclude []PathMatcher
	filesToExclude []PathMatcher
}

// String returns the raw query text as the user typed it.
func (in *SearchInputs) String() string {
	return in.query
}

// FilesToInclude returns the include filters in construction order.
func (in *SearchInputs) FilesToInclude() []PathMatcher {
	return in.filesToInclude
}

// FilesToExclude returns the exclude filters in construction order.
func (in *SearchInputs) FilesToExclude() []PathMatcher {
	return in.filesToExclude
}

type queryKind int

const (
	kindText queryKind = iota
	kindRegex
)

// SearchQuery is a compiled, ready-to-run matcher: either a literal-text
// automaton or a regular expression, plus the flags and filters shared by
// both variants. It is immutable once built and safe to share across
// concurrent Detect and Search calls.
type SearchQuery struct {
	kind queryKind

	// Text variant. The automaton is multi-pattern capable but always holds
	// exactly one pattern; nothing here relies on more.
	automaton ahocorasick.AhoCorasick

	// Regex variant.
	regex     *regexp.Regexp
	multiline bool

	wholeWord     bool
	caseSensitive bool
	inner         SearchInputs
}

// NewText compiles a literal-text query. It never fails: an empty query is
// legal and simply matches nothing. When caseSensitive is false the automaton
// folds ASCII case natively rather than pre-lowercasing input.
func NewText(query string, wholeWord, caseSensitive bool, filesToInclude, filesToExclude []PathMatcher) *SearchQuery {
	builder := ahocorasick.NewAhoCorasickBuilder(ahocorasick.Opts{
		AsciiCaseInsensitive: !caseSensitive,
		MatchKind:            ahocorasick.StandardMatch,
		DFA:                  true,
	})
	return &SearchQuery{
		kind:          kindText,
		automaton:     builder.Build([]string{query}),
		wholeWord:     wholeWord,
		caseSensitive: caseSensitive,
		inner: SearchInputs{
			query:          query,
			filesToInclude: filesToInclude,
			filesToExclude: filesToExclude,
		},
	}
}

// NewRegex compiles a regular expression query. If wholeWord is set the
// effective pattern is wrapped in word-boundary assertions before compiling;
// the unwrapped query is what Inner().String() keeps reporting. Multiline
// mode is derived from the effective pattern: it is enabled iff the pattern
// contains a literal newline or the \n escape, and switches the engine to
// line-anchored ^/$ with . matching newlines. Case-insensitivity uses the
// engine's native folding. Returns a *PatternError on bad syntax.
func NewRegex(query string, wholeWord, caseSensitive bool, filesToInclude, filesToExclude []PathMatcher) (*SearchQuery, error) {
	pattern := query
	if wholeWord {
		pattern = `\b` + pattern + `\b`
	}

	multiline := strings.Contains(pattern, "\n") || strings.Contains(pattern, `\n`)

	flags := ""
	if !caseSensitive {
		flags += "i"
	}
	if multiline {
		flags += "ms"
	}
	if flags != "" {
		pattern = "(?" + flags + ")" + pattern
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &PatternError{Pattern: query, Underlying: err}
	}
	return &SearchQuery{
		kind:          kindRegex,
		regex:         re,
		multiline:     multiline,
		wholeWord:     wholeWord,
		caseSensitive: caseSensitive,
		inner: SearchInputs{
			query:          query,
			filesToInclude: filesToInclude,
			filesToExclude: filesToExclude,
		},
	}, nil
}

// String returns the raw query text.
func (q *SearchQuery) String() string {
	return q.inner.query
}

// WholeWord reports whether matches must be bounded by word boundaries.
func (q *SearchQuery) WholeWord() bool {
	return q.wholeWord
}

// CaseSensitive reports whether matching distinguishes letter case.
func (q *SearchQuery) CaseSensitive() bool {
	return q.caseSensitive
}

// IsRegex reports whether this is the regex variant.
func (q *SearchQuery) IsRegex() bool {
	return q.kind == kindRegex
}

// Multiline reports whether the regex variant spans line boundaries.
// Always false for the text variant.
func (q *SearchQuery) Multiline() bool {
	return q.multiline
}

// Inner exposes the shared immutable inputs.
func (q *SearchQuery) Inner() *SearchInputs {
	return &q.inner
}

// FilesToInclude returns the include filters.
func (q *SearchQuery) FilesToInclude() []PathMatcher {
	return q.inner.filesToInclude
}

// FilesToExclude returns the exclude filters.
func (q *SearchQuery) FilesToExclude() []PathMatcher {
	return q.inner.filesToExclude
}

// FileMatches reports whether a candidate file participates in this search.
// An empty path means the buffer has no filesystem identity (e.g. an unsaved
// document): it is accepted only when no include filters exist, since a file
// without a path can never satisfy an explicit include. Exclude filters win
// over include filters.
func (q *SearchQuery) FileMatches(path string) bool {
	if path == "" {
		return len(q.inner.filesToInclude) == 0
	}
	for _, exclude := range q.inner.filesToExclude {
		if exclude.IsMatch(path) {
			return false
		}
	}
	if len(q.inner.filesToInclude) == 0 {
		return true
	}
	for _, include := range q.inner.filesToInclude {
		if include.IsMatch(path) {
			return true
		}
	}
	return false
}
