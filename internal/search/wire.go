package search

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/scour/internal/wire"
)

// FromWire compiles a query from an incoming search request. Malformed globs
// and regex patterns are rejected here, before any matching begins, with the
// offending input named in the error.
func FromWire(message wire.SearchProject) (*SearchQuery, error) {
	filesToInclude, err := deserializePathMatchers(message.FilesToInclude)
	if err != nil {
		return nil, err
	}
	filesToExclude, err := deserializePathMatchers(message.FilesToExclude)
	if err != nil {
		return nil, err
	}
	if message.Regex {
		return NewRegex(message.Query, message.WholeWord, message.CaseSensitive, filesToInclude, filesToExclude)
	}
	return NewText(message.Query, message.WholeWord, message.CaseSensitive, filesToInclude, filesToExclude), nil
}

// ToWire serializes the query for transmission. projectID is an opaque
// routing identifier passed through unchanged. The include/exclude sets are
// comma-joined; combined with the trim/drop-empty rules in FromWire this
// round-trips every query whose patterns contain no commas.
func (q *SearchQuery) ToWire(projectID uint64) wire.SearchProject {
	return wire.SearchProject{
		ProjectID:      projectID,
		Query:          q.inner.query,
		Regex:          q.IsRegex(),
		WholeWord:      q.wholeWord,
		CaseSensitive:  q.caseSensitive,
		FilesToInclude: joinPathMatchers(q.inner.filesToInclude),
		FilesToExclude: joinPathMatchers(q.inner.filesToExclude),
	}
}

func joinPathMatchers(matchers []PathMatcher) string {
	patterns := make([]string, len(matchers))
	for i, m := range matchers {
		patterns[i] = m.String()
	}
	return strings.Join(patterns, ",")
}

func deserializePathMatchers(globSet string) ([]PathMatcher, error) {
	var matchers []PathMatcher
	for _, segment := range strings.Split(globSet, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		matcher, err := NewPathMatcher(segment)
		if err != nil {
			return nil, fmt.Errorf("deserializing path match glob %q: %w", segment, err)
		}
		matchers = append(matchers, matcher)
	}
	return matchers, nil
}
