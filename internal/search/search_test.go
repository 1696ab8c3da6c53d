package search_test

import (
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/scour/internal/rope"
	"github.com/standardbeagle/scour/internal/search"
)

var _ search.Buffer = (*rope.Rope)(nil)

func searchAll(t *testing.T, query *search.SearchQuery, buf search.Buffer) []search.Range {
	t.Helper()
	matches, err := query.Search(context.Background(), buf, nil)
	require.NoError(t, err)
	return matches
}

func TestSearchEmptyQuery(t *testing.T) {
	query := search.NewText("", false, true, nil, nil)
	assert.Empty(t, searchAll(t, query, rope.New("any content\nat all")))
}

func TestSearchLiteralSingleOccurrence(t *testing.T) {
	tests := []struct {
		text  string
		query string
	}{
		{"the quick brown fox", "quick"},
		{"needle", "needle"},
		{"prefix needle", "needle"},
		{"needle suffix", "needle"},
		{"multi\nline\nneedle\nhere", "needle"},
		{"unicode héllo wörld", "wörld"},
	}
	for _, tt := range tests {
		query := search.NewText(tt.query, false, true, nil, nil)
		i := strings.Index(tt.text, tt.query)
		require.GreaterOrEqual(t, i, 0)

		matches := searchAll(t, query, rope.FromChunks(tt.text))
		assert.Equal(t, []search.Range{{Start: i, End: i + len(tt.query)}}, matches,
			"query %q in %q", tt.query, tt.text)
	}
}

func TestSearchLiteralMultipleOccurrences(t *testing.T) {
	query := search.NewText("ab", false, true, nil, nil)
	matches := searchAll(t, query, rope.New("ab xx ab xx ab"))
	assert.Equal(t, []search.Range{{Start: 0, End: 2}, {Start: 6, End: 8}, {Start: 12, End: 14}}, matches)
}

// A pattern that can overlap itself must still produce the leftmost
// non-overlapping ranges, and chunk splits must not change them.
func TestSearchLiteralSelfOverlappingPattern(t *testing.T) {
	query := search.NewText("aa", false, true, nil, nil)

	want := []search.Range{{Start: 0, End: 2}, {Start: 2, End: 4}}
	for _, buf := range []*rope.Rope{
		rope.FromChunks("aaaa"),
		rope.FromChunks("a", "aaa"),
		rope.FromChunks("aa", "aa"),
		rope.FromChunks("aaa", "a"),
		rope.FromChunks("a", "a", "a", "a"),
	} {
		assert.Equal(t, want, searchAll(t, query, buf),
			"chunks should not affect matching in %q", buf.String())
	}

	assert.Equal(t, []search.Range{{Start: 0, End: 2}, {Start: 2, End: 4}, {Start: 5, End: 7}},
		searchAll(t, query, rope.FromChunks("aaa", "a aaa")))
}

func TestSearchLiteralAcrossChunkBoundary(t *testing.T) {
	query := search.NewText("cat", false, true, nil, nil)

	for _, buf := range []*rope.Rope{
		rope.FromChunks("ca", "t"),
		rope.FromChunks("c", "a", "t"),
		rope.FromChunks("xc", "at y"),
	} {
		matches := searchAll(t, query, buf)
		i := strings.Index(buf.String(), "cat")
		assert.Equal(t, []search.Range{{Start: i, End: i + 3}}, matches,
			"chunks should not affect matching in %q", buf.String())
	}
}

func TestSearchLiteralCaseInsensitive(t *testing.T) {
	query := search.NewText("HELLO", false, false, nil, nil)
	matches := searchAll(t, query, rope.FromChunks("say hel", "lo twice: hello"))
	assert.Equal(t, []search.Range{{Start: 4, End: 9}, {Start: 17, End: 22}}, matches)
}

func TestSearchWholeWordLiteral(t *testing.T) {
	query := search.NewText("cat", true, true, nil, nil)
	matches := searchAll(t, query, rope.New("cat catalog cat"))
	assert.Equal(t, []search.Range{{Start: 0, End: 3}, {Start: 12, End: 15}}, matches,
		"the cat inside catalog is not cleanly bounded")
}

func TestSearchWholeWordClassification(t *testing.T) {
	// Boundaries are three-way (word, punctuation, whitespace), not just
	// word/non-word: a punctuation match flanked by punctuation is rejected.
	query := search.NewText("-", true, true, nil, nil)

	matches := searchAll(t, query, rope.New("a-b"))
	assert.Equal(t, []search.Range{{Start: 1, End: 2}}, matches)

	matches = searchAll(t, query, rope.New("a--b"))
	assert.Empty(t, matches, "either side of each dash touches another dash")
}

func TestSearchWholeWordAtBufferEdges(t *testing.T) {
	query := search.NewText("cat", true, true, nil, nil)

	assert.Equal(t, []search.Range{{Start: 0, End: 3}},
		searchAll(t, query, rope.New("cat")), "buffer edges count as boundaries")
	assert.Empty(t, searchAll(t, query, rope.New("cats")))
	assert.Empty(t, searchAll(t, query, rope.New("scat")))
}

func TestSearchRegexSingleLineOffsets(t *testing.T) {
	text := "fn alpha()\nlet x = 1;\nfn beta()\n"
	query, err := search.NewRegex(`fn \w+`, false, true, nil, nil)
	require.NoError(t, err)

	matches := searchAll(t, query, rope.New(text))
	assert.Equal(t, []search.Range{{Start: 0, End: 8}, {Start: 22, End: 29}}, matches)
}

func TestSearchRegexSingleLineChunkInvariance(t *testing.T) {
	text := "alpha beta\ngamma alpha delta\nalpha\nno match here\nalpha end"
	query, err := search.NewRegex(`alpha\w*`, false, true, nil, nil)
	require.NoError(t, err)

	reference := searchAll(t, query, rope.FromChunks(text))
	require.NotEmpty(t, reference)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 100; trial++ {
		var chunks []string
		rest := text
		for len(rest) > 0 {
			n := rng.Intn(len(rest)) + 1
			chunks = append(chunks, rest[:n])
			rest = rest[n:]
		}
		buf := rope.FromChunks(chunks...)
		assert.Equal(t, reference, searchAll(t, query, buf),
			"splits %q changed the matches", chunks)
	}
}

func TestSearchRegexMultiline(t *testing.T) {
	text := "start\nfoo\nbar\nmiddle\nfoo\nbar\nend"
	query, err := search.NewRegex("foo\nbar", false, true, nil, nil)
	require.NoError(t, err)
	require.True(t, query.Multiline())

	var want []search.Range
	for i := 0; ; {
		j := strings.Index(text[i:], "foo\nbar")
		if j < 0 {
			break
		}
		want = append(want, search.Range{Start: i + j, End: i + j + len("foo\nbar")})
		i += j + len("foo\nbar")
	}
	assert.Equal(t, want, searchAll(t, query, rope.New(text)))
}

func TestSearchRegexMultilineDotSpansLines(t *testing.T) {
	query, err := search.NewRegex("begin.*end\n", false, true, nil, nil)
	require.NoError(t, err)
	require.True(t, query.Multiline())

	matches := searchAll(t, query, rope.New("begin\nmiddle\nend\n"))
	assert.Equal(t, []search.Range{{Start: 0, End: 17}}, matches)
}

func TestSearchResultsOrderedAndNonOverlapping(t *testing.T) {
	query := search.NewText("aa", false, true, nil, nil)
	matches := searchAll(t, query, rope.New("aaaa aaa"))

	assert.Equal(t, []search.Range{{Start: 0, End: 2}, {Start: 2, End: 4}, {Start: 5, End: 7}}, matches)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i].Start, matches[i-1].End,
			"matches must be ordered and non-overlapping: %v", matches)
	}
}

type countingYielder struct {
	calls int
	err   error
}

func (y *countingYielder) Yield(ctx context.Context) error {
	y.calls++
	return y.err
}

func TestSearchYieldsDuringLiteralScan(t *testing.T) {
	// 20000 match candidates trigger exactly one suspension point.
	text := strings.Repeat("a ", 20000)
	query := search.NewText("a", false, true, nil, nil)

	yielder := &countingYielder{}
	matches, err := query.Search(context.Background(), rope.New(text), yielder)
	require.NoError(t, err)
	assert.Len(t, matches, 20000)
	assert.Equal(t, 1, yielder.calls)

	yielder = &countingYielder{}
	matches, err = query.Search(context.Background(), rope.New(strings.Repeat("a ", 19999)), yielder)
	require.NoError(t, err)
	assert.Len(t, matches, 19999)
	assert.Equal(t, 0, yielder.calls, "below the interval no yield happens")
}

func TestSearchYieldErrorAbortsScan(t *testing.T) {
	text := strings.Repeat("a ", 20000)
	query := search.NewText("a", false, true, nil, nil)

	yielder := &countingYielder{err: context.Canceled}
	_, err := query.Search(context.Background(), rope.New(text), yielder)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchNilYielderChecksContext(t *testing.T) {
	text := strings.Repeat("a ", 20000)
	query := search.NewText("a", false, true, nil, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := query.Search(ctx, rope.New(text), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
