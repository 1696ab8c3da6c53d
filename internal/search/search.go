package search

import (
	"context"
	"strings"
)

// Search returns the ordered, non-overlapping byte ranges of every match in
// the buffer. It is a cooperatively-suspending operation: every yieldInterval
// match candidates (literal mode) or chunks (regex mode) it calls yield so a
// large document cannot starve the caller's scheduler. A nil yield degrades
// to a plain context-cancellation check. The scan holds no locks and mutates
// no shared state, so suspending is always safe; cancelling the context is
// the only way to abandon a scan early.
func (q *SearchQuery) Search(ctx context.Context, buf Buffer, yield Yielder) ([]Range, error) {
	if yield == nil {
		yield = YielderFunc(func(ctx context.Context) error {
			return ctx.Err()
		})
	}
	if q.inner.query == "" {
		return nil, nil
	}
	if q.kind == kindText {
		return q.searchText(ctx, buf, yield)
	}
	if q.multiline {
		return q.searchRegexMultiline(ctx, buf, yield)
	}
	return q.searchRegexByLine(ctx, buf, yield)
}

func (q *SearchQuery) searchText(ctx context.Context, buf Buffer, yield Yielder) ([]Range, error) {
	var (
		matches    []Range
		candidates int
		yieldErr   error
	)
	scanner := newLiteralScanner(q.automaton, len(q.inner.query))
	next := buf.Chunks(0, buf.Len())
	for {
		chunk, ok := next()
		if !ok {
			break
		}
		scanner.feed([]byte(chunk), func(start, end int) bool {
			candidates++
			if candidates%yieldInterval == 0 {
				if err := yield.Yield(ctx); err != nil {
					yieldErr = err
					return false
				}
			}
			if q.wholeWord && !q.isWordBounded(buf, start, end) {
				return true
			}
			matches = append(matches, Range{Start: start, End: end})
			return true
		})
		if yieldErr != nil {
			return nil, yieldErr
		}
	}
	return matches, nil
}

// isWordBounded rejects raw literal matches that are not cleanly bounded:
// the character just outside each edge must differ in kind (word,
// punctuation, whitespace) from the character just inside it. Buffer edges
// count as boundaries.
func (q *SearchQuery) isWordBounded(buf Buffer, start, end int) bool {
	startKind, ok := kindAfter(buf, start)
	if !ok {
		// Match positions come from the buffer itself; an empty match
		// region is a programming error upstream.
		panic("search: match start beyond buffer end")
	}
	endKind, ok := kindBefore(buf, end)
	if !ok {
		panic("search: match end before buffer start")
	}
	if prevKind, ok := kindBefore(buf, start); ok && prevKind == startKind {
		return false
	}
	if nextKind, ok := kindAfter(buf, end); ok && nextKind == endKind {
		return false
	}
	return true
}

func (q *SearchQuery) searchRegexMultiline(ctx context.Context, buf Buffer, yield Yielder) ([]Range, error) {
	// Multiline semantics inherently need cross-chunk context, so this is
	// the one path that materializes the document.
	text := buf.String()
	var matches []Range
	for ix, loc := range q.regex.FindAllStringIndex(text, -1) {
		if (ix+1)%yieldInterval == 0 {
			if err := yield.Yield(ctx); err != nil {
				return nil, err
			}
		}
		matches = append(matches, Range{Start: loc[0], End: loc[1]})
	}
	return matches, nil
}

// searchRegexByLine scans chunk by chunk, accumulating characters between
// newlines and matching each completed line independently. The two-level
// loop exists because the buffer's natural unit (chunk) does not align with
// the regex engine's natural unit (line); match offsets are translated back
// to absolute positions by tracking the byte length of everything flushed so
// far. A synthetic trailing newline past the last chunk flushes the final
// line.
func (q *SearchQuery) searchRegexByLine(ctx context.Context, buf Buffer, yield Yielder) ([]Range, error) {
	var (
		matches    []Range
		line       []byte
		lineOffset int
		chunkIx    int
	)
	next := buf.Chunks(0, buf.Len())
	for {
		chunk, ok := next()
		if !ok {
			chunk = "\n"
		}
		if (chunkIx+1)%yieldInterval == 0 {
			if err := yield.Yield(ctx); err != nil {
				return nil, err
			}
		}
		chunkIx++

		for newlineIx, text := range strings.Split(chunk, "\n") {
			if newlineIx > 0 {
				for _, loc := range q.regex.FindAllIndex(line, -1) {
					matches = append(matches, Range{
						Start: lineOffset + loc[0],
						End:   lineOffset + loc[1],
					})
				}
				lineOffset += len(line) + 1
				line = line[:0]
			}
			line = append(line, text...)
		}

		if !ok {
			break
		}
	}
	return matches, nil
}
