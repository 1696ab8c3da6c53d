package search

import (
	"bufio"
	"io"
	"strings"
)

// detectBufSize is the read granularity for streaming literal detection.
const detectBufSize = 64 * 1024

// Detect reports whether the byte stream contains at least one match. It is
// the cheap pre-filter run over candidate files before any positions are
// collected, so it never materializes more than it has to: literal queries
// scan incrementally, single-line regex queries hold one line at a time, and
// only multiline regex queries buffer the whole stream (cross-line context
// requires it). An empty query never matches. Read errors are returned
// verbatim; retry policy belongs to the caller.
func (q *SearchQuery) Detect(stream io.Reader) (bool, error) {
	if q.inner.query == "" {
		return false, nil
	}
	if q.kind == kindText {
		return q.detectText(stream)
	}
	return q.detectRegex(stream)
}

func (q *SearchQuery) detectText(stream io.Reader) (bool, error) {
	scanner := newLiteralScanner(q.automaton, len(q.inner.query))
	buf := make([]byte, detectBufSize)
	found := false
	for {
		n, err := stream.Read(buf)
		if n > 0 {
			scanner.feed(buf[:n], func(start, end int) bool {
				found = true
				return false
			})
			if found {
				return true, nil
			}
		}
		if err == io.EOF {
			return false, nil
		}
		if err != nil {
			return false, err
		}
	}
}

func (q *SearchQuery) detectRegex(stream io.Reader) (bool, error) {
	if q.multiline {
		text, err := io.ReadAll(stream)
		if err != nil {
			return false, err
		}
		return q.regex.Match(text), nil
	}

	reader := bufio.NewReader(stream)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return false, err
		}
		if line != "" {
			trimmed := strings.TrimSuffix(line, "\n")
			trimmed = strings.TrimSuffix(trimmed, "\r")
			if q.regex.MatchString(trimmed) {
				return true, nil
			}
		}
		if err == io.EOF {
			return false, nil
		}
	}
}
