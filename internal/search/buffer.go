package search

import (
	"context"
	"unicode"
)

// Range is a half-open byte-offset interval [Start, End) into a buffer.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Buffer is the view of a chunked text document the engine needs: documents
// are stored as non-contiguous chunks, so the engine never assumes it can
// index a flat string except through the explicit String escape hatch.
// All offsets are byte offsets into the logical document, stable across
// chunk boundaries.
// Each iteration method returns a pull function: call it repeatedly until the
// second result is false.
type Buffer interface {
	// Len returns the total length in bytes.
	Len() int
	// Chunks iterates the text covering byte offsets [start, end) in
	// storage order.
	Chunks(start, end int) func() (string, bool)
	// CharsFrom iterates characters forward starting at a byte offset.
	CharsFrom(offset int) func() (rune, bool)
	// CharsBefore iterates characters backward from a byte offset: the
	// first call yields the character immediately preceding offset.
	CharsBefore(offset int) func() (rune, bool)
	// String materializes the whole document.
	String() string
}

// Yielder is the cooperative-scheduling hook: Search calls Yield periodically
// so that scanning one very large document cannot starve other scheduled
// work. Yield may suspend the caller at the scheduler's discretion; a
// non-nil error aborts the scan and is returned from Search.
type Yielder interface {
	Yield(ctx context.Context) error
}

// YielderFunc adapts a plain function to the Yielder interface.
type YielderFunc func(ctx context.Context) error

// Yield implements Yielder.
func (f YielderFunc) Yield(ctx context.Context) error {
	return f(ctx)
}

// yieldInterval is how many match candidates (literal mode) or buffer chunks
// (regex mode) are processed between voluntary suspension points.
const yieldInterval = 20000

// charKind is the three-way classification used by whole-word filtering.
type charKind int

const (
	kindWhitespace charKind = iota
	kindPunctuation
	kindWord
)

func kindOf(r rune) charKind {
	switch {
	case unicode.IsSpace(r):
		return kindWhitespace
	case r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r):
		return kindWord
	default:
		return kindPunctuation
	}
}

// kindAfter classifies the first character at or after offset. The second
// return is false at end of buffer, which callers treat as a word boundary.
func kindAfter(buf Buffer, offset int) (charKind, bool) {
	r, ok := buf.CharsFrom(offset)()
	if !ok {
		return 0, false
	}
	return kindOf(r), true
}

// kindBefore classifies the character immediately before offset. The second
// return is false at the start of the buffer.
func kindBefore(buf Buffer, offset int) (charKind, bool) {
	r, ok := buf.CharsBefore(offset)()
	if !ok {
		return 0, false
	}
	return kindOf(r), true
}
