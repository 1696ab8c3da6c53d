// Package rope provides a chunked text buffer satisfying the iteration
// contract the search engine requires: byte-offset-stable chunk iteration
// over a range, forward and backward character iteration from arbitrary
// offsets, and full materialization. The text is immutable once built;
// chunk boundaries are fixed at construction and never realign, which is
// what makes it useful for exercising boundary-sensitive scan code.
package rope

import "unicode/utf8"

// DefaultChunkSize is the target chunk length used by New. Small enough that
// ordinary documents span several chunks.
const DefaultChunkSize = 64

// Rope is a sequence of non-contiguous text chunks. Offsets in its API are
// byte offsets into the logical document.
type Rope struct {
	text   string
	bounds []int // chunk start offsets, ascending, first is 0
}

// New splits text into chunks of roughly DefaultChunkSize bytes.
func New(text string) *Rope {
	return WithChunkSize(text, DefaultChunkSize)
}

// WithChunkSize splits text into chunks of roughly size bytes, never
// splitting inside a UTF-8 sequence.
func WithChunkSize(text string, size int) *Rope {
	if size <= 0 {
		size = DefaultChunkSize
	}
	r := &Rope{text: text}
	for off := 0; off < len(text); {
		r.bounds = append(r.bounds, off)
		next := off + size
		if next >= len(text) {
			break
		}
		for next > off && !utf8.RuneStart(text[next]) {
			next--
		}
		if next == off {
			next = off + size // malformed UTF-8 run, split anyway
		}
		off = next
	}
	return r
}

// FromChunks builds a rope with exactly the given chunk boundaries. Tests use
// this to pin down where the splits fall. Empty chunks are dropped.
func FromChunks(chunks ...string) *Rope {
	r := &Rope{}
	off := 0
	for _, chunk := range chunks {
		if chunk == "" {
			continue
		}
		r.bounds = append(r.bounds, off)
		r.text += chunk
		off += len(chunk)
	}
	return r
}

// Len returns the total length in bytes.
func (r *Rope) Len() int {
	return len(r.text)
}

// String materializes the whole document.
func (r *Rope) String() string {
	return r.text
}

// NumChunks returns how many chunks back the rope.
func (r *Rope) NumChunks() int {
	return len(r.bounds)
}

// chunkEnd returns the byte offset one past chunk i.
func (r *Rope) chunkEnd(i int) int {
	if i+1 < len(r.bounds) {
		return r.bounds[i+1]
	}
	return len(r.text)
}

// Chunks returns a pull iterator over the text covering [start, end), in
// storage order. The first and last chunks are clipped to the range.
func (r *Rope) Chunks(start, end int) func() (string, bool) {
	if start < 0 {
		start = 0
	}
	if end > len(r.text) {
		end = len(r.text)
	}
	index := 0
	for index < len(r.bounds) && r.chunkEnd(index) <= start {
		index++
	}
	return func() (string, bool) {
		if index >= len(r.bounds) {
			return "", false
		}
		lo := r.bounds[index]
		hi := r.chunkEnd(index)
		if lo < start {
			lo = start
		}
		if hi > end {
			hi = end
		}
		if lo >= hi {
			return "", false
		}
		index++
		return r.text[lo:hi], true
	}
}

// CharsFrom returns a pull iterator over characters starting at offset and
// moving forward.
func (r *Rope) CharsFrom(offset int) func() (rune, bool) {
	if offset < 0 {
		offset = 0
	}
	return func() (rune, bool) {
		if offset >= len(r.text) {
			return 0, false
		}
		c, size := utf8.DecodeRuneInString(r.text[offset:])
		offset += size
		return c, true
	}
}

// CharsBefore returns a pull iterator over characters moving backward from
// offset: the first call yields the character immediately preceding offset.
func (r *Rope) CharsBefore(offset int) func() (rune, bool) {
	if offset > len(r.text) {
		offset = len(r.text)
	}
	return func() (rune, bool) {
		if offset <= 0 {
			return 0, false
		}
		c, size := utf8.DecodeLastRuneInString(r.text[:offset])
		offset -= size
		return c, true
	}
}
