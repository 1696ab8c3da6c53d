package rope_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/scour/internal/rope"
)

func collect(next func() (string, bool)) []string {
	var chunks []string
	for {
		chunk, ok := next()
		if !ok {
			return chunks
		}
		chunks = append(chunks, chunk)
	}
}

func TestNewSplitsIntoChunks(t *testing.T) {
	text := strings.Repeat("0123456789", 20)
	r := rope.New(text)

	assert.Equal(t, len(text), r.Len())
	assert.Equal(t, text, r.String())
	assert.Greater(t, r.NumChunks(), 1, "200 bytes should span several chunks")

	assert.Equal(t, text, strings.Join(collect(r.Chunks(0, r.Len())), ""))
}

func TestFromChunksPreservesBoundaries(t *testing.T) {
	r := rope.FromChunks("ab", "cd", "ef")

	assert.Equal(t, 6, r.Len())
	assert.Equal(t, 3, r.NumChunks())
	assert.Equal(t, []string{"ab", "cd", "ef"}, collect(r.Chunks(0, 6)))
}

func TestFromChunksDropsEmpty(t *testing.T) {
	r := rope.FromChunks("ab", "", "cd")
	assert.Equal(t, 2, r.NumChunks())
	assert.Equal(t, "abcd", r.String())
}

func TestChunksClipsToRange(t *testing.T) {
	r := rope.FromChunks("abc", "def", "ghi")

	assert.Equal(t, []string{"bc", "def", "g"}, collect(r.Chunks(1, 7)))
	assert.Equal(t, []string{"e"}, collect(r.Chunks(4, 5)))
	assert.Empty(t, collect(r.Chunks(4, 4)))
	assert.Equal(t, []string{"abc", "def", "ghi"}, collect(r.Chunks(-5, 99)), "range is clamped")
}

func TestCharsFrom(t *testing.T) {
	r := rope.FromChunks("hél", "lo")

	next := r.CharsFrom(0)
	var runes []rune
	for {
		c, ok := next()
		if !ok {
			break
		}
		runes = append(runes, c)
	}
	assert.Equal(t, []rune("héllo"), runes)

	// Starting mid-text, after the two-byte é.
	c, ok := r.CharsFrom(3)()
	require.True(t, ok)
	assert.Equal(t, 'l', c)

	_, ok = r.CharsFrom(r.Len())()
	assert.False(t, ok)
}

func TestCharsBefore(t *testing.T) {
	r := rope.FromChunks("hél", "lo")

	next := r.CharsBefore(r.Len())
	var runes []rune
	for {
		c, ok := next()
		if !ok {
			break
		}
		runes = append(runes, c)
	}
	assert.Equal(t, []rune("olléh"), runes)

	_, ok := r.CharsBefore(0)()
	assert.False(t, ok)

	// The first yield is the character immediately preceding the offset.
	c, ok := r.CharsBefore(3)()
	require.True(t, ok)
	assert.Equal(t, 'é', c)
}

func TestWithChunkSizeRespectsRuneBoundaries(t *testing.T) {
	text := strings.Repeat("é", 10) // 2 bytes each
	r := rope.WithChunkSize(text, 3)

	for _, chunk := range collect(r.Chunks(0, r.Len())) {
		assert.True(t, utf8.ValidString(chunk), "chunks must not split runes: %q", chunk)
	}
	assert.Equal(t, text, r.String())
}
