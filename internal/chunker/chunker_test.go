package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("rejects non-positive size", func(t *testing.T) {
		_, err := New(0, 0)
		assert.Error(t, err)
	})

	t.Run("rejects overlap >= size", func(t *testing.T) {
		_, err := New(100, 100)
		assert.Error(t, err)
		_, err = New(100, 150)
		assert.Error(t, err)
	})

	t.Run("rejects negative overlap", func(t *testing.T) {
		_, err := New(100, -1)
		assert.Error(t, err)
	})
}

// Removing the leading overlap from every chunk after the first must
// reconstruct the source text exactly, for any size/overlap pair.
func TestSplit_Reconstruction(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 200)

	cases := []struct {
		name    string
		size    int
		overlap int
	}{
		{"defaults", 2000, 400},
		{"small windows", 50, 10},
		{"no overlap", 64, 0},
		{"heavy overlap", 100, 99},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := New(tc.size, tc.overlap)
			require.NoError(t, err)

			chunks := c.Split(text)
			require.NotEmpty(t, chunks)

			var b strings.Builder
			for i, chunk := range chunks {
				runes := []rune(chunk)
				if i == 0 {
					b.WriteString(chunk)
					continue
				}
				require.GreaterOrEqual(t, len(runes), tc.overlap)
				b.WriteString(string(runes[tc.overlap:]))
			}
			assert.Equal(t, text, b.String())
		})
	}
}

func TestSplit_ShortTextYieldsOneChunk(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	chunks := c.Split("short text")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short text", chunks[0])
}

func TestSplit_EmptyTextYieldsNothing(t *testing.T) {
	c, err := New(1000, 200)
	require.NoError(t, err)

	assert.Empty(t, c.Split(""))
}

func TestSplit_ConsecutiveChunksShareOverlap(t *testing.T) {
	c, err := New(20, 5)
	require.NoError(t, err)

	text := strings.Repeat("abcdefghij", 10)
	chunks := c.Split(text)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1])
		cur := []rune(chunks[i])
		tail := string(prev[len(prev)-5:])
		head := string(cur[:5])
		assert.Equal(t, tail, head, "chunks %d and %d should share %d runes", i-1, i, 5)
	}
}

func TestSplit_ChunkSizesBounded(t *testing.T) {
	c, err := New(128, 32)
	require.NoError(t, err)

	chunks := c.Split(strings.Repeat("x", 1000))
	for i, chunk := range chunks {
		if i < len(chunks)-1 {
			assert.Len(t, chunk, 128)
		} else {
			assert.LessOrEqual(t, len(chunk), 128)
		}
	}
}

func TestSplit_MultibyteRunesNotBroken(t *testing.T) {
	c, err := New(10, 2)
	require.NoError(t, err)

	text := strings.Repeat("日本語テキスト処理", 8)
	chunks := c.Split(text)
	for _, chunk := range chunks {
		assert.True(t, strings.ContainsRune("日本語テキスト処理", []rune(chunk)[0]))
	}
}
