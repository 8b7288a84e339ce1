// Package chunker splits extracted document text into overlapping,
// bounded-size segments for embedding and retrieval.
package chunker

import "fmt"

// Chunker produces fixed-size character windows with a fixed overlap.
// Windows advance by size-overlap runes, so dropping the first overlap
// runes of every chunk after the first reconstructs the source exactly.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker. overlap must be non-negative and strictly
// smaller than size.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d for size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Size returns the target chunk size in runes.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the number of runes shared by consecutive chunks.
func (c *Chunker) Overlap() int { return c.overlap }

// Split returns the ordered chunks of text. Text shorter than the chunk
// size yields exactly one chunk; empty text yields none.
func (c *Chunker) Split(text string) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.size - c.overlap
	var chunks []string
	for start := 0; ; start += step {
		end := start + c.size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			return chunks
		}
		chunks = append(chunks, string(runes[start:end]))
	}
}
