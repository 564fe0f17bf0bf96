// Package chunker splits raw document text into fixed-size overlapping
// windows for independent embedding. The splitter is byte-offset based
// and has no sentence or paragraph awareness.
package chunker

import "fmt"

// Chunker produces overlapping windows of at most Size bytes, each
// window starting Size-Overlap bytes after its predecessor.
type Chunker struct {
	size    int
	overlap int
}

// New validates the window parameters: size must be positive and
// overlap must satisfy 0 <= overlap < size.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap must be in [0, size), got %d with size %d", overlap, size)
	}
	return &Chunker{size: size, overlap: overlap}, nil
}

// Split returns the ordered sequence of windows covering text. The
// first chunk is text[0:size], each subsequent start advances by
// size-overlap, and the final chunk may be shorter. Empty input yields
// no chunks.
func (c *Chunker) Split(text string) []string {
	if text == "" {
		return nil
	}

	step := c.size - c.overlap
	var chunks []string
	for start := 0; start < len(text); start += step {
		end := start + c.size
		if end > len(text) {
			end = len(text)
		}
		chunks = append(chunks, text[start:end])
	}
	return chunks
}
