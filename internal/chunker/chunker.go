// Package chunker splits document text into overlapping word windows for
// retrieval indexing.
package chunker

import (
	"strings"

	"docqa/internal/model"
)

// DefaultSize is the default window size in words.
const DefaultSize = 220

// DefaultOverlap is the default number of words shared between
// consecutive chunks.
const DefaultOverlap = 40

// Chunker produces overlapping word-window chunks. The zero value is not
// usable; construct with New so the size/overlap guards apply.
type Chunker struct {
	size    int
	overlap int
}

// New creates a Chunker, falling back to defaults for non-positive size
// and clamping overlap below size.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 4
	}
	return &Chunker{size: size, overlap: overlap}
}

// Size returns the window size in words.
func (c *Chunker) Size() int { return c.size }

// Overlap returns the overlap in words.
func (c *Chunker) Overlap() int { return c.overlap }

// Split chunks text into windows of c.size words, each window starting
// c.size-c.overlap words after the previous one. Text shorter than one
// window yields a single chunk. Deterministic for a given input.
func (c *Chunker) Split(docID, text string) []model.Chunk {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	step := c.size - c.overlap
	var out []model.Chunk
	for i := 0; i < len(words); i += step {
		end := i + c.size
		if end > len(words) {
			end = len(words)
		}
		out = append(out, model.Chunk{
			DocID: docID,
			Index: len(out),
			Text:  strings.Join(words[i:end], " "),
		})
		if end == len(words) {
			break
		}
	}
	return out
}
