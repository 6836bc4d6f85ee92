// Package store provides an in-memory vector index searched by
// brute-force cosine similarity. Sessions are small (a handful of
// chunks), so a linear scan is sufficient.
package store

import (
	"errors"
	"math"
	"sort"
	"sync"

	"docqa/internal/model"
)

// Index holds one document's chunks and their embedding vectors in
// parallel slices.
type Index struct {
	mu        sync.RWMutex
	dimension int
	chunks    []model.Chunk
	vectors   [][]float32
}

// NewIndex creates an empty index.
func NewIndex() *Index { return &Index{} }

// Init resets the index for vectors of the given dimension.
func (s *Index) Init(dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.chunks = nil
	s.vectors = nil
	return nil
}

// Upsert appends chunks with their vectors. Lengths must match and every
// vector must have the index dimension.
func (s *Index) Upsert(chunks []model.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return errors.New("chunks and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
	}
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Len returns the number of indexed chunks.
func (s *Index) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Chunks returns a copy of the indexed chunks in document order.
func (s *Index) Chunks() []model.Chunk {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Chunk, len(s.chunks))
	copy(out, s.chunks)
	return out
}

// Search returns the topK chunks most similar to vector, by descending
// cosine similarity with ties broken by original chunk order.
func (s *Index) Search(vector []float32, topK int) ([]model.ScoredChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if topK <= 0 {
		topK = 5
	}
	if len(vector) != s.dimension {
		return nil, errors.New("query vector dimension mismatch")
	}

	results := make([]model.ScoredChunk, len(s.chunks))
	for i := range s.vectors {
		results[i] = model.ScoredChunk{
			Chunk: s.chunks[i],
			Score: cosine(s.vectors[i], vector),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Index < results[j].Chunk.Index
	})
	if topK > len(results) {
		topK = len(results)
	}
	return results[:topK], nil
}

// Clear drops all chunks and vectors but keeps the dimension.
func (s *Index) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = nil
	s.vectors = nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		na += av * av
		nb += bv * bv
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
