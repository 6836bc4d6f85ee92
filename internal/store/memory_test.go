package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/model"
)

func chunk(i int, text string) model.Chunk {
	return model.Chunk{DocID: "doc", Index: i, Text: text}
}

func TestInit(t *testing.T) {
	s := NewIndex()
	assert.Error(t, s.Init(0))
	assert.NoError(t, s.Init(3))
}

func TestUpsert_Mismatches(t *testing.T) {
	s := NewIndex()
	require.NoError(t, s.Init(2))

	assert.Error(t, s.Upsert([]model.Chunk{chunk(0, "a")}, nil))
	assert.Error(t, s.Upsert([]model.Chunk{chunk(0, "a")}, [][]float32{{1, 2, 3}}))
	assert.NoError(t, s.Upsert([]model.Chunk{chunk(0, "a")}, [][]float32{{1, 2}}))
	assert.Equal(t, 1, s.Len())
}

func TestSearch_OrdersByCosineSimilarity(t *testing.T) {
	s := NewIndex()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert(
		[]model.Chunk{chunk(0, "x axis"), chunk(1, "y axis"), chunk(2, "diagonal")},
		[][]float32{{1, 0}, {0, 1}, {1, 1}},
	))

	res, err := s.Search([]float32{1, 0}, 3)
	require.NoError(t, err)
	require.Len(t, res, 3)
	assert.Equal(t, 0, res[0].Chunk.Index)
	assert.InDelta(t, 1.0, res[0].Score, 1e-9)
	assert.Equal(t, 2, res[1].Chunk.Index)
	assert.Equal(t, 1, res[2].Chunk.Index)
	assert.InDelta(t, 0.0, res[2].Score, 1e-9)
}

func TestSearch_TiesBrokenByChunkOrder(t *testing.T) {
	s := NewIndex()
	require.NoError(t, s.Init(2))
	// identical vectors, so all scores tie
	require.NoError(t, s.Upsert(
		[]model.Chunk{chunk(0, "first"), chunk(1, "second"), chunk(2, "third")},
		[][]float32{{1, 1}, {1, 1}, {1, 1}},
	))

	res, err := s.Search([]float32{1, 1}, 2)
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 0, res[0].Chunk.Index)
	assert.Equal(t, 1, res[1].Chunk.Index)
}

func TestSearch_TopKClampedAndDimensionChecked(t *testing.T) {
	s := NewIndex()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert([]model.Chunk{chunk(0, "only")}, [][]float32{{1, 0}}))

	res, err := s.Search([]float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, res, 1)

	_, err = s.Search([]float32{1, 0, 0}, 1)
	assert.Error(t, err)
}

func TestSearch_ResultsAreSubsetOfIndexedChunks(t *testing.T) {
	s := NewIndex()
	require.NoError(t, s.Init(2))
	indexed := []model.Chunk{chunk(0, "a"), chunk(1, "b"), chunk(2, "c")}
	require.NoError(t, s.Upsert(indexed, [][]float32{{1, 0}, {0, 1}, {1, 1}}))

	res, err := s.Search([]float32{0.5, 0.5}, 3)
	require.NoError(t, err)
	for _, r := range res {
		assert.Contains(t, indexed, r.Chunk)
	}
}

func TestClear(t *testing.T) {
	s := NewIndex()
	require.NoError(t, s.Init(2))
	require.NoError(t, s.Upsert([]model.Chunk{chunk(0, "a")}, [][]float32{{1, 0}}))
	s.Clear()
	assert.Equal(t, 0, s.Len())

	res, err := s.Search([]float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, res)
}
