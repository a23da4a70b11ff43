package rag

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndexBuildAndSearch(t *testing.T) {
	index := NewVectorIndex("test", 3)
	err := index.Build([][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}, []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Equal(t, 3, index.Size())

	hits := index.Search([]float32{1, 0, 0}, 2)
	require.Len(t, hits, 2)
	require.Equal(t, "a", hits[0].ID)
	require.InDelta(t, 1.0, hits[0].Score, 1e-5)
}

func TestIndexSearchSelfSimilarity(t *testing.T) {
	vectors := [][]float32{
		{0.3, 0.4, 0.5},
		{0.9, 0.1, 0.2},
		{0.2, 0.8, 0.1},
	}
	ids := []string{"x", "y", "z"}

	index := NewVectorIndex("test", 3)
	require.NoError(t, index.Build(vectors, ids))

	for i, v := range vectors {
		hits := index.Search(v, 1)
		require.Len(t, hits, 1)
		require.Equal(t, ids[i], hits[0].ID)
		require.InDelta(t, 1.0, hits[0].Score, 1e-5)
	}
}

func TestIndexSearchTieOrder(t *testing.T) {
	// Identical vectors tie; order must follow ascending row position.
	index := NewVectorIndex("test", 2)
	require.NoError(t, index.Build([][]float32{
		{1, 0},
		{1, 0},
		{1, 0},
	}, []string{"first", "second", "third"}))

	hits := index.Search([]float32{1, 0}, 3)
	require.Equal(t, []string{"first", "second", "third"}, []string{hits[0].ID, hits[1].ID, hits[2].ID})
}

func TestIndexSearchEmpty(t *testing.T) {
	index := NewVectorIndex("test", 3)
	require.Empty(t, index.Search([]float32{1, 0, 0}, 5))
}

func TestIndexSearchFewerThanK(t *testing.T) {
	index := NewVectorIndex("test", 2)
	require.NoError(t, index.Build([][]float32{{1, 0}}, []string{"only"}))
	hits := index.Search([]float32{0, 1}, 10)
	require.Len(t, hits, 1)
}

func TestIndexBuildDropsMismatchedDimensions(t *testing.T) {
	index := NewVectorIndex("test", 3)
	err := index.Build([][]float32{
		{1, 0, 0},
		{1, 0},       // dropped
		{0, 1, 0, 0}, // dropped
		{0, 1, 0},
	}, []string{"a", "bad1", "bad2", "b"})
	require.NoError(t, err)
	require.Equal(t, 2, index.Size())

	hits := index.Search([]float32{0, 1, 0}, 1)
	require.Equal(t, "b", hits[0].ID)
}

func TestIndexBuildLengthMismatch(t *testing.T) {
	index := NewVectorIndex("test", 2)
	require.Error(t, index.Build([][]float32{{1, 0}}, []string{"a", "b"}))
}

func TestIndexVersionMonotonic(t *testing.T) {
	index := NewVectorIndex("test", 2)
	require.EqualValues(t, 0, index.Version())

	require.NoError(t, index.Build([][]float32{{1, 0}}, []string{"a"}))
	require.EqualValues(t, 1, index.Version())

	require.NoError(t, index.Build([][]float32{{0, 1}}, []string{"b"}))
	require.EqualValues(t, 2, index.Version())
}

func TestIndexSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	vectors := [][]float32{
		{0.3, 0.4, 0.5},
		{0.9, 0.1, 0.2},
		{0.2, 0.8, 0.1},
	}
	ids := []string{"x", "y", "z"}

	index := NewVectorIndex("salary", 3)
	require.NoError(t, index.Build(vectors, ids))
	require.NoError(t, index.Save(dir))

	loaded := NewVectorIndex("salary", 3)
	require.NoError(t, loaded.Load(dir))
	require.Equal(t, index.Size(), loaded.Size())

	query := []float32{0.25, 0.7, 0.2}
	require.Equal(t, index.Search(query, 3), loaded.Search(query, 3))
}

func TestIndexLoadMissingArtifacts(t *testing.T) {
	index := NewVectorIndex("missing", 3)
	require.Error(t, index.Load(t.TempDir()))
}

func TestIndexLoadIDMapMismatch(t *testing.T) {
	dir := t.TempDir()

	index := NewVectorIndex("broken", 2)
	require.NoError(t, index.Build([][]float32{{1, 0}, {0, 1}}, []string{"a", "b"}))
	require.NoError(t, index.Save(dir))

	// Truncate the id-map so it disagrees with the vector count.
	_, mapPath := index.ArtifactPaths(dir)
	require.NoError(t, os.WriteFile(mapPath, []byte(`["a"]`), 0o600))

	loaded := NewVectorIndex("broken", 2)
	require.Error(t, loaded.Load(dir))
}

func TestIndexLoadCorruptBlob(t *testing.T) {
	dir := t.TempDir()

	index := NewVectorIndex("corrupt", 2)
	require.NoError(t, index.Build([][]float32{{1, 0}}, []string{"a"}))
	require.NoError(t, index.Save(dir))

	vecPath, _ := index.ArtifactPaths(dir)
	require.NoError(t, os.WriteFile(vecPath, []byte("garbage"), 0o600))

	loaded := NewVectorIndex("corrupt", 2)
	require.Error(t, loaded.Load(dir))
}

func TestIndexArtifactPaths(t *testing.T) {
	index := NewVectorIndex("docs", 3)
	vecPath, mapPath := index.ArtifactPaths("/data/index")
	require.Equal(t, filepath.Join("/data/index", "docs.vec"), vecPath)
	require.Equal(t, filepath.Join("/data/index", "docs_map.json"), mapPath)
}
