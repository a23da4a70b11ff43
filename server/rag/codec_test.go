package rag

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVectorsBlobRoundTrip(t *testing.T) {
	vectors := [][]float32{
		{0.1, 0.2, 0.3},
		{-1, 0, 1},
		{0.5, 0.5, 0.5},
	}

	blob, err := EncodeVectorsBlob(vectors)
	require.NoError(t, err)

	decoded, err := DecodeVectorsBlob(blob)
	require.NoError(t, err)
	require.Equal(t, vectors, decoded)
}

func TestVectorsBlobEmpty(t *testing.T) {
	blob, err := EncodeVectorsBlob(nil)
	require.NoError(t, err)

	decoded, err := DecodeVectorsBlob(blob)
	require.NoError(t, err)
	require.Empty(t, decoded)
}

func TestVectorsBlobMixedDimensions(t *testing.T) {
	_, err := EncodeVectorsBlob([][]float32{{1, 2}, {1, 2, 3}})
	require.Error(t, err)
}

func TestVectorsBlobTruncated(t *testing.T) {
	blob, err := EncodeVectorsBlob([][]float32{{1, 2, 3}})
	require.NoError(t, err)

	_, err = DecodeVectorsBlob(blob[:len(blob)-2])
	require.Error(t, err)

	_, err = DecodeVectorsBlob([]byte{1, 2})
	require.Error(t, err)
}

func TestVectorJSONRoundTrip(t *testing.T) {
	v := []float32{0.25, -0.5, 1}

	encoded, err := EncodeVectorJSON(v)
	require.NoError(t, err)

	decoded, err := DecodeVectorJSON(encoded, 3)
	require.NoError(t, err)
	require.Equal(t, v, decoded)
}

func TestVectorJSONDimensionMismatch(t *testing.T) {
	_, err := DecodeVectorJSON("[1, 2, 3]", 4)
	require.Error(t, err)
}

func TestVectorJSONInvalid(t *testing.T) {
	_, err := DecodeVectorJSON("not json", 0)
	require.Error(t, err)
}
