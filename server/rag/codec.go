// Package rag implements the retrieval core shared by the document, profile
// and salary search services: chunking, the flat vector index with its
// on-disk artifacts, query orchestration, index synchronization, and result
// aggregation.
package rag

import (
	"encoding/binary"
	"encoding/json"
	"math"

	"github.com/pkg/errors"
)

// Vector (de)serialization is consolidated here so every consumer agrees on
// the same two representations: a little-endian float32 blob for index
// artifacts, and a JSON array for database columns without a vector type.

// EncodeVectorsBlob serializes vectors into the artifact blob format:
// a uint32 dimension, a uint32 row count, then row-major float32 values,
// all little-endian. All rows must share one dimension.
func EncodeVectorsBlob(vectors [][]float32) ([]byte, error) {
	dim := 0
	if len(vectors) > 0 {
		dim = len(vectors[0])
	}

	buf := make([]byte, 8, 8+4*dim*len(vectors))
	binary.LittleEndian.PutUint32(buf[0:4], uint32(dim))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(vectors)))

	var scratch [4]byte
	for i, v := range vectors {
		if len(v) != dim {
			return nil, errors.Errorf("vector %d has dimension %d, want %d", i, len(v), dim)
		}
		for _, x := range v {
			binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(x))
			buf = append(buf, scratch[:]...)
		}
	}
	return buf, nil
}

// DecodeVectorsBlob deserializes an artifact blob produced by
// EncodeVectorsBlob. A truncated or oversized payload is an error.
func DecodeVectorsBlob(data []byte) ([][]float32, error) {
	if len(data) < 8 {
		return nil, errors.New("vector blob too short")
	}
	dim := int(binary.LittleEndian.Uint32(data[0:4]))
	count := int(binary.LittleEndian.Uint32(data[4:8]))

	want := 8 + 4*dim*count
	if len(data) != want {
		return nil, errors.Errorf("vector blob has %d bytes, want %d for %d x %d", len(data), want, count, dim)
	}

	vectors := make([][]float32, count)
	offset := 8
	for i := range vectors {
		row := make([]float32, dim)
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[offset : offset+4]))
			offset += 4
		}
		vectors[i] = row
	}
	return vectors, nil
}

// EncodeVectorJSON serializes one vector as a JSON array.
func EncodeVectorJSON(v []float32) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode vector")
	}
	return string(data), nil
}

// DecodeVectorJSON deserializes a JSON array vector. When dim is positive
// the decoded length must match it.
func DecodeVectorJSON(data string, dim int) ([]float32, error) {
	var v []float32
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, errors.Wrap(err, "failed to decode vector")
	}
	if dim > 0 && len(v) != dim {
		return nil, errors.Errorf("decoded vector has dimension %d, want %d", len(v), dim)
	}
	return v, nil
}
