package rag

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/careerlens/careerlens/plugin/ai"
)

// Hit is one raw index search result.
type Hit struct {
	ID    string
	Score float32
}

// VectorIndex is a flat inner-product index over unit-normalized vectors
// plus the ordered id-map tying row positions back to chunk ids. Brute-force
// search is fine at the corpus sizes this backend sees (hundreds to low
// thousands of chunks).
//
// A single RWMutex guards build, persist and load against concurrent
// readers; the version counter increments on every successful Build or Load
// so callers can detect that the snapshot they resolved against has been
// replaced.
type VectorIndex struct {
	name string
	dim  int

	mu      sync.RWMutex
	vectors [][]float32
	ids     []string
	version uint64
}

// NewVectorIndex creates an empty index. name determines the artifact file
// names; dim is the expected vector dimension.
func NewVectorIndex(name string, dim int) *VectorIndex {
	return &VectorIndex{name: name, dim: dim}
}

// Build replaces the index contents. Vectors are unit-normalized; a row
// whose dimension disagrees with the index dimension is dropped together
// with its id, and the build continues. ids and vectors must be parallel.
func (x *VectorIndex) Build(vectors [][]float32, ids []string) error {
	if len(vectors) != len(ids) {
		return errors.Errorf("got %d vectors for %d ids", len(vectors), len(ids))
	}

	kept := make([][]float32, 0, len(vectors))
	keptIDs := make([]string, 0, len(ids))
	for i, v := range vectors {
		if len(v) != x.dim {
			continue
		}
		kept = append(kept, ai.NormalizeVector(v))
		keptIDs = append(keptIDs, ids[i])
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.vectors = kept
	x.ids = keptIDs
	x.version++
	return nil
}

// Search returns the k nearest ids by inner product, descending by score,
// ties broken by ascending row position. Fewer than k results are returned
// when the index is small; an empty index yields an empty slice.
func (x *VectorIndex) Search(query []float32, k int) []Hit {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if k <= 0 || len(x.vectors) == 0 || len(query) != x.dim {
		return []Hit{}
	}

	q := ai.NormalizeVector(query)
	type scored struct {
		row   int
		score float32
	}
	all := make([]scored, len(x.vectors))
	for i, v := range x.vectors {
		var dot float32
		for j := range v {
			dot += v[j] * q[j]
		}
		all[i] = scored{row: i, score: dot}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].score != all[j].score {
			return all[i].score > all[j].score
		}
		return all[i].row < all[j].row
	})

	if k > len(all) {
		k = len(all)
	}
	hits := make([]Hit, k)
	for i := 0; i < k; i++ {
		hits[i] = Hit{ID: x.ids[all[i].row], Score: all[i].score}
	}
	return hits
}

// Size returns the number of indexed vectors.
func (x *VectorIndex) Size() int {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return len(x.vectors)
}

// Dimensions returns the expected vector dimension.
func (x *VectorIndex) Dimensions() int {
	return x.dim
}

// Version returns the monotonic snapshot version. It starts at 0 for an
// empty index and increments on every successful Build or Load.
func (x *VectorIndex) Version() uint64 {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.version
}

// ArtifactPaths returns the vector blob path and the id-map path for this
// index under dir.
func (x *VectorIndex) ArtifactPaths(dir string) (string, string) {
	return filepath.Join(dir, x.name+".vec"), filepath.Join(dir, x.name+"_map.json")
}

// Save persists the index as two companion artifacts: the vector blob and
// the JSON id-map. Both are written via a temp file and rename so a
// concurrent loader never sees a half-written artifact.
func (x *VectorIndex) Save(dir string) error {
	x.mu.RLock()
	defer x.mu.RUnlock()

	blob, err := EncodeVectorsBlob(x.vectors)
	if err != nil {
		return errors.Wrap(err, "failed to encode index vectors")
	}
	idMap, err := json.Marshal(x.ids)
	if err != nil {
		return errors.Wrap(err, "failed to encode id-map")
	}

	vecPath, mapPath := x.ArtifactPaths(dir)
	if err := writeFileAtomic(vecPath, blob); err != nil {
		return errors.Wrap(err, "failed to write vector blob")
	}
	if err := writeFileAtomic(mapPath, idMap); err != nil {
		return errors.Wrap(err, "failed to write id-map")
	}
	return nil
}

// Load reads both artifacts from dir. It fails if either file is missing or
// corrupt, if the id-map length disagrees with the vector count, or if the
// stored dimension disagrees with the index dimension. On success the index
// contents are replaced and the version increments.
func (x *VectorIndex) Load(dir string) error {
	vecPath, mapPath := x.ArtifactPaths(dir)

	blob, err := os.ReadFile(vecPath)
	if err != nil {
		return errors.Wrap(err, "failed to read vector blob")
	}
	idMapData, err := os.ReadFile(mapPath)
	if err != nil {
		return errors.Wrap(err, "failed to read id-map")
	}

	vectors, err := DecodeVectorsBlob(blob)
	if err != nil {
		return errors.Wrap(err, "failed to decode vector blob")
	}
	var ids []string
	if err := json.Unmarshal(idMapData, &ids); err != nil {
		return errors.Wrap(err, "failed to decode id-map")
	}
	if len(ids) != len(vectors) {
		return errors.Errorf("id-map has %d entries for %d vectors", len(ids), len(vectors))
	}
	for i, v := range vectors {
		if len(v) != x.dim {
			return errors.Errorf("stored vector %d has dimension %d, want %d", i, len(v), x.dim)
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	x.vectors = vectors
	x.ids = ids
	x.version++
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
