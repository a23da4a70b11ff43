package embedding

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/careerlens/careerlens/internal/profile"
	"github.com/careerlens/careerlens/server/rag"
	"github.com/careerlens/careerlens/store"
	"github.com/careerlens/careerlens/store/db/sqlite"
)

// storeCorpus embeds pending document chunks with a fixed vector.
type storeCorpus struct {
	store    *store.Store
	prepared int
}

func (c *storeCorpus) PrepareCorpus(ctx context.Context) error {
	c.prepared++
	kind := store.RecordKindDocument
	embedded := false
	pending, err := c.store.ListChunks(ctx, &store.FindChunk{RecordKind: &kind, Embedded: &embedded})
	if err != nil {
		return err
	}
	for _, chunk := range pending {
		if err := c.store.UpdateChunkEmbedding(ctx, chunk.ID, []float32{1, 0, 0}); err != nil {
			return err
		}
	}
	return nil
}

func (c *storeCorpus) LoadVectors(ctx context.Context) ([]string, [][]float32, error) {
	kind := store.RecordKindDocument
	embedded := true
	chunks, err := c.store.ListChunks(ctx, &store.FindChunk{RecordKind: &kind, Embedded: &embedded})
	if err != nil {
		return nil, nil, err
	}
	ids := make([]string, len(chunks))
	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
		vectors[i] = chunk.Embedding
	}
	return ids, vectors, nil
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	prof := &profile.Profile{
		Mode:           "dev",
		Driver:         "sqlite",
		DSN:            filepath.Join(t.TempDir(), "test.db"),
		Data:           t.TempDir(),
		AIEmbeddingDim: 3,
	}
	driver, err := sqlite.NewDB(prof)
	require.NoError(t, err)
	require.NoError(t, driver.Migrate(context.Background()))
	stores := store.New(driver, prof)
	t.Cleanup(func() { _ = stores.Close() })
	return stores
}

func TestRunOnceEmbedsPendingAndRebuilds(t *testing.T) {
	stores := newTestStore(t)
	ctx := context.Background()

	_, err := stores.CreateChunk(ctx, &store.Chunk{
		ID:         uuid.NewString(),
		RecordKind: store.RecordKindDocument,
		RecordID:   1,
		Content:    "pending chunk",
		CreatedTs:  time.Now().Unix(),
	})
	require.NoError(t, err)

	corpus := &storeCorpus{store: stores}
	index := rag.NewVectorIndex("document", 3)
	syncer := rag.NewIndexSyncManager("document", t.TempDir(), index, corpus)

	runner := NewRunner(stores, []Target{{Kind: store.RecordKindDocument, Syncer: syncer}})
	runner.RunOnce(ctx)

	require.Equal(t, 1, corpus.prepared)
	require.True(t, syncer.Ready())
	require.Equal(t, 1, index.Size())

	// Nothing pending and index ready: the next pass is a no-op.
	runner.RunOnce(ctx)
	require.Equal(t, 1, corpus.prepared)
}

func TestRunOnceRespectsCancellation(t *testing.T) {
	stores := newTestStore(t)
	corpus := &storeCorpus{store: stores}
	index := rag.NewVectorIndex("document", 3)
	syncer := rag.NewIndexSyncManager("document", t.TempDir(), index, corpus)
	runner := NewRunner(stores, []Target{{Kind: store.RecordKindDocument, Syncer: syncer}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runner.RunOnce(ctx)
	require.Equal(t, 0, corpus.prepared)
}
