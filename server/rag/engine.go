package rag

import (
	"context"
	"log/slog"
	"time"

	"github.com/careerlens/careerlens/plugin/ai"
	ragerrors "github.com/careerlens/careerlens/server/internal/errors"
	"github.com/careerlens/careerlens/store/cache"
)

// HitMeta is the resolved metadata behind an index hit.
type HitMeta struct {
	ChunkID     string
	RecordID    int32
	RecordLabel string // document title, profile name or job title
	Content     string
	Position    int32
}

// SearchResult is a ranked hit with resolved metadata.
type SearchResult struct {
	HitMeta
	Score float32
}

// HitResolver maps a chunk id back to its source record. Returning
// (nil, nil) means the id no longer resolves; the hit is dropped without
// failing the query.
type HitResolver interface {
	Resolve(ctx context.Context, chunkID string) (*HitMeta, error)
}

// SearchEngine orchestrates one RAG instantiation: warm up the index
// through the sync manager, embed the query, search, resolve hits.
type SearchEngine struct {
	name     string
	embedder ai.EmbeddingService
	index    *VectorIndex
	syncer   *IndexSyncManager
	resolver HitResolver
	hitCache *cache.Cache
}

// NewSearchEngine creates a search engine over an index kept consistent by
// the given sync manager.
func NewSearchEngine(name string, embedder ai.EmbeddingService, index *VectorIndex, syncer *IndexSyncManager, resolver HitResolver) *SearchEngine {
	return &SearchEngine{
		name:     name,
		embedder: embedder,
		index:    index,
		syncer:   syncer,
		resolver: resolver,
		hitCache: cache.New(cache.Config{
			DefaultTTL:      5 * time.Minute,
			CleanupInterval: time.Minute,
			MaxItems:        4096,
		}),
	}
}

// Search returns the top-k hits for the query text. An empty or cold index
// degrades to an empty result list, never an error; an embedding failure is
// propagated because a degraded query vector would corrupt ranking.
func (e *SearchEngine) Search(ctx context.Context, query string, k int) ([]*SearchResult, error) {
	if err := e.syncer.EnsureReady(ctx); err != nil {
		return nil, ragerrors.IndexUnavailable(err)
	}
	if e.index.Size() == 0 {
		return []*SearchResult{}, nil
	}

	vector, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, ragerrors.EmbeddingFailed(err)
	}

	hits := e.index.Search(vector, k)
	results := make([]*SearchResult, 0, len(hits))
	for _, hit := range hits {
		meta := e.resolve(ctx, hit.ID)
		if meta == nil {
			// Chunk removed after indexing; drop the hit.
			slog.Debug("dropping unresolvable hit", "engine", e.name, "chunk", hit.ID)
			continue
		}
		results = append(results, &SearchResult{HitMeta: *meta, Score: hit.Score})
	}
	return results, nil
}

// Ready reports whether the index has been warmed up.
func (e *SearchEngine) Ready() bool {
	return e.syncer.Ready()
}

// Index exposes the underlying index for status reporting.
func (e *SearchEngine) Index() *VectorIndex {
	return e.index
}

// Close releases the hit metadata cache.
func (e *SearchEngine) Close() error {
	return e.hitCache.Close()
}

func (e *SearchEngine) resolve(ctx context.Context, chunkID string) *HitMeta {
	cacheKey := "hit:" + e.name + ":" + chunkID
	if cached, ok := e.hitCache.Get(ctx, cacheKey); ok {
		if meta, ok := cached.(*HitMeta); ok {
			return meta
		}
	}

	meta, err := e.resolver.Resolve(ctx, chunkID)
	if err != nil {
		slog.Warn("hit resolution failed", "engine", e.name, "chunk", chunkID, "error", err)
		return nil
	}
	if meta == nil {
		return nil
	}
	e.hitCache.Set(ctx, cacheKey, meta)
	return meta
}
