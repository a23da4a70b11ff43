package rag

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// CorpusSource supplies the data a sync manager needs to (re)build its
// index from the relational source of truth.
type CorpusSource interface {
	// PrepareCorpus chunks any un-chunked records and embeds any
	// un-embedded chunks.
	PrepareCorpus(ctx context.Context) error

	// LoadVectors returns every embedded chunk id with its vector, in a
	// stable order. The two slices are parallel.
	LoadVectors(ctx context.Context) (ids []string, vectors [][]float32, err error)
}

// IndexSyncManager keeps one persisted index consistent with its corpus:
// on cold start it loads the artifacts if present and rebuilds otherwise.
// Rebuilds are full, not incremental; new chunks appear in search results
// only after the next rebuild.
type IndexSyncManager struct {
	name   string
	dir    string
	index  *VectorIndex
	source CorpusSource

	mu         sync.Mutex
	ready      atomic.Bool
	dirty      atomic.Bool
	rebuilding atomic.Bool
}

// NewIndexSyncManager creates a sync manager persisting artifacts under dir.
func NewIndexSyncManager(name, dir string, index *VectorIndex, source CorpusSource) *IndexSyncManager {
	return &IndexSyncManager{
		name:   name,
		dir:    dir,
		index:  index,
		source: source,
	}
}

// EnsureReady is the idempotent warm-up: safe to call before every query.
// The first caller loads the persisted snapshot, or rebuilds from the
// corpus when the artifacts are absent or unreadable; concurrent callers
// serialize on the same build.
func (m *IndexSyncManager) EnsureReady(ctx context.Context) error {
	if m.ready.Load() && !m.dirty.Load() {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ready.Load() && !m.dirty.Load() {
		return nil
	}

	if !m.dirty.Load() {
		err := m.index.Load(m.dir)
		if err == nil {
			m.ready.Store(true)
			slog.Info("vector index loaded", "index", m.name, "size", m.index.Size(), "version", m.index.Version())
			return nil
		}
		// Missing or corrupt artifacts are not fatal; rebuild instead.
		slog.Info("vector index artifacts unusable, rebuilding", "index", m.name, "error", err)
	}

	return m.rebuildLocked(ctx)
}

// Invalidate marks the index stale. The next EnsureReady call rebuilds.
func (m *IndexSyncManager) Invalidate() {
	m.dirty.Store(true)
}

// Rebuild chunks, embeds, builds and persists synchronously.
func (m *IndexSyncManager) Rebuild(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rebuildLocked(ctx)
}

// RebuildAsync dispatches a fire-and-forget rebuild so the triggering
// request returns immediately. At most one async rebuild runs at a time;
// callers poll Ready rather than block.
func (m *IndexSyncManager) RebuildAsync() {
	if !m.rebuilding.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer m.rebuilding.Store(false)
		if err := m.Rebuild(context.Background()); err != nil {
			slog.Error("async index rebuild failed", "index", m.name, "error", err)
		}
	}()
}

// Ready reports whether the index holds a usable snapshot.
func (m *IndexSyncManager) Ready() bool {
	return m.ready.Load()
}

func (m *IndexSyncManager) rebuildLocked(ctx context.Context) error {
	if err := m.source.PrepareCorpus(ctx); err != nil {
		return err
	}
	ids, vectors, err := m.source.LoadVectors(ctx)
	if err != nil {
		return err
	}
	if err := m.index.Build(vectors, ids); err != nil {
		return err
	}
	if err := m.index.Save(m.dir); err != nil {
		return err
	}

	m.dirty.Store(false)
	m.ready.Store(true)
	slog.Info("vector index rebuilt", "index", m.name, "size", m.index.Size(), "version", m.index.Version())
	return nil
}
