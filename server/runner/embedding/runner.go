// Package embedding runs the background index maintenance loop: it watches
// for chunks without vectors and rebuilds the affected indexes.
package embedding

import (
	"context"
	"log/slog"
	"time"

	"github.com/careerlens/careerlens/server/rag"
	"github.com/careerlens/careerlens/store"
)

// Target pairs a chunk kind with the sync manager of its index.
type Target struct {
	Kind   store.RecordKind
	Syncer *rag.IndexSyncManager
}

type Runner struct {
	store    *store.Store
	targets  []Target
	interval time.Duration
}

// NewRunner creates an index maintenance runner over the given targets.
func NewRunner(stores *store.Store, targets []Target) *Runner {
	return &Runner{
		store:    stores,
		targets:  targets,
		interval: 2 * time.Minute,
	}
}

// Run starts the background loop and blocks until ctx is canceled.
func (r *Runner) Run(ctx context.Context) {
	// Process once on startup so indexes are warm before the first query.
	r.RunOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.RunOnce(ctx)
		case <-ctx.Done():
			slog.Info("embedding runner stopped")
			return
		}
	}
}

// RunOnce processes every target once (also used for manual trigger).
func (r *Runner) RunOnce(ctx context.Context) {
	for _, target := range r.targets {
		select {
		case <-ctx.Done():
			return
		default:
		}
		r.process(ctx, target)
	}
}

func (r *Runner) process(ctx context.Context, target Target) {
	kind := target.Kind
	embedded := false
	pending, err := r.store.CountChunks(ctx, &store.FindChunk{RecordKind: &kind, Embedded: &embedded})
	if err != nil {
		slog.Error("failed to count pending chunks", "kind", kind, "error", err)
		return
	}
	if pending == 0 && target.Syncer.Ready() {
		return
	}

	slog.Info("rebuilding index", "kind", kind, "pending", pending)
	if err := target.Syncer.Rebuild(ctx); err != nil {
		slog.Error("index rebuild failed", "kind", kind, "error", err)
	}
}
