// Package document implements knowledge-base document ingestion and
// retrieval: documents are normalized to plain text, chunked, embedded and
// served through a vector index.
package document

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/careerlens/careerlens/internal/profile"
	"github.com/careerlens/careerlens/plugin/ai"
	"github.com/careerlens/careerlens/plugin/markdown"
	"github.com/careerlens/careerlens/server/rag"
	"github.com/careerlens/careerlens/store"
)

const embedBatchSize = 32

// Service owns the document corpus and its search index.
type Service struct {
	store    *store.Store
	embedder ai.EmbeddingService
	engine   *rag.SearchEngine
	syncer   *rag.IndexSyncManager

	chunkMaxChars     int
	chunkOverlapChars int
}

// NewService wires the document service; it acts as corpus source and hit
// resolver for its own engine. Chunk sizing comes from the profile.
func NewService(stores *store.Store, prof *profile.Profile, embedder ai.EmbeddingService) *Service {
	s := &Service{
		store:             stores,
		embedder:          embedder,
		chunkMaxChars:     prof.ChunkMaxChars,
		chunkOverlapChars: prof.ChunkOverlapChars,
	}
	index := rag.NewVectorIndex("document", embedder.Dimensions())
	s.syncer = rag.NewIndexSyncManager("document", prof.IndexDir(), index, s)
	s.engine = rag.NewSearchEngine("document", embedder, index, s.syncer, s)
	return s
}

// Engine exposes the search engine for status reporting.
func (s *Service) Engine() *rag.SearchEngine {
	return s.engine
}

// Syncer exposes the index sync manager for the background runner.
func (s *Service) Syncer() *rag.IndexSyncManager {
	return s.syncer
}

// Close releases engine resources.
func (s *Service) Close() error {
	return s.engine.Close()
}

// CreateRequest describes one document to ingest.
type CreateRequest struct {
	CreatorID int32  `json:"-"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	URL       string `json:"url"`
	Source    string `json:"source"`
}

// Create stores a document and cuts its chunks immediately; embedding and
// index rebuild happen asynchronously.
func (s *Service) Create(ctx context.Context, req *CreateRequest) (*store.Document, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("title is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, errors.New("content is required")
	}

	now := time.Now().Unix()
	document, err := s.store.CreateDocument(ctx, &store.Document{
		UID:       shortuuid.New(),
		CreatorID: req.CreatorID,
		CreatedTs: now,
		UpdatedTs: now,
		Title:     req.Title,
		Content:   req.Content,
		URL:       req.URL,
		Source:    req.Source,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create document")
	}

	if err := s.chunkDocument(ctx, document); err != nil {
		return nil, err
	}
	s.syncer.Invalidate()
	s.syncer.RebuildAsync()
	return document, nil
}

// List returns documents matching the find condition.
func (s *Service) List(ctx context.Context, find *store.FindDocument) ([]*store.Document, error) {
	return s.store.ListDocuments(ctx, find)
}

// Get returns one document by uid, or nil when absent.
func (s *Service) Get(ctx context.Context, uid string) (*store.Document, error) {
	return s.store.GetDocument(ctx, &store.FindDocument{UID: &uid})
}

// Delete removes a document and its chunks, then invalidates the index.
func (s *Service) Delete(ctx context.Context, uid string) error {
	document, err := s.Get(ctx, uid)
	if err != nil {
		return err
	}
	if document == nil {
		return nil
	}
	if err := s.store.DeleteChunks(ctx, &store.DeleteChunk{RecordKind: store.RecordKindDocument, RecordID: document.ID}); err != nil {
		return errors.Wrap(err, "failed to delete chunks")
	}
	if err := s.store.DeleteDocument(ctx, &store.DeleteDocument{ID: document.ID}); err != nil {
		return errors.Wrap(err, "failed to delete document")
	}
	s.syncer.Invalidate()
	s.syncer.RebuildAsync()
	return nil
}

// Search returns the top-k document chunks for a query.
func (s *Service) Search(ctx context.Context, query string, k int) ([]*rag.SearchResult, error) {
	return s.engine.Search(ctx, query, k)
}

// chunkDocument cuts a document into chunks. Idempotent: a document that
// already has chunks is left alone, so edits require delete + re-create.
func (s *Service) chunkDocument(ctx context.Context, document *store.Document) error {
	kind := store.RecordKindDocument
	count, err := s.store.CountChunks(ctx, &store.FindChunk{RecordKind: &kind, RecordID: &document.ID})
	if err != nil {
		return errors.Wrap(err, "failed to count chunks")
	}
	if count > 0 {
		return nil
	}

	text := markdown.ExtractText([]byte(document.Content))
	segments := rag.ChunkText(text, s.chunkMaxChars, s.chunkOverlapChars)
	now := time.Now().Unix()
	for position, segment := range segments {
		_, err := s.store.CreateChunk(ctx, &store.Chunk{
			ID:         uuid.NewString(),
			RecordKind: kind,
			RecordID:   document.ID,
			Position:   int32(position),
			CharCount:  int32(len([]rune(segment))),
			WordCount:  int32(len(strings.Fields(segment))),
			Content:    segment,
			CreatedTs:  now,
		})
		if err != nil {
			return errors.Wrap(err, "failed to create chunk")
		}
	}
	return nil
}

// PrepareCorpus chunks any documents missed at create time and embeds every
// pending chunk.
func (s *Service) PrepareCorpus(ctx context.Context) error {
	documents, err := s.store.ListDocuments(ctx, &store.FindDocument{})
	if err != nil {
		return errors.Wrap(err, "failed to list documents")
	}
	for _, document := range documents {
		if err := s.chunkDocument(ctx, document); err != nil {
			return err
		}
	}
	return s.embedPending(ctx)
}

func (s *Service) embedPending(ctx context.Context) error {
	kind := store.RecordKindDocument
	embedded := false
	pending, err := s.store.ListChunks(ctx, &store.FindChunk{RecordKind: &kind, Embedded: &embedded})
	if err != nil {
		return errors.Wrap(err, "failed to list pending chunks")
	}

	for start := 0; start < len(pending); start += embedBatchSize {
		end := min(start+embedBatchSize, len(pending))
		batch := pending[start:end]

		texts := make([]string, len(batch))
		for i, chunk := range batch {
			texts[i] = chunk.Content
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return errors.Wrap(err, "failed to embed chunk batch")
		}
		for i, chunk := range batch {
			if err := s.store.UpdateChunkEmbedding(ctx, chunk.ID, vectors[i]); err != nil {
				return errors.Wrap(err, "failed to store chunk embedding")
			}
		}
	}
	return nil
}

// LoadVectors returns every embedded document chunk for index building.
func (s *Service) LoadVectors(ctx context.Context) ([]string, [][]float32, error) {
	kind := store.RecordKindDocument
	embedded := true
	chunks, err := s.store.ListChunks(ctx, &store.FindChunk{RecordKind: &kind, Embedded: &embedded})
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to list embedded chunks")
	}

	ids := make([]string, len(chunks))
	vectors := make([][]float32, len(chunks))
	for i, chunk := range chunks {
		ids[i] = chunk.ID
		vectors[i] = chunk.Embedding
	}
	return ids, vectors, nil
}

// Resolve maps an index hit back to its document.
func (s *Service) Resolve(ctx context.Context, chunkID string) (*rag.HitMeta, error) {
	chunk, err := s.store.GetChunk(ctx, &store.FindChunk{ID: &chunkID})
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, nil
	}
	document, err := s.store.GetDocument(ctx, &store.FindDocument{ID: &chunk.RecordID})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil
	}
	return &rag.HitMeta{
		ChunkID:     chunk.ID,
		RecordID:    chunk.RecordID,
		RecordLabel: document.Title,
		Content:     chunk.Content,
		Position:    chunk.Position,
	}, nil
}
