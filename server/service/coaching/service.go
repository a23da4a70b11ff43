// Package coaching implements career coaching over a corpus of candidate
// profiles: profile ingestion, similarity search and insight extraction.
package coaching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/careerlens/careerlens/internal/profile"
	"github.com/careerlens/careerlens/plugin/ai"
	"github.com/careerlens/careerlens/server/rag"
	"github.com/careerlens/careerlens/store"
)

const embedBatchSize = 32

// Service owns the candidate profile corpus and its search index.
type Service struct {
	store     *store.Store
	embedder  ai.EmbeddingService
	generator ai.GenerationService
	engine    *rag.SearchEngine
	syncer    *rag.IndexSyncManager
}

// NewService wires the coaching service; it acts as corpus source and hit
// resolver for its own engine. The generator may be nil, in which case
// insights skip the narrative.
func NewService(stores *store.Store, prof *profile.Profile, embedder ai.EmbeddingService, generator ai.GenerationService) *Service {
	s := &Service{
		store:     stores,
		embedder:  embedder,
		generator: generator,
	}
	index := rag.NewVectorIndex("profile", embedder.Dimensions())
	s.syncer = rag.NewIndexSyncManager("profile", prof.IndexDir(), index, s)
	s.engine = rag.NewSearchEngine("profile", embedder, index, s.syncer, s)
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

// CreateProfileRequest describes one candidate profile to ingest.
type CreateProfileRequest struct {
	CreatorID       int32    `json:"-"`
	FullName        string   `json:"full_name"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	ExperienceYears int      `json:"experience_years"`
	Skills          []string `json:"skills"`
	Summary         string   `json:"summary"`
}

// CreateProfile stores a candidate profile and cuts its index chunk.
func (s *Service) CreateProfile(ctx context.Context, req *CreateProfileRequest) (*store.CandidateProfile, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return nil, errors.New("full name is required")
	}

	now := time.Now().Unix()
	candidate, err := s.store.CreateCandidateProfile(ctx, &store.CandidateProfile{
		UID:             shortuuid.New(),
		CreatorID:       req.CreatorID,
		CreatedTs:       now,
		UpdatedTs:       now,
		FullName:        req.FullName,
		Title:           req.Title,
		Company:         req.Company,
		Location:        req.Location,
		ExperienceYears: int32(req.ExperienceYears),
		Skills:          req.Skills,
		Summary:         req.Summary,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create candidate profile")
	}

	if err := s.chunkProfile(ctx, candidate); err != nil {
		return nil, err
	}
	s.syncer.Invalidate()
	s.syncer.RebuildAsync()
	return candidate, nil
}

// ProfileMatch is one similarity hit with its source profile.
type ProfileMatch struct {
	Profile *store.CandidateProfile
	Score   float32
}

// SearchProfiles returns the top-k candidate profiles for a query.
func (s *Service) SearchProfiles(ctx context.Context, query string, k int) ([]*ProfileMatch, error) {
	results, err := s.engine.Search(ctx, query, k)
	if err != nil {
		return nil, errors.Wrap(err, "profile index search failed")
	}

	matches := make([]*ProfileMatch, 0, len(results))
	for _, result := range results {
		candidate, err := s.store.GetCandidateProfile(ctx, &store.FindCandidateProfile{ID: &result.RecordID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to load candidate profile")
		}
		if candidate == nil {
			continue
		}
		matches = append(matches, &ProfileMatch{Profile: candidate, Score: result.Score})
	}
	return matches, nil
}

// profileText flattens one profile into the text that gets embedded.
func profileText(candidate *store.CandidateProfile) string {
	parts := []string{
		candidate.FullName,
		candidate.Title,
		candidate.Company,
		candidate.Location,
		candidate.Summary,
		strings.Join(candidate.Skills, " "),
		fmt.Sprintf("%d ans expérience", candidate.ExperienceYears),
	}
	var kept []string
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, " ")
}

// chunkProfile materializes one profile as a single index chunk.
func (s *Service) chunkProfile(ctx context.Context, candidate *store.CandidateProfile) error {
	kind := store.RecordKindProfile
	count, err := s.store.CountChunks(ctx, &store.FindChunk{RecordKind: &kind, RecordID: &candidate.ID})
	if err != nil {
		return errors.Wrap(err, "failed to count chunks")
	}
	if count > 0 {
		return nil
	}

	content := profileText(candidate)
	_, err = s.store.CreateChunk(ctx, &store.Chunk{
		ID:         uuid.NewString(),
		RecordKind: kind,
		RecordID:   candidate.ID,
		Position:   0,
		CharCount:  int32(len([]rune(content))),
		WordCount:  int32(len(strings.Fields(content))),
		Content:    content,
		CreatedTs:  time.Now().Unix(),
	})
	return errors.Wrap(err, "failed to create chunk")
}

// PrepareCorpus chunks any profiles missed at create time and embeds every
// pending chunk.
func (s *Service) PrepareCorpus(ctx context.Context) error {
	candidates, err := s.store.ListCandidateProfiles(ctx, &store.FindCandidateProfile{})
	if err != nil {
		return errors.Wrap(err, "failed to list candidate profiles")
	}
	for _, candidate := range candidates {
		if err := s.chunkProfile(ctx, candidate); err != nil {
			return err
		}
	}
	return s.embedPending(ctx)
}

func (s *Service) embedPending(ctx context.Context) error {
	kind := store.RecordKindProfile
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

// LoadVectors returns every embedded profile chunk for index building.
func (s *Service) LoadVectors(ctx context.Context) ([]string, [][]float32, error) {
	kind := store.RecordKindProfile
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

// Resolve maps an index hit back to its candidate profile.
func (s *Service) Resolve(ctx context.Context, chunkID string) (*rag.HitMeta, error) {
	chunk, err := s.store.GetChunk(ctx, &store.FindChunk{ID: &chunkID})
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, nil
	}
	candidate, err := s.store.GetCandidateProfile(ctx, &store.FindCandidateProfile{ID: &chunk.RecordID})
	if err != nil {
		return nil, err
	}
	if candidate == nil {
		return nil, nil
	}
	return &rag.HitMeta{
		ChunkID:     chunk.ID,
		RecordID:    chunk.RecordID,
		RecordLabel: candidate.FullName,
		Content:     chunk.Content,
		Position:    chunk.Position,
	}, nil
}
