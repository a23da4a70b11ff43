package salary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/careerlens/careerlens/internal/profile"
	"github.com/careerlens/careerlens/plugin/ai"
	ragerrors "github.com/careerlens/careerlens/server/internal/errors"
	"github.com/careerlens/careerlens/server/internal/observability"
	"github.com/careerlens/careerlens/server/rag"
	"github.com/careerlens/careerlens/store"
)

const (
	// analyzeSearchK is how many index hits one analysis pulls before tier
	// filtering.
	analyzeSearchK = 60
	// minAnalyzable is the smallest dataset slice worth backing an analysis
	// with real numbers.
	minAnalyzable = 5
	// neighborLimit caps the comparables embedded in the narration prompt.
	neighborLimit = 8

	embedBatchSize = 32
)

// Service ingests salary observations and answers benchmark analyses over
// the observation corpus.
type Service struct {
	store     *store.Store
	embedder  ai.EmbeddingService
	generator ai.GenerationService
	gate      *ValidationGate
	engine    *rag.SearchEngine
	syncer    *rag.IndexSyncManager
}

// NewService wires the salary service: the service itself is the corpus
// source and hit resolver for its search engine, and the range estimator
// for its validation gate.
func NewService(stores *store.Store, prof *profile.Profile, embedder ai.EmbeddingService, generator ai.GenerationService) *Service {
	s := &Service{
		store:     stores,
		embedder:  embedder,
		generator: generator,
	}
	s.gate = NewValidationGate(stores, s)
	index := rag.NewVectorIndex("salary", embedder.Dimensions())
	s.syncer = rag.NewIndexSyncManager("salary", prof.IndexDir(), index, s)
	s.engine = rag.NewSearchEngine("salary", embedder, index, s.syncer, s)
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

// IngestRequest is one user-submitted salary observation. ExperienceLevel is
// optional free text ("senior", "cadre supérieur", dataset codes); when set
// it wins over the bucket derived from the years.
type IngestRequest struct {
	JobTitle        string  `json:"job_title"`
	Location        string  `json:"location"`
	ExperienceYears int     `json:"experience_years"`
	ExperienceLevel string  `json:"experience_level"`
	Amount          float64 `json:"amount"` // MAD per month
}

// Ingest validates and stores one observation. Valid observations become
// index chunks; invalid ones are stored for audit but never searched.
func (s *Service) Ingest(ctx context.Context, req *IngestRequest) (*store.SalaryObservation, error) {
	jobTitle := strings.Join(strings.Fields(req.JobTitle), " ")
	if jobTitle == "" {
		return nil, errors.New("job title is required")
	}
	if req.Amount <= 0 {
		return nil, errors.New("amount must be positive")
	}

	loc := Resolve(req.Location)
	level := ExperienceBucket(req.ExperienceYears)
	if strings.TrimSpace(req.ExperienceLevel) != "" {
		level = NormalizeLevel(req.ExperienceLevel)
	}
	verdict := s.gate.Evaluate(ctx, jobTitle, loc, req.ExperienceYears, req.Amount)

	observation, err := s.store.CreateSalaryObservation(ctx, &store.SalaryObservation{
		UID:             shortuuid.New(),
		CreatedTs:       time.Now().Unix(),
		JobTitle:        jobTitle,
		RawLocation:     req.Location,
		City:            loc.City,
		Country:         loc.Country,
		Market:          loc.Market,
		ExperienceYears: int32(req.ExperienceYears),
		ExperienceLevel: level,
		Amount:          req.Amount,
		EstimatedMin:    verdict.EstimatedMin,
		EstimatedMax:    verdict.EstimatedMax,
		Status:          verdict.Status,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create salary observation")
	}

	if observation.Status == store.SalaryStatusValid {
		if err := s.chunkObservation(ctx, observation); err != nil {
			// The rebuild pass picks the observation up later.
			slog.Warn("failed to chunk salary observation", "observation", observation.ID, "error", err)
		}
		s.syncer.Invalidate()
		s.syncer.RebuildAsync()
	}
	return observation, nil
}

// EstimateRange asks the generation model for a plausible range when no
// comparable observations exist.
func (s *Service) EstimateRange(ctx context.Context, jobTitle, location string, years int, claimed float64) (float64, float64, error) {
	prompt := fmt.Sprintf(`Tu es un expert RH. Estime une fourchette de salaire réaliste en MAD/mois pour ce profil:

- Poste: %s
- Localisation: %s
- Expérience: %d ans
- Salaire déclaré: %d MAD/mois

Réponds UNIQUEMENT avec ce JSON:
{"salaire_min": <nombre>, "salaire_max": <nombre>}`, jobTitle, location, years, int(claimed))

	output, err := s.generator.Generate(ctx, []ai.Message{ai.UserMessage(prompt)})
	if err != nil {
		return 0, 0, ragerrors.GenerationFailed(err)
	}

	var estimate struct {
		Min float64 `json:"salaire_min"`
		Max float64 `json:"salaire_max"`
	}
	if err := ai.DecodeJSONObject(output, &estimate); err != nil {
		return 0, 0, errors.Wrap(err, "failed to decode range estimate")
	}
	if estimate.Min <= 0 || estimate.Max <= 0 || estimate.Max < estimate.Min {
		return 0, 0, errors.Errorf("implausible range estimate: %f-%f", estimate.Min, estimate.Max)
	}
	return estimate.Min, estimate.Max, nil
}

// AnalyzeRequest asks where a salary sits relative to the market.
type AnalyzeRequest struct {
	JobTitle        string  `json:"job_title"`
	Location        string  `json:"location"`
	ExperienceYears int     `json:"experience_years"`
	CurrentSalary   float64 `json:"current_salary"` // MAD per month
}

// Analyze benchmarks a salary against the observation corpus. With enough
// comparable observations the numbers come from real data and the model
// only narrates; with too few the model estimates and says so; with no
// model at all a fixed fallback still produces a usable answer.
func (s *Service) Analyze(ctx context.Context, req *AnalyzeRequest) (*Analysis, error) {
	jobTitle := strings.Join(strings.Fields(req.JobTitle), " ")
	loc := Resolve(req.Location)

	comparables, err := s.comparableObservations(ctx, jobTitle, loc, req.ExperienceYears)
	if err != nil {
		return nil, err
	}

	if len(comparables) < minAnalyzable {
		if rc, ok := observability.FromContext(ctx); ok {
			rc.Debug("too few comparables, falling back to model estimation",
				slog.Int("comparables", len(comparables)))
		}
		return s.analyzeWithoutData(ctx, jobTitle, req.Location, req.ExperienceYears, req.CurrentSalary, loc.Market), nil
	}

	amounts := make([]float64, len(comparables))
	markets := make([]string, len(comparables))
	for i, c := range comparables {
		amounts[i] = c.observation.Amount
		markets[i] = c.observation.Market
	}
	stats := rag.Aggregate(amounts)
	percentile := salaryPosition(req.CurrentSalary, stats.Min, stats.Max)
	market := rag.DominantMarket(markets)

	neighbors := make([]Neighbor, 0, neighborLimit)
	for _, c := range comparables {
		if len(neighbors) == neighborLimit {
			break
		}
		neighbors = append(neighbors, Neighbor{
			Title:           c.observation.JobTitle,
			Location:        c.observation.City,
			Country:         c.observation.Country,
			Market:          c.observation.Market,
			ExperienceLevel: c.observation.ExperienceLevel,
			SalaryMADMonth:  int(c.observation.Amount),
			Score:           float64(c.score),
		})
	}

	prompt := analysisPrompt(jobTitle, req.Location, req.ExperienceYears, req.CurrentSalary, stats, percentile, market, neighbors)
	output, err := s.generator.Generate(ctx, []ai.Message{ai.UserMessage(prompt)})
	if err != nil {
		slog.Warn("salary analysis narration failed", "error", err)
		return statsFallback(req.CurrentSalary, stats, percentile, market), nil
	}

	var analysis Analysis
	if err := ai.DecodeJSONObject(output, &analysis); err != nil {
		slog.Warn("salary analysis response unparseable", "error", err)
		return statsFallback(req.CurrentSalary, stats, percentile, market), nil
	}
	// The numbers are ours, not the model's.
	analysis.Percentile = percentile
	analysis.DataQuality.Source = "salary_dataset"
	analysis.DataQuality.Unit = "MAD/mois"
	analysis.DataQuality.SampleSize = stats.Count
	analysis.DataQuality.MarketAnalyzed = market
	analysis.MarketUsed = market
	return &analysis, nil
}

func (s *Service) analyzeWithoutData(ctx context.Context, jobTitle, location string, years int, claimed float64, market string) *Analysis {
	prompt := llmOnlyPrompt(jobTitle, location, years, claimed, market)
	output, err := s.generator.Generate(ctx, []ai.Message{ai.UserMessage(prompt)})
	if err != nil {
		slog.Warn("dataless salary analysis failed", "error", err)
		return minimalFallback(claimed, market)
	}
	var analysis Analysis
	if err := ai.DecodeJSONObject(output, &analysis); err != nil {
		slog.Warn("dataless salary analysis unparseable", "error", err)
		return minimalFallback(claimed, market)
	}
	analysis.DataQuality.Source = "LLM estimation"
	analysis.DataQuality.Unit = "MAD/mois"
	analysis.DataQuality.SampleSize = 0
	analysis.DataQuality.MarketAnalyzed = market
	analysis.MarketUsed = market
	return &analysis
}

// scoredObservation pairs an observation with its best similarity score.
type scoredObservation struct {
	observation *store.SalaryObservation
	score       float32
}

// comparableObservations searches the index and narrows the hits
// progressively: same city first, then same country, then same market. The
// first tier holding enough observations wins; otherwise the widest tier is
// used as-is.
func (s *Service) comparableObservations(ctx context.Context, jobTitle string, loc Location, years int) ([]scoredObservation, error) {
	results, err := s.engine.Search(ctx, s.queryText(jobTitle, loc, years), analyzeSearchK)
	if err != nil {
		return nil, errors.Wrap(err, "salary index search failed")
	}

	seen := map[int32]bool{}
	var all []scoredObservation
	for _, result := range results {
		if seen[result.RecordID] {
			continue
		}
		seen[result.RecordID] = true
		observation, err := s.store.GetSalaryObservation(ctx, &store.FindSalaryObservation{ID: &result.RecordID})
		if err != nil {
			return nil, errors.Wrap(err, "failed to load salary observation")
		}
		if observation == nil {
			continue
		}
		all = append(all, scoredObservation{observation: observation, score: result.Score})
	}

	tiers := []func(*store.SalaryObservation) bool{}
	if loc.City != "" {
		tiers = append(tiers, func(o *store.SalaryObservation) bool { return o.City == loc.City })
	}
	if loc.Country != "" && loc.Country != "Global" {
		tiers = append(tiers, func(o *store.SalaryObservation) bool { return o.Country == loc.Country })
	}
	tiers = append(tiers, func(o *store.SalaryObservation) bool { return o.Market == loc.Market })

	var widest []scoredObservation
	for _, match := range tiers {
		var tier []scoredObservation
		for _, c := range all {
			if match(c.observation) {
				tier = append(tier, c)
			}
		}
		if len(tier) >= minAnalyzable {
			return tier, nil
		}
		if len(tier) > len(widest) {
			widest = tier
		}
	}
	return widest, nil
}

func (s *Service) queryText(jobTitle string, loc Location, years int) string {
	locationContext := loc.City
	if locationContext == "" {
		locationContext = loc.Country
	}
	return fmt.Sprintf("%s | %s | %s | %s | %s", jobTitle, locationContext, loc.Country, loc.Market, YearsLabel(years))
}

// chunkObservation materializes one observation as a single index chunk.
// Idempotent: an already chunked observation is left alone.
func (s *Service) chunkObservation(ctx context.Context, observation *store.SalaryObservation) error {
	kind := store.RecordKindSalary
	count, err := s.store.CountChunks(ctx, &store.FindChunk{RecordKind: &kind, RecordID: &observation.ID})
	if err != nil {
		return errors.Wrap(err, "failed to count chunks")
	}
	if count > 0 {
		return nil
	}

	content := observationChunkContent(observation)
	_, err = s.store.CreateChunk(ctx, &store.Chunk{
		ID:         uuid.NewString(),
		RecordKind: kind,
		RecordID:   observation.ID,
		Position:   0,
		CharCount:  int32(len([]rune(content))),
		WordCount:  int32(len(strings.Fields(content))),
		Content:    content,
		CreatedTs:  time.Now().Unix(),
	})
	return errors.Wrap(err, "failed to create chunk")
}

// observationChunkContent renders the canonical embeddable text for one
// observation. The pipe-delimited shape keeps the fields the retrieval
// queries mention close together in embedding space.
func observationChunkContent(observation *store.SalaryObservation) string {
	locationContext := observation.City
	if locationContext == "" {
		locationContext = observation.Country
	}
	return fmt.Sprintf("Poste: %s | Localisation: %s | Pays: %s | Marché: %s | Experience: %s | Salaire: %d MAD/mois | Fourchette: %d-%d MAD",
		observation.JobTitle,
		locationContext,
		observation.Country,
		observation.Market,
		YearsLabel(int(observation.ExperienceYears)),
		int(observation.Amount),
		int(observation.EstimatedMin),
		int(observation.EstimatedMax),
	)
}

// PrepareCorpus brings the chunk table in line with the observation table:
// every valid observation gets its chunk, every chunk gets its embedding.
func (s *Service) PrepareCorpus(ctx context.Context) error {
	valid := store.SalaryStatusValid
	observations, err := s.store.ListSalaryObservations(ctx, &store.FindSalaryObservation{Status: &valid})
	if err != nil {
		return errors.Wrap(err, "failed to list salary observations")
	}
	for _, observation := range observations {
		if err := s.chunkObservation(ctx, observation); err != nil {
			return err
		}
	}
	return s.embedPending(ctx)
}

func (s *Service) embedPending(ctx context.Context) error {
	kind := store.RecordKindSalary
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

// LoadVectors returns every embedded salary chunk for index building.
func (s *Service) LoadVectors(ctx context.Context) ([]string, [][]float32, error) {
	kind := store.RecordKindSalary
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

// Resolve maps an index hit back to its observation.
func (s *Service) Resolve(ctx context.Context, chunkID string) (*rag.HitMeta, error) {
	chunk, err := s.store.GetChunk(ctx, &store.FindChunk{ID: &chunkID})
	if err != nil {
		return nil, err
	}
	if chunk == nil {
		return nil, nil
	}
	observation, err := s.store.GetSalaryObservation(ctx, &store.FindSalaryObservation{ID: &chunk.RecordID})
	if err != nil {
		return nil, err
	}
	if observation == nil {
		return nil, nil
	}
	return &rag.HitMeta{
		ChunkID:     chunk.ID,
		RecordID:    chunk.RecordID,
		RecordLabel: observation.JobTitle,
		Content:     chunk.Content,
		Position:    chunk.Position,
	}, nil
}
