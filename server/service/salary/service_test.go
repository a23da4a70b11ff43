package salary

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/careerlens/careerlens/internal/profile"
	"github.com/careerlens/careerlens/plugin/ai"
	ragerrors "github.com/careerlens/careerlens/server/internal/errors"
	"github.com/careerlens/careerlens/store"
	"github.com/careerlens/careerlens/store/db/sqlite"
)

// fixedEmbedder returns the same unit vector for every text.
type fixedEmbedder struct{}

func (fixedEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (f fixedEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0, 0}
	}
	return out, nil
}

func (fixedEmbedder) Dimensions() int { return 3 }

// fixedGenerator returns a canned completion, or an error.
type fixedGenerator struct {
	output string
	err    error
}

func (g *fixedGenerator) Generate(context.Context, []ai.Message) (string, error) {
	if g.err != nil {
		return "", g.err
	}
	return g.output, nil
}

func newIngestTestService(t *testing.T, generator ai.GenerationService) *Service {
	t.Helper()
	prof := &profile.Profile{
		Mode:           "dev",
		Driver:         "sqlite",
		DSN:            filepath.Join(t.TempDir(), "test.db"),
		Data:           t.TempDir(),
		AIEmbeddingDim: 3,
	}
	require.NoError(t, os.MkdirAll(prof.IndexDir(), 0o770))
	driver, err := sqlite.NewDB(prof)
	require.NoError(t, err)
	require.NoError(t, driver.Migrate(context.Background()))
	stores := store.New(driver, prof)
	t.Cleanup(func() { _ = stores.Close() })

	svc := NewService(stores, prof, fixedEmbedder{}, generator)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestObservationChunkContent(t *testing.T) {
	observation := &store.SalaryObservation{
		JobTitle:        "Data Engineer",
		City:            "Casablanca",
		Country:         "Maroc",
		Market:          "Marché Maghreb",
		ExperienceYears: 4,
		Amount:          15000,
		EstimatedMin:    12000,
		EstimatedMax:    18000,
	}
	want := "Poste: Data Engineer | Localisation: Casablanca | Pays: Maroc | Marché: Marché Maghreb | Experience: 3-5 ans | Salaire: 15000 MAD/mois | Fourchette: 12000-18000 MAD"
	require.Equal(t, want, observationChunkContent(observation))
}

func TestObservationChunkContentCountryOnly(t *testing.T) {
	observation := &store.SalaryObservation{
		JobTitle:        "Data Engineer",
		Country:         "France",
		Market:          "Marché Européen",
		ExperienceYears: 12,
		Amount:          40000,
		EstimatedMin:    35000,
		EstimatedMax:    50000,
	}
	require.Contains(t, observationChunkContent(observation), "Localisation: France")
	require.Contains(t, observationChunkContent(observation), "Experience: 10+ ans")
}

func TestSalaryPosition(t *testing.T) {
	tests := []struct {
		claimed, min, max float64
		want              int
	}{
		{15000, 10000, 20000, 50},
		{10000, 10000, 20000, 0},
		{20000, 10000, 20000, 100},
		{5000, 10000, 20000, 0},    // below range clamps
		{50000, 10000, 20000, 100}, // above range clamps
		{12500, 10000, 20000, 25},
		{10000, 10000, 10000, 0}, // degenerate range
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, salaryPosition(tt.claimed, tt.min, tt.max), "claimed=%v", tt.claimed)
	}
}

func TestIngestNormalizesTextualLevel(t *testing.T) {
	generator := &fixedGenerator{output: `{"salaire_min": 8000, "salaire_max": 12000}`}
	svc := newIngestTestService(t, generator)

	observation, err := svc.Ingest(context.Background(), &IngestRequest{
		JobTitle:        "Data Engineer",
		Location:        "Casablanca",
		ExperienceYears: 4,
		ExperienceLevel: "Cadre supérieur",
		Amount:          10000,
	})
	require.NoError(t, err)
	require.Equal(t, "expert", observation.ExperienceLevel)
	require.Equal(t, store.SalaryStatusValid, observation.Status)
}

func TestIngestBucketsLevelFromYears(t *testing.T) {
	generator := &fixedGenerator{output: `{"salaire_min": 8000, "salaire_max": 12000}`}
	svc := newIngestTestService(t, generator)

	observation, err := svc.Ingest(context.Background(), &IngestRequest{
		JobTitle:        "Data Engineer",
		Location:        "Casablanca",
		ExperienceYears: 4,
		Amount:          10000,
	})
	require.NoError(t, err)
	require.Equal(t, "intermediate", observation.ExperienceLevel)
}

func TestAnalyzeWithoutDataFallsBackToMinimal(t *testing.T) {
	generator := &fixedGenerator{err: errors.New("provider down")}
	svc := newIngestTestService(t, generator)

	analysis, err := svc.Analyze(context.Background(), &AnalyzeRequest{
		JobTitle:        "Data Engineer",
		Location:        "Casablanca",
		ExperienceYears: 4,
		CurrentSalary:   10000,
	})
	require.NoError(t, err)
	require.Equal(t, 50, analysis.Percentile)
	require.InDelta(t, 8000, analysis.Minimum, 1e-9)
	require.InDelta(t, 12000, analysis.Maximum, 1e-9)
	require.Equal(t, "Marché Maghreb", analysis.MarketUsed)
}

func TestEstimateRangeCodesGenerationFailure(t *testing.T) {
	generator := &fixedGenerator{err: errors.New("provider down")}
	svc := newIngestTestService(t, generator)

	_, _, err := svc.EstimateRange(context.Background(), "Data Engineer", "Casablanca", 4, 10000)
	require.Error(t, err)
	require.True(t, ragerrors.IsCode(err, ragerrors.ErrCodeGenerationFailed))
}
