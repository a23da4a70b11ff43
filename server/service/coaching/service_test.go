package coaching

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/careerlens/careerlens/internal/profile"
	"github.com/careerlens/careerlens/store"
	"github.com/careerlens/careerlens/store/db/sqlite"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "data"):
		return []float32{1, 0, 0}, nil
	case strings.Contains(lower, "design"):
		return []float32{0, 1, 0}, nil
	default:
		return []float32{0, 0, 1}, nil
	}
}

func (f fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := f.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (fakeEmbedder) Dimensions() int { return 3 }

func newTestService(t *testing.T) *Service {
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

	svc := NewService(stores, prof, fakeEmbedder{}, nil)
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

func TestCreateProfileAndSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateProfile(ctx, &CreateProfileRequest{
		FullName:        "Amina Berrada",
		Title:           "Data Engineer",
		Company:         "Acme",
		Location:        "Casablanca",
		ExperienceYears: 4,
		Skills:          []string{"Python", "SQL"},
	})
	require.NoError(t, err)
	_, err = svc.CreateProfile(ctx, &CreateProfileRequest{
		FullName: "Karim Alaoui",
		Title:    "Product Designer",
		Company:  "Globex",
		Location: "Rabat",
		Skills:   []string{"Figma"},
	})
	require.NoError(t, err)

	matches, err := svc.SearchProfiles(ctx, "data pipelines", 2)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	require.Equal(t, "Amina Berrada", matches[0].Profile.FullName)
	require.Equal(t, []string{"Python", "SQL"}, matches[0].Profile.Skills)
}

func TestCreateProfileRequiresName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateProfile(context.Background(), &CreateProfileRequest{FullName: "  "})
	require.Error(t, err)
}

func TestCareerInsightsWithoutGenerator(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, req := range []*CreateProfileRequest{
		{FullName: "A", Title: "Data Engineer", Company: "Acme", Location: "Casablanca", Skills: []string{"Python", "SQL"}},
		{FullName: "B", Title: "Data Scientist", Company: "Acme", Location: "Casablanca", Skills: []string{"Python"}},
		{FullName: "C", Title: "Data Engineer", Company: "Globex", Location: "Rabat", Skills: []string{"Spark", "Python"}},
	} {
		_, err := svc.CreateProfile(ctx, req)
		require.NoError(t, err)
	}

	insights, err := svc.CareerInsights(ctx, &InsightsRequest{Goal: "devenir data engineer", Skills: []string{"Python"}})
	require.NoError(t, err)
	require.Equal(t, 3, insights.MatchedProfiles)
	require.Equal(t, "Python", insights.PopularSkills[0].Label)
	require.Equal(t, 3, insights.PopularSkills[0].Count)
	require.Contains(t, insights.CareerPaths, "Data Engineer")
	require.Equal(t, "Acme", insights.TargetCompanies[0].Label)
	require.Empty(t, insights.Narrative)
}

func TestProfileTextIncludesSkillsAndExperience(t *testing.T) {
	text := profileText(&store.CandidateProfile{
		FullName:        "Amina Berrada",
		Title:           "Data Engineer",
		Skills:          []string{"Python", "SQL"},
		ExperienceYears: 4,
	})
	require.Contains(t, text, "Data Engineer")
	require.Contains(t, text, "Python SQL")
	require.Contains(t, text, "4 ans expérience")
}
