package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/careerlens/careerlens/server/internal/observability"
	"github.com/careerlens/careerlens/server/rag"
	"github.com/careerlens/careerlens/store"
)

type indexStatus struct {
	Ready      bool   `json:"ready"`
	Size       int    `json:"size"`
	Dimensions int    `json:"dimensions"`
	Version    uint64 `json:"version"`
	VectorPath string `json:"vectorPath"`
	IDMapPath  string `json:"idMapPath"`
}

type statusResponse struct {
	Version            string                         `json:"version"`
	AIEnabled          bool                           `json:"aiEnabled"`
	Indexes            map[string]*indexStatus        `json:"indexes,omitempty"`
	MarketDistribution map[string]int                 `json:"marketDistribution,omitempty"`
	Metrics            *observability.MetricsSnapshot `json:"metrics"`
}

// GetStatus reports server health: index readiness, artifact locations,
// market distribution of the salary corpus and request counters.
func (s *APIV1Service) GetStatus(c echo.Context) error {
	resp := &statusResponse{
		Version:   s.Profile.Version,
		AIEnabled: s.Profile.IsAIEnabled(),
		Metrics:   observability.GlobalMetrics().Snapshot(),
	}

	if s.DocumentService != nil {
		resp.Indexes = map[string]*indexStatus{
			"document": s.indexStatus(s.DocumentService.Engine()),
			"salary":   s.indexStatus(s.SalaryService.Engine()),
			"profile":  s.indexStatus(s.CoachingService.Engine()),
		}

		valid := store.SalaryStatusValid
		observations, err := s.Store.ListSalaryObservations(c.Request().Context(), &store.FindSalaryObservation{Status: &valid})
		if err == nil {
			distribution := make(map[string]int)
			for _, observation := range observations {
				distribution[observation.Market]++
			}
			resp.MarketDistribution = distribution
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *APIV1Service) indexStatus(engine *rag.SearchEngine) *indexStatus {
	index := engine.Index()
	vectorPath, idMapPath := index.ArtifactPaths(s.Profile.IndexDir())
	return &indexStatus{
		Ready:      engine.Ready(),
		Size:       index.Size(),
		Dimensions: index.Dimensions(),
		Version:    index.Version(),
		VectorPath: vectorPath,
		IDMapPath:  idMapPath,
	}
}
