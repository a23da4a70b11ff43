package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/careerlens/careerlens/server/auth"
	ragerrors "github.com/careerlens/careerlens/server/internal/errors"
	"github.com/careerlens/careerlens/server/internal/observability"
	"github.com/careerlens/careerlens/server/service/salary"
	"github.com/careerlens/careerlens/store"
)

type observationResponse struct {
	UID             string  `json:"uid"`
	JobTitle        string  `json:"job_title"`
	City            string  `json:"city,omitempty"`
	Country         string  `json:"country"`
	Market          string  `json:"market"`
	ExperienceLevel string  `json:"experience_level"`
	Amount          float64 `json:"amount"`
	EstimatedMin    float64 `json:"estimated_min"`
	EstimatedMax    float64 `json:"estimated_max"`
	Status          string  `json:"status"`
}

// IngestSalary stores one salary observation after validation.
func (s *APIV1Service) IngestSalary(c echo.Context) error {
	if err := s.requireRAG(); err != nil {
		return err
	}

	var req salary.IngestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}

	metrics := observability.GlobalMetrics()
	metrics.RecordRequest("salary_ingest")
	rc := observability.NewRequestContext(slog.Default(), "salary_ingest", auth.UserIDFromContext(c))
	ctx := observability.WithRequestContext(c.Request().Context(), rc)

	observation, err := s.SalaryService.Ingest(ctx, &req)
	metrics.RecordDuration("salary_ingest", rc.Duration())
	if err != nil {
		metrics.RecordFailure("salary_ingest")
		rc.Error("salary ingestion rejected", err)
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rc.Info("salary observation ingested",
		slog.String("status", string(observation.Status)),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()))

	return c.JSON(http.StatusOK, toObservationResponse(observation))
}

// AnalyzeSalary benchmarks a salary against the observation corpus.
func (s *APIV1Service) AnalyzeSalary(c echo.Context) error {
	if err := s.requireRAG(); err != nil {
		return err
	}

	var req salary.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	if req.JobTitle == "" || req.CurrentSalary <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "job_title and current_salary are required")
	}

	metrics := observability.GlobalMetrics()
	metrics.RecordRequest("salary_analyze")
	rc := observability.NewRequestContext(slog.Default(), "salary_analyze", auth.UserIDFromContext(c))
	ctx := observability.WithRequestContext(c.Request().Context(), rc)

	analysis, err := s.SalaryService.Analyze(ctx, &req)
	metrics.RecordDuration("salary_analyze", rc.Duration())
	if err != nil {
		metrics.RecordFailure("salary_analyze")
		rc.Error("salary analysis failed", err)
		if ragerrors.IsCode(err, ragerrors.ErrCodeIndexUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "salary index unavailable").SetInternal(err)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "analysis failed").SetInternal(err)
	}
	rc.Info("salary analysis served", slog.Int64(observability.LogFieldDuration, rc.DurationMs()))

	return c.JSON(http.StatusOK, analysis)
}

func toObservationResponse(observation *store.SalaryObservation) *observationResponse {
	return &observationResponse{
		UID:             observation.UID,
		JobTitle:        observation.JobTitle,
		City:            observation.City,
		Country:         observation.Country,
		Market:          observation.Market,
		ExperienceLevel: observation.ExperienceLevel,
		Amount:          observation.Amount,
		EstimatedMin:    observation.EstimatedMin,
		EstimatedMax:    observation.EstimatedMax,
		Status:          string(observation.Status),
	}
}
