package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/careerlens/careerlens/server/auth"
	ragerrors "github.com/careerlens/careerlens/server/internal/errors"
	"github.com/careerlens/careerlens/server/internal/observability"
	"github.com/careerlens/careerlens/server/service/coaching"
)

// CreateProfile ingests one candidate profile into the coaching corpus.
func (s *APIV1Service) CreateProfile(c echo.Context) error {
	if err := s.requireRAG(); err != nil {
		return err
	}

	var req coaching.CreateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	req.CreatorID = auth.UserIDFromContext(c)

	candidate, err := s.CoachingService.CreateProfile(c.Request().Context(), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{
		"uid":       candidate.UID,
		"full_name": candidate.FullName,
	})
}

// GetCareerInsights extracts insights from profiles similar to a career goal.
func (s *APIV1Service) GetCareerInsights(c echo.Context) error {
	if err := s.requireRAG(); err != nil {
		return err
	}

	var req coaching.InsightsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	if req.Goal == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "goal is required")
	}

	metrics := observability.GlobalMetrics()
	metrics.RecordRequest("coaching_insights")
	rc := observability.NewRequestContext(slog.Default(), "coaching_insights", auth.UserIDFromContext(c))
	ctx := observability.WithRequestContext(c.Request().Context(), rc)

	insights, err := s.CoachingService.CareerInsights(ctx, &req)
	metrics.RecordDuration("coaching_insights", rc.Duration())
	if err != nil {
		metrics.RecordFailure("coaching_insights")
		rc.Error("career insights failed", err)
		if ragerrors.IsCode(err, ragerrors.ErrCodeIndexUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "profile index unavailable").SetInternal(err)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "insights failed").SetInternal(err)
	}
	rc.Info("career insights served",
		slog.Int("matched_profiles", insights.MatchedProfiles),
		slog.Int64(observability.LogFieldDuration, rc.DurationMs()))

	return c.JSON(http.StatusOK, insights)
}
