// Package v1 exposes the JSON API: auth, documents, salary benchmark and
// career coaching endpoints.
package v1

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/careerlens/careerlens/internal/profile"
	"github.com/careerlens/careerlens/plugin/ai"
	"github.com/careerlens/careerlens/server/auth"
	"github.com/careerlens/careerlens/server/middleware"
	"github.com/careerlens/careerlens/server/service/coaching"
	"github.com/careerlens/careerlens/server/service/document"
	"github.com/careerlens/careerlens/server/service/salary"
	"github.com/careerlens/careerlens/store"
)

type APIV1Service struct {
	Secret  string
	Profile *profile.Profile
	Store   *store.Store

	DocumentService *document.Service
	SalaryService   *salary.Service
	CoachingService *coaching.Service

	rateLimiter *middleware.RateLimiter
}

// NewAPIV1Service wires the RAG services when AI is configured; without AI
// the CRUD endpoints still work and the RAG endpoints answer 503.
func NewAPIV1Service(secret string, prof *profile.Profile, stores *store.Store) *APIV1Service {
	service := &APIV1Service{
		Secret:      secret,
		Profile:     prof,
		Store:       stores,
		rateLimiter: middleware.NewRateLimiter(10, 20),
	}

	if prof.IsAIEnabled() {
		aiConfig := ai.NewConfigFromProfile(prof)
		if err := aiConfig.Validate(); err != nil {
			slog.Warn("AI configuration invalid, RAG endpoints disabled", "error", err)
			return service
		}
		embedder, err := ai.NewEmbeddingService(&aiConfig.Embedding)
		if err != nil {
			slog.Warn("failed to create embedding service, RAG endpoints disabled", "error", err)
			return service
		}
		generator, err := ai.NewGenerationService(&aiConfig.Generation)
		if err != nil {
			slog.Warn("failed to create generation service, RAG endpoints disabled", "error", err)
			return service
		}

		service.DocumentService = document.NewService(stores, prof, embedder)
		service.SalaryService = salary.NewService(stores, prof, embedder, generator)
		service.CoachingService = coaching.NewService(stores, prof, embedder, generator)
	}
	return service
}

// Register mounts all routes on the echo server.
func (s *APIV1Service) Register(e *echo.Echo) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	apiGroup := e.Group("/api/v1")
	apiGroup.Use(middleware.RateLimit(s.rateLimiter))

	// Public routes.
	apiGroup.POST("/auth/register", s.SignUp)
	apiGroup.POST("/auth/login", s.SignIn)
	apiGroup.GET("/status", s.GetStatus)
	apiGroup.GET("/documents", s.ListDocuments)
	apiGroup.GET("/documents/:uid", s.GetDocument)
	apiGroup.POST("/documents/search", s.SearchDocuments)
	apiGroup.POST("/salary/analyze", s.AnalyzeSalary)
	apiGroup.POST("/coaching/insights", s.GetCareerInsights)

	// Authenticated routes.
	authGroup := e.Group("/api/v1", auth.Middleware(s.Secret))
	authGroup.Use(middleware.RateLimit(s.rateLimiter))
	authGroup.POST("/documents", s.CreateDocument)
	authGroup.DELETE("/documents/:uid", s.DeleteDocument)
	authGroup.POST("/salary/observations", s.IngestSalary)
	authGroup.POST("/profiles", s.CreateProfile)
}

// Close releases the RAG engines.
func (s *APIV1Service) Close() {
	if s.DocumentService != nil {
		_ = s.DocumentService.Close()
	}
	if s.SalaryService != nil {
		_ = s.SalaryService.Close()
	}
	if s.CoachingService != nil {
		_ = s.CoachingService.Close()
	}
}

// requireRAG guards endpoints that need the AI stack.
func (s *APIV1Service) requireRAG() error {
	if s.DocumentService == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "AI features are not configured")
	}
	return nil
}
