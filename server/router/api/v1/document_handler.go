package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/careerlens/careerlens/server/auth"
	ragerrors "github.com/careerlens/careerlens/server/internal/errors"
	"github.com/careerlens/careerlens/server/service/document"
	"github.com/careerlens/careerlens/store"
)

type documentResponse struct {
	UID       string `json:"uid"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	URL       string `json:"url,omitempty"`
	Source    string `json:"source,omitempty"`
	CreatedTs int64  `json:"createdTs"`
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type searchHit struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Position int32   `json:"position"`
	Score    float64 `json:"score"`
}

// CreateDocument ingests a knowledge-base document.
func (s *APIV1Service) CreateDocument(c echo.Context) error {
	if err := s.requireRAG(); err != nil {
		return err
	}

	var req document.CreateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	req.CreatorID = auth.UserIDFromContext(c)

	doc, err := s.DocumentService.Create(c.Request().Context(), &req)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, toDocumentResponse(doc, false))
}

// ListDocuments lists documents without their bodies.
func (s *APIV1Service) ListDocuments(c echo.Context) error {
	limit := 100
	docs, err := s.Store.ListDocuments(c.Request().Context(), &store.FindDocument{Limit: &limit})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list documents").SetInternal(err)
	}

	out := make([]*documentResponse, len(docs))
	for i, doc := range docs {
		out[i] = toDocumentResponse(doc, true)
	}
	return c.JSON(http.StatusOK, out)
}

// GetDocument returns one document with its body.
func (s *APIV1Service) GetDocument(c echo.Context) error {
	uid := c.Param("uid")
	doc, err := s.Store.GetDocument(c.Request().Context(), &store.FindDocument{UID: &uid})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load document").SetInternal(err)
	}
	if doc == nil {
		return echo.NewHTTPError(http.StatusNotFound, "document not found")
	}
	return c.JSON(http.StatusOK, toDocumentResponse(doc, false))
}

// DeleteDocument removes a document and its chunks.
func (s *APIV1Service) DeleteDocument(c echo.Context) error {
	if err := s.requireRAG(); err != nil {
		return err
	}
	if err := s.DocumentService.Delete(c.Request().Context(), c.Param("uid")); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete document").SetInternal(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchDocuments answers a similarity query over document chunks.
func (s *APIV1Service) SearchDocuments(c echo.Context) error {
	if err := s.requireRAG(); err != nil {
		return err
	}

	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	if req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query is required")
	}
	if req.Limit <= 0 || req.Limit > 50 {
		req.Limit = 5
	}

	results, err := s.DocumentService.Search(c.Request().Context(), req.Query, req.Limit)
	if err != nil {
		if ragerrors.IsCode(err, ragerrors.ErrCodeIndexUnavailable) {
			return echo.NewHTTPError(http.StatusServiceUnavailable, "search index unavailable").SetInternal(err)
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed").SetInternal(err)
	}

	hits := make([]*searchHit, len(results))
	for i, r := range results {
		hits[i] = &searchHit{
			Title:    r.RecordLabel,
			Content:  r.Content,
			Position: r.Position,
			Score:    float64(r.Score),
		}
	}
	return c.JSON(http.StatusOK, hits)
}

func toDocumentResponse(doc *store.Document, omitContent bool) *documentResponse {
	out := &documentResponse{
		UID:       doc.UID,
		Title:     doc.Title,
		URL:       doc.URL,
		Source:    doc.Source,
		CreatedTs: doc.CreatedTs,
	}
	if !omitContent {
		out.Content = doc.Content
	}
	return out
}
