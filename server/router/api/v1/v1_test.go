package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/careerlens/careerlens/internal/profile"
	"github.com/careerlens/careerlens/server/auth"
	"github.com/careerlens/careerlens/store"
	"github.com/careerlens/careerlens/store/db/sqlite"
)

func newTestAPI(t *testing.T) (*APIV1Service, *echo.Echo) {
	t.Helper()
	prof := &profile.Profile{
		Mode:           "dev",
		Driver:         "sqlite",
		DSN:            filepath.Join(t.TempDir(), "test.db"),
		Data:           t.TempDir(),
		Version:        "test",
		AIEmbeddingDim: 3,
	}
	driver, err := sqlite.NewDB(prof)
	require.NoError(t, err)
	require.NoError(t, driver.Migrate(context.Background()))
	stores := store.New(driver, prof)
	t.Cleanup(func() { _ = stores.Close() })

	service := NewAPIV1Service("test-secret", prof, stores)
	t.Cleanup(service.Close)
	e := echo.New()
	service.Register(e)
	return service, e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSignUpAndSignIn(t *testing.T) {
	_, e := newTestAPI(t)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/auth/register",
		`{"email":"amina@example.com","nickname":"amina","password":"hunter2hunter2"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var signedUp authResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &signedUp))
	require.NotEmpty(t, signedUp.AccessToken)
	require.Equal(t, "amina@example.com", signedUp.User.Email)

	// Duplicate registration is rejected.
	rec = doJSON(t, e, http.MethodPost, "/api/v1/auth/register",
		`{"email":"amina@example.com","password":"hunter2hunter2"}`, "")
	require.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/v1/auth/login",
		`{"email":"amina@example.com","password":"hunter2hunter2"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/v1/auth/login",
		`{"email":"amina@example.com","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignUpValidation(t *testing.T) {
	_, e := newTestAPI(t)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/auth/register",
		`{"email":"not-an-email","password":"hunter2hunter2"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/v1/auth/register",
		`{"email":"amina@example.com","password":"short"}`, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthenticatedRoutesRequireToken(t *testing.T) {
	_, e := newTestAPI(t)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/documents", `{"title":"t","content":"c"}`, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/v1/documents", `{"title":"t","content":"c"}`, "garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRAGEndpointsUnavailableWithoutAI(t *testing.T) {
	_, e := newTestAPI(t)

	token, err := auth.GenerateAccessToken(1, "amina@example.com", "test-secret")
	require.NoError(t, err)

	rec := doJSON(t, e, http.MethodPost, "/api/v1/documents", `{"title":"t","content":"c"}`, token)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = doJSON(t, e, http.MethodPost, "/api/v1/documents/search", `{"query":"q"}`, "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetStatus(t *testing.T) {
	_, e := newTestAPI(t)

	rec := doJSON(t, e, http.MethodGet, "/api/v1/status", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status statusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	require.Equal(t, "test", status.Version)
	require.False(t, status.AIEnabled)
	require.NotNil(t, status.Metrics)
}
