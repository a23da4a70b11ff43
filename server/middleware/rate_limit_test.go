package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestAllowExhaustsBurst(t *testing.T) {
	rl := NewRateLimiter(1, 2)

	require.True(t, rl.Allow("key"))
	require.True(t, rl.Allow("key"))
	require.False(t, rl.Allow("key"))

	// Other keys keep their own budget.
	require.True(t, rl.Allow("other"))
}

func TestNewRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	require.Equal(t, 10, rl.rps)
	require.Equal(t, 20, rl.burst)
}

func TestRateLimitMiddlewareKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)
	e := echo.New()
	handler := RateLimit(rl)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	serve := func(userID int32) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if userID != 0 {
			c.Set("user_id", userID)
		}
		if err := handler(c); err != nil {
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			return httpErr.Code
		}
		return rec.Code
	}

	// Anonymous requests share the client IP budget.
	require.Equal(t, http.StatusOK, serve(0))
	require.Equal(t, http.StatusTooManyRequests, serve(0))

	// An authenticated user is keyed separately from the IP.
	require.Equal(t, http.StatusOK, serve(42))
	require.Equal(t, http.StatusTooManyRequests, serve(42))
	require.Equal(t, http.StatusOK, serve(7))
}
