package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// ContextKeyUserID is the echo context key carrying the authenticated user id.
const ContextKeyUserID = "user_id"

// Middleware authenticates requests from the Authorization bearer token and
// stores the user id in the request context.
func Middleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			userID, err := VerifyAccessToken(token, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid access token")
			}
			c.Set(ContextKeyUserID, userID)
			return next(c)
		}
	}
}

// UserIDFromContext returns the authenticated user id, or 0 when anonymous.
func UserIDFromContext(c echo.Context) int32 {
	if userID, ok := c.Get(ContextKeyUserID).(int32); ok {
		return userID
	}
	return 0
}
