package v1

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/careerlens/careerlens/server/auth"
	"github.com/careerlens/careerlens/store"
)

type signUpRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	AccessToken string        `json:"accessToken"`
	User        *userResponse `json:"user"`
}

type userResponse struct {
	ID       int32  `json:"id"`
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// SignUp creates a user account and returns an access token.
func (s *APIV1Service) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid email address")
	}
	if len(req.Password) < 8 {
		return echo.NewHTTPError(http.StatusBadRequest, "password must be at least 8 characters")
	}

	ctx := c.Request().Context()
	existing, err := s.Store.GetUser(ctx, &store.FindUser{Email: &req.Email})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if existing != nil {
		return echo.NewHTTPError(http.StatusConflict, "email already registered")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to hash password").SetInternal(err)
	}

	now := time.Now().Unix()
	user, err := s.Store.CreateUser(ctx, &store.User{
		CreatedTs:    now,
		UpdatedTs:    now,
		Email:        req.Email,
		Nickname:     req.Nickname,
		PasswordHash: hash,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create user").SetInternal(err)
	}

	return s.respondWithToken(c, user)
}

// SignIn verifies credentials and returns an access token.
func (s *APIV1Service) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request")
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	ctx := c.Request().Context()
	user, err := s.Store.GetUser(ctx, &store.FindUser{Email: &req.Email})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to look up user").SetInternal(err)
	}
	if user == nil || !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid email or password")
	}

	return s.respondWithToken(c, user)
}

func (s *APIV1Service) respondWithToken(c echo.Context, user *store.User) error {
	token, err := auth.GenerateAccessToken(user.ID, user.Email, s.Secret)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue access token").SetInternal(err)
	}
	return c.JSON(http.StatusOK, &authResponse{
		AccessToken: token,
		User: &userResponse{
			ID:       user.ID,
			Email:    user.Email,
			Nickname: user.Nickname,
		},
	})
}
