package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/printmanage/console/internal/api/metrics"
	"github.com/printmanage/console/internal/core/domain"
	"github.com/printmanage/console/internal/core/service"
)

// AuthService is the sign-in surface the handler needs.
type AuthService interface {
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	IssueToken(sess *domain.Session) (string, error)
	Logout(ctx context.Context, id string) error
	UpdatePreferences(ctx context.Context, id string, p service.Preferences) (*domain.Session, error)
}

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token   string          `json:"token,omitempty"`
	Session *domain.Session `json:"session,omitempty"`
}

// Login authenticates a user against the store and returns a JWT token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      401   {object}  errorBody
// @Failure      422   {object}  errorBody
// @Failure      502   {object}  errorBody
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}

	sess, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
		}
		return err
	}
	token, err := h.authService.IssueToken(sess)
	if err != nil {
		return err
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, authResponse{Token: token, Session: sess})
}

// Logout forgets the session.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	_, sid, err := ctxSession(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), sid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me returns the current session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Session
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	sess, _, err := ctxSession(c)
	if err != nil {
		return err
	}
	snap := sess.Snapshot()
	return c.JSON(http.StatusOK, &snap)
}

// Preferences switches the dark mode or the active role. The new role
// applies from the next request.
//
// @Summary      Update session preferences
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      service.Preferences  true  "Preferences"
// @Success      200   {object}  authResponse
// @Failure      403   {object}  errorBody
// @Router       /auth/preferences [put]
func (h *AuthHandler) Preferences(c echo.Context) error {
	_, sid, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req service.Preferences
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	sess, err := h.authService.UpdatePreferences(c.Request().Context(), sid, req)
	if err != nil {
		return err
	}
	token, err := h.authService.IssueToken(sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse{Token: token, Session: sess})
}
