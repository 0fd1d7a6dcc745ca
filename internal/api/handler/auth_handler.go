package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ventanilla/pqrsd-portal/internal/api/metrics"
	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
	"github.com/ventanilla/pqrsd-portal/internal/core/ports"
)

// SessionManager is the slice of the session manager the auth handler needs.
type SessionManager interface {
	Login(ctx context.Context, creds ports.Credentials) (*domain.Session, error)
	Logout(ctx context.Context, handle string)
}

type AuthHandler struct {
	sessions SessionManager
}

func NewAuthHandler(sessions SessionManager) *AuthHandler {
	return &AuthHandler{sessions: sessions}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionResponse struct {
	Handle     string                   `json:"handle,omitempty"`
	Actor      domain.Actor             `json:"actor"`
	Dashboards []domain.Resource        `json:"dashboards"`
	Landing    string                   `json:"landing,omitempty"`
	Perms      []domain.PermissionEntry `json:"permissions"`
}

func toSessionResponse(sess *domain.Session, includeHandle bool) sessionResponse {
	resp := sessionResponse{
		Actor:      sess.Actor,
		Dashboards: sess.Dashboards(),
		Perms:      sess.Permissions,
	}
	if includeHandle {
		resp.Handle = sess.Handle
	}
	// The first dashboard grant decides where the client lands after login.
	// No grant means the neutral landing page, signalled by an empty string.
	if len(resp.Dashboards) > 0 {
		resp.Landing = string(resp.Dashboards[0])
	}
	return resp
}

// Login authenticates against the auth collaborator and opens a session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      503   {object}  map[string]string
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// A login from a client that still holds a session replaces it; the old
	// session is closed first so its renewal loop stops.
	if old := bearerHandle(c); old != "" {
		h.sessions.Logout(c.Request().Context(), old)
	}

	sess, err := h.sessions.Login(c.Request().Context(), ports.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginResult(err)).Inc()
		return err
	}

	metrics.LoginsTotal.WithLabelValues("ok").Inc()
	return c.JSON(http.StatusOK, toSessionResponse(sess, true))
}

// Logout closes the caller's session. Always succeeds: whatever state the
// handle is in, the portal forgets it, so a retry or a stale tab cannot fail.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if handle := bearerHandle(c); handle != "" {
		h.sessions.Logout(c.Request().Context(), handle)
	}
	return c.NoContent(http.StatusNoContent)
}

// Session describes the caller's live session.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  sessionResponse
// @Failure      401  {object}  map[string]string
// @Router       /v1/auth/session [get]
func (h *AuthHandler) Session(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(sess, false))
}

func loginResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "rejected"
	case errors.Is(err, domain.ErrServiceUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// bearerHandle reads the session handle off the Authorization header, or ""
// when absent or malformed.
func bearerHandle(c echo.Context) string {
	parts := strings.SplitN(c.Request().Header.Get("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
