package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ventanilla/pqrsd-portal/internal/api/middleware"
	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

// ctxSession extracts the session injected by the Session middleware. Its
// presence proves the middleware ran; a handler reached without it is a
// routing mistake and fails closed with 401.
func ctxSession(c echo.Context) (*domain.Session, error) {
	sess, _ := c.Get(middleware.SessionKey).(*domain.Session)
	if sess == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "no active session")
	}
	return sess, nil
}
