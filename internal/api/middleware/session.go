package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ventanilla/pqrsd-portal/internal/api/metrics"
	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

// SessionKey is the context key under which the resolved session is stored.
const SessionKey = "session"

// SessionReader resolves a handle to its live session. Implemented by the
// session manager.
type SessionReader interface {
	Get(handle string) (*domain.Session, error)
}

// Session resolves the bearer handle on the Authorization header to a live
// session and injects it into the request context. A missing, malformed or
// stale handle yields 401; the client is expected to return to login.
func Session(sessions SessionReader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			handle, err := bearerHandle(c)
			if err != nil {
				return err
			}

			sess, err := sessions.Get(handle)
			if err != nil {
				if errors.Is(err, domain.ErrStaleSession) {
					metrics.StaleSessionsTotal.Inc()
					return echo.NewHTTPError(http.StatusUnauthorized, "no active session")
				}
				return err
			}

			c.Set(SessionKey, sess)
			return next(c)
		}
	}
}

func bearerHandle(c echo.Context) (string, error) {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}
	return parts[1], nil
}
