package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/ventanilla/pqrsd-portal/internal/core/domain"
)

// Require enforces that the session holds the exact (resource, action) tuple.
// Run after Session. There is no role-based shortcut here: an administrator
// without the tuple is refused like anyone else.
func Require(resource domain.Resource, action domain.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, _ := c.Get(SessionKey).(*domain.Session)
			if !sess.Can(resource, action) {
				return domain.ErrUnauthorized
			}
			return next(c)
		}
	}
}
