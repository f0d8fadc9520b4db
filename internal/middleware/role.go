package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/arnaupv/forum-api/internal/model"
)

// RequireAdmin aborts with 403 unless the authenticated caller carries
// the admin role. It assumes Auth already stored "role" in the context;
// a request that never passed Auth is rejected outright.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(uint8)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
			}
			if role != model.RoleAdmin {
				return c.JSON(http.StatusForbidden, echo.Map{"message": "Admin role required"})
			}
			return next(c)
		}
	}
}
