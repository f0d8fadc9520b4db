package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/arnaupv/forum-api/internal/repository"
	"github.com/arnaupv/forum-api/internal/utils"
)

// Auth returns middleware that validates a Bearer token and injects the
// caller's identity into the request context under "user_id" (uint64)
// and "role" (uint8). A token must pass two checks: its HS256 signature
// against the configured secret, and a live row in the access_tokens
// table. The second check is what makes login's revoke-all-then-issue
// semantics observable: a structurally valid JWT issued before the most
// recent login is rejected here.
func Auth(secret string, tokens *repository.TokenRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
			}
			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
			}

			userID, err := tokens.Validate(c.Request().Context(), utils.HashToken(raw))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"message": "User not authenticated"})
			}

			role := uint8(0)
			if v, ok := claims["role"].(float64); ok {
				role = uint8(v)
			}
			c.Set("user_id", userID)
			c.Set("role", role)
			c.Set("token_hash", utils.HashToken(raw))
			return next(c)
		}
	}
}
