// Package handler implements the HTTP endpoints of the forum API.
package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// envelope is the {status, message, data} body used by the auth and
// rating endpoints. data may be nil.
func envelope(status bool, message any, data any) echo.Map {
	return echo.Map{"status": status, "message": message, "data": data}
}

// getUserID extracts the authenticated user id the Auth middleware
// stored in the context.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
