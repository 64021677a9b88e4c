package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an identifier, reusing the one the
// client sent when present. The id is echoed in the response header so
// log lines can be correlated across the gateway and this service.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(requestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			c.Set(requestIDHeader, id)
			c.Response().Header().Set(requestIDHeader, id)
			return next(c)
		}
	}
}
