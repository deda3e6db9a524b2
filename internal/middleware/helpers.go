package middleware

import (
	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Render writes a Templ component to the response with the given status code.
// All HTML endpoints go through this helper so content type and status
// handling stay in one place.
func Render(c echo.Context, statusCode int, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	c.Response().WriteHeader(statusCode)
	return component.Render(c.Request().Context(), c.Response().Writer)
}
