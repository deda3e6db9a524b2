package art

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the image endpoints. Both are public.
func RegisterRoutes(e *echo.Echo, h *Handler) {
	e.GET("/art", h.Random)
	e.GET("/fractal_art", h.Fractal)
}
