package users

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up the user API routes on the given group. The group
// is expected to carry the auth requirement already.
func RegisterRoutes(g *echo.Group, h *Handler) {
	g.GET("/users", h.List)
	g.POST("/users/message", h.SetMessage)
}
