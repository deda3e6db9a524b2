package app

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solenne/atelier/internal/art"
	"github.com/solenne/atelier/internal/auth"
	"github.com/solenne/atelier/internal/middleware"
	"github.com/solenne/atelier/internal/templates/pages"
	"github.com/solenne/atelier/internal/users"
)

// RegisterRoutes wires the feature packages together and sets up all
// application routes. This is the single place where the dependency graph
// is assembled: repository -> backend -> session manager -> handlers.
func (a *App) RegisterRoutes() {
	e := a.Echo

	userRepo := auth.NewUserRepository(a.DB)
	backend := auth.NewBackend(userRepo)
	sessions := auth.NewManager(a.SessionStore, a.Config.Session.TTL)

	// Every route sees the session; only the API group demands one.
	e.Use(auth.WithSession(backend, sessions))

	// --- Pages ---

	e.GET("/", func(c echo.Context) error {
		var username string
		if user := auth.Get(c).CurrentUser(); user != nil {
			username = user.Username
		}
		return middleware.Render(c, http.StatusOK, pages.Home(username))
	})

	// Health check endpoint for container orchestration.
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// --- Auth (login, register, logout) ---

	auth.RegisterRoutes(e, auth.NewHandler(userRepo), a.Redis)

	// --- Generated art ---

	art.RegisterRoutes(e, art.NewHandler())

	// --- JSON API (session required) ---

	api := e.Group("/api", auth.RequireAuth())
	users.RegisterRoutes(api, users.NewHandler(userRepo))
}
