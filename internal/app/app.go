// Package app is the application bootstrap and dependency injection root.
// It creates and holds all shared infrastructure (DB pool, Redis client,
// Echo instance) and wires together the feature packages.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/solenne/atelier/internal/apperror"
	"github.com/solenne/atelier/internal/auth"
	"github.com/solenne/atelier/internal/config"
	"github.com/solenne/atelier/internal/middleware"
	"github.com/solenne/atelier/internal/templates/pages"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	// Config holds the loaded application configuration.
	Config *config.Config

	// DB is the MariaDB connection pool shared by all packages.
	DB *sql.DB

	// Redis is the Redis client backing the rate limiter.
	Redis *redis.Client

	// Echo is the HTTP server instance.
	Echo *echo.Echo

	// SessionStore is the session persistence layer. Exposed so main can
	// hand it to the reaper task it owns.
	SessionStore auth.SessionStore
}

// New creates a new App instance with the given dependencies and configures
// the Echo server with global middleware and error handling.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client) *App {
	e := echo.New()

	// Disable Echo's default banner and startup message -- we log our own.
	e.HideBanner = true
	e.HidePort = true

	// Trust forwarding headers only from local/container networks so
	// RealIP() reflects the actual client behind a reverse proxy.
	middleware.TrustedProxies(e, []string{
		"127.0.0.0/8",
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"fd00::/8",
	})

	app := &App{
		Config:       cfg,
		DB:           db,
		Redis:        rdb,
		Echo:         e,
		SessionStore: auth.NewSessionStore(db),
	}

	// Global middleware in order of execution: recovery outermost so it
	// catches panics from everything else.
	e.Use(middleware.Recovery())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.SecurityHeaders())

	e.HTTPErrorHandler = app.errorHandler

	return app
}

// errorHandler is the custom Echo error handler. It maps domain errors
// (AppError) to appropriate HTTP responses: JSON under /api, a rendered
// error page for browsers, and a login redirect for browser 401s. Internal
// causes are logged here and never leave the process.
func (a *App) errorHandler(err error, c echo.Context) {
	// Don't double-write if response is already committed.
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "An unexpected error occurred"

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError

	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message

		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.String("message", appErr.Message),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	case errors.As(err, &echoErr):
		// Echo's built-in errors, e.g. 404 from the router.
		code = echoErr.Code
		if msg, ok := echoErr.Message.(string); ok && code != http.StatusNotFound {
			message = msg
		} else {
			message = defaultErrorMessage(code)
		}
	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	// API requests always get JSON.
	if isAPIRequest(c) {
		c.JSON(code, map[string]string{
			"error":   http.StatusText(code),
			"message": message,
		})
		return
	}

	// Browser 401 -- send them to the login page instead of a dead end.
	if code == http.StatusUnauthorized {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}

	middleware.Render(c, code, pages.ErrorPage(code, message))
}

// defaultErrorMessage returns a user-facing message for common HTTP status
// codes when no specific message was provided by the error.
func defaultErrorMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "The request was invalid or cannot be processed."
	case http.StatusUnauthorized:
		return "You need to log in to access this page."
	case http.StatusNotFound:
		return "404: nothing to see here"
	case http.StatusMethodNotAllowed:
		return "This action is not allowed."
	case http.StatusConflict:
		return "This action conflicts with the current state."
	case http.StatusTooManyRequests:
		return "You're making too many requests. Please slow down."
	default:
		return "An unexpected error occurred."
	}
}

// isAPIRequest returns true if the request targets the /api/ path.
func isAPIRequest(c echo.Context) bool {
	path := c.Request().URL.Path
	return len(path) >= 4 && path[:4] == "/api"
}

// Start begins listening for HTTP requests on the configured port.
func (a *App) Start() error {
	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting Atelier server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
	)
	return a.Echo.Start(addr)
}
