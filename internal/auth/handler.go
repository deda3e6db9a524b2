package auth

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solenne/atelier/internal/apperror"
	"github.com/solenne/atelier/internal/middleware"
	"github.com/solenne/atelier/internal/templates/pages"
)

// Handler handles HTTP requests for authentication (login, register, logout).
// Handlers are thin: they bind the request, drive the façade or repository,
// and render the response. No business logic lives here.
type Handler struct {
	repo UserRepository
}

// NewHandler creates a new auth handler.
func NewHandler(repo UserRepository) *Handler {
	return &Handler{repo: repo}
}

// LoginForm renders the login page (GET /login).
func (h *Handler) LoginForm(c echo.Context) error {
	// Already signed in -- nothing to do here.
	if Get(c).CurrentUser() != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return middleware.Render(c, http.StatusOK, pages.Login("", ""))
}

// Login processes the login form submission (POST /login).
func (h *Handler) Login(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	if err := Get(c).Login(c.Request().Context(), creds); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
			// Validation and auth failures re-render the form. The message
			// is already client-safe and never says which part was wrong.
			return middleware.Render(c, appErr.Code, pages.Login(creds.Username, appErr.Message))
		}
		// Store/crypto failure -- let the central handler log and 500.
		return err
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// RegisterForm renders the registration page (GET /register).
func (h *Handler) RegisterForm(c echo.Context) error {
	if Get(c).CurrentUser() != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return middleware.Render(c, http.StatusOK, pages.Register("", ""))
}

// Register processes the registration form submission (POST /register).
// The password is hashed before the insert; a duplicate username comes back
// from the store as a conflict and is shown on the form rather than being
// swallowed into a generic failure.
func (h *Handler) Register(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return apperror.NewBadRequest("invalid request")
	}

	if msg := validateCredentials(creds); msg != "" {
		return middleware.Render(c, http.StatusUnprocessableEntity, pages.Register(creds.Username, msg))
	}

	hash, err := HashPassword(creds.Password)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("hashing password: %w", err))
	}

	if _, err := h.repo.Insert(c.Request().Context(), creds.Username, hash); err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == http.StatusConflict {
			return middleware.Render(c, appErr.Code, pages.Register(creds.Username, appErr.Message))
		}
		return apperror.NewInternal(fmt.Errorf("registering %q: %w", creds.Username, err))
	}

	return c.Redirect(http.StatusSeeOther, "/login")
}

// Logout destroys the session and clears the cookie (GET /logout).
func (h *Handler) Logout(c echo.Context) error {
	Get(c).Logout(c.Request().Context())
	return c.Redirect(http.StatusSeeOther, "/")
}

// validateCredentials performs basic server-side validation on the
// registration form. Returns an error message or empty string.
func validateCredentials(creds Credentials) string {
	if creds.Username == "" {
		return "username is required"
	}
	if len(creds.Username) > 64 {
		return "username must be at most 64 characters"
	}
	if creds.Password == "" {
		return "password is required"
	}
	if len(creds.Password) < 8 {
		return "password must be at least 8 characters"
	}
	if len(creds.Password) > 128 {
		return "password must be at most 128 characters"
	}
	return ""
}
