// Package users exposes the JSON API over user records: a listing endpoint
// and a profile-message update. The auth core owns the underlying
// repository; this package is a thin HTTP layer over it.
package users

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solenne/atelier/internal/apperror"
	"github.com/solenne/atelier/internal/auth"
	"github.com/solenne/atelier/internal/sanitize"
)

// userView is the public shape of a user record. Deliberately excludes
// everything credential-adjacent.
type userView struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// messageRequest is the body of POST /api/users/message.
type messageRequest struct {
	ID      int64  `json:"id"`
	Content string `json:"content"`
}

// Handler handles the user JSON API.
type Handler struct {
	repo auth.UserRepository
}

// NewHandler creates a new users API handler.
func NewHandler(repo auth.UserRepository) *Handler {
	return &Handler{repo: repo}
}

// List serves GET /api/users.
func (h *Handler) List(c echo.Context) error {
	records, err := h.repo.List(c.Request().Context())
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("listing users: %w", err))
	}

	views := make([]userView, 0, len(records))
	for _, u := range records {
		views = append(views, userView{ID: u.ID, Username: u.Username})
	}

	return c.JSON(http.StatusOK, map[string]any{"users": views})
}

// SetMessage serves POST /api/users/message: updates a user's profile text.
// The text is sanitized before storage so stored content is always safe to
// render.
func (h *Handler) SetMessage(c echo.Context) error {
	var req messageRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewBadRequest("invalid request body")
	}

	updated, err := h.repo.UpdateProfileText(c.Request().Context(), req.ID, sanitize.Text(req.Content))
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("updating profile text: %w", err))
	}
	if !updated {
		return apperror.NewNotFound(fmt.Sprintf("user with id %d not found", req.ID))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":  "updated",
		"user_id": req.ID,
	})
}
