// Package auth handles user authentication, session management, and password
// security for Atelier. It provides registration, login, logout, and
// session-backed identity resolution over opaque tokens stored in MariaDB.
package auth

import (
	"time"
)

// User represents a registered Atelier user. This is the domain model used
// throughout the application. Database scanning and JSON marshaling use this
// struct directly.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON responses.
	ProfileText  *string   `json:"profile_text,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Credentials is the ephemeral username/password pair submitted by the login
// and register forms. It lives on the stack for the duration of one request
// and is never persisted or logged.
type Credentials struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Session is one server-side authenticated session. The token is the opaque
// random identifier handed to the client in the cookie; AuthHash fingerprints
// the user's password hash at issuance time so a later password change
// invalidates the session.
type Session struct {
	Token    string
	UserID   int64
	AuthHash []byte
	Expiry   time.Time
}

// Expired reports whether the session's expiry has passed at the given time.
func (s *Session) Expired(now time.Time) bool {
	return !s.Expiry.After(now)
}
