package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/solenne/atelier/internal/apperror"
)

// AuthSession is the per-request authentication façade. The WithSession
// middleware rebuilds it from the incoming session cookie on every request;
// handlers read the current identity from it and drive login/logout through
// it. It is never persisted and never shared across requests.
type AuthSession struct {
	c        echo.Context
	backend  Backend
	sessions *Manager
	token    string
	user     *User
}

// CurrentUser returns the authenticated user, or nil when the request
// carries no valid session.
func (s *AuthSession) CurrentUser() *User {
	return s.user
}

// Login authenticates the credentials and, on success, issues a session and
// delivers its token to the client as an HTTP-only, site-wide cookie.
//
// Failure classes stay distinct: empty credentials are a validation error,
// a bad username/password is a deliberately generic unauthorized error, and
// store or crypto failures surface as internal errors with the cause kept
// for the logs only.
func (s *AuthSession) Login(ctx context.Context, creds Credentials) error {
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		return apperror.NewValidation("username and password are required")
	}

	user, err := s.backend.Authenticate(ctx, creds)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("authenticating: %w", err))
	}
	if user == nil {
		return apperror.NewUnauthorized("invalid username or password")
	}

	session, err := s.sessions.Create(ctx, user)
	if err != nil {
		return apperror.NewInternal(fmt.Errorf("creating session: %w", err))
	}

	setSessionCookie(s.c, session)
	s.token = session.Token
	s.user = user

	slog.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return nil
}

// Logout destroys the current session and clears the cookie. From the
// caller's perspective it always succeeds: a missing session means there is
// nothing to destroy, and a store failure still clears the client side.
func (s *AuthSession) Logout(ctx context.Context) {
	if s.token != "" {
		if err := s.sessions.Destroy(ctx, s.token); err != nil {
			slog.Error("destroying session on logout", slog.Any("error", err))
		}
	}

	clearSessionCookie(s.c)
	s.token = ""
	s.user = nil
}

// resolveIdentity is the single identity pipeline: validate the token, then
// resolve the user, then check the credential fingerprint. Any missing link
// yields (nil, nil) uniformly -- no per-failure branching for callers. Only
// store failures produce an error.
func resolveIdentity(ctx context.Context, backend Backend, sessions *Manager, token string) (*User, error) {
	if token == "" {
		return nil, nil
	}

	session, err := sessions.Validate(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	user, err := backend.Resolve(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	// Stale-credential invalidation: a session minted before a password
	// change no longer matches the current hash and is rejected.
	if subtle.ConstantTimeCompare(session.AuthHash, credentialFingerprint(user.PasswordHash)) != 1 {
		return nil, nil
	}

	return user, nil
}
