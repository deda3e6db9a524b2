package auth

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/solenne/atelier/internal/apperror"
)

// sessionCookieName is the HTTP cookie used to store the session token.
const sessionCookieName = "atelier_session"

// contextKeySession is the Echo context key holding the request's AuthSession.
const contextKeySession = "auth_session"

// WithSession returns middleware that builds the per-request AuthSession from
// the incoming cookie and stores it in the Echo context. Every route gets it:
// pages read the identity opportunistically, API routes gate on it via
// RequireAuth.
//
// A store failure during identity resolution is a real error (500), never a
// silent "not logged in" -- coercing the two together would hide outages.
func WithSession(backend Backend, sessions *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := getSessionToken(c)

			user, err := resolveIdentity(c.Request().Context(), backend, sessions, token)
			if err != nil {
				return apperror.NewInternal(fmt.Errorf("resolving identity: %w", err))
			}

			// A token that resolved to nothing is dead weight; clear it so
			// the client stops sending it.
			if user == nil && token != "" {
				clearSessionCookie(c)
				token = ""
			}

			c.Set(contextKeySession, &AuthSession{
				c:        c,
				backend:  backend,
				sessions: sessions,
				token:    token,
				user:     user,
			})

			return next(c)
		}
	}
}

// RequireAuth returns middleware that rejects unauthenticated requests with
// 401. Must run after WithSession. The central error handler turns the 401
// into JSON under /api and a login redirect for browsers.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Get(c).CurrentUser() == nil {
				return apperror.NewUnauthorized("authentication required")
			}
			return next(c)
		}
	}
}

// Get retrieves the request's AuthSession from the Echo context. Returns an
// empty, unauthenticated façade if WithSession was not applied, so callers
// never need a nil check.
func Get(c echo.Context) *AuthSession {
	if s, ok := c.Get(contextKeySession).(*AuthSession); ok {
		return s
	}
	return &AuthSession{c: c}
}

// --- Cookie helpers ---

// getSessionToken reads the session token from the cookie.
func getSessionToken(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	return cookie.Value
}

// setSessionCookie sets the session cookie on the response. The cookie is
// HttpOnly (no script access), scoped to the whole site, Secure behind TLS,
// and SameSite=Lax.
func setSessionCookie(c echo.Context, session *Session) {
	req := c.Request()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.Expiry,
		HttpOnly: true,
		Secure:   req.TLS != nil || req.Header.Get("X-Forwarded-Proto") == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie removes the session cookie by setting MaxAge to -1.
func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}
