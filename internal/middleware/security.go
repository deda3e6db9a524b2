package middleware

import (
	"github.com/labstack/echo/v4"
)

// SecurityHeaders returns middleware that sets security-related HTTP headers
// on every response. TLS termination is assumed to happen at a reverse proxy;
// these headers add application-layer hardening on top of it.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := c.Response().Header()

			// Everything Atelier serves is same-origin: pages, the art
			// PNGs, and the JSON API. data: is allowed so the pages can
			// inline small images.
			h.Set("Content-Security-Policy",
				"default-src 'self'; "+
					"style-src 'self' 'unsafe-inline'; "+
					"img-src 'self' data:; "+
					"frame-ancestors 'none'; "+
					"base-uri 'self'; "+
					"form-action 'self'",
			)

			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

			// Prevent MIME type sniffing -- matters for the PNG endpoints.
			h.Set("X-Content-Type-Options", "nosniff")

			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")

			return next(c)
		}
	}
}
