package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimit returns middleware that limits requests per client IP to
// maxRequests within the given window. Counters live in Redis (fixed-window
// INCR + EXPIRE keyed by route and IP), so the limit holds across process
// restarts and multiple replicas. Returns 429 when exceeded.
//
// If Redis is unreachable the request is allowed through: the auth endpoints
// must not go dark because the limiter's backing store hiccuped.
func RateLimit(rdb *redis.Client, maxRequests int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("ratelimit:%s:%s", c.Path(), c.RealIP())

			count, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				slog.Warn("rate limiter unavailable, allowing request",
					slog.String("key", key),
					slog.Any("error", err),
				)
				return next(c)
			}

			// First hit in this window owns setting the expiry.
			if count == 1 {
				if err := rdb.Expire(ctx, key, window).Err(); err != nil {
					slog.Warn("setting rate limit window",
						slog.String("key", key),
						slog.Any("error", err),
					)
				}
			}

			if count > int64(maxRequests) {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error":   "Too Many Requests",
					"message": "Rate limit exceeded. Please try again later.",
				})
			}

			return next(c)
		}
	}
}
