package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/viewtube/account-service/internal/core/domain"
)

// AttemptLimiter is the interface the rate-limit middleware needs from the
// Redis-backed limiter.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit throttles requests per client IP. A limiter error fails open:
// losing Redis should not lock everyone out of login.
func RateLimit(limiter AttemptLimiter, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ok, err := limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				log.Warn().Err(err).Msg("rate limit check failed, allowing request")
				return next(c)
			}
			if !ok {
				return domain.ErrRateLimited
			}
			return next(c)
		}
	}
}
