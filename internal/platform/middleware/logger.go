package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ckdrisk/ckdrisk/internal/platform/auth"
)

// Logger emits one structured line per request, tagged with the correlation
// ID and, when authenticated, the clinician identity that made the call.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			method := c.Request().Method
			path := c.Request().URL.Path
			rid, _ := c.Get("request_id").(string)

			err := next(c)

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}

			evt = evt.
				Str("request_id", rid).
				Str("method", method).
				Str("path", path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Int64("bytes_out", c.Response().Size)

			// The auth middleware swaps the request to carry identity, so the
			// context must be read after next ran.
			if uid := auth.UserIDFromContext(c.Request().Context()); uid != "" {
				evt = evt.
					Str("user_id", uid).
					Str("user_role", auth.RoleFromContext(c.Request().Context()))
			}

			evt.Msg("request")
			return err
		}
	}
}
