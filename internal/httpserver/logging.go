package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"

	"github.com/quickcart-shop/quickcart/internal/logging"
)

// WithLogger threads the application logger through the request context so
// services can pick it up with logging.FromContext.
func WithLogger(l *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := logging.IntoContext(req.Context(), l.With("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
