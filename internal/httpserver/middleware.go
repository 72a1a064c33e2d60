package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/quickcart-shop/quickcart/internal/tokens"
)

// RequireAuth admits requests carrying a valid access cookie and stashes the
// account id in the echo context.
func RequireAuth(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(accessCookieName)
			if err != nil || cookie.Value == "" {
				return c.JSON(http.StatusUnauthorized, "unauthorized")
			}

			claims, err := tokens.AccessClaimsFromToken(cookie.Value, secret)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, "unauthorized")
			}

			c.Set("account_id", claims.Subject)
			c.Set("username", claims.Username)
			return next(c)
		}
	}
}

func accountID(c echo.Context) (string, error) {
	v := c.Get("account_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errors.New("unauthorized")
	}
	return s, nil
}
