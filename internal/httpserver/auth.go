package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/quickcart-shop/quickcart/internal/accounts"
	"github.com/quickcart-shop/quickcart/internal/logging"
	"github.com/quickcart-shop/quickcart/internal/tokens"
)

const (
	sessionTokenTTL  = 24 * time.Hour
	rememberTokenTTL = 7 * 24 * time.Hour
)

type AuthHTTP struct {
	Svc       *accounts.Service
	JWTSecret []byte
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req accounts.RegisterInput
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	account, err := h.Svc.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrAlreadyExists):
			l.Warn("register_error", "status", 409, "reason", err.Error())
			return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
		case errors.Is(err, accounts.ErrValidation):
			l.Warn("register_error", "status", 400, "reason", err.Error())
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		default:
			l.Error("register_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	if err := h.setAccessCookie(c, account.ID, account.Username, false); err != nil {
		l.Error("register_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	l.Info("user registered", "user_id", account.ID)
	return c.JSON(http.StatusCreated, account)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req accounts.LoginInput
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	account, err := h.Svc.Login(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, accounts.ErrValidation):
			l.Warn("login_error", "status", 400, "reason", err.Error())
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case errors.Is(err, accounts.ErrInvalidCredentials):
			l.Warn("login_error", "status", 401)
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		default:
			l.Error("login_error", "status", 500, "error", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
		}
	}

	if err := h.setAccessCookie(c, account.ID, account.Username, req.Remember); err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	l.Info("user logged in", "user_id", account.ID, "remember", req.Remember)
	return c.JSON(http.StatusOK, account)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if err := h.Svc.Logout(ctx); err != nil {
		l.Error("logout_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	c.SetCookie(deleteCookie(accessCookieName, "/"))
	l.Info("user logged out")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := accountID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	account, ok := h.Svc.CurrentSession(ctx)
	if !ok || account.ID != id {
		// Valid cookie but no matching stored session: logged out elsewhere.
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"account":  account,
		"remember": h.Svc.Remembered(ctx),
	})
}

func (h *AuthHTTP) setAccessCookie(c echo.Context, accountID, username string, remember bool) error {
	ttl := sessionTokenTTL
	if remember {
		ttl = rememberTokenTTL
	}
	exp := time.Now().Add(ttl)

	token, err := tokens.NewAccessToken(accountID, username, h.JWTSecret, exp)
	if err != nil {
		return err
	}
	c.SetCookie(createCookie(accessCookieName, token, "/", exp))
	return nil
}
