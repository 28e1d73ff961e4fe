package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodhub/internal/handlers"
	authmw "github.com/Skotchmaster/foodhub/internal/middleware/auth"
	authsvc "github.com/Skotchmaster/foodhub/internal/service/auth"
	"github.com/Skotchmaster/foodhub/internal/transport"
	jwthelp "github.com/Skotchmaster/foodhub/pkg/jwt"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

type AuthHandler struct {
	Auth *authsvc.AuthService
}

type sessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      any       `json:"user"`
	Redirect  string    `json:"redirect"`
}

// respond sets the session cookie and returns the token for bearer clients.
func respond(c echo.Context, code int, s *authsvc.Session) error {
	c.SetCookie(jwthelp.SessionCookie(s.Token, s.ExpiresAt))
	return c.JSON(code, sessionResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      s.User,
		Redirect:  "/" + string(s.User.Role),
	})
}

func (h *AuthHandler) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "signup_error", err)
	}
	s, err := h.Auth.Signup(ctx, req.Email, req.Password, req.Name, req.Role)
	if err != nil {
		return handlers.Fail(l, "signup_error", err)
	}
	l.Info("signup_success", "status", 201, "user_id", s.User.ID)
	return respond(c, http.StatusCreated, s)
}

func (h *AuthHandler) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "login_error", err)
	}
	s, err := h.Auth.Login(ctx, req.Email, req.Password, req.Role)
	if err != nil {
		return handlers.Fail(l, "login_failed", err)
	}
	l.Info("login_success", "status", 200, "user_id", s.User.ID)
	return respond(c, http.StatusOK, s)
}

func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_google")

	var req transport.GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "google_login_error", err)
	}
	s, err := h.Auth.GoogleLogin(ctx, req.Role)
	if err != nil {
		return handlers.Fail(l, "google_login_error", err)
	}
	return respond(c, http.StatusOK, s)
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_reset")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return handlers.BadBody(l, "reset_error", err)
	}
	if err := h.Auth.ResetPassword(ctx, req.Email); err != nil {
		return handlers.Fail(l, "reset_error", err)
	}
	return c.JSON(http.StatusAccepted, echo.Map{"message": "if the account exists, a reset link has been sent"})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_logout")

	if err := h.Auth.Logout(ctx, authmw.TokenFromRequest(c)); err != nil {
		l.Error("logout_error", "status", 500, "error", err)
	}
	c.SetCookie(jwthelp.ClearSessionCookie())
	return c.JSON(http.StatusOK, echo.Map{"redirect": authmw.LoginPath})
}

// Session restores the caller's session; no usable token is a 401, never a fault.
func (h *AuthHandler) Session(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth_session")

	token := authmw.TokenFromRequest(c)
	s, err := h.Auth.Restore(ctx, token)
	if err != nil {
		if errors.Is(err, authsvc.ErrNoSession) {
			if token != "" {
				c.SetCookie(jwthelp.ClearSessionCookie())
			}
			return echo.NewHTTPError(http.StatusUnauthorized, echo.Map{"message": "no session", "redirect": authmw.LoginPath})
		}
		return handlers.Fail(l, "session_restore_error", err)
	}
	return c.JSON(http.StatusOK, sessionResponse{
		Token:     s.Token,
		ExpiresAt: s.ExpiresAt,
		User:      s.User,
		Redirect:  "/" + string(s.User.Role),
	})
}
