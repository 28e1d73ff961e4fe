package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodhub/internal/models"
	authsvc "github.com/Skotchmaster/foodhub/internal/service/auth"
	jwthelp "github.com/Skotchmaster/foodhub/pkg/jwt"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

const (
	LoginPath = "/login"

	ctxUser  = "user"
	ctxToken = "session_token"
)

type SessionRestorer interface {
	Restore(ctx context.Context, token string) (*authsvc.Session, error)
}

type Middleware struct {
	Sessions SessionRestorer
}

func New(sessions SessionRestorer) *Middleware {
	return &Middleware{Sessions: sessions}
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func TokenFromRequest(c echo.Context) string {
	if ck, err := c.Cookie(jwthelp.SessionCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	h := c.Request().Header.Get(echo.HeaderAuthorization)
	if tok, ok := strings.CutPrefix(h, "Bearer "); ok {
		return strings.TrimSpace(tok)
	}
	return ""
}

func redirect(code int, msg string) *echo.HTTPError {
	return echo.NewHTTPError(code, echo.Map{"message": msg, "redirect": LoginPath})
}

// RequireRole lets through only sessions of role; anything else is sent back to login.
func (m *Middleware) RequireRole(role models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("middleware", "require_role", "want", role)

			token := TokenFromRequest(c)
			sess, err := m.Sessions.Restore(ctx, token)
			if err != nil {
				if !errors.Is(err, authsvc.ErrNoSession) {
					l.Error("session_restore_failed", "status", 500, "error", err)
					return echo.NewHTTPError(http.StatusInternalServerError, "cannot restore session")
				}
				if token != "" {
					c.SetCookie(jwthelp.ClearSessionCookie())
				}
				l.Warn("access_denied", "status", 401, "reason", "no session")
				return redirect(http.StatusUnauthorized, "please log in")
			}
			if sess.User.Role != role {
				l.Warn("access_denied", "status", 403, "reason", "wrong role", "actual", sess.User.Role)
				return redirect(http.StatusForbidden, "this area is for "+string(role)+" accounts")
			}

			c.Set(ctxUser, sess.User)
			c.Set(ctxToken, token)
			c.SetRequest(c.Request().WithContext(logging.IntoContext(ctx, logging.FromContext(ctx).With("user_id", sess.User.ID))))
			return next(c)
		}
	}
}

// CurrentUser is the account RequireRole attached to c.
func CurrentUser(c echo.Context) *models.User {
	u, _ := c.Get(ctxUser).(*models.User)
	return u
}
