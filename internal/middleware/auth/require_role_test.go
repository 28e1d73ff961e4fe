package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/foodhub/internal/models"
	authsvc "github.com/Skotchmaster/foodhub/internal/service/auth"
	jwthelp "github.com/Skotchmaster/foodhub/pkg/jwt"
)

type fakeSessions map[string]*models.User

func (f fakeSessions) Restore(_ context.Context, token string) (*authsvc.Session, error) {
	if token == "boom" {
		return nil, errors.New("db down")
	}
	u, ok := f[token]
	if !ok {
		return nil, authsvc.ErrNoSession
	}
	return &authsvc.Session{Token: token, User: u}, nil
}

func TestRequireRole(t *testing.T) {
	owner := &models.User{ID: "u1", Role: models.RoleOwner}
	mw := New(fakeSessions{"good": owner}).RequireRole(models.RoleOwner)

	tests := []struct {
		name     string
		cookie   string
		bearer   string
		wantCode int
		wantUser bool
	}{
		{"cookie", "good", "", http.StatusOK, true},
		{"bearer", "", "good", http.StatusOK, true},
		{"missing", "", "", http.StatusUnauthorized, false},
		{"stale", "old", "", http.StatusUnauthorized, false},
		{"store failure", "", "boom", http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: jwthelp.SessionCookieName, Value: tt.cookie})
			}
			if tt.bearer != "" {
				req.Header.Set(echo.HeaderAuthorization, "Bearer "+tt.bearer)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			var seen *models.User
			err := mw(func(c echo.Context) error {
				seen = CurrentUser(c)
				return c.NoContent(http.StatusOK)
			})(c)

			if tt.wantCode == http.StatusOK {
				require.NoError(t, err)
				assert.Equal(t, http.StatusOK, rec.Code)
			} else {
				var he *echo.HTTPError
				require.ErrorAs(t, err, &he)
				assert.Equal(t, tt.wantCode, he.Code)
			}
			assert.Equal(t, tt.wantUser, seen != nil)
		})
	}
}

func TestRequireRole_WrongRoleRedirects(t *testing.T) {
	mw := New(fakeSessions{"tok": {ID: "u2", Role: models.RoleCustomer}}).RequireRole(models.RoleDelivery)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer tok")
	c := e.NewContext(req, httptest.NewRecorder())

	err := mw(func(echo.Context) error { return nil })(c)
	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusForbidden, he.Code)
	assert.Equal(t, LoginPath, he.Message.(echo.Map)["redirect"])
}

func TestRequireRole_ClearsStaleCookie(t *testing.T) {
	mw := New(fakeSessions{}).RequireRole(models.RoleOwner)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: jwthelp.SessionCookieName, Value: "expired"})
	rec := httptest.NewRecorder()

	_ = mw(func(echo.Context) error { return nil })(e.NewContext(req, rec))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), jwthelp.SessionCookieName+"=;")
}
