package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/foodhub/internal/domain"
	"github.com/Skotchmaster/foodhub/internal/models"
	"github.com/Skotchmaster/foodhub/internal/repo"
	authsvc "github.com/Skotchmaster/foodhub/internal/service/auth"
)

var statusByErr = []struct {
	err  error
	code int
}{
	{authsvc.ErrValidation, http.StatusBadRequest},
	{authsvc.ErrWeakPassword, http.StatusBadRequest},
	{domain.ErrValidation, http.StatusBadRequest},
	{domain.ErrEmptyCart, http.StatusBadRequest},
	{authsvc.ErrInvalidCredentials, http.StatusUnauthorized},
	{authsvc.ErrRoleMismatch, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{repo.ErrNotFound, http.StatusNotFound},
	{authsvc.ErrDuplicateAccount, http.StatusConflict},
	{domain.ErrConflict, http.StatusConflict},
	{domain.ErrCartConflict, http.StatusConflict},
	{domain.ErrActiveOrderExists, http.StatusConflict},
	{domain.ErrAlreadyClaimed, http.StatusConflict},
	{models.ErrIllegalTransition, http.StatusConflict},
	{domain.ErrUnavailable, http.StatusUnprocessableEntity},
	{domain.ErrOffline, http.StatusUnprocessableEntity},
	{domain.ErrNotActiveOrder, http.StatusUnprocessableEntity},
}

// StatusFor maps a service error onto an HTTP status; unknown errors are 500.
func StatusFor(err error) int {
	for _, m := range statusByErr {
		if errors.Is(err, m.err) {
			return m.code
		}
	}
	return http.StatusInternalServerError
}

// Fail logs err under event and turns it into the response error. Internal
// failures never leak their message.
func Fail(l *slog.Logger, event string, err error) *echo.HTTPError {
	code := StatusFor(err)
	if code >= 500 {
		l.Error(event, "status", code, "error", err)
		return echo.NewHTTPError(code, "internal error")
	}
	l.Warn(event, "status", code, "reason", err.Error())
	return echo.NewHTTPError(code, err.Error())
}

func BadBody(l *slog.Logger, event string, err error) *echo.HTTPError {
	l.Warn(event, "status", 400, "reason", "invalid body", "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
}

// OrderView decorates an order with the status label of the viewing role.
type OrderView struct {
	*models.Order
	StatusLabel string `json:"status_label"`
}

func Label(o *models.Order, role models.Role) OrderView {
	return OrderView{Order: o, StatusLabel: o.Status.Label(role)}
}

func LabelAll(list []models.Order, role models.Role) []OrderView {
	out := make([]OrderView, 0, len(list))
	for i := range list {
		out = append(out, Label(&list[i], role))
	}
	return out
}
