package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Skotchmaster/foodhub/internal/domain"
	"github.com/Skotchmaster/foodhub/internal/models"
	authsvc "github.com/Skotchmaster/foodhub/internal/service/auth"
	"github.com/Skotchmaster/foodhub/pkg/logging"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: price must be positive", domain.ErrValidation), http.StatusBadRequest},
		{authsvc.ErrWeakPassword, http.StatusBadRequest},
		{authsvc.ErrInvalidCredentials, http.StatusUnauthorized},
		{&authsvc.RoleMismatchError{Actual: models.RoleOwner}, http.StatusForbidden},
		{domain.ErrNotFound, http.StatusNotFound},
		{authsvc.ErrDuplicateAccount, http.StatusConflict},
		{domain.ErrCartConflict, http.StatusConflict},
		{&models.TransitionError{From: models.StatusDelivered, To: models.StatusPending}, http.StatusConflict},
		{domain.ErrOffline, http.StatusUnprocessableEntity},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFor(tt.err))
		})
	}
}

func TestFail_HidesInternalErrors(t *testing.T) {
	he := Fail(logging.Discard(), "x", errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, he.Code)
	assert.Equal(t, "internal error", he.Message)

	he = Fail(logging.Discard(), "x", domain.ErrEmptyCart)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, domain.ErrEmptyCart.Error(), he.Message)
}

func TestLabel(t *testing.T) {
	o := &models.Order{Status: models.StatusOnTheWay}
	assert.Equal(t, "Out for delivery", Label(o, models.RoleOwner).StatusLabel)
	assert.Equal(t, "On the way", Label(o, models.RoleDelivery).StatusLabel)
	assert.Equal(t, "out_for_delivery", Label(o, models.RoleCustomer).StatusLabel)
}
