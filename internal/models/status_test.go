package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		from, to OrderStatus
		ok       bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusConfirmed, StatusPreparing, true},
		{StatusPreparing, StatusReady, true},
		{StatusReady, StatusPickedUp, true},
		{StatusPickedUp, StatusOnTheWay, true},
		{StatusPickedUp, StatusDelivered, true},
		{StatusOnTheWay, StatusDelivered, true},
		{StatusDelivered, StatusPending, false},
		{StatusConfirmed, StatusCancelled, false},
		{StatusPending, StatusReady, false},
		{StatusCancelled, StatusPending, false},
		{StatusReady, OrderStatus("teleported"), false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			t.Parallel()
			err := CheckTransition(tt.from, tt.to)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrIllegalTransition)
			var te *TransitionError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tt.from, te.From)
			assert.Equal(t, tt.to, te.To)
		})
	}
}

func TestNextWalksToDelivered(t *testing.T) {
	t.Parallel()

	s := StatusPending
	steps := 0
	for {
		next, ok := s.Next()
		if !ok {
			break
		}
		require.True(t, CanTransition(s, next), "%s -> %s", s, next)
		s = next
		steps++
	}
	assert.Equal(t, StatusDelivered, s)
	assert.Equal(t, 6, steps)
	assert.True(t, s.Terminal())
}

func TestLabels(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "New", StatusPending.Label(RoleOwner))
	assert.Equal(t, "placed", StatusPending.Label(RoleCustomer))
	assert.Equal(t, "On the way", StatusOnTheWay.Label(RoleDelivery))
	assert.Equal(t, "Cancelled", StatusCancelled.Label(RoleDelivery))
	assert.Equal(t, StageOutForDelivery, StatusPickedUp.CustomerStage())
	assert.Equal(t, StagePreparing, StatusReady.CustomerStage())
	assert.Equal(t, StageCancelled, StatusCancelled.CustomerStage())
}
