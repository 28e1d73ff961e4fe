package models

import (
	"errors"
	"fmt"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusConfirmed OrderStatus = "confirmed"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusPickedUp  OrderStatus = "picked_up"
	StatusOnTheWay  OrderStatus = "on_the_way"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

var ErrIllegalTransition = errors.New("illegal status transition")

// TransitionError names the rejected jump.
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrIllegalTransition }

var transitions = map[OrderStatus][]OrderStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusPreparing},
	StatusPreparing: {StatusReady},
	StatusReady:     {StatusPickedUp},
	StatusPickedUp:  {StatusOnTheWay, StatusDelivered},
	StatusOnTheWay:  {StatusDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusPickedUp, StatusOnTheWay, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// InTransit reports whether a courier currently holds the order.
func (s OrderStatus) InTransit() bool {
	return s == StatusPickedUp || s == StatusOnTheWay
}

func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a *TransitionError for anything the table does not allow.
func CheckTransition(from, to OrderStatus) error {
	if !to.Valid() || !CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// Next is the single forward step used by the kitchen flow; ok is false at the end or on a fork.
func (s OrderStatus) Next() (OrderStatus, bool) {
	switch s {
	case StatusPending:
		return StatusConfirmed, true
	case StatusConfirmed:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusReady, true
	case StatusReady:
		return StatusPickedUp, true
	case StatusPickedUp:
		return StatusOnTheWay, true
	case StatusOnTheWay:
		return StatusDelivered, true
	}
	return "", false
}

var ownerLabels = map[OrderStatus]string{
	StatusPending:   "New",
	StatusConfirmed: "Confirmed",
	StatusPreparing: "Preparing",
	StatusReady:     "Ready for pickup",
	StatusPickedUp:  "Picked up",
	StatusOnTheWay:  "Out for delivery",
	StatusDelivered: "Delivered",
	StatusCancelled: "Cancelled",
}

var deliveryLabels = map[OrderStatus]string{
	StatusReady:     "Ready",
	StatusPickedUp:  "Picked up",
	StatusOnTheWay:  "On the way",
	StatusDelivered: "Delivered",
}

// CustomerStage is the coarser progression a customer sees.
type CustomerStage string

const (
	StagePlaced         CustomerStage = "placed"
	StageConfirmed      CustomerStage = "confirmed"
	StagePreparing      CustomerStage = "preparing"
	StageOutForDelivery CustomerStage = "out_for_delivery"
	StageDelivered      CustomerStage = "delivered"
	StageCancelled      CustomerStage = "cancelled"
)

var CustomerStages = []CustomerStage{StagePlaced, StageConfirmed, StagePreparing, StageOutForDelivery, StageDelivered}

func (s OrderStatus) CustomerStage() CustomerStage {
	switch s {
	case StatusPending:
		return StagePlaced
	case StatusConfirmed:
		return StageConfirmed
	case StatusPreparing, StatusReady:
		return StagePreparing
	case StatusPickedUp, StatusOnTheWay:
		return StageOutForDelivery
	case StatusDelivered:
		return StageDelivered
	}
	return StageCancelled
}

func (s OrderStatus) Label(role Role) string {
	switch role {
	case RoleOwner:
		return ownerLabels[s]
	case RoleDelivery:
		if l, ok := deliveryLabels[s]; ok {
			return l
		}
		return ownerLabels[s]
	}
	return string(s.CustomerStage())
}
