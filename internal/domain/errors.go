// Package domain holds the error vocabulary shared by the order, menu,
// delivery and customer services.
package domain

import "errors"

var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	ErrEmptyCart    = errors.New("cart is empty")
	ErrCartConflict = errors.New("cart holds items from another restaurant")
	ErrUnavailable  = errors.New("item or restaurant is unavailable")

	ErrActiveOrderExists = errors.New("courier already has an active order")
	ErrOffline           = errors.New("courier is offline")
	ErrAlreadyClaimed    = errors.New("order was claimed by another courier")
	ErrNotActiveOrder    = errors.New("order is not the courier's active order")
)
