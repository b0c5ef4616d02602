package services

import (
	"errors"
	"fmt"
)

// Domain errors. Controllers map them to response error types with
// errors.Is; anything else is a 500.
var (
	ErrEmptyOrder = errors.New("order has no items")
	// ErrNoAvailableItems still matches ErrEmptyOrder.
	ErrNoAvailableItems  = fmt.Errorf("%w: no available items", ErrEmptyOrder)
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrOrderConflict     = errors.New("order was modified concurrently")

	ErrUserNotFound           = errors.New("user not found")
	ErrUsernameExists         = errors.New("username already exists")
	ErrEmailExists            = errors.New("email already exists")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidToken           = errors.New("invalid or expired token")
	ErrInvalidRegistrationKey = errors.New("invalid registration key")

	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrFoodNotFound       = errors.New("food not found")
	ErrInvalidImage       = errors.New("unsupported image")

	ErrNotificationNotFound = errors.New("notification not found")
)
