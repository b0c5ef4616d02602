// Package controllers turns HTTP requests into service calls and service
// results into response envelopes.
package controllers

import (
	"errors"

	"github.com/shashiranjanraj/foodhub/app/services"
	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/ctx"
	"github.com/shashiranjanraj/foodhub/pkg/i18n"
	"github.com/shashiranjanraj/foodhub/pkg/response"
)

type failure struct {
	err  error
	kind response.ErrorType
	code i18n.Code
}

// failures is checked in order. ErrNoAvailableItems wraps ErrEmptyOrder, so
// it must come first.
var failures = []failure{
	{services.ErrNoAvailableItems, response.ValEmptyOrder, i18n.NoAvailableItems},
	{services.ErrEmptyOrder, response.ValEmptyOrder, i18n.EmptyOrder},
	{services.ErrInvalidStatus, response.ValInvalidParameters, i18n.InvalidStatus},
	{services.ErrInvalidTransition, response.ValInvalidTransition, i18n.InvalidTransition},
	{services.ErrOrderConflict, response.ResConflict, i18n.OrderConflict},
	{services.ErrOrderNotFound, response.ResNotFound, i18n.OrderNotFound},

	{services.ErrUserNotFound, response.ResNotFound, i18n.UserNotFound},
	{services.ErrUsernameExists, response.ValUsernameExists, i18n.UsernameExists},
	{services.ErrEmailExists, response.ValUsernameExists, i18n.EmailExists},
	{services.ErrInvalidCredentials, response.AuthInvalidCredentials, i18n.InvalidCredentials},
	{services.ErrInvalidToken, response.AuthTokenExpired, i18n.TokenInvalid},
	{services.ErrInvalidRegistrationKey, response.AuthAccessDenied, i18n.InvalidRegistrationKey},
	{auth.ErrInactive, response.AuthAccessDenied, i18n.InactiveUser},

	{services.ErrRestaurantNotFound, response.ResNotFound, i18n.RestaurantNotFound},
	{services.ErrCategoryNotFound, response.ResNotFound, i18n.CategoryNotFound},
	{services.ErrFoodNotFound, response.ResNotFound, i18n.FoodNotFound},
	{services.ErrInvalidImage, response.ValInvalidParameters, i18n.InvalidParameters},
	{services.ErrNotificationNotFound, response.ResNotFound, i18n.NotificationNotFound},
}

// fail writes the envelope for err. Errors that are not domain errors are
// logged and answered with a 500.
func fail(c *ctx.Context, err error) {
	for _, f := range failures {
		if errors.Is(err, f.err) {
			c.Fail(f.kind, f.code)
			return
		}
	}
	c.InternalError(err)
}

// idParam reads a numeric path parameter or answers 400.
func idParam(c *ctx.Context, name string) (uint, bool) {
	id, ok := c.ParamUint(name)
	if !ok {
		c.Invalid(map[string]string{name: "The " + name + " must be a positive integer."})
	}
	return id, ok
}
