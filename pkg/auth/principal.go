package auth

import (
	"context"
	"errors"
)

// Roles.
const (
	RoleAdmin           = "ADMIN"
	RoleCustomer        = "CUSTOMER"
	RoleDeliveryPartner = "DELIVERY_PARTNER"
)

var (
	// ErrUnknownSubject means the token's uuid no longer maps to a user.
	ErrUnknownSubject = errors.New("auth: unknown subject")
	// ErrInactive means the user exists but is disabled.
	ErrInactive = errors.New("auth: user inactive")
)

// Principal is the authenticated caller attached to a request.
type Principal struct {
	ID       uint
	UUID     string
	Username string
	Role     string
}

// IsAdmin reports whether p has the ADMIN role.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored by WithPrincipal.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
