package controllers

import (
	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/app/services"
	"github.com/shashiranjanraj/foodhub/pkg/ctx"
	"github.com/shashiranjanraj/foodhub/pkg/i18n"
)

// AdminKeyHeader carries ADMIN_REGISTRATION_KEY on admin sign-up.
const AdminKeyHeader = "X-Admin-Registration-Key"

type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

func (h *AuthController) RegisterCustomer(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.auth.RegisterCustomer(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(i18n.CustomerCreated, p)
}

func (h *AuthController) RegisterAdmin(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.auth.RegisterAdmin(c.Context(), c.Header(AdminKeyHeader), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(i18n.AdminCreated, p)
}

func (h *AuthController) RegisterDeliveryPartner(c *ctx.Context) {
	var in services.RegisterInput
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.auth.RegisterDeliveryPartner(c.Context(), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(i18n.DeliveryPartnerCreated, p)
}

func (h *AuthController) CustomerLogin(c *ctx.Context) { h.login(c, models.RoleCustomer) }

func (h *AuthController) AdminLogin(c *ctx.Context) { h.login(c, models.RoleAdmin) }

func (h *AuthController) DeliveryLogin(c *ctx.Context) { h.login(c, models.RoleDeliveryPartner) }

func (h *AuthController) login(c *ctx.Context, role string) {
	var in services.LoginInput
	if !c.BindJSON(&in) {
		return
	}
	pair, err := h.auth.Login(c.Context(), in, role)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.LoginSuccess, pair)
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

func (h *AuthController) Refresh(c *ctx.Context) {
	var in refreshRequest
	if !c.BindJSON(&in) {
		return
	}
	pair, err := h.auth.Refresh(c.Context(), in.RefreshToken)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.TokenRefreshed, pair)
}

func (h *AuthController) Logout(c *ctx.Context) {
	if err := h.auth.Logout(c.Context(), c.Principal().UUID); err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.LogoutSuccess, nil)
}

// Profile returns the caller.
func (h *AuthController) Profile(c *ctx.Context) {
	p, err := h.auth.Profile(c.Context(), c.Principal().UUID)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.ProfileFetched, p)
}
