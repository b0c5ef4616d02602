package controllers

import (
	"github.com/shashiranjanraj/foodhub/app/services"
	"github.com/shashiranjanraj/foodhub/pkg/ctx"
	"github.com/shashiranjanraj/foodhub/pkg/i18n"
	"github.com/shashiranjanraj/foodhub/pkg/validate"
)

type AdminController struct {
	admin *services.AdminService
	auth  *services.AuthService
}

func NewAdminController(admin *services.AdminService, auth *services.AuthService) *AdminController {
	return &AdminController{admin: admin, auth: auth}
}

func (h *AdminController) Dashboard(c *ctx.Context) {
	st, err := h.admin.Dashboard(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.DashboardFetched, st)
}

func (h *AdminController) Profile(c *ctx.Context) {
	p, err := h.auth.Profile(c.Context(), c.Principal().UUID)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.ProfileFetched, p)
}

type userFilter struct {
	Role string `json:"role" validate:"nullable,in=ADMIN|CUSTOMER|DELIVERY_PARTNER"`
}

func (h *AdminController) Users(c *ctx.Context) {
	skip, limit, ok := c.Page()
	if !ok {
		return
	}
	f := userFilter{Role: c.Query("role")}
	if errs := validate.Struct(f); validate.HasErrors(errs) {
		c.Invalid(errs)
		return
	}
	page, err := h.admin.Users(c.Context(), skip, limit, f.Role)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.UsersFetched, page)
}

func (h *AdminController) User(c *ctx.Context) {
	p, err := h.admin.User(c.Context(), c.Param("uuid"))
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.UserFetched, p)
}

func (h *AdminController) UpdateUser(c *ctx.Context) {
	var in services.UserPatch
	if !c.BindJSON(&in) {
		return
	}
	p, err := h.admin.UpdateUser(c.Context(), c.Param("uuid"), in)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.UserUpdated, p)
}

func (h *AdminController) DeleteUser(c *ctx.Context) {
	if err := h.admin.DeleteUser(c.Context(), c.Param("uuid")); err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.UserDeleted, nil)
}
