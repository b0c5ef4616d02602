package controllers

import (
	"github.com/shashiranjanraj/foodhub/app/services"
	"github.com/shashiranjanraj/foodhub/pkg/ctx"
	"github.com/shashiranjanraj/foodhub/pkg/i18n"
)

type createOrderRequest struct {
	Items []services.LineItem `json:"items" validate:"dive"`
}

type adminCreateOrderRequest struct {
	CustomerID string              `json:"customerId" validate:"required,uuid"`
	Items      []services.LineItem `json:"items" validate:"dive"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderController serves /orders for customers, admins and delivery
// partners.
type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// ─── Customer ─────────────────────────────────────────────────────────────────

func (h *OrderController) Create(c *ctx.Context) {
	var in createOrderRequest
	if !c.BindJSON(&in) {
		return
	}
	o, err := h.orders.Create(c.Context(), c.Principal().ID, in.Items)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(i18n.OrderCreated, o)
}

func (h *OrderController) List(c *ctx.Context) {
	skip, limit, ok := c.Page()
	if !ok {
		return
	}
	page, err := h.orders.List(c.Context(), c.Principal().ID, skip, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.OrdersFetched, page)
}

func (h *OrderController) Show(c *ctx.Context) {
	o, err := h.orders.Get(c.Context(), c.Principal().ID, c.Param("ref"))
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.OrderFetched, o)
}

func (h *OrderController) Track(c *ctx.Context) {
	id := c.Principal().ID
	t, err := h.orders.Track(c.Context(), &id, c.Param("ref"))
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.OrderFetched, t)
}

// ─── Admin ────────────────────────────────────────────────────────────────────

func (h *OrderController) AdminCreate(c *ctx.Context) {
	var in adminCreateOrderRequest
	if !c.BindJSON(&in) {
		return
	}
	o, err := h.orders.CreateFor(c.Context(), in.CustomerID, in.Items)
	if err != nil {
		fail(c, err)
		return
	}
	c.Created(i18n.OrderCreated, o)
}

func (h *OrderController) AdminList(c *ctx.Context) {
	skip, limit, ok := c.Page()
	if !ok {
		return
	}
	page, err := h.orders.ListAll(c.Context(), skip, limit, c.Query("status"))
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.OrdersFetched, page)
}

func (h *OrderController) AdminShow(c *ctx.Context) {
	o, err := h.orders.GetAny(c.Context(), c.Param("ref"))
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.OrderFetched, o)
}

func (h *OrderController) AdminTrack(c *ctx.Context) {
	t, err := h.orders.Track(c.Context(), nil, c.Param("ref"))
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.OrderFetched, t)
}

// UpdateStatus is shared by admins and delivery partners.
func (h *OrderController) UpdateStatus(c *ctx.Context) {
	var in statusRequest
	if !c.BindJSON(&in) {
		return
	}
	o, err := h.orders.UpdateStatus(c.Context(), c.Param("ref"), in.Status)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.OrderStatusUpdated, o)
}
