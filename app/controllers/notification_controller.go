package controllers

import (
	"github.com/shashiranjanraj/foodhub/app/services"
	"github.com/shashiranjanraj/foodhub/pkg/ctx"
	"github.com/shashiranjanraj/foodhub/pkg/i18n"
)

type NotificationController struct {
	notifications *services.NotificationService
}

func NewNotificationController(n *services.NotificationService) *NotificationController {
	return &NotificationController{notifications: n}
}

func (h *NotificationController) AdminFeed(c *ctx.Context) {
	feed, err := h.notifications.AdminFeed(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.NotificationsFetched, feed)
}

func (h *NotificationController) MarkAllAdminRead(c *ctx.Context) {
	n, err := h.notifications.MarkAllAdminRead(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.NotificationsMarkedRead, map[string]int64{"updated": n})
}

func (h *NotificationController) MarkAdminRead(c *ctx.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.notifications.MarkAdminRead(c.Context(), id); err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.NotificationMarkedRead, nil)
}

func (h *NotificationController) Mine(c *ctx.Context) {
	feed, err := h.notifications.Mine(c.Context(), c.Principal().ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.NotificationsFetched, feed)
}

func (h *NotificationController) MarkAllMineRead(c *ctx.Context) {
	n, err := h.notifications.MarkAllMineRead(c.Context(), c.Principal().ID)
	if err != nil {
		fail(c, err)
		return
	}
	c.OK(i18n.NotificationsMarkedRead, map[string]int64{"updated": n})
}
