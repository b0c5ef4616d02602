package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/foodhub/app/models"
)

// OrderItemView is one order line as returned to clients.
type OrderItemView struct {
	FoodID   uint            `json:"foodId"`
	FoodName string          `json:"foodName"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// OrderView is an order with its lines. UserID is the owner's public uuid.
type OrderView struct {
	UUID        string             `json:"uuid"`
	UserID      string             `json:"userId"`
	UserName    string             `json:"userName"`
	TotalAmount decimal.Decimal    `json:"totalAmount"`
	Status      models.OrderStatus `json:"status"`
	Revision    uint               `json:"revision"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Items       []OrderItemView    `json:"items"`
}

type StatusHistoryView struct {
	Status    models.OrderStatus `json:"status"`
	CreatedAt time.Time          `json:"createdAt"`
}

// TrackingView adds the status trail, oldest first.
type TrackingView struct {
	OrderView
	StatusHistory []StatusHistoryView `json:"statusHistory"`
}

// AdminOrderPage is a page of orders plus a count per status over all
// orders, regardless of the filter applied to the page.
type AdminOrderPage struct {
	Total        int64                        `json:"total"`
	Items        []OrderView                  `json:"items"`
	StatusCounts map[models.OrderStatus]int64 `json:"statusCounts"`
}

// newOrderView prefers the live food name and falls back to the one
// captured when the order was placed.
func newOrderView(o models.Order, names map[uint]string) OrderView {
	v := OrderView{
		UUID:        o.UUID,
		TotalAmount: o.TotalAmount,
		Status:      o.Status,
		Revision:    o.Revision,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
		Items:       make([]OrderItemView, 0, len(o.Items)),
	}
	if o.User != nil {
		v.UserID = o.User.UUID
		v.UserName = o.User.Username
	}
	for _, it := range o.Items {
		name, ok := names[it.FoodID]
		if !ok {
			name = it.FoodName
		}
		v.Items = append(v.Items, OrderItemView{
			FoodID:   it.FoodID,
			FoodName: name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}
	return v
}

// UserProfile is the public shape of a user.
type UserProfile struct {
	UUID      string    `json:"uuid"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserProfile(u models.User) UserProfile {
	return UserProfile{
		UUID:      u.UUID,
		Username:  u.Username,
		Email:     string(u.Email),
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// NotificationView carries the related user's name and the order uuid
// instead of internal ids.
type NotificationView struct {
	ID              uint                    `json:"id"`
	Title           string                  `json:"title"`
	Message         string                  `json:"message"`
	Type            models.NotificationType `json:"type"`
	IsRead          bool                    `json:"isRead"`
	RelatedUserName string                  `json:"relatedUserName,omitempty"`
	OrderUUID       string                  `json:"orderUuid,omitempty"`
	CreatedAt       time.Time               `json:"createdAt"`
}

func newNotificationView(n models.Notification) NotificationView {
	v := NotificationView{
		ID:        n.ID,
		Title:     n.Title,
		Message:   n.Message,
		Type:      n.Type,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedUser != nil {
		v.RelatedUserName = n.RelatedUser.Username
	}
	if n.Order != nil {
		v.OrderUUID = n.Order.UUID
	}
	return v
}

// NotificationFeed is a list of notifications and how many are unread.
type NotificationFeed struct {
	Items       []NotificationView `json:"items"`
	UnreadCount int64              `json:"unreadCount"`
}
