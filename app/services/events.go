package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/pkg/event"
)

// Domain event names.
const (
	EventOrderPlaced        = "order.placed"
	EventOrderStatusChanged = "order.status_changed"
)

// EventPublisher fires events without waiting for listeners.
// *event.Bus satisfies it.
type EventPublisher interface {
	FireAsync(ctx context.Context, e event.Event)
}

type OrderPlaced struct {
	OrderUUID   string          `json:"orderUuid"`
	UserUUID    string          `json:"userUuid"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ItemCount   int             `json:"itemCount"`
	PlacedAt    time.Time       `json:"placedAt"`
}

func (e OrderPlaced) PartitionKey() string { return e.OrderUUID }

type OrderStatusChanged struct {
	OrderUUID string             `json:"orderUuid"`
	UserUUID  string             `json:"userUuid"`
	From      models.OrderStatus `json:"from"`
	To        models.OrderStatus `json:"to"`
	Revision  uint               `json:"revision"`
	ChangedAt time.Time          `json:"changedAt"`
}

func (e OrderStatusChanged) PartitionKey() string { return e.OrderUUID }

type noEvents struct{}

func (noEvents) FireAsync(context.Context, event.Event) {}
