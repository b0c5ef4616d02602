package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	StatusPending        OrderStatus = "PENDING"
	StatusAccepted       OrderStatus = "ACCEPTED"
	StatusPreparing      OrderStatus = "PREPARING"
	StatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	StatusDelivered      OrderStatus = "DELIVERED"
	StatusCancelled      OrderStatus = "CANCELLED"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	StatusPending,
	StatusAccepted,
	StatusPreparing,
	StatusOutForDelivery,
	StatusDelivered,
	StatusCancelled,
}

// ParseOrderStatus matches s exactly against the enum.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Terminal reports whether no further transition is allowed in strict mode.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

var forward = map[OrderStatus]OrderStatus{
	StatusPending:        StatusAccepted,
	StatusAccepted:       StatusPreparing,
	StatusPreparing:      StatusOutForDelivery,
	StatusOutForDelivery: StatusDelivered,
}

// CanTransition is the strict-mode table: one step forward along the chain,
// or CANCELLED from any non-terminal state.
func CanTransition(from, to OrderStatus) bool {
	if from.Terminal() {
		return false
	}
	if to == StatusCancelled {
		return true
	}
	return forward[from] == to
}

// Order is created with its items and first history row in one
// transaction. TotalAmount is fixed at creation; Revision increments on
// every status change.
type Order struct {
	ID          uint                 `gorm:"primaryKey" json:"-"`
	UUID        string               `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	UserID      uint                 `gorm:"not null;index" json:"userId"`
	User        *User                `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	TotalAmount decimal.Decimal      `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Status      OrderStatus          `gorm:"size:32;not null;index" json:"status"`
	Revision    uint                 `gorm:"not null;default:1" json:"revision"`
	Items       []OrderItem          `gorm:"constraint:OnDelete:CASCADE" json:"items"`
	History     []OrderStatusHistory `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time            `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.UUID == "" {
		o.UUID = uuid.NewString()
	}
	if o.Revision == 0 {
		o.Revision = 1
	}
	return nil
}

// OrderItem snapshots the unit price and the food name at order time.
// FoodID carries no foreign key; items outlive menu deletions.
type OrderItem struct {
	ID       uint            `gorm:"primaryKey" json:"-"`
	OrderID  uint            `gorm:"not null;index" json:"-"`
	FoodID   uint            `gorm:"not null;index" json:"foodId"`
	FoodName string          `gorm:"size:200;not null" json:"foodName"`
	Quantity int             `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// OrderStatusHistory is append-only.
type OrderStatusHistory struct {
	ID        uint        `gorm:"primaryKey" json:"-"`
	OrderID   uint        `gorm:"not null;index" json:"-"`
	Status    OrderStatus `gorm:"size:32;not null" json:"status"`
	CreatedAt time.Time   `gorm:"index" json:"createdAt"`
}

func (OrderStatusHistory) TableName() string { return "order_status_history" }
