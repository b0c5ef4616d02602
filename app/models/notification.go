package models

import "time"

// NotificationType classifies a notification.
type NotificationType string

const (
	NotificationNewOrder    NotificationType = "NEW_ORDER"
	NotificationNewUser     NotificationType = "NEW_USER"
	NotificationOrderUpdate NotificationType = "ORDER_UPDATE"
	NotificationSystem      NotificationType = "SYSTEM"
)

// Notification is addressed to a user, or to the admin console when UserID
// is nil. Only IsRead ever changes after insert.
type Notification struct {
	ID            uint             `gorm:"primaryKey" json:"id"`
	UserID        *uint            `gorm:"index" json:"userId"`
	User          *User            `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RelatedUserID *uint            `gorm:"index" json:"relatedUserId"`
	RelatedUser   *User            `gorm:"foreignKey:RelatedUserID;constraint:OnDelete:SET NULL" json:"-"`
	OrderID       *uint            `gorm:"index" json:"-"`
	Order         *Order           `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	Title         string           `gorm:"size:255;not null" json:"title"`
	Message       string           `gorm:"size:1000;not null" json:"message"`
	Type          NotificationType `gorm:"size:32;not null;index" json:"type"`
	IsRead        bool             `gorm:"not null;index" json:"isRead"`
	CreatedAt     time.Time        `gorm:"index" json:"createdAt"`
}
