package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/crypt"
)

// Roles a user can hold.
const (
	RoleAdmin           = auth.RoleAdmin
	RoleCustomer        = auth.RoleCustomer
	RoleDeliveryPartner = auth.RoleDeliveryPartner
)

// User is an account of any role. The email is encrypted at rest; its hash
// enforces uniqueness and supports lookups.
type User struct {
	ID        uint         `gorm:"primaryKey" json:"-"`
	UUID      string       `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Username  string       `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email     crypt.String `gorm:"size:512;not null" json:"email"`
	EmailHash string       `gorm:"size:64;uniqueIndex;not null" json:"-"`
	Password  string       `gorm:"size:255;not null" json:"-"`
	Role      string       `gorm:"size:32;not null;index" json:"role"`
	IsActive  bool         `gorm:"not null" json:"isActive"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// BeforeCreate assigns the public uuid and the email hash.
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.UUID == "" {
		u.UUID = uuid.NewString()
	}
	u.EmailHash = crypt.EmailHash(string(u.Email))
	return nil
}
