package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Restaurant owns categories, which own foods. Deleting a restaurant
// removes its whole menu.
type Restaurant struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UUID       string     `gorm:"size:36;uniqueIndex;not null" json:"uuid"`
	Name       string     `gorm:"size:150;not null" json:"name"`
	Address    string     `gorm:"size:255;not null" json:"address"`
	Phone      string     `gorm:"size:32;not null" json:"phone"`
	Email      string     `gorm:"size:255;not null" json:"email"`
	IsActive   bool       `gorm:"not null;index" json:"isActive"`
	Categories []Category `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (r *Restaurant) BeforeCreate(*gorm.DB) error {
	if r.UUID == "" {
		r.UUID = uuid.NewString()
	}
	return nil
}

type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	RestaurantID uint      `gorm:"not null;index" json:"restaurantId"`
	ImageURL     string    `gorm:"size:1024" json:"imageUrl"`
	Description  string    `gorm:"type:text" json:"description"`
	Foods        []Food    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Food struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CategoryID  uint            `gorm:"not null;index" json:"categoryId"`
	IsAvailable bool            `gorm:"not null;index" json:"isAvailable"`
	ImageURL    string          `gorm:"size:1024" json:"imageUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
