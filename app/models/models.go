// Package models holds the gorm models of the application.
package models

// All lists every model in foreign-key order, for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Restaurant{},
		&Category{},
		&Food{},
		&Order{},
		&OrderItem{},
		&OrderStatusHistory{},
		&Notification{},
	}
}
