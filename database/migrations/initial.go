package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/pkg/migration"
	"github.com/shashiranjanraj/foodhub/pkg/queue"
)

func init() {
	migration.Register("20260101000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260101000001_create_catalog_tables", &CreateCatalogTables{})
	migration.Register("20260101000002_create_orders_tables", &CreateOrdersTables{})
	migration.Register("20260101000003_create_notifications_table", &CreateNotificationsTable{})
	migration.Register("20260101000004_create_failed_jobs_table", migration.Func(
		func(db *gorm.DB) error { return db.AutoMigrate(&queue.FailedJobRecord{}) },
		func(db *gorm.DB) error { return db.Migrator().DropTable(&queue.FailedJobRecord{}) },
	))
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.User{})
}

// -------- 0002: restaurants, categories, foods --------

type CreateCatalogTables struct{}

func (m *CreateCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Restaurant{}, &models.Category{}, &models.Food{})
}

func (m *CreateCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Food{}, &models.Category{}, &models.Restaurant{})
}

// -------- 0003: orders, items, status history --------

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{}, &models.OrderStatusHistory{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderStatusHistory{}, &models.OrderItem{}, &models.Order{})
}

// -------- 0004: notifications --------

type CreateNotificationsTable struct{}

func (m *CreateNotificationsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Notification{})
}

func (m *CreateNotificationsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Notification{})
}
