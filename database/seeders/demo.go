package seeders

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/crypt"
)

func init() {
	Register("admin_user", seedAdmin)
	Register("demo_catalog", seedCatalog)
}

// seedAdmin creates SEED_ADMIN_USERNAME unless it already exists.
func seedAdmin(ctx context.Context, db *gorm.DB) error {
	username := config.Get("SEED_ADMIN_USERNAME", "admin")

	var existing models.User
	err := db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := auth.HashPassword(config.Get("SEED_ADMIN_PASSWORD", "admin123"))
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Create(&models.User{
		Username: username,
		Email:    crypt.String(config.Get("SEED_ADMIN_EMAIL", "admin@foodhub.local")),
		Password: hash,
		Role:     models.RoleAdmin,
		IsActive: true,
	}).Error
}

type demoFood struct {
	name      string
	price     string
	available bool
}

var demoMenu = []struct {
	restaurant models.Restaurant
	categories map[string][]demoFood
}{
	{
		restaurant: models.Restaurant{Name: "Spice Route", Address: "12 MG Road, Bengaluru", Phone: "+91 80 4000 1200", Email: "hello@spiceroute.test", IsActive: true},
		categories: map[string][]demoFood{
			"Curries": {{"Paneer Butter Masala", "8.50", true}, {"Chicken Chettinad", "9.75", true}, {"Dal Makhani", "6.25", true}},
			"Breads":  {{"Garlic Naan", "2.00", true}, {"Tandoori Roti", "1.50", true}, {"Cheese Kulcha", "3.25", false}},
		},
	},
	{
		restaurant: models.Restaurant{Name: "Desert Rose", Address: "Al Wasl Rd, Dubai", Phone: "+971 4 555 0101", Email: "orders@desertrose.test", IsActive: true},
		categories: map[string][]demoFood{
			"Grills":   {{"Shish Tawook", "11.00", true}, {"Lamb Kofta", "12.50", true}},
			"Desserts": {{"Kunafa", "5.50", true}, {"Umm Ali", "4.75", true}},
		},
	},
}

// seedCatalog loads the demo menu when no restaurant exists yet.
func seedCatalog(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Restaurant{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, entry := range demoMenu {
			r := entry.restaurant
			if err := tx.Create(&r).Error; err != nil {
				return err
			}
			for name, foods := range entry.categories {
				c := models.Category{Name: name, RestaurantID: r.ID}
				if err := tx.Create(&c).Error; err != nil {
					return err
				}
				for _, f := range foods {
					if err := tx.Create(&models.Food{
						Name:        f.name,
						Price:       decimal.RequireFromString(f.price),
						CategoryID:  c.ID,
						IsAvailable: f.available,
					}).Error; err != nil {
						return err
					}
				}
			}
		}
		return nil
	})
}
