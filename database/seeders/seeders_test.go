package seeders_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/database/seeders"
	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/database"
)

func TestSeedersAreIdempotent(t *testing.T) {
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	ctx := context.Background()

	assert.Equal(t, []string{"admin_user", "demo_catalog"}, seeders.Names())

	for i := 0; i < 2; i++ {
		n, err := seeders.RunAll(ctx, db)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	}

	var admins []models.User
	require.NoError(t, db.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "admin", admins[0].Username)
	assert.True(t, admins[0].IsActive)
	assert.True(t, auth.CheckPassword(admins[0].Password, "admin123"))

	var restaurants, categories, foods, unavailable int64
	db.Model(&models.Restaurant{}).Count(&restaurants)
	db.Model(&models.Category{}).Count(&categories)
	db.Model(&models.Food{}).Count(&foods)
	db.Model(&models.Food{}).Where("is_available = ?", false).Count(&unavailable)
	assert.EqualValues(t, 2, restaurants)
	assert.EqualValues(t, 4, categories)
	assert.EqualValues(t, 10, foods)
	assert.EqualValues(t, 1, unavailable)
}
