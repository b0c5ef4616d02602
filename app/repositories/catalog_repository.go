package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/pkg/orm"
)

// CatalogRepository reads and writes restaurants, categories and foods.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// ─── Restaurants ──────────────────────────────────────────────────────────────

func (r *CatalogRepository) CreateRestaurant(ctx context.Context, m *models.Restaurant) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("catalog: create restaurant: %w", err)
	}
	return nil
}

func (r *CatalogRepository) Restaurant(ctx context.Context, uuid string) (models.Restaurant, error) {
	var m models.Restaurant
	err := r.db.WithContext(ctx).Where("uuid = ?", uuid).First(&m).Error
	return m, err
}

func (r *CatalogRepository) RestaurantByID(ctx context.Context, id uint) (models.Restaurant, error) {
	var m models.Restaurant
	err := r.db.WithContext(ctx).First(&m, id).Error
	return m, err
}

// Restaurants pages through restaurants, newest first.
func (r *CatalogRepository) Restaurants(ctx context.Context, skip, limit int, activeOnly bool) (orm.Page[models.Restaurant], error) {
	q := r.db.WithContext(ctx).Model(&models.Restaurant{}).Order("created_at desc, id desc")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	return orm.FetchPage[models.Restaurant](q, skip, limit)
}

func (r *CatalogRepository) RecentRestaurants(ctx context.Context, n int) ([]models.Restaurant, error) {
	var out []models.Restaurant
	err := r.db.WithContext(ctx).Order("created_at desc, id desc").Limit(n).Find(&out).Error
	return out, err
}

func (r *CatalogRepository) CountRestaurants(ctx context.Context, activeOnly bool) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Restaurant{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	err := q.Count(&n).Error
	return n, err
}

// UpdateRestaurant applies a partial column map.
func (r *CatalogRepository) UpdateRestaurant(ctx context.Context, m *models.Restaurant, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(m).Updates(fields).Error; err != nil {
		return fmt.Errorf("catalog: update restaurant: %w", err)
	}
	return nil
}

func (r *CatalogRepository) DeleteRestaurant(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Restaurant{}, id).Error; err != nil {
		return fmt.Errorf("catalog: delete restaurant: %w", err)
	}
	return nil
}

// ─── Categories ───────────────────────────────────────────────────────────────

func (r *CatalogRepository) CreateCategory(ctx context.Context, m *models.Category) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("catalog: create category: %w", err)
	}
	return nil
}

func (r *CatalogRepository) Category(ctx context.Context, id uint) (models.Category, error) {
	var m models.Category
	err := r.db.WithContext(ctx).First(&m, id).Error
	return m, err
}

func (r *CatalogRepository) CategoriesOf(ctx context.Context, restaurantID uint) ([]models.Category, error) {
	out := make([]models.Category, 0)
	err := r.db.WithContext(ctx).Where("restaurant_id = ?", restaurantID).Order("id").Find(&out).Error
	return out, err
}

func (r *CatalogRepository) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Category{}).Count(&n).Error
	return n, err
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, m *models.Category, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(m).Updates(fields).Error; err != nil {
		return fmt.Errorf("catalog: update category: %w", err)
	}
	return nil
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Category{}, id).Error; err != nil {
		return fmt.Errorf("catalog: delete category: %w", err)
	}
	return nil
}

// ─── Foods ────────────────────────────────────────────────────────────────────

func (r *CatalogRepository) CreateFood(ctx context.Context, m *models.Food) error {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("catalog: create food: %w", err)
	}
	return nil
}

func (r *CatalogRepository) Food(ctx context.Context, id uint) (models.Food, error) {
	var m models.Food
	err := r.db.WithContext(ctx).First(&m, id).Error
	return m, err
}

func (r *CatalogRepository) FoodsOf(ctx context.Context, categoryID uint) ([]models.Food, error) {
	out := make([]models.Food, 0)
	err := r.db.WithContext(ctx).Where("category_id = ?", categoryID).Order("id").Find(&out).Error
	return out, err
}

func (r *CatalogRepository) CountFoods(ctx context.Context, availableOnly bool) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.Food{})
	if availableOnly {
		q = q.Where("is_available = ?", true)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *CatalogRepository) UpdateFood(ctx context.Context, m *models.Food, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(m).Updates(fields).Error; err != nil {
		return fmt.Errorf("catalog: update food: %w", err)
	}
	return nil
}

func (r *CatalogRepository) DeleteFood(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Food{}, id).Error; err != nil {
		return fmt.Errorf("catalog: delete food: %w", err)
	}
	return nil
}

// ResolveMany loads every food in ids with a single IN query. Missing ids
// are simply absent from the result. Never cached.
func (r *CatalogRepository) ResolveMany(ctx context.Context, ids []uint) ([]models.Food, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var out []models.Food
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("catalog: resolve foods: %w", err)
	}
	return out, nil
}
