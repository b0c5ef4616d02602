package services

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/app/repositories"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/orm"
	"github.com/shashiranjanraj/foodhub/pkg/storage"
)

type RestaurantInput struct {
	Name     string `json:"name" validate:"required,max=150"`
	Address  string `json:"address" validate:"required,max=255"`
	Phone    string `json:"phone" validate:"required,max=32"`
	Email    string `json:"email" validate:"required,email,max=255"`
	IsActive *bool  `json:"isActive"`
}

// RestaurantPatch updates only the fields that are present.
type RestaurantPatch struct {
	Name     *string `json:"name" validate:"nullable,max=150"`
	Address  *string `json:"address" validate:"nullable,max=255"`
	Phone    *string `json:"phone" validate:"nullable,max=32"`
	Email    *string `json:"email" validate:"nullable,email,max=255"`
	IsActive *bool   `json:"isActive"`
}

type CategoryInput struct {
	Name         string `json:"name" validate:"required,max=150"`
	RestaurantID uint   `json:"restaurantId" validate:"required"`
	ImageURL     string `json:"imageUrl" validate:"max=1024"`
	Description  string `json:"description"`
}

type CategoryPatch struct {
	Name        *string `json:"name" validate:"nullable,max=150"`
	ImageURL    *string `json:"imageUrl" validate:"nullable,max=1024"`
	Description *string `json:"description"`
}

type FoodInput struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gt=0"`
	CategoryID  uint            `json:"categoryId" validate:"required"`
	IsAvailable *bool           `json:"isAvailable"`
	ImageURL    string          `json:"imageUrl" validate:"max=1024"`
}

type FoodPatch struct {
	Name        *string          `json:"name" validate:"nullable,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"nullable,gt=0"`
	CategoryID  *uint            `json:"categoryId"`
	IsAvailable *bool            `json:"isAvailable"`
	ImageURL    *string          `json:"imageUrl" validate:"nullable,max=1024"`
}

// imageTypes maps accepted upload content types to file extensions.
var imageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

// CatalogService manages restaurants, their categories and their foods.
// Every write drops the cached dashboard.
type CatalogService struct {
	repo *repositories.CatalogRepository
	disk storage.Disk
}

// NewCatalogService stores uploaded images on disk. disk may be nil when
// uploads are not needed.
func NewCatalogService(repo *repositories.CatalogRepository, disk storage.Disk) *CatalogService {
	return &CatalogService{repo: repo, disk: disk}
}

func orTrue(b *bool) bool { return b == nil || *b }

// ─── Restaurants ──────────────────────────────────────────────────────────────

func (s *CatalogService) CreateRestaurant(ctx context.Context, in RestaurantInput) (models.Restaurant, error) {
	m := models.Restaurant{
		Name:     strings.TrimSpace(in.Name),
		Address:  in.Address,
		Phone:    in.Phone,
		Email:    in.Email,
		IsActive: orTrue(in.IsActive),
	}
	if err := s.repo.CreateRestaurant(ctx, &m); err != nil {
		return m, err
	}
	forgetDashboard(ctx)
	return m, nil
}

// Restaurants lists restaurants, newest first.
func (s *CatalogService) Restaurants(ctx context.Context, skip, limit int) (orm.Page[models.Restaurant], error) {
	return s.repo.Restaurants(ctx, skip, limit, false)
}

func (s *CatalogService) Restaurant(ctx context.Context, ref string) (models.Restaurant, error) {
	m, err := s.repo.Restaurant(ctx, ref)
	if orm.IsNotFound(err) {
		return m, ErrRestaurantNotFound
	}
	return m, err
}

func (s *CatalogService) UpdateRestaurant(ctx context.Context, ref string, p RestaurantPatch) (models.Restaurant, error) {
	m, err := s.Restaurant(ctx, ref)
	if err != nil {
		return m, err
	}

	fields := map[string]any{}
	if p.Name != nil {
		fields["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Address != nil {
		fields["address"] = *p.Address
	}
	if p.Phone != nil {
		fields["phone"] = *p.Phone
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.IsActive != nil {
		fields["is_active"] = *p.IsActive
	}
	if err := s.repo.UpdateRestaurant(ctx, &m, fields); err != nil {
		return m, err
	}
	forgetDashboard(ctx)
	return s.Restaurant(ctx, ref)
}

// DeleteRestaurant removes the restaurant with its categories and foods.
// Past orders keep their item snapshots.
func (s *CatalogService) DeleteRestaurant(ctx context.Context, ref string) error {
	m, err := s.Restaurant(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteRestaurant(ctx, m.ID); err != nil {
		return err
	}
	forgetDashboard(ctx)
	return nil
}

// ─── Categories ───────────────────────────────────────────────────────────────

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	if _, err := s.repo.RestaurantByID(ctx, in.RestaurantID); err != nil {
		if orm.IsNotFound(err) {
			return models.Category{}, ErrRestaurantNotFound
		}
		return models.Category{}, err
	}

	m := models.Category{
		Name:         strings.TrimSpace(in.Name),
		RestaurantID: in.RestaurantID,
		ImageURL:     in.ImageURL,
		Description:  in.Description,
	}
	if err := s.repo.CreateCategory(ctx, &m); err != nil {
		return m, err
	}
	forgetDashboard(ctx)
	return m, nil
}

// CategoriesOf lists a restaurant's categories. An unknown restaurant is
// ErrRestaurantNotFound rather than an empty list.
func (s *CatalogService) CategoriesOf(ctx context.Context, restaurantID uint) ([]models.Category, error) {
	if _, err := s.repo.RestaurantByID(ctx, restaurantID); err != nil {
		if orm.IsNotFound(err) {
			return nil, ErrRestaurantNotFound
		}
		return nil, err
	}
	return s.repo.CategoriesOf(ctx, restaurantID)
}

func (s *CatalogService) category(ctx context.Context, id uint) (models.Category, error) {
	m, err := s.repo.Category(ctx, id)
	if orm.IsNotFound(err) {
		return m, ErrCategoryNotFound
	}
	return m, err
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, p CategoryPatch) (models.Category, error) {
	m, err := s.category(ctx, id)
	if err != nil {
		return m, err
	}
	fields := map[string]any{}
	if p.Name != nil {
		fields["name"] = strings.TrimSpace(*p.Name)
	}
	if p.ImageURL != nil {
		fields["image_url"] = *p.ImageURL
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if err := s.repo.UpdateCategory(ctx, &m, fields); err != nil {
		return m, err
	}
	return s.category(ctx, id)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	if _, err := s.category(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return err
	}
	forgetDashboard(ctx)
	return nil
}

// ─── Foods ────────────────────────────────────────────────────────────────────

func (s *CatalogService) CreateFood(ctx context.Context, in FoodInput) (models.Food, error) {
	if _, err := s.category(ctx, in.CategoryID); err != nil {
		return models.Food{}, err
	}
	m := models.Food{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price.Round(2),
		CategoryID:  in.CategoryID,
		IsAvailable: orTrue(in.IsAvailable),
		ImageURL:    in.ImageURL,
	}
	if err := s.repo.CreateFood(ctx, &m); err != nil {
		return m, err
	}
	forgetDashboard(ctx)
	return m, nil
}

func (s *CatalogService) FoodsOf(ctx context.Context, categoryID uint) ([]models.Food, error) {
	if _, err := s.category(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.repo.FoodsOf(ctx, categoryID)
}

func (s *CatalogService) Food(ctx context.Context, id uint) (models.Food, error) {
	m, err := s.repo.Food(ctx, id)
	if orm.IsNotFound(err) {
		return m, ErrFoodNotFound
	}
	return m, err
}

func (s *CatalogService) UpdateFood(ctx context.Context, id uint, p FoodPatch) (models.Food, error) {
	m, err := s.Food(ctx, id)
	if err != nil {
		return m, err
	}

	fields := map[string]any{}
	if p.Name != nil {
		fields["name"] = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Price != nil {
		fields["price"] = p.Price.Round(2)
	}
	if p.CategoryID != nil {
		if _, err := s.category(ctx, *p.CategoryID); err != nil {
			return m, err
		}
		fields["category_id"] = *p.CategoryID
	}
	if p.IsAvailable != nil {
		fields["is_available"] = *p.IsAvailable
	}
	if p.ImageURL != nil {
		fields["image_url"] = *p.ImageURL
	}
	if err := s.repo.UpdateFood(ctx, &m, fields); err != nil {
		return m, err
	}
	forgetDashboard(ctx)
	return s.Food(ctx, id)
}

func (s *CatalogService) DeleteFood(ctx context.Context, id uint) error {
	if _, err := s.Food(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteFood(ctx, id); err != nil {
		return err
	}
	forgetDashboard(ctx)
	return nil
}

// UploadFoodImage stores r on the configured disk under
// foods/<id>/<random><ext> and saves its public URL on the food.
func (s *CatalogService) UploadFoodImage(ctx context.Context, id uint, contentType string, r io.Reader) (models.Food, error) {
	ext, ok := imageTypes[strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))]
	if !ok || s.disk == nil {
		return models.Food{}, ErrInvalidImage
	}
	m, err := s.Food(ctx, id)
	if err != nil {
		return m, err
	}

	key := path.Join("foods", fmt.Sprint(id), uuid.NewString()+ext)
	url, err := s.disk.Put(ctx, key, r, contentType)
	if err != nil {
		return m, fmt.Errorf("catalog: store image: %w", err)
	}
	if err := s.repo.UpdateFood(ctx, &m, map[string]any{"image_url": url}); err != nil {
		return m, err
	}
	logger.WithCtx(ctx).Info("food image stored", "food_id", id, "key", key)
	return s.Food(ctx, id)
}

// ResolveMany satisfies FoodResolver.
func (s *CatalogService) ResolveMany(ctx context.Context, ids []uint) ([]models.Food, error) {
	return s.repo.ResolveMany(ctx, ids)
}
