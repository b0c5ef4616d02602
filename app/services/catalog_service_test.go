package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodhub/app/repositories"
	"github.com/shashiranjanraj/foodhub/pkg/cache"
	"github.com/shashiranjanraj/foodhub/pkg/storage"
)

func useCache(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.Use(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cache.Close() })
	return mr
}

// newCatalog returns a catalog service storing uploads under the returned
// directory.
func newCatalog(t *testing.T) (*CatalogService, string) {
	t.Helper()
	root := t.TempDir()
	svc := NewCatalogService(repositories.NewCatalogRepository(newDB(t)), storage.NewLocalDisk(root, "http://cdn.test/media"))
	return svc, root
}

func ptr[T any](v T) *T { return &v }

func TestRestaurantLifecycle(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	r, err := svc.CreateRestaurant(ctx, RestaurantInput{Name: " Curry House ", Address: "2 High St", Phone: "555-0101", Email: "eat@curry.test"})
	require.NoError(t, err)
	assert.Equal(t, "Curry House", r.Name)
	assert.True(t, r.IsActive, "restaurants start active")
	assert.NotEmpty(t, r.UUID)

	got, err := svc.UpdateRestaurant(ctx, r.UUID, RestaurantPatch{Phone: ptr("555-0199"), IsActive: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "555-0199", got.Phone)
	assert.False(t, got.IsActive)
	assert.Equal(t, "Curry House", got.Name, "absent fields are left alone")

	page, err := svc.Restaurants(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.DeleteRestaurant(ctx, r.UUID))
	_, err = svc.Restaurant(ctx, r.UUID)
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
	assert.ErrorIs(t, svc.DeleteRestaurant(ctx, r.UUID), ErrRestaurantNotFound)
}

func TestCategoriesAndFoodsNeedTheirParent(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, CategoryInput{Name: "Starters", RestaurantID: 404})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
	_, err = svc.CategoriesOf(ctx, 404)
	assert.ErrorIs(t, err, ErrRestaurantNotFound)

	_, err = svc.CreateFood(ctx, FoodInput{Name: "Soup", Price: decimal.NewFromInt(3), CategoryID: 404})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
	_, err = svc.FoodsOf(ctx, 404)
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	r, err := svc.CreateRestaurant(ctx, RestaurantInput{Name: "Bistro", Address: "3 Low St", Phone: "555-0102", Email: "hi@bistro.test"})
	require.NoError(t, err)
	c, err := svc.CreateCategory(ctx, CategoryInput{Name: "Starters", RestaurantID: r.ID})
	require.NoError(t, err)

	cats, err := svc.CategoriesOf(ctx, r.ID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	assert.Equal(t, "Starters", cats[0].Name)

	food, err := svc.CreateFood(ctx, FoodInput{Name: "Soup", Price: decimal.RequireFromString("3.456"), CategoryID: c.ID})
	require.NoError(t, err)
	assert.Equal(t, "3.46", food.Price.StringFixed(2))
	assert.True(t, food.IsAvailable)

	food, err = svc.UpdateFood(ctx, food.ID, FoodPatch{IsAvailable: ptr(false), Price: ptr(decimal.NewFromInt(4))})
	require.NoError(t, err)
	assert.False(t, food.IsAvailable)
	assert.True(t, food.Price.Equal(decimal.NewFromInt(4)))

	_, err = svc.UpdateFood(ctx, food.ID, FoodPatch{CategoryID: ptr(uint(999))})
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	foods, err := svc.FoodsOf(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, foods, 1)

	cat, err := svc.UpdateCategory(ctx, c.ID, CategoryPatch{Description: ptr("Small plates")})
	require.NoError(t, err)
	assert.Equal(t, "Small plates", cat.Description)

	require.NoError(t, svc.DeleteCategory(ctx, c.ID))
	_, err = svc.Food(ctx, food.ID)
	assert.ErrorIs(t, err, ErrFoodNotFound, "foods go with their category")
}

func TestUploadFoodImage(t *testing.T) {
	svc, root := newCatalog(t)
	ctx := context.Background()

	r, err := svc.CreateRestaurant(ctx, RestaurantInput{Name: "Deli", Address: "4 Side St", Phone: "555-0103", Email: "hi@deli.test"})
	require.NoError(t, err)
	c, err := svc.CreateCategory(ctx, CategoryInput{Name: "Sandwiches", RestaurantID: r.ID})
	require.NoError(t, err)
	food, err := svc.CreateFood(ctx, FoodInput{Name: "Club", Price: decimal.NewFromInt(7), CategoryID: c.ID})
	require.NoError(t, err)

	_, err = svc.UploadFoodImage(ctx, food.ID, "text/plain", strings.NewReader("nope"))
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = svc.UploadFoodImage(ctx, 999, "image/png", strings.NewReader("png"))
	assert.ErrorIs(t, err, ErrFoodNotFound)

	got, err := svc.UploadFoodImage(ctx, food.ID, "image/png; charset=binary", strings.NewReader("fake-png"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got.ImageURL, "http://cdn.test/media/foods/"), got.ImageURL)
	assert.True(t, strings.HasSuffix(got.ImageURL, ".png"), got.ImageURL)

	rel := strings.TrimPrefix(got.ImageURL, "http://cdn.test/media/")
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	require.NoError(t, err)
	assert.Equal(t, "fake-png", string(data))
}

func TestCatalogWritesDropCachedDashboard(t *testing.T) {
	mr := useCache(t)
	svc, _ := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(DashboardCacheKey, `{"totalRestaurants":0}`))
	_, err := svc.CreateRestaurant(ctx, RestaurantInput{Name: "Diner", Address: "5 Road", Phone: "555-0104", Email: "hi@diner.test"})
	require.NoError(t, err)
	assert.False(t, mr.Exists(DashboardCacheKey))
}

func TestResolveManySkipsUnknownIDs(t *testing.T) {
	svc, _ := newCatalog(t)
	ctx := context.Background()

	r, err := svc.CreateRestaurant(ctx, RestaurantInput{Name: "Cafe", Address: "6 Lane", Phone: "555-0105", Email: "hi@cafe.test"})
	require.NoError(t, err)
	c, err := svc.CreateCategory(ctx, CategoryInput{Name: "Drinks", RestaurantID: r.ID})
	require.NoError(t, err)
	food, err := svc.CreateFood(ctx, FoodInput{Name: "Latte", Price: decimal.NewFromInt(3), CategoryID: c.ID, IsAvailable: ptr(false)})
	require.NoError(t, err)
	assert.False(t, food.IsAvailable)

	got, err := svc.ResolveMany(ctx, []uint{food.ID, 12345})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, food.ID, got[0].ID)

	got, err = svc.ResolveMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
