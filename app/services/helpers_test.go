package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/app/repositories"
	"github.com/shashiranjanraj/foodhub/pkg/crypt"
	"github.com/shashiranjanraj/foodhub/pkg/database"
	"github.com/shashiranjanraj/foodhub/pkg/event"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recordingNotifier) Notify(_ context.Context, n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

func (r *recordingNotifier) all() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

type recordingEvents struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recordingEvents) FireAsync(_ context.Context, e event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recordingEvents) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Name)
	}
	return out
}

// fixture is a seeded database with the order workflow wired to it.
type fixture struct {
	db       *gorm.DB
	orders   *OrderService
	notifier *recordingNotifier
	events   *recordingEvents
	catalog  *repositories.CatalogRepository
	users    *repositories.UserRepository
	orderRep *repositories.OrderRepository
	category models.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newDB(t)
	f := &fixture{
		db:       db,
		notifier: &recordingNotifier{},
		events:   &recordingEvents{},
		catalog:  repositories.NewCatalogRepository(db),
		users:    repositories.NewUserRepository(db),
		orderRep: repositories.NewOrderRepository(db),
	}
	f.orders = &OrderService{
		orders:         f.orderRep,
		users:          f.users,
		foods:          f.catalog,
		notify:         f.notifier,
		events:         f.events,
		txTimeout:      5 * time.Second,
		catalogTimeout: 2 * time.Second,
		now:            time.Now,
	}

	ctx := context.Background()
	r := models.Restaurant{Name: "Spice Route", Address: "1 Main St", Phone: "555-0100", Email: "hello@spice.test", IsActive: true}
	require.NoError(t, f.catalog.CreateRestaurant(ctx, &r))
	f.category = models.Category{Name: "Mains", RestaurantID: r.ID}
	require.NoError(t, f.catalog.CreateCategory(ctx, &f.category))
	return f
}

func (f *fixture) food(t *testing.T, name, price string, available bool) models.Food {
	t.Helper()
	m := models.Food{
		Name:        name,
		Price:       decimal.RequireFromString(price),
		CategoryID:  f.category.ID,
		IsAvailable: available,
	}
	require.NoError(t, f.catalog.CreateFood(context.Background(), &m))
	return m
}

func (f *fixture) user(t *testing.T, username, role string) models.User {
	t.Helper()
	u := models.User{
		Username: username,
		Email:    crypt.String(username + "@example.test"),
		Password: "x",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, f.users.Create(context.Background(), &u))
	return u
}

func (f *fixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(model).Count(&n).Error)
	return n
}
