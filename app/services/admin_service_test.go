package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodhub/app/models"
)

func newAdmin(f *fixture) *AdminService {
	return &AdminService{users: f.users, catalog: f.catalog, orders: f.orderRep, ttl: time.Minute, now: time.Now}
}

func TestGrowth(t *testing.T) {
	cases := []struct {
		current, prior int64
		want           float64
	}{
		{0, 0, 0},
		{5, 0, 100},
		{10, 10, 0},
		{15, 10, 50},
		{5, 10, -50},
		{1, 3, -66.67},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, growth(c.current, c.prior), "%d vs %d", c.current, c.prior)
	}
}

func TestDashboardTotals(t *testing.T) {
	f := newFixture(t)
	svc := newAdmin(f)
	ctx := context.Background()

	a := f.food(t, "Korma", "10.00", true)
	f.food(t, "Off Menu", "9.00", false)
	cust := f.user(t, "dash", models.RoleCustomer)
	f.user(t, "rider", models.RoleDeliveryPartner)

	var refs []string
	for _, qty := range []int{1, 2, 3} {
		o, err := f.orders.Create(ctx, cust.ID, []LineItem{{FoodID: a.ID, Quantity: qty}})
		require.NoError(t, err)
		refs = append(refs, o.UUID)
	}
	_, err := f.orders.UpdateStatus(ctx, refs[1], "DELIVERED")
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(ctx, refs[2], "CANCELLED")
	require.NoError(t, err)

	st, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), st.TotalRestaurants)
	assert.Equal(t, int64(1), st.TotalCategories)
	assert.Equal(t, int64(1), st.TotalFoods, "only available foods count")
	assert.Equal(t, int64(2), st.TotalUsers)
	assert.Equal(t, int64(3), st.TotalOrders)
	assert.Equal(t, int64(1), st.PendingOrders)
	assert.Equal(t, int64(1), st.CompletedOrders)
	assert.Equal(t, int64(1), st.CancelledOrders)
	assert.Equal(t, "30.00", st.TotalRevenue.StringFixed(2), "cancelled orders earn nothing")
	assert.Equal(t, float64(100), st.Growth)
	require.Len(t, st.RecentRestaurants, 1)
	assert.Equal(t, "Spice Route", st.RecentRestaurants[0].Name)
	require.Len(t, st.RecentUsers, 1)
	assert.Equal(t, "dash", st.RecentUsers[0].Username)
}

func TestDashboardIsCachedUntilAWrite(t *testing.T) {
	mr := useCache(t)
	f := newFixture(t)
	svc := newAdmin(f)
	ctx := context.Background()

	first, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), first.TotalUsers)
	assert.True(t, mr.Exists(DashboardCacheKey))

	// A direct insert bypasses the services, so the cached copy stays.
	f.user(t, "quiet", models.RoleCustomer)
	cached, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), cached.TotalUsers)

	u, err := f.users.FindByUsername(ctx, "quiet")
	require.NoError(t, err)
	_, err = svc.UpdateUser(ctx, u.UUID, UserPatch{IsActive: ptr(false)})
	require.NoError(t, err)
	assert.False(t, mr.Exists(DashboardCacheKey))

	fresh, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.TotalUsers)
}

func TestAdminUserManagement(t *testing.T) {
	f := newFixture(t)
	svc := newAdmin(f)
	ctx := context.Background()

	one := f.user(t, "first", models.RoleCustomer)
	f.user(t, "second", models.RoleCustomer)
	f.user(t, "driver", models.RoleDeliveryPartner)

	page, err := svc.Users(ctx, 0, 10, models.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	all, err := svc.Users(ctx, 0, 10, "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)

	_, err = svc.UpdateUser(ctx, one.UUID, UserPatch{Username: ptr("second")})
	assert.ErrorIs(t, err, ErrUsernameExists)
	_, err = svc.UpdateUser(ctx, one.UUID, UserPatch{Email: ptr("SECOND@example.test")})
	assert.ErrorIs(t, err, ErrEmailExists)

	p, err := svc.UpdateUser(ctx, one.UUID, UserPatch{
		Username: ptr("renamed"),
		Email:    ptr("renamed@example.test"),
		Role:     ptr(models.RoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", p.Username)
	assert.Equal(t, "renamed@example.test", p.Email)
	assert.Equal(t, models.RoleAdmin, p.Role)

	got, err := svc.User(ctx, one.UUID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Username)

	require.NoError(t, svc.DeleteUser(ctx, one.UUID))
	_, err = svc.User(ctx, one.UUID)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.ErrorIs(t, svc.DeleteUser(ctx, one.UUID), ErrUserNotFound)
}

func TestDeleteUserTakesTheirOrders(t *testing.T) {
	f := newFixture(t)
	svc := newAdmin(f)
	ctx := context.Background()

	a := f.food(t, "Roti", "1.00", true)
	cust := f.user(t, "leaving", models.RoleCustomer)
	_, err := f.orders.Create(ctx, cust.ID, []LineItem{{FoodID: a.ID, Quantity: 1}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteUser(ctx, cust.UUID))
	assert.Zero(t, f.count(t, &models.Order{}))
	assert.Zero(t, f.count(t, &models.OrderItem{}))
	assert.Zero(t, f.count(t, &models.OrderStatusHistory{}))
}
