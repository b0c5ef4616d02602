package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/app/repositories"
	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/pkg/cache"
	"github.com/shashiranjanraj/foodhub/pkg/collection"
	"github.com/shashiranjanraj/foodhub/pkg/crypt"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/orm"
)

// DashboardCacheKey holds the cached DashboardStats.
const DashboardCacheKey = "admin:dashboard:stats"

type RestaurantSummary struct {
	UUID      string    `json:"uuid"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// DashboardStats is the admin landing page. Revenue excludes cancelled
// orders; Growth compares order counts over the last 30 days with the 30
// days before, in percent.
type DashboardStats struct {
	TotalRestaurants  int64               `json:"totalRestaurants"`
	TotalCategories   int64               `json:"totalCategories"`
	TotalFoods        int64               `json:"totalFoods"`
	TotalUsers        int64               `json:"totalUsers"`
	TotalOrders       int64               `json:"totalOrders"`
	PendingOrders     int64               `json:"pendingOrders"`
	CompletedOrders   int64               `json:"completedOrders"`
	CancelledOrders   int64               `json:"cancelledOrders"`
	TotalRevenue      decimal.Decimal     `json:"totalRevenue"`
	Growth            float64             `json:"growth"`
	RecentRestaurants []RestaurantSummary `json:"recentRestaurants"`
	RecentUsers       []UserProfile       `json:"recentUsers"`
}

type UserPatch struct {
	Username *string `json:"username" validate:"nullable,min=3,max=50,alpha_dash"`
	Email    *string `json:"email" validate:"nullable,email,max=255"`
	Role     *string `json:"role" validate:"nullable,in=ADMIN|CUSTOMER|DELIVERY_PARTNER"`
	IsActive *bool   `json:"isActive"`
}

// AdminService backs the admin console.
type AdminService struct {
	users   *repositories.UserRepository
	catalog *repositories.CatalogRepository
	orders  *repositories.OrderRepository

	ttl time.Duration
	now func() time.Time
}

func NewAdminService(users *repositories.UserRepository, catalog *repositories.CatalogRepository, orders *repositories.OrderRepository) *AdminService {
	return &AdminService{
		users:   users,
		catalog: catalog,
		orders:  orders,
		ttl:     config.DashboardCacheTTL(),
		now:     time.Now,
	}
}

// ─── Dashboard ────────────────────────────────────────────────────────────────

// Dashboard returns the stats, cached for DASHBOARD_CACHE_TTL.
func (s *AdminService) Dashboard(ctx context.Context) (DashboardStats, error) {
	return cache.Remember(ctx, DashboardCacheKey, s.ttl, s.computeDashboard)
}

func (s *AdminService) computeDashboard(ctx context.Context) (DashboardStats, error) {
	var (
		st      DashboardStats
		totals  []repositories.StatusTotals
		current int64
		prior   int64
		rests   []models.Restaurant
		users   []models.User
	)
	now := s.now()
	monthAgo := now.AddDate(0, 0, -30)
	twoMonthsAgo := now.AddDate(0, 0, -60)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { st.TotalRestaurants, err = s.catalog.CountRestaurants(gctx, true); return })
	g.Go(func() (err error) { st.TotalCategories, err = s.catalog.CountCategories(gctx); return })
	g.Go(func() (err error) { st.TotalFoods, err = s.catalog.CountFoods(gctx, true); return })
	g.Go(func() (err error) { st.TotalUsers, err = s.users.Count(gctx, ""); return })
	g.Go(func() (err error) { totals, err = s.orders.Totals(gctx); return })
	g.Go(func() (err error) { current, err = s.orders.CountCreatedBetween(gctx, monthAgo, now.Add(time.Second)); return })
	g.Go(func() (err error) { prior, err = s.orders.CountCreatedBetween(gctx, twoMonthsAgo, monthAgo); return })
	g.Go(func() (err error) { rests, err = s.catalog.RecentRestaurants(gctx, 5); return })
	g.Go(func() (err error) { users, err = s.users.Recent(gctx, models.RoleCustomer, 5); return })
	if err := g.Wait(); err != nil {
		return DashboardStats{}, fmt.Errorf("admin: dashboard: %w", err)
	}

	st.TotalRevenue = decimal.Zero
	for _, t := range totals {
		st.TotalOrders += t.Orders
		switch t.Status {
		case models.StatusDelivered:
			st.CompletedOrders += t.Orders
		case models.StatusCancelled:
			st.CancelledOrders += t.Orders
		default:
			st.PendingOrders += t.Orders
		}
		if t.Status != models.StatusCancelled {
			st.TotalRevenue = st.TotalRevenue.Add(t.Revenue)
		}
	}
	st.TotalRevenue = st.TotalRevenue.Round(2)
	st.Growth = growth(current, prior)

	st.RecentRestaurants = make([]RestaurantSummary, 0, len(rests))
	for _, r := range rests {
		st.RecentRestaurants = append(st.RecentRestaurants, RestaurantSummary{
			UUID: r.UUID, Name: r.Name, IsActive: r.IsActive, CreatedAt: r.CreatedAt,
		})
	}
	st.RecentUsers = make([]UserProfile, 0, len(users))
	for _, u := range users {
		st.RecentUsers = append(st.RecentUsers, newUserProfile(u))
	}
	return st, nil
}

// growth is the percent change from prior to current, rounded to two
// places. With no prior orders any activity counts as 100%.
func growth(current, prior int64) float64 {
	if prior == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	pct := float64(current-prior) / float64(prior) * 100
	return math.Round(pct*100) / 100
}

// ─── Users ────────────────────────────────────────────────────────────────────

func (s *AdminService) Users(ctx context.Context, skip, limit int, role string) (orm.Page[UserProfile], error) {
	page, err := s.users.List(ctx, skip, limit, role)
	if err != nil {
		return orm.Page[UserProfile]{}, fmt.Errorf("admin: list users: %w", err)
	}
	return orm.Page[UserProfile]{Total: page.Total, Items: collection.Map(page.Items, newUserProfile)}, nil
}

func (s *AdminService) user(ctx context.Context, ref string) (models.User, error) {
	u, err := s.users.FindByUUID(ctx, ref)
	if orm.IsNotFound(err) {
		return u, ErrUserNotFound
	}
	if err != nil {
		return u, fmt.Errorf("admin: find user: %w", err)
	}
	return u, nil
}

func (s *AdminService) User(ctx context.Context, ref string) (UserProfile, error) {
	u, err := s.user(ctx, ref)
	if err != nil {
		return UserProfile{}, err
	}
	return newUserProfile(u), nil
}

// UpdateUser applies p. Username and email stay unique.
func (s *AdminService) UpdateUser(ctx context.Context, ref string, p UserPatch) (UserProfile, error) {
	u, err := s.user(ctx, ref)
	if err != nil {
		return UserProfile{}, err
	}

	if p.Username != nil {
		name := strings.TrimSpace(*p.Username)
		taken, err := s.users.UsernameTaken(ctx, name, u.ID)
		if err != nil {
			return UserProfile{}, err
		}
		if taken {
			return UserProfile{}, ErrUsernameExists
		}
		u.Username = name
	}
	if p.Email != nil {
		email := strings.TrimSpace(*p.Email)
		taken, err := s.users.EmailTaken(ctx, email, u.ID)
		if err != nil {
			return UserProfile{}, err
		}
		if taken {
			return UserProfile{}, ErrEmailExists
		}
		u.Email = crypt.String(email)
		u.EmailHash = crypt.EmailHash(email)
	}
	if p.Role != nil {
		u.Role = *p.Role
	}
	if p.IsActive != nil {
		u.IsActive = *p.IsActive
	}

	if err := s.users.Save(ctx, &u); err != nil {
		if orm.IsDuplicate(err) {
			return UserProfile{}, ErrUsernameExists
		}
		return UserProfile{}, err
	}
	forgetDashboard(ctx)
	return newUserProfile(u), nil
}

// DeleteUser removes the user; their orders and personal notifications go
// with them.
func (s *AdminService) DeleteUser(ctx context.Context, ref string) error {
	u, err := s.user(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return err
	}
	forgetDashboard(ctx)
	return nil
}

func forgetDashboard(ctx context.Context) {
	if err := cache.Forget(ctx, DashboardCacheKey); err != nil {
		logger.WithCtx(ctx).Warn("dashboard cache not cleared", "error", err)
	}
}
