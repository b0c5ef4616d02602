package repositories_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/app/repositories"
	"github.com/shashiranjanraj/foodhub/pkg/crypt"
	"github.com/shashiranjanraj/foodhub/pkg/database"
)

type RepositorySuite struct {
	suite.Suite

	ctx      context.Context
	db       *gorm.DB
	users    *repositories.UserRepository
	catalog  *repositories.CatalogRepository
	orders   *repositories.OrderRepository
	customer models.User
	foods    []models.Food
}

func TestRepositories(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	db, err := database.OpenMemory()
	s.Require().NoError(err)
	s.Require().NoError(db.AutoMigrate(models.All()...))

	s.ctx = context.Background()
	s.db = db
	s.users = repositories.NewUserRepository(db)
	s.catalog = repositories.NewCatalogRepository(db)
	s.orders = repositories.NewOrderRepository(db)

	s.customer = s.user("priya", models.RoleCustomer)

	r := models.Restaurant{Name: "Spice Route", Address: "1 Main St", Phone: "555-0100", Email: "hi@spice.test", IsActive: true}
	s.Require().NoError(s.catalog.CreateRestaurant(s.ctx, &r))
	c := models.Category{Name: "Mains", RestaurantID: r.ID}
	s.Require().NoError(s.catalog.CreateCategory(s.ctx, &c))

	s.foods = nil
	for _, name := range []string{"Dosa", "Idli"} {
		f := models.Food{Name: name, Price: decimal.RequireFromString("4.50"), CategoryID: c.ID, IsAvailable: true}
		s.Require().NoError(s.catalog.CreateFood(s.ctx, &f))
		s.foods = append(s.foods, f)
	}
}

func (s *RepositorySuite) TearDownTest() {
	if sqlDB, err := s.db.DB(); err == nil {
		sqlDB.Close()
	}
}

func (s *RepositorySuite) user(name, role string) models.User {
	u := models.User{Username: name, Email: crypt.String(name + "@example.test"), Password: "x", Role: role, IsActive: true}
	s.Require().NoError(s.users.Create(s.ctx, &u))
	return u
}

func (s *RepositorySuite) order() models.Order {
	o := models.Order{
		UserID:      s.customer.ID,
		Status:      models.StatusPending,
		TotalAmount: decimal.RequireFromString("9.00"),
		Items: []models.OrderItem{
			{FoodID: s.foods[0].ID, FoodName: "Dosa", Quantity: 2, Price: s.foods[0].Price},
		},
	}
	s.Require().NoError(s.orders.Insert(s.ctx, &o, models.OrderStatusHistory{Status: models.StatusPending}))
	return o
}

func (s *RepositorySuite) TestInsertAssignsUUIDAndFirstRevision() {
	o := s.order()
	s.Len(o.UUID, 36)
	s.EqualValues(1, o.Revision)

	got, err := s.orders.FindByUUID(s.ctx, o.UUID)
	s.Require().NoError(err)
	s.Require().Len(got.Items, 1)
	s.Equal("Dosa", got.Items[0].FoodName)
	s.Require().NotNil(got.User)
	s.Equal("priya", got.User.Username)
}

func (s *RepositorySuite) TestCompareAndSetStatusRejectsStaleRevision() {
	o := s.order()

	ok, err := s.orders.CompareAndSetStatus(s.ctx, o.ID, 1, models.StatusAccepted)
	s.Require().NoError(err)
	s.True(ok)

	ok, err = s.orders.CompareAndSetStatus(s.ctx, o.ID, 1, models.StatusCancelled)
	s.Require().NoError(err)
	s.False(ok)

	got, err := s.orders.FindByID(s.ctx, o.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusAccepted, got.Status)
	s.EqualValues(2, got.Revision)
}

func (s *RepositorySuite) TestHistoryIsOldestFirst() {
	o := s.order()
	s.Require().NoError(s.orders.AppendHistory(s.ctx, o.ID, models.StatusAccepted))
	s.Require().NoError(s.orders.AppendHistory(s.ctx, o.ID, models.StatusPreparing))

	h, err := s.orders.History(s.ctx, o.ID)
	s.Require().NoError(err)
	s.Require().Len(h, 3)
	s.Equal(models.StatusPending, h[0].Status)
	s.Equal(models.StatusPreparing, h[2].Status)
}

func (s *RepositorySuite) TestStatusCountsIncludeEveryStatus() {
	s.order()
	s.order()

	counts, err := s.orders.StatusCounts(s.ctx)
	s.Require().NoError(err)
	s.Len(counts, len(models.OrderStatuses))
	s.EqualValues(2, counts[models.StatusPending])
	s.Zero(counts[models.StatusDelivered])
}

func (s *RepositorySuite) TestListFiltersAndPages() {
	for range 3 {
		s.order()
	}
	page, err := s.orders.ListByUser(s.ctx, s.customer.ID, 1, 1)
	s.Require().NoError(err)
	s.EqualValues(3, page.Total)
	s.Len(page.Items, 1)

	accepted := models.StatusAccepted
	page, err = s.orders.ListAll(s.ctx, 0, 10, &accepted)
	s.Require().NoError(err)
	s.Zero(page.Total)
	s.Empty(page.Items)
}

func (s *RepositorySuite) TestResolveManySkipsUnknownIDs() {
	foods, err := s.catalog.ResolveMany(s.ctx, []uint{s.foods[1].ID, 9999})
	s.Require().NoError(err)
	s.Require().Len(foods, 1)
	s.Equal("Idli", foods[0].Name)

	foods, err = s.catalog.ResolveMany(s.ctx, nil)
	s.Require().NoError(err)
	s.Empty(foods)
}

func (s *RepositorySuite) TestUserLookups() {
	admin := s.user("root", models.RoleAdmin)

	taken, err := s.users.UsernameTaken(s.ctx, "priya", 0)
	s.Require().NoError(err)
	s.True(taken)
	taken, err = s.users.UsernameTaken(s.ctx, "priya", s.customer.ID)
	s.Require().NoError(err)
	s.False(taken)

	taken, err = s.users.EmailTaken(s.ctx, "PRIYA@example.test", 0)
	s.Require().NoError(err)
	s.True(taken)

	n, err := s.users.Count(s.ctx, models.RoleAdmin)
	s.Require().NoError(err)
	s.EqualValues(1, n)

	names, err := s.users.NamesByID(s.ctx, []uint{s.customer.ID, admin.ID})
	s.Require().NoError(err)
	s.Equal(map[uint]string{s.customer.ID: "priya", admin.ID: "root"}, names)
}
