package kernel_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/foodhub/app/models"
	"github.com/shashiranjanraj/foodhub/app/services"
	"github.com/shashiranjanraj/foodhub/pkg/app"
	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/cache"
	"github.com/shashiranjanraj/foodhub/pkg/database"
	"github.com/shashiranjanraj/foodhub/pkg/response"
	"github.com/shashiranjanraj/foodhub/pkg/storage"
)

type envelope[T any] struct {
	Status     int                `json:"status"`
	ErrorType  response.ErrorType `json:"errorType"`
	Message    string             `json:"message"`
	StatusCode int                `json:"statusCode"`
	Data       T                  `json:"data"`
}

type api struct {
	t *testing.T
	h http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.Use(rdb)
	t.Cleanup(func() { _ = cache.Close() })

	db, err := database.OpenMemory()
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	storage.Register("local", storage.NewLocalDisk(t.TempDir(), "http://cdn.test/storage"))
	storage.SetDefault("local")

	tokens := auth.NewTokenService(rdb, auth.Options{
		Secret:     []byte("kernel-test-secret"),
		Issuer:     "foodhub",
		Audience:   "api",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	})
	repos := app.NewRepositories(db)
	a := &app.Application{
		DB:     db,
		Tokens: tokens,
		Repos:  repos,
		Svc:    app.NewServices(repos, tokens, services.DirectNotifier{Repo: repos.Notifications}, nil, storage.Default()),
	}
	h, err := a.Handler()
	require.NoError(t, err)
	return &api{t: t, h: h}
}

func (a *api) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.RemoteAddr = "10.0.0.1:5000"
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	return a.send(req, token)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func expect[T any](t *testing.T, rec *httptest.ResponseRecorder, want response.ErrorType) T {
	t.Helper()
	env := decode[T](t, rec)
	require.Equal(t, want, env.ErrorType, rec.Body.String())
	require.Equal(t, want.StatusCode(), rec.Code)
	require.Equal(t, rec.Code, env.StatusCode)
	return env.Data
}

type idOnly struct {
	ID   uint   `json:"id"`
	UUID string `json:"uuid"`
}

// register signs a user up through the role's endpoint and logs them in.
func (a *api) register(role, name, adminToken string) string {
	a.t.Helper()
	kind := map[string]string{
		auth.RoleCustomer:        "customer",
		auth.RoleAdmin:           "admin",
		auth.RoleDeliveryPartner: "delivery",
	}[role]

	body := map[string]string{"username": name, "email": name + "@example.test", "password": "secret-pass"}
	expect[services.UserProfile](a.t, a.do(http.MethodPost, "/auth/"+kind+"/register", adminToken, body), response.SucCreated)

	pair := expect[auth.TokenPair](a.t, a.do(http.MethodPost, "/auth/"+kind+"/login", "", map[string]string{
		"username": name, "password": "secret-pass",
	}), response.SucOK)
	require.NotEmpty(a.t, pair.AccessToken)
	return pair.AccessToken
}

// menu creates a restaurant, a category and one food per price.
func (a *api) menu(adminToken string, prices ...string) []uint {
	a.t.Helper()
	r := expect[idOnly](a.t, a.do(http.MethodPost, "/restaurants", adminToken, map[string]any{
		"name": "Spice Route", "address": "1 Main St", "phone": "555-0100", "email": "hello@spice.test",
	}), response.SucCreated)
	c := expect[idOnly](a.t, a.do(http.MethodPost, "/categories", adminToken, map[string]any{
		"name": "Mains", "restaurantId": r.ID,
	}), response.SucCreated)

	ids := make([]uint, 0, len(prices))
	for i, p := range prices {
		f := expect[idOnly](a.t, a.do(http.MethodPost, "/foods", adminToken, map[string]any{
			"name": fmt.Sprintf("Dish %d", i+1), "price": p, "categoryId": c.ID,
		}), response.SucCreated)
		ids = append(ids, f.ID)
	}
	return ids
}

func TestUnknownRouteAnswersWithEnvelope(t *testing.T) {
	a := newAPI(t)

	env := decode[any](t, a.do(http.MethodGet, "/nope", "", nil))
	assert.Equal(t, -1, env.Status)
	assert.Equal(t, response.ResNotFound, env.ErrorType)
	assert.Equal(t, "Route not found", env.Message)

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set("Accept-Language", "ar")
	env = decode[any](t, a.send(req, ""))
	assert.Equal(t, "المسار غير موجود", env.Message)
}

func TestHealthAndMetrics(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = a.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "foodhub_http_requests_total")
}

func TestCustomerOrderLifecycle(t *testing.T) {
	a := newAPI(t)
	admin := a.register(auth.RoleAdmin, "root", "")
	customer := a.register(auth.RoleCustomer, "priya", "")
	foods := a.menu(admin, "8.50", "3.25")

	order := expect[services.OrderView](t, a.do(http.MethodPost, "/orders/customer", customer, map[string]any{
		"items": []map[string]any{{"foodId": foods[0], "quantity": 2}, {"foodId": foods[1], "quantity": 1}},
	}), response.SucCreated)
	assert.Equal(t, models.StatusPending, order.Status)
	assert.True(t, decimal.RequireFromString("20.25").Equal(order.TotalAmount), order.TotalAmount.String())
	assert.Len(t, order.Items, 2)

	page := expect[struct {
		Total int64               `json:"total"`
		Items []services.OrderView `json:"items"`
	}](t, a.do(http.MethodGet, "/orders/customer?skip=0&limit=10", customer, nil), response.SucOK)
	assert.EqualValues(t, 1, page.Total)

	updated := expect[services.OrderView](t, a.do(http.MethodPatch, "/orders/reaction/"+order.UUID+"/status", admin,
		map[string]string{"status": "ACCEPTED"}), response.SucOK)
	assert.Equal(t, models.StatusAccepted, updated.Status)
	assert.Greater(t, updated.Revision, order.Revision)

	track := expect[services.TrackingView](t, a.do(http.MethodGet, "/orders/customer/"+order.UUID+"/tracking", customer, nil), response.SucOK)
	require.Len(t, track.StatusHistory, 2)
	assert.Equal(t, models.StatusPending, track.StatusHistory[0].Status)
	assert.Equal(t, models.StatusAccepted, track.StatusHistory[1].Status)

	mine := expect[services.NotificationFeed](t, a.do(http.MethodGet, "/notifications/me", customer, nil), response.SucOK)
	require.Len(t, mine.Items, 1)
	assert.Equal(t, "Order Status Updated", mine.Items[0].Title)

	feed := expect[services.NotificationFeed](t, a.do(http.MethodGet, "/notifications/admin", admin, nil), response.SucOK)
	assert.EqualValues(t, 2, feed.UnreadCount)
	assert.Equal(t, order.UUID, feed.Items[0].OrderUUID)

	expect[map[string]int64](t, a.do(http.MethodPatch, "/notifications/admin/mark-all-read", admin, nil), response.SucOK)
	feed = expect[services.NotificationFeed](t, a.do(http.MethodGet, "/notifications/admin", admin, nil), response.SucOK)
	assert.Zero(t, feed.UnreadCount)
}

func TestOrderFailuresMapToEnvelopes(t *testing.T) {
	a := newAPI(t)
	admin := a.register(auth.RoleAdmin, "root", "")
	customer := a.register(auth.RoleCustomer, "priya", "")
	foods := a.menu(admin, "4.00")

	expect[any](t, a.do(http.MethodPost, "/orders/customer", customer, map[string]any{"items": []any{}}), response.ValEmptyOrder)
	expect[any](t, a.do(http.MethodPost, "/orders/customer", customer, map[string]any{
		"items": []map[string]any{{"foodId": 9999, "quantity": 1}},
	}), response.ValEmptyOrder)
	expect[any](t, a.do(http.MethodPost, "/orders/customer", customer, map[string]any{
		"items": []map[string]any{{"foodId": foods[0], "quantity": 0}},
	}), response.ValInvalidParameters)

	order := expect[services.OrderView](t, a.do(http.MethodPost, "/orders/customer", customer, map[string]any{
		"items": []map[string]any{{"foodId": foods[0], "quantity": 1}},
	}), response.SucCreated)

	expect[any](t, a.do(http.MethodPatch, "/orders/reaction/"+order.UUID+"/status", admin,
		map[string]string{"status": "SHIPPED"}), response.ValInvalidParameters)
	expect[any](t, a.do(http.MethodPatch, "/orders/reaction/00000000-0000-0000-0000-000000000000/status", admin,
		map[string]string{"status": "ACCEPTED"}), response.ResNotFound)
	expect[any](t, a.do(http.MethodGet, "/orders/customer/00000000-0000-0000-0000-000000000000", customer, nil), response.ResNotFound)
	expect[any](t, a.do(http.MethodGet, "/orders/customer?limit=500", customer, nil), response.ValInvalidParameters)

	// Guards.
	expect[any](t, a.do(http.MethodGet, "/orders/customer", "", nil), response.AuthTokenExpired)
	expect[any](t, a.do(http.MethodGet, "/orders/customer", admin, nil), response.AuthAccessDenied)
	expect[any](t, a.do(http.MethodGet, "/orders/admin", customer, nil), response.AuthAccessDenied)
	expect[any](t, a.do(http.MethodPatch, "/orders/reaction/"+order.UUID+"/status", customer,
		map[string]string{"status": "ACCEPTED"}), response.AuthAccessDenied)
}

func TestAdminPlacesAndListsOrders(t *testing.T) {
	a := newAPI(t)
	admin := a.register(auth.RoleAdmin, "root", "")
	a.register(auth.RoleCustomer, "priya", "")
	foods := a.menu(admin, "5.00")

	users := expect[struct {
		Items []services.UserProfile `json:"items"`
	}](t, a.do(http.MethodGet, "/admin/users?role=CUSTOMER", admin, nil), response.SucOK)
	require.Len(t, users.Items, 1)

	expect[any](t, a.do(http.MethodPost, "/orders/admin", admin, map[string]any{
		"customerId": "00000000-0000-0000-0000-000000000000",
		"items":      []map[string]any{{"foodId": foods[0], "quantity": 1}},
	}), response.ResNotFound)

	order := expect[services.OrderView](t, a.do(http.MethodPost, "/orders/admin", admin, map[string]any{
		"customerId": users.Items[0].UUID,
		"items":      []map[string]any{{"foodId": foods[0], "quantity": 3}},
	}), response.SucCreated)
	assert.Equal(t, users.Items[0].UUID, order.UserID)

	list := expect[services.AdminOrderPage](t, a.do(http.MethodGet, "/orders/admin?status=PENDING", admin, nil), response.SucOK)
	assert.EqualValues(t, 1, list.Total)
	assert.EqualValues(t, 1, list.StatusCounts[models.StatusPending])

	expect[services.OrderView](t, a.do(http.MethodGet, "/orders/admin/"+order.UUID, admin, nil), response.SucOK)

	expect[any](t, a.do(http.MethodGet, "/admin/users?role=CHEF", admin, nil), response.ValInvalidParameters)
}

func TestDeliveryPartnerMovesOrders(t *testing.T) {
	a := newAPI(t)
	admin := a.register(auth.RoleAdmin, "root", "")
	customer := a.register(auth.RoleCustomer, "priya", "")
	foods := a.menu(admin, "6.00")

	body := map[string]string{"username": "rider", "email": "rider@example.test", "password": "secret-pass"}
	expect[any](t, a.do(http.MethodPost, "/auth/delivery/register", customer, body), response.AuthAccessDenied)
	rider := a.register(auth.RoleDeliveryPartner, "rider", admin)

	order := expect[services.OrderView](t, a.do(http.MethodPost, "/orders/customer", customer, map[string]any{
		"items": []map[string]any{{"foodId": foods[0], "quantity": 1}},
	}), response.SucCreated)

	got := expect[services.OrderView](t, a.do(http.MethodPatch, "/orders/reaction/"+order.UUID+"/status", rider,
		map[string]string{"status": "OUT_FOR_DELIVERY"}), response.SucOK)
	assert.Equal(t, models.StatusOutForDelivery, got.Status)

	expect[any](t, a.do(http.MethodGet, "/orders/admin", rider, nil), response.AuthAccessDenied)
}

func TestLogoutRevokesTheAccessToken(t *testing.T) {
	a := newAPI(t)
	customer := a.register(auth.RoleCustomer, "priya", "")

	expect[any](t, a.do(http.MethodPost, "/auth/logout", customer, nil), response.SucOK)
	expect[any](t, a.do(http.MethodGet, "/notifications/me", customer, nil), response.AuthTokenExpired)

	expect[any](t, a.do(http.MethodPost, "/auth/customer/login", "", map[string]string{
		"username": "priya", "password": "wrong-pass",
	}), response.AuthInvalidCredentials)
}

func TestAdminGraphQL(t *testing.T) {
	a := newAPI(t)
	admin := a.register(auth.RoleAdmin, "root", "")
	customer := a.register(auth.RoleCustomer, "priya", "")
	foods := a.menu(admin, "2.50")
	expect[services.OrderView](t, a.do(http.MethodPost, "/orders/customer", customer, map[string]any{
		"items": []map[string]any{{"foodId": foods[0], "quantity": 2}},
	}), response.SucCreated)

	rec := a.do(http.MethodPost, "/admin/graphql", admin, map[string]any{
		"query": `{ dashboard { totalOrders totalRevenue } orders(limit: 5) { total items { status totalAmount } } }`,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Data struct {
			Dashboard struct {
				TotalOrders  int    `json:"totalOrders"`
				TotalRevenue string `json:"totalRevenue"`
			} `json:"dashboard"`
			Orders struct {
				Total int `json:"total"`
				Items []struct {
					Status      string `json:"status"`
					TotalAmount string `json:"totalAmount"`
				} `json:"items"`
			} `json:"orders"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Data.Dashboard.TotalOrders)
	assert.Equal(t, "5.00", out.Data.Dashboard.TotalRevenue)
	require.Len(t, out.Data.Orders.Items, 1)
	assert.Equal(t, "PENDING", out.Data.Orders.Items[0].Status)

	expect[any](t, a.do(http.MethodPost, "/admin/graphql", customer, map[string]any{"query": "{ dashboard { totalOrders } }"}), response.AuthAccessDenied)
}

func TestFoodImageUploadIsServedFromStorage(t *testing.T) {
	a := newAPI(t)
	admin := a.register(auth.RoleAdmin, "root", "")
	foods := a.menu(admin, "7.00")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition", `form-data; name="image"; filename="dish.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	require.NoError(t, err)
	_, _ = part.Write([]byte("png-bytes"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/foods/%d/image", foods[0]), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	food := expect[models.Food](t, a.send(req, admin), response.SucOK)
	require.True(t, strings.HasPrefix(food.ImageURL, "http://cdn.test/storage/foods/"), food.ImageURL)

	rec := a.do(http.MethodGet, strings.TrimPrefix(food.ImageURL, "http://cdn.test"), "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
}
