// Package routes maps every endpoint to its controller and guards.
package routes

import (
	"net/http"

	"github.com/shashiranjanraj/foodhub/app/controllers"
	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/ctx"
	"github.com/shashiranjanraj/foodhub/pkg/middleware"
	"github.com/shashiranjanraj/foodhub/pkg/rbac"
	"github.com/shashiranjanraj/foodhub/pkg/router"
)

// Deps is everything the route table needs. Zero-valued controllers are
// fine when the table is only being listed.
type Deps struct {
	Tokens    middleware.TokenVerifier
	Principal middleware.PrincipalLoader

	Auth          *controllers.AuthController
	Orders        *controllers.OrderController
	Catalog       *controllers.CatalogController
	Admin         *controllers.AdminController
	Notifications *controllers.NotificationController

	// GraphQL serves POST /admin/graphql when set.
	GraphQL http.Handler
	// Media serves GET /storage/* when images live on the local disk.
	Media http.Handler
}

// Register adds the API to r.
func Register(r *router.Router, d Deps) {
	authn := middleware.Authenticate(d.Tokens, d.Principal)
	admin := rbac.Admin()

	r.Get("/health", "health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	registerAuth(r, d, authn, admin)
	registerOrders(r, d, authn, admin)
	registerCatalog(r, d, authn, admin)
	registerAdmin(r, d, authn, admin)
	registerNotifications(r, d, authn, admin)

	if d.Media != nil {
		r.Group("/storage").Handle(http.MethodGet, "/*", "storage.show", d.Media)
	}
}

func registerAuth(r *router.Router, d Deps, authn, admin router.Middleware) {
	h := d.Auth
	g := r.Group("/auth")

	g.Post("/customer/register", "auth.customer.register", ctx.Wrap(h.RegisterCustomer))
	g.Post("/customer/login", "auth.customer.login", ctx.Wrap(h.CustomerLogin))
	g.Post("/admin/register", "auth.admin.register", ctx.Wrap(h.RegisterAdmin))
	g.Post("/admin/login", "auth.admin.login", ctx.Wrap(h.AdminLogin))
	g.Post("/delivery/register", "auth.delivery.register", ctx.Wrap(h.RegisterDeliveryPartner), authn, admin)
	g.Post("/delivery/login", "auth.delivery.login", ctx.Wrap(h.DeliveryLogin))
	g.Post("/refresh", "auth.refresh", ctx.Wrap(h.Refresh))
	g.Post("/logout", "auth.logout", ctx.Wrap(h.Logout), authn)
	g.Get("/me", "auth.me", ctx.Wrap(h.Profile), authn)
}

func registerOrders(r *router.Router, d Deps, authn, admin router.Middleware) {
	h := d.Orders
	g := r.Group("/orders", authn)

	customer := g.Group("/customer", rbac.Customer())
	customer.Post("/", "orders.customer.create", ctx.Wrap(h.Create))
	customer.Get("/", "orders.customer.index", ctx.Wrap(h.List))
	customer.Get("/{ref}", "orders.customer.show", ctx.Wrap(h.Show))
	customer.Get("/{ref}/tracking", "orders.customer.tracking", ctx.Wrap(h.Track))

	staff := g.Group("/admin", admin)
	staff.Post("/", "orders.admin.create", ctx.Wrap(h.AdminCreate))
	staff.Get("/", "orders.admin.index", ctx.Wrap(h.AdminList))
	staff.Get("/{ref}", "orders.admin.show", ctx.Wrap(h.AdminShow))
	staff.Get("/{ref}/tracking", "orders.admin.tracking", ctx.Wrap(h.AdminTrack))

	g.Patch("/reaction/{ref}/status", "orders.status", ctx.Wrap(h.UpdateStatus),
		rbac.HasRole(auth.RoleAdmin, auth.RoleDeliveryPartner))
}

func registerCatalog(r *router.Router, d Deps, authn, admin router.Middleware) {
	h := d.Catalog

	rest := r.Group("/restaurants")
	rest.Get("/", "restaurants.index", ctx.Wrap(h.Restaurants))
	rest.Get("/{uuid}", "restaurants.show", ctx.Wrap(h.Restaurant))
	rest.Post("/", "restaurants.create", ctx.Wrap(h.CreateRestaurant), authn, admin)
	rest.Put("/{uuid}", "restaurants.update", ctx.Wrap(h.UpdateRestaurant), authn, admin)
	rest.Delete("/{uuid}", "restaurants.delete", ctx.Wrap(h.DeleteRestaurant), authn, admin)

	cats := r.Group("/categories")
	cats.Get("/restaurant/{restaurantId}", "categories.by_restaurant", ctx.Wrap(h.CategoriesOf))
	cats.Post("/", "categories.create", ctx.Wrap(h.CreateCategory), authn, admin)
	cats.Put("/{id}", "categories.update", ctx.Wrap(h.UpdateCategory), authn, admin)
	cats.Delete("/{id}", "categories.delete", ctx.Wrap(h.DeleteCategory), authn, admin)

	foods := r.Group("/foods")
	foods.Get("/category/{categoryId}", "foods.by_category", ctx.Wrap(h.FoodsOf))
	foods.Post("/", "foods.create", ctx.Wrap(h.CreateFood), authn, admin)
	foods.Put("/{id}", "foods.update", ctx.Wrap(h.UpdateFood), authn, admin)
	foods.Delete("/{id}", "foods.delete", ctx.Wrap(h.DeleteFood), authn, admin)
	foods.Post("/{id}/image", "foods.image", ctx.Wrap(h.UploadImage), authn, admin)
}

func registerAdmin(r *router.Router, d Deps, authn, admin router.Middleware) {
	h := d.Admin
	g := r.Group("/admin", authn, admin)

	g.Get("/dashboard/stats", "admin.dashboard", ctx.Wrap(h.Dashboard))
	g.Get("/profile", "admin.profile", ctx.Wrap(h.Profile))
	g.Get("/users", "admin.users.index", ctx.Wrap(h.Users))
	g.Get("/users/{uuid}", "admin.users.show", ctx.Wrap(h.User))
	g.Put("/users/{uuid}", "admin.users.update", ctx.Wrap(h.UpdateUser))
	g.Delete("/users/{uuid}", "admin.users.delete", ctx.Wrap(h.DeleteUser))

	if d.GraphQL != nil {
		g.Handle(http.MethodPost, "/graphql", "admin.graphql", d.GraphQL)
	}
}

func registerNotifications(r *router.Router, d Deps, authn, admin router.Middleware) {
	h := d.Notifications
	g := r.Group("/notifications", authn)

	g.Get("/admin", "notifications.admin", ctx.Wrap(h.AdminFeed), admin)
	g.Patch("/admin/mark-all-read", "notifications.admin.read_all", ctx.Wrap(h.MarkAllAdminRead), admin)
	g.Patch("/admin/{id}/read", "notifications.admin.read", ctx.Wrap(h.MarkAdminRead), admin)
	g.Get("/me", "notifications.me", ctx.Wrap(h.Mine))
	g.Patch("/me/mark-all-read", "notifications.me.read_all", ctx.Wrap(h.MarkAllMineRead))
}
