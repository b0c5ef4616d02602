// Package app wires the FoodHub process together: connections,
// repositories, services, controllers and background workers.
//
//	a, err := app.Bootstrap(ctx)
//	if err != nil { ... }
//	defer a.Close()
//	server.Run(ctx, a.Handler(), opts)
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/foodhub/app/controllers"
	appgraphql "github.com/shashiranjanraj/foodhub/app/graphql"
	"github.com/shashiranjanraj/foodhub/app/repositories"
	"github.com/shashiranjanraj/foodhub/app/routes"
	"github.com/shashiranjanraj/foodhub/app/services"
	"github.com/shashiranjanraj/foodhub/config"
	"github.com/shashiranjanraj/foodhub/internal/kernel"
	"github.com/shashiranjanraj/foodhub/pkg/auth"
	"github.com/shashiranjanraj/foodhub/pkg/broker"
	"github.com/shashiranjanraj/foodhub/pkg/cache"
	"github.com/shashiranjanraj/foodhub/pkg/database"
	"github.com/shashiranjanraj/foodhub/pkg/event"
	"github.com/shashiranjanraj/foodhub/pkg/grpc"
	"github.com/shashiranjanraj/foodhub/pkg/logger"
	"github.com/shashiranjanraj/foodhub/pkg/queue"
	"github.com/shashiranjanraj/foodhub/pkg/storage"
	"github.com/shashiranjanraj/foodhub/pkg/workerpool"
)

// Repositories groups the data access layer.
type Repositories struct {
	Users         *repositories.UserRepository
	Catalog       *repositories.CatalogRepository
	Orders        *repositories.OrderRepository
	Notifications *repositories.NotificationRepository
}

// NewRepositories builds every repository over db.
func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:         repositories.NewUserRepository(db),
		Catalog:       repositories.NewCatalogRepository(db),
		Orders:        repositories.NewOrderRepository(db),
		Notifications: repositories.NewNotificationRepository(db),
	}
}

// Services groups the business layer.
type Services struct {
	Auth          *services.AuthService
	Catalog       *services.CatalogService
	Orders        *services.OrderService
	Admin         *services.AdminService
	Notifications *services.NotificationService
}

// Application owns every long-lived dependency of the API process.
type Application struct {
	DB     *gorm.DB
	Tokens *auth.TokenService
	Bus    *event.Bus
	Repos  Repositories
	Svc    Services

	pool      *workerpool.Pool
	publisher *broker.Publisher
	closeOnce sync.Once
}

// Bootstrap connects the database, Redis and storage, then builds the
// object graph. Notifications go through the job queue; the caller starts
// the workers with StartWorkers.
func Bootstrap(ctx context.Context) (*Application, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("app: load config: %w", err)
	}
	logger.EnableMongo()

	if err := database.Connect(); err != nil {
		return nil, err
	}
	if err := cache.Connect(ctx); err != nil {
		_ = database.Close()
		return nil, err
	}
	storage.Connect()

	a := &Application{
		DB:     database.DB,
		Tokens: auth.NewTokenService(cache.RDB, auth.OptionsFromConfig()),
		Repos:  NewRepositories(database.DB),
	}
	a.setupQueue()
	a.setupEvents()

	a.Svc = NewServices(a.Repos, a.Tokens, services.QueueNotifier{}, a.Bus, storage.Default())
	return a, nil
}

// NewServices builds the business layer. notify and events decide how
// notifications and domain events leave the request path.
func NewServices(r Repositories, tokens services.TokenIssuer, notify services.Notifier, events services.EventPublisher, disk storage.Disk) Services {
	catalog := services.NewCatalogService(r.Catalog, disk)
	return Services{
		Auth:          services.NewAuthService(r.Users, tokens, notify),
		Catalog:       catalog,
		Orders:        services.NewOrderService(r.Orders, r.Users, catalog, notify, events),
		Admin:         services.NewAdminService(r.Users, r.Catalog, r.Orders),
		Notifications: services.NewNotificationService(r.Notifications, r.Orders, r.Users),
	}
}

func (a *Application) setupQueue() {
	queue.UseDB(a.DB)
	if config.QueueDriver() == "redis" {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	} else {
		queue.SetDriver(queue.NewMemoryDriver(config.Int("QUEUE_BUFFER", 1000)))
	}
	services.RegisterJobs(a.Repos.Notifications)
}

func (a *Application) setupEvents() {
	a.pool = workerpool.New("events", config.EventWorkers())
	a.Bus = event.NewBus(a.pool)

	brokers := config.KafkaBrokers()
	if len(brokers) == 0 {
		logger.Info("kafka disabled, domain events stay in-process")
		return
	}
	pub, err := broker.NewKafkaPublisher(broker.Config{Brokers: brokers, Topic: config.KafkaTopic()})
	if err != nil {
		logger.Warn("kafka publisher disabled", "error", err)
		return
	}
	a.publisher = pub
	a.Bus.Listen(services.EventOrderPlaced, pub.Listener())
	a.Bus.Listen(services.EventOrderStatusChanged, pub.Listener())
	logger.Info("kafka publisher enabled", "topic", config.KafkaTopic())
}

// StartWorkers runs QUEUE_WORKERS queue workers until ctx is done.
func (a *Application) StartWorkers(ctx context.Context) *sync.WaitGroup {
	return queue.StartWorkers(ctx, config.QueueWorkers())
}

// Deps returns the route dependencies.
func (a *Application) Deps() (routes.Deps, error) {
	gql, err := appgraphql.Handler(a.Svc.Admin, a.Svc.Orders)
	if err != nil {
		return routes.Deps{}, fmt.Errorf("app: graphql schema: %w", err)
	}

	d := routes.Deps{
		Tokens:        a.Tokens,
		Principal:     a.Svc.Auth.Principal,
		Auth:          controllers.NewAuthController(a.Svc.Auth),
		Orders:        controllers.NewOrderController(a.Svc.Orders),
		Catalog:       controllers.NewCatalogController(a.Svc.Catalog),
		Admin:         controllers.NewAdminController(a.Svc.Admin, a.Svc.Auth),
		Notifications: controllers.NewNotificationController(a.Svc.Notifications),
		GraphQL:       gql,
	}
	if local, ok := storage.Default().(*storage.LocalDisk); ok {
		d.Media = http.StripPrefix("/storage/", http.FileServer(http.Dir(local.Root())))
	}
	return d, nil
}

// Handler builds the full HTTP handler.
func (a *Application) Handler() (http.Handler, error) {
	d, err := a.Deps()
	if err != nil {
		return nil, err
	}
	return kernel.Handler(d), nil
}

// HealthChecks are the readiness probes served on the gRPC port.
func (a *Application) HealthChecks() map[string]grpc.Check {
	return map[string]grpc.Check{
		"database": func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return cache.RDB.Ping(ctx).Err()
		},
	}
}

// Close drains the event pool and releases every connection.
func (a *Application) Close() {
	a.closeOnce.Do(func() {
		a.pool.Shutdown()
		if a.publisher != nil {
			if err := a.publisher.Close(); err != nil {
				logger.Warn("kafka publisher close", "error", err)
			}
		}
		if err := cache.Close(); err != nil {
			logger.Warn("redis close", "error", err)
		}
		if err := database.Close(); err != nil {
			logger.Warn("database close", "error", err)
		}
		logger.Close()
	})
}
