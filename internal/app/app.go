// Package app assembles the storefront service from its configuration.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/repositories"
	"storefront/internal/search"
	"storefront/internal/services"
	"storefront/pkg/kafka"
	"storefront/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/streadway/amqp"
)

// App is a fully wired storefront service.
type App struct {
	Fiber *fiber.App

	cfg     *config.Config
	log     *slog.Logger
	closers []func() error
	stop    context.CancelFunc
}

// New connects to the configured store, broker and search index and builds the HTTP app.
// Resources opened before a failure are released before New returns.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (_ *App, err error) {
	bgCtx, stop := context.WithCancel(context.Background())
	a := &App{cfg: cfg, log: log, stop: stop}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	publisher, err := a.openEvents(bgCtx)
	if err != nil {
		return nil, err
	}
	index := a.openSearch(ctx)

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	pricing := services.NewPricingEngine(store.Products)
	authService := services.NewAuthService(store.Users, cfg.JWTSecret, cfg.TokenTTL, publisher)
	userService := services.NewUserService(store.Users, publisher)
	productService := services.NewProductService(store.Products, store.Reviews, index, publisher)
	cartService := services.NewCartService(store.Carts, store.Products, pricing, publisher)
	orderService := services.NewOrderService(store.Orders, store.Products, pricing, publisher)
	likeService := services.NewLikeService(store.Likes, store.Products, publisher)
	reviewService := services.NewReviewService(store.Reviews, store.Products, store.Users, publisher)

	app := fiber.New(fiber.Config{
		AppName:      "storefront",
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    cfg.BodyLimit,
	})
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(log))
	app.Use(recover.New())
	app.Static(handlers.ImagesPath, cfg.UploadDir)

	requireAuth := middleware.AuthRequired(authService)
	apiV1 := app.Group("/api/v1")
	handlers.NewUserHandler(authService, userService).RegisterRoutes(apiV1, requireAuth)
	handlers.NewProductHandler(productService, handlers.UploadConfig{
		Dir:      cfg.UploadDir,
		MaxFiles: cfg.MaxUploadImages,
	}).RegisterRoutes(apiV1, requireAuth)
	handlers.NewCartHandler(cartService).RegisterRoutes(apiV1, requireAuth)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1, requireAuth)
	handlers.NewReviewHandler(reviewService).RegisterRoutes(apiV1, requireAuth)
	handlers.NewLikeHandler(likeService).RegisterRoutes(apiV1, requireAuth)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
			"store":  cfg.StoreDriver,
			"events": cfg.EventsDriver,
			"search": index != nil,
		})
	})

	a.Fiber = app
	return a, nil
}

func (a *App) onClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

func (a *App) openStore(ctx context.Context) (*repositories.Set, error) {
	switch a.cfg.StoreDriver {
	case config.StorePostgres, config.StoreSQLite:
		db, err := database.Open(ctx, a.cfg.StoreDriver, a.cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		a.onClose(func() error { return database.Close(db) })
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		a.log.Info("connected to database", "driver", a.cfg.StoreDriver)
		return repositories.NewGORMSet(db), nil

	case config.StoreMongo:
		client, db, err := database.OpenMongo(ctx, a.cfg.MongoURI, a.cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		a.onClose(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Disconnect(ctx)
		})
		if err := repositories.EnsureMongoIndexes(ctx, db); err != nil {
			return nil, err
		}
		a.log.Info("connected to mongo", "database", a.cfg.MongoDatabase)
		return repositories.NewMongoSet(db), nil

	case config.StoreMemory:
		a.log.Warn("using in-memory store, data is lost on restart")
		return repositories.NewMemorySet(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", a.cfg.StoreDriver)
}

// openEvents returns a nil Publisher when events are disabled.
func (a *App) openEvents(ctx context.Context) (events.Publisher, error) {
	switch a.cfg.EventsDriver {
	case config.EventsRabbitMQ:
		client, err := rabbitmq.NewClient(rabbitmq.Config{URL: a.cfg.RabbitMQURL})
		if err != nil {
			return nil, err
		}
		a.onClose(client.Close)

		consumerLog := a.log.With("consumer", rabbitmq.OrderQueue)
		if err := client.ConsumeOrderEvents(ctx, consumerLog, logOrderEvent(consumerLog)); err != nil {
			return nil, err
		}
		a.log.Info("publishing events to RabbitMQ", "exchange", rabbitmq.DefaultExchange)
		return events.NewRabbitMQPublisher(client), nil

	case config.EventsKafka:
		producer := kafka.NewProducer(a.cfg.KafkaBrokers)
		a.onClose(producer.Close)
		a.log.Info("publishing events to Kafka", "brokers", a.cfg.KafkaBrokers)
		return events.NewKafkaPublisher(producer), nil
	}
	return nil, nil
}

// logOrderEvent records every order event seen on the order queue.
func logOrderEvent(log *slog.Logger) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var event events.Event
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			// Redelivering a malformed message cannot succeed.
			log.Error("dropping malformed order event", "delivery_tag", msg.DeliveryTag, "error", err)
			return nil
		}
		log.Info("order event received",
			"type", event.Type(),
			"order_id", event.EntityID,
			"user_id", event.UserID,
		)
		return nil
	}
}

// openSearch returns nil when no cluster is configured or it cannot be reached;
// name search then runs against the store.
func (a *App) openSearch(ctx context.Context) services.ProductIndexer {
	if a.cfg.ElasticsearchURL == "" {
		return nil
	}
	index, err := search.NewProductIndex(search.Config{
		URL:      a.cfg.ElasticsearchURL,
		Username: a.cfg.ElasticsearchUsername,
		Password: a.cfg.ElasticsearchPassword,
		Index:    a.cfg.SearchIndex,
	})
	if err == nil {
		err = index.EnsureIndex(ctx)
	}
	if err != nil {
		a.log.Warn("search index unavailable, searching the store instead", "error", err)
		return nil
	}
	a.log.Info("using Elasticsearch product index", "index", a.cfg.SearchIndex)
	return index
}

// Listen serves HTTP on the configured port until Shutdown.
func (a *App) Listen() error {
	return a.Fiber.Listen(a.cfg.AppPort)
}

// Shutdown stops accepting requests, waits for in-flight ones and releases every resource.
func (a *App) Shutdown(ctx context.Context) error {
	err := a.Fiber.ShutdownWithContext(ctx)
	return errors.Join(err, a.Close())
}

// Close releases the store, broker and consumer in reverse order of opening.
func (a *App) Close() error {
	a.stop()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
