package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"marketplace/internal/config"
	"marketplace/internal/database"
	"marketplace/internal/handlers"
	"marketplace/internal/middleware"
	"marketplace/internal/repositories"
	"marketplace/internal/services"
	"marketplace/pkg/cache"
	"marketplace/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/streadway/amqp"
)

type stores struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
	requests repositories.PurchaseRequestRepository
	orders   repositories.OrderRepository
}

func openStores(cfg *config.Config) (*stores, error) {
	switch cfg.StoreDriver {
	case "mongo":
		db, err := database.ConnectMongo(cfg)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:    repositories.NewMongoUserRepository(db),
			products: repositories.NewMongoProductRepository(db),
			requests: repositories.NewMongoPurchaseRequestRepository(db),
			orders:   repositories.NewMongoOrderRepository(db),
		}, nil
	case "postgres", "sqlite":
		db, err := database.OpenGorm(cfg)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:    repositories.NewGORMUserRepository(db),
			products: repositories.NewGORMProductRepository(db),
			requests: repositories.NewGORMPurchaseRequestRepository(db),
			orders:   repositories.NewGORMOrderRepository(db),
		}, nil
	case "memory":
		return &stores{
			users:    repositories.NewMockUserRepository(),
			products: repositories.NewMockProductRepository(),
			requests: repositories.NewMockPurchaseRequestRepository(),
			orders:   repositories.NewMockOrderRepository(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
}

func main() {
	cfg := config.Load()

	store, err := openStores(cfg)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}

	var catalogCache *cache.Cache
	if cfg.RedisAddr != "" {
		catalogCache, err = cache.New(cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer catalogCache.Close()
	}

	var mqClient *rabbitmq.Client
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer mqClient.Close()

		go func() {
			err := mqClient.Consume(func(msg amqp.Delivery) error {
				log.Printf("Event received: %s", msg.Body)
				return nil
			})
			if err != nil {
				log.Printf("Event consumer stopped: %v", err)
			}
		}()
	}

	authService := services.NewAuthService(store.users, cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL)
	userService := services.NewUserService(store.users)
	productService := services.NewProductService(store.products, store.users, catalogCache)
	requestService := services.NewRequestService(store.requests, store.products, store.users, mqClient)
	orderService := services.NewOrderService(store.orders, store.products, mqClient)

	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)
	requestHandler := handlers.NewRequestHandler(requestService)
	orderHandler := handlers.NewOrderHandler(orderService)
	uploadHandler := handlers.NewUploadHandler(cfg.UploadDir)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"message": err.Error()})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())
	app.Use(limiter.New(limiter.Config{Max: cfg.RateLimitMax}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Static("/uploads/products", cfg.UploadDir)

	api := app.Group("/api/v1")
	authHandler.RegisterRoutes(api)
	productHandler.RegisterPublicRoutes(api)

	protected := api.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterProtectedRoutes(protected)
	uploadHandler.RegisterRoutes(protected)
	userHandler.RegisterRoutes(protected)
	requestHandler.RegisterRoutes(protected)
	orderHandler.RegisterRoutes(protected)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server listening on %s (store driver: %s)", cfg.AppPort, cfg.StoreDriver)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
}
