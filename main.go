package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/redis/go-redis/v9"

	"storefront/internal/cache"
	"storefront/internal/config"
	"storefront/internal/handlers"
	"storefront/internal/mail"
	"storefront/internal/payments"
	"storefront/internal/repositories"
	"storefront/internal/services"
	"storefront/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- MongoDB ---
	// The database handle is opened once here and injected everywhere;
	// there is no global connection state anywhere below main.
	connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	db, err := repositories.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := repositories.Disconnect(disconnectCtx, db); err != nil {
			log.Printf("Error during MongoDB disconnect: %v", err)
		}
	}()

	indexCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	err = repositories.EnsureIndexes(indexCtx, db)
	cancel()
	if err != nil {
		log.Fatalf("Failed to create MongoDB indexes: %v", err)
	}

	// --- RabbitMQ (optional) ---
	var events services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		events = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, order events disabled")
	}

	// --- Redis product cache (optional) ---
	var productCache cache.ProductCache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		productCache = cache.NewRedisCache(redisClient)
	} else {
		log.Println("REDIS_ADDR not set, product cache disabled")
	}

	// --- Payment provider ---
	provider := payments.NewStripeProvider(cfg.StripeSecretKey, cfg.StripeWebhookSecret)

	// --- Mail (optional) ---
	var sender mail.Sender
	if cfg.SendGridAPIKey != "" {
		sender = mail.NewSendGridClient(cfg.SendGridAPIKey)
	}

	// --- Repositories ---
	productRepo := repositories.NewMongoProductRepository(db)
	orderRepo := repositories.NewMongoOrderRepository(db)
	userRepo := repositories.NewMongoUserRepository(db)
	contactRepo := repositories.NewMongoContactRepository(db)

	// --- Services ---
	checkoutCfg := services.CheckoutConfig{
		ClientURL:           cfg.ClientURL,
		DefaultCurrency:     cfg.DefaultCurrency,
		SupportedCurrencies: cfg.SupportedCurrencies,
		ProviderTimeout:     cfg.CheckoutTimeout,
	}
	productService := services.NewProductService(productRepo, productCache)
	orderService := services.NewOrderService(orderRepo, productRepo, events, checkoutCfg)
	checkoutService := services.NewCheckoutService(productRepo, provider, checkoutCfg)
	webhookService := services.NewWebhookService(orderRepo, provider, events)
	authService := services.NewAuthService(userRepo, cfg.JWTSecret)
	contactService := services.NewContactService(contactRepo, sender, cfg.ContactFromEmail, cfg.ContactToEmail)

	// --- Handlers ---
	productHandler := handlers.NewProductHandler(productService, authService)
	orderHandler := handlers.NewOrderHandler(orderService, authService)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService)
	webhookHandler := handlers.NewWebhookHandler(webhookService)
	authHandler := handlers.NewAuthHandler(authService)
	contactHandler := handlers.NewContactHandler(contactService, authService)

	// --- Fiber app ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.ClientURL,
		AllowCredentials: true,
	}))

	// --- API Routes ---
	api := app.Group("/api")

	// The webhook route reads the raw request body for signature
	// verification; nothing in the chain may re-serialize it.
	webhookHandler.RegisterRoutes(api)

	authHandler.RegisterRoutes(api)
	productHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	checkoutHandler.RegisterRoutes(api)

	contactLimiter := limiter.New(limiter.Config{
		Max:        5,
		Expiration: time.Minute,
	})
	contactHandler.RegisterRoutes(api, contactLimiter)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}
