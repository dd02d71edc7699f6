package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/re5pectR10/eventhub/internal/di"
	"github.com/re5pectR10/eventhub/internal/gateway"
	"github.com/re5pectR10/eventhub/internal/metrics"
	"github.com/re5pectR10/eventhub/internal/service"
	"github.com/re5pectR10/eventhub/pkg/config"
	"github.com/re5pectR10/eventhub/pkg/database"
	"github.com/re5pectR10/eventhub/pkg/logger"
	"github.com/re5pectR10/eventhub/pkg/middleware"
	"github.com/re5pectR10/eventhub/pkg/redis"
	"github.com/re5pectR10/eventhub/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logCfg := &logger.Config{
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
		Format:      cfg.Log.Format,
	}
	if err := logger.Init(logCfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	appLog := logger.Get()
	appLog.Info("Starting EventHub...")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := &telemetry.Config{
		Enabled:        cfg.OTel.Enabled,
		ServiceName:    cfg.OTel.ServiceName,
		ServiceVersion: cfg.App.Version,
		Environment:    cfg.App.Environment,
		CollectorAddr:  cfg.OTel.CollectorAddr,
		SampleRatio:    cfg.OTel.SampleRatio,
	}
	if _, err := telemetry.Init(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize telemetry: %v", err))
	} else if telemetryCfg.Enabled {
		appLog.Info(fmt.Sprintf("Telemetry initialized (collector: %s)", telemetryCfg.CollectorAddr))
	}
	defer telemetry.Shutdown(ctx)

	if err := telemetry.InitMeter(ctx, telemetryCfg); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to initialize metrics exporter: %v", err))
	}
	if err := metrics.Init(); err != nil {
		appLog.Warn(fmt.Sprintf("Failed to register metrics: %v", err))
	}

	// Initialize database connection
	dbCfg := &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxOpenConns),
		MinConns:        int32(cfg.Database.MaxIdleConns),
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
		ConnectTimeout:  5 * time.Second,
		MaxRetries:      3,
		RetryInterval:   1 * time.Second,
		EnableTracing:   cfg.OTel.Enabled,
	}
	db, err := database.NewPostgres(ctx, dbCfg)
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Database connection failed: %v", err))
	}
	defer db.Close()
	appLog.Info(fmt.Sprintf("Database connected (pool: min=%d, max=%d)", dbCfg.MinConns, dbCfg.MaxConns))

	// Initialize Redis connection (optional - idempotency falls back to
	// pass-through without it)
	var redisClient *redis.Client
	redisCfg := &redis.Config{
		Host:          cfg.Redis.Host,
		Port:          cfg.Redis.Port,
		Password:      cfg.Redis.Password,
		DB:            cfg.Redis.DB,
		PoolSize:      cfg.Redis.PoolSize,
		MinIdleConns:  cfg.Redis.MinIdleConns,
		DialTimeout:   cfg.Redis.DialTimeout,
		ReadTimeout:   cfg.Redis.ReadTimeout,
		WriteTimeout:  cfg.Redis.WriteTimeout,
		MaxRetries:    3,
		RetryInterval: time.Second,
		EnableTracing: cfg.OTel.Enabled,
	}
	redisClient, err = redis.NewClient(ctx, redisCfg)
	if err != nil {
		appLog.Warn(fmt.Sprintf("Redis connection failed (idempotency disabled): %v", err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		appLog.Info(fmt.Sprintf("Redis connected (%s)", redisCfg.Addr()))
	}

	// Initialize payment gateway; without a secret key the mock gateway
	// stands in so local development needs no Stripe account
	gatewayType := "stripe"
	if cfg.Stripe.SecretKey == "" {
		gatewayType = "mock"
		appLog.Warn("STRIPE_SECRET_KEY not set, using mock payment gateway")
	}
	paymentGateway, err := gateway.NewPaymentGateway(gatewayType, &gateway.GatewayConfig{
		SecretKey:     cfg.Stripe.SecretKey,
		WebhookSecret: cfg.Stripe.WebhookSecret,
		Environment:   cfg.App.Environment,
	})
	if err != nil {
		appLog.Fatal(fmt.Sprintf("Failed to initialize payment gateway: %v", err))
	}

	// Initialize Kafka event publisher when enabled
	var eventPublisher service.EventPublisher
	if cfg.Kafka.Enabled {
		publisher, err := service.NewKafkaEventPublisher(ctx, &service.EventPublisherConfig{
			Brokers:     cfg.Kafka.Brokers,
			Topic:       cfg.Kafka.Topic,
			ServiceName: cfg.App.Name,
			ClientID:    cfg.Kafka.ClientID,
		})
		if err != nil {
			appLog.Warn(fmt.Sprintf("Kafka connection failed (event publishing disabled): %v", err))
		} else {
			eventPublisher = publisher
			defer publisher.Close()
			appLog.Info(fmt.Sprintf("Kafka connected (brokers: %v)", cfg.Kafka.Brokers))
		}
	}

	// Build dependency injection container
	container := di.NewContainer(&di.ContainerConfig{
		DB:             db,
		Redis:          redisClient,
		PaymentGateway: paymentGateway,
		EventPublisher: eventPublisher,
		BookingConfig:  &service.BookingServiceConfig{},
		CheckoutConfig: &service.CheckoutServiceConfig{
			SuccessURL:     cfg.Stripe.SuccessURL,
			CancelURL:      cfg.Stripe.CancelURL,
			PlatformFeeBps: cfg.Stripe.PlatformFeeBps,
		},
	})

	// Setup Gin
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	if cfg.OTel.Enabled {
		router.Use(telemetry.TracingMiddleware(cfg.App.Name))
	}

	// Health check endpoints
	router.GET("/health", container.HealthHandler.Health)
	router.GET("/ready", container.HealthHandler.Ready)

	jwtConfig := &middleware.JWTConfig{
		Secret: cfg.JWT.Secret,
		SkipPaths: []string{
			"/health",
			"/ready",
		},
	}

	// API routes
	v1 := router.Group("/api/v1")
	{
		// Webhooks carry their own signature check, no JWT
		v1.POST("/webhooks/stripe", container.WebhookHandler.HandleStripeWebhook)

		// Events - public read, organizer write
		events := v1.Group("/events")
		{
			events.GET("", container.EventHandler.List)
			events.GET("/:id", container.EventHandler.Get)
			events.GET("/:id/ticket-types", container.TicketTypeHandler.ListByEvent)

			protected := events.Group("")
			protected.Use(middleware.JWTMiddleware(jwtConfig))
			{
				protected.POST("", container.EventHandler.Create)
				protected.PATCH("/:id", container.EventHandler.Update)
				protected.POST("/:id/publish", container.EventHandler.Publish)
				protected.POST("/:id/cancel", container.EventHandler.Cancel)
				protected.POST("/:id/ticket-types", container.TicketTypeHandler.Create)
			}
		}

		// Ticket types - organizer management
		ticketTypes := v1.Group("/ticket-types")
		ticketTypes.Use(middleware.JWTMiddleware(jwtConfig))
		{
			ticketTypes.PATCH("/:id", container.TicketTypeHandler.Update)
			ticketTypes.DELETE("/:id", container.TicketTypeHandler.Delete)
		}

		// Bookings - authenticated customers
		bookings := v1.Group("/bookings")
		bookings.Use(middleware.JWTMiddleware(jwtConfig))

		// Booking creation and checkout initiation deduplicate by
		// idempotency key when Redis is up
		var idempotencyConfig *middleware.IdempotencyConfig
		if redisClient != nil {
			idempotencyConfig = middleware.DefaultIdempotencyConfig(redisClient.Client())
		}
		{
			if idempotencyConfig != nil {
				idem := middleware.IdempotencyMiddleware(idempotencyConfig)
				bookings.POST("", idem, container.BookingHandler.Create)
				bookings.POST("/:id/checkout", idem, container.BookingHandler.OpenCheckout)
			} else {
				bookings.POST("", container.BookingHandler.Create)
				bookings.POST("/:id/checkout", container.BookingHandler.OpenCheckout)
			}
			bookings.GET("", container.BookingHandler.List)
			bookings.GET("/:id", container.BookingHandler.Get)
			bookings.POST("/:id/cancel", container.BookingHandler.Cancel)
			bookings.GET("/:id/tickets", container.BookingHandler.ListTickets)
		}

		// Organizers - registration and own profile
		organizers := v1.Group("/organizers")
		organizers.Use(middleware.JWTMiddleware(jwtConfig))
		{
			organizers.POST("", container.OrganizerHandler.Register)
			organizers.GET("/me", container.OrganizerHandler.GetOwn)
			organizers.GET("/me/events", container.OrganizerHandler.ListOwnEvents)
		}

		// Tickets - own wallet, gate verification and redemption
		tickets := v1.Group("/tickets")
		tickets.Use(middleware.JWTMiddleware(jwtConfig))
		{
			tickets.GET("", container.TicketHandler.List)
			tickets.GET("/:code/verify", container.TicketHandler.Verify)
			tickets.POST("/redeem", container.TicketHandler.Redeem)
		}
	}

	// Create HTTP server
	port := cfg.Server.Port
	if port == 0 {
		port = 8080
	}
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 2 * time.Second,
	}

	// Start server in goroutine
	go func() {
		appLog.Info(fmt.Sprintf("EventHub listening on %s", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Fatal(fmt.Sprintf("Failed to start server: %v", err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLog.Info("Shutting down server...")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Fatal(fmt.Sprintf("Server forced to shutdown: %v", err))
	}

	appLog.Info("Server exited gracefully")
}
