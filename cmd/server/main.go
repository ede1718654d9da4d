package main

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/matheusmosca/bookstore-api/internal/auth"
	"github.com/matheusmosca/bookstore-api/internal/books"
	"github.com/matheusmosca/bookstore-api/internal/cache"
	"github.com/matheusmosca/bookstore-api/internal/config"
	"github.com/matheusmosca/bookstore-api/internal/events"
	"github.com/matheusmosca/bookstore-api/internal/forum"
	"github.com/matheusmosca/bookstore-api/internal/orders"
	"github.com/matheusmosca/bookstore-api/internal/postgres"
	"github.com/matheusmosca/bookstore-api/internal/stats"
	"github.com/matheusmosca/bookstore-api/internal/telemetry"
	"github.com/matheusmosca/bookstore-api/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if cfg.IsDev() {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	// Initialize OpenTelemetry
	tp, err := telemetry.InitTracer(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logrus.Errorf("Error shutting down tracer: %v", err)
		}
	}()

	mp, err := telemetry.InitMetrics(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize metrics: %v", err)
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			logrus.Errorf("Error shutting down meter: %v", err)
		}
	}()

	// Initialize database
	if err := postgres.Migrate(cfg); err != nil {
		logrus.Fatalf("Failed to run migrations: %v", err)
	}

	dbPool, err := postgres.Connect(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbPool.Close()

	// Separate token namespaces for user and admin credentials
	tokenTTL, err := time.ParseDuration(cfg.TokenTTL)
	if err != nil {
		logrus.Fatalf("Invalid token TTL: %v", err)
	}
	userTokens := auth.NewTokenIssuer(cfg.UserJWTSecret, "bookstore-user", tokenTTL)
	adminTokens := auth.NewTokenIssuer(cfg.AdminJWTSecret, "bookstore-admin", tokenTTL)

	// Catalog repository, optionally decorated with a Redis cache
	var bookRepo books.Repository = books.NewRepository(dbPool)
	if cfg.RedisAddr != "" {
		cacheTTL, err := time.ParseDuration(cfg.RedisCacheTTL)
		if err != nil {
			logrus.Fatalf("Invalid cache TTL: %v", err)
		}
		redisCache, err := cache.NewRedisCache(cfg.RedisAddr, cacheTTL)
		if err != nil {
			logrus.Fatalf("Failed to initialize Redis cache: %v", err)
		}
		defer redisCache.Close()
		bookRepo = books.NewCachedRepository(bookRepo, redisCache, logrus.WithField("component", "books-cache"))
	}

	// Order lifecycle events, optional broker
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPublisher, err := events.NewRabbitMQPublisher(cfg.AMQPURL)
		if err != nil {
			logrus.Fatalf("Failed to initialize RabbitMQ publisher: %v", err)
		}
		defer amqpPublisher.Close()
		publisher = amqpPublisher
	}

	// Initialize dependencies
	bookUseCase := books.NewBookUseCase(bookRepo, logrus.WithField("component", "books"))
	bookHandler := books.NewBookHandler(bookUseCase, cfg.IsDev())

	userUseCase := users.NewUserUseCase(users.NewRepository(dbPool), userTokens, adminTokens,
		logrus.WithField("component", "users"))
	userHandler := users.NewUserHandler(userUseCase, cfg.IsDev())

	orderUseCase := orders.NewOrderUseCase(orders.NewRepository(dbPool), bookRepo, publisher,
		logrus.WithField("component", "orders"))
	orderHandler := orders.NewOrderHandler(orderUseCase, cfg.IsDev())

	forumUseCase := forum.NewForumUseCase(forum.NewRepository(dbPool), logrus.WithField("component", "forum"))
	forumHandler := forum.NewForumHandler(forumUseCase, cfg.IsDev())

	statsHandler := stats.NewHandler(stats.NewRepository(dbPool), cfg.IsDev())

	r := newRouter(cfg, routerDeps{
		userTokens:   userTokens,
		adminTokens:  adminTokens,
		bookHandler:  bookHandler,
		userHandler:  userHandler,
		orderHandler: orderHandler,
		forumHandler: forumHandler,
		statsHandler: statsHandler,
	})

	logrus.Infof("🚀 Bookstore API listening on port %s", cfg.Port)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
