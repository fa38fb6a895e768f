package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"catalog/internal/cache"
	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/handlers"
	"catalog/internal/metrics"
	"catalog/internal/middleware"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/internal/storage"
	"catalog/pkg/rabbitmq"
)

// dependencies are the collaborators main wires from configuration.
type dependencies struct {
	productRepo repositories.ProductRepository
	cache       services.ProductCache
	events      services.EventPublisher
	store       storage.Storage
	registry    *prometheus.Registry
}

func main() {
	// --- Configuration ---
	cfg, err := config.Load(viper.New())
	if err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}

	log := newLogger(cfg.LogLevel)
	ctx := context.Background()

	// --- Initialize Repositories ---
	deps := dependencies{registry: prometheus.NewRegistry()}
	deps.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if cfg.DBDriver == "memory" {
		log.Warn("Using the in-memory product repository, data is lost on restart")
		deps.productRepo = repositories.NewInMemoryProductRepository()
	} else {
		db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize database")
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		deps.productRepo = repositories.NewGORMProductRepository(db)
	}

	// --- Optional Redis cache ---
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			log.WithError(err).Fatal("Failed to connect to Redis")
		}
		defer client.Close()
		deps.cache = cache.NewProductCache(client, cfg.CacheTTL)
	}

	// --- Optional RabbitMQ event publisher ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.WithError(err).Fatal("Failed to initialize RabbitMQ client")
		}
		defer mqClient.Close()
		deps.events = mqClient
	}

	// --- Image storage ---
	deps.store, err = openStorage(ctx, cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialize image storage")
	}

	app := newApp(cfg, deps, log)

	// --- Start HTTP Server ---
	log.Infof("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.WithError(err).Fatal("Server failed to start")
		}
	}()

	<-quit
	log.Info("Shutting down server...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.WithError(err).Error("Error during Fiber shutdown")
	}
	log.Info("Server gracefully stopped")
}

// newApp builds the Fiber application with every catalog route registered.
func newApp(cfg *config.Config, deps dependencies, log logrus.FieldLogger) *fiber.App {
	recorder := metrics.NewRecorder(deps.registry)

	// --- Initialize Services ---
	opts := []services.Option{services.WithMetrics(recorder)}
	if deps.cache != nil {
		opts = append(opts, services.WithCache(deps.cache))
	}
	if deps.events != nil {
		opts = append(opts, services.WithEvents(deps.events))
	}
	productService := services.NewProductService(deps.productRepo, log, opts...)
	seedService := services.NewSeedService(productService, log, services.WithSeedConcurrency(cfg.SeedConcurrency))
	fileService := services.NewFileService(deps.store, cfg.HostAPI, log)

	// --- Initialize Fiber App ---
	app := fiber.New()

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(logger.New()) // Request logger
	app.Use(middleware.Metrics(recorder))

	// --- API Routes ---
	api := app.Group("/api")
	handlers.NewProductHandler(productService, log).RegisterRoutes(api)
	handlers.NewFilesHandler(fileService, log).RegisterRoutes(api)
	if cfg.SeedEnabled {
		handlers.NewSeedHandler(seedService).RegisterRoutes(api)
	}

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": cfg.DBDriver,
			"storage":  cfg.StorageDriver,
			"cache":    deps.cache != nil,
			"events":   deps.events != nil,
		})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{})))

	return app
}

func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("Unknown LOG_LEVEL, falling back to info")
		parsed = logrus.InfoLevel
	}
	log.SetLevel(parsed)
	return log
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.StorageDriver {
	case "minio":
		store, err := storage.NewMinioStorage(storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := store.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return store, nil
	case "disk":
		return storage.NewDiskStorageAt(cfg.StaticDir)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}
}
