package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/h3yzack/aurasage-document-service/internal/config"
	"github.com/h3yzack/aurasage-document-service/internal/database"
	"github.com/h3yzack/aurasage-document-service/internal/database/migration"
	"github.com/h3yzack/aurasage-document-service/internal/event"
	handlers "github.com/h3yzack/aurasage-document-service/internal/http/handler"
	"github.com/h3yzack/aurasage-document-service/internal/http/middleware"
	"github.com/h3yzack/aurasage-document-service/internal/otel"
	"github.com/h3yzack/aurasage-document-service/internal/repository"
	mongorepo "github.com/h3yzack/aurasage-document-service/internal/repository/mongo"
	"github.com/h3yzack/aurasage-document-service/internal/repository/postgres"
	redisrepo "github.com/h3yzack/aurasage-document-service/internal/repository/redis"
	"github.com/h3yzack/aurasage-document-service/internal/service"
	"github.com/h3yzack/aurasage-document-service/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize tracing; degrades to noop when no collector is configured
	shutdownTracing, err := otel.Init(ctx, time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Pick the persistence backend. All three satisfy the same repository
	// interface; the rest of the process does not know which one is active.
	var (
		docRepo     repository.DocumentRepository
		pinger      handlers.Pinger
		redisClient *goredis.Client
	)

	switch cfg.DBBackend {
	case config.BackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			log.Fatalf("failed to connect to database: %v", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, time.UTC, cfg.Database.Host); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}

		docRepo = postgres.NewDocumentPostgres(db)
		pinger = handlers.PingerFunc(db.PingContext)

	case config.BackendMongo:
		mdb, err := database.NewMongo(cfg.Mongo)
		if err != nil {
			log.Fatalf("failed to connect to mongodb: %v", err)
		}
		defer mdb.Client().Disconnect(context.Background())

		docRepo, err = mongorepo.NewDocumentMongo(ctx, mdb)
		if err != nil {
			log.Fatalf("failed to initialize mongo repository: %v", err)
		}
		pinger = handlers.PingerFunc(func(ctx context.Context) error {
			return mdb.Client().Ping(ctx, readpref.Primary())
		})

	case config.BackendRedis:
		rc, err := database.NewRedis(cfg.Redis)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer rc.Close()

		docRepo = redisrepo.NewDocumentRedis(rc)
		pinger = handlers.PingerFunc(func(ctx context.Context) error {
			return rc.Ping(ctx).Err()
		})
		redisClient = rc

	default:
		log.Fatalf("unknown DB_BACKEND %q", cfg.DBBackend)
	}

	// Initialize reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(cfg.MinIO, cfg.Storage)
	if err != nil {
		log.Fatalf("failed to initialize object storage: %v", err)
	}

	// The deletion event bus rides on Redis regardless of the persistence
	// backend. Without a Redis address, deletes still work but nothing is
	// purged from storage.
	var publisher event.Publisher
	if cfg.Redis.Addr != "" {
		if redisClient == nil {
			rc, err := database.NewRedis(cfg.Redis)
			if err != nil {
				log.Fatalf("failed to connect to redis event bus: %v", err)
			}
			defer rc.Close()
			redisClient = rc
		}
		publisher = event.NewRedisPublisher(redisClient, cfg.Events.DeleteChannel)
	}

	docSvc := service.NewDocumentService(docRepo, objStore, publisher)

	// Storage completion events advance document status asynchronously.
	if cfg.Events.ConsumeStorageEvents {
		listener, err := event.NewStorageListener(cfg.MinIO, docSvc)
		if err != nil {
			log.Fatalf("failed to initialize storage listener: %v", err)
		}
		go listener.Run(ctx)
	}

	if cfg.Events.PurgeOnDelete && redisClient != nil {
		go event.NewPurgeWorker(redisClient, cfg.Events.DeleteChannel, objStore).Run(ctx)
	}

	// Metrics registry with process and runtime collectors
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to register metrics: %v", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	})

	// Register global middleware
	// RequestID middleware adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	// JSON Logger middleware for structured request logs
	app.Use(middleware.Logger())
	app.Use(otelfiber.Middleware())
	app.Use(promMiddleware.Handler())

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, pinger, docSvc, cfg.Events.PurgeOnDelete)

	addr := ":" + cfg.Port

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
