package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"

	_ "github.com/jackc/pgx/v5/stdlib"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/sbilibin2017/gw-inventory/docs"
	"github.com/sbilibin2017/gw-inventory/internal/config"
	"github.com/sbilibin2017/gw-inventory/internal/handlers"
	"github.com/sbilibin2017/gw-inventory/internal/logger"
	"github.com/sbilibin2017/gw-inventory/internal/middlewares"
	"github.com/sbilibin2017/gw-inventory/internal/migrations"
	"github.com/sbilibin2017/gw-inventory/internal/repositories"
	"github.com/sbilibin2017/gw-inventory/internal/services"
	"github.com/sbilibin2017/gw-inventory/internal/sessions"
	"github.com/sbilibin2017/gw-inventory/internal/storage"
	"github.com/sbilibin2017/gw-inventory/internal/views"
)

// Build info variables, set via ldflags at build time.
var (
	buildVersion = "N/A" // Version of the service
	buildDate    = "N/A" // Build date
	buildCommit  = "N/A" // Git commit hash
)

// @title gw-inventory API
// @version 1.0.0
// @description Inventory tracker with items, categories and a JSON item listing
// @host localhost:8080
// @BasePath /
// @schemes http
func main() {
	printBuildInfo()
	configPath := parseFlags()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}

	if err := run(context.Background(), cfg); err != nil {
		log.Fatalf("application stopped with error: %v", err)
	}
}

// printBuildInfo prints the build version, commit hash, and build date.
func printBuildInfo() {
	fmt.Printf("Starting service version %s, commit %s, build %s\n", buildVersion, buildCommit, buildDate)
}

// parseFlags parses command-line flags and returns the config file path.
func parseFlags() string {
	c := flag.String("c", "config.env", "Path to configuration file")
	flag.Parse()
	return *c
}

// sessionStore is implemented by both session backends.
type sessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Get(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

// dependencies are the external resources the router is built from.
// kafkaWriter and images are nil when the feature is not configured.
type dependencies struct {
	db          *sqlx.DB
	store       sessionStore
	cookie      *sessions.Cookie
	kafkaWriter services.KafkaWriter
	images      services.ImageUploader
	swaggerURL  string
}

// run initializes the logger, database, session store, Kafka writer, MinIO
// client and HTTP server. It sets up routes and handles graceful shutdown.
func run(ctx context.Context, cfg *config.Config) error {
	// Initialize logger
	if err := logger.Initialize(cfg.App.LogLevel, cfg.App.LogFormat); err != nil {
		fmt.Println("failed to initialize logger:", err)
		return err
	}
	defer logger.Sync()
	logger.Log.Infof("Logger initialized with level %s", cfg.App.LogLevel)

	// Connect to PostgreSQL
	logger.Log.Infow("Connecting to PostgreSQL", "host", cfg.Postgres.Host, "port", cfg.Postgres.Port, "db", cfg.Postgres.DB)
	db, err := sqlx.ConnectContext(ctx, "pgx", cfg.Postgres.DSN())
	if err != nil {
		return fmt.Errorf("PostgreSQL connection error: %w", err)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)

	if cfg.Migrations.Auto {
		if err := migrations.Run(cfg.Postgres.DSN()); err != nil {
			return err
		}
	}

	deps := dependencies{
		db: db,
		cookie: sessions.NewCookie(
			sessions.WithCookieName(cfg.Session.CookieName),
			sessions.WithCookieTTL(cfg.Session.TTL),
			sessions.WithCookieSecure(cfg.Session.Secure),
		),
		swaggerURL: fmt.Sprintf("http://%s:%s/swagger/doc.json", cfg.App.Host, cfg.App.Port),
	}

	// Session store
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		rdb, err := sessions.NewRedisClient(ctx, &redis.Options{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			return fmt.Errorf("Redis connection error: %w", err)
		}
		defer rdb.Close()
		deps.store = sessions.NewRedisStore(rdb, cfg.Session.TTL)
	default:
		deps.store = sessions.NewJWTStore(cfg.Session.Secret, cfg.Session.TTL)
	}
	logger.Log.Infow("session store ready", "store", cfg.Session.Store)

	// Kafka change events
	if len(cfg.Kafka.Brokers) > 0 {
		writer := &kafka.Writer{
			Addr:         kafka.TCP(cfg.Kafka.Brokers...),
			Topic:        cfg.Kafka.Topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		}
		defer writer.Close()
		deps.kafkaWriter = writer
		logger.Log.Infow("publishing inventory events", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	}

	// MinIO image uploads
	if cfg.Minio.Endpoint != "" {
		images, err := storage.NewImageStore(ctx,
			cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey,
			cfg.Minio.Bucket, cfg.Minio.PublicURL, cfg.Minio.UseSSL,
		)
		if err != nil {
			return fmt.Errorf("MinIO connection error: %w", err)
		}
		deps.images = images
		logger.Log.Infow("image uploads enabled", "endpoint", cfg.Minio.Endpoint, "bucket", cfg.Minio.Bucket)
	}

	r, err := newRouter(deps)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.App.Host, cfg.App.Port),
		Handler: r,
	}

	// Graceful shutdown
	errChan := make(chan error, 1)
	ctxShutdown, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	go func() {
		logger.Log.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	select {
	case <-ctxShutdown.Done():
		logger.Log.Info("Shutdown signal received, stopping HTTP server...")
	case serveErr := <-errChan:
		return serveErr
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Errorw("HTTP server shutdown error", "error", err)
	}

	logger.Log.Info("HTTP server stopped gracefully")
	return nil
}

// newRouter wires repositories, services and handlers onto a chi router.
func newRouter(deps dependencies) (http.Handler, error) {
	rnd, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	// Initialize repositories
	txGetter := repositories.TxGetter(middlewares.GetTxFromContext)
	userReadRepo := repositories.NewUserReadRepository(deps.db, txGetter)
	userWriteRepo := repositories.NewUserWriteRepository(deps.db, txGetter)
	categoryReadRepo := repositories.NewCategoryReadRepository(deps.db, txGetter)
	categoryWriteRepo := repositories.NewCategoryWriteRepository(deps.db, txGetter)
	itemReadRepo := repositories.NewItemReadRepository(deps.db, txGetter)
	itemWriteRepo := repositories.NewItemWriteRepository(deps.db, txGetter)

	// Initialize services
	authService := services.NewAuthService(userReadRepo, userWriteRepo)
	inventoryService := services.NewInventoryService(itemReadRepo, itemWriteRepo, categoryReadRepo, deps.images, deps.kafkaWriter).
		WithTxHooks(middlewares.AfterCommit, middlewares.AfterRollback)
	categoryService := services.NewCategoryService(categoryReadRepo, categoryWriteRepo, itemWriteRepo, deps.kafkaWriter)

	uploads := deps.images != nil

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middlewares.LoggingMiddleware)
	r.Use(middlewares.SessionMiddleware(deps.cookie, deps.store, middlewares.LoginPath, "/register"))

	r.Get("/", handlers.NewIndexHandler(inventoryService, rnd))
	r.Get("/search", handlers.NewSearchHandler(inventoryService, rnd))
	r.Get("/add", handlers.NewAddItemPageHandler(categoryService, rnd, uploads))
	r.Get("/update/{id}", handlers.NewUpdateItemPageHandler(inventoryService, categoryService, rnd, uploads))
	r.Get("/categories", handlers.NewCategoriesHandler(categoryService, rnd))
	r.Get("/inventory_chart", handlers.NewChartHandler(inventoryService, rnd))
	r.Get("/api/items", handlers.NewAPIItemsHandler(inventoryService))

	r.Get("/login", handlers.NewLoginPageHandler(rnd))
	r.Get("/register", handlers.NewRegisterPageHandler(rnd))
	r.Get("/logout", handlers.NewLogoutHandler(deps.store, deps.cookie))

	// Writes run inside a request transaction
	r.Group(func(r chi.Router) {
		r.Use(middlewares.TxMiddleware(deps.db))

		r.Post("/add", handlers.NewAddItemHandler(inventoryService, categoryService, rnd, uploads))
		r.Post("/update/{id}", handlers.NewUpdateItemHandler(inventoryService, inventoryService, categoryService, rnd, uploads))
		r.Post("/delete/{id}", handlers.NewDeleteItemHandler(inventoryService, rnd))
		r.Post("/categories/add", handlers.NewAddCategoryHandler(categoryService, categoryService, rnd))
		r.Post("/categories/update/{id}", handlers.NewUpdateCategoryHandler(categoryService, categoryService, rnd))
		r.Post("/categories/delete/{id}", handlers.NewDeleteCategoryHandler(categoryService, categoryService, rnd))
		r.Post("/login", handlers.NewLoginHandler(authService, deps.store, deps.cookie, rnd))
		r.Post("/register", handlers.NewRegisterHandler(authService, rnd))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(deps.swaggerURL),
	))

	return r, nil
}
