package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-storefront/catalog"
	"pos-storefront/checkout"
	"pos-storefront/config"
	"pos-storefront/helper"
	"pos-storefront/middleware"
	"pos-storefront/report"
	"pos-storefront/repository"
	"pos-storefront/support"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatal("failed to build logger:", err)
	}
	defer logger.Sync()

	// === Setup Postgres ===
	db, err := sql.Open("postgres", cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	db.SetConnMaxLifetime(time.Minute * 5)

	// === Setup Redis (optional) ===
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   0,
		})
		defer rdb.Close()
		logger.Info("using Redis", zap.String("addr", cfg.RedisAddr))
	} else {
		logger.Warn("REDIS_ADDR empty, carts are kept in memory and the dashboard is not cached")
	}

	app, err := newApp(cfg, db, rdb, logger)
	if err != nil {
		logger.Fatal("failed to build app", zap.Error(err))
	}

	// === Determine run mode ===
	mode := "app"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "worker":
		logger.Info("running in WORKER ONLY mode")
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		runWorker(ctx, rdb, app.Reports, logger)

	case "app":
		logger.Info("running in HTTP SERVER mode only")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		runHTTPServerWithShutdown(ctx, cancel, cfg.Port, setupRouter(app), logger)

	case "all":
		logger.Info("running in FULL mode (server + worker)")
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go runWorker(ctx, rdb, app.Reports, logger)
		runHTTPServerWithShutdown(ctx, cancel, cfg.Port, setupRouter(app), logger)

	default:
		logger.Fatal("unknown mode (expected 'app', 'worker', or 'all')", zap.String("mode", mode))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}

func newApp(cfg *config.Config, db *sql.DB, rdb *redis.Client, logger *zap.Logger) (*App, error) {
	gate, err := helper.NewPasswordGate(cfg.AppPassword, cfg.AdminPassword)
	if err != nil {
		return nil, err
	}

	store := repository.NewStore(db)

	var (
		sessions SessionStore
		cache    report.Cache
	)
	if rdb != nil {
		sessions = repository.NewSessionRepository(rdb, cfg.CartTTL)
		cache = repository.NewReportCache(rdb, cfg.ReportCacheTTL)
	} else {
		sessions = repository.NewMemorySessions()
	}

	return &App{
		StoreName: cfg.StoreName,
		StoreBio:  cfg.StoreBio,
		Tokens:    helper.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL),
		Gate:      gate,
		Catalog:   catalog.NewFetcher(store),
		Products:  store,
		Sessions:  sessions,
		Checkout:  checkout.NewSubmitter(store, logger),
		Reports:   report.NewService(store, cache, cfg.Location(), cfg.ReportTopN, logger),
		Support: support.NewNotifier(
			cfg.SupportWebhookURL,
			cfg.SupportWebhookToken,
			cfg.SupportChatID,
			cfg.SupportMessage,
			cfg.SupportTimeout,
		),
		Health: store,
		Logger: logger,
	}, nil
}

func runHTTPServerWithShutdown(ctx context.Context, cancel context.CancelFunc, port string, h http.Handler, logger *zap.Logger) {
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: h,
	}

	go func() {
		logger.Info("HTTP server running", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs
	logger.Info("shutting down gracefully")

	cancel()
	ctxTimeout, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()
	if err := srv.Shutdown(ctxTimeout); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	logger.Info("server and worker stopped")
}

func setupRouter(app *App) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Logger(app.Logger))

	// endpoint login and health stay outside auth
	r.HandleFunc("/login", app.LoginHandler).Methods("POST")
	r.HandleFunc("/health", app.HealthHandler).Methods("GET")

	api := r.PathPrefix("/").Subrouter()
	api.Use(middleware.AuthMiddleware(app.Tokens))

	api.HandleFunc("/shell", app.ShellHandler).Methods("GET")
	api.HandleFunc("/catalog", app.CatalogHandler).Methods("GET")
	api.HandleFunc("/cart", app.CartHandler).Methods("GET")
	api.HandleFunc("/cart", app.CartResetHandler).Methods("DELETE")
	api.HandleFunc("/cart/items/{id:[0-9]+}/add", app.CartAddHandler).Methods("POST")
	api.HandleFunc("/cart/items/{id:[0-9]+}/remove", app.CartRemoveHandler).Methods("POST")
	api.HandleFunc("/checkout", app.CheckoutHandler).Methods("POST")
	api.HandleFunc("/settings", app.SettingsHandler).Methods("GET")
	api.HandleFunc("/settings/theme", app.ToggleThemeHandler).Methods("POST")
	api.HandleFunc("/settings/support", app.SupportHandler).Methods("POST")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/products", app.ListProductsHandler).Methods("GET")
	admin.HandleFunc("/products", app.CreateProductHandler).Methods("POST")
	admin.HandleFunc("/products/{id:[0-9]+}", app.UpdateProductHandler).Methods("PUT")
	admin.HandleFunc("/products/{id:[0-9]+}", app.DeleteProductHandler).Methods("DELETE")
	admin.HandleFunc("/dashboard", app.DashboardHandler).Methods("GET")

	return r
}

// runWorker rebuilds the dashboard whenever its cached copy expires, so the
// next admin request is served warm. Keyspace notifications must be enabled
// on the Redis server (notify-keyspace-events Ex).
func runWorker(ctx context.Context, rdb *redis.Client, reports *report.Service, logger *zap.Logger) {
	if rdb == nil {
		logger.Warn("worker: no Redis configured, nothing to do")
		return
	}

	pubsub := rdb.PSubscribe(ctx, "__keyevent@0__:expired")
	defer pubsub.Close()

	logger.Info("worker: listening to Redis expired events")

	for {
		select {
		case <-ctx.Done():
			logger.Info("worker: stopped")
			return
		default:
			msg, err := pubsub.ReceiveMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("pubsub receive error", zap.Error(err))
				time.Sleep(time.Second)
				continue
			}

			if msg.Payload != repository.DashboardCacheKey {
				continue
			}
			if _, err := reports.Dashboard(ctx, true); err != nil {
				logger.Warn("worker: dashboard rebuild failed", zap.Error(err))
				continue
			}
			logger.Info("worker: dashboard cache rebuilt")
		}
	}
}
