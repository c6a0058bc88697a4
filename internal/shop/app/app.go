package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	httpapi "github.com/aussiebroadwan/fruitshop/internal/shop/http"
	"github.com/aussiebroadwan/fruitshop/internal/shop/service"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session"
	"github.com/aussiebroadwan/fruitshop/internal/shop/session/redisstore"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store"
	"github.com/aussiebroadwan/fruitshop/internal/shop/store/drivers/sqlite"
	"github.com/aussiebroadwan/fruitshop/pkg/cryptox"
	"github.com/aussiebroadwan/fruitshop/pkg/metrics"
	"github.com/aussiebroadwan/fruitshop/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the storefront together.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db       store.Store
	redis    redis.UniversalClient // nil with the sqlite session backend
	sessions *session.Manager
	metrics  *metrics.Metrics

	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized.
// The database is migrated and seeded on first start.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "fruitshop",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initSessions(); err != nil {
		app.closeStores()
		return nil, err
	}
	if err := app.seed(); err != nil {
		app.closeStores()
		return nil, err
	}

	app.initHTTP()
	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.cfg.SessionBackend == SessionBackendSQLite {
		app.housekeepingService.Start()
	}

	app.logger.Info("fruit shop starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.housekeepingService.Stop()
			app.closeStores()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down fruit shop...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.closeStores(); err != nil {
		return err
	}

	app.logger.Info("fruit shop stopped")
	return nil
}

// Handler exposes the router, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// initDatabase opens the database and applies migrations
func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully", "file", app.cfg.DatabaseFile)
	return nil
}

// initSessions picks the session backend and builds the cookie manager.
func (app *Application) initSessions() error {
	var backend session.Store
	switch app.cfg.SessionBackend {
	case SessionBackendRedis:
		app.redis = redis.NewClient(&redis.Options{
			Addr:     app.cfg.RedisAddr,
			Password: app.cfg.RedisPassword,
		})

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.redis.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to reach redis at %s: %w", app.cfg.RedisAddr, err)
		}
		backend = redisstore.New(app.redis, redisstore.DefaultPrefix)
	default:
		backend = session.NewSQLStore(app.db)
	}

	secret := app.cfg.SessionSecret
	if secret == "" {
		var err error
		secret, err = cryptox.GenerateToken(cryptox.TokenSize256)
		if err != nil {
			return fmt.Errorf("failed to generate session secret: %w", err)
		}
		app.logger.Warn("SHOP_SESSION_SECRET not set, sessions will not survive a restart")
	}

	sessions, err := session.NewManager(backend, []byte(secret), session.Options{
		TTL:    app.cfg.SessionTTL,
		Secure: app.cfg.SecureCookies,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize sessions: %w", err)
	}
	app.sessions = sessions

	app.logger.Info("sessions ready", "backend", app.cfg.SessionBackend, "ttl", app.cfg.SessionTTL)
	return nil
}

// seed fills an empty database with the catalog and the admin account.
func (app *Application) seed() error {
	ctx := slogx.WithContext(context.Background(), app.logger)
	seeder := &service.SeedService{
		Store:         app.db,
		AdminUsername: app.cfg.AdminUsername,
		AdminPassword: app.cfg.AdminPassword,
		AdminSecret:   app.cfg.AdminOTPSecret,
		Issuer:        app.cfg.OTPIssuer,
	}
	if _, err := seeder.Seed(ctx); err != nil {
		return fmt.Errorf("failed to seed database: %w", err)
	}
	return nil
}

// initHTTP initializes the services, the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		BuildVersion,
		app.db,
		app.sessions,
		app.metrics,
		app.logger,
	)

	router.TrustProxyHeaders = app.cfg.TrustProxyHeaders
	router.CatalogService = &service.CatalogService{Store: app.db}
	router.PricingService = &service.PricingService{Store: app.db}
	router.CheckoutService = &service.CheckoutService{Store: app.db, Metrics: app.metrics}
	router.AuthService = &service.AuthService{Store: app.db, Issuer: app.cfg.OTPIssuer, Metrics: app.metrics}
	router.OrderService = &service.OrderService{Store: app.db}
	router.ReviewService = &service.ReviewService{Store: app.db}
	router.PromotionService = &service.PromotionService{Store: app.db}
	router.ApplyRoutes()

	app.router = router

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}

// closeStores releases the session backend and the database.
func (app *Application) closeStores() error {
	var errs []error
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis", "error", err)
			errs = append(errs, err)
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database", "error", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
