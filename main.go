package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreybb/learnlanguage/api"
	"github.com/coreybb/learnlanguage/auth"
	"github.com/coreybb/learnlanguage/config"
	"github.com/coreybb/learnlanguage/datastore"
	"github.com/coreybb/learnlanguage/datastore/memory"
	"github.com/coreybb/learnlanguage/payments"
	rh "github.com/coreybb/learnlanguage/route-handlers"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
)

const (
	dbPingTimeout     = 5 * time.Second
	migrateTimeout    = 30 * time.Second
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
	dbMaxOpenConns    = 25
	dbMaxIdleConns    = 25
	dbConnMaxLifetime = 5 * time.Minute
)

// Each store is satisfied by both the PostgreSQL repositories and the
// in-memory store.
type (
	userStore interface {
		rh.UserStore
		auth.RoleLookup
		rh.CourseCounter
		payments.InstructorStore
	}
	courseStore interface {
		rh.CourseStore
		rh.EnrollmentStore
		payments.CourseStore
	}
	cartStore interface {
		rh.CartStore
		payments.CartStore
	}
	paymentStore interface {
		rh.PaymentStore
		payments.PaymentStore
	}
)

type repositories struct {
	users    userStore
	courses  courseStore
	carts    cartStore
	payments paymentStore
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	repos, closeStore, err := setupRepositories(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	codec := auth.NewCodec([]byte(cfg.AccessTokenSecret))
	guard := auth.NewGuard(codec, repos.users)

	provider := payments.NewStripeProvider(cfg.PaymentSecretKey, cfg.PaymentAPIURL)
	checkout := payments.NewCheckoutService(repos.payments, repos.carts, repos.courses, repos.users)

	handlers := api.Handlers{
		Token:   rh.NewTokenHandler(codec),
		User:    rh.NewUserHandler(repos.users),
		Course:  rh.NewCourseHandler(repos.courses, repos.users),
		Cart:    rh.NewCartHandler(repos.carts),
		Payment: rh.NewPaymentHandler(provider, checkout, repos.payments, repos.courses),
	}

	router := api.SetupRoutes(handlers, guard, api.NewMetrics(), cfg.AllowedOrigins)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return startServer(ctx, cfg.Port, router)
}

func setupRepositories(cfg config.Config) (repositories, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		store := memory.NewStore()
		slog.Info("Using in-memory store")
		return repositories{users: store, courses: store, carts: store, payments: store}, func() {}, nil
	}

	db, err := setupDatabase(cfg.DatabaseURL)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("database setup failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()
	if err := datastore.RunMigrations(ctx, db); err != nil {
		db.Close()
		return repositories{}, nil, err
	}

	repos := repositories{
		users:    datastore.NewUserRepository(db),
		courses:  datastore.NewCourseRepository(db),
		carts:    datastore.NewCartRepository(db),
		payments: datastore.NewPaymentRepository(db),
	}
	return repos, func() { db.Close() }, nil
}

func setupDatabase(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(dbMaxOpenConns)
	db.SetMaxIdleConns(dbMaxIdleConns)
	db.SetConnMaxLifetime(dbConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), dbPingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close() // Close unusable connection pool
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Database connection successful")
	return db, nil
}

// startServer serves until ctx is cancelled, then drains in-flight requests.
func startServer(ctx context.Context, port string, router http.Handler) error {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("Server starting", "port", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutdown signal received, initiating graceful shutdown")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		slog.Info("Server gracefully stopped")
		return nil
	})

	return g.Wait()
}
