package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/hypo-service/internal/config"
	"github.com/Dan9191/hypo-service/internal/handler"
	"github.com/Dan9191/hypo-service/internal/integrations/ratefeed"
	"github.com/Dan9191/hypo-service/internal/market"
	"github.com/Dan9191/hypo-service/internal/middleware"
	"github.com/Dan9191/hypo-service/internal/repository"
	"github.com/Dan9191/hypo-service/internal/scheduler"
	"github.com/Dan9191/hypo-service/internal/service"
	"github.com/Dan9191/hypo-service/internal/utils/email"
	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	logger := newLogger()

	// Load configuration
	cfg, err := config.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Market data
	loader := &market.Loader{MarketFile: cfg.MarketFile}
	if cfg.DBConn != "" {
		db, err := openDB(cfg.DBConn)
		if err != nil {
			return err
		}
		defer db.Close()
		loader.Prices = repository.NewRepository(db)
	}
	if cfg.RateFeedURL != "" {
		loader.Rates = ratefeed.NewClient(cfg, logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	snap, err := loader.Load(ctx)
	cancel()
	if err != nil {
		return fmt.Errorf("failed to load market data: %w", err)
	}
	store := market.NewStore(snap)
	logger.Infof("Market data loaded: %d towns, interest rate %.4f", len(snap.Prices), snap.Bank.InterestRate)

	if cfg.ReloadSchedule != "" {
		reloader := scheduler.NewReloader(store, loader, logger)
		if err := reloader.Start(cfg.ReloadSchedule); err != nil {
			return err
		}
		defer reloader.Stop()
	}

	// Initialize layers
	sender := email.NewSender(cfg, logger)
	svc := service.NewService(store, sender, logger)
	h := handler.NewHandler(svc, logger)

	limiter, closeLimiter, err := newLimiter(cfg, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	// Setup router
	r := mux.NewRouter()
	r.Use(middleware.Logging(logger))
	h.Register(r, middleware.RateLimit(limiter, logger))

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("Starting server on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
		logger.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("Server exited")
	return nil
}

func openDB(conn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", conn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}

func newLimiter(cfg *config.Config, logger *logrus.Logger) (middleware.Limiter, func(), error) {
	if cfg.RedisAddr == "" {
		l := middleware.NewMemoryLimiter(cfg.RateLimit, cfg.RateLimitWindow)
		return l, l.Stop, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Infof("Using Redis rate limiter at %s", cfg.RedisAddr)
	return middleware.NewRedisLimiter(rdb, cfg.RateLimit, cfg.RateLimitWindow), func() { rdb.Close() }, nil
}
