// Package app wires the application together and manages its lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/avelasko/todoapp/internal/auth"
	"github.com/avelasko/todoapp/internal/config"
	"github.com/avelasko/todoapp/internal/event"
	handler "github.com/avelasko/todoapp/internal/handler/http"
	"github.com/avelasko/todoapp/internal/migrations"
	"github.com/avelasko/todoapp/internal/repository/postgres"
	"github.com/avelasko/todoapp/internal/service"
	"github.com/avelasko/todoapp/pkg/database"
	"github.com/avelasko/todoapp/pkg/health"
	"github.com/avelasko/todoapp/pkg/kafka"
	"github.com/avelasko/todoapp/pkg/middleware"
	"github.com/avelasko/todoapp/pkg/tracing"
)

// App holds the assembled application and its long-lived resources.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	pool     *pgxpool.Pool
	producer *kafka.Producer
	server   *http.Server

	shutdownTracing func(context.Context) error
}

// New builds the application: it connects to postgres, applies migrations,
// optionally starts the Kafka producer, and assembles the HTTP server.
func New(ctx context.Context, cfg *config.Config, l *slog.Logger) (*App, error) {
	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, l)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	database.RegisterPoolMetrics(pool)

	if err := database.Migrate(ctx, pool, migrations.FS, l); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	var producer *kafka.Producer
	var publisher event.Publisher = event.NoopPublisher{}
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(cfg.Kafka, l)
		publisher = event.NewProducer(producer, l)
	}

	tokens := auth.NewTokenManager([]byte(cfg.JWTSecret))

	userRepo := postgres.NewUserRepository(pool, l)
	todoRepo := postgres.NewTodoRepository(pool, l)

	userSvc := service.NewUserService(userRepo, tokens, publisher, l)
	todoSvc := service.NewTodoService(todoRepo, publisher, l)

	healthHandler := health.NewHandler(5 * time.Second)
	healthHandler.Register("postgres", pool.Ping)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:   handler.NewAuthHandler(userSvc, l),
		User:   handler.NewUserHandler(userSvc, l),
		Todo:   handler.NewTodoHandler(todoSvc, l),
		Admin:  handler.NewAdminHandler(todoSvc, l),
		Health: healthHandler,
		TokenValidator: func(token string) (*middleware.Identity, error) {
			claims, err := tokens.Validate(token)
			if err != nil {
				return nil, err
			}
			return &middleware.Identity{
				UserID:   claims.UserID,
				Username: claims.Subject,
				Role:     claims.Role,
			}, nil
		},
		CORS: middleware.CORSConfig{
			AllowedOrigins: cfg.CORSAllowedOrigins,
			Environment:    cfg.Environment,
		},
		Logger: l,
	})

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		cfg:             cfg,
		logger:          l,
		pool:            pool,
		producer:        producer,
		server:          server,
		shutdownTracing: shutdownTracing,
	}, nil
}

// Run serves HTTP until the context is cancelled or a termination signal
// arrives, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("http server listening", slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
		return a.Shutdown()
	}
}

// Shutdown drains in-flight requests, flushes traces, and closes the Kafka
// producer and database pool, in that order.
func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("http shutdown failed", slog.String("error", err.Error()))
	}

	if err := a.shutdownTracing(ctx); err != nil {
		a.logger.Error("tracing shutdown failed", slog.String("error", err.Error()))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close failed", slog.String("error", err.Error()))
		}
	}

	a.pool.Close()

	a.logger.Info("shutdown complete")
	return nil
}
