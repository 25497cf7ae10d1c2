package database

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresConfig describes a PostgreSQL connection pool.
type PostgresConfig struct {
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Database        string        `env:"DB_NAME" envDefault:"todoapp"`
	SSLMode         string        `env:"DB_SSL_MODE" envDefault:"disable"`
	MaxConns        int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"30m"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"5m"`
	ConnectRetries  int           `env:"DB_CONNECT_RETRIES" envDefault:"5"`
}

// DSN renders the config as a pgx connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode)
}

// NewPostgresPool creates a connection pool and verifies connectivity,
// retrying with jittered exponential backoff. Containerized deployments
// frequently start the application before the database accepts connections.
func NewPostgresPool(ctx context.Context, cfg PostgresConfig, l *slog.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parse postgres config: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	retries := cfg.ConnectRetries
	if retries < 1 {
		retries = 1
	}

	var pingErr error
	for attempt := 1; attempt <= retries; attempt++ {
		pingErr = pool.Ping(ctx)
		if pingErr == nil {
			l.InfoContext(ctx, "connected to postgres",
				slog.String("host", cfg.Host),
				slog.String("database", cfg.Database),
			)
			return pool, nil
		}

		if attempt == retries {
			break
		}

		backoff := time.Duration(1<<uint(attempt-1)) * 500 * time.Millisecond
		backoff += time.Duration(rand.Int63n(int64(backoff / 2)))
		l.WarnContext(ctx, "postgres not ready, retrying",
			slog.Int("attempt", attempt),
			slog.Duration("backoff", backoff),
			slog.String("error", pingErr.Error()),
		)

		select {
		case <-ctx.Done():
			pool.Close()
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	pool.Close()
	return nil, fmt.Errorf("ping postgres after %d attempts: %w", retries, pingErr)
}
