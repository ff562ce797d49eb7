package repository

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/UnknownOlympus/geobatch/internal/config"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewDatabase opens a connection pool for the given configuration and verifies it with a ping.
func NewDatabase(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	return NewDatabaseFromDSN(ctx, DSN(cfg))
}

// NewDatabaseFromDSN opens a connection pool for a connection string and verifies it with a ping.
func NewDatabaseFromDSN(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// DSN builds a postgres connection URL from the configuration.
func DSN(cfg config.PostgresConfig) string {
	dsn := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}

	return dsn.String()
}
