package repository

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/geobatch/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// Database is the subset of a pgx pool used by the repository.
type Database interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

type Repository struct {
	db  Database
	log *slog.Logger
}

// Interface is implemented by record stores that mirror the CSV output.
type Interface interface {
	EnsureSchema(ctx context.Context) error
	SaveRecord(ctx context.Context, record models.OutputRecord) error
}

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log}
}
