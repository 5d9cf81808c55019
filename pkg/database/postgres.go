package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// contactSchema creates the submissions table on first start
const contactSchema = `
CREATE TABLE IF NOT EXISTS contact_submissions (
    id           UUID PRIMARY KEY,
    first_name   TEXT        NOT NULL,
    last_name    TEXT        NOT NULL,
    email        TEXT        NOT NULL,
    phone        TEXT,
    service      TEXT        NOT NULL,
    message      TEXT        NOT NULL CHECK (char_length(message) BETWEEN 10 AND 1000),
    newsletter   BOOLEAN     NOT NULL DEFAULT FALSE,
    source       TEXT        NOT NULL DEFAULT 'web',
    submitted_at TIMESTAMPTZ NOT NULL,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS contact_submissions_email_idx ON contact_submissions (email);
`

func NewPostgresConnection(ctx context.Context, connString string, log *zap.Logger) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, err
	}

	// PgBouncer transaction mode rejects named prepared statements
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info("database connection established")
	return pool, nil
}

// EnsureSchema creates the tables the service writes to
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, contactSchema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
