package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p-n-ai/swipe-quiz/internal/platform/database"
)

const dbTimeout = 5 * time.Second

const createEntriesTable = `CREATE TABLE IF NOT EXISTS quiz_session_entries (
	scope      TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      TEXT        NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (scope, key)
)`

// PostgresStore is a PostgreSQL-backed Store. Rows past expires_at are
// treated as absent.
type PostgresStore struct {
	db   *database.DB
	pool *pgxpool.Pool
	ttl  time.Duration
}

// NewPostgresStore creates the entries table if needed and returns a store.
func NewPostgresStore(ctx context.Context, db *database.DB, ttl time.Duration) (*PostgresStore, error) {
	if db == nil || db.Pool == nil {
		return nil, fmt.Errorf("database is nil")
	}
	pool := db.Pool
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	if _, err := pool.Exec(ctx, createEntriesTable); err != nil {
		return nil, fmt.Errorf("create session table: %w", err)
	}

	return &PostgresStore{db: db, pool: pool, ttl: ttl}, nil
}

func (s *PostgresStore) Get(ctx context.Context, scope, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var value string
	err := s.pool.QueryRow(ctx,
		`SELECT value
		 FROM quiz_session_entries
		 WHERE scope = $1
		   AND key = $2
		   AND expires_at > NOW()`,
		scope,
		key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get session entry: %w", err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, scope, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	expiresAt := time.Now().Add(s.ttl)

	// Expired entries must not be revived by the refresh below.
	batch := &pgx.Batch{}
	batch.Queue(
		`DELETE FROM quiz_session_entries
		 WHERE scope = $1
		   AND expires_at <= NOW()`,
		scope,
	)
	batch.Queue(
		`INSERT INTO quiz_session_entries (scope, key, value, expires_at)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (scope, key)
		 DO UPDATE SET value = EXCLUDED.value, expires_at = EXCLUDED.expires_at`,
		scope, key, value, expiresAt,
	)
	batch.Queue(
		`UPDATE quiz_session_entries
		 SET expires_at = $2
		 WHERE scope = $1`,
		scope, expiresAt,
	)

	if err := s.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("set session entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) Clear(ctx context.Context, scope string) error {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	if _, err := s.pool.Exec(ctx, `DELETE FROM quiz_session_entries WHERE scope = $1`, scope); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	return s.db.HealthCheck(ctx)
}

// PurgeExpired deletes entries whose sessions have expired.
func (s *PostgresStore) PurgeExpired(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := s.pool.Exec(ctx, `DELETE FROM quiz_session_entries WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}

	slog.Debug("expired sessions purged", "rows", cmd.RowsAffected())
	return cmd.RowsAffected(), nil
}
