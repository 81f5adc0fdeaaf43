// Package storage persists per-cycle run history so long-running collection
// progress survives across scheduled invocations.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"

	"github.com/Ducky705/AutoFliff/internal/pkg/config"
)

// RunRecord is one completed automation cycle.
type RunRecord struct {
	StartedAt      time.Time
	FinishedAt     time.Time
	BalanceBefore  float64
	BalanceAfter   float64
	RewardsClaimed int
	BetPlaced      bool
	Payout         float64
	Status         string
	Error          string
}

// RunStorage records run history. Implementations must be safe to skip: a
// nil RunStorage means history is disabled.
type RunStorage interface {
	SaveRun(ctx context.Context, record *RunRecord) error
	Close() error
}

// Ensure PostgresRunStorage implements RunStorage
var _ RunStorage = (*PostgresRunStorage)(nil)

// PostgresRunStorage stores RunRecord rows in PostgreSQL.
type PostgresRunStorage struct {
	db *sql.DB
}

// NewPostgresRunStorage connects, pings and creates the schema.
func NewPostgresRunStorage(cfg *config.PostgresConfig) (*PostgresRunStorage, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	storage := &PostgresRunStorage{db: db}
	if err := storage.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("PostgreSQL run storage initialized")
	return storage, nil
}

func (s *PostgresRunStorage) initSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS bot_runs (
		id SERIAL PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		finished_at TIMESTAMP NOT NULL,
		balance_before DECIMAL(10, 2) NOT NULL,
		balance_after DECIMAL(10, 2) NOT NULL,
		rewards_claimed INTEGER NOT NULL DEFAULT 0,
		bet_placed BOOLEAN NOT NULL DEFAULT FALSE,
		payout DECIMAL(10, 2) NOT NULL DEFAULT 0,
		status VARCHAR(100) NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_bot_runs_started_at ON bot_runs(started_at DESC);
	CREATE INDEX IF NOT EXISTS idx_bot_runs_status ON bot_runs(status);
	`

	_, err := s.db.ExecContext(ctx, query)
	return err
}

// SaveRun inserts one run record.
func (s *PostgresRunStorage) SaveRun(ctx context.Context, record *RunRecord) error {
	query := `
	INSERT INTO bot_runs (started_at, finished_at, balance_before, balance_after,
		rewards_claimed, bet_placed, payout, status, error)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := s.db.ExecContext(ctx, query,
		record.StartedAt, record.FinishedAt, record.BalanceBefore, record.BalanceAfter,
		record.RewardsClaimed, record.BetPlaced, record.Payout, record.Status, record.Error)
	if err != nil {
		return fmt.Errorf("failed to save run record: %w", err)
	}
	return nil
}

// Close releases the database connection.
func (s *PostgresRunStorage) Close() error {
	return s.db.Close()
}
