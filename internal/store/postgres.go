package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tbeier/position-history/internal/model"
)

// PostgresStore persists position records in a Postgres/TimescaleDB table,
// one row per timestamp. Range queries are scoped to the configured source
// tag so a shared table can hold records from more than one feed.
type PostgresStore struct {
	pool   *pgxpool.Pool
	table  string
	source string
	logger *slog.Logger
}

// NewPostgresStore creates a store over an existing connection pool.
func NewPostgresStore(pool *pgxpool.Pool, table, source string, logger *slog.Logger) *PostgresStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresStore{
		pool:   pool,
		table:  pgx.Identifier{table}.Sanitize(),
		source: source,
		logger: logger,
	}
}

// EnsureSchema creates the record table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			ts        BIGINT PRIMARY KEY,
			latitude  DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL,
			source    TEXT NOT NULL
		)`, s.table))
	if err != nil {
		return fmt.Errorf("%w: ensure schema: %v", ErrUnavailable, err)
	}
	return nil
}

// Put inserts or overwrites the row keyed by the record timestamp.
// Overwriting makes re-ingestion of the same upstream reading idempotent.
func (s *PostgresStore) Put(ctx context.Context, rec model.PositionRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (ts, latitude, longitude, source)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (ts) DO UPDATE
		SET latitude = EXCLUDED.latitude,
		    longitude = EXCLUDED.longitude,
		    source = EXCLUDED.source`, s.table),
		rec.Timestamp, rec.Latitude, rec.Longitude, rec.Source)
	if err != nil {
		return fmt.Errorf("%w: put ts=%d: %v", ErrUnavailable, rec.Timestamp, err)
	}

	s.logger.Debug("record stored",
		"ts", rec.Timestamp,
		"lat", rec.Latitude,
		"lon", rec.Longitude,
	)
	return nil
}

// RangeQuery returns the records with start <= ts <= stop in ascending
// order. An inverted range yields an empty slice without touching the
// database.
func (s *PostgresStore) RangeQuery(ctx context.Context, start, stop int64) ([]model.PositionRecord, error) {
	if start > stop {
		return nil, nil
	}

	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT ts, latitude, longitude, source
		FROM %s
		WHERE ts >= $1 AND ts <= $2 AND source = $3
		ORDER BY ts ASC`, s.table),
		start, stop, s.source)
	if err != nil {
		return nil, fmt.Errorf("%w: range query [%d, %d]: %v", ErrUnavailable, start, stop, err)
	}
	defer rows.Close()

	var records []model.PositionRecord
	for rows.Next() {
		var rec model.PositionRecord
		if err := rows.Scan(&rec.Timestamp, &rec.Latitude, &rec.Longitude, &rec.Source); err != nil {
			return nil, fmt.Errorf("%w: scan row: %v", ErrUnavailable, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: range query [%d, %d]: %v", ErrUnavailable, start, stop, err)
	}

	return records, nil
}
