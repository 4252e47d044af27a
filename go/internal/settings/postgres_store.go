package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/sidereal/go/internal/sqlutil"
	"github.com/rs/zerolog/log"
	"github.com/sqlc-dev/pqtype"
)

// DefaultNotifyChannel is the channel PostgresStore notifies on each write.
const DefaultNotifyChannel = "preferences_changed"

const createPreferencesTable = `
CREATE TABLE IF NOT EXISTS preferences (
    key        TEXT PRIMARY KEY,
    value      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// PostgresStore keeps preferences in a Postgres table and announces every
// change with NOTIFY so a Watcher elsewhere can pick it up.
type PostgresStore struct {
	pool    *pgxpool.Pool
	channel string
}

// NewPostgresStore connects to dsn and makes sure the table exists.
func NewPostgresStore(ctx context.Context, dsn, channel string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createPreferencesTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create preferences table: %w", err)
	}
	if channel == "" {
		channel = DefaultNotifyChannel
	}

	log.Info().Str("channel", channel).Msg("postgres preference store ready")
	return &PostgresStore{pool: pool, channel: channel}, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT value FROM preferences WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get preference %s: %w", key, err)
	}

	value, err := fromJSONB(pqtype.NullRawMessage{RawMessage: raw, Valid: raw != nil})
	if err != nil {
		return "", false, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	return sqlutil.Run(ctx, s.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
            INSERT INTO preferences (key, value, updated_at)
            VALUES ($1, $2, now())
            ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
        `, key, toJSONB(value))
		if err != nil {
			return fmt.Errorf("failed to set preference %s: %w", key, err)
		}
		return s.notify(ctx, tx, key)
	})
}

func (s *PostgresStore) Delete(ctx context.Context, key string) error {
	return sqlutil.Run(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM preferences WHERE key = $1`, key); err != nil {
			return fmt.Errorf("failed to delete preference %s: %w", key, err)
		}
		return s.notify(ctx, tx, key)
	})
}

// notify is delivered to listeners when tx commits.
func (s *PostgresStore) notify(ctx context.Context, tx pgx.Tx, key string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_notify($1, $2)`, s.channel, key); err != nil {
		return fmt.Errorf("failed to notify preference change: %w", err)
	}
	return nil
}

// toJSONB stores JSON values as they are and anything else as a JSON string.
func toJSONB(value string) pqtype.NullRawMessage {
	if json.Valid([]byte(value)) {
		return pqtype.NullRawMessage{RawMessage: json.RawMessage(value), Valid: true}
	}
	quoted, _ := json.Marshal(value)
	return pqtype.NullRawMessage{RawMessage: quoted, Valid: true}
}

func fromJSONB(msg pqtype.NullRawMessage) (string, error) {
	if !msg.Valid {
		return "", errors.New("null value")
	}
	var s string
	if err := json.Unmarshal(msg.RawMessage, &s); err == nil {
		return s, nil
	}
	if !json.Valid(msg.RawMessage) {
		return "", errors.New("invalid JSON")
	}
	return string(msg.RawMessage), nil
}
