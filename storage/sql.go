package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

type row struct {
	Key       string    `db:"storage_key"`
	Payload   string    `db:"payload"`
	UpdatedAt time.Time `db:"updated_at"`
}

// SQL stores values in the client_storage table created by the database
// package migrations.
type SQL struct {
	db *sqlx.DB
}

func NewSQL(db *sqlx.DB) *SQL {
	return &SQL{db: db}
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	const q = `
	SELECT
		payload
	FROM
		client_storage
	WHERE
		storage_key = ?`

	var payload string
	if err := s.db.GetContext(ctx, &payload, s.db.Rebind(q), key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("selecting key[%s]: %w", key, err)
	}

	return []byte(payload), nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	const q = `
	INSERT INTO client_storage
		(storage_key, payload, updated_at)
	VALUES
		(:storage_key, :payload, :updated_at)
	ON CONFLICT (storage_key) DO UPDATE SET
		payload = excluded.payload,
		updated_at = excluded.updated_at`

	r := row{
		Key:       key,
		Payload:   string(value),
		UpdatedAt: time.Now().UTC(),
	}

	if _, err := s.db.NamedExecContext(ctx, q, r); err != nil {
		return fmt.Errorf("upserting key[%s]: %w", key, err)
	}

	return nil
}

func (s *SQL) Remove(ctx context.Context, key string) error {
	const q = `
	DELETE FROM
		client_storage
	WHERE
		storage_key = ?`

	if _, err := s.db.ExecContext(ctx, s.db.Rebind(q), key); err != nil {
		return fmt.Errorf("deleting key[%s]: %w", key, err)
	}

	return nil
}
