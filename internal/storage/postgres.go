package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/gymbros/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var _ Backend = (*PostgresBackend)(nil)

const PostgresSchema = `
CREATE TABLE IF NOT EXISTS gymbros_kv
(
    key        TEXT PRIMARY KEY,
    value      JSONB       NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

// PostgresBackend keeps all keys in the gymbros_kv table. Values must be valid JSON.
type PostgresBackend struct {
	db *pgxpool.Pool
}

func NewPostgresBackend(ctx context.Context, db *pgxpool.Pool) (*PostgresBackend, error) {
	if _, err := db.Exec(ctx, PostgresSchema); err != nil {
		return nil, fmt.Errorf("create gymbros_kv table: %w", err)
	}
	return &PostgresBackend{
		db: db,
	}, nil
}

func (p *PostgresBackend) Get(ctx context.Context, key string) (_ []byte, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.postgres.get")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		if errors.Is(err, ErrKeyNotFound) {
			tracing.EndSpanWithErrCheck(span, nil)
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateKey(key); err != nil {
		return nil, err
	}

	var value string
	if err := p.db.QueryRow(ctx,
		`SELECT value::text FROM gymbros_kv WHERE key = $1`, key,
	).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("select %s: %w", key, err)
	}
	return []byte(value), nil
}

func (p *PostgresBackend) Set(ctx context.Context, key string, value []byte) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.postgres.set")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := p.db.Exec(ctx, `
		INSERT INTO gymbros_kv (key, value, updated_at) VALUES ($1, $2::text::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value),
	); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Remove(ctx context.Context, key string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "storage.postgres.remove")
	span.SetAttributes(attribute.String("key", key))
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := validateKey(key); err != nil {
		return err
	}

	if _, err := p.db.Exec(ctx, `DELETE FROM gymbros_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (p *PostgresBackend) Driver() Driver {
	return DriverPostgres
}

func (p *PostgresBackend) Close() error {
	p.db.Close()
	return nil
}
