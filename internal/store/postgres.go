package store

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/tilab/tilab/internal/app/migrations"
	"github.com/tilab/tilab/internal/db"
)

const recordsTable = "records"

// writerLockID serializes Update transactions across every process sharing
// the database.
const writerLockID int64 = 0x7469_6c61_62

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Postgres keeps record lists in a single JSONB table
type Postgres struct {
	db *db.PostgresDB
}

// NewPostgres wraps an open pool and applies the embedded migrations
func NewPostgres(ctx context.Context, pdb *db.PostgresDB) (*Postgres, error) {
	if err := migrations.NewMigrator(pdb.Pool).ApplyAll(ctx, migrations.Embedded()); err != nil {
		return nil, fmt.Errorf("failed to migrate records table: %w", err)
	}
	return &Postgres{db: pdb}, nil
}

// View runs fn in a read-only transaction
func (p *Postgres) View(ctx context.Context, fn func(tx Tx) error) error {
	return p.db.WithReadOnlyTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return fn(&pgTx{ctx: ctx, tx: tx})
	})
}

// Update runs fn in a read-write transaction holding the writer lock
func (p *Postgres) Update(ctx context.Context, fn func(tx Tx) error) error {
	return p.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", writerLockID); err != nil {
			return fmt.Errorf("failed to acquire writer lock: %w", err)
		}
		return fn(&pgTx{ctx: ctx, tx: tx, writable: true})
	})
}

// Ping checks the pool
func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Pool.Ping(ctx)
}

// Close releases the pool
func (p *Postgres) Close() error {
	p.db.Close()
	return nil
}

type pgTx struct {
	ctx      context.Context
	tx       pgx.Tx
	writable bool
}

func (t *pgTx) Get(key string) ([]byte, error) {
	query, args, err := psql.Select("value").
		From(recordsTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var value []byte
	if err := t.tx.QueryRow(t.ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return value, nil
}

func (t *pgTx) Put(key string, value []byte) error {
	if !t.writable {
		return errReadOnly
	}
	query, args, err := psql.Insert(recordsTable).
		Columns("key", "value", "updated_at").
		Values(key, string(value), sq.Expr("CURRENT_TIMESTAMP")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	_, err = t.tx.Exec(t.ctx, query, args...)
	return err
}

func (t *pgTx) Delete(key string) error {
	if !t.writable {
		return errReadOnly
	}
	query, args, err := psql.Delete(recordsTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	_, err = t.tx.Exec(t.ctx, query, args...)
	return err
}
