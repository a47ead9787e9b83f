package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"

	"harjoitus/internal/database"
)

// ErrNotFound is returned when a key has no stored value
var ErrNotFound = errors.New("key not found")

// KVRepository stores opaque values by key in the kv_store table
type KVRepository struct {
	db database.DBTX
}

func NewKVRepository(db database.DBTX) *KVRepository {
	return &KVRepository{db: db}
}

// Get retrieves a value by key
func (r *KVRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx, r.db.GetDialect().SelectKV(), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

// Put updates or inserts a value
func (r *KVRepository) Put(ctx context.Context, key string, value []byte) error {
	if _, err := r.db.ExecContext(ctx, r.db.GetDialect().UpsertKV(), key, string(value)); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes a key; deleting a missing key is not an error
func (r *KVRepository) Delete(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, r.db.GetDialect().DeleteKV(), key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*database.Tx, error)
}

// PutAll writes every value in one transaction. A repository that is already
// bound to a transaction writes into it.
func (r *KVRepository) PutAll(ctx context.Context, values map[string][]byte) error {
	db, ok := r.db.(txBeginner)
	if !ok {
		return r.putEach(ctx, values)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := NewKVRepository(tx).putEach(ctx, values); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *KVRepository) putEach(ctx context.Context, values map[string][]byte) error {
	// Fixed order keeps concurrent batches from deadlocking on row locks
	for _, key := range slices.Sorted(maps.Keys(values)) {
		if err := r.Put(ctx, key, values[key]); err != nil {
			return err
		}
	}
	return nil
}
