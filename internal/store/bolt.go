package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

const boltBucketRecords = "records" // key: collection name -> JSON array

var errReadOnly = errors.New("write attempted in read-only transaction")

// Bolt is a Store backed by a single bbolt file
type Bolt struct {
	db *bbolt.DB
}

// OpenBolt opens (creating if needed) the bolt file at path
func OpenBolt(path string) (*Bolt, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt store: %w", err)
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketRecords))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create records bucket: %w", err)
	}

	return &Bolt{db: db}, nil
}

type boltTx struct {
	bucket *bbolt.Bucket
}

func (t *boltTx) Get(key string) ([]byte, error) {
	v := t.bucket.Get([]byte(key))
	if v == nil {
		return nil, nil
	}
	// bbolt values are only valid for the life of the transaction
	return append([]byte(nil), v...), nil
}

func (t *boltTx) Put(key string, value []byte) error {
	if !t.bucket.Writable() {
		return errReadOnly
	}
	return t.bucket.Put([]byte(key), value)
}

func (t *boltTx) Delete(key string) error {
	if !t.bucket.Writable() {
		return errReadOnly
	}
	return t.bucket.Delete([]byte(key))
}

// View runs fn with a read-only transaction
func (b *Bolt) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.View(func(tx *bbolt.Tx) error {
		return fn(&boltTx{bucket: tx.Bucket([]byte(boltBucketRecords))})
	})
}

// Update runs fn with a read-write transaction; bbolt allows one writer at a time
func (b *Bolt) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		return fn(&boltTx{bucket: tx.Bucket([]byte(boltBucketRecords))})
	})
}

// Ping checks the database is usable
func (b *Bolt) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := b.db.View(func(tx *bbolt.Tx) error {
		return nil
	})
	if errors.Is(err, bbolt.ErrDatabaseNotOpen) {
		return ErrClosed
	}
	return err
}

// Close closes the bolt file
func (b *Bolt) Close() error {
	return b.db.Close()
}
