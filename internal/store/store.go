// Package store persists record lists under fixed keys.
//
// Each collection (components, courses, kits, loans) is a JSON array stored
// whole under its key. Callers read-modify-write a key inside Update so that
// concurrent operations on the same key are serialized.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrClosed is returned when the store has been closed
var ErrClosed = errors.New("store is closed")

// Tx is a view of the key space inside a single transaction
type Tx interface {
	// Get returns the raw value under key, or nil when the key is absent
	Get(key string) ([]byte, error)
	// Put replaces the value under key
	Put(key string, value []byte) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error
}

// Store is a transactional key space
type Store interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
	Ping(ctx context.Context) error
	Close() error
}

// LoadList decodes the record list stored under key. The second return value
// reports whether the key existed at all.
func LoadList[T any](tx Tx, key string) ([]T, bool, error) {
	raw, err := tx.Get(key)
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %q: %w", key, err)
	}
	if raw == nil {
		return []T{}, false, nil
	}
	var list []T
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, true, fmt.Errorf("failed to decode %q: %w", key, err)
	}
	if list == nil {
		list = []T{}
	}
	return list, true, nil
}

// SaveList encodes list and stores it under key
func SaveList[T any](tx Tx, key string, list []T) error {
	if list == nil {
		list = []T{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", key, err)
	}
	if err := tx.Put(key, raw); err != nil {
		return fmt.Errorf("failed to write %q: %w", key, err)
	}
	return nil
}
