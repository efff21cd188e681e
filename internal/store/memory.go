package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Updates are staged and only applied when
// the callback succeeds.
type Memory struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemory creates an empty in-memory store
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

type memoryTx struct {
	base    map[string][]byte
	staged  map[string][]byte
	deleted map[string]bool
	write   bool
}

func (t *memoryTx) Get(key string) ([]byte, error) {
	if t.deleted[key] {
		return nil, nil
	}
	if v, ok := t.staged[key]; ok {
		return append([]byte(nil), v...), nil
	}
	if v, ok := t.base[key]; ok {
		return append([]byte(nil), v...), nil
	}
	return nil, nil
}

func (t *memoryTx) Put(key string, value []byte) error {
	if !t.write {
		return errReadOnly
	}
	delete(t.deleted, key)
	t.staged[key] = append([]byte(nil), value...)
	return nil
}

func (t *memoryTx) Delete(key string) error {
	if !t.write {
		return errReadOnly
	}
	delete(t.staged, key)
	t.deleted[key] = true
	return nil
}

// View runs fn with a read-only transaction
func (m *Memory) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return fn(&memoryTx{base: m.data})
}

// Update runs fn with a read-write transaction
func (m *Memory) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	tx := &memoryTx{
		base:    m.data,
		staged:  make(map[string][]byte),
		deleted: make(map[string]bool),
		write:   true,
	}
	if err := fn(tx); err != nil {
		return err
	}
	for k := range tx.deleted {
		delete(m.data, k)
	}
	for k, v := range tx.staged {
		m.data[k] = v
	}
	return nil
}

// Ping reports whether the store is open
func (m *Memory) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return ErrClosed
	}
	return ctx.Err()
}

// Close marks the store closed
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
