package repositories

import (
	"github.com/tilab/tilab/internal/store"
)

// collection is a record list persisted whole under one key. Every method
// takes the caller's transaction so several collections can change together.
type collection[T any] struct {
	key      string
	idOf     func(*T) string
	notFound error
}

// List returns every record in stored order
func (c collection[T]) List(tx store.Tx) ([]T, error) {
	list, _, err := store.LoadList[T](tx, c.key)
	return list, err
}

// Exists reports whether the collection has ever been written
func (c collection[T]) Exists(tx store.Tx) (bool, error) {
	_, ok, err := store.LoadList[T](tx, c.key)
	return ok, err
}

// SaveAll replaces the stored list
func (c collection[T]) SaveAll(tx store.Tx, list []T) error {
	return store.SaveList(tx, c.key, list)
}

// FindByID returns a copy of the record with id
func (c collection[T]) FindByID(tx store.Tx, id string) (*T, error) {
	list, err := c.List(tx)
	if err != nil {
		return nil, err
	}
	if i := c.indexOf(list, id); i >= 0 {
		rec := list[i]
		return &rec, nil
	}
	return nil, c.notFound
}

// Insert appends rec to the list
func (c collection[T]) Insert(tx store.Tx, rec *T) error {
	list, err := c.List(tx)
	if err != nil {
		return err
	}
	return c.SaveAll(tx, append(list, *rec))
}

// Replace overwrites the record sharing rec's id, keeping its position
func (c collection[T]) Replace(tx store.Tx, rec *T) error {
	list, err := c.List(tx)
	if err != nil {
		return err
	}
	i := c.indexOf(list, c.idOf(rec))
	if i < 0 {
		return c.notFound
	}
	list[i] = *rec
	return c.SaveAll(tx, list)
}

// Delete removes the record with id
func (c collection[T]) Delete(tx store.Tx, id string) error {
	list, err := c.List(tx)
	if err != nil {
		return err
	}
	i := c.indexOf(list, id)
	if i < 0 {
		return c.notFound
	}
	return c.SaveAll(tx, append(list[:i], list[i+1:]...))
}

func (c collection[T]) indexOf(list []T, id string) int {
	for i := range list {
		if c.idOf(&list[i]) == id {
			return i
		}
	}
	return -1
}
