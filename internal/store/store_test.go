package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tilab/tilab/internal/db"
)

type record struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// runStoreSuite exercises behaviour every backend must share
func runStoreSuite(t *testing.T, s Store) {
	ctx := context.Background()

	t.Run("missing key loads empty list", func(t *testing.T) {
		err := s.View(ctx, func(tx Tx) error {
			list, ok, err := LoadList[record](tx, "absent")
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Empty(t, list)
			assert.NotNil(t, list)
			return nil
		})
		require.NoError(t, err)
	})

	t.Run("save then load", func(t *testing.T) {
		want := []record{{ID: "a", Name: "Alpha"}, {ID: "b", Name: "Beta"}}
		require.NoError(t, s.Update(ctx, func(tx Tx) error {
			return SaveList(tx, "things", want)
		}))

		var got []record
		require.NoError(t, s.View(ctx, func(tx Tx) error {
			var err error
			got, _, err = LoadList[record](tx, "things")
			return err
		}))
		assert.Equal(t, want, got)
	})

	t.Run("failed update is rolled back", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.Update(ctx, func(tx Tx) error {
			if err := SaveList(tx, "things", []record{{ID: "z"}}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		require.NoError(t, s.View(ctx, func(tx Tx) error {
			got, _, err := LoadList[record](tx, "things")
			require.NoError(t, err)
			assert.Len(t, got, 2)
			return nil
		}))
	})

	t.Run("writes rejected in view", func(t *testing.T) {
		err := s.View(ctx, func(tx Tx) error {
			return tx.Put("things", []byte("[]"))
		})
		assert.Error(t, err)
	})

	t.Run("delete removes key", func(t *testing.T) {
		require.NoError(t, s.Update(ctx, func(tx Tx) error {
			return tx.Delete("things")
		}))
		require.NoError(t, s.View(ctx, func(tx Tx) error {
			raw, err := tx.Get("things")
			require.NoError(t, err)
			assert.Nil(t, raw)
			return nil
		}))
	})

	t.Run("concurrent updates are not lost", func(t *testing.T) {
		const workers = 20
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				err := s.Update(ctx, func(tx Tx) error {
					list, _, err := LoadList[record](tx, "counter")
					if err != nil {
						return err
					}
					list = append(list, record{ID: "x"})
					return SaveList(tx, "counter", list)
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		require.NoError(t, s.View(ctx, func(tx Tx) error {
			list, _, err := LoadList[record](tx, "counter")
			require.NoError(t, err)
			assert.Len(t, list, workers)
			return nil
		}))
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	runStoreSuite(t, s)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Ping(context.Background()), ErrClosed)
	assert.ErrorIs(t, s.Update(context.Background(), func(Tx) error { return nil }), ErrClosed)
}

func TestBoltStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "tilab.db")
	s, err := OpenBolt(path)
	require.NoError(t, err)
	runStoreSuite(t, s)
	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Ping(context.Background()), ErrClosed)
}

func TestBoltStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tilab.db")
	ctx := context.Background()

	s, err := OpenBolt(path)
	require.NoError(t, err)
	require.NoError(t, s.Update(ctx, func(tx Tx) error {
		return SaveList(tx, "components", []record{{ID: "comp_1", Name: "LED"}})
	}))
	require.NoError(t, s.Close())

	reopened, err := OpenBolt(path)
	require.NoError(t, err)
	defer reopened.Close()

	require.NoError(t, reopened.View(ctx, func(tx Tx) error {
		list, ok, err := LoadList[record](tx, "components")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []record{{ID: "comp_1", Name: "LED"}}, list)
		return nil
	}))
}

func TestUpdate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewMemory().Update(ctx, func(Tx) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	pdb, err := db.Connect(dsn, db.PoolOptions{MaxConns: 25})
	require.NoError(t, err)

	ctx := context.Background()
	s, err := NewPostgres(ctx, pdb)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Update(ctx, func(tx Tx) error {
		for _, k := range []string{"absent", "things", "counter"} {
			if err := tx.Delete(k); err != nil {
				return err
			}
		}
		return nil
	}))

	runStoreSuite(t, s)
}
