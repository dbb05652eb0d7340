package storage

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBackends(t *testing.T) map[string]KVStoreInterface {
	t.Helper()

	mr := miniredis.RunT(t)
	rs := newRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}), 5)
	t.Cleanup(func() { _ = rs.Close() })

	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })

	return map[string]KVStoreInterface{
		"memory": NewMemoryStore(),
		"redis":  rs,
		"sqlite": sq,
	}
}

func TestStores_GetMissingIsNotFound(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), "user:nobody@x.tr")
			assert.ErrorIs(t, err, ErrNotFound)
			assert.NotErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestStores_SetThenGet(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "k", []byte("v1")))
			require.NoError(t, store.Set(ctx, "k", []byte("v2")))

			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("v2"), got)
		})
	}
}

func TestStores_UpdateCreatesAndModifies(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			err := store.Update(ctx, "counter", func(cur []byte, found bool) ([]byte, error) {
				assert.False(t, found)
				return []byte("a"), nil
			})
			require.NoError(t, err)

			err = store.Update(ctx, "counter", func(cur []byte, found bool) ([]byte, error) {
				assert.True(t, found)
				return append(cur, 'b'), nil
			})
			require.NoError(t, err)

			got, err := store.Get(ctx, "counter")
			require.NoError(t, err)
			assert.Equal(t, []byte("ab"), got)
		})
	}
}

func TestStores_UpdateFuncErrorAbortsUnchanged(t *testing.T) {
	sentinel := errors.New("refused")
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.Set(ctx, "k", []byte("orig")))

			err := store.Update(ctx, "k", func(cur []byte, found bool) ([]byte, error) {
				return nil, sentinel
			})
			assert.ErrorIs(t, err, sentinel)
			assert.NotErrorIs(t, err, ErrUnavailable)

			got, err := store.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, []byte("orig"), got)
		})
	}
}

func TestStores_ConcurrentUpdatesDoNotLoseWrites(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			const writers = 5

			var wg sync.WaitGroup
			for i := 0; i < writers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					// redis retries are bounded; retry the whole update like a caller would
					for attempt := 0; attempt < 20; attempt++ {
						err := store.Update(ctx, "list", func(cur []byte, found bool) ([]byte, error) {
							return append(cur, 'x'), nil
						})
						if err == nil {
							return
						}
					}
					t.Error("update never succeeded")
				}()
			}
			wg.Wait()

			got, err := store.Get(ctx, "list")
			require.NoError(t, err)
			assert.Len(t, got, writers)
		})
	}
}

func TestStores_Ping(t *testing.T) {
	for name, store := range newBackends(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, store.Ping(context.Background()))
		})
	}
}
