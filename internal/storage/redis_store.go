package storage

import (
	"context"
	"errors"
	"falci/internal/structures"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var errTooManyRetries = errors.New("too many concurrent modifications")

type RedisStore struct {
	client     redis.UniversalClient
	maxRetries int
}

func NewRedisStore(conf structures.RedisConfig) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	return newRedisStore(client, conf.MaxRetries)
}

func newRedisStore(client redis.UniversalClient, maxRetries int) *RedisStore {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	return &RedisStore{client: client, maxRetries: maxRetries}
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, unavailable("get", key, err)
	}
	return v, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, key, value, 0).Err(); err != nil {
		return unavailable("set", key, err)
	}
	return nil
}

// Update runs fn under WATCH and commits with MULTI/EXEC. A concurrent write
// to key aborts the transaction and fn is run again on the fresh value.
func (r *RedisStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	var fnErr error
	txf := func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Bytes()
		found := true
		if errors.Is(err, redis.Nil) {
			found = false
		} else if err != nil {
			return err
		}

		next, err := fn(cur, found)
		if err != nil {
			fnErr = err
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < r.maxRetries; i++ {
		fnErr = nil
		err := r.client.Watch(ctx, txf, key)
		switch {
		case err == nil:
			return nil
		case fnErr != nil:
			return fnErr
		case errors.Is(err, redis.TxFailedErr):
			continue
		default:
			return unavailable("update", key, err)
		}
	}
	return unavailable("update", key, fmt.Errorf("%w after %d attempts", errTooManyRetries, r.maxRetries))
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return unavailable("ping", "", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}
