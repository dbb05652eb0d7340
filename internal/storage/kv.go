package storage

import "context"

// UpdateFunc receives the current raw value and returns the value to store.
// An error aborts the update and is returned to the caller unchanged.
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// KVStoreInterface is a raw byte store. Get returns ErrNotFound for absent
// keys and a *StorageError for backend failures.
type KVStoreInterface interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Update is an atomic read-modify-write of a single key.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Ping(ctx context.Context) error
	Close() error
}
