package storage

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"
)

// AdapterInterface stores JSON documents on top of a raw KV backend.
type AdapterInterface interface {
	// Get decodes the value at key into dst.
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, value any) error
	// Update decodes the current value into dst when found, then stores what
	// mutate returns. mutate may run more than once and must rebuild its
	// result from dst each time; when found is false dst is not reset.
	Update(ctx context.Context, key string, dst any, mutate func(found bool) (any, error)) error
	Ping(ctx context.Context) error
}

type Adapter struct {
	store      KVStoreInterface
	compressor CompressorInterface
	compress   bool
}

func NewAdapter(store KVStoreInterface, compressor CompressorInterface, compress bool) *Adapter {
	return &Adapter{store: store, compressor: compressor, compress: compress}
}

func (a *Adapter) Get(ctx context.Context, key string, dst any) error {
	raw, err := a.store.Get(ctx, key)
	if err != nil {
		return err
	}
	return a.decode(key, raw, dst)
}

func (a *Adapter) Set(ctx context.Context, key string, value any) error {
	raw, err := a.encode(key, value)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, raw)
}

func (a *Adapter) Update(ctx context.Context, key string, dst any, mutate func(found bool) (any, error)) error {
	return a.store.Update(ctx, key, func(cur []byte, found bool) ([]byte, error) {
		if found {
			if err := a.decode(key, cur, dst); err != nil {
				return nil, err
			}
		}
		next, err := mutate(found)
		if err != nil {
			return nil, err
		}
		return a.encode(key, next)
	})
}

func (a *Adapter) Ping(ctx context.Context) error {
	return a.store.Ping(ctx)
}

func (a *Adapter) decode(key string, raw []byte, dst any) error {
	if a.compressor.IsCompressed(raw) {
		plain, err := a.compressor.Decompress(raw)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrCorruptRecord, key, err)
		}
		raw = plain
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrCorruptRecord, key, err)
	}
	return nil
}

func (a *Adapter) encode(key string, value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", key, err)
	}
	if !a.compress {
		return raw, nil
	}
	return a.compressor.Compress(raw)
}
