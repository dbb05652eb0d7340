package storage

import (
	"context"
	"falci/internal/providers"
	"falci/internal/structures"
	"fmt"
	"time"
)

const startupPingTimeout = 3 * time.Second

// NewKVStore opens the configured backend and wraps it with metrics and the
// read cache. The returned cleanup closes the backend.
func NewKVStore(conf *structures.Config, logger providers.Logger, cache providers.CacheProviderInterface, metrics providers.MetricsProviderInterface) (KVStoreInterface, func(), error) {
	var (
		backend KVStoreInterface
		err     error
	)

	switch conf.Storage.Type {
	case "", "memory":
		backend = NewMemoryStore()
	case "redis":
		backend = NewRedisStore(conf.Storage.Redis)
	case "sqlite":
		backend, err = NewSQLiteStore(conf.Storage.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, fmt.Errorf("unsupported storage type: %s", conf.Storage.Type)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupPingTimeout)
	defer cancel()
	if err = backend.Ping(ctx); err != nil {
		logger.Warnf(providers.TypeApp, "Storage %s not reachable at startup: %s", conf.Storage.Type, err)
	}
	logger.Infof(providers.TypeApp, "Storage initialized: type=%s compress=%t", conf.Storage.Type, conf.Storage.Compress)

	store := NewCachedStore(NewInstrumentedStore(backend, metrics), cache)
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Errorf(providers.TypeApp, "Storage close error: %s", err)
		}
	}
	return store, cleanup, nil
}

func NewStoreAdapter(conf *structures.Config, store KVStoreInterface) (AdapterInterface, error) {
	compressor, err := NewZstdCompressor()
	if err != nil {
		return nil, err
	}
	return NewAdapter(store, compressor, conf.Storage.Compress), nil
}
