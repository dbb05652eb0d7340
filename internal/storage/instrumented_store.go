package storage

import (
	"context"
	"falci/internal/providers"
	"time"
)

type InstrumentedStore struct {
	inner   KVStoreInterface
	metrics providers.MetricsProviderInterface
}

func NewInstrumentedStore(inner KVStoreInterface, metrics providers.MetricsProviderInterface) *InstrumentedStore {
	return &InstrumentedStore{inner: inner, metrics: metrics}
}

func (s *InstrumentedStore) Get(ctx context.Context, key string) ([]byte, error) {
	defer s.observe("get", time.Now())
	return s.inner.Get(ctx, key)
}

func (s *InstrumentedStore) Set(ctx context.Context, key string, value []byte) error {
	defer s.observe("set", time.Now())
	return s.inner.Set(ctx, key, value)
}

func (s *InstrumentedStore) Update(ctx context.Context, key string, fn UpdateFunc) error {
	defer s.observe("update", time.Now())
	return s.inner.Update(ctx, key, fn)
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

func (s *InstrumentedStore) Close() error {
	return s.inner.Close()
}

func (s *InstrumentedStore) observe(op string, start time.Time) {
	s.metrics.ObserveStorageDuration(op, time.Since(start))
}
