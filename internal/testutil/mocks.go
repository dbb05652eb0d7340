package testutil

import (
	"context"
	"errors"
	"falci/internal/models"
	"falci/internal/providers"
	"falci/internal/storage"
	"sync"
	"time"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, l := range m.Logs {
		if l.Level == level {
			n++
		}
	}
	return n
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu             sync.Mutex
	Readings       map[string]int
	Sessions       int
	InferenceFails int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) ObserveInferenceDuration(_ time.Duration)         {}
func (m *MockMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}

func (m *MockMetrics) IncInferenceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InferenceFails++
}

func (m *MockMetrics) IncReadings(kind string, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Readings == nil {
		m.Readings = make(map[string]int)
	}
	m.Readings[kind+":"+outcome]++
}

func (m *MockMetrics) SetActiveSessions(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sessions = count
}

// InferenceCall is one recorded Complete call.
type InferenceCall struct {
	Persona  string
	Messages []models.InferenceMessage
}

// MockInference answers Complete with Reply or Err. When Gate is set every
// call blocks until Gate yields or the context ends.
type MockInference struct {
	mu    sync.Mutex
	Reply string
	Err   error
	Gate  chan struct{}
	Calls []InferenceCall
}

func (m *MockInference) Complete(ctx context.Context, persona string, messages []models.InferenceMessage) (string, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, InferenceCall{Persona: persona, Messages: messages})
	gate, reply, err := m.Gate, m.Reply, m.Err
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return reply, err
}

func (m *MockInference) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

func (m *MockInference) LastCall() InferenceCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return InferenceCall{}
	}
	return m.Calls[len(m.Calls)-1]
}

// FlakyStore wraps a storage.KVStoreInterface and fails chosen operations
// with a *storage.StorageError.
type FlakyStore struct {
	storage.KVStoreInterface
	mu        sync.Mutex
	FailGet   bool
	FailWrite bool
}

var errInjected = errors.New("injected backend failure")

func NewFlakyStore() *FlakyStore {
	return &FlakyStore{KVStoreInterface: storage.NewMemoryStore()}
}

func (f *FlakyStore) SetFailures(get bool, write bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.FailGet, f.FailWrite = get, write
}

func (f *FlakyStore) failures() (bool, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.FailGet, f.FailWrite
}

func (f *FlakyStore) Get(ctx context.Context, key string) ([]byte, error) {
	if failGet, _ := f.failures(); failGet {
		return nil, &storage.StorageError{Op: "get", Key: key, Err: errInjected}
	}
	return f.KVStoreInterface.Get(ctx, key)
}

func (f *FlakyStore) Set(ctx context.Context, key string, value []byte) error {
	if _, failWrite := f.failures(); failWrite {
		return &storage.StorageError{Op: "set", Key: key, Err: errInjected}
	}
	return f.KVStoreInterface.Set(ctx, key, value)
}

func (f *FlakyStore) Update(ctx context.Context, key string, fn storage.UpdateFunc) error {
	if _, failWrite := f.failures(); failWrite {
		return &storage.StorageError{Op: "update", Key: key, Err: errInjected}
	}
	return f.KVStoreInterface.Update(ctx, key, fn)
}

func (f *FlakyStore) Ping(ctx context.Context) error {
	if failGet, _ := f.failures(); failGet {
		return &storage.StorageError{Op: "ping", Err: errInjected}
	}
	return nil
}

// NewAdapter returns a plain JSON adapter over store.
func NewAdapter(store storage.KVStoreInterface) storage.AdapterInterface {
	compressor, err := storage.NewZstdCompressor()
	if err != nil {
		panic(err)
	}
	return storage.NewAdapter(store, compressor, false)
}
