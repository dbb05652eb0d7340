package providers

import (
	"falci/internal/structures"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cacheMetricsTestMetrics struct {
	hits   int
	misses int
}

func (m *cacheMetricsTestMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *cacheMetricsTestMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *cacheMetricsTestMetrics) IncCacheHits()                                    { m.hits++ }
func (m *cacheMetricsTestMetrics) IncCacheMisses()                                  { m.misses++ }
func (m *cacheMetricsTestMetrics) ObserveInferenceDuration(_ time.Duration)         {}
func (m *cacheMetricsTestMetrics) IncInferenceFailures()                            {}
func (m *cacheMetricsTestMetrics) IncReadings(_ string, _ string)                   {}
func (m *cacheMetricsTestMetrics) ObserveStorageDuration(_ string, _ time.Duration) {}
func (m *cacheMetricsTestMetrics) SetActiveSessions(_ int)                          {}

type cacheMetricsTestInner struct {
	data map[string][]byte
}

func (c *cacheMetricsTestInner) Get(key string) ([]byte, bool) {
	v, ok := c.data[key]
	return v, ok
}
func (c *cacheMetricsTestInner) Set(key string, value []byte) {
	c.data[key] = value
}
func (c *cacheMetricsTestInner) Del(key string) {
	delete(c.data, key)
}

func TestMetricsCacheProvider_Hit(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"key1": []byte("val1")}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	val, ok := cache.Get("key1")
	assert.True(t, ok)
	assert.Equal(t, []byte("val1"), val)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 0, metrics.misses)
}

func TestMetricsCacheProvider_Miss(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	val, ok := cache.Get("missing")
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.Equal(t, 0, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
}

func TestMetricsCacheProvider_SetDelegates(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	cache.Set("key2", []byte("val2"))

	val, ok := inner.Get("key2")
	assert.True(t, ok)
	assert.Equal(t, []byte("val2"), val)
}

func TestMetricsCacheProvider_MultipleOperations(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"a": []byte("1")}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	cache.Get("a") // hit
	cache.Get("b") // miss
	cache.Get("a") // hit
	cache.Get("c") // miss

	assert.Equal(t, 2, metrics.hits)
	assert.Equal(t, 2, metrics.misses)
}

func TestMetricsCacheProvider_DelThenMiss(t *testing.T) {
	inner := &cacheMetricsTestInner{data: map[string][]byte{"user:a@b.c": []byte("{}")}}
	metrics := &cacheMetricsTestMetrics{}
	cache := &MetricsCacheProvider{inner: inner, metrics: metrics}

	cache.Del("user:a@b.c")
	_, ok := cache.Get("user:a@b.c")

	assert.False(t, ok)
	assert.Equal(t, 1, metrics.misses)
}

func TestNewInstrumentedCacheProvider_DisabledIsUnwrapped(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: false}}
	c := NewInstrumentedCacheProvider(conf, &cacheTestLogger{}, &cacheMetricsTestMetrics{})
	assert.IsType(t, &noopCache{}, c)
}

func TestNewInstrumentedCacheProvider_EnabledIsWrapped(t *testing.T) {
	conf := &structures.Config{Cache: structures.CacheConfig{Enabled: true, Size: 1, TTL: time.Minute}}
	metrics := &cacheMetricsTestMetrics{}
	c := NewInstrumentedCacheProvider(conf, &cacheTestLogger{}, metrics)
	require.IsType(t, &MetricsCacheProvider{}, c)

	c.Set("k", []byte("v"))
	_, ok := c.Get("k")
	assert.True(t, ok)
	assert.Equal(t, 1, metrics.hits)
}
