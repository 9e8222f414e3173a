// Package status is the metrics facade shared by the simulation and the HUD.
//
// Producers cache metric pointers once and write atomics on the hot path;
// readers (terminal status line, logs) take sorted snapshots.
package status

import (
	"sort"
	"sync"
	"sync/atomic"
)

// MetricMap is a thread-safe registry for metrics of type T
// Registration uses mutex; cached pointer access is lock-free
type MetricMap[T any] struct {
	mu    sync.RWMutex
	items map[string]*T
}

// NewMetricMap creates an initialized MetricMap
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{items: make(map[string]*T)}
}

// Get returns the metric pointer for key, creating if absent
func (m *MetricMap[T]) Get(key string) *T {
	m.mu.RLock()
	if ptr, ok := m.items[key]; ok {
		m.mu.RUnlock()
		return ptr
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if ptr, ok := m.items[key]; ok {
		return ptr
	}
	ptr := new(T)
	m.items[key] = ptr
	return ptr
}

// Range iterates over all metrics in sorted key order
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		fn(k, m.items[k])
	}
}

// Registry groups metric maps by value type
type Registry struct {
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// IntValues snapshots every integer metric
func (r *Registry) IntValues() map[string]int64 {
	out := make(map[string]int64)
	r.Ints.Range(func(k string, v *atomic.Int64) { out[k] = v.Load() })
	return out
}

// Metric keys published by the simulation
const (
	KeyFrames            = "engine.frames"
	KeyEntities          = "registry.entities"
	KeyVelocity          = "world.velocity"
	KeyPhase             = "world.phase"
	KeyShipHits          = "ship.hits"
	KeySentimentPositive = "sentiment.positive"
	KeySentimentNegative = "sentiment.negative"
	KeySentimentDropped  = "sentiment.dropped"
)
