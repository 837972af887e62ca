package store

import (
	"sync"

	"github.com/rs/zerolog"
	"go.uber.org/atomic"

	"github.com/regexident/inplace/optional"
	"github.com/regexident/inplace/store/mapstore"
)

// telemetryCounterInterval is the number of interactions with the backend
// prior to printing a usage snapshot. This is done as a slowdown mechanism
// to avoid spamming logs upon read/write heavy workloads.
const telemetryCounterInterval = uint64(10_000)

// Backend is a concurrency-safe overlay around a MutableStore.
// Every operation, including the full run of a modify closure, executes under
// the write lock; this preserves the single-writer discipline the inner
// stores rely on, at the cost of holding the lock for the duration of the
// closure.
type Backend[K comparable, V any] struct {
	sync.RWMutex
	store              MutableStore[K, V]
	logger             zerolog.Logger
	interactionCounter *atomic.Uint64
}

var _ MutableStore[string, int] = (*Backend[string, int])(nil)

// OptionFunc configures a Backend during construction.
type OptionFunc[K comparable, V any] func(*Backend[K, V])

// WithStore replaces the default builtin-map inner store.
func WithStore[K comparable, V any](store MutableStore[K, V]) OptionFunc[K, V] {
	return func(b *Backend[K, V]) {
		b.store = store
	}
}

// WithLogger sets the logger for backend telemetry.
func WithLogger[K comparable, V any](logger zerolog.Logger) OptionFunc[K, V] {
	return func(b *Backend[K, V]) {
		b.logger = logger
	}
}

// NewBackend creates a backend around a mapstore.MapStore, unless a different
// inner store is supplied through WithStore.
func NewBackend[K comparable, V any](options ...OptionFunc[K, V]) *Backend[K, V] {
	b := &Backend[K, V]{
		store:              mapstore.New[K, V](),
		logger:             zerolog.Nop(),
		interactionCounter: atomic.NewUint64(0),
	}
	for _, option := range options {
		option(b)
	}
	b.logger = b.logger.With().Str("component", "store-backend").Logger()
	return b
}

// Has checks if a value is stored under the given key.
func (b *Backend[K, V]) Has(key K) bool {
	b.RLock()
	defer b.RUnlock()
	b.trackInteraction()
	return b.store.Has(key)
}

// Get returns the value for the given key.
// Returns true if the key-value pair exists, and false otherwise.
func (b *Backend[K, V]) Get(key K) (V, bool) {
	b.RLock()
	defer b.RUnlock()
	b.trackInteraction()
	return b.store.Get(key)
}

// Add attempts to add the given value, without overwriting existing data.
// If a value is already stored under the input key, Add is a no-op and returns false.
// If no value is stored under the input key, Add adds the value and returns true.
func (b *Backend[K, V]) Add(key K, value V) bool {
	b.Lock()
	defer b.Unlock()
	b.trackInteraction()
	return b.store.Add(key, value)
}

// Remove removes the value with the given key.
// If the key-value pair exists, returns the value and true.
// Otherwise, returns the zero value for type V and false.
func (b *Backend[K, V]) Remove(key K) (V, bool) {
	b.Lock()
	defer b.Unlock()
	b.trackInteraction()
	return b.store.Remove(key)
}

// Size returns the total number of stored key-value pairs.
func (b *Backend[K, V]) Size() uint {
	b.RLock()
	defer b.RUnlock()
	b.trackInteraction()
	return b.store.Size()
}

// All returns all stored key-value pairs as a map.
func (b *Backend[K, V]) All() map[K]V {
	b.RLock()
	defer b.RUnlock()
	b.trackInteraction()
	return b.store.All()
}

// Keys returns the list of keys of stored key-value pairs.
func (b *Backend[K, V]) Keys() []K {
	b.RLock()
	defer b.RUnlock()
	b.trackInteraction()
	return b.store.Keys()
}

// Values returns the list of values of stored key-value pairs.
func (b *Backend[K, V]) Values() []V {
	b.RLock()
	defer b.RUnlock()
	b.trackInteraction()
	return b.store.Values()
}

// Clear removes all key-value pairs from the store.
func (b *Backend[K, V]) Clear() {
	b.Lock()
	defer b.Unlock()
	b.trackInteraction()
	b.store.Clear()
}

// ModifyIfPresent passes a pointer to the value stored under the given key to
// f for in-place modification, holding the write lock for the full run of the
// closure. If no value is stored under the key, f is not invoked and
// (false, nil) is returned.
func (b *Backend[K, V]) ModifyIfPresent(key K, f func(value *V) error) (bool, error) {
	b.Lock()
	defer b.Unlock()
	b.trackInteraction()
	modified, err := b.store.ModifyIfPresent(key, f)
	if err != nil {
		b.logger.Debug().Err(err).Interface("key", key).Msg("modify-if-present surfaced closure error")
	}
	return modified, err
}

// ModifyOrInsert passes a pointer to the value stored under the given key to
// f, initializing the value with init when the key is absent. The write lock
// is held for the full run of init and f.
func (b *Backend[K, V]) ModifyOrInsert(key K, init func() (V, error), f func(value *V) error) error {
	b.Lock()
	defer b.Unlock()
	b.trackInteraction()
	err := b.store.ModifyOrInsert(key, init, f)
	if err != nil {
		b.logger.Debug().Err(err).Interface("key", key).Msg("modify-or-insert surfaced error")
	}
	return err
}

// Modify passes the presence slot for the given key to f, holding the write
// lock for the full run of the closure.
func (b *Backend[K, V]) Modify(key K, f func(slot *optional.Box[V]) error) error {
	b.Lock()
	defer b.Unlock()
	b.trackInteraction()
	err := b.store.Modify(key, f)
	if err != nil {
		b.logger.Debug().Err(err).Interface("key", key).Msg("modify surfaced closure error")
	}
	return err
}

// GetWithInit returns the value for the given key, initializing and storing
// it with init when the key is absent.
func (b *Backend[K, V]) GetWithInit(key K, init func() (V, error)) (V, error) {
	b.Lock()
	defer b.Unlock()
	b.trackInteraction()
	return b.store.GetWithInit(key, init)
}

// Run executes the given function, giving it exclusive access to the inner
// store. The full run, including every modify the function performs, happens
// under the write lock.
func (b *Backend[K, V]) Run(f func(store MutableStore[K, V]) error) error {
	b.Lock()
	defer b.Unlock()
	b.trackInteraction()
	return f(b.store)
}

// trackInteraction counts one backend interaction and periodically emits a
// debug-level usage snapshot. Callers must hold at least the read lock.
func (b *Backend[K, V]) trackInteraction() {
	count := b.interactionCounter.Inc()
	if count%telemetryCounterInterval == 0 {
		b.logger.Debug().
			Uint64("interactions", count).
			Uint("size", b.store.Size()).
			Msg("backend usage snapshot")
	}
}
