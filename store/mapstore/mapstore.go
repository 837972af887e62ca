// Package mapstore provides an unbounded key-value store backed by a builtin
// Go map, with the modify operations routed through the keyed modifiers.
package mapstore

import (
	"github.com/regexident/inplace/keyed"
	"github.com/regexident/inplace/optional"
)

// MapStore implements a generic in-memory key-value store backed by a Go map.
type MapStore[K comparable, V any] struct {
	// NOTE: as a store implementation, MapStore must be non-blocking.
	// Concurrency management is done by the overlay Backend.
	values map[K]V
}

func New[K comparable, V any]() *MapStore[K, V] {
	return &MapStore[K, V]{
		values: make(map[K]V),
	}
}

// Has checks if a value is stored under the given key.
func (s MapStore[K, V]) Has(key K) bool {
	_, exists := s.values[key]
	return exists
}

// Get returns the value stored under the given key.
func (s MapStore[K, V]) Get(key K) (V, bool) {
	value, exists := s.values[key]
	if !exists {
		var zero V
		return zero, false
	}
	return value, true
}

// Add adds the given value to the store, without overwriting existing data.
func (s *MapStore[K, V]) Add(key K, value V) bool {
	_, exists := s.values[key]
	if exists {
		return false
	}
	s.values[key] = value
	return true
}

// Remove removes the value with the given key.
func (s *MapStore[K, V]) Remove(key K) (V, bool) {
	value, exists := s.values[key]
	if !exists {
		var zero V
		return zero, false
	}
	delete(s.values, key)
	return value, true
}

// Size returns the size of the store, i.e., total number of stored (key, value) pairs.
func (s MapStore[K, V]) Size() uint {
	return uint(len(s.values))
}

// All returns all key-value pairs stored in the store.
func (s MapStore[K, V]) All() map[K]V {
	values := make(map[K]V, len(s.values))
	for key, value := range s.values {
		values[key] = value
	}
	return values
}

// Keys returns the list of keys of the stored key-value pairs.
func (s MapStore[K, V]) Keys() []K {
	keys := make([]K, len(s.values))
	i := 0
	for key := range s.values {
		keys[i] = key
		i++
	}
	return keys
}

// Values returns the list of values of the stored key-value pairs.
func (s MapStore[K, V]) Values() []V {
	values := make([]V, len(s.values))
	i := 0
	for _, value := range s.values {
		values[i] = value
		i++
	}
	return values
}

// Clear removes all key-value pairs from the store.
func (s *MapStore[K, V]) Clear() {
	s.values = make(map[K]V)
}

// ModifyIfPresent passes a pointer to the value stored under the given key to
// f for in-place modification. If no value is stored under the key, f is not
// invoked and (false, nil) is returned.
func (s *MapStore[K, V]) ModifyIfPresent(key K, f func(value *V) error) (bool, error) {
	return keyed.ModifyIfPresent(s.values, key, f)
}

// ModifyOrInsert passes a pointer to the value stored under the given key to
// f, initializing the value with init when the key is absent.
func (s *MapStore[K, V]) ModifyOrInsert(key K, init func() (V, error), f func(value *V) error) error {
	return keyed.ModifyOrInsert(s.values, key, init, f)
}

// Modify passes the presence slot for the given key to f. The final slot
// state decides between insert, overwrite, removal and no-op in a single
// write-back.
func (s *MapStore[K, V]) Modify(key K, f func(slot *optional.Box[V]) error) error {
	return keyed.Modify(s.values, key, f)
}

// GetWithInit returns the value stored under the given key, initializing and
// storing it with init when the key is absent. An error from init leaves the
// store untouched.
func (s *MapStore[K, V]) GetWithInit(key K, init func() (V, error)) (V, error) {
	value, exists := s.values[key]
	if exists {
		return value, nil
	}

	value, err := init()
	if err != nil {
		var zero V
		return zero, err
	}
	s.values[key] = value
	return value, nil
}
