// Package store defines the key-value store interfaces behind the modify
// protocol, and a concurrency-safe Backend overlay wrapping any of their
// implementations.
package store

import (
	"github.com/regexident/inplace/optional"
)

// Store is a generic interface for a non-blocking key-value store.
// Implementations are single-writer; concurrency management is done by the
// overlay Backend.
type Store[K comparable, V any] interface {
	// Has checks if a value is stored under the given key.
	Has(key K) bool

	// Get returns the value for the given key.
	// Returns true if the key-value pair exists, and false otherwise.
	Get(key K) (V, bool)

	// Add attempts to add the given value, without overwriting existing data.
	// If a value is already stored under the input key, Add is a no-op and returns false.
	// If no value is stored under the input key, Add adds the value and returns true.
	Add(key K, value V) bool

	// Remove removes the value with the given key.
	// If the key-value pair exists, returns the value and true.
	// Otherwise, returns the zero value for type V and false.
	Remove(key K) (V, bool)

	// Size returns the total number of stored key-value pairs.
	Size() uint

	// All returns all stored key-value pairs as a map.
	All() map[K]V

	// Keys returns the list of keys of stored key-value pairs.
	Keys() []K

	// Values returns the list of values of stored key-value pairs.
	Values() []V

	// Clear removes all key-value pairs from the store.
	Clear()
}

// MutableStore extends Store by allowing in-place modification of stored
// values. All modify operations follow the same ownership discipline: for the
// duration of the closure the value lives in exactly one place, and the
// closure holds the only usable reference to it. The value is committed back
// on every exit path, including error returns and panics inside the closure.
type MutableStore[K comparable, V any] interface {
	Store[K, V]

	// ModifyIfPresent passes a pointer to the value stored under the given key
	// to f for in-place modification. If no value is stored under the key,
	// ModifyIfPresent is a no-op: f is not invoked and (false, nil) is returned.
	// An error returned by f surfaces only after the value was committed back.
	ModifyIfPresent(key K, f func(value *V) error) (bool, error)

	// ModifyOrInsert passes a pointer to the value stored under the given key
	// to f, initializing the value with init when the key is absent.
	// An error from init leaves the store untouched, and f is never invoked.
	// The value handed to f is committed back under the key on every exit
	// path, including when f fails.
	ModifyOrInsert(key K, init func() (V, error), f func(value *V) error) error

	// Modify passes the presence slot for the given key to f. The final slot
	// state is committed in one step: filling an empty slot inserts, emptying
	// a full slot removes, replacing the held value overwrites, and an
	// untouched empty slot leaves the store unchanged.
	Modify(key K, f func(slot *optional.Box[V]) error) error

	// GetWithInit returns the value for the given key, initializing and
	// storing it with init when the key is absent.
	// An error from init leaves the store untouched.
	GetWithInit(key K, init func() (V, error)) (V, error)
}
