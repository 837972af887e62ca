// Package slotmap provides a capacity-bounded key-value store addressed
// through a slot arena.
//
// A builtin Go map carries only the key-to-slot index; the values themselves
// live in stable arena slots. Every store operation consults the index map
// exactly once, and mutations commit directly in the slot, so the modify
// protocol involves a single key lookup end to end. When the arena is full,
// adds either eject a victim pair or are dropped, per the configured ejection
// mode.
package slotmap

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/regexident/inplace/optional"
	"github.com/regexident/inplace/store"
	"github.com/regexident/inplace/store/slotmap/slotpool"
)

// Map implements a capacity-bounded generic key-value store backed by a slot
// arena.
type Map[K comparable, V any] struct {
	// NOTE: as a store implementation, Map must be non-blocking.
	// Concurrency management is done by the overlay Backend.
	logger       zerolog.Logger
	collector    store.Metrics
	limit        uint32
	ejectionMode slotpool.EjectionMode

	// index maps every stored key to the arena slot holding its value. Store
	// operations consult it exactly once; the mutation itself commits in the
	// slot, never through a second key lookup.
	index map[K]slotpool.Index
	pool  *slotpool.Pool[K, V]
}

var _ store.MutableStore[string, int] = (*Map[string, int])(nil)

func New[K comparable, V any](
	limit uint32,
	ejectionMode slotpool.EjectionMode,
	logger zerolog.Logger,
	collector store.Metrics,
) *Map[K, V] {
	return &Map[K, V]{
		logger:       logger.With().Str("component", "slotmap").Logger(),
		collector:    collector,
		limit:        limit,
		ejectionMode: ejectionMode,
		index:        make(map[K]slotpool.Index, limit),
		pool:         slotpool.New[K, V](limit, ejectionMode),
	}
}

// Has checks if a value is stored under the given key.
func (m *Map[K, V]) Has(key K) bool {
	_, exists := m.index[key]
	return exists
}

// Get returns the value for the given key.
// Returns true if the key-value pair exists, and false otherwise.
func (m *Map[K, V]) Get(key K) (V, bool) {
	slotIndex, exists := m.index[key]
	if !exists {
		m.collector.OnKeyGetFailure()
		var zero V
		return zero, false
	}

	_, value := m.pool.Get(slotIndex)
	m.collector.OnKeyGetSuccess()
	return value, true
}

// Add attempts to add the given value, without overwriting existing data.
// If a value is already stored under the input key, Add is a no-op and returns false.
// If no value is stored under the input key, Add adds the value and returns true,
// ejecting a victim pair first when the arena is full and ejection is enabled.
func (m *Map[K, V]) Add(key K, value V) bool {
	if _, exists := m.index[key]; exists {
		m.collector.OnKeyPutDeduplicated()
		return false
	}

	_, added := m.addSlot(key, value)
	return added
}

// Remove removes the value with the given key.
// If the key-value pair exists, returns the value and true.
// Otherwise, returns the zero value for type V and false.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	slotIndex, exists := m.index[key]
	if !exists {
		var zero V
		return zero, false
	}

	_, value := m.pool.Remove(slotIndex)
	delete(m.index, key)
	m.collector.OnKeyRemoved(m.pool.Size())
	return value, true
}

// Size returns the total number of stored key-value pairs.
func (m *Map[K, V]) Size() uint {
	return uint(m.pool.Size())
}

// All returns all stored key-value pairs as a map.
func (m *Map[K, V]) All() map[K]V {
	slots := m.pool.All()
	all := make(map[K]V, len(slots))
	for _, slot := range slots {
		all[slot.Key()] = slot.Value()
	}
	return all
}

// Keys returns the list of keys of stored key-value pairs, oldest first.
func (m *Map[K, V]) Keys() []K {
	slots := m.pool.All()
	keys := make([]K, len(slots))
	for i, slot := range slots {
		keys[i] = slot.Key()
	}
	return keys
}

// Values returns the list of values of stored key-value pairs, oldest first.
func (m *Map[K, V]) Values() []V {
	slots := m.pool.All()
	values := make([]V, len(slots))
	for i, slot := range slots {
		values[i] = slot.Value()
	}
	return values
}

// Clear removes all key-value pairs from the map.
func (m *Map[K, V]) Clear() {
	m.index = make(map[K]slotpool.Index, m.limit)
	m.pool = slotpool.New[K, V](m.limit, m.ejectionMode)
}

// ModifyIfPresent passes a pointer to the value stored under the given key to
// f for in-place modification. The pointer is a direct borrow of the arena
// slot, so there is no write-back step: every mutation f applies is already
// committed, including mutations made before a returned error.
// If no value is stored under the key, f is not invoked and (false, nil) is
// returned.
func (m *Map[K, V]) ModifyIfPresent(key K, f func(value *V) error) (bool, error) {
	slotIndex, exists := m.index[key]
	if !exists {
		return false, nil
	}

	err := m.pool.ModifyAt(slotIndex, f)
	if err != nil {
		m.collector.OnModifyAborted()
		return true, err
	}
	m.collector.OnKeyModified()
	return true, nil
}

// ModifyOrInsert passes a pointer to the value stored under the given key to
// f, initializing the value with init when the key is absent.
// An error from init leaves the map untouched, and f is never invoked.
// Inserting into a full map without ejection fails with ErrFull.
// The inserted value stays committed even when f then fails, matching the
// write-back rule of the present-key path.
func (m *Map[K, V]) ModifyOrInsert(key K, init func() (V, error), f func(value *V) error) error {
	slotIndex, exists := m.index[key]
	if !exists {
		value, err := init()
		if err != nil {
			m.collector.OnModifyAborted()
			return err
		}

		var added bool
		slotIndex, added = m.addSlot(key, value)
		if !added {
			m.collector.OnModifyAborted()
			return fmt.Errorf("cannot insert value for key %v: %w", key, ErrFull)
		}
	}

	err := m.pool.ModifyAt(slotIndex, f)
	if err != nil {
		m.collector.OnModifyAborted()
		return err
	}
	m.collector.OnKeyModified()
	return nil
}

// Modify passes the presence slot for the given key to f. For a present key
// the value is moved out of the arena for the duration of f, leaving the
// claimed slot observably vacated, and the final slot state is committed in
// one step on every exit path, panics included: filling an empty slot
// inserts, emptying a full slot removes, replacing the held value overwrites,
// and an untouched empty slot leaves the map unchanged.
// An insert into a full map without ejection fails with ErrFull.
func (m *Map[K, V]) Modify(key K, f func(slot *optional.Box[V]) error) (err error) {
	slotIndex, exists := m.index[key]

	var slot optional.Box[V]
	if exists {
		// the index was just consulted and the arena never shrinks, so the
		// bounds check cannot fail here
		_ = m.pool.ModifyAt(slotIndex, func(value *V) error {
			slot.Set(*value)
			var zero V
			*value = zero
			return nil
		})
	}

	defer func() {
		final, ok := slot.Take()
		switch {
		case ok && exists:
			_ = m.pool.ModifyAt(slotIndex, func(value *V) error {
				*value = final
				return nil
			})
			if err == nil {
				m.collector.OnKeyModified()
			}
		case ok && !exists:
			if _, added := m.addSlot(key, final); !added && err == nil {
				err = fmt.Errorf("cannot insert value for key %v: %w", key, ErrFull)
			}
		case !ok && exists:
			m.pool.Remove(slotIndex)
			delete(m.index, key)
			m.collector.OnKeyRemoved(m.pool.Size())
		}

		if err != nil {
			m.collector.OnModifyAborted()
		}
	}()

	return f(&slot)
}

// GetWithInit returns the value for the given key, initializing and storing
// it with init when the key is absent. An error from init leaves the map
// untouched; inserting into a full map without ejection fails with ErrFull.
func (m *Map[K, V]) GetWithInit(key K, init func() (V, error)) (V, error) {
	slotIndex, exists := m.index[key]
	if exists {
		m.collector.OnKeyGetSuccess()
		_, value := m.pool.Get(slotIndex)
		return value, nil
	}
	m.collector.OnKeyGetFailure()

	value, err := init()
	if err != nil {
		var zero V
		return zero, err
	}

	if _, added := m.addSlot(key, value); !added {
		var zero V
		return zero, fmt.Errorf("cannot insert value for key %v: %w", key, ErrFull)
	}
	return value, nil
}

// addSlot writes the pair into the arena and indexes it, handling ejection
// bookkeeping. The key must not be indexed yet.
func (m *Map[K, V]) addSlot(key K, value V) (slotpool.Index, bool) {
	slotIndex, slotAvailable, ejectedSlot := m.pool.Add(key, value)
	if !slotAvailable {
		m.collector.OnKeyPutDrop()
		m.logger.Debug().Interface("key", key).Msg("add dropped, slotmap is full with no ejection")
		return slotpool.InvalidIndex, false
	}

	if ejected, ok := ejectedSlot.Get(); ok {
		// the ejected pair loses its index entry along with its slot
		delete(m.index, ejected.Key())
		m.collector.OnEjectionDueToFullCapacity()
		m.logger.Debug().Interface("key", ejected.Key()).Msg("ejected oldest pair to make room")
	}

	m.index[key] = slotIndex
	m.collector.OnKeyPutSuccess(m.pool.Size())
	return slotIndex, true
}
