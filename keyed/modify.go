// Package keyed provides exclusive in-place modification of values bound to
// keys in a builtin Go map.
//
// Map entries are not addressable, so mutating a value "in place" requires
// moving it into a scratch location, handing the closure a pointer to that
// location, and committing the result back under the key. The functions in
// this package implement that protocol with a single read lookup and a single
// deferred write-back commit per call, never a remove-then-reinsert pair and
// never a second read. The write-back runs unconditionally, including when
// the closure returns an error or panics.
//
// The operations are not reentrant: a closure must not read or write the map
// it was invoked on. Under that discipline the scratch copy is the only
// usable reference to the value for the span of the call.
package keyed

import (
	"github.com/regexident/inplace/optional"
)

// ModifyIfPresent invokes f with exclusive mutable access to the value bound
// to key, if the key is present.
//
// If key is absent, ModifyIfPresent returns (false, nil) and f is not
// invoked; a nil map is treated as an always-absent map. Otherwise the value
// is moved out, f runs on it, and the (possibly modified) value is written
// back under key before the call returns, also when f fails or panics. f's
// error surfaces after the write-back.
func ModifyIfPresent[K comparable, V any](m map[K]V, key K, f func(*V) error) (bool, error) {
	value, ok := m[key]
	if !ok {
		return false, nil
	}

	defer func() {
		m[key] = value
	}()

	return true, f(&value)
}

// ModifyOrInsert invokes f with exclusive mutable access to the value bound
// to key, inserting a value produced by init when the key is absent.
//
// If key is absent and init fails, the map is left untouched, f is not
// invoked, and init's error is returned. Otherwise f runs on the bound (or
// freshly produced) value, and the result is committed under key before the
// call returns, unconditionally: also when f fails or panics, and also when
// the value was just produced by init. After the call key is always present.
//
// The map must be non-nil: committing to a nil map panics, exactly as the
// builtin assignment would.
func ModifyOrInsert[K comparable, V any](m map[K]V, key K, init func() (V, error), f func(*V) error) error {
	value, ok := m[key]
	if !ok {
		var err error
		value, err = init()
		if err != nil {
			return err
		}
	}

	defer func() {
		m[key] = value
	}()

	return f(&value)
}

// Modify invokes f with a mutable view of the slot for key, present or not.
//
// The slot's state is moved into an optional.Box handed to f: the box holds
// the bound value when key is present and is empty otherwise. When f
// returns, the box's final state is committed back to the map in a single
// write-back:
//
//   - key absent, box left empty: the map is not touched;
//   - key absent, box filled: the entry key -> value is inserted;
//   - key present, box emptied: the entry is removed;
//   - key present, box holding: the entry is overwritten.
//
// The write-back is one code path for every V, value-like or pointer-like,
// and runs unconditionally, including when f fails or panics. f's error
// surfaces after the commit. Inserting into a nil map panics, exactly as the
// builtin assignment would.
func Modify[K comparable, V any](m map[K]V, key K, f func(*optional.Box[V]) error) error {
	var slot optional.Box[V]
	value, present := m[key]
	if present {
		slot.Set(value)
	}

	defer func() {
		if final, ok := slot.Get(); ok {
			m[key] = final
		} else if present {
			delete(m, key)
		}
	}()

	return f(&slot)
}
