// Package optional provides a single-value box with an exclusive in-place
// modification protocol.
//
// A Box is either empty or holds exactly one value. Modify grants a caller
// closure exclusive mutable access to the held value through a transient
// "hole": for the duration of the closure the box reports empty, and the
// value is guaranteed to be put back on every exit path, including error
// returns and panics. The keyed package builds its absent-key handling on
// top of this protocol.
package optional

// Box holds zero or one value of type T.
// The zero value is an empty box.
type Box[T any] struct {
	value T
	full  bool
}

// Of returns a box holding the given value.
func Of[T any](value T) Box[T] {
	return Box[T]{value: value, full: true}
}

// IsEmpty reports whether the box holds no value.
func (b *Box[T]) IsEmpty() bool {
	return !b.full
}

// Get returns the held value.
// Returns the zero value of T and false if the box is empty.
func (b *Box[T]) Get() (T, bool) {
	if !b.full {
		var zero T
		return zero, false
	}
	return b.value, true
}

// Set replaces the content of the box with the given value.
func (b *Box[T]) Set(value T) {
	b.value = value
	b.full = true
}

// Take moves the held value out of the box, leaving the box empty.
// Returns false if the box was already empty.
func (b *Box[T]) Take() (T, bool) {
	value, ok := b.value, b.full
	var zero T
	b.value = zero
	b.full = false
	return value, ok
}
