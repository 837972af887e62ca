package optional

// Modify invokes f with exclusive mutable access to the boxed value.
//
// If the box is empty, Modify returns (false, nil) and f is not invoked.
// Otherwise the value is moved out of the box for the span of the call: while
// f runs the box reports empty, and no other reference to the value exists.
// The (possibly modified) value is moved back before Modify returns. The
// move-back is unconditional, running on a normal return, when f returns an
// error, and when f panics, so the box is never left empty by the call
// itself. f's error, if any, surfaces only after the value is back in place.
//
// Modify is not reentrant: f must not call Set, Take or Modify on the box it
// was invoked on. Reads through the box observe the open hole, with IsEmpty
// reporting true and Get reporting no value until the call returns.
func (b *Box[T]) Modify(f func(*T) error) (bool, error) {
	if !b.full {
		return false, nil
	}

	// Open the hole: the value stays in place, but the box masks it so that
	// f holds the only usable reference. The deferred restore closes the
	// hole on every exit path, panics included.
	b.full = false
	defer func() {
		b.full = true
	}()

	return true, f(&b.value)
}
