// Package indexed provides in-place modification of slice elements.
//
// Slice elements, unlike map entries, are addressable. The modifier hands the
// closure a pointer straight into the backing array, so there is no scratch
// copy and no write-back step: every write through the pointer is immediately
// visible in the slice. The only failure mode of the borrow itself is an
// out-of-bounds index, reported as an IndexOutOfRangeError before the closure
// runs.
package indexed

// ModifyAt passes the address of s[index] to f for in-place modification.
//
// When index is outside [0, len(s)) an IndexOutOfRangeError is returned, the
// closure is never invoked, and the slice is untouched. Any error returned by
// f is passed through unchanged; mutations f applied before failing remain
// visible, exactly as they would for hand-written code mutating s[index].
//
// The pointer is only valid for the duration of the call. f must not grow the
// slice or retain the pointer, as either can detach it from the backing array.
func ModifyAt[S ~[]E, E any](s S, index int, f func(*E) error) error {
	if index < 0 || index >= len(s) {
		return NewIndexOutOfRangeError(index, len(s))
	}
	return f(&s[index])
}
