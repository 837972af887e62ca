package indexed

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is wrapped by every IndexOutOfRangeError, so callers can
// match with errors.Is without naming the concrete type.
var ErrIndexOutOfRange = errors.New("index out of range")

// IndexOutOfRangeError indicates that an in-place modification was requested
// at an index outside the bounds of the sequence. The closure was not invoked
// and the sequence is untouched.
type IndexOutOfRangeError struct {
	Index  int
	Length int
}

func NewIndexOutOfRangeError(index int, length int) error {
	return IndexOutOfRangeError{
		Index:  index,
		Length: length,
	}
}

func (e IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("index %d out of range for length %d", e.Index, e.Length)
}

func (e IndexOutOfRangeError) Unwrap() error {
	return ErrIndexOutOfRange
}

// IsIndexOutOfRangeError returns whether the given error is an IndexOutOfRangeError.
func IsIndexOutOfRangeError(err error) bool {
	var indexOutOfRangeError IndexOutOfRangeError
	return errors.As(err, &indexOutOfRangeError)
}
