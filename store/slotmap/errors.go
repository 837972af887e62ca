package slotmap

import "errors"

// ErrFull indicates that an insert was rejected because the map reached its
// capacity and is configured without ejection.
var ErrFull = errors.New("slotmap is full")
