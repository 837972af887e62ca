package store

// Metrics consumes usage notifications from stores.
// Implementations must be non-blocking.
type Metrics interface {
	// OnKeyGetSuccess tracks total number of successful read queries.
	// A read query is successful if a value is stored under the queried key.
	OnKeyGetSuccess()

	// OnKeyGetFailure tracks total number of unsuccessful read queries.
	// A read query is unsuccessful if no value is stored under the queried key.
	OnKeyGetFailure()

	// OnKeyPutSuccess is called whenever a new (key, value) pair is successfully added to the store.
	// size parameter is the current size of the store.
	OnKeyPutSuccess(size uint32)

	// OnKeyPutDeduplicated tracks the total number of unsuccessful writes caused by adding a
	// duplicate key. A duplicate key is dropped by the store when it is written, leaving the
	// stored value untouched.
	OnKeyPutDeduplicated()

	// OnKeyPutDrop is called whenever a new (key, value) pair is dropped from the store
	// because the store is full and not allowed to eject.
	OnKeyPutDrop()

	// OnKeyRemoved is called whenever a (key, value) pair is removed from the store.
	// size parameter is the current size of the store.
	OnKeyRemoved(size uint32)

	// OnKeyModified is called whenever a modify operation committed its write-back without a
	// closure error.
	OnKeyModified()

	// OnModifyAborted is called whenever a modify operation surfaced an error, either from
	// the closure or from the value initializer.
	OnModifyAborted()

	// OnEjectionDueToFullCapacity is called whenever adding a new (key, value) pair to the
	// store results in ejection of another (key', value') pair. This normally happens when
	// the store is full, and is expected.
	OnEjectionDueToFullCapacity()
}
