package slotpool

// link represents a slice-based doubly linked-list node that
// consists of a next and previous slot index.
type link struct {
	next Index
	prev Index
}

// state represents a doubly linked-list by its head and tail slot indices.
type state struct {
	head Index
	tail Index
	size uint32
}

// newStates constructs the state list for a pool, with every list empty.
func newStates(numberOfStates int) []state {
	states := make([]state, numberOfStates)
	for i := range states {
		states[i] = state{
			head: InvalidIndex,
			tail: InvalidIndex,
			size: 0,
		}
	}
	return states
}
