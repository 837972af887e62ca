// Package slotpool provides a fixed-capacity slot arena for (key, value)
// pairs. Every slot sits on exactly one of two intrusive doubly linked lists,
// free or used; the used list keeps insertion order, so its head is the
// oldest pair and the natural LRU ejection victim. Slots are addressed by a
// stable Index, which makes a single-lookup modify protocol possible for the
// store layered on top.
package slotpool

import (
	"math"
	"math/rand"

	"github.com/regexident/inplace/indexed"
	"github.com/regexident/inplace/optional"
)

type EjectionMode string

const (
	RandomEjection = EjectionMode("random-ejection")
	LRUEjection    = EjectionMode("lru-ejection")
	NoEjection     = EjectionMode("no-ejection")
)

// stateIndex addresses one of the two slot states of a pool.
type stateIndex uint

const numberOfStates = 2
const ( // iota is reset to 0
	stateFree stateIndex = iota
	stateUsed
)

// Index is the data type representing a slot index in a Pool.
type Index uint32

// InvalidIndex is used when a link does not point anywhere, in other words it
// is an equivalent of a nil address.
const InvalidIndex Index = math.MaxUint32

// Slot is the exported (key, value) view of an occupied slot.
type Slot[K comparable, V any] struct {
	key   K
	value V
}

func (s Slot[K, V]) Key() K {
	return s.key
}

func (s Slot[K, V]) Value() V {
	return s.value
}

// poolSlot is the arena representation of a slot.
type poolSlot[K comparable, V any] struct {
	Slot[K, V]

	// node keeps the link to the previous and next slots.
	// When this slot is in use, the node maintains its connections to the next and previous used slots.
	// When this slot is unused, the node maintains its connections to the next and previous free slots.
	node link
}

type Pool[K comparable, V any] struct {
	states       []state // keeps track of the slots of each state
	slots        []poolSlot[K, V]
	ejectionMode EjectionMode
}

func New[K comparable, V any](sizeLimit uint32, ejectionMode EjectionMode) *Pool[K, V] {
	pool := &Pool[K, V]{
		states:       newStates(numberOfStates),
		slots:        make([]poolSlot[K, V], sizeLimit),
		ejectionMode: ejectionMode,
	}

	pool.initFreeSlots()

	return pool
}

// initFreeSlots initializes the free doubly linked-list with the indices of
// all slots in the arena.
func (p *Pool[K, V]) initFreeSlots() {
	for i := 0; i < len(p.slots); i++ {
		p.appendSlot(stateFree, Index(i))
	}
}

// Add writes the given (key, value) pair into a slot of the underlying arena.
//
// The boolean return value (slotAvailable) says whether the pool has an
// available slot. The pool goes out of available slots if it is full and no
// ejection is set.
//
// If the pool has no available slots and an ejection is set, ejection occurs
// when adding a new pair. If an ejection occurred, ejectedSlot holds the
// ejected (key, value) pair.
func (p *Pool[K, V]) Add(key K, value V) (slotIndex Index, slotAvailable bool, ejectedSlot optional.Box[Slot[K, V]]) {
	slotIndex, slotAvailable, ejectedSlot = p.freeSlotForAdd()
	if slotAvailable {
		p.slots[slotIndex].key = key
		p.slots[slotIndex].value = value
		p.changeState(stateFree, stateUsed, slotIndex)
	}

	return slotIndex, slotAvailable, ejectedSlot
}

// Get returns the (key, value) pair stored in the slot with the given index.
// The index must address a slot in use; the contents of a free slot are zeroed.
func (p *Pool[K, V]) Get(slotIndex Index) (K, V) {
	return p.slots[slotIndex].key, p.slots[slotIndex].value
}

// ModifyAt passes a pointer to the value stored in the slot with the given
// index to f for in-place modification. The borrow is a direct projection
// into the arena; an out-of-bounds index surfaces as the indexed modifier's
// IndexOutOfRangeError, and the arena is untouched.
func (p *Pool[K, V]) ModifyAt(slotIndex Index, f func(value *V) error) error {
	return indexed.ModifyAt(p.slots, int(slotIndex), func(slot *poolSlot[K, V]) error {
		return f(&slot.value)
	})
}

// All returns all stored (key, value) pairs in this pool, in insertion order.
func (p *Pool[K, V]) All() []Slot[K, V] {
	all := make([]Slot[K, V], p.states[stateUsed].size)
	next := p.states[stateUsed].head

	for i := uint32(0); i < p.states[stateUsed].size; i++ {
		slot := p.slots[next]
		all[i] = slot.Slot
		next = slot.node.next
	}

	return all
}

// Head returns the (key, value) pair at the head of the used list. Assuming
// no ejection happened and the pool never went beyond its limit, Head returns
// the first inserted pair.
func (p *Pool[K, V]) Head() (K, V, bool) {
	if p.states[stateUsed].size == 0 {
		var zeroKey K
		var zeroValue V
		return zeroKey, zeroValue, false
	}
	slot := p.slots[p.states[stateUsed].head]
	return slot.key, slot.value, true
}

// Remove removes the pair stored in the slot with the given index from the
// pool, releasing the slot onto the free list. The index must address a slot
// in use.
func (p *Pool[K, V]) Remove(slotIndex Index) (K, V) {
	released := p.releaseSlot(slotIndex)
	return released.key, released.value
}

// Size returns the total number of pairs that this pool maintains.
func (p *Pool[K, V]) Size() uint32 {
	return p.states[stateUsed].size
}

// Capacity returns the total number of slots in the arena.
func (p *Pool[K, V]) Capacity() uint32 {
	return uint32(len(p.slots))
}

// freeSlotForAdd returns the slot index which hosts the next pair to be added.
//
// The boolean return value (slotAvailable) says whether the pool has an
// available slot. The pool goes out of available slots if it is full and no
// ejection is set.
//
// Ejection happens if there is no available slot and an ejection mode is set.
// If an ejection occurred, ejectedSlot holds the ejected (key, value) pair.
func (p *Pool[K, V]) freeSlotForAdd() (slotIndex Index, slotAvailable bool, ejectedSlot optional.Box[Slot[K, V]]) {
	if p.states[stateFree].size == 0 {
		// the free list is empty, so we are out of space, and we need to eject.
		switch p.ejectionMode {
		case NoEjection:
			// pool is set for no ejection, hence, no slot index is selected, abort immediately.
			return InvalidIndex, false, ejectedSlot
		case LRUEjection:
			// the used head is the oldest pair, so we release it here.
			ejectedSlot.Set(p.releaseSlot(p.states[stateUsed].head))
			return p.states[stateFree].head, true, ejectedSlot
		case RandomEjection:
			// we only eject randomly when the pool is full and random ejection is on;
			// with the free list empty every arena index addresses a slot in use, so a
			// random draw over the arena is a uniform draw over the used slots.
			victim := Index(rand.Uint32() % p.states[stateUsed].size)
			ejectedSlot.Set(p.releaseSlot(victim))
			return p.states[stateFree].head, true, ejectedSlot
		}
	}

	// claiming the head of the free list as the slot index for the next pair to be added
	return p.states[stateFree].head, true, ejectedSlot
}

// releaseSlot invalidates the slot with the given index by moving it from the
// used to the free list and clearing its contents. It returns the released
// (key, value) pair.
func (p *Pool[K, V]) releaseSlot(slotIndex Index) Slot[K, V] {
	released := p.slots[slotIndex].Slot
	p.changeState(stateUsed, stateFree, slotIndex)

	var zero Slot[K, V]
	p.slots[slotIndex].Slot = zero

	return released
}

// connect links the prev and next slots as adjacent nodes in the doubly
// linked list.
func (p *Pool[K, V]) connect(prev Index, next Index) {
	p.slots[prev].node.next = next
	p.slots[next].node.prev = prev
}

// removeSlot detaches the slot with the given index from the given state's list.
// NOTE: a removed slot has to be appended to another state.
func (p *Pool[K, V]) removeSlot(stateType stateIndex, slotIndex Index) {
	if p.states[stateType].size == 0 {
		panic("removing a slot from an empty list")
	}
	if p.states[stateType].size == 1 {
		p.states[stateType].head = InvalidIndex
		p.states[stateType].tail = InvalidIndex
		p.states[stateType].size--
		p.slots[slotIndex].node.next = InvalidIndex
		p.slots[slotIndex].node.prev = InvalidIndex
		return
	}

	node := p.slots[slotIndex].node

	if slotIndex != p.states[stateType].head && slotIndex != p.states[stateType].tail {
		// links next and prev slots for a non-head and non-tail slot
		p.connect(node.prev, node.next)
	}

	if slotIndex == p.states[stateType].head {
		// moves head forward
		p.states[stateType].head = node.next
		p.slots[p.states[stateType].head].node.prev = InvalidIndex
	}

	if slotIndex == p.states[stateType].tail {
		// moves tail backwards
		p.states[stateType].tail = node.prev
		p.slots[p.states[stateType].tail].node.next = InvalidIndex
	}

	p.states[stateType].size--
	p.slots[slotIndex].node.next = InvalidIndex
	p.slots[slotIndex].node.prev = InvalidIndex
}

// appendSlot appends the slot with the given index to the tail of the given
// state's list.
// NOTE: the slot must not be on any list before this method is applied.
func (p *Pool[K, V]) appendSlot(stateType stateIndex, slotIndex Index) {
	if p.states[stateType].size == 0 {
		p.states[stateType].head = slotIndex
		p.states[stateType].tail = slotIndex
		p.slots[slotIndex].node.prev = InvalidIndex
		p.slots[slotIndex].node.next = InvalidIndex
		p.states[stateType].size = 1
		return
	}

	p.connect(p.states[stateType].tail, slotIndex)
	p.states[stateType].tail = slotIndex
	p.slots[slotIndex].node.next = InvalidIndex
	p.states[stateType].size++
}

// changeState moves the slot with the given index from one state's list to
// the tail of the other's.
func (p *Pool[K, V]) changeState(stateFrom stateIndex, stateTo stateIndex, slotIndex Index) {
	p.removeSlot(stateFrom, slotIndex)
	p.appendSlot(stateTo, slotIndex)
}
