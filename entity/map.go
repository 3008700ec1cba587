package entity

import "iter"

// Map is a sorted index from entities to dense slots in [0, Len()). Component
// collections keep their values in a vector addressed by slot and answer "is
// e present, and where?" through a Map.
//
// Implementations must keep All ascending by entity and slots dense. They are
// not safe for concurrent mutation.
type Map[E ID] interface {
	// Len reports the number of entities in the map.
	Len() int
	// Insert adds e and returns its slot. Inserting a present entity is a
	// no-op that returns the existing slot.
	Insert(e E) int
	// Remove deletes e, reporting whether it was present. Slots of other
	// entities may be reassigned; callers that mirror values must consult
	// Lookup afterwards.
	Remove(e E) bool
	// Lookup returns the slot of e, if present.
	Lookup(e E) (int, bool)
	// At returns the entity stored at slot. Panics if slot is out of range.
	At(slot int) E
	// LowerBound returns the first entity >= e, if any.
	LowerBound(e E) (E, bool)
	// All iterates (entity, slot) pairs in ascending entity order.
	All() iter.Seq2[E, int]
}

// Factory builds an empty Map. Collections are parametric over the map
// implementation through this hook; NewFastMap is the default everywhere.
type Factory[E ID] func() Map[E]
