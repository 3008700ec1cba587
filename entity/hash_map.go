package entity

import (
	"iter"
	"slices"
	"sort"
)

// HashMap indexes entities through a Go map with a dense backing slice.
// Insert, Remove and Lookup are O(1); removal swap-fills the vacated slot
// with the last entity. Sorted operations (All, LowerBound) rebuild a cached
// key ordering when the map has changed since the last scan.
type HashMap[E ID] struct {
	slots  map[E]int
	dense  []E
	sorted []E
	stale  bool
}

// NewHashMap returns an empty HashMap as the package Map interface, suitable
// for use as a Factory.
func NewHashMap[E ID]() Map[E] {
	return &HashMap[E]{slots: make(map[E]int)}
}

func (m *HashMap[E]) Len() int { return len(m.dense) }

func (m *HashMap[E]) Insert(e E) int {
	if slot, ok := m.slots[e]; ok {
		return slot
	}
	slot := len(m.dense)
	m.dense = append(m.dense, e)
	m.slots[e] = slot
	m.stale = true
	return slot
}

func (m *HashMap[E]) Remove(e E) bool {
	slot, ok := m.slots[e]
	if !ok {
		return false
	}
	last := len(m.dense) - 1
	moved := m.dense[last]
	m.dense[slot] = moved
	m.slots[moved] = slot
	m.dense = m.dense[:last]
	delete(m.slots, e)
	m.stale = true
	return true
}

func (m *HashMap[E]) Lookup(e E) (int, bool) {
	slot, ok := m.slots[e]
	return slot, ok
}

func (m *HashMap[E]) At(slot int) E { return m.dense[slot] }

func (m *HashMap[E]) LowerBound(e E) (E, bool) {
	keys := m.sortedKeys()
	i := sort.Search(len(keys), func(i int) bool { return keys[i] >= e })
	if i < len(keys) {
		return keys[i], true
	}
	var zero E
	return zero, false
}

func (m *HashMap[E]) All() iter.Seq2[E, int] {
	return func(yield func(E, int) bool) {
		for _, e := range m.sortedKeys() {
			if !yield(e, m.slots[e]) {
				return
			}
		}
	}
}

func (m *HashMap[E]) sortedKeys() []E {
	if m.stale || m.sorted == nil {
		m.sorted = slices.Clone(m.dense)
		slices.Sort(m.sorted)
		m.stale = false
	}
	return m.sorted
}
