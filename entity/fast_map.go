package entity

import (
	"iter"
	"slices"
	"sort"
)

// FastMap keeps entities in a sorted slice and binary-searches it. Scans and
// lookups are the cheapest of any map variant; inserting anywhere but the
// tail shifts the suffix. Collections rebuild their maps in ascending order,
// which makes every Insert an append.
type FastMap[E ID] struct {
	entities []E
}

// NewFastMap returns an empty FastMap as the package Map interface, suitable
// for use as a Factory.
func NewFastMap[E ID]() Map[E] {
	return &FastMap[E]{}
}

// FastMapFrom builds a FastMap from entities that must already be sorted
// ascending and free of duplicates.
func FastMapFrom[E ID](sorted []E) *FastMap[E] {
	return &FastMap[E]{entities: slices.Clone(sorted)}
}

func (m *FastMap[E]) Len() int { return len(m.entities) }

func (m *FastMap[E]) Insert(e E) int {
	i := m.offsetOf(e)
	if i < len(m.entities) && m.entities[i] == e {
		return i
	}
	m.entities = slices.Insert(m.entities, i, e)
	return i
}

func (m *FastMap[E]) Remove(e E) bool {
	i := m.offsetOf(e)
	if i >= len(m.entities) || m.entities[i] != e {
		return false
	}
	m.entities = slices.Delete(m.entities, i, i+1)
	return true
}

func (m *FastMap[E]) Lookup(e E) (int, bool) {
	i := m.offsetOf(e)
	if i < len(m.entities) && m.entities[i] == e {
		return i, true
	}
	return 0, false
}

func (m *FastMap[E]) At(slot int) E { return m.entities[slot] }

func (m *FastMap[E]) LowerBound(e E) (E, bool) {
	i := m.offsetOf(e)
	if i < len(m.entities) {
		return m.entities[i], true
	}
	var zero E
	return zero, false
}

func (m *FastMap[E]) All() iter.Seq2[E, int] {
	return func(yield func(E, int) bool) {
		for i, e := range m.entities {
			if !yield(e, i) {
				return
			}
		}
	}
}

// offsetOf returns the position where e sits or would be inserted.
func (m *FastMap[E]) offsetOf(e E) int {
	return sort.Search(len(m.entities), func(i int) bool { return m.entities[i] >= e })
}
