package component

import (
	"slices"

	"github.com/zeusync/zecs/entity"
)

// Op tags a change record.
type Op uint8

const (
	opNone Op = iota
	// OpBind attaches a value to an entity not previously present.
	OpBind
	// OpReplace swaps the value bound to a present entity.
	OpReplace
	// OpUnbind detaches the entity's value and frees it.
	OpUnbind
)

// Change is one pending edit to a single entity's component. The zero value
// means "no change" and is what an untouched handle produces.
type Change[T any] struct {
	op    Op
	value T
}

// Bind builds a change that binds v to a new entity.
func Bind[T any](v T) Change[T] { return Change[T]{op: OpBind, value: v} }

// Replace builds a change that replaces a present entity's value with v.
func Replace[T any](v T) Change[T] { return Change[T]{op: OpReplace, value: v} }

// Unbind builds a change that detaches the entity.
func Unbind[T any]() Change[T] { return Change[T]{op: OpUnbind} }

// Op reports the change kind.
func (c Change[T]) Op() Op { return c.op }

// Value returns the payload carried by bind and replace changes.
func (c Change[T]) Value() T { return c.value }

// None reports whether the change is the no-change sentinel.
func (c Change[T]) None() bool { return c.op == opNone }

// Record pairs a change with the entity it targets.
type Record[E entity.ID, T any] struct {
	Entity E
	Change Change[T]
}

// Batch is the owned set of pending edits produced by running a system over
// one collection. It is branded with the collection that produced it; Apply
// on any other collection fails with ErrMismatchedBatch. A batch holds at
// most one record per entity, last write wins.
type Batch[E entity.ID, T any] struct {
	owner  Collection[E, T]
	recs   []Record[E, T]
	index  map[E]int
	sorted bool
}

// NewBatch creates an empty batch owned by c. Systems create these for each
// collection they run over; applications may also assemble batches by hand
// to stage edits between ticks.
func NewBatch[E entity.ID, T any](c Collection[E, T]) *Batch[E, T] {
	return &Batch[E, T]{owner: c, index: make(map[E]int)}
}

// Put stages a change for e, overwriting any change already staged for it.
// No-change values are dropped.
func (b *Batch[E, T]) Put(e E, c Change[T]) {
	if c.None() {
		return
	}
	if i, ok := b.index[e]; ok {
		b.recs[i].Change = c
		return
	}
	b.index[e] = len(b.recs)
	b.recs = append(b.recs, Record[E, T]{Entity: e, Change: c})
	b.sorted = false
}

// Len reports the number of staged records.
func (b *Batch[E, T]) Len() int { return len(b.recs) }

// Empty reports whether the batch stages nothing.
func (b *Batch[E, T]) Empty() bool { return len(b.recs) == 0 }

// Records returns the staged records in ascending entity order. The returned
// slice aliases the batch; callers must not modify it.
func (b *Batch[E, T]) Records() []Record[E, T] {
	if !b.sorted {
		slices.SortFunc(b.recs, func(a, c Record[E, T]) int {
			switch {
			case a.Entity < c.Entity:
				return -1
			case a.Entity > c.Entity:
				return 1
			}
			return 0
		})
		for i, r := range b.recs {
			b.index[r.Entity] = i
		}
		b.sorted = true
	}
	return b.recs
}

// ownedBy reports whether c produced this batch.
func (b *Batch[E, T]) ownedBy(c Collection[E, T]) bool {
	return b.owner == c
}
