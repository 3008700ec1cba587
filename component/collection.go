// Package component implements the storage side of the runtime: sorted
// mappings from entity to component value under three write strategies
// (copy-on-write, mutable in place, insert-optimized), the typed handles
// systems receive, and the change batches a run produces.
package component

import (
	"iter"
	"slices"

	"github.com/zeusync/zecs/entity"
)

// Collection is the contract shared by every storage strategy. Entities are
// enumerable in ascending order; each entity holds at most one value.
//
// A collection is borrowed by at most one running system at a time. None of
// the methods are safe for concurrent use on the same collection; the
// parallel runner gets its concurrency from disjoint shards, not from locks.
type Collection[E entity.ID, T any] interface {
	// Len reports the number of bound entities.
	Len() int
	// Empty reports whether no entities are bound.
	Empty() bool
	// LowerBound returns the first bound entity >= e, if any.
	LowerBound(e E) (E, bool)
	// Get returns the strategy's write handle for e, if bound. The handle is
	// valid for a single handler invocation; see Ref.
	Get(e E) (Ref[E, T], bool)
	// Scan iterates (entity, value) in ascending order. The values are
	// read-only copies; use Get for write access.
	Scan() iter.Seq2[E, T]
	// Consume drains the collection, yielding its contents in ascending
	// order and leaving it empty.
	Consume() iter.Seq2[E, T]
	// Apply folds a batch produced by a run over this collection back into
	// storage. Applying a batch produced elsewhere fails with
	// ErrMismatchedBatch. Applying an empty batch is a no-op.
	Apply(b *Batch[E, T]) error
	// Rebuild returns a new, empty-history collection of the same strategy
	// holding the given pairs. Pairs need not be sorted; on duplicate
	// entities the last value wins.
	Rebuild(pairs iter.Seq2[E, T]) Collection[E, T]
}

// Ref is the typed per-entity handle a system handler receives. It is scoped
// to exactly one handler invocation: the runner consumes Change and Binds as
// soon as the handler returns, and a handle must not escape.
//
// The mutation semantics differ by strategy; see the collection types.
type Ref[E entity.ID, T any] interface {
	// Value reads the current component value, including any staged edit.
	Value() T
	// Update edits the value through fn. Copy-on-write handles clone on the
	// first edit and stage a replace; mutable handles write through to live
	// storage immediately.
	Update(fn func(*T))
	// Set overwrites the value. Equivalent to Update with an assignment.
	Set(v T)
	// Unbind detaches this handle's entity. Always deferred to Apply.
	// Calling it twice in one invocation is a no-op.
	Unbind()
	// Bind stages a deferred bind of v to another entity of the same
	// collection. The bind appears in the run's batch and takes effect on
	// Apply.
	Bind(e E, v T)
	// Change consumes the handle and reports the staged edit for its own
	// entity, if any.
	Change() Change[T]
	// Binds consumes the deferred binds staged through Bind.
	Binds() []Record[E, T]
}

// Pair is one (entity, value) element used to seed collections.
type Pair[E entity.ID, T any] struct {
	Entity E
	Value  T
}

// Pairs adapts a slice of pairs to the iterator form the constructors take.
func Pairs[E entity.ID, T any](pairs []Pair[E, T]) iter.Seq2[E, T] {
	return func(yield func(E, T) bool) {
		for _, p := range pairs {
			if !yield(p.Entity, p.Value) {
				return
			}
		}
	}
}

// collectSorted materializes pairs in ascending entity order, last value
// winning on duplicates.
func collectSorted[E entity.ID, T any](pairs iter.Seq2[E, T]) []Pair[E, T] {
	var out []Pair[E, T]
	for e, v := range pairs {
		out = append(out, Pair[E, T]{Entity: e, Value: v})
	}
	slices.SortStableFunc(out, func(a, b Pair[E, T]) int {
		switch {
		case a.Entity < b.Entity:
			return -1
		case a.Entity > b.Entity:
			return 1
		}
		return 0
	})
	dedup := out[:0]
	for i, p := range out {
		if i+1 < len(out) && out[i+1].Entity == p.Entity {
			continue
		}
		dedup = append(dedup, p)
	}
	return dedup
}

// mergeRecords folds sorted records into a sorted pair stream, producing the
// collection contents after apply: unbinds drop, values insert or replace,
// untouched pairs pass through. Both inputs must be ascending by entity.
func mergeRecords[E entity.ID, T any](items iter.Seq2[E, T], recs []Record[E, T]) []Pair[E, T] {
	var out []Pair[E, T]
	next, stop := iter.Pull2(items)
	defer stop()
	e, v, ok := next()
	ri := 0
	for ok && ri < len(recs) {
		r := recs[ri]
		switch {
		case e == r.Entity:
			switch r.Change.Op() {
			case OpUnbind:
			case OpBind, OpReplace:
				out = append(out, Pair[E, T]{Entity: e, Value: r.Change.Value()})
			}
			e, v, ok = next()
			ri++
		case e < r.Entity:
			out = append(out, Pair[E, T]{Entity: e, Value: v})
			e, v, ok = next()
		default:
			if op := r.Change.Op(); op == OpBind || op == OpReplace {
				out = append(out, Pair[E, T]{Entity: r.Entity, Value: r.Change.Value()})
			}
			ri++
		}
	}
	for ok {
		out = append(out, Pair[E, T]{Entity: e, Value: v})
		e, v, ok = next()
	}
	for ; ri < len(recs); ri++ {
		r := recs[ri]
		if op := r.Change.Op(); op == OpBind || op == OpReplace {
			out = append(out, Pair[E, T]{Entity: r.Entity, Value: r.Change.Value()})
		}
	}
	return out
}
