package component

import (
	"iter"

	"github.com/google/btree"

	"github.com/zeusync/zecs/entity"
)

// insertDegree is the btree fanout for the sparse index.
const insertDegree = 16

type indexEntry[E entity.ID] struct {
	entity E
	slot   int
}

// InsertOptimized trades scan speed for cheap ad-hoc binds: a btree index
// over a slotted value store with a free list. Insert between ticks is
// O(log n) with no rebuild; scanning walks the tree, which costs more per
// element than the array-backed strategies. Handle semantics match Mutable:
// edits are in place, unbinds and new binds are deferred to Apply.
type InsertOptimized[E entity.ID, T any] struct {
	index *btree.BTreeG[indexEntry[E]]
	comps []T
	free  []int
}

// NewInsertOptimized returns an empty insert-optimized collection.
func NewInsertOptimized[E entity.ID, T any]() *InsertOptimized[E, T] {
	return &InsertOptimized[E, T]{index: newInsertIndex[E]()}
}

// InsertOptimizedFromSeq builds an insert-optimized collection from
// (entity, value) pairs in any order; the last value wins on duplicates.
func InsertOptimizedFromSeq[E entity.ID, T any](pairs iter.Seq2[E, T]) *InsertOptimized[E, T] {
	c := NewInsertOptimized[E, T]()
	for e, v := range pairs {
		c.Insert(e, v)
	}
	return c
}

// InsertOptimizedOf is InsertOptimizedFromSeq over a literal pair list.
func InsertOptimizedOf[E entity.ID, T any](pairs ...Pair[E, T]) *InsertOptimized[E, T] {
	return InsertOptimizedFromSeq(Pairs(pairs))
}

func newInsertIndex[E entity.ID]() *btree.BTreeG[indexEntry[E]] {
	return btree.NewG(insertDegree, func(a, b indexEntry[E]) bool { return a.entity < b.entity })
}

// Insert binds v to e immediately, outside any run. It returns the value
// previously bound, if e was present.
func (c *InsertOptimized[E, T]) Insert(e E, v T) (T, bool) {
	if prev, ok := c.index.Get(indexEntry[E]{entity: e}); ok {
		old := c.comps[prev.slot]
		c.comps[prev.slot] = v
		return old, true
	}
	var slot int
	if n := len(c.free); n > 0 {
		slot = c.free[n-1]
		c.free = c.free[:n-1]
		c.comps[slot] = v
	} else {
		slot = len(c.comps)
		c.comps = append(c.comps, v)
	}
	c.index.ReplaceOrInsert(indexEntry[E]{entity: e, slot: slot})
	var zero T
	return zero, false
}

// Delete unbinds e immediately, outside any run. It returns the value that
// was bound, if e was present.
func (c *InsertOptimized[E, T]) Delete(e E) (T, bool) {
	ent, ok := c.index.Delete(indexEntry[E]{entity: e})
	if !ok {
		var zero T
		return zero, false
	}
	v := c.comps[ent.slot]
	var zero T
	c.comps[ent.slot] = zero
	c.free = append(c.free, ent.slot)
	return v, true
}

func (c *InsertOptimized[E, T]) Len() int    { return c.index.Len() }
func (c *InsertOptimized[E, T]) Empty() bool { return c.index.Len() == 0 }

func (c *InsertOptimized[E, T]) LowerBound(e E) (E, bool) {
	var found E
	ok := false
	c.index.AscendGreaterOrEqual(indexEntry[E]{entity: e}, func(ent indexEntry[E]) bool {
		found, ok = ent.entity, true
		return false
	})
	return found, ok
}

func (c *InsertOptimized[E, T]) Get(e E) (Ref[E, T], bool) {
	ent, ok := c.index.Get(indexEntry[E]{entity: e})
	if !ok {
		return nil, false
	}
	return &insertRef[E, T]{ptr: &c.comps[ent.slot]}, true
}

func (c *InsertOptimized[E, T]) Scan() iter.Seq2[E, T] {
	return func(yield func(E, T) bool) {
		c.index.Ascend(func(ent indexEntry[E]) bool {
			return yield(ent.entity, c.comps[ent.slot])
		})
	}
}

func (c *InsertOptimized[E, T]) Consume() iter.Seq2[E, T] {
	index, comps := c.index, c.comps
	c.index, c.comps, c.free = newInsertIndex[E](), nil, nil
	return func(yield func(E, T) bool) {
		index.Ascend(func(ent indexEntry[E]) bool {
			return yield(ent.entity, comps[ent.slot])
		})
	}
}

// Apply performs point operations against the sparse index rather than the
// merge rebuild the array-backed strategies use.
func (c *InsertOptimized[E, T]) Apply(b *Batch[E, T]) error {
	if !b.ownedBy(c) {
		return ErrMismatchedBatch
	}
	for _, r := range b.Records() {
		switch r.Change.Op() {
		case OpUnbind:
			c.Delete(r.Entity)
		case OpBind, OpReplace:
			c.Insert(r.Entity, r.Change.Value())
		}
	}
	return nil
}

func (c *InsertOptimized[E, T]) Rebuild(pairs iter.Seq2[E, T]) Collection[E, T] {
	return InsertOptimizedFromSeq(pairs)
}

// insertRef mirrors mutRef: in-place edits, deferred unbind and binds.
type insertRef[E entity.ID, T any] struct {
	ptr     *T
	unbound bool
	binds   []Record[E, T]
}

func (r *insertRef[E, T]) Value() T { return *r.ptr }

func (r *insertRef[E, T]) Update(fn func(*T)) { fn(r.ptr) }

func (r *insertRef[E, T]) Set(v T) { *r.ptr = v }

func (r *insertRef[E, T]) Unbind() { r.unbound = true }

func (r *insertRef[E, T]) Bind(e E, v T) {
	r.binds = append(r.binds, Record[E, T]{Entity: e, Change: Bind[T](v)})
}

func (r *insertRef[E, T]) Change() Change[T] {
	if r.unbound {
		return Unbind[T]()
	}
	return Change[T]{}
}

func (r *insertRef[E, T]) Binds() []Record[E, T] {
	binds := r.binds
	r.binds = nil
	return binds
}
