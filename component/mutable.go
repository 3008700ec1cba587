package component

import (
	"iter"

	"github.com/zeusync/zecs/entity"
)

// Mutable is the in-place collection. Handles edit the live storage
// directly, which suits systems that touch most entities every run. Binds of
// new entities would disturb the sort mid-scan, so they are deferred into
// the batch; unbinds are likewise deferred. An entity that is edited in
// place and then unbound in the same invocation is gone after Apply.
type Mutable[E entity.ID, T any] struct {
	entities entity.Map[E]
	values   []T
	factory  entity.Factory[E]
}

// NewMutable returns an empty mutable collection over the default
// (sorted-array) entity map.
func NewMutable[E entity.ID, T any]() *Mutable[E, T] {
	return NewMutableMap[E, T](entity.NewFastMap[E])
}

// NewMutableMap returns an empty mutable collection over the entity map
// built by f.
func NewMutableMap[E entity.ID, T any](f entity.Factory[E]) *Mutable[E, T] {
	return &Mutable[E, T]{entities: f(), factory: f}
}

// MutableFromSeq builds a mutable collection from (entity, value) pairs in
// any order; the last value wins on duplicate entities.
func MutableFromSeq[E entity.ID, T any](pairs iter.Seq2[E, T]) *Mutable[E, T] {
	c := NewMutable[E, T]()
	c.reset(collectSorted(pairs))
	return c
}

// MutableOf is MutableFromSeq over a literal pair list.
func MutableOf[E entity.ID, T any](pairs ...Pair[E, T]) *Mutable[E, T] {
	return MutableFromSeq(Pairs(pairs))
}

func (c *Mutable[E, T]) Len() int    { return c.entities.Len() }
func (c *Mutable[E, T]) Empty() bool { return c.entities.Len() == 0 }

func (c *Mutable[E, T]) LowerBound(e E) (E, bool) { return c.entities.LowerBound(e) }

func (c *Mutable[E, T]) Get(e E) (Ref[E, T], bool) {
	slot, ok := c.entities.Lookup(e)
	if !ok {
		return nil, false
	}
	return &mutRef[E, T]{ptr: &c.values[slot]}, true
}

func (c *Mutable[E, T]) Scan() iter.Seq2[E, T] {
	return func(yield func(E, T) bool) {
		for e, slot := range c.entities.All() {
			if !yield(e, c.values[slot]) {
				return
			}
		}
	}
}

func (c *Mutable[E, T]) Consume() iter.Seq2[E, T] {
	entities, values := c.entities, c.values
	c.entities, c.values = c.factory(), nil
	return func(yield func(E, T) bool) {
		for e, slot := range entities.All() {
			if !yield(e, values[slot]) {
				return
			}
		}
	}
}

func (c *Mutable[E, T]) Apply(b *Batch[E, T]) error {
	if !b.ownedBy(c) {
		return ErrMismatchedBatch
	}
	if b.Empty() {
		return nil
	}
	// In-place edits are already live; the merge folds in deferred binds and
	// recorded unbinds.
	c.reset(mergeRecords(c.Consume(), b.Records()))
	return nil
}

func (c *Mutable[E, T]) Rebuild(pairs iter.Seq2[E, T]) Collection[E, T] {
	n := NewMutableMap[E, T](c.factory)
	n.reset(collectSorted(pairs))
	return n
}

func (c *Mutable[E, T]) reset(pairs []Pair[E, T]) {
	c.entities = c.factory()
	c.values = make([]T, 0, len(pairs))
	for _, p := range pairs {
		c.entities.Insert(p.Entity)
		c.values = append(c.values, p.Value)
	}
}

// mutRef writes through to live storage; only unbinds and deferred binds
// reach the batch.
type mutRef[E entity.ID, T any] struct {
	ptr     *T
	unbound bool
	binds   []Record[E, T]
}

func (r *mutRef[E, T]) Value() T { return *r.ptr }

func (r *mutRef[E, T]) Update(fn func(*T)) { fn(r.ptr) }

func (r *mutRef[E, T]) Set(v T) { *r.ptr = v }

func (r *mutRef[E, T]) Unbind() { r.unbound = true }

func (r *mutRef[E, T]) Bind(e E, v T) {
	r.binds = append(r.binds, Record[E, T]{Entity: e, Change: Bind[T](v)})
}

func (r *mutRef[E, T]) Change() Change[T] {
	if r.unbound {
		return Unbind[T]()
	}
	return Change[T]{}
}

func (r *mutRef[E, T]) Binds() []Record[E, T] {
	binds := r.binds
	r.binds = nil
	return binds
}
