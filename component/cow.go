package component

import (
	"iter"

	"github.com/zeusync/zecs/entity"
)

// Cow is the copy-on-write collection. Reads are shared views of the live
// storage; the first edit through a handle clones the value and stages a
// replace record, so nothing moves until Apply rebuilds the storage in
// sorted order. The component type is copied by assignment, so values with
// reference fields share those fields between the view and the staged copy.
type Cow[E entity.ID, T any] struct {
	entities entity.Map[E]
	values   []T
	factory  entity.Factory[E]
}

// NewCow returns an empty copy-on-write collection over the default
// (sorted-array) entity map.
func NewCow[E entity.ID, T any]() *Cow[E, T] {
	return NewCowMap[E, T](entity.NewFastMap[E])
}

// NewCowMap returns an empty copy-on-write collection over the entity map
// built by f.
func NewCowMap[E entity.ID, T any](f entity.Factory[E]) *Cow[E, T] {
	return &Cow[E, T]{entities: f(), factory: f}
}

// CowFromSeq builds a copy-on-write collection from (entity, value) pairs in
// any order; the last value wins on duplicate entities.
func CowFromSeq[E entity.ID, T any](pairs iter.Seq2[E, T]) *Cow[E, T] {
	c := NewCow[E, T]()
	c.reset(collectSorted(pairs))
	return c
}

// CowOf is CowFromSeq over a literal pair list.
func CowOf[E entity.ID, T any](pairs ...Pair[E, T]) *Cow[E, T] {
	return CowFromSeq(Pairs(pairs))
}

func (c *Cow[E, T]) Len() int    { return c.entities.Len() }
func (c *Cow[E, T]) Empty() bool { return c.entities.Len() == 0 }

func (c *Cow[E, T]) LowerBound(e E) (E, bool) { return c.entities.LowerBound(e) }

func (c *Cow[E, T]) Get(e E) (Ref[E, T], bool) {
	slot, ok := c.entities.Lookup(e)
	if !ok {
		return nil, false
	}
	return &cowRef[E, T]{cur: &c.values[slot]}, true
}

func (c *Cow[E, T]) Scan() iter.Seq2[E, T] {
	return func(yield func(E, T) bool) {
		for e, slot := range c.entities.All() {
			if !yield(e, c.values[slot]) {
				return
			}
		}
	}
}

func (c *Cow[E, T]) Consume() iter.Seq2[E, T] {
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

func (c *Cow[E, T]) Apply(b *Batch[E, T]) error {
	if !b.ownedBy(c) {
		return ErrMismatchedBatch
	}
	if b.Empty() {
		return nil
	}
	c.reset(mergeRecords(c.Consume(), b.Records()))
	return nil
}

func (c *Cow[E, T]) Rebuild(pairs iter.Seq2[E, T]) Collection[E, T] {
	n := NewCowMap[E, T](c.factory)
	n.reset(collectSorted(pairs))
	return n
}

// reset replaces the storage with sorted pairs.
func (c *Cow[E, T]) reset(pairs []Pair[E, T]) {
	c.entities = c.factory()
	c.values = make([]T, 0, len(pairs))
	for _, p := range pairs {
		c.entities.Insert(p.Entity)
		c.values = append(c.values, p.Value)
	}
}

// cowRef is the copy-on-write handle. The first mutation clones the value;
// Change reports an unbind, a replace of the clone, or nothing.
type cowRef[E entity.ID, T any] struct {
	cur     *T
	out     *T
	unbound bool
	binds   []Record[E, T]
}

func (r *cowRef[E, T]) Value() T {
	if r.out != nil {
		return *r.out
	}
	return *r.cur
}

func (r *cowRef[E, T]) Update(fn func(*T)) {
	if r.out == nil {
		v := *r.cur
		r.out = &v
	}
	fn(r.out)
}

func (r *cowRef[E, T]) Set(v T) { r.out = &v }

func (r *cowRef[E, T]) Unbind() { r.unbound = true }

func (r *cowRef[E, T]) Bind(e E, v T) {
	r.binds = append(r.binds, Record[E, T]{Entity: e, Change: Bind[T](v)})
}

func (r *cowRef[E, T]) Change() Change[T] {
	switch {
	case r.unbound:
		return Unbind[T]()
	case r.out != nil:
		return Replace(*r.out)
	}
	return Change[T]{}
}

func (r *cowRef[E, T]) Binds() []Record[E, T] {
	binds := r.binds
	r.binds = nil
	return binds
}
