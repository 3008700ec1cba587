package system

// Higher-arity run functions. Each is the arity-1 zipper with more
// iterators: advance a target entity through every collection's LowerBound,
// restart the round whenever one collection skips ahead, and emit when all
// collections agree on the target. Every collection is advanced at most
// Len times, so a join costs O(sum of collection sizes).
//
// Callers should list collections in order of increasing expected
// cardinality so the smallest collection drives the merge and prunes
// earliest. This is advice, not a contract.

import (
	"github.com/zeusync/zecs/component"
	"github.com/zeusync/zecs/entity"
)

// System2 processes entities present in both of two collections.
type System2[E entity.ID, A, B any] interface {
	Process(e E, a component.Ref[E, A], b component.Ref[E, B])
}

// Proc2 adapts a plain function to System2.
type Proc2[E entity.ID, A, B any] func(e E, a component.Ref[E, A], b component.Ref[E, B])

func (f Proc2[E, A, B]) Process(e E, a component.Ref[E, A], b component.Ref[E, B]) { f(e, a, b) }

// System3 processes entities present in all of three collections.
type System3[E entity.ID, A, B, C any] interface {
	Process(e E, a component.Ref[E, A], b component.Ref[E, B], c component.Ref[E, C])
}

// Proc3 adapts a plain function to System3.
type Proc3[E entity.ID, A, B, C any] func(e E, a component.Ref[E, A], b component.Ref[E, B], c component.Ref[E, C])

func (f Proc3[E, A, B, C]) Process(e E, a component.Ref[E, A], b component.Ref[E, B], c component.Ref[E, C]) {
	f(e, a, b, c)
}

// Run2 joins two collections and invokes s.Process once per entity in their
// intersection, ascending. It returns one batch per collection in declared
// order.
func Run2[E entity.ID, A, B any](
	s System2[E, A, B],
	ca component.Collection[E, A],
	cb component.Collection[E, B],
) (*component.Batch[E, A], *component.Batch[E, B]) {
	ba := component.NewBatch(ca)
	bb := component.NewBatch(cb)
	joinShard2(s, ca, cb, ba, bb)
	return ba, bb
}

// RunSubset2 is Run2 restricted to the supplied entities; entities absent
// from either collection are skipped silently.
func RunSubset2[E entity.ID, A, B any](
	s System2[E, A, B],
	entities []E,
	ca component.Collection[E, A],
	cb component.Collection[E, B],
) (*component.Batch[E, A], *component.Batch[E, B]) {
	ba := component.NewBatch(ca)
	bb := component.NewBatch(cb)
	for _, e := range entities {
		ra, ok := ca.Get(e)
		if !ok {
			continue
		}
		rb, ok := cb.Get(e)
		if !ok {
			continue
		}
		s.Process(e, ra, rb)
		gather(ba, e, ra)
		gather(bb, e, rb)
	}
	return ba, bb
}

// Run3 joins three collections; see Run2.
func Run3[E entity.ID, A, B, C any](
	s System3[E, A, B, C],
	ca component.Collection[E, A],
	cb component.Collection[E, B],
	cc component.Collection[E, C],
) (*component.Batch[E, A], *component.Batch[E, B], *component.Batch[E, C]) {
	ba := component.NewBatch(ca)
	bb := component.NewBatch(cb)
	bc := component.NewBatch(cc)
	joinShard3(s, ca, cb, cc, ba, bb, bc)
	return ba, bb, bc
}

// RunSubset3 is Run3 restricted to the supplied entities.
func RunSubset3[E entity.ID, A, B, C any](
	s System3[E, A, B, C],
	entities []E,
	ca component.Collection[E, A],
	cb component.Collection[E, B],
	cc component.Collection[E, C],
) (*component.Batch[E, A], *component.Batch[E, B], *component.Batch[E, C]) {
	ba := component.NewBatch(ca)
	bb := component.NewBatch(cb)
	bc := component.NewBatch(cc)
	for _, e := range entities {
		ra, ok := ca.Get(e)
		if !ok {
			continue
		}
		rb, ok := cb.Get(e)
		if !ok {
			continue
		}
		rc, ok := cc.Get(e)
		if !ok {
			continue
		}
		s.Process(e, ra, rb, rc)
		gather(ba, e, ra)
		gather(bb, e, rb)
		gather(bc, e, rc)
	}
	return ba, bb, bc
}

func joinShard2[E entity.ID, A, B any](
	s System2[E, A, B],
	ca component.Collection[E, A],
	cb component.Collection[E, B],
	ba *component.Batch[E, A],
	bb *component.Batch[E, B],
) {
	max := entity.MaxValue[E]()
	var target E
	for {
		la, ok := ca.LowerBound(target)
		if !ok {
			return
		}
		if la > target {
			target = la
			continue
		}
		lb, ok := cb.LowerBound(target)
		if !ok {
			return
		}
		if lb > target {
			target = lb
			continue
		}
		ra, _ := ca.Get(target)
		rb, _ := cb.Get(target)
		s.Process(target, ra, rb)
		gather(ba, target, ra)
		gather(bb, target, rb)
		if target == max {
			return
		}
		target++
	}
}

func joinShard3[E entity.ID, A, B, C any](
	s System3[E, A, B, C],
	ca component.Collection[E, A],
	cb component.Collection[E, B],
	cc component.Collection[E, C],
	ba *component.Batch[E, A],
	bb *component.Batch[E, B],
	bc *component.Batch[E, C],
) {
	max := entity.MaxValue[E]()
	var target E
	for {
		la, ok := ca.LowerBound(target)
		if !ok {
			return
		}
		if la > target {
			target = la
			continue
		}
		lb, ok := cb.LowerBound(target)
		if !ok {
			return
		}
		if lb > target {
			target = lb
			continue
		}
		lc, ok := cc.LowerBound(target)
		if !ok {
			return
		}
		if lc > target {
			target = lc
			continue
		}
		ra, _ := ca.Get(target)
		rb, _ := cb.Get(target)
		rc, _ := cc.Get(target)
		s.Process(target, ra, rb, rc)
		gather(ba, target, ra)
		gather(bb, target, rb)
		gather(bc, target, rc)
		if target == max {
			return
		}
		target++
	}
}
