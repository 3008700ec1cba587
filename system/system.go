// Package system executes user logic over the join of component
// collections. A system is application state with a Process method; the
// RunN family performs the sorted-merge join and hands Process one typed
// handle per collection for every entity present in all of them. Each run
// returns one change batch per collection, in declared order, which the
// caller applies back onto the collections between systems or at the tick
// boundary.
//
// The arity families (System1..System3, Run1..Run3, and their subset and
// parallel forms) are spelled out per arity; Go has no variadic type
// parameters. Three arities cover the joins this core targets and the
// pattern extends mechanically.
package system

import (
	"github.com/zeusync/zecs/component"
	"github.com/zeusync/zecs/entity"
)

// System1 processes entities of a single collection.
type System1[E entity.ID, A any] interface {
	Process(e E, a component.Ref[E, A])
}

// Proc1 adapts a plain function to System1.
type Proc1[E entity.ID, A any] func(e E, a component.Ref[E, A])

func (f Proc1[E, A]) Process(e E, a component.Ref[E, A]) { f(e, a) }

// Run1 invokes s.Process once per entity of ca in ascending order and
// returns the staged changes. Nothing moves in ca until the batch is
// applied, except in-place edits under the mutable strategy.
func Run1[E entity.ID, A any](s System1[E, A], ca component.Collection[E, A]) *component.Batch[E, A] {
	ba := component.NewBatch(ca)
	joinShard1(s, ca, ba)
	return ba
}

// RunSubset1 is Run1 restricted to the supplied entities. Entities absent
// from the collection are skipped silently; handler invocation follows the
// caller's order, and the returned batch is ascending regardless.
func RunSubset1[E entity.ID, A any](s System1[E, A], entities []E, ca component.Collection[E, A]) *component.Batch[E, A] {
	ba := component.NewBatch(ca)
	for _, e := range entities {
		ra, ok := ca.Get(e)
		if !ok {
			continue
		}
		s.Process(e, ra)
		gather(ba, e, ra)
	}
	return ba
}

func joinShard1[E entity.ID, A any](s System1[E, A], ca component.Collection[E, A], ba *component.Batch[E, A]) {
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
		ra, _ := ca.Get(target)
		s.Process(target, ra)
		gather(ba, target, ra)
		if target == max {
			return
		}
		target++
	}
}

// gather drains a consumed handle into the collection's batch: the handle's
// own change, then any deferred binds it staged.
func gather[E entity.ID, T any](b *component.Batch[E, T], e E, r component.Ref[E, T]) {
	if c := r.Change(); !c.None() {
		b.Put(e, c)
	}
	for _, rec := range r.Binds() {
		b.Put(rec.Entity, rec.Change)
	}
}
