package partition

import (
	"iter"

	"github.com/zeusync/zecs/component"
	"github.com/zeusync/zecs/entity"
	"github.com/zeusync/zecs/pkg/concurrent"
	"github.com/zeusync/zecs/pkg/sequence"
)

// Partitioned holds one inner collection per shard of a scheme. It is
// deliberately not a component.Collection: the sequential runners take plain
// collections and the parallel runner takes Partitioned ones, so handing a
// partitioned collection to RunSubset is a compile error rather than a
// runtime surprise.
//
// Within a shard all collection invariants hold; across shards only the
// range scheme preserves entity order.
type Partitioned[E entity.ID, T any] struct {
	scheme Scheme[E]
	shards []component.Collection[E, T]
}

// Split consumes c and redistributes its contents into one shard per
// partition of s. The inner shards use c's storage strategy.
func Split[E entity.ID, T any](c component.Collection[E, T], s Scheme[E]) *Partitioned[E, T] {
	buckets := make([][]component.Pair[E, T], s.ShardCount())
	for e, v := range c.Consume() {
		p := s.PartitionOf(e)
		buckets[p] = append(buckets[p], component.Pair[E, T]{Entity: e, Value: v})
	}
	shards := make([]component.Collection[E, T], len(buckets))
	for i, bucket := range buckets {
		shards[i] = c.Rebuild(component.Pairs(bucket))
	}
	return &Partitioned[E, T]{scheme: s, shards: shards}
}

// From assembles a Partitioned out of pre-built shards, one per partition
// of s. Every entity in shard i must map to i under s; Split maintains that
// invariant mechanically and is the usual way in.
func From[E entity.ID, T any](s Scheme[E], shards []component.Collection[E, T]) *Partitioned[E, T] {
	if len(shards) != s.ShardCount() {
		panic("partition: shard count does not match the scheme")
	}
	return &Partitioned[E, T]{scheme: s, shards: shards}
}

// Scheme returns the partitioning scheme. The parallel runner compares
// scheme identity across collections with ==.
func (p *Partitioned[E, T]) Scheme() Scheme[E] { return p.scheme }

// ShardCount returns the number of shards.
func (p *Partitioned[E, T]) ShardCount() int { return len(p.shards) }

// Shard returns shard i.
func (p *Partitioned[E, T]) Shard(i int) component.Collection[E, T] { return p.shards[i] }

// Len reports the number of bound entities across all shards.
func (p *Partitioned[E, T]) Len() int {
	n := 0
	for _, s := range p.shards {
		n += s.Len()
	}
	return n
}

// Empty reports whether every shard is empty.
func (p *Partitioned[E, T]) Empty() bool {
	for _, s := range p.shards {
		if !s.Empty() {
			return false
		}
	}
	return true
}

// Get routes through the scheme to the owning shard.
func (p *Partitioned[E, T]) Get(e E) (component.Ref[E, T], bool) {
	return p.shards[p.scheme.PartitionOf(e)].Get(e)
}

// LowerBound returns the smallest bound entity >= e across all shards.
func (p *Partitioned[E, T]) LowerBound(e E) (E, bool) {
	var best E
	found := false
	for _, s := range p.shards {
		if lb, ok := s.LowerBound(e); ok && (!found || lb < best) {
			best, found = lb, true
		}
	}
	return best, found
}

// Consume drains the shards in index order. Entities ascend within each
// shard; across shards the order follows the scheme.
func (p *Partitioned[E, T]) Consume() iter.Seq2[E, T] {
	shards := p.shards
	rebuilt := make([]component.Collection[E, T], len(shards))
	for i, s := range shards {
		rebuilt[i] = s.Rebuild(component.Pairs[E, T](nil))
	}
	p.shards = rebuilt
	return func(yield func(E, T) bool) {
		for _, s := range shards {
			for e, v := range s.Consume() {
				if !yield(e, v) {
					return
				}
			}
		}
	}
}

// Join drains the shards back into a single collection of the inner
// strategy.
func (p *Partitioned[E, T]) Join() component.Collection[E, T] {
	proto := p.shards[0]
	return proto.Rebuild(p.Consume())
}

// Apply folds per-shard batches produced by a parallel run back into the
// shards, one after another. Batches produced against a different
// Partitioned fail with component.ErrMismatchedBatch.
func (p *Partitioned[E, T]) Apply(sb *ShardBatches[E, T]) error {
	if !sb.ownedBy(p) {
		return component.ErrMismatchedBatch
	}
	for i, s := range p.shards {
		if err := s.Apply(sb.shards[i]); err != nil {
			return err
		}
	}
	return nil
}

// ApplyConcurrent is Apply with one goroutine per shard. Shards hold
// disjoint entities, so the per-shard applies never contend.
func (p *Partitioned[E, T]) ApplyConcurrent(sb *ShardBatches[E, T]) error {
	if !sb.ownedBy(p) {
		return component.ErrMismatchedBatch
	}
	return concurrent.Each(sequence.Range(len(p.shards)), func(i int) error {
		return p.shards[i].Apply(sb.shards[i])
	})
}

// ShardBatches carries one change batch per shard of a Partitioned, the
// per-collection result of a parallel run.
type ShardBatches[E entity.ID, T any] struct {
	owner  *Partitioned[E, T]
	shards []*component.Batch[E, T]
}

// NewShardBatches creates empty batches, one owned by each shard of p.
func NewShardBatches[E entity.ID, T any](p *Partitioned[E, T]) *ShardBatches[E, T] {
	shards := make([]*component.Batch[E, T], p.ShardCount())
	for i := range shards {
		shards[i] = component.NewBatch(p.shards[i])
	}
	return &ShardBatches[E, T]{owner: p, shards: shards}
}

// Shard returns the batch for shard i.
func (sb *ShardBatches[E, T]) Shard(i int) *component.Batch[E, T] { return sb.shards[i] }

// Len reports the total number of staged records across shards.
func (sb *ShardBatches[E, T]) Len() int {
	n := 0
	for _, b := range sb.shards {
		n += b.Len()
	}
	return n
}

// Empty reports whether no shard stages anything.
func (sb *ShardBatches[E, T]) Empty() bool { return sb.Len() == 0 }

func (sb *ShardBatches[E, T]) ownedBy(p *Partitioned[E, T]) bool { return sb.owner == p }
