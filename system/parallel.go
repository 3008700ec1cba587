package system

import (
	"sync"

	"github.com/zeusync/zecs/entity"
	"github.com/zeusync/zecs/partition"
	"github.com/zeusync/zecs/workpool"
)

// Parallel runs dispatch one sub-join per shard onto a worker pool and
// return a waiter. The waiter blocks until every shard finishes and returns
// one ShardBatches per collection, in declared order.
//
// Every collection in one parallel run must be partitioned under the same
// scheme value; mixing schemes is a programming error and panics. The
// system value is shared across workers and must be safe for concurrent
// use; a handler that only touches its own handles is. Deferred binds
// staged during a parallel run must target entities the scheme routes to
// the handler's own shard, or a later apply will file them in the wrong
// shard.
//
// If a handler panics, its shard stops, the remaining shards run to
// completion, and the waiter re-panics with the lowest-index shard's
// failure. Batches from the surviving shards are discarded.

// Waiter1 blocks for a parallel Run over one collection.
type Waiter1[E entity.ID, A any] func() *partition.ShardBatches[E, A]

// Waiter2 blocks for a parallel Run over two collections.
type Waiter2[E entity.ID, A, B any] func() (*partition.ShardBatches[E, A], *partition.ShardBatches[E, B])

// Waiter3 blocks for a parallel Run over three collections.
type Waiter3[E entity.ID, A, B, C any] func() (*partition.ShardBatches[E, A], *partition.ShardBatches[E, B], *partition.ShardBatches[E, C])

// RunParallel1 dispatches one sub-join of ca per shard onto pool.
func RunParallel1[E entity.ID, A any](
	pool *workpool.Pool,
	s System1[E, A],
	ca *partition.Partitioned[E, A],
) Waiter1[E, A] {
	sba := partition.NewShardBatches(ca)
	d := newDispatch(ca.ShardCount())
	for i := 0; i < ca.ShardCount(); i++ {
		d.submit(pool, i, func() {
			joinShard1(s, ca.Shard(i), sba.Shard(i))
		})
	}
	return func() *partition.ShardBatches[E, A] {
		d.wait()
		return sba
	}
}

// RunParallel2 dispatches one sub-join per shard of two collections
// partitioned under the same scheme.
func RunParallel2[E entity.ID, A, B any](
	pool *workpool.Pool,
	s System2[E, A, B],
	ca *partition.Partitioned[E, A],
	cb *partition.Partitioned[E, B],
) Waiter2[E, A, B] {
	mustShareScheme(ca.Scheme(), cb.Scheme())
	sba := partition.NewShardBatches(ca)
	sbb := partition.NewShardBatches(cb)
	d := newDispatch(ca.ShardCount())
	for i := 0; i < ca.ShardCount(); i++ {
		d.submit(pool, i, func() {
			joinShard2(s, ca.Shard(i), cb.Shard(i), sba.Shard(i), sbb.Shard(i))
		})
	}
	return func() (*partition.ShardBatches[E, A], *partition.ShardBatches[E, B]) {
		d.wait()
		return sba, sbb
	}
}

// RunParallel3 dispatches one sub-join per shard of three collections
// partitioned under the same scheme.
func RunParallel3[E entity.ID, A, B, C any](
	pool *workpool.Pool,
	s System3[E, A, B, C],
	ca *partition.Partitioned[E, A],
	cb *partition.Partitioned[E, B],
	cc *partition.Partitioned[E, C],
) Waiter3[E, A, B, C] {
	mustShareScheme(ca.Scheme(), cb.Scheme())
	mustShareScheme(ca.Scheme(), cc.Scheme())
	sba := partition.NewShardBatches(ca)
	sbb := partition.NewShardBatches(cb)
	sbc := partition.NewShardBatches(cc)
	d := newDispatch(ca.ShardCount())
	for i := 0; i < ca.ShardCount(); i++ {
		d.submit(pool, i, func() {
			joinShard3(s, ca.Shard(i), cb.Shard(i), cc.Shard(i), sba.Shard(i), sbb.Shard(i), sbc.Shard(i))
		})
	}
	return func() (*partition.ShardBatches[E, A], *partition.ShardBatches[E, B], *partition.ShardBatches[E, C]) {
		d.wait()
		return sba, sbb, sbc
	}
}

func mustShareScheme[E entity.ID](a, b partition.Scheme[E]) {
	if a != b {
		panic("system: parallel run over collections with different partitioning schemes")
	}
}

// dispatch tracks one parallel run: a completion latch plus one failure
// slot per shard.
type dispatch struct {
	wg       sync.WaitGroup
	failures []any
}

func newDispatch(shards int) *dispatch {
	return &dispatch{failures: make([]any, shards)}
}

func (d *dispatch) submit(pool *workpool.Pool, shard int, job func()) {
	d.wg.Add(1)
	err := pool.Submit(func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.failures[shard] = r
			}
		}()
		job()
	})
	if err != nil {
		d.failures[shard] = err
		d.wg.Done()
	}
}

// wait blocks for all shards, then surfaces the first failure by shard
// index.
func (d *dispatch) wait() {
	d.wg.Wait()
	for _, f := range d.failures {
		if f != nil {
			panic(f)
		}
	}
}
