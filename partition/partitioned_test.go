package partition

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/zecs/component"
)

func seedPairs(n int, rng *rand.Rand) []component.Pair[eid, int] {
	present := map[eid]bool{}
	var pairs []component.Pair[eid, int]
	for len(pairs) < n {
		e := eid(rng.Intn(10*n)) + 1
		if present[e] {
			continue
		}
		present[e] = true
		pairs = append(pairs, component.Pair[eid, int]{Entity: e, Value: int(e) * 3})
	}
	return pairs
}

func TestSplit_ShardsPartitionTheEntities(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	pairs := seedPairs(500, rng)

	for name, scheme := range map[string]Scheme[eid]{
		"Nop":   NewNopScheme[eid](),
		"Hash":  NewHashScheme[eid](4),
		"Range": NewRangeScheme[eid](1000, 2000, 3000),
	} {
		t.Run(name, func(t *testing.T) {
			c := component.MutableFromSeq(component.Pairs(pairs))
			p := Split[eid, int](c, scheme)
			require.Equal(t, scheme.ShardCount(), p.ShardCount())
			require.Equal(t, len(pairs), p.Len())

			// Union over shards equals the original entity set, no overlap,
			// every entity on the shard its scheme assigns, ascending within
			// each shard.
			seen := map[eid]int{}
			for i := 0; i < p.ShardCount(); i++ {
				prev, first := eid(0), true
				for e, v := range p.Shard(i).Scan() {
					if !first {
						require.Greater(t, e, prev)
					}
					prev, first = e, false
					_, dup := seen[e]
					require.False(t, dup)
					seen[e] = v
					require.Equal(t, i, scheme.PartitionOf(e))
				}
			}
			require.Len(t, seen, len(pairs))
			for _, pr := range pairs {
				require.Equal(t, pr.Value, seen[pr.Entity])
			}
		})
	}
}

func TestPartitioned_GetAndLowerBound(t *testing.T) {
	pairs := []component.Pair[eid, int]{{1, 10}, {2, 20}, {3, 30}, {5, 50}, {8, 80}}
	c := component.CowFromSeq(component.Pairs(pairs))
	p := Split[eid, int](c, NewHashScheme[eid](4))

	for _, pr := range pairs {
		r, ok := p.Get(pr.Entity)
		require.True(t, ok)
		require.Equal(t, pr.Value, r.Value())
	}
	_, ok := p.Get(4)
	require.False(t, ok)

	lb, ok := p.LowerBound(0)
	require.True(t, ok)
	require.Equal(t, eid(1), lb)

	lb, ok = p.LowerBound(4)
	require.True(t, ok)
	require.Equal(t, eid(5), lb)

	_, ok = p.LowerBound(9)
	require.False(t, ok)
}

func TestPartitioned_JoinRoundTrips(t *testing.T) {
	rng := rand.New(rand.NewSource(13))
	pairs := seedPairs(200, rng)

	c := component.MutableFromSeq(component.Pairs(pairs))
	var want []component.Pair[eid, int]
	for e, v := range c.Scan() {
		want = append(want, component.Pair[eid, int]{Entity: e, Value: v})
	}

	p := Split[eid, int](c, NewHashScheme[eid](7))
	joined := p.Join()
	require.True(t, p.Empty())

	var got []component.Pair[eid, int]
	for e, v := range joined.Scan() {
		got = append(got, component.Pair[eid, int]{Entity: e, Value: v})
	}
	require.Equal(t, want, got)
}

func TestPartitioned_Apply(t *testing.T) {
	apply := map[string]func(p *Partitioned[eid, int], sb *ShardBatches[eid, int]) error{
		"Sequential": func(p *Partitioned[eid, int], sb *ShardBatches[eid, int]) error {
			return p.Apply(sb)
		},
		"Concurrent": func(p *Partitioned[eid, int], sb *ShardBatches[eid, int]) error {
			return p.ApplyConcurrent(sb)
		},
	}
	for name, do := range apply {
		t.Run(name, func(t *testing.T) {
			scheme := NewHashScheme[eid](4)
			pairs := []component.Pair[eid, int]{{1, 10}, {2, 20}, {3, 30}, {4, 40}}
			p := Split[eid, int](component.MutableFromSeq(component.Pairs(pairs)), scheme)

			sb := NewShardBatches(p)
			sb.Shard(scheme.PartitionOf(2)).Put(2, component.Unbind[int]())
			sb.Shard(scheme.PartitionOf(3)).Put(3, component.Replace(33))
			sb.Shard(scheme.PartitionOf(9)).Put(9, component.Bind(90))
			require.Equal(t, 3, sb.Len())

			require.NoError(t, do(p, sb))
			require.Equal(t, 4, p.Len())

			_, ok := p.Get(2)
			require.False(t, ok)
			r, _ := p.Get(3)
			require.Equal(t, 33, r.Value())
			r, _ = p.Get(9)
			require.Equal(t, 90, r.Value())
		})
	}
}

func TestFrom(t *testing.T) {
	scheme := NewRangeScheme[eid](10)
	shards := []component.Collection[eid, int]{
		component.CowOf[eid, int](component.Pair[eid, int]{3, 30}),
		component.CowOf[eid, int](component.Pair[eid, int]{12, 120}),
	}
	p := From(scheme, shards)
	require.Equal(t, 2, p.Len())
	r, ok := p.Get(12)
	require.True(t, ok)
	require.Equal(t, 120, r.Value())

	require.Panics(t, func() { From(NewHashScheme[eid](3), shards) })
}

func TestPartitioned_ApplyRejectsForeignBatches(t *testing.T) {
	scheme := NewHashScheme[eid](2)
	p1 := Split[eid, int](component.MutableOf[eid, int](), scheme)
	p2 := Split[eid, int](component.MutableOf[eid, int](), scheme)

	sb := NewShardBatches(p1)
	require.ErrorIs(t, p2.Apply(sb), component.ErrMismatchedBatch)
	require.ErrorIs(t, p2.ApplyConcurrent(sb), component.ErrMismatchedBatch)
}
