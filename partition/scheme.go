// Package partition fragments entity space into shards so independent
// sub-joins can run concurrently. A scheme assigns every entity to exactly
// one shard; a Partitioned wraps one inner collection per shard.
package partition

import (
	"encoding/binary"
	"sort"

	"github.com/cespare/xxhash/v2"

	"github.com/zeusync/zecs/entity"
)

// Scheme deterministically assigns entities to shards. The shard count is
// fixed at construction and every collection participating in one parallel
// run must hold the same scheme value.
type Scheme[E entity.ID] interface {
	// PartitionOf returns the shard index for e, in [0, ShardCount()).
	PartitionOf(e E) int
	// ShardCount returns the fixed number of shards.
	ShardCount() int
}

// NopScheme assigns every entity to shard 0, the degenerate default.
type NopScheme[E entity.ID] struct{}

// NewNopScheme returns the single-shard scheme.
func NewNopScheme[E entity.ID]() *NopScheme[E] { return &NopScheme[E]{} }

func (*NopScheme[E]) PartitionOf(E) int { return 0 }
func (*NopScheme[E]) ShardCount() int   { return 1 }

// HashScheme spreads entities over shards by hashing their little-endian
// bytes. Neighboring entities land on different shards, which balances load
// when entity values cluster.
type HashScheme[E entity.ID] struct {
	shards int
}

// NewHashScheme returns a hash scheme over the given shard count.
// Panics if shards < 1.
func NewHashScheme[E entity.ID](shards int) *HashScheme[E] {
	if shards < 1 {
		panic("partition: shard count must be at least 1")
	}
	return &HashScheme[E]{shards: shards}
}

func (s *HashScheme[E]) PartitionOf(e E) int {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(e))
	return int(xxhash.Sum64(buf[:]) % uint64(s.shards))
}

func (s *HashScheme[E]) ShardCount() int { return s.shards }

// RangeScheme splits entity space at sorted divider entities: shard i holds
// entities below divider i, the last shard holds everything at or above the
// last divider. It is the only scheme under which shard order agrees with
// entity order.
type RangeScheme[E entity.ID] struct {
	dividers []E
}

// NewRangeScheme builds a range scheme from dividers, which must be strictly
// ascending.
func NewRangeScheme[E entity.ID](dividers ...E) *RangeScheme[E] {
	for i := 1; i < len(dividers); i++ {
		if dividers[i-1] >= dividers[i] {
			panic("partition: range dividers must be strictly ascending")
		}
	}
	ds := make([]E, len(dividers))
	copy(ds, dividers)
	return &RangeScheme[E]{dividers: ds}
}

func (s *RangeScheme[E]) PartitionOf(e E) int {
	return sort.Search(len(s.dividers), func(i int) bool { return s.dividers[i] > e })
}

func (s *RangeScheme[E]) ShardCount() int { return len(s.dividers) + 1 }
