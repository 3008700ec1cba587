package entity

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

var mapFactories = map[string]Factory[ID64]{
	"FastMap": NewFastMap[ID64],
	"HashMap": NewHashMap[ID64],
}

func TestMap_Basic(t *testing.T) {
	for name, factory := range mapFactories {
		t.Run(name, func(t *testing.T) {
			m := factory()
			require.Equal(t, 0, m.Len())

			m.Insert(30)
			m.Insert(10)
			m.Insert(20)
			require.Equal(t, 3, m.Len())

			slot, ok := m.Lookup(20)
			require.True(t, ok)
			require.Equal(t, ID64(20), m.At(slot))

			_, ok = m.Lookup(25)
			require.False(t, ok)

			// Re-insert is a no-op returning the existing slot.
			existing, _ := m.Lookup(10)
			require.Equal(t, existing, m.Insert(10))
			require.Equal(t, 3, m.Len())

			require.True(t, m.Remove(20))
			require.False(t, m.Remove(20))
			require.Equal(t, 2, m.Len())
			_, ok = m.Lookup(20)
			require.False(t, ok)
		})
	}
}

func TestMap_SortedIteration(t *testing.T) {
	for name, factory := range mapFactories {
		t.Run(name, func(t *testing.T) {
			m := factory()
			for _, e := range []ID64{50, 10, 40, 20, 30} {
				m.Insert(e)
			}

			var got []ID64
			for e, slot := range m.All() {
				require.Equal(t, e, m.At(slot))
				got = append(got, e)
			}
			require.Equal(t, []ID64{10, 20, 30, 40, 50}, got)
		})
	}
}

func TestMap_LowerBound(t *testing.T) {
	for name, factory := range mapFactories {
		t.Run(name, func(t *testing.T) {
			m := factory()
			for _, e := range []ID64{2, 5, 9} {
				m.Insert(e)
			}

			lb, ok := m.LowerBound(0)
			require.True(t, ok)
			require.Equal(t, ID64(2), lb)

			lb, ok = m.LowerBound(5)
			require.True(t, ok)
			require.Equal(t, ID64(5), lb)

			lb, ok = m.LowerBound(6)
			require.True(t, ok)
			require.Equal(t, ID64(9), lb)

			_, ok = m.LowerBound(10)
			require.False(t, ok)
		})
	}
}

// Drive both implementations against a model map under a seeded random
// insert/remove workload.
func TestMap_Model(t *testing.T) {
	for name, factory := range mapFactories {
		t.Run(name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(42))
			m := factory()
			model := map[ID64]bool{}

			for i := 0; i < 2000; i++ {
				e := ID64(rng.Intn(500)) + 1
				if rng.Intn(3) == 0 {
					require.Equal(t, model[e], m.Remove(e))
					delete(model, e)
				} else {
					m.Insert(e)
					model[e] = true
				}
			}

			keys := make([]ID64, 0, len(model))
			for e := range model {
				keys = append(keys, e)
			}
			slices.Sort(keys)

			require.Equal(t, len(keys), m.Len())
			var got []ID64
			for e, slot := range m.All() {
				require.Equal(t, e, m.At(slot))
				got = append(got, e)
			}
			require.Equal(t, keys, got)
		})
	}
}

func BenchmarkMap_Lookup(b *testing.B) {
	for name, factory := range mapFactories {
		b.Run(name, func(b *testing.B) {
			m := factory()
			for e := ID64(1); e <= 65536; e++ {
				m.Insert(e * 2)
			}
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				m.Lookup(ID64(i%65536) * 2)
			}
		})
	}
}
