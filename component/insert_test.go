package component

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertOptimized_Insert(t *testing.T) {
	c := NewInsertOptimized[eid, int]()

	_, replaced := c.Insert(5, 50)
	require.False(t, replaced)
	old, replaced := c.Insert(5, 55)
	require.True(t, replaced)
	require.Equal(t, 50, old)

	c.Insert(2, 20)
	require.Equal(t, []Pair[eid, int]{{2, 20}, {5, 55}}, pairsOf(c))
}

func TestInsertOptimized_DeleteReusesSlots(t *testing.T) {
	c := NewInsertOptimized[eid, int]()
	for e := eid(1); e <= 8; e++ {
		c.Insert(e, int(e)*10)
	}

	v, ok := c.Delete(4)
	require.True(t, ok)
	require.Equal(t, 40, v)
	_, ok = c.Delete(4)
	require.False(t, ok)

	// The freed slot is handed to the next insert.
	c.Insert(9, 90)
	require.Equal(t, 8, c.Len())
	r, ok := c.Get(9)
	require.True(t, ok)
	require.Equal(t, 90, r.Value())
}

func TestInsertOptimized_HandleMatchesMutable(t *testing.T) {
	c := InsertOptimizedOf[eid, int](Pair[eid, int]{1, 10}, Pair[eid, int]{2, 20})

	r, _ := c.Get(1)
	r.Update(func(v *int) { *v = 11 })
	live, _ := c.Get(1)
	require.Equal(t, 11, live.Value())
	require.True(t, r.Change().None())

	// Unbind is deferred, exactly like the mutable strategy.
	r2, _ := c.Get(2)
	r2.Unbind()
	_, stillThere := c.Get(2)
	require.True(t, stillThere)

	b := NewBatch[eid, int](c)
	b.Put(2, r2.Change())
	require.NoError(t, c.Apply(b))
	require.Equal(t, []Pair[eid, int]{{1, 11}}, pairsOf(c))
}
