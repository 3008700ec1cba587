package component

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMutable_InPlaceEditsAreLive(t *testing.T) {
	c := MutableOf[eid, string](Pair[eid, string]{2, "pi"})

	r, ok := c.Get(2)
	require.True(t, ok)
	r.Update(func(v *string) { *v = "pi'" })

	// Visible immediately, no record produced.
	live, _ := c.Get(2)
	require.Equal(t, "pi'", live.Value())
	require.True(t, r.Change().None())
}

func TestMutable_DeferredBind(t *testing.T) {
	c := MutableOf[eid, string](Pair[eid, string]{2, "pi"})

	r, _ := c.Get(2)
	r.Set("pi'")
	r.Bind(7, "q")

	b := NewBatch[eid, string](c)
	b.Put(2, r.Change())
	for _, rec := range r.Binds() {
		b.Put(rec.Entity, rec.Change)
	}

	// The bind lives only in the batch until apply.
	_, ok := c.Get(7)
	require.False(t, ok)
	require.Equal(t, 1, b.Len())

	require.NoError(t, c.Apply(b))
	require.Equal(t, []Pair[eid, string]{{2, "pi'"}, {7, "q"}}, pairsOf2(c))
}

// A handler that edits in place and then unbinds the same entity: the edit
// is live until apply, then the unbind wins.
func TestMutable_EditThenUnbind(t *testing.T) {
	c := MutableOf[eid, string](Pair[eid, string]{2, "pi"}, Pair[eid, string]{3, "e"})

	r, _ := c.Get(2)
	r.Update(func(v *string) { *v = "tau" })
	r.Unbind()

	live, _ := c.Get(2)
	require.Equal(t, "tau", live.Value())

	b := NewBatch[eid, string](c)
	b.Put(2, r.Change())
	require.NoError(t, c.Apply(b))

	_, ok := c.Get(2)
	require.False(t, ok)
	require.Equal(t, []Pair[eid, string]{{3, "e"}}, pairsOf2(c))
}

func pairsOf2(c Collection[eid, string]) []Pair[eid, string] {
	var out []Pair[eid, string]
	for e, v := range c.Scan() {
		out = append(out, Pair[eid, string]{Entity: e, Value: v})
	}
	return out
}
