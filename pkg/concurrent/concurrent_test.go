package concurrent

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zeusync/zecs/pkg/sequence"
)

func TestEach(t *testing.T) {
	var sum atomic.Int64
	err := Each(sequence.From([]int{1, 2, 3, 4, 5}), func(v int) error {
		sum.Add(int64(v))
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, int64(15), sum.Load())
}

func TestEach_FirstErrorWins(t *testing.T) {
	boom := errors.New("boom")
	err := Each(sequence.Range(10), func(v int) error {
		if v%2 == 1 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
}

func TestEachLimit(t *testing.T) {
	var inFlight, peak atomic.Int64
	err := EachLimit(sequence.Range(64), 4, func(int) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		inFlight.Add(-1)
		return nil
	})
	require.NoError(t, err)
	require.LessOrEqual(t, peak.Load(), int64(4))
}
