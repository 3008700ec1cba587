// Profiles the two-way join over dense and sparse collections. Run with
// the cpu profile landing in the working directory, then inspect it with
// go tool pprof.
package main

import (
	"fmt"

	"github.com/pkg/profile"

	"github.com/zeusync/zecs/component"
	"github.com/zeusync/zecs/entity"
	"github.com/zeusync/zecs/system"
)

type eid = entity.ID64

type tally struct{ visited int }

func (t *tally) Process(_ eid, _ component.Ref[eid, int], _ component.Ref[eid, int]) {
	t.visited++
}

func main() {
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()

	var dense, sparse []component.Pair[eid, int]
	for e := eid(1); e <= 1_000_000; e++ {
		dense = append(dense, component.Pair[eid, int]{Entity: e, Value: int(e)})
		if e%16 == 0 {
			sparse = append(sparse, component.Pair[eid, int]{Entity: e, Value: int(e)})
		}
	}
	cs := component.CowFromSeq(component.Pairs(sparse))
	cd := component.CowFromSeq(component.Pairs(dense))

	s := &tally{}
	for i := 0; i < 20; i++ {
		// Sparse first: the smaller collection drives the merge.
		system.Run2[eid, int, int](s, cs, cd)
	}
	fmt.Println("joined:", s.visited)
}
