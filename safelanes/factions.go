// SPDX-License-Identifier: MIT

package safelanes

import (
	"fmt"
	"sort"

	"github.com/naev/naev-sub006/universe"
)

// laneFaction is a faction allowed to build lanes; bit is its position in
// ownership masks.
type laneFaction struct {
	id       universe.FactionID
	bit      int
	llpp     float64 // lane length per presence
	baseCost float64
}

// cost is the presence spent on an edge of initial conductivity cond.
func (f *laneFaction) cost(cond float64) float64 {
	return 1/cond/f.llpp + f.baseCost
}

// registry holds the lane builders and their per-system budgets.
type registry struct {
	factions []laneFaction
	bitOf    map[universe.FactionID]int
	initial  [][]float64 // [bit][sys]
	budget   [][]float64 // [bit][sys], remaining
	pinned   [][]bool    // [bit][sys]
	order    [][]int     // per system: bits by descending presence
}

// newRegistry selects visible factions with presence somewhere and a
// positive lane length per presence, in ascending ID order.
//
// Errors:
//   - ErrTooManyFactions when more than MaxLaneFactions qualify.
func newRegistry(fd FactionDirectory, pres PresenceSource, nsys int) (*registry, error) {
	r := &registry{bitOf: make(map[universe.FactionID]int)}
	all := fd.AllFactions()
	ids := make([]int, 0, len(all))
	for i := range all {
		ids = append(ids, i)
	}
	sort.SliceStable(ids, func(a, b int) bool { return all[ids[a]].ID < all[ids[b]].ID })

	for _, i := range ids {
		f := all[i]
		if f.Invisible || f.LaneLengthPerPresence <= 0 {
			continue
		}
		present := false
		for s := 0; s < nsys && !present; s++ {
			present = pres.Presence(s, f.ID) > 0
		}
		if !present {
			continue
		}
		r.factions = append(r.factions, laneFaction{
			id:       f.ID,
			llpp:     f.LaneLengthPerPresence,
			baseCost: f.LaneBaseCost,
		})
	}
	if len(r.factions) > MaxLaneFactions {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyFactions, len(r.factions), MaxLaneFactions)
	}

	nf := len(r.factions)
	r.initial = make([][]float64, nf)
	r.budget = make([][]float64, nf)
	r.pinned = make([][]bool, nf)
	for b := range r.factions {
		r.factions[b].bit = b
		r.bitOf[r.factions[b].id] = b
		r.initial[b] = make([]float64, nsys)
		r.budget[b] = make([]float64, nsys)
		r.pinned[b] = make([]bool, nsys)
		for s := 0; s < nsys; s++ {
			p := pres.Presence(s, r.factions[b].id)
			r.initial[b][s] = p
			r.budget[b][s] = p
		}
	}

	r.order = make([][]int, nsys)
	for s := 0; s < nsys; s++ {
		o := make([]int, nf)
		for b := range o {
			o[b] = b
		}
		sort.SliceStable(o, func(x, y int) bool { return r.initial[o[x]][s] > r.initial[o[y]][s] })
		r.order[s] = o
	}

	return r, nil
}

// allMask has one bit per lane builder.
func (r *registry) allMask() uint64 {
	if len(r.factions) == MaxLaneFactions {
		return ^uint64(0)
	}

	return uint64(1)<<uint(len(r.factions)) - 1
}

// pin exhausts faction b in system s for the rest of the computation.
func (r *registry) pin(b, s int) {
	r.pinned[b][s] = true
	r.budget[b][s] = 0
}
