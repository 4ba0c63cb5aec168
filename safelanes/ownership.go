// SPDX-License-Identifier: MIT

package safelanes

import (
	"time"

	"github.com/naev/naev-sub006/universe"
)

// LaneEdge is an activated edge: its endpoints, owner and the presence the
// owner spent on it.
type LaneEdge struct {
	System  int
	Faction universe.FactionID
	A, B    Vertex
	Cost    float64
	Round   int // greedy round that activated it, from 0
}

// Budget is a faction's presence budget in one system.
// Remaining is zero once the faction ran out of affordable candidates there.
type Budget struct {
	Initial   float64
	Remaining float64
	Spent     float64
}

type budgetKey struct {
	faction universe.FactionID
	system  int
}

// OwnershipTable is the immutable result of one recalculation. Endpoint
// positions are looked up in the live topology at query time.
type OwnershipTable struct {
	topo     Topology
	rel      Relations
	lanes    []LaneEdge // grouped by system, in edge enumeration order
	sysLane  []int      // system s owns lanes[sysLane[s]:sysLane[s+1]]
	budgets  map[budgetKey]Budget
	builders []universe.FactionID

	rounds     int
	vertices   int
	candidates int
	elapsed    time.Duration
}

// Rounds returns the number of greedy rounds that ran.
func (t *OwnershipTable) Rounds() int { return t.rounds }

// Activations returns the number of lanes.
func (t *OwnershipTable) Activations() int { return len(t.lanes) }

// Vertices returns the vertex count of the lane graph.
func (t *OwnershipTable) Vertices() int { return t.vertices }

// Candidates returns the number of candidate edges that survived the flatness test.
func (t *OwnershipTable) Candidates() int { return t.candidates }

// Elapsed returns the wall time of the recalculation.
func (t *OwnershipTable) Elapsed() time.Duration { return t.elapsed }

// Factions returns the lane-building factions in mask-bit order.
func (t *OwnershipTable) Factions() []universe.FactionID {
	out := make([]universe.FactionID, len(t.builders))
	copy(out, t.builders)

	return out
}

// Budget returns the budget of faction f in system sys; ok is false when f
// is not a lane builder.
func (t *OwnershipTable) Budget(f universe.FactionID, sys int) (Budget, bool) {
	b, ok := t.budgets[budgetKey{faction: f, system: sys}]

	return b, ok
}

// Edges returns a copy of every activated edge.
func (t *OwnershipTable) Edges() []LaneEdge {
	out := make([]LaneEdge, len(t.lanes))
	copy(out, t.lanes)

	return out
}

// LaneCounts returns the number of lanes per owning faction.
func (t *OwnershipTable) LaneCounts() map[universe.FactionID]int {
	out := make(map[universe.FactionID]int, len(t.builders))
	for _, f := range t.builders {
		out[f] = 0
	}
	for _, l := range t.lanes {
		out[l.Faction]++
	}

	return out
}
