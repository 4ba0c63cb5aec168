// SPDX-License-Identifier: MIT

package safelanes

import (
	"math"

	"github.com/naev/naev-sub006/universe"
)

// minEdgeLength keeps coincident vertices from producing infinite conductivity.
const minEdgeLength = 1.0

// edge is a candidate lane between two vertices of the same system, v0 < v1.
type edge struct {
	v0, v1 int
	cond   float64 // initial conductivity, 1/length
}

// jumpLink pairs the vertices of a two-way jump; bookkeeping only.
type jumpLink struct {
	v0, v1     int
	sys0, sys1 int
}

// graph is the vertex and candidate-edge arena of one recalculation.
// Vertices and edges are grouped per system: system s owns
// vertices[sysVert[s]:sysVert[s+1]] and edges[sysEdge[s]:sysEdge[s+1]].
type graph struct {
	vertices []Vertex
	sysVert  []int
	edges    []edge
	sysEdge  []int
	links    []jumpLink
	pos      []universe.Vec2 // snapshot used for geometry only
}

// buildGraph emits vertices and flatness-filtered edges for every system.
//
// Implementation:
//   - Stage 1: per system (skipping NoLanes), spobs with presence and without
//     NoLanes, then visible enterable jumps without NoLanes.
//   - Stage 2: per system, pairs in ascending (v1, v0) order, each tested
//     against every third vertex of the system.
//   - Stage 3: two-way jump pairs whose both ends are vertices.
//
// Complexity: O(Σ_s n_s³) for n_s vertices in system s.
func buildGraph(topo Topology, minAngleDeg float64) *graph {
	nsys := topo.NumSystems()
	g := &graph{
		sysVert: make([]int, nsys+1),
		sysEdge: make([]int, nsys+1),
	}
	jumpVert := make([][]int, nsys)

	for s := 0; s < nsys; s++ {
		g.sysVert[s] = len(g.vertices)
		sys := topo.System(s)
		jumpVert[s] = make([]int, len(sys.Jumps))
		for k := range jumpVert[s] {
			jumpVert[s][k] = -1
		}
		if sys.NoLanes {
			continue
		}
		for k, sp := range sys.Spobs {
			if sp.NoLanes || sp.Presence <= 0 {
				continue
			}
			g.vertices = append(g.vertices, Vertex{System: s, Kind: VertexSpob, Index: k})
			g.pos = append(g.pos, sp.Pos)
		}
		for k, jp := range sys.Jumps {
			if jp.Hidden || jp.ExitOnly || jp.NoLanes {
				continue
			}
			jumpVert[s][k] = len(g.vertices)
			g.vertices = append(g.vertices, Vertex{System: s, Kind: VertexJump, Index: k})
			g.pos = append(g.pos, jp.Pos)
		}
	}
	g.sysVert[nsys] = len(g.vertices)

	cosMin := math.Cos(minAngleDeg * math.Pi / 180)
	for s := 0; s < nsys; s++ {
		g.sysEdge[s] = len(g.edges)
		lo, hi := g.sysVert[s], g.sysVert[s+1]
		for v1 := lo; v1 < hi; v1++ {
			for v0 := lo; v0 < v1; v0++ {
				if g.blocked(v0, v1, lo, hi, cosMin) {
					continue
				}
				l := math.Max(g.pos[v0].Dist(g.pos[v1]), minEdgeLength)
				g.edges = append(g.edges, edge{v0: v0, v1: v1, cond: 1 / l})
			}
		}
	}
	g.sysEdge[nsys] = len(g.edges)

	for s := 0; s < nsys; s++ {
		for k, v := range jumpVert[s] {
			if v < 0 {
				continue
			}
			ts, tk, ok := topo.ReturnJump(s, k)
			if !ok || ts == s || jumpVert[ts][tk] < 0 {
				continue
			}
			if w := jumpVert[ts][tk]; v < w {
				g.links = append(g.links, jumpLink{v0: v, v1: w, sys0: s, sys1: ts})
			}
		}
	}

	return g
}

// blocked reports whether some third vertex of [lo, hi) makes v0–v1 too flat.
func (g *graph) blocked(v0, v1, lo, hi int, cosMin float64) bool {
	for p := lo; p < hi; p++ {
		if p == v0 || p == v1 {
			continue
		}
		if tooFlat(g.pos[v0], g.pos[v1], g.pos[p], cosMin) {
			return true
		}
	}

	return false
}

// tooFlat reports whether p sits within the angle threshold of segment m–n
// seen from either end, on a leg shorter than the segment itself.
func tooFlat(m, n, p universe.Vec2, cosMin float64) bool {
	lmn := m.Dist(n)
	lnp := n.Dist(p)
	lmp := m.Dist(p)
	dpn := n.Sub(m).Dot(n.Sub(p)) / (lmn * lnp)
	dpm := m.Sub(n).Dot(m.Sub(p)) / (lmn * lmp)

	return (dpn > cosMin && lnp < lmn) || (dpm > cosMin && lmp < lmn)
}

// numSystems is the number of systems the graph was built for.
func (g *graph) numSystems() int { return len(g.sysVert) - 1 }
