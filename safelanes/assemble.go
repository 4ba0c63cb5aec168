// SPDX-License-Identifier: MIT

package safelanes

import (
	"fmt"
	"math"

	"github.com/naev/naev-sub006/matrix"
	"github.com/naev/naev-sub006/unionfind"
)

// factionWeights is P_f restricted to the spob columns where faction f has
// a nonzero weight.
type factionWeights struct {
	cols []int         // spob columns of the support, ascending
	p    *matrix.Dense // len(cols)×len(cols), nil when fewer than two columns
}

// assembly holds everything that stays fixed across the greedy rounds of
// one recalculation.
type assembly struct {
	n         int
	spobVerts []int // column -> vertex
	spobCol   []int // vertex -> column, -1 for jumps
	comp      []int // system -> dense component id
	anchors   []int // one vertex per component that has vertices
	boundary  float64
	flux      *matrix.Dense     // F: n × len(spobVerts)
	qtq       *matrix.SymSparse // QᵀQ: unit-weight incidence Gram matrix
	weights   []factionWeights  // per faction bit
}

// assemble partitions the systems, picks anchors and builds F, QᵀQ and P_f.
func assemble(g *graph, topo Topology, fd FactionDirectory, reg *registry, alpha, jumpCond float64) (*assembly, error) {
	n := len(g.vertices)
	a := &assembly{n: n, spobCol: make([]int, n)}

	// Components: union systems along two-way jump pairs.
	nsys := g.numSystems()
	uf := unionfind.New(nsys)
	for _, l := range g.links {
		uf.Union(l.sys0, l.sys1)
	}
	a.comp = uf.Components()
	seen := make(map[int]bool)
	for s := 0; s < nsys; s++ {
		root := uf.Find(s)
		if seen[root] || g.sysVert[root] == g.sysVert[root+1] {
			continue
		}
		seen[root] = true
		a.anchors = append(a.anchors, g.sysVert[root])
	}
	// Components whose root system has no vertex anchor at their lowest vertex.
	for v := 0; v < n; v++ {
		root := uf.Find(g.vertices[v].System)
		if !seen[root] {
			seen[root] = true
			a.anchors = append(a.anchors, v)
		}
	}

	maxCond := 0.0
	for _, e := range g.edges {
		maxCond = math.Max(maxCond, e.cond)
	}
	if len(g.links) > 0 {
		maxCond = math.Max(maxCond, jumpCond)
	}
	if maxCond == 0 {
		maxCond = 1
	}
	a.boundary = (1 + alpha) * maxCond

	for v := 0; v < n; v++ {
		a.spobCol[v] = -1
		if g.vertices[v].Kind == VertexSpob {
			a.spobCol[v] = len(a.spobVerts)
			a.spobVerts = append(a.spobVerts, v)
		}
	}

	var err error
	if a.flux, err = matrix.NewDenseZeroOK(n, len(a.spobVerts)); err != nil {
		return nil, fmt.Errorf("flux: %w", err)
	}
	for c, v := range a.spobVerts {
		if err = a.flux.Set(v, c, 1); err != nil {
			return nil, fmt.Errorf("flux: %w", err)
		}
	}

	qb, err := matrix.NewSymSparseBuilder(n)
	if err != nil {
		return nil, fmt.Errorf("incidence: %w", err)
	}
	for _, e := range g.edges {
		if err = qb.AddConductance(e.v0, e.v1, 1); err != nil {
			return nil, fmt.Errorf("incidence: %w", err)
		}
	}
	if a.qtq, err = qb.Compile(); err != nil {
		return nil, fmt.Errorf("incidence: %w", err)
	}

	a.weights = make([]factionWeights, len(reg.factions))
	for b := range reg.factions {
		if a.weights[b], err = a.factionMatrix(g, topo, fd, reg.factions[b]); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// factionMatrix builds P_f = Σ_{a<b, same component} p_a·p_b·(e_a−e_b)(e_a−e_b)ᵀ
// where p_i is the spob's presence if its owner is f or an ally of f.
func (a *assembly) factionMatrix(g *graph, topo Topology, fd FactionDirectory, f laneFaction) (factionWeights, error) {
	var w factionWeights
	var pres []float64
	for c, v := range a.spobVerts {
		vx := g.vertices[v]
		sp := topo.System(vx.System).Spobs[vx.Index]
		if sp.Faction == 0 || (sp.Faction != f.id && !fd.AreAllies(sp.Faction, f.id)) {
			continue
		}
		w.cols = append(w.cols, c)
		pres = append(pres, sp.Presence)
	}
	m := len(w.cols)
	if m < 2 {
		return w, nil
	}

	p, err := matrix.NewDense(m, m)
	if err != nil {
		return w, fmt.Errorf("P_f: %w", err)
	}
	compOf := func(i int) int { return a.comp[g.vertices[a.spobVerts[w.cols[i]]].System] }
	var i, j int
	var pij float64
	for i = 0; i < m; i++ {
		for j = i + 1; j < m; j++ {
			if compOf(i) != compOf(j) {
				continue
			}
			pij = pres[i] * pres[j]
			if err = stampPair(p, i, j, pij); err != nil {
				return w, fmt.Errorf("P_f faction %v: %w", f.id, err)
			}
		}
	}
	if err = matrix.ValidateSymmetric(p); err != nil {
		return w, fmt.Errorf("P_f faction %v: %w", f.id, err)
	}
	w.p = p

	return w, nil
}

// stampPair adds w·(e_i−e_j)(e_i−e_j)ᵀ to p.
func stampPair(p *matrix.Dense, i, j int, w float64) error {
	if err := p.AddAt(i, i, w); err != nil {
		return err
	}
	if err := p.AddAt(j, j, w); err != nil {
		return err
	}
	if err := p.AddAt(i, j, -w); err != nil {
		return err
	}

	return p.AddAt(j, i, -w)
}

// stiffness assembles K for the live conductivities.
func (a *assembly) stiffness(g *graph, cond []float64, jumpCond float64) (*matrix.SymSparse, error) {
	kb, err := matrix.NewSymSparseBuilder(a.n)
	if err != nil {
		return nil, err
	}
	for e, ed := range g.edges {
		if err = kb.AddConductance(ed.v0, ed.v1, cond[e]); err != nil {
			return nil, err
		}
	}
	for _, l := range g.links {
		if err = kb.AddConductance(l.v0, l.v1, jumpCond); err != nil {
			return nil, err
		}
	}
	for _, v := range a.anchors {
		if err = kb.Add(v, v, a.boundary); err != nil {
			return nil, err
		}
	}

	return kb.Compile()
}

// crossTerm returns (Λ_i−Λ_j)·P_f·(U_i−U_j)ᵀ over the faction's support.
func (w *factionWeights) crossTerm(u, lam *matrix.Dense, i, j int, du, dl []float64) float64 {
	if w.p == nil {
		return 0
	}
	ui, _ := u.RowView(i)
	uj, _ := u.RowView(j)
	li, _ := lam.RowView(i)
	lj, _ := lam.RowView(j)
	for k, c := range w.cols {
		du[k] = ui[c] - uj[c]
		dl[k] = li[c] - lj[c]
	}
	y, err := matrix.MatVec(w.p, du[:len(w.cols)])
	if err != nil {
		panic(fmt.Sprintf("safelanes: cross term: %v", err))
	}
	var s float64
	for k := range y {
		s += dl[k] * y[k]
	}

	return s
}
