// SPDX-License-Identifier: MIT

package safelanes

import (
	"fmt"
	"time"

	"github.com/naev/naev-sub006/matrix"
	"github.com/naev/naev-sub006/universe"
	"go.uber.org/zap"
)

// candidate is an affordable, legal edge for one faction in one system.
type candidate struct {
	edge int
	cost float64
}

// engine is the mutable working state of a single recalculation. It is
// built from scratch and discarded afterwards; only the OwnershipTable
// derived from it survives.
type engine struct {
	opts Options
	log  *zap.Logger
	g    *graph
	reg  *registry
	asm  *assembly

	cond     []float64            // live conductivity per edge
	owner    []universe.FactionID // per edge, 0 while free
	ownerBit []int                // per edge, -1 while free
	round    []int                // per edge, activation round
	mask     []uint64             // per edge, factions allowed to own it
	reach    []uint64             // per vertex, factions whose lanes touch it

	cands  []candidate
	du, dl []float64
}

// compute runs the whole pipeline and returns a fresh table.
func compute(opts Options, topo Topology, fd FactionDirectory, pres PresenceSource) (*OwnershipTable, error) {
	start := time.Now()
	g := buildGraph(topo, opts.MinAngle)
	reg, err := newRegistry(fd, pres, g.numSystems())
	if err != nil {
		return nil, err
	}
	asm, err := assemble(g, topo, fd, reg, opts.Alpha, opts.JumpConductivity)
	if err != nil {
		return nil, fmt.Errorf("safelanes: assemble: %w", err)
	}

	e := newEngine(opts, g, reg, asm, topo)
	rounds := 0
	if len(g.edges) > 0 && len(reg.factions) > 0 {
		rounds = e.run()
	}

	t := e.table(topo, fd, rounds)
	t.elapsed = time.Since(start)

	return t, nil
}

func newEngine(opts Options, g *graph, reg *registry, asm *assembly, topo Topology) *engine {
	ne, nv := len(g.edges), len(g.vertices)
	e := &engine{
		opts:     opts,
		log:      opts.Logger,
		g:        g,
		reg:      reg,
		asm:      asm,
		cond:     make([]float64, ne),
		owner:    make([]universe.FactionID, ne),
		ownerBit: make([]int, ne),
		round:    make([]int, ne),
		mask:     make([]uint64, ne),
		reach:    make([]uint64, nv),
	}
	maxSupport := 0
	for _, w := range asm.weights {
		if len(w.cols) > maxSupport {
			maxSupport = len(w.cols)
		}
	}
	e.du = make([]float64, maxSupport)
	e.dl = make([]float64, maxSupport)

	// Spob owners that build lanes: initial reach and ownership masks.
	ownerMask := make([]uint64, nv)
	for v, vx := range g.vertices {
		if vx.Kind != VertexSpob {
			continue
		}
		owner := topo.System(vx.System).Spobs[vx.Index].Faction
		if b, ok := reg.bitOf[owner]; ok {
			ownerMask[v] = 1 << uint(b)
		}
	}
	copy(e.reach, ownerMask)
	all := reg.allMask()
	for i, ed := range g.edges {
		e.cond[i] = ed.cond
		e.ownerBit[i] = -1
		if m := ownerMask[ed.v0] | ownerMask[ed.v1]; m != 0 {
			e.mask[i] = m
		} else {
			e.mask[i] = all
		}
	}

	return e
}

// run performs greedy rounds until nothing improves and returns their count.
func (e *engine) run() int {
	rounds := 0
	for {
		u, lam := e.solve()
		activated, more := e.step(rounds, u, lam)
		e.log.Debug("safelanes round",
			zap.Int("round", rounds),
			zap.Int("activated", activated),
			zap.Bool("more", more))
		rounds++
		if activated == 0 || !more {
			return rounds
		}
		if e.opts.MaxRounds > 0 && rounds >= e.opts.MaxRounds {
			e.log.Info("safelanes round limit reached", zap.Int("max_rounds", e.opts.MaxRounds))
			return rounds
		}
	}
}

// solve factorizes K for the live conductivities and returns U = K⁻¹F and
// Λ = K⁻¹(−QᵀQ·U). Any failure here breaks an invariant and panics.
func (e *engine) solve() (*matrix.Dense, *matrix.Dense) {
	k, err := e.asm.stiffness(e.g, e.cond, e.opts.JumpConductivity)
	if err != nil {
		panic(fmt.Sprintf("safelanes: stiffness assembly: %v", err))
	}
	e.log.Debug("safelanes stiffness assembled",
		zap.Int("n", k.N()), zap.Int("nnz", k.NNZ()), zap.Float64("max_diag", k.MaxAbsDiag()))
	start := time.Now()
	fact, err := e.opts.LinearSolver.Factorize(k)
	e.opts.Metrics.observeFactorization(time.Since(start))
	if err != nil {
		panic(fmt.Sprintf("safelanes: stiffness matrix is not positive definite: %v", err))
	}
	u, err := fact.Solve(e.asm.flux)
	if err != nil {
		panic(fmt.Sprintf("safelanes: potential solve: %v", err))
	}
	r, err := e.asm.qtq.MulDense(u)
	if err != nil {
		panic(fmt.Sprintf("safelanes: adjoint rhs: %v", err))
	}
	r, err = matrix.Scale(r, -1)
	if err != nil {
		panic(fmt.Sprintf("safelanes: adjoint rhs: %v", err))
	}
	lam, err := fact.Solve(r)
	if err != nil {
		panic(fmt.Sprintf("safelanes: adjoint solve: %v", err))
	}

	return u, lam
}

// step is one greedy round over every system and faction.
func (e *engine) step(round int, u, lam *matrix.Dense) (activated int, more bool) {
	g, reg := e.g, e.reg
	alpha, lambda := e.opts.Alpha, e.opts.Lambda
	for s := 0; s < g.numSystems(); s++ {
		elo, ehi := g.sysEdge[s], g.sysEdge[s+1]
		if elo == ehi {
			continue
		}
		for _, b := range reg.order[s] {
			if reg.pinned[b][s] {
				continue
			}
			f := &reg.factions[b]
			bit := uint64(1) << uint(b)
			budget := reg.budget[b][s]

			e.cands = e.cands[:0]
			for i := elo; i < ehi; i++ {
				ed := g.edges[i]
				if e.owner[i] != 0 || e.mask[i]&bit == 0 {
					continue
				}
				c := f.cost(ed.cond)
				if c > budget {
					continue
				}
				if round > 0 && (e.reach[ed.v0]|e.reach[ed.v1])&bit == 0 {
					continue
				}
				e.cands = append(e.cands, candidate{edge: i, cost: c})
			}
			if len(e.cands) == 0 {
				reg.pin(b, s)
				continue
			}

			w := &e.asm.weights[b]
			best, bestScore := -1, 0.0
			for k, c := range e.cands {
				ed := g.edges[c.edge]
				score := alpha*ed.cond*ed.cond*w.crossTerm(u, lam, ed.v0, ed.v1, e.du, e.dl) + lambda
				if score < bestScore {
					best, bestScore = k, score
				}
			}
			if best < 0 {
				continue
			}

			chosen := e.cands[best]
			e.activate(chosen.edge, b, round)
			reg.budget[b][s] -= chosen.cost
			activated++
			for k, c := range e.cands {
				if k != best && c.cost <= reg.budget[b][s] {
					more = true
					break
				}
			}
		}
	}

	return activated, more
}

// activate hands edge i to faction bit b.
func (e *engine) activate(i, b, round int) {
	if e.owner[i] != 0 {
		panic(fmt.Sprintf("safelanes: edge %d already owned by faction %d", i, e.owner[i]))
	}
	e.owner[i] = e.reg.factions[b].id
	e.ownerBit[i] = b
	e.round[i] = round
	e.cond[i] *= 1 + e.opts.Alpha
	bit := uint64(1) << uint(b)
	e.reach[e.g.edges[i].v0] |= bit
	e.reach[e.g.edges[i].v1] |= bit
}

// table freezes the ownership array and budgets.
func (e *engine) table(topo Topology, rel Relations, rounds int) *OwnershipTable {
	g, reg := e.g, e.reg
	nsys := g.numSystems()
	t := &OwnershipTable{
		topo:       topo,
		rel:        rel,
		sysLane:    make([]int, nsys+1),
		budgets:    make(map[budgetKey]Budget, len(reg.factions)*nsys),
		rounds:     rounds,
		vertices:   len(g.vertices),
		candidates: len(g.edges),
	}
	spent := make([][]float64, len(reg.factions))
	for b, f := range reg.factions {
		t.builders = append(t.builders, f.id)
		spent[b] = make([]float64, nsys)
	}
	for s := 0; s < nsys; s++ {
		t.sysLane[s] = len(t.lanes)
		for i := g.sysEdge[s]; i < g.sysEdge[s+1]; i++ {
			b := e.ownerBit[i]
			if b < 0 {
				continue
			}
			ed := g.edges[i]
			cost := reg.factions[b].cost(ed.cond)
			spent[b][s] += cost
			t.lanes = append(t.lanes, LaneEdge{
				System:  s,
				Faction: e.owner[i],
				A:       g.vertices[ed.v0],
				B:       g.vertices[ed.v1],
				Cost:    cost,
				Round:   e.round[i],
			})
		}
	}
	t.sysLane[nsys] = len(t.lanes)

	for b, f := range reg.factions {
		for s := 0; s < nsys; s++ {
			t.budgets[budgetKey{faction: f.id, system: s}] = Budget{
				Initial:   reg.initial[b][s],
				Remaining: reg.budget[b][s],
				Spent:     spent[b][s],
			}
		}
	}

	return t
}
