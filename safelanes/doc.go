// SPDX-License-Identifier: MIT

// Package safelanes computes faction-owned safe lanes: sparse sets of
// patrolled routes inside star systems that approximate the cheapest way for
// each faction to connect its points of interest, within a budget
// proportional to the faction's presence.
//
// The computation models every system as a resistor network. Vertices are
// spobs (with presence) and visible jump points; candidate edges are
// straight segments that are not "too flat" with respect to a third vertex.
// Edge conductivity starts at 1/length. A sparse stiffness matrix K is
// assembled over all vertices, with a boundary term at one anchor vertex per
// connected component, and factorized by sparse Cholesky. Solving
//
//	K·U = F          (potentials, one column per spob)
//	K·Λ = −QᵀQ·U     (adjoint)
//
// gives, for every candidate edge and faction, the sensitivity of the
// faction's weighted connection cost. A greedy loop then activates, per
// system and per faction (descending presence), the most improving
// affordable edge, multiplies its conductivity by (1+Alpha) and repeats the
// solve until no faction can improve further.
//
// Pipeline:
//
//	Topology ──► graph builder ──► faction registry ──► union-find anchors
//	         ──► assembler (K, F, QᵀQ, P_f) ──► Cholesky ──► greedy rounds
//	         ──► OwnershipTable ──► Lanes(query options)
//
// Options:
//
//	– WithAlpha, WithLambda:        activation gain and regularization.
//	– WithMinAngle:                 flatness threshold in degrees (default 10).
//	– WithJumpConductivity:         weight of virtual jump-to-jump links.
//	– WithWorkers:                  parallel right-hand-side solves.
//	– WithMaxRounds:                optional bound on greedy rounds.
//	– WithLogger, WithMetrics:      zap logging and prometheus collectors.
//	– WithLinearSolver:             replace the sparse Cholesky backend.
//
// Errors (sentinel):
//
//	– ErrNilTopology      if a collaborator passed to Recalculate is nil.
//	– ErrTooManyFactions  if lane-building factions exceed MaxLaneFactions.
//
// Invariant violations (a stiffness matrix that is not positive definite,
// an unknown vertex kind, reassigning an owned edge) panic.
//
// A Solver serializes recalculations; queries are served from an immutable
// OwnershipTable swapped in atomically, so they never observe a partial
// result.
//
// Example usage:
//
//	u, _ := universe.LoadFile("galaxy.yaml")
//	s := safelanes.NewSolver(safelanes.WithLogger(logger))
//	if _, err := s.RecalculateUniverse(u); err != nil {
//	    log.Fatal(err)
//	}
//	for _, l := range s.Lanes(safelanes.InSystem(3), safelanes.WithFaction(empire)) {
//	    fmt.Println(l.A.Pos, l.B.Pos)
//	}
package safelanes
