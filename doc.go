// Package naev is the safe-lane generator of a space trading universe:
// given star systems, their spobs and jump points, and each faction's
// presence, it computes which patrolled routes every faction maintains.
//
// 🚀 What is in the module?
//
//	• Universe model: systems, spobs, jumps, factions, presence spreading
//	• YAML documents, scripted diffs and a SQLite store for the universe
//	• Sparse symmetric assembly and Cholesky solves for the lane network
//	• Greedy, budgeted lane activation driven by an adjoint gradient
//	• Lane queries by owner, standing and system
//	• A seeded galaxy generator and a cobra CLI with a file watcher
//
// Packages:
//
//	universe/     topology, factions, presence, YAML/SQLite, diffs
//	safelanes/    graph building, assembly, greedy engine, queries, metrics
//	matrix/       Dense, SymSparse, sparse Cholesky, parallel column solves
//	unionfind/    disjoint sets for system connectivity
//	builder/      deterministic synthetic galaxies
//	config/       YAML configuration with validation
//	cmd/safelanes command line front end
//
// Quick example:
//
//	u, _ := universe.LoadFile("universe.yaml")
//	s := safelanes.NewSolver(safelanes.WithLogger(zap.NewExample()))
//	if _, err := s.RecalculateUniverse(u); err != nil {
//		return err
//	}
//	empire, _ := u.FactionByName("Empire")
//	for _, l := range s.Lanes(safelanes.WithFaction(empire), safelanes.WithStanding(safelanes.StandingFriendly)) {
//		fmt.Println(u.System(l.System).Name, l.A.Pos, l.B.Pos)
//	}
//
//	go install github.com/naev/naev-sub006/cmd/safelanes@latest
package naev
