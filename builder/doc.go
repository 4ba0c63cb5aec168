// SPDX-License-Identifier: MIT

// Package builder generates deterministic synthetic galaxies for tests,
// benchmarks and the command line.
//
// A galaxy is a set of star systems scattered over a square, linked by a
// spanning tree of two-way jumps (every system reachable) plus extra jumps
// between nearby systems. Factions claim territories around home systems;
// spobs in a territory belong to its faction with a fixed probability and
// carry presence and a spill-over range.
//
// Determinism:
//   - Every random draw comes from the RNG given by WithSeed or WithRand, in
//     a fixed order (systems, jumps, factions, spobs).
//   - Galaxy without an RNG fails with ErrNeedRandSource.
//
// Options validate eagerly and panic on meaningless values; Galaxy itself
// only returns sentinel errors.
//
// Example:
//
//	u, err := builder.Galaxy(
//	    builder.WithSeed(42),
//	    builder.WithSystems(30),
//	    builder.WithFactions(4),
//	)
package builder
