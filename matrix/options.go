// SPDX-License-Identifier: MIT

// Package matrix: functional configuration for numeric policy and solvers.
// This file defines:
//   - Option / Options (functional options with internal state),
//   - documented defaults (constants),
//   - WithX constructors with strong validation (panic on nonsensical values),
//   - gatherOptions helper (internal) that enforces invariants.
//
// Design goals:
//   - Deterministic behavior: no global state, no implicit randomness.
//   - No dead switches: each flag impacts behavior and is covered by tests.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the tolerance used by ValidateSymmetric.
	DefaultEpsilon = 1e-9

	// DefaultWorkers is the number of goroutines used by Cholesky.Solve.
	// 1 keeps every solve on the calling goroutine's schedule (sequential).
	DefaultWorkers = 1
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicWorkersInvalid = "matrix: WithWorkers: workers must be >= 1"
)

// Option mutates internal options. Safe to apply repeatedly (idempotent).
// Constructors MUST panic only on nonsensical values (programmer error).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; public entry points accept `...Option`.
type Options struct {
	eps     float64 // >= 0; DefaultEpsilon
	workers int     // >= 1; DefaultWorkers
}

// WithEpsilon sets the tolerance eps used by ValidateSymmetric.
// Panics when eps is NaN, ±Inf or negative.
func WithEpsilon(eps float64) Option {
	if math.IsNaN(eps) || math.IsInf(eps, 0) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithWorkers bounds the number of concurrent column solves.
//
// Behavior highlights:
//   - Each column of a multi-RHS solve is independent; the factor is read-only,
//     so columns can be dispatched to an errgroup with SetLimit(workers).
//   - Results are identical for any worker count (columns never interact).
//
// Panics if workers < 1.
func WithWorkers(workers int) Option {
	if workers < 1 {
		panic(panicWorkersInvalid)
	}

	return func(o *Options) { o.workers = workers }
}

// defaultOptions returns the zero-configuration policy.
func defaultOptions() Options {
	return Options{
		eps:     DefaultEpsilon,
		workers: DefaultWorkers,
	}
}

// gatherOptions applies user options in order over the defaults; later
// options win. Nil options are skipped.
func gatherOptions(user ...Option) Options {
	o := defaultOptions()
	for _, opt := range user {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
