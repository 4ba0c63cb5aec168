// SPDX-License-Identifier: MIT

// Package matrix offers the numeric kernels behind the lane solver.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 matrix with safe accessors, used for
//     multi-column right-hand sides, potentials and small dense blocks.
//   - SymSparseBuilder / SymSparse: symmetric sparse assembly from
//     per-edge conductance stamps, stored as the upper triangle in CSC.
//   - Cholesky: sparse L·Lᵀ factorization of symmetric positive-definite
//     systems, reused across many right-hand sides via Solve (optionally
//     parallel over columns with WithWorkers).
//
// All public operations return sentinel errors (see errors.go) that can be
// matched with errors.Is; none of them panic on caller input.
//
// Quick example:
//
//	b, _ := matrix.NewSymSparseBuilder(2)
//	_ = b.AddConductance(0, 1, 1.0) // edge 0-1
//	_ = b.Add(0, 0, 1.0)            // boundary term at node 0
//	k, _ := b.Compile()
//	f, _ := matrix.NewCholesky(k)
//	rhs, _ := matrix.NewDense(2, 1)
//	_ = rhs.Set(1, 0, 1)
//	x, _ := f.Solve(rhs)
package matrix
