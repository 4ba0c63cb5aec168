// SPDX-License-Identifier: MIT

// Package matrix - multi right-hand-side solves against one factorization.
//
// Purpose:
//   - Solve A·X = B column by column, reusing a single read-only Cholesky factor.
//   - Optionally spread the columns across a bounded errgroup (WithWorkers).
//
// Determinism:
//   - Each column is solved by the same sequential kernel regardless of the
//     worker count, so results are bit-identical for any parallelism.
//   - Distinct goroutines write distinct columns of the result; no element is
//     shared between workers.

package matrix

import (
	"golang.org/x/sync/errgroup"
)

// Solve returns X with A·X = B for every column of B.
//
// Implementation:
//   - Stage 1: validate B (non-nil, Rows == N()).
//   - Stage 2: allocate X (0 columns allowed).
//   - Stage 3: dispatch columns to an errgroup limited to Workers(); each
//     goroutine owns a scratch vector.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(k·|L|) for k columns, Space O(n·k) plus O(n) per worker.
func (f *Cholesky) Solve(b *Dense, opts ...Option) (*Dense, error) {
	if b == nil {
		return nil, matrixErrorf(opSolve, ErrNilMatrix)
	}
	if b.r != f.n {
		return nil, matrixErrorf(opSolve, ErrDimensionMismatch)
	}
	o := gatherOptions(opts...)
	out, err := NewDenseZeroOK(b.r, b.c)
	if err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	if b.c == 0 || f.n == 0 {
		return out, nil
	}

	if o.workers == 1 {
		scratch := make([]float64, f.n)
		for j := 0; j < b.c; j++ {
			f.solveColumn(b, out, j, scratch)
		}

		return out, nil
	}

	var g errgroup.Group
	g.SetLimit(o.workers)
	for j := 0; j < b.c; j++ {
		col := j
		g.Go(func() error {
			f.solveColumn(b, out, col, make([]float64, f.n))
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}

	return out, nil
}

// solveColumn solves for column j of b into column j of out using scratch.
func (f *Cholesky) solveColumn(b, out *Dense, j int, scratch []float64) {
	var i int
	for i = 0; i < f.n; i++ {
		scratch[i] = b.data[i*b.c+j]
	}
	f.solveInPlace(scratch)
	out.setCol(j, scratch)
}
