// SPDX-License-Identifier: MIT

package safelanes

import (
	"github.com/naev/naev-sub006/matrix"
)

// LinearSolver factorizes symmetric positive-definite stiffness matrices.
type LinearSolver interface {
	Factorize(k *matrix.SymSparse) (Factorization, error)
}

// Factorization solves K·X = B for a factorized K; it is read-only and may
// be shared by concurrent solves.
type Factorization interface {
	Solve(b *matrix.Dense) (*matrix.Dense, error)
}

// CholeskySolver is the default backend: sparse Cholesky with
// right-hand-side columns spread over Workers goroutines.
type CholeskySolver struct {
	Workers int
}

// Factorize implements LinearSolver.
func (c CholeskySolver) Factorize(k *matrix.SymSparse) (Factorization, error) {
	f, err := matrix.NewCholesky(k)
	if err != nil {
		return nil, err
	}
	w := c.Workers
	if w < 1 {
		w = 1
	}

	return choleskyFactor{f: f, workers: w}, nil
}

type choleskyFactor struct {
	f       *matrix.Cholesky
	workers int
}

func (c choleskyFactor) Solve(b *matrix.Dense) (*matrix.Dense, error) {
	return c.f.Solve(b, matrix.WithWorkers(c.workers))
}
