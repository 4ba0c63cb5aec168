// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic test fixtures and utilities for kernels.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/naev/naev-sub006/matrix"
)

// hide WRAPS any Matrix to hide its concrete type from type assertions,
// forcing the generic At/Set fallback paths of the kernels.
type hide struct{ matrix.Matrix }

// MustDense ALLOCATES an r×c *Dense from row-major values or fails the test.
func MustDense(t *testing.T, r, c int, vals ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	if err != nil {
		t.Fatalf("NewDense(%d,%d): %v", r, c, err)
	}
	if len(vals) == 0 {
		return m
	}
	if len(vals) != r*c {
		t.Fatalf("MustDense: got %d values for %dx%d", len(vals), r, c)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if err = m.Set(i, j, vals[i*c+j]); err != nil {
				t.Fatalf("Set(%d,%d): %v", i, j, err)
			}
		}
	}

	return m
}

// AllClose reports whether a and b have the same shape and |a-b| <= tol elementwise.
func AllClose(t *testing.T, a, b matrix.Matrix, tol float64) bool {
	t.Helper()
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false
	}
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < a.Cols(); j++ {
			x, _ := a.At(i, j)
			y, _ := b.At(i, j)
			if math.Abs(x-y) > tol {
				return false
			}
		}
	}

	return true
}

// naiveMul is the reference triple-loop product a×b.
func naiveMul(t *testing.T, a, b *matrix.Dense) *matrix.Dense {
	t.Helper()
	out := MustDense(t, a.Rows(), b.Cols())
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < b.Cols(); j++ {
			var sum float64
			for k := 0; k < a.Cols(); k++ {
				x, _ := a.At(i, k)
				y, _ := b.At(k, j)
				sum += x * y
			}
			if err := out.Set(i, j, sum); err != nil {
				t.Fatalf("Set(%d,%d): %v", i, j, err)
			}
		}
	}

	return out
}

// randomLaplacianSPD builds a connected weighted path+chords Laplacian over n
// nodes plus a boundary term at node 0, which is symmetric positive definite.
// Returns the compiled sparse matrix and a dense copy for reference kernels.
func randomLaplacianSPD(t *testing.T, n int, seed int64) (*matrix.SymSparse, *matrix.Dense) {
	t.Helper()
	r := rand.New(rand.NewSource(seed))
	b, err := matrix.NewSymSparseBuilder(n)
	if err != nil {
		t.Fatalf("NewSymSparseBuilder: %v", err)
	}
	for i := 1; i < n; i++ {
		if err = b.AddConductance(i-1, i, 0.5+r.Float64()); err != nil {
			t.Fatalf("AddConductance: %v", err)
		}
	}
	for k := 0; k < n; k++ {
		u, v := r.Intn(n), r.Intn(n)
		if u == v {
			continue
		}
		if err = b.AddConductance(u, v, r.Float64()); err != nil {
			t.Fatalf("AddConductance: %v", err)
		}
	}
	if err = b.Add(0, 0, 2.0); err != nil {
		t.Fatalf("Add: %v", err)
	}
	s, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	return s, s.ToDense()
}
