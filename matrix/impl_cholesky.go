// SPDX-License-Identifier: MIT

// Package matrix - sparse Cholesky factorization A = L·Lᵀ.
//
// Purpose:
//   - Factorize a symmetric positive-definite SymSparse once and reuse the
//     factor for many right-hand sides (potentials and adjoints).
//
// Implementation (up-looking, row by row):
//   - Stage 1 (symbolic): elimination tree of A from its upper triangle,
//     then per-row nonzero patterns of L via tree reaches to count the
//     entries of each column of L.
//   - Stage 2 (numeric): for row k, scatter A[0:k,k] into a work vector,
//     triangular-solve along the reach of k, append L[k,i] to column i and
//     finally the pivot L[k,k] = sqrt(d). d <= 0 means A is not SPD.
//
// Behavior highlights:
//   - Natural ordering (no fill-reducing permutation): callers that group
//     vertices by locality (e.g. per star system) already get near block
//     diagonal systems with little fill.
//   - Diagonal entry is stored FIRST in every column of L.
//   - Fully deterministic: fixed k order, reach order depends only on pattern.
//
// Complexity:
//   - Symbolic O(|L|), numeric O(Σ_j |L_j|²) time; O(|L|) memory.

package matrix

import (
	"fmt"
	"math"
)

// Cholesky holds the lower-triangular factor L in CSC form.
type Cholesky struct {
	n      int       // dimension
	colPtr []int     // len n+1
	rowIdx []int     // row indices; first entry of each column is the diagonal
	val    []float64 // numeric values of L
}

// etree computes the elimination tree of A (upper triangle in CSC).
// parent[k] == -1 marks a root.
func etree(a *SymSparse) []int {
	n := a.n
	parent := make([]int, n)
	ancestor := make([]int, n)
	var k, p, i, inext int
	for k = 0; k < n; k++ {
		parent[k] = -1
		ancestor[k] = -1
		for p = a.colPtr[k]; p < a.colPtr[k+1]; p++ {
			// Walk from i toward the root, compressing ancestors onto k.
			for i = a.rowIdx[p]; i != -1 && i < k; i = inext {
				inext = ancestor[i]
				ancestor[i] = k
				if inext == -1 {
					parent[i] = k
				}
			}
		}
	}

	return parent
}

// ereach writes the nonzero pattern of row k of L (excluding the diagonal)
// into stack[top:n] in topological order and returns top.
// mark must hold values != k for all nodes on entry; they are left == k
// for visited nodes, so callers can reuse it with increasing k.
func ereach(a *SymSparse, k int, parent, stack, path, mark []int) int {
	n := a.n
	top := n
	mark[k] = k
	var p, i, length int
	for p = a.colPtr[k]; p < a.colPtr[k+1]; p++ {
		i = a.rowIdx[p]
		if i > k {
			continue
		}
		length = 0
		for ; mark[i] != k; i = parent[i] {
			path[length] = i
			length++
			mark[i] = k
		}
		for length > 0 {
			length--
			top--
			stack[top] = path[length]
		}
	}

	return top
}

// NewCholesky factorizes the symmetric matrix a.
//
// Errors:
//   - ErrNilMatrix when a is nil.
//   - ErrNotPositiveDefinite (wrapped with the failing row) on a non-positive pivot.
//
// Complexity:
//   - See package header of this file.
func NewCholesky(a *SymSparse) (*Cholesky, error) {
	if a == nil {
		return nil, matrixErrorf(opCholesky, ErrNilMatrix)
	}
	n := a.n
	parent := etree(a)
	stack := make([]int, n)
	path := make([]int, n)
	mark := make([]int, n)
	for i := range mark {
		mark[i] = -1
	}

	// Stage 1: column counts of L (diagonal included).
	counts := make([]int, n)
	var k, top, p int
	for k = 0; k < n; k++ {
		counts[k]++
		top = ereach(a, k, parent, stack, path, mark)
		for p = top; p < n; p++ {
			counts[stack[p]]++
		}
	}

	f := &Cholesky{n: n, colPtr: make([]int, n+1)}
	for k = 0; k < n; k++ {
		f.colPtr[k+1] = f.colPtr[k] + counts[k]
	}
	nnz := f.colPtr[n]
	f.rowIdx = make([]int, nnz)
	f.val = make([]float64, nnz)

	// Stage 2: numeric factorization.
	next := make([]int, n) // next free slot per column of L
	copy(next, f.colPtr[:n])
	x := make([]float64, n)
	for i := range mark {
		mark[i] = -1
	}
	var i, q int
	var d, lki float64
	for k = 0; k < n; k++ {
		top = ereach(a, k, parent, stack, path, mark)
		x[k] = 0
		for p = a.colPtr[k]; p < a.colPtr[k+1]; p++ {
			if a.rowIdx[p] <= k {
				x[a.rowIdx[p]] = a.val[p]
			}
		}
		d = x[k]
		x[k] = 0
		for ; top < n; top++ {
			i = stack[top]
			lki = x[i] / f.val[f.colPtr[i]]
			x[i] = 0
			for q = f.colPtr[i] + 1; q < next[i]; q++ {
				x[f.rowIdx[q]] -= f.val[q] * lki
			}
			d -= lki * lki
			q = next[i]
			next[i]++
			f.rowIdx[q] = k
			f.val[q] = lki
		}
		if d <= 0 || math.IsNaN(d) {
			return nil, matrixErrorf(opCholesky, fmt.Errorf("pivot %d = %g: %w", k, d, ErrNotPositiveDefinite))
		}
		q = next[k]
		next[k]++
		f.rowIdx[q] = k
		f.val[q] = math.Sqrt(d)
	}

	return f, nil
}

// N returns the dimension of the factorized system.
func (f *Cholesky) N() int { return f.n }

// NNZ returns the number of stored entries of L (fill included).
func (f *Cholesky) NNZ() int { return len(f.val) }

// solveInPlace overwrites x with A⁻¹x using L then Lᵀ.
func (f *Cholesky) solveInPlace(x []float64) {
	var j, p int
	// Forward: L y = b (column oriented).
	for j = 0; j < f.n; j++ {
		x[j] /= f.val[f.colPtr[j]]
		for p = f.colPtr[j] + 1; p < f.colPtr[j+1]; p++ {
			x[f.rowIdx[p]] -= f.val[p] * x[j]
		}
	}
	// Backward: Lᵀ x = y.
	for j = f.n - 1; j >= 0; j-- {
		for p = f.colPtr[j] + 1; p < f.colPtr[j+1]; p++ {
			x[j] -= f.val[p] * x[f.rowIdx[p]]
		}
		x[j] /= f.val[f.colPtr[j]]
	}
}
