// SPDX-License-Identifier: MIT

// Package matrix - symmetric sparse storage (upper triangle, CSC).
//
// Purpose:
//   - Assemble large symmetric systems (stiffness/Laplacian matrices) from
//     per-edge stamps without ever materializing n×n dense storage.
//   - Store ONLY the upper triangle (row <= col) in compressed sparse column
//     form: column j holds rows colPtr[j]..colPtr[j+1]-1 in ascending order.
//   - Keep assembly deterministic: triplets are merged after a STABLE sort,
//     so duplicate contributions are summed in insertion order and repeated
//     assemblies of the same input are bit-identical.
//
// Complexity quicksheet:
//   - Builder.Add: O(1) amortized; Compile: O(t log t) for t triplets.
//   - At: O(log nnz(col)); MulDense: O(nnz*k) for k right-hand columns.

package matrix

import (
	"fmt"
	"math"
	"sort"
)

// SymSparseBuilder collects upper-triangle triplets of an n×n symmetric matrix.
// The zero value is not usable; construct with NewSymSparseBuilder.
type SymSparseBuilder struct {
	n       int     // dimension
	entries []entry // raw triplets (row <= col), duplicates allowed
	frozen  bool    // set by Compile; further Add calls fail with ErrFrozen
}

// NewSymSparseBuilder creates a builder for an n×n symmetric matrix.
// n == 0 is legal and compiles into an empty matrix.
//
// Errors:
//   - ErrInvalidDimensions when n < 0.
func NewSymSparseBuilder(n int) (*SymSparseBuilder, error) {
	if n < 0 {
		return nil, ErrInvalidDimensions
	}

	return &SymSparseBuilder{n: n}, nil
}

// N returns the dimension of the matrix under construction.
func (b *SymSparseBuilder) N() int { return b.n }

// Add accumulates v into A[i,j] (and, by symmetry, A[j,i]).
// Indices are normalized so that the stored triplet lies in the upper triangle.
//
// Errors:
//   - ErrFrozen after Compile; ErrOutOfRange on bad indices; ErrNaNInf on non-finite v.
func (b *SymSparseBuilder) Add(i, j int, v float64) error {
	if b.frozen {
		return ErrFrozen
	}
	if i < 0 || i >= b.n || j < 0 || j >= b.n {
		return fmt.Errorf("SymSparseBuilder.Add(%d,%d): %w", i, j, ErrOutOfRange)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("SymSparseBuilder.Add(%d,%d): %w", i, j, ErrNaNInf)
	}
	if i > j {
		i, j = j, i
	}
	b.entries = append(b.entries, entry{row: i, col: j, val: v})

	return nil
}

// AddConductance stamps a two-terminal conductance c between nodes i and j:
// +c on both diagonal entries and -c on the off-diagonal (the graph
// Laplacian contribution of one weighted edge).
// i == j is rejected with ErrOutOfRange since a self-loop has no Laplacian stamp.
func (b *SymSparseBuilder) AddConductance(i, j int, c float64) error {
	if i == j {
		return fmt.Errorf("SymSparseBuilder.AddConductance(%d,%d): %w", i, j, ErrOutOfRange)
	}
	if err := b.Add(i, i, c); err != nil {
		return err
	}
	if err := b.Add(j, j, c); err != nil {
		return err
	}

	return b.Add(i, j, -c)
}

// Compile merges the triplets into CSC form and freezes the builder.
//
// Implementation:
//   - Stage 1: stable sort by (col, row).
//   - Stage 2: single pass summing runs of equal (row, col).
//   - Stage 3: build colPtr by counting.
//
// Every diagonal position touched by Add is kept even if its sum is zero,
// so the sparsity pattern only depends on the stamps, never on values.
func (b *SymSparseBuilder) Compile() (*SymSparse, error) {
	if b.frozen {
		return nil, ErrFrozen
	}
	b.frozen = true

	es := b.entries
	sort.SliceStable(es, func(x, y int) bool {
		if es[x].col != es[y].col {
			return es[x].col < es[y].col
		}
		return es[x].row < es[y].row
	})

	s := &SymSparse{
		n:      b.n,
		colPtr: make([]int, b.n+1),
		rowIdx: make([]int, 0, len(es)),
		val:    make([]float64, 0, len(es)),
	}
	var k int
	for k = 0; k < len(es); k++ {
		last := len(s.rowIdx) - 1
		if k > 0 && es[k].row == es[k-1].row && es[k].col == es[k-1].col {
			s.val[last] += es[k].val
			continue
		}
		s.rowIdx = append(s.rowIdx, es[k].row)
		s.val = append(s.val, es[k].val)
		s.colPtr[es[k].col+1]++
	}
	for k = 0; k < b.n; k++ {
		s.colPtr[k+1] += s.colPtr[k]
	}
	b.entries = nil

	return s, nil
}

// SymSparse is an immutable symmetric matrix stored as its upper triangle in CSC.
type SymSparse struct {
	n      int       // dimension
	colPtr []int     // len n+1
	rowIdx []int     // len nnz; ascending within each column; rowIdx <= col
	val    []float64 // len nnz
}

// N returns the dimension.
func (s *SymSparse) N() int { return s.n }

// NNZ returns the number of stored (upper-triangle) entries.
func (s *SymSparse) NNZ() int { return len(s.val) }

// At returns A[i,j] using symmetry; unstored entries are zero.
func (s *SymSparse) At(i, j int) (float64, error) {
	if i < 0 || i >= s.n || j < 0 || j >= s.n {
		return 0, fmt.Errorf("SymSparse.At(%d,%d): %w", i, j, ErrOutOfRange)
	}
	if i > j {
		i, j = j, i
	}
	lo, hi := s.colPtr[j], s.colPtr[j+1]
	p := lo + sort.SearchInts(s.rowIdx[lo:hi], i)
	if p < hi && s.rowIdx[p] == i {
		return s.val[p], nil
	}

	return 0, nil
}

// MaxAbsDiag returns max_i |A[i,i]|; 0 for an empty matrix.
func (s *SymSparse) MaxAbsDiag() float64 {
	var m float64
	for j := 0; j < s.n; j++ {
		hi := s.colPtr[j+1]
		if hi > s.colPtr[j] && s.rowIdx[hi-1] == j {
			m = math.Max(m, math.Abs(s.val[hi-1]))
		}
	}

	return m
}

// MulDense computes A·X for a dense X with N() rows, using both triangles.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(nnz * X.Cols()), Space O(n * X.Cols()).
func (s *SymSparse) MulDense(x *Dense) (*Dense, error) {
	if x == nil {
		return nil, matrixErrorf(opSymMul, ErrNilMatrix)
	}
	if x.r != s.n {
		return nil, matrixErrorf(opSymMul, ErrDimensionMismatch)
	}
	k := x.c
	out, err := NewDenseZeroOK(s.n, k)
	if err != nil {
		return nil, matrixErrorf(opSymMul, err)
	}
	var j, p, i, t int
	var a float64
	for j = 0; j < s.n; j++ {
		xj := x.data[j*k : (j+1)*k]
		oj := out.data[j*k : (j+1)*k]
		for p = s.colPtr[j]; p < s.colPtr[j+1]; p++ {
			i = s.rowIdx[p]
			a = s.val[p]
			xi := x.data[i*k : (i+1)*k]
			oi := out.data[i*k : (i+1)*k]
			for t = 0; t < k; t++ {
				oi[t] += a * xj[t]
			}
			if i != j {
				for t = 0; t < k; t++ {
					oj[t] += a * xi[t]
				}
			}
		}
	}

	return out, nil
}

// ToDense materializes the full symmetric matrix (diagnostics and tests).
// Returns a 0×0-safe Dense for n == 0.
func (s *SymSparse) ToDense() *Dense {
	d, _ := NewDenseZeroOK(s.n, s.n)
	for j := 0; j < s.n; j++ {
		for p := s.colPtr[j]; p < s.colPtr[j+1]; p++ {
			i := s.rowIdx[p]
			d.data[i*s.n+j] = s.val[p]
			d.data[j*s.n+i] = s.val[p]
		}
	}

	return d
}
