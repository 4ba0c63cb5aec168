// SPDX-License-Identifier: MIT
// Package matrix provides dense kernels used by the lane solver: scaling
// and matrix-vector products. All
// functions perform strict fail-fast validation and return clear errors on
// dimension mismatches.
//
// Notes:
//   - Every kernel has a *Dense fast-path operating on flat slices and a
//     generic At/Set fallback with the same fixed loop order.

package matrix

import "fmt"

// ZeroSum is the initial sum value for dot products and substitutions.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opScale    = "Scale"
	opMatVec   = "MatVec"
	opSymMul   = "SymSparse.MulDense"
	opCholesky = "Cholesky"
	opSolve    = "Factor.Solve"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// Scale returns alpha*m as a fresh Dense.
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	r, c := m.Rows(), m.Cols()
	out, err := NewDenseZeroOK(r, c)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	if d, ok := m.(*Dense); ok {
		for i, v := range d.data {
			out.data[i] = alpha * v
		}

		return out, nil
	}
	var v float64
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opScale, err)
			}
			out.data[i*c+j] = alpha * v
		}
	}

	return out, nil
}

// MatVec computes y = m·x.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(x) != Cols).
//
// Complexity:
//   - Time O(r*c), Space O(r).
func MatVec(m Matrix, x []float64) ([]float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	r, c := m.Rows(), m.Cols()
	y := make([]float64, r)
	var i, j int
	var sum, v float64
	var err error
	if d, ok := m.(*Dense); ok {
		for i = 0; i < r; i++ {
			sum = ZeroSum
			row := d.data[i*c : (i+1)*c]
			for j = 0; j < c; j++ {
				sum += row[j] * x[j]
			}
			y[i] = sum
		}

		return y, nil
	}
	for i = 0; i < r; i++ {
		sum = ZeroSum
		for j = 0; j < c; j++ {
			if v, err = m.At(i, j); err != nil {
				return nil, matrixErrorf(opMatVec, err)
			}
			sum += v * x[j]
		}
		y[i] = sum
	}

	return y, nil
}
