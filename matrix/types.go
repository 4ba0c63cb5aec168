// SPDX-License-Identifier: MIT

// Package matrix: domain types shared by the dense and sparse kernels.
// This file contains ONLY the public Matrix interface and small helper
// types. Errors and options live in dedicated files (errors.go, options.go).
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Complexity notes: all methods are expected O(1).
// Sparse matrices do not implement Matrix; they expose their own read API
// because Set on a compiled CSC structure is not O(1).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error
}

// entry is one (row, col, value) triplet collected by SymSparseBuilder.
// Rows are normalized so that row <= col (upper triangle).
type entry struct {
	row int     // upper-triangle row index (row <= col)
	col int     // column index
	val float64 // accumulated contribution
}
