// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface in the matrix package.
package matrix_test

import (
	"math"
	"testing"

	"github.com/naev/naev-sub006/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	// The relaxed constructor accepts empty shapes but not negative ones.
	m, err := matrix.NewDenseZeroOK(4, 0)
	require.NoError(t, err)
	require.Equal(t, 4, m.Rows())
	require.Equal(t, 0, m.Cols())

	_, err = matrix.NewDenseZeroOK(-1, 2)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestAtSetOutOfBounds ensures accessors return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m := MustDense(t, 2, 2)

	_, err := m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	require.ErrorIs(t, m.Set(2, 0, 1.23), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.AddAt(0, -1, 4.56), matrix.ErrOutOfRange)

	_, err = m.RowView(2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestSetRejectsNaNInf checks the default finite-only numeric policy.
func TestSetRejectsNaNInf(t *testing.T) {
	m := MustDense(t, 1, 1)
	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)

	require.NoError(t, m.Set(0, 0, math.MaxFloat64))
	require.ErrorIs(t, m.AddAt(0, 0, math.MaxFloat64), matrix.ErrNaNInf)
}

// TestRowViewSharesStorage verifies RowView aliases the matrix.
func TestRowViewSharesStorage(t *testing.T) {
	m := MustDense(t, 2, 3, 1, 2, 3, 4, 5, 6)

	row, err := m.RowView(1)
	require.NoError(t, err)
	require.Equal(t, []float64{4, 5, 6}, row)

	row[0] = 40
	v, err := m.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 40.0, v)
}

// TestStringOutput checks that String() formats the matrix row by row.
func TestStringOutput(t *testing.T) {
	m := MustDense(t, 2, 2, 1, 2, 3, 4)
	require.Equal(t, "[1, 2]\n[3, 4]\n", m.String())
}
