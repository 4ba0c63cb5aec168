// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/naev/naev-sub006/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidators(t *testing.T) {
	t.Parallel()
	var typedNil *matrix.Dense
	sq := MustDense(t, 2, 2, 1, 2, 3, 4)
	wide := MustDense(t, 2, 3)

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil interface", matrix.ValidateNotNil(nil), matrix.ErrNilMatrix},
		{"typed nil", matrix.ValidateNotNil(typedNil), matrix.ErrNilMatrix},
		{"square", matrix.ValidateSquare(sq), nil},
		{"non-square", matrix.ValidateSquare(wide), matrix.ErrNonSquare},
		{"vec ok", matrix.ValidateVecLen([]float64{1, 2}, 2), nil},
		{"vec empty", matrix.ValidateVecLen(nil, 0), nil},
		{"vec nil", matrix.ValidateVecLen(nil, 2), matrix.ErrNilMatrix},
		{"vec short", matrix.ValidateVecLen([]float64{1}, 2), matrix.ErrDimensionMismatch},
		{"asymmetric", matrix.ValidateSymmetric(sq, matrix.WithEpsilon(0.5)), matrix.ErrAsymmetry},
		{"symmetric within tol", matrix.ValidateSymmetric(sq, matrix.WithEpsilon(1)), nil},
		{"symmetric nil", matrix.ValidateSymmetric(nil), matrix.ErrNilMatrix},
	}
	for _, tc := range tests {
		if tc.want == nil {
			require.NoError(t, tc.err, tc.name)
			continue
		}
		assert.ErrorIs(t, tc.err, tc.want, tc.name)
	}
}
