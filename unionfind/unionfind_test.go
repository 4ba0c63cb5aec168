package unionfind_test

import (
	"testing"

	"github.com/naev/naev-sub006/unionfind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestUnion_RankTieBreak verifies the documented root selection:
// equal ranks keep the first argument's root.
func TestUnion_RankTieBreak(t *testing.T) {
	f := unionfind.New(4)
	assert.Equal(t, 0, f.Union(0, 1)) // tie: 1 goes under 0
	assert.Equal(t, 3, f.Union(3, 2)) // tie: 2 goes under 3
	assert.Equal(t, 3, f.Union(2, 0)) // roots 3 and 0 tie at rank 1: 0 goes under 3
	assert.Equal(t, 3, f.Find(1))
	assert.Equal(t, 1, f.Sets())
}

// TestFind_PathCompression builds a long chain and checks every element resolves.
func TestFind_PathCompression(t *testing.T) {
	const n = 10000
	f := unionfind.New(n)
	for i := 1; i < n; i++ {
		f.Union(i-1, i)
	}
	root := f.Find(n - 1)
	for i := 0; i < n; i++ {
		require.Equal(t, root, f.Find(i))
	}
	assert.Equal(t, 1, f.Sets())
}

// TestComponents_DenseNumbering checks dense component ids in ascending root order.
func TestComponents_DenseNumbering(t *testing.T) {
	f := unionfind.New(6)
	f.Union(4, 5)
	f.Union(1, 2)
	assert.True(t, f.Same(5, 4))
	assert.False(t, f.Same(0, 1))

	assert.Equal(t, []int{0, 1, 3, 4}, f.Roots())
	assert.Equal(t, []int{0, 1, 1, 2, 3, 3}, f.Components())

	_, err := f.FindChecked(6)
	assert.ErrorIs(t, err, unionfind.ErrOutOfRange)
	r, err := f.FindChecked(2)
	require.NoError(t, err)
	assert.Equal(t, 1, r)
}
