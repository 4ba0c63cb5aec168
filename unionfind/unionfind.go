package unionfind

import "errors"

// ErrOutOfRange indicates an element outside 0..n-1 was passed to a checked method.
var ErrOutOfRange = errors.New("unionfind: element out of range")

// Forest is a disjoint-set forest. The zero value is an empty forest.
// A Forest is not safe for concurrent mutation.
type Forest struct {
	parent []int
	rank   []int
	sets   int
}

// New returns a forest of n singleton sets {0}, {1}, ..., {n-1}.
func New(n int) *Forest {
	f := &Forest{
		parent: make([]int, n),
		rank:   make([]int, n),
		sets:   n,
	}
	for i := range f.parent {
		f.parent[i] = i
	}

	return f
}

// Len returns the number of elements.
func (f *Forest) Len() int { return len(f.parent) }

// Sets returns the current number of disjoint sets.
func (f *Forest) Sets() int { return f.sets }

// Find returns the root of x's set. x must be in range; use FindChecked
// for untrusted input.
func (f *Forest) Find(x int) int {
	for f.parent[x] != x {
		// Path halving: point x at its grandparent.
		f.parent[x] = f.parent[f.parent[x]]
		x = f.parent[x]
	}

	return x
}

// FindChecked is Find with a bounds check.
func (f *Forest) FindChecked(x int) (int, error) {
	if x < 0 || x >= len(f.parent) {
		return 0, ErrOutOfRange
	}

	return f.Find(x), nil
}

// Union merges the sets of x and y and returns the surviving root.
// Lower rank goes under higher rank; on a tie y's root goes under x's root.
func (f *Forest) Union(x, y int) int {
	rx, ry := f.Find(x), f.Find(y)
	if rx == ry {
		return rx
	}
	f.sets--
	if f.rank[rx] < f.rank[ry] {
		f.parent[rx] = ry
		return ry
	}
	f.parent[ry] = rx
	if f.rank[rx] == f.rank[ry] {
		f.rank[rx]++
	}

	return rx
}

// Same reports whether x and y are in the same set.
func (f *Forest) Same(x, y int) bool { return f.Find(x) == f.Find(y) }

// Roots returns every root in ascending order.
func (f *Forest) Roots() []int {
	roots := make([]int, 0, f.sets)
	for i := range f.parent {
		if f.Find(i) == i {
			roots = append(roots, i)
		}
	}

	return roots
}

// Components maps each element to a dense component index 0..Sets()-1,
// numbered by ascending root.
func (f *Forest) Components() []int {
	idx := make(map[int]int, f.sets)
	for k, r := range f.Roots() {
		idx[r] = k
	}
	out := make([]int, len(f.parent))
	for i := range f.parent {
		out[i] = idx[f.Find(i)]
	}

	return out
}
