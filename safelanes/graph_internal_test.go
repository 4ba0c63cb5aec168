// SPDX-License-Identifier: MIT

package safelanes

import (
	"math"
	"testing"

	"github.com/naev/naev-sub006/matrix"
	"github.com/naev/naev-sub006/universe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func vec(x, y float64) universe.Vec2 { return universe.Vec2{X: x, Y: y} }

func TestTooFlat(t *testing.T) {
	t.Parallel()
	cosMin := math.Cos(DefaultMinAngle * math.Pi / 180)
	cases := []struct {
		name    string
		m, n, p universe.Vec2
		want    bool
	}{
		{"almost on segment", vec(0, 0), vec(10, 0), vec(5, 0.1), true},
		{"near m end", vec(0, 0), vec(10, 0), vec(1, 0.05), true},
		{"well off axis", vec(0, 0), vec(10, 0), vec(5, 5), false},
		{"beyond n", vec(0, 0), vec(10, 0), vec(20, 0), false},
		{"behind m", vec(0, 0), vec(10, 0), vec(-3, 0), false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tooFlat(tc.m, tc.n, tc.p, cosMin))
			assert.Equal(t, tc.want, tooFlat(tc.n, tc.m, tc.p, cosMin), "symmetric in m, n")
		})
	}
}

func mustUniverse(t *testing.T, systems []universe.System, factions []universe.Faction) *universe.Universe {
	t.Helper()
	u, err := universe.New(systems, factions)
	require.NoError(t, err)
	return u
}

func TestBuildGraph_VerticesAndFlatness(t *testing.T) {
	t.Parallel()
	u := mustUniverse(t, []universe.System{
		{
			Name: "Line",
			Spobs: []universe.Spob{
				{Name: "a", Pos: vec(0, 0), Faction: 1, Presence: 10},
				{Name: "b", Pos: vec(500, 0), Faction: 1, Presence: 10},
				{Name: "c", Pos: vec(1000, 0), Faction: 1, Presence: 10},
				{Name: "barren", Pos: vec(0, 700)},
				{Name: "closed", Pos: vec(0, -700), Presence: 10, NoLanes: true},
			},
			Jumps: []universe.JumpPoint{
				{Target: 1, Pos: vec(500, 2000)},
				{Target: 2, Pos: vec(1000, 2000), ExitOnly: true},
				{Target: 3, Pos: vec(0, 2000), NoLanes: true},
			},
		},
		{
			Name:  "Quiet",
			Jumps: []universe.JumpPoint{{Target: 0, Pos: vec(0, 0), Hidden: true}},
		},
		{
			Name:  "Far",
			Jumps: []universe.JumpPoint{{Target: 0, Pos: vec(0, 0)}},
		},
		{
			Name:  "Deep",
			Jumps: []universe.JumpPoint{{Target: 0, Pos: vec(0, 0)}},
		},
	}, []universe.Faction{{Name: "Empire", LaneLengthPerPresence: 1}})

	g := buildGraph(u, DefaultMinAngle)
	// Line keeps a, b, c and its only enterable jump; Far and Deep keep theirs.
	require.Len(t, g.vertices, 6)
	assert.Equal(t, Vertex{System: 0, Kind: VertexJump, Index: 0}, g.vertices[3])
	assert.Equal(t, Vertex{System: 2, Kind: VertexJump, Index: 0}, g.vertices[4])
	assert.Equal(t, Vertex{System: 3, Kind: VertexJump, Index: 0}, g.vertices[5])
	assert.Equal(t, []int{0, 4, 4, 5, 6}, g.sysVert)

	var pairs [][2]int
	for _, e := range g.edges {
		pairs = append(pairs, [2]int{e.v0, e.v1})
	}
	// a–c is blocked by b; the rest survive, in ascending (v1, v0) order.
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}, {0, 3}, {1, 3}, {2, 3}}, pairs)
	assert.InDelta(t, 1.0/500, g.edges[0].cond, 1e-15)

	// Every pairing has a hidden, exit-only or closed side, so there are no virtual links.
	assert.Empty(t, g.links)
}

func TestAssemble_AnchorsPerComponent(t *testing.T) {
	t.Parallel()
	sys := func(name string, target int, hidden bool) universe.System {
		return universe.System{
			Name:  name,
			Spobs: []universe.Spob{{Name: name + "-1", Pos: vec(0, 0), Faction: 1, Presence: 5}},
			Jumps: []universe.JumpPoint{{Target: target, Pos: vec(100, 0), Hidden: hidden}},
		}
	}
	factions := []universe.Faction{{Name: "Empire", LaneLengthPerPresence: 1}}

	linked := mustUniverse(t, []universe.System{sys("A", 1, false), sys("B", 0, false)}, factions)
	g := buildGraph(linked, DefaultMinAngle)
	require.Len(t, g.links, 1)
	reg, err := newRegistry(linked, linked, g.numSystems())
	require.NoError(t, err)
	asm, err := assemble(g, linked, linked, reg, DefaultAlpha, DefaultJumpConductivity)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, asm.anchors)
	assert.Equal(t, []int{0, 0}, asm.comp)
	assert.InDelta(t, (1+DefaultAlpha)*0.01, asm.boundary, 1e-15)

	split := mustUniverse(t, []universe.System{sys("A", 1, false), sys("B", 0, true)}, factions)
	g = buildGraph(split, DefaultMinAngle)
	require.Empty(t, g.links)
	reg, err = newRegistry(split, split, g.numSystems())
	require.NoError(t, err)
	asm, err = assemble(g, split, split, reg, DefaultAlpha, DefaultJumpConductivity)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, asm.anchors) // B keeps only its spob, vertex 2

	k, err := asm.stiffness(g, []float64{g.edges[0].cond}, DefaultJumpConductivity)
	require.NoError(t, err)
	d, err := k.At(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, 0.01+asm.boundary, d, 1e-15)
	require.NoError(t, matrix.ValidateSymmetric(k.ToDense()))
}

func TestAssemble_PresenceOverflow(t *testing.T) {
	t.Parallel()
	u := mustUniverse(t, []universe.System{{
		Name: "Rich",
		Spobs: []universe.Spob{
			{Name: "a", Pos: vec(0, 0), Faction: 1, Presence: 1e200},
			{Name: "b", Pos: vec(1000, 0), Faction: 1, Presence: 1e200},
		},
	}}, []universe.Faction{{Name: "Empire", LaneLengthPerPresence: 1}})
	g := buildGraph(u, DefaultMinAngle)
	reg, err := newRegistry(u, u, g.numSystems())
	require.NoError(t, err)
	_, err = assemble(g, u, u, reg, DefaultAlpha, DefaultJumpConductivity)
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

func TestNewEngine_MasksAndReach(t *testing.T) {
	t.Parallel()
	u := mustUniverse(t, []universe.System{{
		Name: "Mixed",
		Spobs: []universe.Spob{
			{Name: "imperial", Pos: vec(0, 0), Faction: 1, Presence: 10},
			{Name: "free", Pos: vec(0, 1000), Faction: 3, Presence: 10},
		},
		Jumps: []universe.JumpPoint{{Target: 0, Pos: vec(1000, 0)}},
	}}, []universe.Faction{
		{Name: "Empire", LaneLengthPerPresence: 1},
		{Name: "Dvaered", LaneLengthPerPresence: 1},
		{Name: "Traders", LaneLengthPerPresence: 0},
	})
	// Dvaered has no presence anywhere and Traders has no lane length per
	// presence, so only Empire builds lanes.
	require.Positive(t, u.Presence(0, 3))
	g := buildGraph(u, DefaultMinAngle)
	reg, err := newRegistry(u, u, g.numSystems())
	require.NoError(t, err)
	require.Len(t, reg.factions, 1)
	assert.Equal(t, universe.FactionID(1), reg.factions[0].id)
	assert.NotContains(t, reg.bitOf, universe.FactionID(3))
	asm, err := assemble(g, u, u, reg, DefaultAlpha, DefaultJumpConductivity)
	require.NoError(t, err)
	e := newEngine(DefaultOptions(), g, reg, asm, u)

	assert.Equal(t, []uint64{1, 0, 0}, e.reach)
	// Edges: imperial–free, imperial–jump, free–jump. A non-builder owner adds no bits.
	assert.Equal(t, []uint64{1, 1, reg.allMask()}, e.mask)

	e.activate(0, 0, 0)
	assert.Equal(t, universe.FactionID(1), e.owner[0])
	assert.InDelta(t, g.edges[0].cond*(1+DefaultAlpha), e.cond[0], 1e-15)
	assert.Equal(t, uint64(1), e.reach[1])
	assert.Panics(t, func() { e.activate(0, 0, 1) })
}
