// SPDX-License-Identifier: MIT

package safelanes_test

import (
	"errors"
	"fmt"
	"sort"
	"testing"

	"github.com/naev/naev-sub006/matrix"
	"github.com/naev/naev-sub006/safelanes"
	"github.com/naev/naev-sub006/universe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// testSolver uses a small Lambda so that any improving edge is eligible.
func testSolver(opts ...safelanes.Option) *safelanes.Solver {
	return safelanes.NewSolver(append([]safelanes.Option{safelanes.WithLambda(1)}, opts...)...)
}

func TestRecalculate_TrivialDirectConnection(t *testing.T) {
	t.Parallel()
	u := twoSpobs(t, 10) // cost 100, budget 200
	s := testSolver()

	tbl, err := s.RecalculateUniverse(u)
	require.NoError(t, err)
	require.Same(t, tbl, s.Table())

	lanes := s.Lanes(safelanes.InSystem(0), safelanes.WithFaction(empire))
	require.Len(t, lanes, 1)
	l := lanes[0]
	assert.Equal(t, empire, l.Faction)
	assert.Equal(t, safelanes.Vertex{System: 0, Kind: safelanes.VertexSpob, Index: 0}, l.A.Vertex)
	assert.Equal(t, safelanes.Vertex{System: 0, Kind: safelanes.VertexSpob, Index: 1}, l.B.Vertex)
	assert.Equal(t, v(0, 0), l.A.Pos)
	assert.Equal(t, v(1000, 0), l.B.Pos)

	b, ok := tbl.Budget(empire, 0)
	require.True(t, ok)
	assert.InDelta(t, 200, b.Initial, 1e-9)
	assert.InDelta(t, 100, b.Spent, 1e-9)
	assert.InDelta(t, 100, b.Remaining, 1e-9)
	assert.Equal(t, 1, tbl.Rounds())
	assert.Equal(t, 2, tbl.Vertices())
	assert.Equal(t, 1, tbl.Candidates())

	// A base cost is paid on top of the length cost.
	u.Factions[0].LaneBaseCost = 30
	tbl, err = testSolver().RecalculateUniverse(u)
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Activations())
	b, ok = tbl.Budget(empire, 0)
	require.True(t, ok)
	assert.InDelta(t, 130, b.Spent, 1e-9)
	assert.InDelta(t, 70, b.Remaining, 1e-9)

	// A base cost above the budget makes the lane unaffordable.
	u.Factions[0].LaneBaseCost = 150
	tbl, err = testSolver().RecalculateUniverse(u)
	require.NoError(t, err)
	assert.Zero(t, tbl.Activations())
}

func TestRecalculate_DefaultLambdaRejectsWeakEdges(t *testing.T) {
	t.Parallel()
	// The benefit of the single edge is 9·100·100·1000 = 9e7, far below 2e10.
	s := safelanes.NewSolver()
	tbl, err := s.RecalculateUniverse(twoSpobs(t, 10))
	require.NoError(t, err)
	assert.Zero(t, tbl.Activations())
}

func TestRecalculate_BudgetExhaustion(t *testing.T) {
	t.Parallel()
	u := twoSpobs(t, 1) // cost 1000, budget 200
	s := testSolver()

	tbl, err := s.RecalculateUniverse(u)
	require.NoError(t, err)
	assert.Empty(t, s.Lanes(safelanes.InSystem(0), safelanes.WithFaction(empire)))

	b, ok := tbl.Budget(empire, 0)
	require.True(t, ok)
	assert.Zero(t, b.Spent)
	assert.GreaterOrEqual(t, b.Remaining, 0.0)
	assert.True(t, b.Remaining == 0 || b.Remaining == b.Initial)
}

func TestRecalculate_Properties(t *testing.T) {
	t.Parallel()
	for _, llpp := range []float64{20, 100, 1000} {
		llpp := llpp
		t.Run(fmt.Sprintf("llpp=%g", llpp), func(t *testing.T) {
			t.Parallel()
			u := chain(t, llpp)
			tbl, err := testSolver().RecalculateUniverse(u)
			require.NoError(t, err)
			edges := tbl.Edges()

			// No duplicate lanes.
			seen := make(map[[3]int]bool)
			for _, e := range edges {
				a, b := vertexKey(e.A), vertexKey(e.B)
				if a > b {
					a, b = b, a
				}
				key := [3]int{e.System, a, b}
				require.False(t, seen[key], "duplicate lane %v", e)
				seen[key] = true
			}

			// Budget conservation.
			for _, f := range tbl.Factions() {
				for s := 0; s < u.NumSystems(); s++ {
					b, ok := tbl.Budget(f, s)
					require.True(t, ok)
					var sum float64
					for _, e := range edges {
						if e.Faction == f && e.System == s {
							sum += e.Cost
						}
					}
					assert.InDelta(t, sum, b.Spent, 1e-9)
					assert.LessOrEqual(t, b.Spent, b.Initial+1e-9)
					assert.GreaterOrEqual(t, b.Remaining, 0.0)
				}
			}

			// Every lane after round 0 touches a vertex the faction already
			// reached: one of its spobs or an end of one of its earlier lanes.
			sort.SliceStable(edges, func(i, j int) bool { return edges[i].Round < edges[j].Round })
			reached := make(map[universe.FactionID]map[int]bool)
			for _, f := range tbl.Factions() {
				reached[f] = make(map[int]bool)
			}
			for lo := 0; lo < len(edges); {
				hi := lo
				for hi < len(edges) && edges[hi].Round == edges[lo].Round {
					hi++
				}
				for _, e := range edges[lo:hi] {
					if e.Round == 0 {
						continue
					}
					touches := owns(u, e.Faction, e.A) || owns(u, e.Faction, e.B) ||
						reached[e.Faction][vertexKey(e.A)] || reached[e.Faction][vertexKey(e.B)]
					assert.True(t, touches, "lane %v is disconnected from faction %d", e, e.Faction)
				}
				for _, e := range edges[lo:hi] {
					reached[e.Faction][vertexKey(e.A)] = true
					reached[e.Faction][vertexKey(e.B)] = true
				}
				lo = hi
			}
		})
	}
}

func vertexKey(v safelanes.Vertex) int {
	return v.System<<20 | int(v.Kind)<<16 | v.Index
}

func owns(u *universe.Universe, f universe.FactionID, v safelanes.Vertex) bool {
	return v.Kind == safelanes.VertexSpob && u.System(v.System).Spobs[v.Index].Faction == f
}

func TestRecalculate_Idempotent(t *testing.T) {
	t.Parallel()
	u := chain(t, 100)
	s := testSolver()
	first, err := s.RecalculateUniverse(u)
	require.NoError(t, err)
	second, err := s.RecalculateUniverse(u)
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, first.Edges(), second.Edges())

	parallel, err := testSolver(safelanes.WithWorkers(4)).RecalculateUniverse(u)
	require.NoError(t, err)
	assert.Equal(t, first.Edges(), parallel.Edges())
}

func TestLanes_StandingSymmetry(t *testing.T) {
	t.Parallel()
	u := chain(t, 20)
	s := testSolver()
	_, err := s.RecalculateUniverse(u)
	require.NoError(t, err)

	own := func(f universe.FactionID) []safelanes.Lane { return s.Lanes(safelanes.WithFaction(f)) }
	friendly := func(f universe.FactionID) []safelanes.Lane {
		return s.Lanes(safelanes.WithFaction(f), safelanes.WithStanding(safelanes.StandingFriendly))
	}
	require.NotEmpty(t, own(empire))
	require.NotEmpty(t, own(dvaered))

	for _, l := range own(empire) {
		assert.Contains(t, friendly(dvaered), l)
	}
	for _, l := range own(dvaered) {
		assert.Contains(t, friendly(empire), l)
	}

	// Pirates see both as hostile on Empire's side and neutral on Dvaered's.
	hostile := s.Lanes(safelanes.WithFaction(pirate), safelanes.WithStanding(safelanes.StandingHostile))
	assert.ElementsMatch(t, own(empire), hostile)
	neutral := s.Lanes(safelanes.WithFaction(pirate), safelanes.WithStanding(safelanes.StandingNeutral))
	assert.ElementsMatch(t, own(dvaered), neutral)
	nonFriendly := s.Lanes(safelanes.WithFaction(pirate), safelanes.WithStanding(safelanes.StandingNonFriendly))
	assert.Len(t, nonFriendly, len(hostile)+len(neutral))

	assert.Empty(t, s.Lanes(safelanes.InSystem(99)))
	assert.Empty(t, s.Lanes(safelanes.InSystem(-1)))
	assert.NotEmpty(t, s.Lanes())
	for _, l := range s.Lanes(safelanes.InSystem(1)) {
		assert.Equal(t, 1, l.System)
	}
}

func TestStandingOf(t *testing.T) {
	t.Parallel()
	u := chain(t, 20)
	assert.Equal(t, safelanes.StandingFriendly, safelanes.StandingOf(u, empire, empire))
	assert.Equal(t, safelanes.StandingFriendly, safelanes.StandingOf(u, dvaered, empire))
	assert.Equal(t, safelanes.StandingHostile, safelanes.StandingOf(u, pirate, empire))
	assert.Equal(t, safelanes.StandingNeutral, safelanes.StandingOf(u, pirate, dvaered))

	st, err := safelanes.ParseStanding("non-hostile")
	require.NoError(t, err)
	assert.Equal(t, safelanes.StandingFriendly|safelanes.StandingNeutral, st)
	_, err = safelanes.ParseStanding("smug")
	assert.Error(t, err)
}

func TestRecalculate_TooManyFactions(t *testing.T) {
	t.Parallel()
	n := safelanes.MaxLaneFactions + 1
	factions := make([]universe.Faction, n)
	spobs := make([]universe.Spob, n)
	for i := 0; i < n; i++ {
		factions[i] = universe.Faction{Name: fmt.Sprintf("f%02d", i), LaneLengthPerPresence: 1}
		spobs[i] = universe.Spob{
			Name:     fmt.Sprintf("s%02d", i),
			Pos:      v(float64(i)*100, float64(i%7)*37),
			Faction:  universe.FactionID(i + 1),
			Presence: 1,
		}
	}
	u, err := universe.New([]universe.System{{Name: "Crowded", Spobs: spobs}}, factions)
	require.NoError(t, err)

	s := testSolver()
	_, err = s.RecalculateUniverse(u)
	require.ErrorIs(t, err, safelanes.ErrTooManyFactions)
	assert.Nil(t, s.Table())

	// Invisible factions and non-builders do not count.
	u.Factions[0].Invisible = true
	_, err = s.RecalculateUniverse(u)
	require.NoError(t, err)
}

func TestRecalculate_ShutdownIsNoop(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zap.WarnLevel)
	s := testSolver(safelanes.WithLogger(zap.New(core)))
	u := twoSpobs(t, 10)

	first, err := s.RecalculateUniverse(u)
	require.NoError(t, err)
	s.Shutdown()

	u.System(0).Spobs[1].NoLanes = true
	u.Invalidate()
	again, err := s.RecalculateUniverse(u)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.Len(t, s.Lanes(), 1)
	assert.Equal(t, 1, logs.FilterMessageSnippet("shutting down").Len())
}

func TestRecalculate_NilCollaborators(t *testing.T) {
	t.Parallel()
	s := testSolver()
	_, err := s.RecalculateUniverse(nil)
	assert.ErrorIs(t, err, safelanes.ErrNilTopology)
	_, err = s.Recalculate(nil, nil, nil)
	assert.ErrorIs(t, err, safelanes.ErrNilTopology)
	assert.Nil(t, s.Lanes())
}

type failingSolver struct{}

func (failingSolver) Factorize(*matrix.SymSparse) (safelanes.Factorization, error) {
	return nil, errors.New("pivot 0 = -1: " + matrix.ErrNotPositiveDefinite.Error())
}

func TestRecalculate_FactorizationFailurePanics(t *testing.T) {
	t.Parallel()
	s := testSolver(safelanes.WithLinearSolver(failingSolver{}))
	assert.Panics(t, func() { _, _ = s.RecalculateUniverse(twoSpobs(t, 10)) })
}

func TestRecalculate_MaxRounds(t *testing.T) {
	t.Parallel()
	tbl, err := testSolver(safelanes.WithMaxRounds(1)).RecalculateUniverse(chain(t, 1000))
	require.NoError(t, err)
	assert.LessOrEqual(t, tbl.Rounds(), 1)
	for _, e := range tbl.Edges() {
		assert.Zero(t, e.Round)
	}
}

func TestOptions_PanicOnInvalid(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { safelanes.NewSolver(safelanes.WithAlpha(-1)) })
	assert.Panics(t, func() { safelanes.NewSolver(safelanes.WithMinAngle(90)) })
	assert.Panics(t, func() { safelanes.NewSolver(safelanes.WithJumpConductivity(0)) })
	assert.Panics(t, func() { safelanes.NewSolver(safelanes.WithWorkers(0)) })
	assert.Panics(t, func() { safelanes.NewSolver(safelanes.WithMaxRounds(-1)) })

	o := safelanes.NewSolver(safelanes.WithAlpha(3), safelanes.WithLogger(nil)).Options()
	assert.Equal(t, 3.0, o.Alpha)
	assert.NotNil(t, o.Logger)
	assert.Equal(t, safelanes.CholeskySolver{Workers: 1}, o.LinearSolver)
}
