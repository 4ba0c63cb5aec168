// SPDX-License-Identifier: MIT

package safelanes_test

import (
	"testing"

	"github.com/naev/naev-sub006/universe"
	"github.com/stretchr/testify/require"
)

const (
	empire  universe.FactionID = 1
	dvaered universe.FactionID = 2
	pirate  universe.FactionID = 3
)

func v(x, y float64) universe.Vec2 { return universe.Vec2{X: x, Y: y} }

// twoSpobs is one system with two Empire spobs 1000 apart; the Empire
// budget there is 200 and a lane between them costs 1000/llpp.
func twoSpobs(t *testing.T, llpp float64) *universe.Universe {
	t.Helper()
	u, err := universe.New([]universe.System{{
		Name: "Sol",
		Spobs: []universe.Spob{
			{Name: "Earth", Pos: v(0, 0), Faction: empire, Presence: 100},
			{Name: "Mars", Pos: v(1000, 0), Faction: empire, Presence: 100},
		},
	}}, []universe.Faction{{Name: "Empire", LaneLengthPerPresence: llpp}})
	require.NoError(t, err)
	return u
}

// chain is Alpha(Empire) – Beta(Dvaered) – Gamma(Pirate). Empire and
// Dvaered are allies, Pirate is Empire's enemy. A 3000-long lane costs
// 3000/llpp against a per-system budget of 200 (50 for Pirate).
func chain(t *testing.T, llpp float64) *universe.Universe {
	t.Helper()
	u, err := universe.New([]universe.System{
		{
			Name: "Alpha",
			Spobs: []universe.Spob{
				{Name: "Crown", Pos: v(0, 0), Faction: empire, Presence: 100},
				{Name: "Forge", Pos: v(3000, 0), Faction: empire, Presence: 100},
				{Name: "Rock", Pos: v(1500, -2500), Presence: 0},
			},
			Jumps: []universe.JumpPoint{{Target: 1, Pos: v(0, 3000)}},
		},
		{
			Name: "Beta",
			Spobs: []universe.Spob{
				{Name: "Fort", Pos: v(0, 0), Faction: dvaered, Presence: 100},
				{Name: "Arena", Pos: v(0, -3000), Faction: dvaered, Presence: 100},
			},
			Jumps: []universe.JumpPoint{
				{Target: 0, Pos: v(-3000, 0)},
				{Target: 2, Pos: v(3000, 0)},
			},
		},
		{
			Name: "Gamma",
			Spobs: []universe.Spob{
				{Name: "Den", Pos: v(1000, 1000), Faction: pirate, Presence: 50},
			},
			Jumps: []universe.JumpPoint{{Target: 1, Pos: v(-2000, 0)}},
		},
	}, []universe.Faction{
		{Name: "Empire", LaneLengthPerPresence: llpp, Allies: []universe.FactionID{dvaered}, Enemies: []universe.FactionID{pirate}},
		{Name: "Dvaered", LaneLengthPerPresence: llpp},
		{Name: "Pirate", LaneLengthPerPresence: llpp},
	})
	require.NoError(t, err)
	return u
}
