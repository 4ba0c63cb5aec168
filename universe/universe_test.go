package universe_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/naev/naev-sub006/universe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadChain(t *testing.T) *universe.Universe {
	t.Helper()
	u, err := universe.LoadFile("testdata/chain.yaml")
	require.NoError(t, err)
	return u
}

func TestLoad_ResolvesNames(t *testing.T) {
	t.Parallel()
	u := loadChain(t)

	require.Equal(t, 4, u.NumSystems())
	emp, err := u.FactionByName("Empire")
	require.NoError(t, err)
	dv, _ := u.FactionByName("Dvaered")
	pir, _ := u.FactionByName("Pirate")
	assert.Equal(t, universe.FactionID(1), emp)
	assert.Equal(t, "Pirate", u.FactionName(pir))
	assert.Equal(t, "", u.FactionName(universe.NoFaction))

	// Relations are symmetric even when declared on one side only.
	assert.True(t, u.AreAllies(emp, dv))
	assert.True(t, u.AreAllies(dv, emp))
	assert.True(t, u.AreEnemies(pir, emp))
	assert.False(t, u.AreEnemies(dv, pir))

	alpha, err := u.SystemIndex("Alpha")
	require.NoError(t, err)
	beta, _ := u.SystemIndex("Beta")
	assert.Equal(t, beta, u.System(alpha).Jumps[0].Target)
	ts, tj, ok := u.ReturnJump(alpha, 0)
	require.True(t, ok)
	assert.Equal(t, beta, ts)
	assert.Equal(t, 0, tj)

	assert.Equal(t, universe.NoFaction, u.System(alpha).Spobs[1].Faction)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{"no systems", "factions: []\nsystems: []\n", universe.ErrInvalidDocument},
		{"missing name", "systems:\n  - pos: {x: 1, y: 2}\n", universe.ErrInvalidDocument},
		{"negative presence", "systems:\n  - name: A\n    spobs:\n      - {name: s, presence: -1}\n", universe.ErrInvalidDocument},
		{"unknown owner", "systems:\n  - name: A\n    spobs:\n      - {name: s, faction: Nobody}\n", universe.ErrUnknownFaction},
		{"unknown target", "systems:\n  - name: A\n    jumps:\n      - {target: B}\n", universe.ErrUnknownSystem},
		{"duplicate system", "systems:\n  - name: A\n  - name: A\n", universe.ErrDuplicateName},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := universe.Load(strings.NewReader(tc.doc))
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestPresence_SpreadsOverVisibleJumps(t *testing.T) {
	t.Parallel()
	u := loadChain(t)
	emp, _ := u.FactionByName("Empire")
	pir, _ := u.FactionByName("Pirate")

	// Capital: presence 90, range 2 => 90, 60, 30 at distances 0, 1, 2.
	assert.InDelta(t, 90, u.Presence(0, emp), 1e-12)
	assert.InDelta(t, 60, u.Presence(1, emp), 1e-12)
	assert.InDelta(t, 30, u.Presence(2, emp), 1e-12)
	assert.InDelta(t, 0, u.Presence(3, emp), 1e-12)

	assert.InDelta(t, 20, u.Presence(2, pir), 1e-12)
	assert.InDelta(t, 0, u.Presence(1, pir), 1e-12)
	assert.Zero(t, u.Presence(0, universe.NoFaction))

	// Za'lek is invisible, Dvaered has no spob.
	assert.Equal(t, []universe.FactionID{emp, pir}, u.VisibleFactions())
}

func TestDocument_RoundTrip(t *testing.T) {
	t.Parallel()
	u := loadChain(t)

	var buf bytes.Buffer
	require.NoError(t, u.WriteYAML(&buf))
	back, err := universe.Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, u.Document(), back.Document())
}
