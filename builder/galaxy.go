// SPDX-License-Identifier: MIT

package builder

import (
	"fmt"
	"math"

	"github.com/naev/naev-sub006/universe"
)

var factionNames = []string{
	"Empire", "Dvaered", "Sirius", "Za'lek", "Soromid",
	"Frontier", "Goddard", "Proteron", "Thurion", "Collective",
}

// Galaxy builds a synthetic universe.
//
// Implementation:
//   - Stage 1: scatter systems; link each system i > 0 to its nearest
//     predecessor (spanning tree), then nearby pairs with extraJumpP.
//   - Stage 2: factions with random alliances/enmities and distinct home
//     systems; each system belongs to the faction with the nearest home.
//   - Stage 3: spobs per system, owned by the territory's faction with
//     probability ownedSpobP.
//
// Errors:
//   - ErrNeedRandSource without WithSeed/WithRand.
//   - ErrTooFewSystems when factions > systems.
//
// Complexity: O(S² + F² + S·F + spobs) for S systems and F factions.
func Galaxy(opts ...GalaxyOption) (*universe.Universe, error) {
	cfg := newGalaxyConfig(opts...)
	if cfg.rng == nil {
		return nil, fmt.Errorf("Galaxy: %w", ErrNeedRandSource)
	}
	if cfg.factions > cfg.systems {
		return nil, fmt.Errorf("Galaxy: %d factions, %d systems: %w", cfg.factions, cfg.systems, ErrTooFewSystems)
	}
	rng := cfg.rng

	// Stage 1: systems and jumps.
	side := galaxySpread * math.Sqrt(float64(cfg.systems))
	systems := make([]universe.System, cfg.systems)
	for i := range systems {
		systems[i] = universe.System{
			Name: fmt.Sprintf("S%03d", i),
			Pos:  universe.Vec2{X: rng.Float64() * side, Y: rng.Float64() * side},
		}
	}
	linked := make(map[[2]int]bool)
	link := func(a, b int, hidden bool) {
		if a > b {
			a, b = b, a
		}
		if linked[[2]int{a, b}] {
			return
		}
		linked[[2]int{a, b}] = true
		systems[a].Jumps = append(systems[a].Jumps, jumpToward(systems[a], systems[b], b, cfg.radius, hidden))
		systems[b].Jumps = append(systems[b].Jumps, jumpToward(systems[b], systems[a], a, cfg.radius, hidden))
	}
	for i := 1; i < len(systems); i++ {
		best, bestD := 0, math.Inf(1)
		for j := 0; j < i; j++ {
			if d := systems[i].Pos.Dist(systems[j].Pos); d < bestD {
				best, bestD = j, d
			}
		}
		link(best, i, false)
	}
	near := 1.5 * galaxySpread
	for i := range systems {
		for j := i + 1; j < len(systems); j++ {
			if systems[i].Pos.Dist(systems[j].Pos) > near {
				continue
			}
			if rng.Float64() < cfg.extraJumpP {
				link(i, j, rng.Float64() < cfg.hiddenP)
			}
		}
	}

	// Stage 2: factions and territories.
	meanPresence := (cfg.minPresence + cfg.maxPresence) / 2
	factions := make([]universe.Faction, cfg.factions)
	for f := range factions {
		name := fmt.Sprintf("Faction%02d", f)
		if f < len(factionNames) {
			name = factionNames[f]
		}
		factions[f] = universe.Faction{
			Name:                  name,
			LaneLengthPerPresence: cfg.llpp,
			LaneBaseCost:          baseCostFrac * meanPresence,
		}
	}
	for a := range factions {
		for b := a + 1; b < len(factions); b++ {
			switch r := rng.Float64(); {
			case r < allyP:
				factions[a].Allies = append(factions[a].Allies, universe.FactionID(b+1))
			case r < allyP+enemyP:
				factions[a].Enemies = append(factions[a].Enemies, universe.FactionID(b+1))
			}
		}
	}
	homes := rng.Perm(cfg.systems)[:cfg.factions]
	territory := make([]universe.FactionID, cfg.systems)
	for s := range systems {
		bestD := math.Inf(1)
		for f, h := range homes {
			if d := systems[s].Pos.Dist(systems[h].Pos); d < bestD {
				bestD = d
				territory[s] = universe.FactionID(f + 1)
			}
		}
	}

	// Stage 3: spobs.
	for s := range systems {
		n := cfg.minSpobs
		if cfg.maxSpobs > cfg.minSpobs {
			n += rng.Intn(cfg.maxSpobs - cfg.minSpobs + 1)
		}
		for k := 0; k < n; k++ {
			ang := rng.Float64() * 2 * math.Pi
			r := cfg.radius * (0.1 + 0.8*rng.Float64())
			sp := universe.Spob{
				Name: fmt.Sprintf("%s-%d", systems[s].Name, k+1),
				Pos:  universe.Vec2{X: r * math.Cos(ang), Y: r * math.Sin(ang)},
			}
			if territory[s] != universe.NoFaction && rng.Float64() < ownedSpobP {
				sp.Faction = territory[s]
				sp.Presence = cfg.minPresence + rng.Float64()*(cfg.maxPresence-cfg.minPresence)
				if cfg.maxRange > 0 {
					sp.Range = rng.Intn(cfg.maxRange + 1)
				}
			}
			systems[s].Spobs = append(systems[s].Spobs, sp)
		}
	}

	return universe.New(systems, factions)
}

// jumpToward places the jump of from toward to on from's rim.
func jumpToward(from, to universe.System, target int, radius float64, hidden bool) universe.JumpPoint {
	d := to.Pos.Sub(from.Pos)
	l := math.Hypot(d.X, d.Y)
	if l == 0 {
		l = 1
	}

	return universe.JumpPoint{
		Target: target,
		Pos:    universe.Vec2{X: radius * d.X / l, Y: radius * d.Y / l},
		Hidden: hidden,
	}
}
