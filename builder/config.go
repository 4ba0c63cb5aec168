// SPDX-License-Identifier: MIT

package builder

import "math/rand"

// galaxyConfig aggregates all knobs of Galaxy.
type galaxyConfig struct {
	rng *rand.Rand // nil means "no randomness": Galaxy refuses to run

	systems  int
	factions int

	minSpobs, maxSpobs       int
	minPresence, maxPresence float64
	maxRange                 int

	extraJumpP float64
	hiddenP    float64
	llpp       float64
	radius     float64
}

// Deterministic defaults (named, no magic numbers).
const (
	defaultSystems     = 20
	defaultFactions    = 3
	defaultMinSpobs    = 1
	defaultMaxSpobs    = 4
	defaultMinPresence = 20.0
	defaultMaxPresence = 120.0
	defaultMaxRange    = 2
	defaultExtraJumpP  = 0.3
	defaultHiddenP     = 0.1
	defaultLLPP        = 300.0
	defaultRadius      = 10000.0

	ownedSpobP   = 0.8  // chance a spob belongs to its territory's faction
	allyP        = 0.25 // chance two factions are allied
	enemyP       = 0.35 // chance two non-allied factions are enemies
	galaxySpread = 100.0
	baseCostFrac = 0.05 // lane base cost as a fraction of mean presence
)

func newGalaxyConfig(opts ...GalaxyOption) galaxyConfig {
	cfg := galaxyConfig{
		systems:     defaultSystems,
		factions:    defaultFactions,
		minSpobs:    defaultMinSpobs,
		maxSpobs:    defaultMaxSpobs,
		minPresence: defaultMinPresence,
		maxPresence: defaultMaxPresence,
		maxRange:    defaultMaxRange,
		extraJumpP:  defaultExtraJumpP,
		hiddenP:     defaultHiddenP,
		llpp:        defaultLLPP,
		radius:      defaultRadius,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}
