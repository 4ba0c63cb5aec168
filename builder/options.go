// SPDX-License-Identifier: MIT

package builder

import (
	"math/rand"
)

// GalaxyOption customizes Galaxy by mutating a galaxyConfig.
type GalaxyOption func(*galaxyConfig)

// WithRand provides an explicit RNG. Panics on nil.
func WithRand(r *rand.Rand) GalaxyOption {
	if r == nil {
		panic("builder: WithRand(nil)")
	}
	return func(c *galaxyConfig) {
		c.rng = r
	}
}

// WithSeed creates a deterministic RNG from seed.
func WithSeed(seed int64) GalaxyOption {
	return func(c *galaxyConfig) {
		c.rng = rand.New(rand.NewSource(seed))
	}
}

// WithSystems sets the number of systems (>= 1).
func WithSystems(n int) GalaxyOption {
	if n < 1 {
		panic("builder: WithSystems(n<1)")
	}
	return func(c *galaxyConfig) {
		c.systems = n
	}
}

// WithFactions sets the number of lane-building factions (>= 0).
func WithFactions(n int) GalaxyOption {
	if n < 0 {
		panic("builder: WithFactions(n<0)")
	}
	return func(c *galaxyConfig) {
		c.factions = n
	}
}

// WithSpobsPerSystem sets the inclusive range of spobs per system.
func WithSpobsPerSystem(min, max int) GalaxyOption {
	if min < 0 || max < min {
		panic("builder: WithSpobsPerSystem(min<0 or max<min)")
	}
	return func(c *galaxyConfig) {
		c.minSpobs, c.maxSpobs = min, max
	}
}

// WithPresence sets the range of presence values of owned spobs.
func WithPresence(min, max float64) GalaxyOption {
	if min <= 0 || max < min {
		panic("builder: WithPresence(min<=0 or max<min)")
	}
	return func(c *galaxyConfig) {
		c.minPresence, c.maxPresence = min, max
	}
}

// WithMaxSpobRange sets the largest presence spill-over range in jumps.
func WithMaxSpobRange(r int) GalaxyOption {
	if r < 0 {
		panic("builder: WithMaxSpobRange(r<0)")
	}
	return func(c *galaxyConfig) {
		c.maxRange = r
	}
}

// WithExtraJumpProbability sets the chance that two nearby systems not
// already linked by the spanning tree get a jump.
func WithExtraJumpProbability(p float64) GalaxyOption {
	if p < 0 || p > 1 {
		panic("builder: WithExtraJumpProbability(p not in [0,1])")
	}
	return func(c *galaxyConfig) {
		c.extraJumpP = p
	}
}

// WithHiddenJumpProbability sets the chance that an extra jump is hidden
// on both sides. Spanning-tree jumps are never hidden.
func WithHiddenJumpProbability(p float64) GalaxyOption {
	if p < 0 || p > 1 {
		panic("builder: WithHiddenJumpProbability(p not in [0,1])")
	}
	return func(c *galaxyConfig) {
		c.hiddenP = p
	}
}

// WithLaneLengthPerPresence sets the lane length per presence of every faction.
func WithLaneLengthPerPresence(v float64) GalaxyOption {
	if v <= 0 {
		panic("builder: WithLaneLengthPerPresence(v<=0)")
	}
	return func(c *galaxyConfig) {
		c.llpp = v
	}
}

// WithSystemRadius sets the radius inside which spobs and jumps are placed.
func WithSystemRadius(r float64) GalaxyOption {
	if r <= 0 {
		panic("builder: WithSystemRadius(r<=0)")
	}
	return func(c *galaxyConfig) {
		c.radius = r
	}
}
