// SPDX-License-Identifier: MIT

package safelanes

import (
	"fmt"
	"strings"

	"github.com/naev/naev-sub006/universe"
)

// Standing is a set of relations between a querying faction and a lane owner.
type Standing uint8

// Standing filters. StandingNone disables standing matching (exact owner match).
const (
	StandingNone        Standing = 0
	StandingFriendly    Standing = 1 << 0
	StandingNeutral     Standing = 1 << 1
	StandingHostile     Standing = 1 << 2
	StandingNonFriendly          = StandingNeutral | StandingHostile
	StandingNonHostile           = StandingFriendly | StandingNeutral
)

var standingNames = map[string]Standing{
	"none":         StandingNone,
	"friendly":     StandingFriendly,
	"neutral":      StandingNeutral,
	"hostile":      StandingHostile,
	"non_friendly": StandingNonFriendly,
	"non_hostile":  StandingNonHostile,
}

// ParseStanding parses a filter name such as "friendly" or "non_hostile".
func ParseStanding(s string) (Standing, error) {
	st, ok := standingNames[strings.ToLower(strings.ReplaceAll(s, "-", "_"))]
	if !ok {
		return StandingNone, fmt.Errorf("safelanes: unknown standing %q", s)
	}

	return st, nil
}

// StandingOf classifies owner as seen from f: the same faction or an ally is
// friendly, an enemy is hostile, anything else is neutral.
func StandingOf(rel Relations, f, owner universe.FactionID) Standing {
	switch {
	case f == owner || rel.AreAllies(f, owner):
		return StandingFriendly
	case rel.AreEnemies(f, owner):
		return StandingHostile
	default:
		return StandingNeutral
	}
}

// Endpoint is a lane end with its position resolved from the live topology.
type Endpoint struct {
	Vertex
	Pos universe.Vec2
}

// Lane is one query result.
type Lane struct {
	System  int
	Faction universe.FactionID
	A, B    Endpoint
}

type query struct {
	faction    universe.FactionID
	hasFaction bool
	standing   Standing
	system     int
	hasSystem  bool
}

// QueryOption narrows a lane query.
type QueryOption func(*query)

// WithFaction restricts results to lanes owned by f, or, together with
// WithStanding, to lanes whose owner has the given standing toward f.
func WithFaction(f universe.FactionID) QueryOption {
	return func(q *query) {
		q.faction = f
		q.hasFaction = true
	}
}

// WithStanding sets the standing filter used with WithFaction.
func WithStanding(s Standing) QueryOption {
	return func(q *query) { q.standing = s }
}

// InSystem restricts results to one system. An index outside the table,
// negative ones included, matches nothing.
func InSystem(sys int) QueryOption {
	return func(q *query) {
		q.system = sys
		q.hasSystem = true
	}
}

// Lanes returns the lanes matching opts, ordered by system and then by edge
// enumeration order.
func (t *OwnershipTable) Lanes(opts ...QueryOption) []Lane {
	var q query
	for _, opt := range opts {
		opt(&q)
	}

	lo, hi := 0, len(t.lanes)
	if q.hasSystem {
		if q.system < 0 || q.system >= len(t.sysLane)-1 {
			return nil
		}
		lo, hi = t.sysLane[q.system], t.sysLane[q.system+1]
	}

	var out []Lane
	for _, l := range t.lanes[lo:hi] {
		if q.hasFaction {
			if q.standing == StandingNone {
				if l.Faction != q.faction {
					continue
				}
			} else if StandingOf(t.rel, q.faction, l.Faction)&q.standing == 0 {
				continue
			}
		}
		out = append(out, Lane{
			System:  l.System,
			Faction: l.Faction,
			A:       Endpoint{Vertex: l.A, Pos: l.A.position(t.topo)},
			B:       Endpoint{Vertex: l.B, Pos: l.B.position(t.topo)},
		})
	}

	return out
}
