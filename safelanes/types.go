// SPDX-License-Identifier: MIT

package safelanes

import (
	"errors"
	"fmt"

	"github.com/naev/naev-sub006/universe"
)

// Sentinel errors returned by the safelanes package.
var (
	// ErrNilTopology indicates a nil topology, faction or presence collaborator.
	ErrNilTopology = errors.New("safelanes: nil topology collaborator")

	// ErrTooManyFactions indicates more lane-building factions than an
	// ownership mask can represent.
	ErrTooManyFactions = errors.New("safelanes: too many lane-building factions")

	// ErrBadAlpha indicates a negative activation gain.
	ErrBadAlpha = errors.New("safelanes: Alpha must be non-negative")

	// ErrBadMinAngle indicates a flatness threshold outside [0, 90) degrees.
	ErrBadMinAngle = errors.New("safelanes: MinAngle must be in [0, 90) degrees")

	// ErrBadJumpConductivity indicates a non-positive jump-link conductivity.
	ErrBadJumpConductivity = errors.New("safelanes: JumpConductivity must be positive")

	// ErrBadWorkers indicates a worker count below one.
	ErrBadWorkers = errors.New("safelanes: Workers must be >= 1")

	// ErrBadMaxRounds indicates a negative round bound.
	ErrBadMaxRounds = errors.New("safelanes: MaxRounds must be non-negative")
)

// MaxLaneFactions is the capacity of a per-edge ownership mask.
const MaxLaneFactions = 64

// Topology is the read view of the galaxy the solver needs.
type Topology interface {
	NumSystems() int
	System(i int) *universe.System
	// ReturnJump returns the system and jump index of the jump leading back
	// from the target of jump j in system sys, if one exists.
	ReturnJump(sys, j int) (int, int, bool)
}

// Relations answers alliance and enmity questions; both are symmetric.
type Relations interface {
	AreAllies(a, b universe.FactionID) bool
	AreEnemies(a, b universe.FactionID) bool
}

// FactionDirectory lists factions and their relations.
type FactionDirectory interface {
	Relations
	AllFactions() []universe.Faction
}

// PresenceSource maps (system, faction) to presence.
type PresenceSource interface {
	Presence(sys int, f universe.FactionID) float64
}

// VertexKind tells which object list of a system a vertex indexes.
type VertexKind uint8

const (
	// VertexSpob is a point of interest.
	VertexSpob VertexKind = iota + 1
	// VertexJump is a jump point.
	VertexJump
)

func (k VertexKind) String() string {
	switch k {
	case VertexSpob:
		return "spob"
	case VertexJump:
		return "jump"
	default:
		return fmt.Sprintf("VertexKind(%d)", uint8(k))
	}
}

// Vertex is a lane endpoint: object Index of the given Kind in System.
type Vertex struct {
	System int
	Kind   VertexKind
	Index  int
}

// position resolves v against the live topology.
func (v Vertex) position(topo Topology) universe.Vec2 {
	s := topo.System(v.System)
	switch v.Kind {
	case VertexSpob:
		return s.Spobs[v.Index].Pos
	case VertexJump:
		return s.Jumps[v.Index].Pos
	default:
		panic(fmt.Sprintf("safelanes: unknown vertex kind %d", v.Kind))
	}
}
