package universe

import (
	"errors"
	"math"
)

// Sentinel errors returned by the universe package.
var (
	// ErrUnknownSystem indicates a system name that is not part of the universe.
	ErrUnknownSystem = errors.New("universe: unknown system")

	// ErrUnknownFaction indicates a faction name that is not part of the universe.
	ErrUnknownFaction = errors.New("universe: unknown faction")

	// ErrUnknownSpob indicates a spob name that does not exist in the given system.
	ErrUnknownSpob = errors.New("universe: unknown spob")

	// ErrUnknownJump indicates that a system has no jump to the given target.
	ErrUnknownJump = errors.New("universe: unknown jump")

	// ErrDuplicateName indicates two systems, factions or spobs sharing a name.
	ErrDuplicateName = errors.New("universe: duplicate name")

	// ErrInvalidDocument wraps validation failures of a YAML document.
	ErrInvalidDocument = errors.New("universe: invalid document")

	// ErrInvalidDiff wraps validation or resolution failures of a Diff.
	ErrInvalidDiff = errors.New("universe: invalid diff")
)

// FactionID identifies a faction. IDs are 1-based; NoFaction (0) means "unowned".
type FactionID int

// NoFaction is the owner of unclaimed spobs and of lanes nobody activated.
const NoFaction FactionID = 0

// Vec2 is a position inside a star system.
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

// Dist returns the Euclidean distance between a and b.
func (a Vec2) Dist(b Vec2) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

// Sub returns a-b.
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{X: a.X - b.X, Y: a.Y - b.Y} }

// Dot returns the dot product of a and b.
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }

// Spob is a point of interest: a planet or station, optionally owned.
type Spob struct {
	Name     string
	Pos      Vec2
	Faction  FactionID
	Presence float64 // own presence value; 0 means the spob exerts none
	Range    int     // jump range of presence spill-over
	NoLanes  bool    // never a lane endpoint
}

// JumpPoint is a one-way view of a jump from its system toward Target.
// The reciprocal jump, if any, is the Target system's jump back.
type JumpPoint struct {
	Target   int // system index of the destination
	Pos      Vec2
	Hidden   bool
	ExitOnly bool // can be arrived through but not entered from this side
	NoLanes  bool
}

// System is a star system with its spobs and jump points in stable order.
type System struct {
	Name    string
	Pos     Vec2
	NoLanes bool
	Spobs   []Spob
	Jumps   []JumpPoint
}

// Faction carries the lane-building tunables and relations of one faction.
type Faction struct {
	ID        FactionID
	Name      string
	Invisible bool

	// LaneLengthPerPresence converts presence into buildable lane length.
	// Factions with a value <= 0 never build lanes.
	LaneLengthPerPresence float64

	// LaneBaseCost is a fixed presence cost paid per lane on top of its length cost.
	LaneBaseCost float64

	Allies  []FactionID
	Enemies []FactionID
}
