package universe

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Diff operation types.
const (
	OpSpobFaction       = "spob_faction"
	OpSpobPresence      = "spob_presence"
	OpSpobNoLanes       = "spob_no_lanes"
	OpJumpHidden        = "jump_hidden"
	OpSystemNoLanes     = "system_no_lanes"
	OpFactionLaneParams = "faction_lane_params"
)

// Diff is a named, scripted modification of the universe. Applying one
// changes topology or ownership, so lanes must be recalculated afterwards.
type Diff struct {
	Name string   `yaml:"name" validate:"required"`
	Ops  []DiffOp `yaml:"ops" validate:"required,min=1,dive"`
}

// DiffOp is a single change. Which fields are used depends on Type:
//
//	spob_faction         system, spob, faction ("" clears the owner)
//	spob_presence        system, spob, presence, range (optional)
//	spob_no_lanes        system, spob, value
//	jump_hidden          system, target, value
//	system_no_lanes      system, value
//	faction_lane_params  faction, lane_length_per_presence and/or lane_base_cost
type DiffOp struct {
	Type                  string   `yaml:"type" validate:"required,oneof=spob_faction spob_presence spob_no_lanes jump_hidden system_no_lanes faction_lane_params"`
	System                string   `yaml:"system,omitempty"`
	Spob                  string   `yaml:"spob,omitempty"`
	Target                string   `yaml:"target,omitempty"`
	Faction               string   `yaml:"faction,omitempty"`
	Presence              *float64 `yaml:"presence,omitempty" validate:"omitempty,gte=0"`
	Range                 *int     `yaml:"range,omitempty" validate:"omitempty,gte=0"`
	Value                 *bool    `yaml:"value,omitempty"`
	LaneLengthPerPresence *float64 `yaml:"lane_length_per_presence,omitempty"`
	LaneBaseCost          *float64 `yaml:"lane_base_cost,omitempty" validate:"omitempty,gte=0"`
}

// LoadDiff decodes and validates a diff.
func LoadDiff(r io.Reader) (*Diff, error) {
	var d Diff
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("decode diff: %w", err)
	}
	if err := validateStruct(&d, ErrInvalidDiff); err != nil {
		return nil, err
	}

	return &d, nil
}

// LoadDiffFile is LoadDiff on the named file.
func LoadDiffFile(path string) (*Diff, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadDiff(f)
}

// Apply performs every operation of d on u. All operations are resolved
// before any is executed, so a diff referencing an unknown name leaves u
// untouched.
func (d *Diff) Apply(u *Universe) error {
	if err := validateStruct(d, ErrInvalidDiff); err != nil {
		return err
	}
	steps := make([]func(), 0, len(d.Ops))
	for i := range d.Ops {
		step, err := d.Ops[i].resolve(u)
		if err != nil {
			return fmt.Errorf("%w: %s op %d (%s): %v", ErrInvalidDiff, d.Name, i, d.Ops[i].Type, err)
		}
		steps = append(steps, step)
	}
	for _, step := range steps {
		step()
	}
	u.Invalidate()

	return nil
}

// resolve binds op to concrete indices in u and returns the mutation.
func (op *DiffOp) resolve(u *Universe) (func(), error) {
	if op.Type == OpFactionLaneParams {
		id, err := u.FactionByName(op.Faction)
		if err != nil {
			return nil, err
		}
		if op.LaneLengthPerPresence == nil && op.LaneBaseCost == nil {
			return nil, errors.New("no lane parameter given")
		}
		f := u.Faction(id)
		return func() {
			if op.LaneLengthPerPresence != nil {
				f.LaneLengthPerPresence = *op.LaneLengthPerPresence
			}
			if op.LaneBaseCost != nil {
				f.LaneBaseCost = *op.LaneBaseCost
			}
		}, nil
	}

	sys, err := u.SystemIndex(op.System)
	if err != nil {
		return nil, err
	}
	s := u.System(sys)

	switch op.Type {
	case OpSystemNoLanes:
		v, err := op.flag()
		if err != nil {
			return nil, err
		}
		return func() { s.NoLanes = v }, nil

	case OpJumpHidden:
		t, err := u.SystemIndex(op.Target)
		if err != nil {
			return nil, err
		}
		k, err := u.JumpIndex(sys, t)
		if err != nil {
			return nil, err
		}
		v, err := op.flag()
		if err != nil {
			return nil, err
		}
		return func() { s.Jumps[k].Hidden = v }, nil
	}

	k, err := u.SpobIndex(sys, op.Spob)
	if err != nil {
		return nil, err
	}
	sp := &s.Spobs[k]

	switch op.Type {
	case OpSpobFaction:
		owner := NoFaction
		if op.Faction != "" {
			if owner, err = u.FactionByName(op.Faction); err != nil {
				return nil, err
			}
		}
		return func() { sp.Faction = owner }, nil

	case OpSpobPresence:
		if op.Presence == nil {
			return nil, errors.New("presence is required")
		}
		return func() {
			sp.Presence = *op.Presence
			if op.Range != nil {
				sp.Range = *op.Range
			}
		}, nil

	case OpSpobNoLanes:
		v, err := op.flag()
		if err != nil {
			return nil, err
		}
		return func() { sp.NoLanes = v }, nil
	}

	return nil, fmt.Errorf("unsupported operation %q", op.Type)
}

func (op *DiffOp) flag() (bool, error) {
	if op.Value == nil {
		return false, errors.New("value is required")
	}

	return *op.Value, nil
}
