package universe

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Document is the YAML form of a Universe. Systems, spobs and factions are
// referenced by name; order is preserved and defines vertex order later on.
type Document struct {
	Factions []FactionDoc `yaml:"factions" validate:"dive"`
	Systems  []SystemDoc  `yaml:"systems" validate:"required,min=1,dive"`
}

// FactionDoc describes one faction.
type FactionDoc struct {
	Name                  string   `yaml:"name" validate:"required"`
	Invisible             bool     `yaml:"invisible,omitempty"`
	LaneLengthPerPresence float64  `yaml:"lane_length_per_presence"`
	LaneBaseCost          float64  `yaml:"lane_base_cost" validate:"gte=0"`
	Allies                []string `yaml:"allies,omitempty"`
	Enemies               []string `yaml:"enemies,omitempty"`
}

// SystemDoc describes one system.
type SystemDoc struct {
	Name    string    `yaml:"name" validate:"required"`
	Pos     Vec2      `yaml:"pos"`
	NoLanes bool      `yaml:"no_lanes,omitempty"`
	Spobs   []SpobDoc `yaml:"spobs,omitempty" validate:"dive"`
	Jumps   []JumpDoc `yaml:"jumps,omitempty" validate:"dive"`
}

// SpobDoc describes one spob; Faction may be empty for unowned spobs.
type SpobDoc struct {
	Name     string  `yaml:"name" validate:"required"`
	Pos      Vec2    `yaml:"pos"`
	Faction  string  `yaml:"faction,omitempty"`
	Presence float64 `yaml:"presence,omitempty" validate:"gte=0"`
	Range    int     `yaml:"range,omitempty" validate:"gte=0"`
	NoLanes  bool    `yaml:"no_lanes,omitempty"`
}

// JumpDoc describes the jump point toward Target.
type JumpDoc struct {
	Target   string `yaml:"target" validate:"required"`
	Pos      Vec2   `yaml:"pos"`
	Hidden   bool   `yaml:"hidden,omitempty"`
	ExitOnly bool   `yaml:"exit_only,omitempty"`
	NoLanes  bool   `yaml:"no_lanes,omitempty"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report yaml key names instead of Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return v
}

// validateStruct runs tag validation and flattens failures into one error
// wrapping sentinel.
func validateStruct(s interface{}, sentinel error) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, formatFieldError(e))
	}

	return fmt.Errorf("%w: %s", sentinel, strings.Join(msgs, "; "))
}

func formatFieldError(e validator.FieldError) string {
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must have at least %s entries", field, e.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, e.Tag())
	}
}

// Load decodes and validates a YAML document and resolves it into a Universe.
func Load(r io.Reader) (*Universe, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode universe: %w", err)
	}

	return doc.Universe()
}

// LoadFile is Load on the named file.
func LoadFile(path string) (*Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	u, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return u, nil
}

// Universe validates the document and resolves all names.
func (d *Document) Universe() (*Universe, error) {
	if err := validateStruct(d, ErrInvalidDocument); err != nil {
		return nil, err
	}

	facIDs := make(map[string]FactionID, len(d.Factions))
	for i, f := range d.Factions {
		facIDs[f.Name] = FactionID(i + 1)
	}
	sysIDs := make(map[string]int, len(d.Systems))
	for i, s := range d.Systems {
		sysIDs[s.Name] = i
	}
	lookupFaction := func(name string) (FactionID, error) {
		if name == "" {
			return NoFaction, nil
		}
		id, ok := facIDs[name]
		if !ok {
			return NoFaction, fmt.Errorf("%w: %q", ErrUnknownFaction, name)
		}
		return id, nil
	}

	factions := make([]Faction, len(d.Factions))
	for i, fd := range d.Factions {
		f := Faction{
			Name:                  fd.Name,
			Invisible:             fd.Invisible,
			LaneLengthPerPresence: fd.LaneLengthPerPresence,
			LaneBaseCost:          fd.LaneBaseCost,
		}
		for _, a := range fd.Allies {
			id, err := lookupFaction(a)
			if err != nil {
				return nil, fmt.Errorf("faction %q allies: %w", fd.Name, err)
			}
			f.Allies = append(f.Allies, id)
		}
		for _, e := range fd.Enemies {
			id, err := lookupFaction(e)
			if err != nil {
				return nil, fmt.Errorf("faction %q enemies: %w", fd.Name, err)
			}
			f.Enemies = append(f.Enemies, id)
		}
		factions[i] = f
	}

	systems := make([]System, len(d.Systems))
	for i, sd := range d.Systems {
		s := System{Name: sd.Name, Pos: sd.Pos, NoLanes: sd.NoLanes}
		for _, spd := range sd.Spobs {
			owner, err := lookupFaction(spd.Faction)
			if err != nil {
				return nil, fmt.Errorf("spob %q: %w", spd.Name, err)
			}
			s.Spobs = append(s.Spobs, Spob{
				Name:     spd.Name,
				Pos:      spd.Pos,
				Faction:  owner,
				Presence: spd.Presence,
				Range:    spd.Range,
				NoLanes:  spd.NoLanes,
			})
		}
		for _, jd := range sd.Jumps {
			t, ok := sysIDs[jd.Target]
			if !ok {
				return nil, fmt.Errorf("jump %s -> %s: %w", sd.Name, jd.Target, ErrUnknownSystem)
			}
			s.Jumps = append(s.Jumps, JumpPoint{
				Target:   t,
				Pos:      jd.Pos,
				Hidden:   jd.Hidden,
				ExitOnly: jd.ExitOnly,
				NoLanes:  jd.NoLanes,
			})
		}
		systems[i] = s
	}

	return New(systems, factions)
}

// Document converts u back into its YAML form.
func (u *Universe) Document() *Document {
	d := &Document{
		Factions: make([]FactionDoc, len(u.Factions)),
		Systems:  make([]SystemDoc, len(u.Systems)),
	}
	names := func(ids []FactionID) []string {
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, u.FactionName(id))
		}
		return out
	}
	for i, f := range u.Factions {
		d.Factions[i] = FactionDoc{
			Name:                  f.Name,
			Invisible:             f.Invisible,
			LaneLengthPerPresence: f.LaneLengthPerPresence,
			LaneBaseCost:          f.LaneBaseCost,
			Allies:                names(f.Allies),
			Enemies:               names(f.Enemies),
		}
	}
	for i, s := range u.Systems {
		sd := SystemDoc{Name: s.Name, Pos: s.Pos, NoLanes: s.NoLanes}
		for _, sp := range s.Spobs {
			sd.Spobs = append(sd.Spobs, SpobDoc{
				Name:     sp.Name,
				Pos:      sp.Pos,
				Faction:  u.FactionName(sp.Faction),
				Presence: sp.Presence,
				Range:    sp.Range,
				NoLanes:  sp.NoLanes,
			})
		}
		for _, j := range s.Jumps {
			sd.Jumps = append(sd.Jumps, JumpDoc{
				Target:   u.Systems[j.Target].Name,
				Pos:      j.Pos,
				Hidden:   j.Hidden,
				ExitOnly: j.ExitOnly,
				NoLanes:  j.NoLanes,
			})
		}
		d.Systems[i] = sd
	}

	return d
}

// WriteYAML encodes u as a YAML document.
func (u *Universe) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(u.Document()); err != nil {
		return err
	}

	return enc.Close()
}
