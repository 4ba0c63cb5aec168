package universe

import (
	"fmt"
	"sort"
)

// Universe is the galaxy: systems in stable index order and factions whose
// ID is their index+1.
type Universe struct {
	Systems  []System
	Factions []Faction

	sysIndex map[string]int
	facIndex map[string]FactionID
	allies   map[[2]FactionID]bool
	enemies  map[[2]FactionID]bool

	// presence[sys][f-1]; nil until computed, dropped on every mutation.
	presence [][]float64
}

// New builds a Universe from systems and factions, assigning faction IDs by
// position and indexing every name. Jump targets must already be system
// indices. Relations listed on either side are made symmetric.
func New(systems []System, factions []Faction) (*Universe, error) {
	u := &Universe{Systems: systems, Factions: factions}
	if err := u.Reindex(); err != nil {
		return nil, err
	}

	return u, nil
}

// Reindex rebuilds the name indexes and relation tables after structural
// edits to Systems or Factions, and drops cached presence.
func (u *Universe) Reindex() error {
	u.sysIndex = make(map[string]int, len(u.Systems))
	u.facIndex = make(map[string]FactionID, len(u.Factions))
	u.allies = make(map[[2]FactionID]bool)
	u.enemies = make(map[[2]FactionID]bool)
	u.presence = nil

	for i := range u.Systems {
		s := &u.Systems[i]
		if _, dup := u.sysIndex[s.Name]; dup {
			return fmt.Errorf("system %q: %w", s.Name, ErrDuplicateName)
		}
		u.sysIndex[s.Name] = i
		seen := make(map[string]struct{}, len(s.Spobs))
		for _, sp := range s.Spobs {
			if _, dup := seen[sp.Name]; dup {
				return fmt.Errorf("spob %q in %q: %w", sp.Name, s.Name, ErrDuplicateName)
			}
			seen[sp.Name] = struct{}{}
			if sp.Faction < 0 || int(sp.Faction) > len(u.Factions) {
				return fmt.Errorf("spob %q owner %d: %w", sp.Name, sp.Faction, ErrUnknownFaction)
			}
		}
		for _, j := range s.Jumps {
			if j.Target < 0 || j.Target >= len(u.Systems) {
				return fmt.Errorf("jump from %q to #%d: %w", s.Name, j.Target, ErrUnknownSystem)
			}
		}
	}
	for i := range u.Factions {
		f := &u.Factions[i]
		f.ID = FactionID(i + 1)
		if _, dup := u.facIndex[f.Name]; dup {
			return fmt.Errorf("faction %q: %w", f.Name, ErrDuplicateName)
		}
		u.facIndex[f.Name] = f.ID
	}
	for i := range u.Factions {
		f := &u.Factions[i]
		for _, a := range f.Allies {
			if !u.validFaction(a) {
				return fmt.Errorf("ally %d of %q: %w", a, f.Name, ErrUnknownFaction)
			}
			u.allies[pairKey(f.ID, a)] = true
		}
		for _, e := range f.Enemies {
			if !u.validFaction(e) {
				return fmt.Errorf("enemy %d of %q: %w", e, f.Name, ErrUnknownFaction)
			}
			u.enemies[pairKey(f.ID, e)] = true
		}
	}

	return nil
}

func (u *Universe) validFaction(f FactionID) bool {
	return f > 0 && int(f) <= len(u.Factions)
}

func pairKey(a, b FactionID) [2]FactionID {
	if a > b {
		a, b = b, a
	}

	return [2]FactionID{a, b}
}

// NumSystems returns the number of systems.
func (u *Universe) NumSystems() int { return len(u.Systems) }

// System returns the system at index i.
func (u *Universe) System(i int) *System { return &u.Systems[i] }

// SystemIndex resolves a system name.
func (u *Universe) SystemIndex(name string) (int, error) {
	i, ok := u.sysIndex[name]
	if !ok {
		return -1, fmt.Errorf("%q: %w", name, ErrUnknownSystem)
	}

	return i, nil
}

// FactionByName resolves a faction name.
func (u *Universe) FactionByName(name string) (FactionID, error) {
	id, ok := u.facIndex[name]
	if !ok {
		return NoFaction, fmt.Errorf("%q: %w", name, ErrUnknownFaction)
	}

	return id, nil
}

// Faction returns the faction record for id, or nil for NoFaction and unknown ids.
func (u *Universe) Faction(id FactionID) *Faction {
	if !u.validFaction(id) {
		return nil
	}

	return &u.Factions[id-1]
}

// FactionName returns the name of id, or "" when it has none.
func (u *Universe) FactionName(id FactionID) string {
	if f := u.Faction(id); f != nil {
		return f.Name
	}

	return ""
}

// AllFactions returns every faction in ID order.
func (u *Universe) AllFactions() []Faction { return u.Factions }

// AreAllies reports whether a and b are allied. The relation is symmetric.
func (u *Universe) AreAllies(a, b FactionID) bool { return u.allies[pairKey(a, b)] }

// AreEnemies reports whether a and b are enemies. The relation is symmetric.
func (u *Universe) AreEnemies(a, b FactionID) bool { return u.enemies[pairKey(a, b)] }

// ReturnJump finds the jump in system target leading back to sys.
func (u *Universe) ReturnJump(sys, jump int) (int, int, bool) {
	target := u.Systems[sys].Jumps[jump].Target
	for k, j := range u.Systems[target].Jumps {
		if j.Target == sys {
			return target, k, true
		}
	}

	return -1, -1, false
}

// JumpIndex returns the index of the jump in sys that leads to target.
func (u *Universe) JumpIndex(sys, target int) (int, error) {
	for k, j := range u.Systems[sys].Jumps {
		if j.Target == target {
			return k, nil
		}
	}

	return -1, fmt.Errorf("%s -> %s: %w", u.Systems[sys].Name, u.Systems[target].Name, ErrUnknownJump)
}

// SpobIndex returns the index of the named spob in sys.
func (u *Universe) SpobIndex(sys int, name string) (int, error) {
	for k, sp := range u.Systems[sys].Spobs {
		if sp.Name == name {
			return k, nil
		}
	}

	return -1, fmt.Errorf("%q in %s: %w", name, u.Systems[sys].Name, ErrUnknownSpob)
}

// Invalidate drops cached presence. Call it after editing spobs or jumps
// directly instead of through a Diff.
func (u *Universe) Invalidate() { u.presence = nil }

// Presence returns the presence of faction f in system sys.
func (u *Universe) Presence(sys int, f FactionID) float64 {
	if !u.validFaction(f) {
		return 0
	}
	if u.presence == nil {
		u.computePresence()
	}

	return u.presence[sys][f-1]
}

// computePresence spreads every owned spob's presence over its jump range.
func (u *Universe) computePresence() {
	nf := len(u.Factions)
	p := make([][]float64, len(u.Systems))
	for i := range p {
		p[i] = make([]float64, nf)
	}
	for s := range u.Systems {
		for _, sp := range u.Systems[s].Spobs {
			if sp.Faction == NoFaction || sp.Presence <= 0 {
				continue
			}
			r := sp.Range
			if r < 0 {
				r = 0
			}
			for sys, d := range u.withinJumps(s, r) {
				p[sys][sp.Faction-1] += sp.Presence * float64(r+1-d) / float64(r+1)
			}
		}
	}
	u.presence = p
}

// withinJumps returns the systems reachable from origin within maxJumps,
// mapped to their jump distance. Hidden and exit-only jumps are not traversed.
func (u *Universe) withinJumps(origin, maxJumps int) map[int]int {
	result := map[int]int{origin: 0}
	queue := []int{origin}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		dist := result[cur]
		if dist >= maxJumps {
			continue
		}
		for _, j := range u.Systems[cur].Jumps {
			if j.Hidden || j.ExitOnly {
				continue
			}
			if _, seen := result[j.Target]; !seen {
				result[j.Target] = dist + 1
				queue = append(queue, j.Target)
			}
		}
	}

	return result
}

// VisibleFactions returns the ids of visible factions that have presence in
// at least one system, ascending.
func (u *Universe) VisibleFactions() []FactionID {
	var out []FactionID
	for _, f := range u.Factions {
		if f.Invisible {
			continue
		}
		for s := range u.Systems {
			if u.Presence(s, f.ID) > 0 {
				out = append(out, f.ID)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}
