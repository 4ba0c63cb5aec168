// Package universe models the galaxy that safe lanes are generated on:
// star systems, their spobs (space objects: planets and stations that act as
// points of interest) and jump points, plus the factions that own spobs and
// their alliance/enmity relations.
//
// A Universe is the topology, faction and presence collaborator of the lane
// solver. It is built from a YAML Document (Load, LoadFile), from a SQLite
// Store, or programmatically through the builder package, and it can be
// mutated by scripted Diffs, after which callers recalculate lanes.
//
// Presence
//
// Each owned spob projects its presence value into systems reachable over
// visible, enterable jumps within its range: at jump distance d <= range it
// contributes presence*(range+1-d)/(range+1). Faction presence in a system is
// the sum of all contributions. Values are cached and recomputed lazily after
// any mutation made through this package.
//
// A Universe is not safe for concurrent mutation; reads may run in parallel
// once presence has been computed.
package universe
