package universe

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store persists a Universe in a SQLite database. Lanes are never stored:
// they are rederived from the topology on load.
type Store struct {
	sql *sql.DB
}

// OpenStore opens (or creates) the SQLite database at path and migrates it.
// Use ":memory:" for a throwaway store.
func OpenStore(path string) (*Store, error) {
	dsn := path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	if path != ":memory:" {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// One connection keeps ":memory:" databases alive and shared.
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping store: %w", err)
	}
	s := &Store{sql: sqlDB}
	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate store: %w", err)
	}

	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.sql.Close() }

func (s *Store) migrate() error {
	version := 0
	// Absent table means version 0.
	_ = s.sql.QueryRow("SELECT version FROM schema_version ORDER BY version DESC LIMIT 1").Scan(&version)

	if version < 1 {
		_, err := s.sql.Exec(`
			CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY);

			CREATE TABLE IF NOT EXISTS factions (
				id                       INTEGER PRIMARY KEY,
				name                     TEXT NOT NULL UNIQUE,
				invisible                INTEGER NOT NULL DEFAULT 0,
				lane_length_per_presence REAL NOT NULL DEFAULT 0,
				lane_base_cost           REAL NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS faction_relations (
				faction_id INTEGER NOT NULL REFERENCES factions(id) ON DELETE CASCADE,
				other_id   INTEGER NOT NULL REFERENCES factions(id) ON DELETE CASCADE,
				kind       TEXT NOT NULL CHECK (kind IN ('ally', 'enemy')),
				PRIMARY KEY (faction_id, other_id, kind)
			);

			CREATE TABLE IF NOT EXISTS systems (
				id       INTEGER PRIMARY KEY,
				name     TEXT NOT NULL UNIQUE,
				x        REAL NOT NULL,
				y        REAL NOT NULL,
				no_lanes INTEGER NOT NULL DEFAULT 0
			);

			CREATE TABLE IF NOT EXISTS spobs (
				system_id  INTEGER NOT NULL REFERENCES systems(id) ON DELETE CASCADE,
				idx        INTEGER NOT NULL,
				name       TEXT NOT NULL,
				x          REAL NOT NULL,
				y          REAL NOT NULL,
				faction_id INTEGER REFERENCES factions(id),
				presence   REAL NOT NULL DEFAULT 0,
				spread     INTEGER NOT NULL DEFAULT 0,
				no_lanes   INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (system_id, idx)
			);

			CREATE TABLE IF NOT EXISTS jumps (
				system_id INTEGER NOT NULL REFERENCES systems(id) ON DELETE CASCADE,
				idx       INTEGER NOT NULL,
				target_id INTEGER NOT NULL REFERENCES systems(id) ON DELETE CASCADE,
				x         REAL NOT NULL,
				y         REAL NOT NULL,
				hidden    INTEGER NOT NULL DEFAULT 0,
				exit_only INTEGER NOT NULL DEFAULT 0,
				no_lanes  INTEGER NOT NULL DEFAULT 0,
				PRIMARY KEY (system_id, idx)
			);

			INSERT OR IGNORE INTO schema_version (version) VALUES (1);
		`)
		if err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// Save replaces the stored universe with u in a single transaction.
func (s *Store) Save(ctx context.Context, u *Universe) (err error) {
	tx, err := s.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"jumps", "spobs", "systems", "faction_relations", "factions"} {
		if _, err = tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, f := range u.Factions {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO factions (id, name, invisible, lane_length_per_presence, lane_base_cost) VALUES (?, ?, ?, ?, ?)`,
			int(f.ID), f.Name, f.Invisible, f.LaneLengthPerPresence, f.LaneBaseCost); err != nil {
			return fmt.Errorf("insert faction %q: %w", f.Name, err)
		}
	}
	for _, f := range u.Factions {
		for _, a := range f.Allies {
			if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO faction_relations VALUES (?, ?, 'ally')`, int(f.ID), int(a)); err != nil {
				return fmt.Errorf("insert relation: %w", err)
			}
		}
		for _, e := range f.Enemies {
			if _, err = tx.ExecContext(ctx, `INSERT OR IGNORE INTO faction_relations VALUES (?, ?, 'enemy')`, int(f.ID), int(e)); err != nil {
				return fmt.Errorf("insert relation: %w", err)
			}
		}
	}

	for i, sys := range u.Systems {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO systems (id, name, x, y, no_lanes) VALUES (?, ?, ?, ?, ?)`,
			i, sys.Name, sys.Pos.X, sys.Pos.Y, sys.NoLanes); err != nil {
			return fmt.Errorf("insert system %q: %w", sys.Name, err)
		}
	}
	for i, sys := range u.Systems {
		for k, sp := range sys.Spobs {
			var owner sql.NullInt64
			if sp.Faction != NoFaction {
				owner = sql.NullInt64{Int64: int64(sp.Faction), Valid: true}
			}
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO spobs (system_id, idx, name, x, y, faction_id, presence, spread, no_lanes) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				i, k, sp.Name, sp.Pos.X, sp.Pos.Y, owner, sp.Presence, sp.Range, sp.NoLanes); err != nil {
				return fmt.Errorf("insert spob %q: %w", sp.Name, err)
			}
		}
		for k, j := range sys.Jumps {
			if _, err = tx.ExecContext(ctx,
				`INSERT INTO jumps (system_id, idx, target_id, x, y, hidden, exit_only, no_lanes) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				i, k, j.Target, j.Pos.X, j.Pos.Y, j.Hidden, j.ExitOnly, j.NoLanes); err != nil {
				return fmt.Errorf("insert jump %s -> %d: %w", sys.Name, j.Target, err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	return nil
}

// Load reads the stored universe.
func (s *Store) Load(ctx context.Context) (*Universe, error) {
	var factions []Faction
	rows, err := s.sql.QueryContext(ctx,
		`SELECT id, name, invisible, lane_length_per_presence, lane_base_cost FROM factions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query factions: %w", err)
	}
	pos := make(map[int64]int)
	for rows.Next() {
		var id int64
		var f Faction
		if err := rows.Scan(&id, &f.Name, &f.Invisible, &f.LaneLengthPerPresence, &f.LaneBaseCost); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan faction: %w", err)
		}
		pos[id] = len(factions)
		factions = append(factions, f)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// IDs are reassigned densely by position on load.
	remap := func(id int64) (FactionID, error) {
		p, ok := pos[id]
		if !ok {
			return NoFaction, fmt.Errorf("faction id %d: %w", id, ErrUnknownFaction)
		}
		return FactionID(p + 1), nil
	}

	rows, err = s.sql.QueryContext(ctx, `SELECT faction_id, other_id, kind FROM faction_relations ORDER BY faction_id, other_id`)
	if err != nil {
		return nil, fmt.Errorf("query relations: %w", err)
	}
	for rows.Next() {
		var a, b int64
		var kind string
		if err := rows.Scan(&a, &b, &kind); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan relation: %w", err)
		}
		other, err := remap(b)
		if err != nil {
			rows.Close()
			return nil, err
		}
		p, ok := pos[a]
		if !ok {
			rows.Close()
			return nil, fmt.Errorf("faction id %d: %w", a, ErrUnknownFaction)
		}
		if kind == "ally" {
			factions[p].Allies = append(factions[p].Allies, other)
		} else {
			factions[p].Enemies = append(factions[p].Enemies, other)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var systems []System
	sysPos := make(map[int64]int)
	rows, err = s.sql.QueryContext(ctx, `SELECT id, name, x, y, no_lanes FROM systems ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query systems: %w", err)
	}
	for rows.Next() {
		var id int64
		var sys System
		if err := rows.Scan(&id, &sys.Name, &sys.Pos.X, &sys.Pos.Y, &sys.NoLanes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan system: %w", err)
		}
		sysPos[id] = len(systems)
		systems = append(systems, sys)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.sql.QueryContext(ctx,
		`SELECT system_id, name, x, y, faction_id, presence, spread, no_lanes FROM spobs ORDER BY system_id, idx`)
	if err != nil {
		return nil, fmt.Errorf("query spobs: %w", err)
	}
	for rows.Next() {
		var sysID int64
		var owner sql.NullInt64
		var sp Spob
		if err := rows.Scan(&sysID, &sp.Name, &sp.Pos.X, &sp.Pos.Y, &owner, &sp.Presence, &sp.Range, &sp.NoLanes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan spob: %w", err)
		}
		if owner.Valid {
			if sp.Faction, err = remap(owner.Int64); err != nil {
				rows.Close()
				return nil, err
			}
		}
		p := sysPos[sysID]
		systems[p].Spobs = append(systems[p].Spobs, sp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.sql.QueryContext(ctx,
		`SELECT system_id, target_id, x, y, hidden, exit_only, no_lanes FROM jumps ORDER BY system_id, idx`)
	if err != nil {
		return nil, fmt.Errorf("query jumps: %w", err)
	}
	for rows.Next() {
		var sysID, targetID int64
		var j JumpPoint
		if err := rows.Scan(&sysID, &targetID, &j.Pos.X, &j.Pos.Y, &j.Hidden, &j.ExitOnly, &j.NoLanes); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan jump: %w", err)
		}
		j.Target = sysPos[targetID]
		p := sysPos[sysID]
		systems[p].Jumps = append(systems[p].Jumps, j)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return New(systems, factions)
}
