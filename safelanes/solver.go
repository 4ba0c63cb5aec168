// SPDX-License-Identifier: MIT

package safelanes

import (
	"sync"
	"sync/atomic"

	"github.com/naev/naev-sub006/universe"
	"go.uber.org/zap"
)

// Solver owns the safe-lane computation and its latest result.
//
// Recalculate is the only mutating entry point; calls are serialized. The
// current OwnershipTable is swapped atomically once a recalculation has
// finished, so Table and Lanes never see a partial result. After Shutdown,
// Recalculate is a no-op.
type Solver struct {
	opts   Options
	mu     sync.Mutex
	table  atomic.Pointer[OwnershipTable]
	closed atomic.Bool
}

// NewSolver returns a Solver configured by opts on top of DefaultOptions.
// Invalid option values panic.
func NewSolver(opts ...Option) *Solver {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.LinearSolver == nil {
		o.LinearSolver = CholeskySolver{Workers: o.Workers}
	}

	return &Solver{opts: o}
}

// Options returns the effective configuration.
func (s *Solver) Options() Options { return s.opts }

// Recalculate rebuilds every lane from topology, factions and presence and
// publishes the new table.
//
// Errors:
//   - ErrNilTopology if any collaborator is nil.
//   - ErrTooManyFactions if the lane builders exceed MaxLaneFactions; the
//     previous table stays published.
//
// During shutdown the call is skipped and the current table (possibly nil)
// is returned without error.
func (s *Solver) Recalculate(topo Topology, fd FactionDirectory, pres PresenceSource) (*OwnershipTable, error) {
	if topo == nil || fd == nil || pres == nil {
		return nil, ErrNilTopology
	}
	log := s.opts.Logger
	if s.closed.Load() {
		log.Warn("safelanes recalculation skipped: solver is shutting down")
		s.opts.Metrics.observeResult(ResultSkipped)
		return s.table.Load(), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := compute(s.opts, topo, fd, pres)
	if err != nil {
		log.Error("safelanes recalculation failed", zap.Error(err))
		s.opts.Metrics.observeResult(ResultError)
		return nil, err
	}
	s.table.Store(t)

	names := make(map[universe.FactionID]string)
	for _, f := range fd.AllFactions() {
		names[f.ID] = f.Name
	}
	s.opts.Metrics.observeResult(ResultOK)
	s.opts.Metrics.observeTable(t, names)
	log.Info("safelanes recalculated",
		zap.Int("systems", topo.NumSystems()),
		zap.Int("vertices", t.Vertices()),
		zap.Int("candidates", t.Candidates()),
		zap.Int("factions", len(t.builders)),
		zap.Int("rounds", t.Rounds()),
		zap.Int("lanes", t.Activations()),
		zap.Duration("elapsed", t.Elapsed()))

	return t, nil
}

// RecalculateUniverse is Recalculate with u serving every collaborator role.
func (s *Solver) RecalculateUniverse(u *universe.Universe) (*OwnershipTable, error) {
	if u == nil {
		return nil, ErrNilTopology
	}

	return s.Recalculate(u, u, u)
}

// Table returns the last published table, or nil before the first recalculation.
func (s *Solver) Table() *OwnershipTable { return s.table.Load() }

// Lanes queries the last published table; nil before the first recalculation.
func (s *Solver) Lanes(opts ...QueryOption) []Lane {
	t := s.table.Load()
	if t == nil {
		return nil
	}

	return t.Lanes(opts...)
}

// Shutdown turns further recalculations into no-ops. Published results stay
// queryable.
func (s *Solver) Shutdown() { s.closed.Store(true) }
