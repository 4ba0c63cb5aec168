// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/naev/naev-sub006/config"
	"github.com/naev/naev-sub006/safelanes"
	"github.com/naev/naev-sub006/universe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries the state shared by every subcommand.
type app struct {
	cfgPath      string
	universePath string
	lambda       float64

	cfg      *config.Config
	log      *zap.Logger
	registry *prometheus.Registry
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	root := &cobra.Command{
		Use:           "safelanes",
		Short:         "Compute faction safe lanes for a universe",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.log.Sync()
		},
	}
	root.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "safelanes.yaml", "configuration file (missing file uses defaults)")
	root.PersistentFlags().StringVarP(&a.universePath, "universe", "u", "universe.yaml", "universe as .yaml or SQLite .db")
	root.PersistentFlags().Float64Var(&a.lambda, "lambda", safelanes.DefaultLambda, "override solver.lambda")

	root.AddCommand(
		newComputeCmd(a),
		newLanesCmd(a),
		newGenerateCmd(a),
		newApplyDiffCmd(a),
		newImportCmd(a),
		newExportCmd(a),
		newWatchCmd(a),
	)

	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("lambda") {
		cfg.Solver.Lambda = a.lambda
	}
	log, err := cfg.Logger()
	if err != nil {
		return err
	}
	a.cfg, a.log = cfg, log
	a.registry = prometheus.NewRegistry()

	return nil
}

// solver builds a Solver from the loaded configuration, reporting to the
// app registry.
func (a *app) solver() *safelanes.Solver {
	opts := append(a.cfg.SolverOptions(),
		safelanes.WithLogger(a.log),
		safelanes.WithMetrics(safelanes.NewMetrics(a.registry)),
	)

	return safelanes.NewSolver(opts...)
}

func isStore(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// loadUniverse reads path, choosing the SQLite store or YAML by extension.
func loadUniverse(ctx context.Context, path string) (*universe.Universe, error) {
	if !isStore(path) {
		return universe.LoadFile(path)
	}
	st, err := universe.OpenStore(path)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	return st.Load(ctx)
}

// saveUniverse writes u to path, choosing the format by extension.
func saveUniverse(ctx context.Context, path string, u *universe.Universe) error {
	if isStore(path) {
		st, err := universe.OpenStore(path)
		if err != nil {
			return err
		}
		defer st.Close()
		return st.Save(ctx, u)
	}

	return writeFile(path, u.WriteYAML)
}

// endpointName labels a lane end by spob name or by the jump's destination.
func endpointName(u *universe.Universe, e safelanes.Endpoint) string {
	sys := u.System(e.System)
	switch e.Kind {
	case safelanes.VertexSpob:
		return sys.Spobs[e.Index].Name
	case safelanes.VertexJump:
		return fmt.Sprintf("jump:%s", u.System(sys.Jumps[e.Index].Target).Name)
	}
	return e.Vertex.Kind.String()
}
