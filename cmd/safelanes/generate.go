// SPDX-License-Identifier: MIT

package main

import (
	"errors"

	"github.com/naev/naev-sub006/builder"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		out      string
		seed     int64
		systems  int
		factions int
		llpp     float64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a synthetic galaxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if systems < 1 || factions < 0 || llpp <= 0 {
				return errors.New("generate: need --systems >= 1, --factions >= 0 and --llpp > 0")
			}
			u, err := builder.Galaxy(
				builder.WithSeed(seed),
				builder.WithSystems(systems),
				builder.WithFactions(factions),
				builder.WithLaneLengthPerPresence(llpp),
			)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				return u.WriteYAML(cmd.OutOrStdout())
			}
			if err = saveUniverse(cmd.Context(), out, u); err != nil {
				return err
			}
			a.log.Sugar().Infof("wrote %d systems to %s", u.NumSystems(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output .yaml or .db (default stdout)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random seed")
	cmd.Flags().IntVar(&systems, "systems", 20, "number of systems")
	cmd.Flags().IntVar(&factions, "factions", 3, "number of factions")
	cmd.Flags().Float64Var(&llpp, "llpp", 300, "lane length per presence of every faction")

	return cmd
}
