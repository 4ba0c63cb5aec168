// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/naev/naev-sub006/safelanes"
	"github.com/spf13/cobra"
)

func newLanesCmd(a *app) *cobra.Command {
	var faction, standing, system string
	cmd := &cobra.Command{
		Use:   "lanes",
		Short: "List lanes, optionally filtered by faction, standing and system",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := loadUniverse(cmd.Context(), a.universePath)
			if err != nil {
				return err
			}
			var opts []safelanes.QueryOption
			if faction != "" {
				f, err := u.FactionByName(faction)
				if err != nil {
					return err
				}
				opts = append(opts, safelanes.WithFaction(f))
			}
			if standing != "" {
				st, err := safelanes.ParseStanding(standing)
				if err != nil {
					return err
				}
				if st != safelanes.StandingNone && faction == "" {
					return errors.New("--standing requires --faction")
				}
				opts = append(opts, safelanes.WithStanding(st))
			}
			if system != "" {
				s, err := u.SystemIndex(system)
				if err != nil {
					return err
				}
				opts = append(opts, safelanes.InSystem(s))
			}

			tbl, err := a.solver().RecalculateUniverse(u)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SYSTEM\tOWNER\tFROM\tTO\tLENGTH")
			for _, l := range tbl.Lanes(opts...) {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.0f\n",
					u.System(l.System).Name, u.FactionName(l.Faction),
					endpointName(u, l.A), endpointName(u, l.B), l.A.Pos.Dist(l.B.Pos))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&faction, "faction", "f", "", "faction name")
	cmd.Flags().StringVarP(&standing, "standing", "s", "", "none, friendly, neutral, hostile, non_friendly or non_hostile")
	cmd.Flags().StringVar(&system, "system", "", "system name")

	return cmd
}
