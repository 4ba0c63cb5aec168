// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/naev/naev-sub006/safelanes"
	"github.com/naev/naev-sub006/universe"
	"github.com/spf13/cobra"
)

func newComputeCmd(a *app) *cobra.Command {
	var diffs []string
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Recalculate lanes and print a per-faction summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := loadUniverse(cmd.Context(), a.universePath)
			if err != nil {
				return err
			}
			if err = applyDiffFiles(u, diffs); err != nil {
				return err
			}
			tbl, err := a.solver().RecalculateUniverse(u)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), u, tbl)
		},
	}
	cmd.Flags().StringSliceVar(&diffs, "diff", nil, "diff files applied in order before computing")

	return cmd
}

func applyDiffFiles(u *universe.Universe, paths []string) error {
	for _, p := range paths {
		d, err := universe.LoadDiffFile(p)
		if err != nil {
			return err
		}
		if err = d.Apply(u); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}

	return nil
}

// writeSummary prints the recalculation report followed by one row per
// lane-building faction with totals over all systems.
func writeSummary(w io.Writer, u *universe.Universe, tbl *safelanes.OwnershipTable) error {
	fmt.Fprintf(w, "rounds=%d lanes=%d vertices=%d candidates=%d elapsed=%s\n",
		tbl.Rounds(), tbl.Activations(), tbl.Vertices(), tbl.Candidates(), tbl.Elapsed())

	counts := tbl.LaneCounts()
	factions := tbl.Factions()
	sort.Slice(factions, func(i, j int) bool { return factions[i] < factions[j] })

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "FACTION\tLANES\tSPENT\tBUDGET")
	for _, f := range factions {
		var spent, initial float64
		for s := 0; s < u.NumSystems(); s++ {
			if b, ok := tbl.Budget(f, s); ok {
				spent += b.Spent
				initial += b.Initial
			}
		}
		fmt.Fprintf(tw, "%s\t%d\t%.2f\t%.2f\n", u.FactionName(f), counts[f], spent, initial)
	}

	return tw.Flush()
}

// writeFile creates path and streams into it with fn.
func writeFile(path string, fn func(io.Writer) error) (err error) {
	if path == "" || path == "-" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return fn(f)
}
