// SPDX-License-Identifier: MIT

package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newApplyDiffCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "apply-diff DIFF...",
		Short: "Apply universe diffs, save the result and recalculate lanes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			u, err := loadUniverse(ctx, a.universePath)
			if err != nil {
				return err
			}
			if err = applyDiffFiles(u, args); err != nil {
				return err
			}
			if out == "" {
				out = a.universePath
			}
			if err = saveUniverse(ctx, out, u); err != nil {
				return err
			}
			a.log.Info("universe diffs applied", zap.Strings("diffs", args), zap.String("out", out))

			tbl, err := a.solver().RecalculateUniverse(u)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), u, tbl)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "destination (default: overwrite --universe)")

	return cmd
}
