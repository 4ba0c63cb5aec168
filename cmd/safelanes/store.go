// SPDX-License-Identifier: MIT

package main

import (
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import SRC.yaml DST.db",
		Short: "Copy a YAML universe into a SQLite store",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if isStore(args[0]) || !isStore(args[1]) {
				return errors.New("import: want a YAML source and a .db destination")
			}
			return a.copyUniverse(cmd, args[0], args[1])
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export SRC.db DST.yaml",
		Short: "Write a stored universe back to YAML",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isStore(args[0]) || isStore(args[1]) {
				return errors.New("export: want a .db source and a YAML destination")
			}
			return a.copyUniverse(cmd, args[0], args[1])
		},
	}
}

func (a *app) copyUniverse(cmd *cobra.Command, src, dst string) error {
	ctx := cmd.Context()
	u, err := loadUniverse(ctx, src)
	if err != nil {
		return err
	}
	if err = saveUniverse(ctx, dst, u); err != nil {
		return err
	}
	a.log.Info("universe copied",
		zap.String("from", src),
		zap.String("to", dst),
		zap.Int("systems", u.NumSystems()),
		zap.Int("factions", len(u.Factions)))

	return nil
}
