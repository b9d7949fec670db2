package main

import (
	"context"
	"errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/viv500/GenesisAI/internal/bootstrap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the checkpoints, canvases and notes tables",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !cfg.PersistenceEnabled() {
			fatal("migrate", errors.New("DB_CONNECTION_STRING is not set"))
		}

		_, db, err := bootstrap.OpenStore(context.Background(), cfg)
		if err != nil {
			fatal("migrate", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		color.Green("✅ Board tables migrated (%s)", cfg.Database.Driver)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
