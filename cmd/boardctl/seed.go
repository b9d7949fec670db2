package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var seedEmpty bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the board store with the demo checkpoints when it is empty",
	Long: `seed writes the demo board (or a single empty checkpoint with --empty)
to the database. A store that already holds checkpoints is left untouched.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !cfg.PersistenceEnabled() {
			fatal("seed", errors.New("DB_CONNECTION_STRING is not set"))
		}

		ctx := context.Background()
		boardService, closeFn, err := openBoard(ctx, !seedEmpty)
		if err != nil {
			fatal("seed", err)
		}
		defer closeFn()

		for _, cp := range boardService.Checkpoints(ctx) {
			fmt.Printf("%s %s (%d notes)\n", color.CyanString(cp.Id), cp.Title, cp.NoteCount)
		}
		color.Green("✅ Board store ready")
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().BoolVar(&seedEmpty, "empty", false, "Seed a single empty checkpoint instead of the demo board")
}
