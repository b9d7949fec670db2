package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viv500/GenesisAI/internal/bootstrap"
	"github.com/viv500/GenesisAI/internal/config"
	"github.com/viv500/GenesisAI/internal/pkg/logger"
	"github.com/viv500/GenesisAI/internal/repository/memory"
	"github.com/viv500/GenesisAI/internal/service"
)

var (
	verbose bool
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "boardctl",
	Short: "Maintenance tool for the coaching board store",
	Long: `boardctl migrates and seeds the board database, exports the stored
hierarchy and follows the board event stream published on NATS.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log board service activity to stdout")
}

func cliLogger() logger.ILogger {
	if verbose {
		return logger.NewZapLogger(cfg.App.LogFilePath, false)
	}
	return logger.NewNopLogger()
}

// openBoard loads the board the same way the server does, without events.
func openBoard(ctx context.Context, seedDemo bool) (service.IBoardService, func(), error) {
	uowFactory, db, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	log := cliLogger()
	boardService := service.NewBoardService(uowFactory, memory.NewSessionRepository(cfg.Board.SessionTTL), nil, log)
	closeFn := func() {
		_ = log.Sync()
		if db != nil {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
	}

	if err := boardService.Init(ctx, seedDemo); err != nil {
		closeFn()
		return nil, nil, err
	}
	return boardService, closeFn, nil
}
