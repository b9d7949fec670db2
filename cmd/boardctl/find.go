package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/viv500/GenesisAI/internal/bootstrap"
	"github.com/viv500/GenesisAI/internal/entity"
	"github.com/viv500/GenesisAI/internal/repository/specification"
	"github.com/viv500/GenesisAI/internal/repository/unitofwork"
)

var (
	findCheckpoint string
	findCanvas     string
	findTitle      string
	findSector     string
)

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Query stored notes without loading the whole board",
	Long: `find reads the notes table directly. With --title it prints the first
matching note, otherwise every note matching the filters.`,
	Example: `  boardctl find --checkpoint cp-1 --canvas note-1
  boardctl find --checkpoint cp-1 --title "Stock Levels"
  boardctl find --sector inventory`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if !cfg.PersistenceEnabled() {
			fatal("find", errors.New("DB_CONNECTION_STRING is not set"))
		}

		ctx := context.Background()
		uowFactory, db, err := bootstrap.OpenStore(ctx, cfg)
		if err != nil {
			fatal("find", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		if err := runFind(ctx, uowFactory, findFilters()); err != nil {
			fatal("find", err)
		}
	},
}

func findFilters() []specification.Specification {
	var specs []specification.Specification
	if findCheckpoint != "" {
		specs = append(specs, specification.ByCheckpointID{CheckpointID: findCheckpoint})
	}
	if findCanvas != "" {
		specs = append(specs, specification.ByCanvasKey{CanvasKey: findCanvas})
	}
	if findSector != "" {
		specs = append(specs, specification.Filter("sector", strings.ToLower(findSector)))
	}
	if findTitle != "" {
		specs = append(specs, specification.ByTitle{Title: findTitle})
	}
	return specs
}

func runFind(ctx context.Context, uowFactory unitofwork.RepositoryFactory, specs []specification.Specification) error {
	uow := uowFactory.NewUnitOfWork(ctx)
	notes := uow.NoteRepository()

	if findCheckpoint != "" {
		cp, err := uow.CheckpointRepository().FindOne(ctx, specification.ByID{ID: findCheckpoint})
		if err != nil {
			return err
		}
		if cp == nil {
			return fmt.Errorf("checkpoint %s is not stored", findCheckpoint)
		}
		fmt.Printf("%s %s\n", color.CyanString(cp.ID), color.New(color.Bold).Sprint(cp.Title))
	}

	if findTitle != "" {
		note, err := notes.FindOne(ctx, specs...)
		if err != nil {
			return err
		}
		if note == nil {
			color.Yellow("No note titled %q", findTitle)
			return nil
		}
		printPlacedNote(note)
		return nil
	}

	total, err := notes.Count(ctx, specs...)
	if err != nil {
		return err
	}
	found, err := notes.FindAll(ctx, specs...)
	if err != nil {
		return err
	}
	for _, note := range found {
		printPlacedNote(note)
	}
	color.Green("%d notes", total)
	return nil
}

func printPlacedNote(p *entity.PlacedNote) {
	fmt.Printf("%s %s %s %s\n",
		color.CyanString(p.CheckpointID),
		color.HiBlackString(p.CanvasID+"/"+p.Note.ID),
		color.MagentaString(string(p.Note.Sector)),
		p.Note.Title,
	)
}

func init() {
	rootCmd.AddCommand(findCmd)
	findCmd.Flags().StringVarP(&findCheckpoint, "checkpoint", "c", "", "Only notes of this checkpoint")
	findCmd.Flags().StringVar(&findCanvas, "canvas", "", "Only notes on this canvas (root or a note id)")
	findCmd.Flags().StringVarP(&findTitle, "title", "t", "", "Print the first note with this exact title")
	findCmd.Flags().StringVarP(&findSector, "sector", "s", "", "Only notes of this business sector")
}
