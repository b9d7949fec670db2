package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

var (
	exportFormat string
	exportOut    string
)

// boardExport is the document written by `boardctl export`.
type boardExport struct {
	ExportedAt  time.Time           `json:"exported_at" yaml:"exported_at"`
	Checkpoints []canvas.Checkpoint `json:"checkpoints" yaml:"checkpoints"`
	Hierarchy   canvas.Hierarchy    `json:"hierarchy" yaml:"hierarchy"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the stored board hierarchy as JSON or YAML",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		boardService, closeFn, err := openBoard(ctx, cfg.Board.SeedDemo)
		if err != nil {
			fatal("export", err)
		}
		defer closeFn()

		doc := boardExport{
			ExportedAt: time.Now().UTC(),
			Hierarchy:  boardService.Hierarchy(ctx),
		}
		for _, cp := range boardService.Checkpoints(ctx) {
			doc.Checkpoints = append(doc.Checkpoints, canvas.Checkpoint{ID: cp.Id, Title: cp.Title, Date: cp.Date})
		}

		var w io.Writer = os.Stdout
		if exportOut != "" {
			f, err := os.Create(exportOut)
			if err != nil {
				fatal("export", err)
			}
			defer f.Close()
			w = f
		}

		if err := writeExport(w, exportFormat, doc); err != nil {
			fatal("export", err)
		}
		if exportOut != "" {
			color.Green("✅ Exported %d checkpoints to %s", len(doc.Checkpoints), exportOut)
		}
	},
}

func writeExport(w io.Writer, format string, doc boardExport) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(doc)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		defer encoder.Close()
		return encoder.Encode(doc)
	default:
		return fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Output format: json or yaml")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Write to a file instead of stdout")
}
