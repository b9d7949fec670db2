package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var importCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Replace the stored hierarchy with one written by export",
	Long: `import reads a JSON or YAML export and swaps it in as the whole board
hierarchy. Every checkpoint it names must already exist; nothing is written
when the document fails validation.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		f, err := os.Open(args[0])
		if err != nil {
			fatal("import", err)
		}
		defer f.Close()

		doc, err := readExport(f, formatOf(args[0]))
		if err != nil {
			fatal("import", err)
		}

		ctx := context.Background()
		boardService, closeFn, err := openBoard(ctx, cfg.Board.SeedDemo)
		if err != nil {
			fatal("import", err)
		}
		defer closeFn()

		if err := boardService.ReplaceHierarchy(ctx, doc.Hierarchy, "cli:import"); err != nil {
			fatal("import", err)
		}
		color.Green("✅ Imported %d checkpoints from %s", len(doc.Hierarchy), args[0])
	},
}

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func readExport(r io.Reader, format string) (boardExport, error) {
	var doc boardExport
	var err error
	switch format {
	case "json":
		err = json.NewDecoder(r).Decode(&doc)
	case "yaml", "yml":
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return doc, fmt.Errorf("unknown format %q (want json or yaml)", format)
	}
	if err != nil {
		return doc, fmt.Errorf("failed to decode %s export: %w", format, err)
	}
	if len(doc.Hierarchy) == 0 {
		return doc, fmt.Errorf("export holds no hierarchy")
	}
	return doc, nil
}

func init() {
	rootCmd.AddCommand(importCmd)
}
