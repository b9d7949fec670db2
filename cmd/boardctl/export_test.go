package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

func demoExport() boardExport {
	return boardExport{
		ExportedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Checkpoints: canvas.DemoCheckpoints(),
		Hierarchy:   canvas.DemoHierarchy(),
	}
}

func TestWriteExportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeExport(&buf, "json", demoExport()))
	assert.Contains(t, buf.String(), "\n  \"checkpoints\": [")

	var got boardExport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, demoExport().Hierarchy, got.Hierarchy)
	require.Len(t, got.Checkpoints, 3)
	assert.Equal(t, "cp-1", got.Checkpoints[0].ID)
}

func TestWriteExportYAML(t *testing.T) {
	for _, format := range []string{"yaml", "yml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeExport(&buf, format, demoExport()))
			assert.Contains(t, buf.String(), "parent_id: note-1")

			var got boardExport
			require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
			assert.Equal(t, demoExport().Hierarchy, got.Hierarchy)
			assert.Len(t, got.Checkpoints, 3)
		})
	}
}

func TestWriteExportUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := writeExport(&buf, "toml", demoExport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"toml"`)
	assert.Zero(t, buf.Len())
}

func TestReadExportRoundTrip(t *testing.T) {
	for _, format := range []string{"json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, writeExport(&buf, format, demoExport()))

			got, err := readExport(&buf, format)
			require.NoError(t, err)
			assert.Equal(t, demoExport().Hierarchy, got.Hierarchy)
		})
	}
}

func TestReadExportRejectsEmptyDocument(t *testing.T) {
	_, err := readExport(bytes.NewBufferString(`{"checkpoints": []}`), "json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no hierarchy")

	_, err = readExport(bytes.NewBufferString("{}"), "toml")
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	assert.Equal(t, "yaml", formatOf("board.YML"))
	assert.Equal(t, "yaml", formatOf("/tmp/board.yaml"))
	assert.Equal(t, "json", formatOf("board.json"))
	assert.Equal(t, "json", formatOf("board"))
}
