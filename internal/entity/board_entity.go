package entity

import "github.com/viv500/GenesisAI/pkg/canvas"

// CanvasEntry records that a canvas exists inside a checkpoint, even when
// it holds no notes yet.
type CanvasEntry struct {
	CheckpointID string
	CanvasID     string
}

// PlacedNote is a note together with where it lives.
type PlacedNote struct {
	CheckpointID string
	CanvasID     string
	Order        int
	Note         canvas.Note
}
