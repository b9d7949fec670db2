package mapper

import (
	"sort"

	"github.com/viv500/GenesisAI/internal/entity"
	"github.com/viv500/GenesisAI/pkg/canvas"
)

// BoardMapper flattens a checkpoint's canvases into rows and back.
type BoardMapper struct{}

func NewBoardMapper() *BoardMapper {
	return &BoardMapper{}
}

func (m *BoardMapper) Flatten(checkpointID string, canvases canvas.Canvases) ([]entity.CanvasEntry, []*entity.PlacedNote) {
	entries := make([]entity.CanvasEntry, 0, len(canvases))
	var notes []*entity.PlacedNote
	for _, canvasID := range canvases.IDs() {
		entries = append(entries, entity.CanvasEntry{CheckpointID: checkpointID, CanvasID: canvasID})
		for i, n := range canvases[canvasID] {
			notes = append(notes, &entity.PlacedNote{
				CheckpointID: checkpointID,
				CanvasID:     canvasID,
				Order:        i,
				Note:         n.Clone(),
			})
		}
	}
	return entries, notes
}

// Assemble rebuilds the hierarchy. Notes keep their stored order within a
// canvas; a note whose canvas row is missing still creates the canvas.
func (m *BoardMapper) Assemble(entries []entity.CanvasEntry, notes []*entity.PlacedNote) canvas.Hierarchy {
	h := canvas.Hierarchy{}
	for _, e := range entries {
		if h[e.CheckpointID] == nil {
			h[e.CheckpointID] = canvas.Canvases{}
		}
		if _, ok := h[e.CheckpointID][e.CanvasID]; !ok {
			h[e.CheckpointID][e.CanvasID] = []canvas.Note{}
		}
	}

	sorted := append([]*entity.PlacedNote{}, notes...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Order < sorted[j].Order
	})
	for _, p := range sorted {
		if h[p.CheckpointID] == nil {
			h[p.CheckpointID] = canvas.Canvases{}
		}
		h[p.CheckpointID][p.CanvasID] = append(h[p.CheckpointID][p.CanvasID], p.Note)
	}
	return h
}
