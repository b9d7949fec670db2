package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viv500/GenesisAI/internal/dto"
	"github.com/viv500/GenesisAI/pkg/canvas"
	"github.com/viv500/GenesisAI/pkg/events"
)

func strPtr(s string) *string {
	return &s
}

func noteTitled(t *testing.T, notes []canvas.Note, title string) canvas.Note {
	t.Helper()
	for _, n := range notes {
		if n.Title == title {
			return n
		}
	}
	t.Fatalf("no note titled %q", title)
	return canvas.Note{}
}

func TestStickyAdd(t *testing.T) {
	tests := []struct {
		name       string
		req        dto.StickyRequest
		wantCanvas string
		wantSector canvas.Sector
	}{
		{
			name:       "root defaults to first checkpoint and product",
			req:        dto.StickyRequest{Sticky: dto.StickyPayload{Title: "Pricing", Description: strPtr("Tiered plans")}},
			wantCanvas: canvas.RootCanvas,
			wantSector: canvas.SectorProduct,
		},
		{
			name:       "nested inherits the parent sector",
			req:        dto.StickyRequest{Path: []string{"Inventory"}, Sticky: dto.StickyPayload{Title: "Warehouses"}},
			wantCanvas: "note-1",
			wantSector: canvas.SectorInventory,
		},
		{
			name:       "unopened canvas is created",
			req:        dto.StickyRequest{Path: []string{"Manufacturing"}, Sticky: dto.StickyPayload{Title: "Line 2"}},
			wantCanvas: "note-2",
			wantSector: canvas.SectorManufacturing,
		},
		{
			name: "explicit sector and checkpoint",
			req: dto.StickyRequest{
				CheckpointId: "cp-2",
				Sticky:       dto.StickyPayload{Title: "Ads", Sector: "marketing"},
			},
			wantCanvas: canvas.RootCanvas,
			wantSector: canvas.SectorMarketing,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			board, pub := newTestBoardService(t, nil)
			svc := NewStickyService(board)

			res, err := svc.Add(ctx, &tt.req)
			require.NoError(t, err)
			assert.Equal(t, "Sticky note added successfully", res.Message)

			cpID := tt.req.CheckpointId
			if cpID == "" {
				cpID = "cp-1"
			}
			note := noteTitled(t, board.Hierarchy(ctx)[cpID][tt.wantCanvas], tt.req.Sticky.Title)
			assert.Equal(t, res.NoteId, note.ID)
			assert.Equal(t, tt.wantSector, note.Sector)
			if tt.req.Sticky.Description != nil {
				assert.Equal(t, *tt.req.Sticky.Description, note.Content)
			}

			evt := pub.last()
			assert.Equal(t, events.NoteAdded, evt.Type)
			assert.Equal(t, "sticky", evt.Source)
		})
	}
}

func TestStickyAddFailuresLeaveBoardUntouched(t *testing.T) {
	tests := []struct {
		name    string
		req     dto.StickyRequest
		wantErr error
	}{
		{"duplicate title", dto.StickyRequest{Sticky: dto.StickyPayload{Title: "Inventory"}}, canvas.ErrDuplicateTitle},
		{"unknown path", dto.StickyRequest{Path: []string{"Inventory", "Nope"}, Sticky: dto.StickyPayload{Title: "x"}}, canvas.ErrPathNotFound},
		{"unknown checkpoint", dto.StickyRequest{CheckpointId: "cp-9", Sticky: dto.StickyPayload{Title: "x"}}, canvas.ErrCheckpointNotFound},
		{"unknown sector", dto.StickyRequest{Sticky: dto.StickyPayload{Title: "x", Sector: "astrology"}}, canvas.ErrInvalidSector},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			board, pub := newTestBoardService(t, nil)
			before := board.Hierarchy(ctx)

			_, err := NewStickyService(board).Add(ctx, &tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, board.Hierarchy(ctx))
			assert.Empty(t, pub.types())
		})
	}
}

func TestStickyEdit(t *testing.T) {
	ctx := context.Background()
	board, pub := newTestBoardService(t, nil)
	svc := NewStickyService(board)

	res, err := svc.Edit(ctx, &dto.StickyRequest{
		Path: []string{"Inventory"},
		Sticky: dto.StickyPayload{
			Title:       "Stock Levels",
			Description: strPtr("Reorder at 40 units."),
			NewTitle:    strPtr("Stock"),
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "note-1-2", res.NoteId)

	note := noteTitled(t, board.Hierarchy(ctx)["cp-1"]["note-1"], "Stock")
	assert.Equal(t, "Reorder at 40 units.", note.Content)

	evt := pub.last()
	assert.Equal(t, events.NoteEdited, evt.Type)
	assert.Equal(t, "Stock Levels", evt.Original.Title)
	assert.Equal(t, map[string]interface{}{"title": "Stock", "content": "Reorder at 40 units."}, evt.Changes)

	_, err = svc.Edit(ctx, &dto.StickyRequest{
		Path:   []string{"Inventory"},
		Sticky: dto.StickyPayload{Title: "Stock", NewTitle: strPtr("Suppliers")},
	})
	assert.ErrorIs(t, err, canvas.ErrDuplicateTitle)

	_, err = svc.Edit(ctx, &dto.StickyRequest{Sticky: dto.StickyPayload{Title: "Missing"}})
	assert.ErrorIs(t, err, canvas.ErrNoteNotFound)
}

func TestStickyDelete(t *testing.T) {
	ctx := context.Background()
	board, _ := newTestBoardService(t, nil)
	svc := NewStickyService(board)

	res, err := svc.Delete(ctx, &dto.StickyRequest{Sticky: dto.StickyPayload{Title: "Inventory"}})
	require.NoError(t, err)
	assert.Equal(t, "note-1", res.NoteId)

	h := board.Hierarchy(ctx)
	assert.Len(t, h["cp-1"][canvas.RootCanvas], 3)
	_, nested := h["cp-1"]["note-1"]
	assert.False(t, nested)

	_, err = svc.Delete(ctx, &dto.StickyRequest{Sticky: dto.StickyPayload{Title: "Inventory"}})
	assert.ErrorIs(t, err, canvas.ErrNoteNotFound)
}
