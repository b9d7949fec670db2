package service

import (
	"context"
	"fmt"

	"github.com/viv500/GenesisAI/internal/dto"
	"github.com/viv500/GenesisAI/pkg/canvas"
	"github.com/viv500/GenesisAI/pkg/events"
)

// IStickyService edits notes addressed by title path instead of by id.
type IStickyService interface {
	Add(ctx context.Context, req *dto.StickyRequest) (*dto.StickyResponse, error)
	Edit(ctx context.Context, req *dto.StickyRequest) (*dto.StickyResponse, error)
	Delete(ctx context.Context, req *dto.StickyRequest) (*dto.StickyResponse, error)
}

type stickyService struct {
	boardService IBoardService
}

func NewStickyService(boardService IBoardService) IStickyService {
	return &stickyService{
		boardService: boardService,
	}
}

func (s *stickyService) Add(ctx context.Context, req *dto.StickyRequest) (*dto.StickyResponse, error) {
	evt, err := s.boardService.Update(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		cpID, err := checkpointOrFirst(b, req.CheckpointId)
		if err != nil {
			return nil, err
		}
		canvasID, err := b.ResolvePath(cpID, req.Path)
		if err != nil {
			return nil, err
		}
		if _, err := b.FindByTitle(cpID, canvasID, req.Sticky.Title); err == nil {
			return nil, canvas.ErrDuplicateTitle
		}

		sector, err := stickySector(b, cpID, canvasID, req.Sticky.Sector)
		if err != nil {
			return nil, err
		}
		content := ""
		if req.Sticky.Description != nil {
			content = *req.Sticky.Description
		}

		note, err := b.AddNote(cpID, canvasID, canvas.NoteDraft{
			Title:   req.Sticky.Title,
			Content: content,
			Sector:  sector,
		})
		if err != nil {
			return nil, err
		}
		evt := events.NewBoardEvent(events.NoteAdded, cpID, canvasID)
		evt.Source = "sticky"
		evt.Note = &note
		return evt, nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.StickyResponse{Message: "Sticky note added successfully", NoteId: evt.Note.ID}, nil
}

func (s *stickyService) Edit(ctx context.Context, req *dto.StickyRequest) (*dto.StickyResponse, error) {
	evt, err := s.boardService.Update(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		cpID, err := checkpointOrFirst(b, req.CheckpointId)
		if err != nil {
			return nil, err
		}
		canvasID, err := b.ResolvePath(cpID, req.Path)
		if err != nil {
			return nil, err
		}
		original, err := b.FindByTitle(cpID, canvasID, req.Sticky.Title)
		if err != nil {
			return nil, err
		}

		patch := canvas.NotePatch{Content: req.Sticky.Description}
		if nt := req.Sticky.NewTitle; nt != nil && *nt != original.Title {
			if _, err := b.FindByTitle(cpID, canvasID, *nt); err == nil {
				return nil, canvas.ErrDuplicateTitle
			}
			patch.Title = nt
		}

		updated, err := b.EditNote(cpID, canvasID, original.ID, patch)
		if err != nil {
			return nil, err
		}
		evt := events.NewBoardEvent(events.NoteEdited, cpID, canvasID)
		evt.Source = "sticky"
		evt.Original = &original
		evt.Note = &updated
		evt.Changes = patchChanges(updated, patch)
		return evt, nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.StickyResponse{Message: "Sticky note updated successfully", NoteId: evt.Note.ID}, nil
}

// Delete removes the note and its own canvas; deeper canvases are left for Prune.
func (s *stickyService) Delete(ctx context.Context, req *dto.StickyRequest) (*dto.StickyResponse, error) {
	evt, err := s.boardService.Update(ctx, func(b *canvas.Board) (*events.BoardEvent, error) {
		cpID, err := checkpointOrFirst(b, req.CheckpointId)
		if err != nil {
			return nil, err
		}
		canvasID, err := b.ResolvePath(cpID, req.Path)
		if err != nil {
			return nil, err
		}
		target, err := b.FindByTitle(cpID, canvasID, req.Sticky.Title)
		if err != nil {
			return nil, err
		}
		removed, err := b.DeleteNote(cpID, canvasID, target.ID)
		if err != nil {
			return nil, err
		}
		evt := events.NewBoardEvent(events.NoteDeleted, cpID, canvasID)
		evt.Source = "sticky"
		evt.Note = &removed
		return evt, nil
	})
	if err != nil {
		return nil, err
	}

	return &dto.StickyResponse{Message: "Sticky note deleted successfully", NoteId: evt.Note.ID}, nil
}

func checkpointOrFirst(b *canvas.Board, checkpointID string) (string, error) {
	if checkpointID != "" {
		if _, ok := b.Checkpoint(checkpointID); !ok {
			return "", fmt.Errorf("%w: %s", canvas.ErrCheckpointNotFound, checkpointID)
		}
		return checkpointID, nil
	}
	cps := b.Checkpoints()
	if len(cps) == 0 {
		return "", canvas.ErrCheckpointNotFound
	}
	return cps[0].ID, nil
}

// stickySector uses the requested sector, else the parent note's, else product.
func stickySector(b *canvas.Board, cpID, canvasID, requested string) (canvas.Sector, error) {
	if requested != "" {
		return canvas.ParseSector(requested)
	}
	if canvasID != canvas.RootCanvas {
		canvases, err := b.Canvases(cpID)
		if err != nil {
			return "", err
		}
		if parentCanvas, idx, ok := canvases.Find(canvasID); ok {
			return canvases[parentCanvas][idx].Sector, nil
		}
	}
	return canvas.SectorProduct, nil
}
