package dto

import (
	"time"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

type CheckpointResponse struct {
	Id        string    `json:"id"`
	Title     string    `json:"title"`
	Date      time.Time `json:"date"`
	NoteCount int       `json:"note_count"`
}

type CreateSessionRequest struct {
	CheckpointId string `json:"checkpoint_id"`
}

type SelectCheckpointRequest struct {
	CheckpointId string `json:"checkpoint_id" validate:"required"`
}

type OpenCanvasRequest struct {
	NoteId string `json:"note_id" validate:"required"`
}

// SessionResponse is everything a client needs to draw the current canvas.
type SessionResponse struct {
	Id            string             `json:"id"`
	Checkpoint    CheckpointResponse `json:"checkpoint"`
	CanvasId      string             `json:"canvas_id"`
	CanvasTitle   string             `json:"canvas_title"`
	Stack         []string           `json:"stack"`
	Breadcrumb    []canvas.Crumb     `json:"breadcrumb"`
	Notes         []canvas.Note      `json:"notes"`
	SelectedCount int                `json:"selected_count"`
	HighestZIndex int                `json:"highest_z_index"`
}

type AddNoteRequest struct {
	// "quick" picks a random sector with placeholder text; "dialog" (default)
	// uses the fields below.
	Mode     string           `json:"mode" validate:"omitempty,oneof=quick dialog"`
	Title    string           `json:"title" validate:"max=255"`
	Content  string           `json:"content"`
	Sector   string           `json:"sector"`
	Position *canvas.Position `json:"position"`
	Files    []string         `json:"files"`
}

type EditNoteRequest struct {
	Title    *string          `json:"title" validate:"omitempty,max=255"`
	Content  *string          `json:"content"`
	Position *canvas.Position `json:"position"`
	Files    *[]string        `json:"files"`
}

func (r EditNoteRequest) Patch() canvas.NotePatch {
	return canvas.NotePatch{
		Title:    r.Title,
		Content:  r.Content,
		Position: r.Position,
		Files:    r.Files,
	}
}

type PruneResponse struct {
	CheckpointId string   `json:"checkpoint_id"`
	Removed      []string `json:"removed"`
}
