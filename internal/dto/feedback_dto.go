package dto

import (
	"time"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

// FeedbackRequest is the body of POST /api/feedback.
type FeedbackRequest struct {
	CanvasHierarchy canvas.Hierarchy       `json:"canvasHierarchy"`
	UpdatedNote     *canvas.Note           `json:"updatedNote" validate:"required"`
	OriginalNote    *canvas.Note           `json:"originalNote"`
	Changes         map[string]interface{} `json:"changes"`
}

type FeedbackResponse struct {
	Feedback string `json:"feedback"`
}

type FeedbackItem struct {
	Id           string    `json:"id"`
	CheckpointId string    `json:"checkpoint_id"`
	NoteId       string    `json:"note_id"`
	NoteTitle    string    `json:"note_title"`
	Feedback     string    `json:"feedback"`
	CreatedAt    time.Time `json:"created_at"`
}
