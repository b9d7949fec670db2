package dto

type StickyPayload struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description"`
	NewTitle    *string `json:"new_title" validate:"omitempty,min=1,max=255"`
	Sector      string  `json:"sector"`
}

// StickyRequest addresses a note by the titles leading to its canvas.
type StickyRequest struct {
	CheckpointId string        `json:"checkpoint_id"`
	Path         []string      `json:"path"`
	Sticky       StickyPayload `json:"sticky"`
}

type StickyResponse struct {
	Message string `json:"message"`
	NoteId  string `json:"note_id,omitempty"`
}
