package events

import (
	"time"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

// Board event codes. NATS subjects are "events.<code>".
const (
	NoteAdded         = "NOTE_ADDED"
	NoteEdited        = "NOTE_EDITED"
	NoteDeleted       = "NOTE_DELETED"
	NoteSelected      = "NOTE_SELECTED"
	CheckpointAdded   = "CHECKPOINT_ADDED"
	HierarchyReplaced = "HIERARCHY_REPLACED"
	NotesMerged       = "NOTES_MERGED"
	CanvasPruned      = "CANVAS_PRUNED"
	CanvasOpened      = "CANVAS_OPENED"
)

// BoardEvent describes one applied board mutation.
type BoardEvent struct {
	Type         string                 `json:"type"`
	CheckpointID string                 `json:"checkpoint_id,omitempty"`
	CanvasID     string                 `json:"canvas_id,omitempty"`
	SessionID    string                 `json:"session_id,omitempty"`
	Source       string                 `json:"source,omitempty"`
	Note         *canvas.Note           `json:"note,omitempty"`
	Original     *canvas.Note           `json:"original,omitempty"`
	Changes      map[string]interface{} `json:"changes,omitempty"`
	Removed      []string               `json:"removed,omitempty"`
	OccurredAt   time.Time              `json:"occurred_at"`
}

var _ Event = BoardEvent{}

func NewBoardEvent(eventType, checkpointID, canvasID string) *BoardEvent {
	return &BoardEvent{
		Type:         eventType,
		CheckpointID: checkpointID,
		CanvasID:     canvasID,
		OccurredAt:   time.Now().UTC(),
	}
}

func (e BoardEvent) EventType() string {
	return e.Type
}

func (e BoardEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Payload flattens the event for subscribers that only speak maps.
func (e BoardEvent) Payload() map[string]interface{} {
	p := map[string]interface{}{
		"type":        e.Type,
		"occurred_at": e.OccurredAt.Format(time.RFC3339Nano),
	}
	if e.CheckpointID != "" {
		p["checkpoint_id"] = e.CheckpointID
	}
	if e.CanvasID != "" {
		p["canvas_id"] = e.CanvasID
	}
	if e.SessionID != "" {
		p["session_id"] = e.SessionID
	}
	if e.Source != "" {
		p["source"] = e.Source
	}
	if e.Note != nil {
		p["note_id"] = e.Note.ID
		p["note_title"] = e.Note.Title
	}
	if len(e.Changes) > 0 {
		p["changes"] = e.Changes
	}
	if len(e.Removed) > 0 {
		p["removed"] = e.Removed
	}
	return p
}
